package bus

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // auto-register RtMIDI driver
)

// MIDIBus sends NoteOn/NoteOff/ControlChange over a real MIDI output port.
type MIDIBus struct {
	port drivers.Out
	send func(msg midi.Message) error
}

// ListPorts returns the available MIDI output port names.
func ListPorts() ([]string, error) {
	ports := midi.GetOutPorts()
	names := make([]string, len(ports))
	for i, port := range ports {
		names[i] = port.String()
	}
	return names, nil
}

// OpenMIDIBus opens a MIDI output port by index and wraps it as a Bus.
func OpenMIDIBus(portIndex int) (*MIDIBus, error) {
	port, err := midi.OutPort(portIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get MIDI port %d: %w", portIndex, err)
	}

	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}

	return &MIDIBus{port: port, send: send}, nil
}

// Close closes the underlying MIDI output port.
func (b *MIDIBus) Close() error {
	return b.port.Close()
}

// channelIndex converts 1..16 channel numbering to gomidi's 0-indexed
// channel.
func channelIndex(channel uint8) uint8 {
	if channel == 0 {
		return 0
	}
	return channel - 1
}

func (b *MIDIBus) NoteOn(e NoteOn) error {
	return b.send(midi.NoteOn(channelIndex(e.Channel), e.Note, e.Velocity))
}

func (b *MIDIBus) NoteOff(e NoteOff) error {
	return b.send(midi.NoteOff(channelIndex(e.Channel), e.Note))
}

func (b *MIDIBus) ControlChange(e ControlChange) error {
	return b.send(midi.ControlChange(channelIndex(e.Channel), e.CC, e.Value))
}
