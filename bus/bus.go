// Package bus defines the event sink that the LiveLoop runtime emits
// noteOn, noteOff, and controlChange records to, plus a concrete MIDI
// implementation over gomidi/midi/v2.
package bus

import "fmt"

// NoteOn is emitted when a pattern triggers a new sounding note.
type NoteOn struct {
	Channel  uint8 // 1..16
	Note     uint8 // 0..127
	Velocity uint8 // 1..127
}

// NoteOff is emitted when an ActiveNote is retired.
type NoteOff struct {
	Channel uint8 // 1..16
	Note    uint8 // 0..127
}

// ControlChange is emitted once per tick per LFO.
type ControlChange struct {
	Channel uint8 // 1..16
	CC      uint8 // 0..127
	Value   uint8 // 0..127
}

// Bus is the thin sink every LiveLoop writes to. Implementations must not
// block indefinitely: a slow bus stalls every loop sharing the same clock
// tick.
type Bus interface {
	NoteOn(NoteOn) error
	NoteOff(NoteOff) error
	ControlChange(ControlChange) error
}

// Null is a Bus that discards every event. Useful for tests that only
// assert on LiveLoop's internal ActiveNote bookkeeping.
type Null struct{}

func (Null) NoteOn(NoteOn) error               { return nil }
func (Null) NoteOff(NoteOff) error             { return nil }
func (Null) ControlChange(ControlChange) error { return nil }

// Recording is a Bus that appends every event it receives, in order, to an
// in-memory log. Tests use it to assert on event ordering and pairing.
type Recording struct {
	Events []any
}

func (r *Recording) NoteOn(e NoteOn) error {
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recording) NoteOff(e NoteOff) error {
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recording) ControlChange(e ControlChange) error {
	r.Events = append(r.Events, e)
	return nil
}

// NoteOns returns every NoteOn event recorded, in order.
func (r *Recording) NoteOns() []NoteOn {
	var out []NoteOn
	for _, e := range r.Events {
		if n, ok := e.(NoteOn); ok {
			out = append(out, n)
		}
	}
	return out
}

// NoteOffs returns every NoteOff event recorded, in order.
func (r *Recording) NoteOffs() []NoteOff {
	var out []NoteOff
	for _, e := range r.Events {
		if n, ok := e.(NoteOff); ok {
			out = append(out, n)
		}
	}
	return out
}

// String renders the event log for debugging/test failure messages.
func (r *Recording) String() string {
	s := ""
	for _, e := range r.Events {
		switch v := e.(type) {
		case NoteOn:
			s += fmt.Sprintf("on(ch=%d,note=%d,vel=%d) ", v.Channel, v.Note, v.Velocity)
		case NoteOff:
			s += fmt.Sprintf("off(ch=%d,note=%d) ", v.Channel, v.Note)
		case ControlChange:
			s += fmt.Sprintf("cc(ch=%d,cc=%d,val=%d) ", v.Channel, v.CC, v.Value)
		}
	}
	return s
}
