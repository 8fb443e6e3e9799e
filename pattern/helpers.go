package pattern

import "github.com/iltempo/steploop/pitch"

// transposeNoteName shifts a scientific pitch name by semitones, clamping
// to the legal MIDI range, and returns the resulting name.
func transposeNoteName(name string, semitones int) string {
	base := pitch.Resolve(name)
	return pitch.Name(pitch.Clamp(int(base) + semitones))
}
