// Package pitch implements the bidirectional map between scientific pitch
// names (e.g. "C4", "F#3") and MIDI semitone numbers.
package pitch

import (
	"fmt"
	"regexp"
	"strconv"
)

// FallbackSemitone (middle C) is returned by Resolve when a NoteName
// cannot be parsed.
const FallbackSemitone = 60

var nameRE = regexp.MustCompile(`^([A-G])([#b]?)(-?\d+)$`)

var pitchClass = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

var sharpNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Parse converts a scientific pitch name into a MIDI semitone 0..127.
// It returns an error for unparseable names or names resolving outside
// the valid MIDI range; callers that need silent-fallback behavior
// should use Resolve instead.
func Parse(name string) (uint8, error) {
	m := nameRE.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("invalid note name: %q", name)
	}

	base, accidental, octaveStr := m[1], m[2], m[3]
	octave, err := strconv.Atoi(octaveStr)
	if err != nil {
		return 0, fmt.Errorf("invalid note name: %q", name)
	}

	class := pitchClass[base]
	switch accidental {
	case "#":
		class++
	case "b":
		class--
	}

	semitone := 12*(octave+1) + class
	if semitone < 0 || semitone > 127 {
		return 0, fmt.Errorf("note out of range: %q", name)
	}
	return uint8(semitone), nil
}

// Resolve converts a scientific pitch name into a semitone, never failing:
// unparseable input maps to FallbackSemitone.
func Resolve(name string) uint8 {
	s, err := Parse(name)
	if err != nil {
		return FallbackSemitone
	}
	return s
}

// Name converts a semitone back to its sharp-spelled scientific pitch name.
func Name(semitone uint8) string {
	octave := int(semitone)/12 - 1
	class := sharpNames[int(semitone)%12]
	return fmt.Sprintf("%s%d", class, octave)
}

// Clamp forces a semitone into the legal MIDI range 0..127, saturating
// rather than wrapping.
func Clamp(semitone int) uint8 {
	if semitone < 0 {
		return 0
	}
	if semitone > 127 {
		return 127
	}
	return uint8(semitone)
}

// ClampVelocity forces a velocity into the legal MIDI range 1..127.
func ClampVelocity(v int) uint8 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// ClampCC forces a controller value into the legal MIDI range 0..127.
func ClampCC(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
