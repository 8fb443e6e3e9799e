package pattern

import "github.com/iltempo/steploop/pitch"

// chordIntervals is the fixed lookup table of semitone intervals above the
// root for each supported chord type. Unknown types fall back to the
// major triad.
var chordIntervals = map[string][]int{
	// triads
	"maj":  {0, 4, 7},
	"min":  {0, 3, 7},
	"dim":  {0, 3, 6},
	"aug":  {0, 4, 8},
	"sus2": {0, 2, 7},
	"sus4": {0, 5, 7},
	// sevenths
	"maj7":   {0, 4, 7, 11},
	"min7":   {0, 3, 7, 10},
	"7":      {0, 4, 7, 10},
	"dim7":   {0, 3, 6, 9},
	"min7b5": {0, 3, 6, 10},
	"aug7":   {0, 4, 8, 10},
	// extensions
	"9":    {0, 4, 7, 10, 14},
	"maj9": {0, 4, 7, 11, 14},
	"min9": {0, 3, 7, 10, 14},
	// tensions
	"7#9":     {0, 4, 7, 10, 15},
	"7b9":     {0, 4, 7, 10, 13},
	"7#11":    {0, 4, 7, 10, 18},
	"maj7#11": {0, 4, 7, 11, 18},
	"maj7#5":  {0, 4, 8, 11},
	"min7b9":  {0, 3, 7, 10, 13},
	// added tones
	"maj6": {0, 4, 7, 9},
	"min6": {0, 3, 7, 9},
}

func intervalsFor(chordType string) []int {
	if iv, ok := chordIntervals[chordType]; ok {
		return iv
	}
	return chordIntervals["maj"]
}

// applyVoicing shifts selected intervals up an octave according to the
// voicing style: close = unchanged; open = third up an octave for triads;
// spread = each tone spread by an additional octave (triads) or
// floor((i+1)/2)*12 added to each non-root tone.
func applyVoicing(intervals []int, voicing string) []int {
	out := make([]int, len(intervals))
	copy(out, intervals)

	isTriad := len(intervals) == 3

	switch voicing {
	case "open":
		if isTriad && len(out) >= 2 {
			out[1] += 12 // shift the third up an octave
		}
	case "spread":
		if isTriad {
			for i := 1; i < len(out); i++ {
				out[i] += 12
			}
		} else {
			for i := 1; i < len(out); i++ {
				out[i] += ((i + 1) / 2) * 12
			}
		}
	}
	return out
}

// rootSemitone resolves a NoteName-class root ("C", "F#") to a pitch class
// 0..11 by parsing it against octave 4 and taking the result mod 12. This
// keeps the chord table's root values independent of any particular
// octave; NotesForChord re-anchors to the requested octave.
func rootSemitone(root string) int {
	if v, err := pitch.Parse(root + "4"); err == nil {
		return int(v) % 12
	}
	return 0
}

// NotesForChord expands a Chord into concrete NoteName strings in the
// given octave, using c.Notes directly when supplied, otherwise the
// interval table for c.Type with the requested voicing.
func NotesForChord(c Chord, voicing string, octave int) []string {
	if len(c.Notes) > 0 {
		return c.Notes
	}
	base := rootSemitone(c.Root)
	intervals := applyVoicing(intervalsFor(c.Type), voicing)

	notes := make([]string, len(intervals))
	for i, iv := range intervals {
		semitone := 12*(octave+1) + base + iv
		notes[i] = pitch.Name(pitch.Clamp(semitone))
	}
	return notes
}
