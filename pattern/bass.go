package pattern

import "github.com/iltempo/steploop/pitch"

// genreSeed16 is the fixed 16-step seed table for each supported genre.
// Each element is 0 (rest) or a positive integer N meaning "an event
// starts here and covers the next N steps".
var genreSeed16 = map[string][]int{
	"funk":     {2, 0, 0, 1, 0, 0, 2, 0, 0, 0, 1, 0, 2, 0, 1, 0},
	"latin":    {1, 0, 1, 0, 0, 1, 0, 1, 0, 0, 1, 0, 1, 0, 0, 1},
	"reggae":   {0, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0},
	"hiphop":   {3, 0, 0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 1, 0, 0},
	"rock":     {2, 0, 2, 0, 2, 0, 2, 0, 2, 0, 2, 0, 2, 0, 2, 0},
	"house":    {2, 0, 0, 0, 2, 0, 0, 0, 2, 0, 0, 0, 2, 0, 0, 0},
	"afrobeat": {1, 0, 1, 0, 0, 1, 0, 0, 1, 0, 1, 0, 0, 1, 0, 0},
}

// SyncopatedBassConfig configures a SyncopatedBass pattern.
type SyncopatedBassConfig struct {
	PatternLength int     // default 16
	Genre         string  // default "funk" if unrecognized
	Octave        int     // default 2
	Density       float64 // 0..1
	Random        RandomSource
}

// SyncopatedBass is a genre-seeded multi-step event grid with density
// shaping.
type SyncopatedBass struct {
	length int
	octave int
	array  []int // 0 = rest, N = event of N steps starting here
	random RandomSource
}

// NewSyncopatedBass builds a SyncopatedBass pattern from cfg.
func NewSyncopatedBass(cfg SyncopatedBassConfig) *SyncopatedBass {
	length := cfg.PatternLength
	if length <= 0 {
		length = 16
	}
	octave := cfg.Octave
	if octave == 0 {
		octave = 2
	}
	density := cfg.Density
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}
	random := orDefault(cfg.Random)

	seed, ok := genreSeed16[cfg.Genre]
	if !ok {
		seed = genreSeed16["funk"]
	}
	array := adaptSeed(seed, length)
	array = applyDensity(array, length, density, random)

	return &SyncopatedBass{length: length, octave: octave, array: array, random: random}
}

func (p *SyncopatedBass) Length() int { return p.length }

// Reset is a no-op: SyncopatedBass carries no per-step traversal state
// beyond the pinned construction-time array.
func (p *SyncopatedBass) Reset() {}

// EventCount returns the number of distinct events in the pattern's
// pinned array.
func (p *SyncopatedBass) EventCount() int {
	n := 0
	for _, v := range p.array {
		if v > 0 {
			n++
		}
	}
	return n
}

// adaptSeed truncates or tiles a 16-step seed to the requested length,
// preserving multi-step event shapes.
func adaptSeed(seed []int, length int) []int {
	if length <= len(seed) {
		out := make([]int, length)
		copy(out, seed[:length])
		// Continuation steps are already 0 in the seed, so truncation only
		// drops cells. An event that starts before the cut keeps its full
		// duration N and so can run past the end of the pattern.
		return out
	}
	out := make([]int, length)
	for i := 0; i < length; i++ {
		out[i] = seed[i%len(seed)]
	}
	return out
}

// coveredSteps returns, for each index, whether it is occupied by an
// event (either the start or a continuation of one).
func coveredSteps(array []int, length int) []bool {
	covered := make([]bool, length)
	for i, n := range array {
		if n <= 0 {
			continue
		}
		for k := 0; k < n && i+k < length; k++ {
			covered[i+k] = true
		}
	}
	return covered
}

func applyDensity(array []int, length int, density float64, random RandomSource) []int {
	out := make([]int, len(array))
	copy(out, array)

	if density == 0 {
		for i := range out {
			out[i] = 0
		}
		return out
	}

	if density == 1 {
		covered := coveredSteps(out, length)
		i := 0
		for i < length {
			if covered[i] {
				i++
				continue
			}
			dur := 1
			if random() < 0.3 && i+1 < length && !covered[i+1] {
				dur = 2
			}
			out[i] = dur
			for k := 0; k < dur; k++ {
				covered[i+k] = true
			}
			i += dur
		}
		return out
	}

	target := int(float64(length) * density)
	eventStarts := func() []int {
		var starts []int
		for i, n := range out {
			if n > 0 {
				starts = append(starts, i)
			}
		}
		return starts
	}

	for len(eventStarts()) > target {
		starts := eventStarts()
		pick := starts[int(random()*float64(len(starts)))%len(starts)]
		out[pick] = 0
	}

	const maxRetries = 64
	for len(eventStarts()) < target {
		covered := coveredSteps(out, length)
		inserted := false
		for attempt := 0; attempt < maxRetries; attempt++ {
			start := int(random() * float64(length))
			if start < 0 {
				start = 0
			}
			if start >= length || covered[start] {
				continue
			}
			dur := 1
			if random() < 0.3 && start+1 < length && !covered[start+1] {
				dur = 2
			}
			out[start] = dur
			inserted = true
			break
		}
		if !inserted {
			break // bounded retry exhausted; accept whatever density we reached
		}
	}

	return out
}

// pickChordTone draws a chord tone by weight: root 50%, third 30%,
// fifth 15%, extension 5% when present.
func pickChordTone(notes []string, random RandomSource) string {
	r := random()
	switch {
	case len(notes) >= 4 && r < 0.05:
		return notes[3]
	case len(notes) >= 3 && r < 0.20:
		return notes[2]
	case len(notes) >= 2 && r < 0.50:
		return notes[1]
	default:
		return notes[0]
	}
}

func (p *SyncopatedBass) NotesAt(step int, ctx *Context) []NoteEvent {
	idx := step % p.length
	if idx < 0 {
		idx += p.length
	}
	dur := p.array[idx]
	if dur == 0 {
		return nil
	}

	notes := ctx.CurrentChordNotes()
	if len(notes) == 0 {
		return nil
	}

	selected := pickChordTone(notes, p.random)

	if ctx.Tension() == TensionHigh && p.random() < 0.3 {
		sign := 1
		if p.random() < 0.5 {
			sign = -1
		}
		selected = transposeNoteName(selected, sign)
	}

	semitone := pitch.Resolve(selected)
	pitchClass := int(semitone) % 12
	forced := 12*(p.octave+1) + pitchClass

	velocity := 90
	switch ctx.Hype() {
	case HypeMedium:
		velocity += 10
	case HypeHigh:
		velocity += 20
	}
	if ctx.IsDownbeat(step) {
		velocity += 10
	}
	if ctx.IsOffbeat(step) {
		velocity -= 10
	}

	return []NoteEvent{{
		Semitone:      pitch.Clamp(forced),
		Velocity:      clampVelocityFloat(float64(velocity)),
		DurationSteps: dur,
	}}
}
