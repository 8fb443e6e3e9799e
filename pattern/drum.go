package pattern

import "sort"

// DrumPatternConfig configures a Drum pattern.
type DrumPatternConfig struct {
	// Medium maps drum-part name to a 0/1 array of length PatternLength;
	// this is the medium-intensity grid patterns are derived from.
	Medium map[string][]int
	// PitchNames maps drum-part name to the NoteName it triggers;
	// defaults to "C3" for any part not present.
	PitchNames map[string]string
	// PatternLength defaults to 16.
	PatternLength int
	Random        RandomSource
}

type drumVariant struct {
	low, medium, high []int
}

// Drum derives low/medium/high intensity variants from a medium-intensity
// seed grid, pinned at construction; there is no re-randomisation per
// tick.
type Drum struct {
	parts         map[string]drumVariant
	partOrder     []string
	pitchNames    map[string]string
	patternLength int
}

// NewDrum builds a Drum pattern from cfg.
func NewDrum(cfg DrumPatternConfig) *Drum {
	length := cfg.PatternLength
	if length <= 0 {
		length = 16
	}
	random := orDefault(cfg.Random)

	parts := make(map[string]drumVariant, len(cfg.Medium))
	order := make([]string, 0, len(cfg.Medium))
	for name := range cfg.Medium {
		order = append(order, name)
	}
	sort.Strings(order)
	for _, name := range order {
		m := fitGrid(cfg.Medium[name], length)
		low := deriveLow(m, random)
		high := deriveHigh(m, random)
		parts[name] = drumVariant{low: low, medium: m, high: high}
	}

	pitchNames := make(map[string]string, len(cfg.PitchNames))
	for k, v := range cfg.PitchNames {
		pitchNames[k] = v
	}

	return &Drum{parts: parts, partOrder: order, pitchNames: pitchNames, patternLength: length}
}

func fitGrid(src []int, length int) []int {
	out := make([]int, length)
	for i := range out {
		if len(src) > 0 {
			out[i] = src[i%len(src)]
		}
	}
	return out
}

// deriveLow keeps every hit at idx%4==0; other hits are retained with
// probability 0.3.
func deriveLow(medium []int, random RandomSource) []int {
	out := make([]int, len(medium))
	for i, v := range medium {
		if v == 0 {
			continue
		}
		if i%4 == 0 {
			out[i] = 1
			continue
		}
		if random() < 0.3 {
			out[i] = 1
		}
	}
	return out
}

// deriveHigh keeps every medium hit; for each empty step with idx%2!=0,
// inserts a hit with probability 0.4.
func deriveHigh(medium []int, random RandomSource) []int {
	out := make([]int, len(medium))
	for i, v := range medium {
		if v != 0 {
			out[i] = 1
			continue
		}
		if i%2 != 0 && random() < 0.4 {
			out[i] = 1
		}
	}
	return out
}

func (p *Drum) Length() int { return p.patternLength }

func (p *Drum) pitchFor(part string) string {
	if n, ok := p.pitchNames[part]; ok {
		return n
	}
	return "C3"
}

func (p *Drum) NotesAt(step int, ctx *Context) []NoteEvent {
	idx := step % p.patternLength
	if idx < 0 {
		idx += p.patternLength
	}

	hype := ctx.Hype() // hype level selects the active intensity variant
	var out []NoteEvent
	for _, part := range p.partOrder {
		v := p.parts[part]
		var grid []int
		switch hype {
		case HypeLow:
			grid = v.low
		case HypeHigh:
			grid = v.high
		default:
			grid = v.medium
		}
		if idx < len(grid) && grid[idx] == 1 {
			out = append(out, NoteEvent{Pitch: p.pitchFor(part), Velocity: 100, DurationSteps: 1})
		}
	}
	return out
}

// CountHits reports the number of 1s in a named part's variant array, for
// tests asserting intensity monotonicity.
func (p *Drum) CountHits(part, variant string) int {
	v, ok := p.parts[part]
	if !ok {
		return 0
	}
	var grid []int
	switch variant {
	case "low":
		grid = v.low
	case "high":
		grid = v.high
	default:
		grid = v.medium
	}
	n := 0
	for _, x := range grid {
		if x == 1 {
			n++
		}
	}
	return n
}
