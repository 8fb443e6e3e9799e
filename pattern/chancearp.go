package pattern

// ChanceArpConfig configures a probabilistic chord-tone walker.
type ChanceArpConfig struct {
	ProbabilityToAdvance int // 0..100
	RestProbability      int // 0..100
	AvoidRepeats         bool
	RootJump             bool
	VelocityVariation    int
	OctaveRange          int
	BaseVelocity         uint8
	Random               RandomSource
}

func (c *ChanceArpConfig) clamp() {
	if c.ProbabilityToAdvance < 0 {
		c.ProbabilityToAdvance = 0
	}
	if c.ProbabilityToAdvance > 100 {
		c.ProbabilityToAdvance = 100
	}
	if c.RestProbability < 0 {
		c.RestProbability = 0
	}
	if c.RestProbability > 100 {
		c.RestProbability = 100
	}
	if c.OctaveRange < 1 {
		c.OctaveRange = 1
	}
	if c.BaseVelocity == 0 {
		c.BaseVelocity = 90
	}
}

// ChanceArp walks the current chord's tones one probabilistic step at a
// time, with optional rests, repeat avoidance, and root-jump behavior.
type ChanceArp struct {
	cfg ChanceArpConfig

	currentIndex   int
	lastPlayed     string
	lastPlayedInit bool
}

// NewChanceArp builds a ChanceArp from cfg.
func NewChanceArp(cfg ChanceArpConfig) *ChanceArp {
	cfg.clamp()
	return &ChanceArp{cfg: cfg}
}

func (p *ChanceArp) Length() int { return 16 }

func (p *ChanceArp) Reset() {
	p.currentIndex = 0
	p.lastPlayed = ""
	p.lastPlayedInit = false
}

func (p *ChanceArp) NotesAt(step int, ctx *Context) []NoteEvent {
	chord, ok := ctx.ChordAt(step)
	if !ok || len(chordNotes(chord)) == 0 {
		return nil
	}
	notes := chordNotes(chord)
	random := orDefault(p.cfg.Random)

	if random()*100 < float64(p.cfg.RestProbability) {
		return nil
	}

	advance := random()*100 < float64(p.cfg.ProbabilityToAdvance)
	if p.cfg.AvoidRepeats && p.lastPlayedInit && p.lastPlayed == notes[p.currentIndex%len(notes)] {
		advance = true
	}

	if p.cfg.RootJump && p.lastPlayedInit && p.lastPlayed == notes[0] {
		p.currentIndex = len(notes) - 1
	} else if advance {
		p.currentIndex = (p.currentIndex + 1) % len(notes)
	}
	idx := p.currentIndex % len(notes)
	selected := notes[idx]

	octaveShift := 12 * int(random()*float64(p.cfg.OctaveRange))
	jitter := (2*random() - 1) * float64(p.cfg.VelocityVariation)
	velocity := clampVelocityFloat(float64(p.cfg.BaseVelocity) + jitter)

	p.lastPlayed = selected
	p.lastPlayedInit = true

	return []NoteEvent{{
		Pitch:         transposeNoteName(selected, octaveShift),
		Velocity:      velocity,
		DurationSteps: 1,
	}}
}

// TensionChanceArpConfig extends ChanceArpConfig with tension/hype-aware
// scaling.
type TensionChanceArpConfig struct {
	ChanceArpConfig
	TensionApproachProb float64 // base probability, scaled by tension factor
}

// TensionChanceArp is the richer arpeggiator variant: high tension lowers
// the rest probability and raises the odds of an approach note, and hype
// pushes velocity up.
type TensionChanceArp struct {
	cfg            TensionChanceArpConfig
	currentIndex   int
	lastPlayed     string
	lastPlayedInit bool
}

// NewTensionChanceArp builds a TensionChanceArp from cfg.
func NewTensionChanceArp(cfg TensionChanceArpConfig) *TensionChanceArp {
	cfg.ChanceArpConfig.clamp()
	return &TensionChanceArp{cfg: cfg}
}

func (p *TensionChanceArp) Length() int { return 16 }

func (p *TensionChanceArp) Reset() {
	p.currentIndex = 0
	p.lastPlayed = ""
	p.lastPlayedInit = false
}

func tensionFactor(t TensionLevel) float64 {
	switch t {
	case TensionLow:
		return 0.5
	case TensionMid:
		return 1.5
	case TensionHigh:
		return 2.5
	default:
		return 1.0
	}
}

func (p *TensionChanceArp) NotesAt(step int, ctx *Context) []NoteEvent {
	chord, ok := ctx.ChordAt(step)
	notes := chordNotes(chord)
	if !ok || len(notes) == 0 {
		return nil
	}
	random := orDefault(p.cfg.Random)

	restProbability := float64(p.cfg.RestProbability)
	if ctx.Tension() == TensionHigh {
		restProbability *= 0.5 // scales rest probability downward under tension=high
	}
	if random()*100 < restProbability {
		return nil
	}

	advance := random()*100 < float64(p.cfg.ProbabilityToAdvance)
	if p.cfg.AvoidRepeats && p.lastPlayedInit && p.lastPlayed == notes[p.currentIndex%len(notes)] {
		advance = true
	}
	if p.cfg.RootJump && p.lastPlayedInit && p.lastPlayed == notes[0] {
		p.currentIndex = len(notes) - 1
	} else if advance {
		p.currentIndex = (p.currentIndex + 1) % len(notes)
	}
	idx := p.currentIndex % len(notes)
	selected := notes[idx]

	octaveShift := 12 * int(random()*float64(p.cfg.OctaveRange))

	baseVelocity := float64(p.cfg.BaseVelocity)
	switch ctx.Hype() {
	case HypeMedium, HypeHigh:
		baseVelocity += 10 // scales velocity upward under hype=medium/high
	}
	jitter := (2*random() - 1) * float64(p.cfg.VelocityVariation)
	velocity := clampVelocityFloat(baseVelocity + jitter)

	approachProb := p.cfg.TensionApproachProb * tensionFactor(ctx.Tension())
	if random() < approachProb {
		sign := 1
		if random() < 0.5 {
			sign = -1
		}
		selected = transposeNoteName(selected, sign)
	}

	p.lastPlayed = notes[idx]
	p.lastPlayedInit = true

	return []NoteEvent{{
		Pitch:         transposeNoteName(selected, octaveShift),
		Velocity:      velocity,
		DurationSteps: 1,
	}}
}

func chordNotes(c Chord) []string {
	if len(c.Notes) > 0 {
		return c.Notes
	}
	return NotesForChord(c, "close", 4)
}

func clampVelocityFloat(v float64) uint8 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
