package pattern

import "github.com/iltempo/steploop/pitch"

// subSectionPreset describes one named sub-section's melodic behavior:
// pitch direction, duration-beats range, and velocity factor/jitter.
type subSectionPreset struct {
	direction        string
	durationBeatsMin float64
	durationBeatsMax float64
	velocityFactor   float64
	jitter           float64
}

var subSectionPresets = map[string]subSectionPreset{
	"intro":   {"mild_asc", 0.5, 1.0, 0.9, 5},
	"build":   {"ascend", 0.25, 0.5, 1.0, 10},
	"peak":    {"high", 0.75, 1.5, 1.2, 5},
	"plateau": {"upper_stable", 0.5, 1.0, 1.1, 5},
	"fall":    {"descend", 0.5, 1.0, 1.0, 8},
	"resolve": {"stable_low", 0.5, 1.0, 0.9, 5},
	"cadence": {"root_hold", 2.0, 2.0, 0.8, 3},
	"bridge":  {"wander", 0.25, 0.75, 1.0, 10},
	"tag":     {"repeat", 0.5, 1.0, 1.0, 5},
}

// subSectionSegment is one named span of the phrase's local step range.
type subSectionSegment struct {
	name      string
	startStep int
	endStep   int // exclusive
}

// PhraseContourConfig configures a PhraseContourMelody pattern.
type PhraseContourConfig struct {
	PhraseBars           int      // default 4
	SubSections          []string // default ["build","peak","resolve"]
	StepsPerBar          int      // default 16
	CadenceBeats         float64  // default 2
	MelodicDensity       float64  // 0..1
	BaseVelocity         uint8
	TensionEmbellishProb float64
	HypeDynamics         map[HypeLevel]float64 // default low:1.0 medium:1.2 high:1.4
	Random               RandomSource
	Octave               int // default 4; stored but not read: targets keep the chord manager's own octaves
}

// heldNote tracks its end as an absolute step, not a phrase-local one: a
// cadence hold ends exactly at the phrase boundary, where the local step
// wraps to 0 and a local comparison would never see the end arrive.
type heldNote struct {
	semitone uint8
	endStep  int
}

// PhraseContourMelody is a multi-bar phrase-structured melodic generator.
// It keeps its own hold bookkeeping only to suppress re-triggering a note
// that is still sounding; the reported DurationSteps is the true value,
// so the runtime's end-step scheduling handles the actual noteOff.
type PhraseContourMelody struct {
	cfg         PhraseContourConfig
	totalSteps  int
	segments    []subSectionSegment
	cadenceFrom int
	random      RandomSource
	held        *heldNote
}

func defaultHypeDynamics() map[HypeLevel]float64 {
	return map[HypeLevel]float64{HypeLow: 1.0, HypeMedium: 1.2, HypeHigh: 1.4}
}

// NewPhraseContourMelody builds the pattern and its SubSectionMap once.
func NewPhraseContourMelody(cfg PhraseContourConfig) *PhraseContourMelody {
	if cfg.PhraseBars <= 0 {
		cfg.PhraseBars = 4
	}
	if len(cfg.SubSections) == 0 {
		cfg.SubSections = []string{"build", "peak", "resolve"}
	}
	if cfg.StepsPerBar <= 0 {
		cfg.StepsPerBar = 16
	}
	if cfg.CadenceBeats <= 0 {
		cfg.CadenceBeats = 2
	}
	if cfg.MelodicDensity <= 0 {
		cfg.MelodicDensity = 0.6
	}
	if cfg.MelodicDensity > 1 {
		cfg.MelodicDensity = 1
	}
	if cfg.BaseVelocity == 0 {
		cfg.BaseVelocity = 100
	}
	if cfg.HypeDynamics == nil {
		cfg.HypeDynamics = defaultHypeDynamics()
	}
	if cfg.Octave == 0 {
		cfg.Octave = 4
	}

	total := cfg.PhraseBars * cfg.StepsPerBar
	cadenceSteps := int(cfg.CadenceBeats * (float64(cfg.StepsPerBar) / 4.0))
	if cadenceSteps > total {
		cadenceSteps = total
	}
	main := total - cadenceSteps

	segments := buildSegments(cfg.SubSections, main, cadenceSteps, total)

	return &PhraseContourMelody{
		cfg:         cfg,
		totalSteps:  total,
		segments:    segments,
		cadenceFrom: total - cadenceSteps,
		random:      orDefault(cfg.Random),
	}
}

func buildSegments(names []string, main, cadenceSteps, total int) []subSectionSegment {
	n := len(names)
	segments := make([]subSectionSegment, 0, n+1)
	if n == 0 {
		segments = append(segments, subSectionSegment{"cadence", 0, total})
		return segments
	}
	base := main / n
	pos := 0
	for i, name := range names {
		width := base
		if i == n-1 {
			width = main - pos // last absorbs remainder
		}
		segments = append(segments, subSectionSegment{name, pos, pos + width})
		pos += width
	}
	if cadenceSteps > 0 {
		segments = append(segments, subSectionSegment{"cadence", pos, pos + cadenceSteps})
	}
	return segments
}

func (p *PhraseContourMelody) Length() int { return p.totalSteps }

func (p *PhraseContourMelody) Reset() {
	p.held = nil
}

func (p *PhraseContourMelody) segmentAt(localStep int) subSectionSegment {
	for _, s := range p.segments {
		if localStep >= s.startStep && localStep < s.endStep {
			return s
		}
	}
	return p.segments[len(p.segments)-1]
}

func (p *PhraseContourMelody) NotesAt(step int, ctx *Context) []NoteEvent {
	localStep := step % p.totalSteps
	if localStep < 0 {
		localStep += p.totalSteps
	}

	if p.held != nil && p.held.endStep <= step {
		p.held = nil
	}
	if p.held != nil {
		return nil // still sounding; suppress retrigger
	}

	tension := tensionFactor(ctx.Tension())
	actualEmbellish := p.cfg.TensionEmbellishProb * tension
	if actualEmbellish > 1 {
		actualEmbellish = 1
	}

	hypeScale := p.cfg.HypeDynamics[ctx.Hype()]
	if hypeScale == 0 {
		hypeScale = 1.0
	}
	scaledDensity := p.cfg.MelodicDensity * hypeScale
	if scaledDensity > 1 {
		scaledDensity = 1
	}

	inCadence := localStep >= p.cadenceFrom

	if !inCadence && p.random() < 1-scaledDensity {
		return nil
	}

	seg := p.segmentAt(localStep)
	preset, ok := subSectionPresets[seg.name]
	if !ok {
		preset = subSectionPresets["build"]
	}

	notes := ctx.CurrentChordNotes()
	if len(notes) == 0 {
		return nil
	}
	sorted := sortedBySemitone(notes)

	target := selectByDirection(sorted, preset.direction, p.random)

	if p.random() < actualEmbellish {
		sign := 1
		if p.random() < 0.5 {
			sign = -1
		}
		target = transposeNoteName(target, sign)
	}

	jitter := (p.random() - 0.5) * preset.jitter
	velocity := clampVelocityFloat(float64(p.cfg.BaseVelocity)*hypeScale*preset.velocityFactor + jitter)

	durationBeats := preset.durationBeatsMin
	if preset.durationBeatsMax > preset.durationBeatsMin {
		durationBeats += p.random() * (preset.durationBeatsMax - preset.durationBeatsMin)
	}
	durationSteps := int(durationBeats * (float64(p.cfg.StepsPerBar) / 4.0))
	if durationSteps < 1 {
		durationSteps = 1
	}

	if inCadence {
		durationSteps = p.totalSteps - localStep
	}
	if localStep+durationSteps > p.totalSteps {
		durationSteps = p.totalSteps - localStep
	}

	semitone := pitch.Resolve(target)
	if durationSteps > 1 {
		p.held = &heldNote{semitone: semitone, endStep: step + durationSteps}
	}

	return []NoteEvent{{
		Semitone:      semitone,
		Velocity:      velocity,
		DurationSteps: durationSteps,
	}}
}

func sortedBySemitone(notes []string) []string {
	out := make([]string, len(notes))
	copy(out, notes)
	// insertion sort: these lists are always short (chord-sized)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && pitch.Resolve(out[j-1]) > pitch.Resolve(out[j]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func selectByDirection(sorted []string, direction string, random RandomSource) string {
	n := len(sorted)
	if n == 0 {
		return ""
	}
	switch direction {
	case "ascend", "high":
		return sorted[n-1]
	case "descend", "stable_low", "root_hold":
		return sorted[0]
	case "mild_asc":
		half := n / 2
		if half >= n {
			half = n - 1
		}
		idx := half + int(random()*float64(n-half))
		if idx >= n {
			idx = n - 1
		}
		return sorted[idx]
	case "upper_stable":
		idx := n - 2
		if idx < 0 {
			idx = 0
		}
		return sorted[idx]
	case "wander":
		idx := int(random() * float64(n))
		if idx >= n {
			idx = n - 1
		}
		return sorted[idx]
	case "repeat", "stable":
		return sorted[n/2]
	default:
		return sorted[n/2]
	}
}
