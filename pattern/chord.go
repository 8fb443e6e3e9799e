package pattern

// ChordPatternConfig configures a ChordTrigger pattern.
type ChordPatternConfig struct {
	// Voicing selects close/open/spread octave distribution; defaults to
	// "close" when empty.
	Voicing string
	// Octave anchors the chord's root octave when the chord manager does
	// not supply explicit Notes; defaults to 4.
	Octave int
	// Velocities is a length-N array: step 0 uses Velocities[0], all
	// other trigger steps use Velocities[1] (or the remaining entries by
	// index, if longer). Defaults to [120, 90, 90, ...].
	Velocities []uint8
	// Length is the scheduling length reported to the runtime; the
	// pattern itself is driven entirely by chord-duration boundaries, so
	// this only affects hot-swap timing. Defaults to 16.
	Length int
}

// ChordTrigger emits notes only at chord-duration boundaries.
type ChordTrigger struct {
	voicing    string
	octave     int
	velocities []uint8
	length     int
}

// NewChordTrigger builds a ChordTrigger pattern from cfg.
func NewChordTrigger(cfg ChordPatternConfig) *ChordTrigger {
	voicing := cfg.Voicing
	if voicing == "" {
		voicing = "close"
	}
	octave := cfg.Octave
	if octave == 0 {
		octave = 4
	}
	velocities := cfg.Velocities
	if len(velocities) == 0 {
		velocities = []uint8{120, 90}
	}
	length := cfg.Length
	if length <= 0 {
		length = 16
	}
	return &ChordTrigger{voicing: voicing, octave: octave, velocities: velocities, length: length}
}

func (p *ChordTrigger) Length() int { return p.length }

func (p *ChordTrigger) velocityAt(step int) uint8 {
	if step < len(p.velocities) {
		return p.velocities[step]
	}
	return p.velocities[len(p.velocities)-1]
}

func (p *ChordTrigger) NotesAt(step int, ctx *Context) []NoteEvent {
	chord, ok := ctx.ChordAt(step)
	if !ok {
		return nil
	}
	duration := chord.ResolvedDuration()
	if step%duration != 0 {
		return nil
	}

	var names []string
	if len(chord.Notes) > 0 {
		names = chord.Notes
	} else {
		names = NotesForChord(chord, p.voicing, p.octave)
	}
	if len(names) == 0 {
		return nil
	}

	vel := p.velocityAt(step)
	out := make([]NoteEvent, len(names))
	for i, n := range names {
		dur := duration
		if d, ok := chord.NoteDurations[n]; ok && d > 0 {
			dur = d
		}
		out[i] = NoteEvent{Pitch: n, Velocity: vel, DurationSteps: dur}
	}
	return out
}
