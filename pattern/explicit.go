package pattern

// ExplicitNoteInput is one element of the ordered sequence passed to
// NewExplicitNote. It may describe a single note name, a single note
// event with explicit velocity/duration, or a bag of simultaneous notes
// (a chord on one step). Exactly one of the three should be set; if more
// than one is, only one is used: Rest wins, then a non-empty Chord, and
// NoteName only when neither of those is set.
type ExplicitNoteInput struct {
	// NoteName is a single scientific pitch name for this step.
	NoteName string
	// Velocity/DurationSteps apply when NoteName is set.
	Velocity      uint8
	DurationSteps int
	// Dur is a legacy alias for DurationSteps, accepted for migration
	// but never surfaced back out.
	Dur int
	// Chord is a bag of simultaneous note names/velocities for a chord
	// struck on this one step.
	Chord []ExplicitNoteInput
	// Rest marks this step as an explicit rest (no notes), distinct from
	// an empty ExplicitNoteInput{} which also means rest.
	Rest bool
}

func (in ExplicitNoteInput) resolvedDuration() int {
	d := in.DurationSteps
	if d == 0 {
		d = in.Dur
	}
	if d <= 0 {
		d = 1
	}
	return d
}

// normalize flattens one ExplicitNoteInput element into its NoteEvents.
func (in ExplicitNoteInput) normalize() []NoteEvent {
	if in.Rest {
		return nil
	}
	if len(in.Chord) > 0 {
		var out []NoteEvent
		for _, sub := range in.Chord {
			out = append(out, sub.normalize()...)
		}
		return out
	}
	if in.NoteName == "" {
		return nil
	}
	return []NoteEvent{{
		Pitch:         in.NoteName,
		Velocity:      in.Velocity,
		DurationSteps: in.resolvedDuration(),
	}}
}

// ExplicitNote is a cyclic fixed sequence of (possibly chordal) note
// events.
type ExplicitNote struct {
	steps [][]NoteEvent
}

// NewExplicitNote builds an ExplicitNote pattern from an ordered sequence
// of inputs. The pattern's step index is floor(step) mod length.
func NewExplicitNote(inputs []ExplicitNoteInput) *ExplicitNote {
	steps := make([][]NoteEvent, len(inputs))
	for i, in := range inputs {
		steps[i] = in.normalize()
	}
	if len(steps) == 0 {
		steps = [][]NoteEvent{{}}
	}
	return &ExplicitNote{steps: steps}
}

func (p *ExplicitNote) Length() int {
	return len(p.steps)
}

func (p *ExplicitNote) NotesAt(step int, ctx *Context) []NoteEvent {
	idx := step % len(p.steps)
	if idx < 0 {
		idx += len(p.steps)
	}
	if !ctx.IsBeat(step) {
		return nil
	}
	events := p.steps[idx]
	if len(events) == 0 {
		return nil
	}
	out := make([]NoteEvent, len(events))
	copy(out, events)
	return out
}
