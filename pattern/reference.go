package pattern

// The managers below are minimal reference implementations, not a
// harmonic engine. They exist so pattern tests and the demo entry point
// have concrete collaborators to construct.

// StaticChordManager cycles through a fixed list of chords, one per
// Duration-width window, looping once exhausted. The chord most recently
// resolved by ChordAt is what CurrentChordNotes reports.
type StaticChordManager struct {
	Chords []Chord

	current    Chord
	currentSet bool
}

func (m *StaticChordManager) ChordAt(step int) (Chord, bool) {
	if len(m.Chords) == 0 {
		return Chord{}, false
	}
	// Walk the list accumulating durations until step falls in a window.
	pos := 0
	for i, c := range m.Chords {
		dur := c.ResolvedDuration()
		if step >= pos && step < pos+dur {
			m.current = m.Chords[i]
			m.currentSet = true
			return m.Chords[i], true
		}
		pos += dur
	}
	// step is past the last window; loop.
	total := pos
	if total == 0 {
		return Chord{}, false
	}
	return m.ChordAt(step % total)
}

func (m *StaticChordManager) CurrentChordNotes() []string {
	c := m.current
	if !m.currentSet {
		var ok bool
		c, ok = m.ChordAt(0)
		if !ok {
			return nil
		}
	}
	if len(c.Notes) > 0 {
		return c.Notes
	}
	return NotesForChord(c, "close", 3)
}

// FixedEnergyManager reports constant hype/tension levels.
type FixedEnergyManager struct {
	Hype    HypeLevel
	Tension TensionLevel
}

func (m FixedEnergyManager) HypeLevel() HypeLevel       { return m.Hype }
func (m FixedEnergyManager) TensionLevel() TensionLevel { return m.Tension }

// FourFourRhythm implements a straight 4/4 meter over a 16-step bar (with
// the default 4 steps per beat): beats at multiples of 4, the downbeat at
// multiples of 16, offbeats halfway between beats (step%4 == 2), and the
// remaining steps none of these.
type FourFourRhythm struct {
	StepsPerBeat int // default 4
}

func (m FourFourRhythm) stepsPerBeat() int {
	if m.StepsPerBeat <= 0 {
		return 4
	}
	return m.StepsPerBeat
}

func (m FourFourRhythm) IsBeat(step int) bool {
	return step%m.stepsPerBeat() == 0
}

func (m FourFourRhythm) IsDownbeat(step int) bool {
	spb := m.stepsPerBeat()
	return step%(spb*4) == 0
}

func (m FourFourRhythm) IsOffbeat(step int) bool {
	spb := m.stepsPerBeat()
	return step%spb == spb/2
}

func (m FourFourRhythm) Subdivision(step int) int {
	switch {
	case m.IsDownbeat(step):
		return 0
	case m.IsBeat(step):
		return 1
	case m.IsOffbeat(step):
		return 2
	default:
		return 3
	}
}
