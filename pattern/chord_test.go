package pattern

import "testing"

type constantChordManager struct {
	chord Chord
}

func (c constantChordManager) ChordAt(step int) (Chord, bool) { return c.chord, true }
func (c constantChordManager) CurrentChordNotes() []string {
	if len(c.chord.Notes) > 0 {
		return c.chord.Notes
	}
	return NotesForChord(c.chord, "close", 4)
}

func TestChordTriggerMaj7(t *testing.T) {
	p := NewChordTrigger(ChordPatternConfig{Voicing: "close", Octave: 4})
	ctx := &Context{Chord: constantChordManager{chord: Chord{Root: "C", Type: "maj7", Duration: 16}}}

	notes := p.NotesAt(0, ctx)
	if len(notes) != 4 {
		t.Fatalf("expected 4 notes for maj7, got %d: %+v", len(notes), notes)
	}
	want := map[string]bool{"C4": true, "E4": true, "G4": true, "B4": true}
	for _, n := range notes {
		if !want[n.Pitch] {
			t.Errorf("unexpected note %s in maj7 voicing", n.Pitch)
		}
	}
	if notes[0].Velocity != 120 {
		t.Errorf("step 0 velocity should be 120, got %d", notes[0].Velocity)
	}

	for s := 1; s < 16; s++ {
		if notes := p.NotesAt(s, ctx); len(notes) != 0 {
			t.Errorf("step %d should yield no notes between chord boundaries, got %+v", s, notes)
		}
	}
	if notes := p.NotesAt(16, ctx); len(notes) != 4 {
		t.Errorf("step 16 boundary should retrigger, got %+v", notes)
	}
}

func TestChordTriggerUnknownTypeFallsBackToMajor(t *testing.T) {
	p := NewChordTrigger(ChordPatternConfig{})
	ctx := &Context{Chord: constantChordManager{chord: Chord{Root: "D", Type: "madeup", Duration: 4}}}
	notes := p.NotesAt(0, ctx)
	want := map[string]bool{"D4": true, "F#4": true, "A4": true}
	if len(notes) != 3 {
		t.Fatalf("expected major triad fallback (3 notes), got %+v", notes)
	}
	for _, n := range notes {
		if !want[n.Pitch] {
			t.Errorf("unexpected note %s in fallback major triad", n.Pitch)
		}
	}
}

func TestChordTriggerNoManagerYieldsNothing(t *testing.T) {
	p := NewChordTrigger(ChordPatternConfig{})
	if notes := p.NotesAt(0, nil); len(notes) != 0 {
		t.Errorf("missing chord manager should yield [], got %+v", notes)
	}
}

func TestVoicingOpenShiftsThirdUp(t *testing.T) {
	close := applyVoicing(chordIntervals["maj"], "close")
	open := applyVoicing(chordIntervals["maj"], "open")
	if open[1] != close[1]+12 {
		t.Errorf("open voicing should shift the third up an octave: close=%v open=%v", close, open)
	}
}
