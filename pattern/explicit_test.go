package pattern

import "testing"

func TestExplicitNoteCycle(t *testing.T) {
	p := NewExplicitNote([]ExplicitNoteInput{
		{NoteName: "C4"},
		{Rest: true},
		{Chord: []ExplicitNoteInput{{NoteName: "C4"}, {NoteName: "E4"}}},
	})
	if p.Length() != 3 {
		t.Fatalf("length = %d, want 3", p.Length())
	}

	notes := p.NotesAt(0, nil)
	if len(notes) != 1 || notes[0].Pitch != "C4" {
		t.Fatalf("step 0 = %+v", notes)
	}
	if notes := p.NotesAt(1, nil); len(notes) != 0 {
		t.Fatalf("step 1 should be a rest, got %+v", notes)
	}
	if notes := p.NotesAt(2, nil); len(notes) != 2 {
		t.Fatalf("step 2 chord should have 2 notes, got %+v", notes)
	}
	// cycles
	if notes := p.NotesAt(3, nil); len(notes) != 1 {
		t.Fatalf("step 3 should wrap to step 0, got %+v", notes)
	}
}

func TestExplicitNoteLegacyDurationAlias(t *testing.T) {
	p := NewExplicitNote([]ExplicitNoteInput{{NoteName: "C4", Dur: 4}})
	notes := p.NotesAt(0, nil)
	if len(notes) != 1 || notes[0].DurationSteps != 4 {
		t.Fatalf("legacy Dur alias not honored: %+v", notes)
	}
}

type notBeatRhythm struct{ block int }

func (r notBeatRhythm) IsBeat(step int) bool     { return step != r.block }
func (r notBeatRhythm) IsDownbeat(step int) bool { return false }
func (r notBeatRhythm) IsOffbeat(step int) bool  { return false }
func (r notBeatRhythm) Subdivision(step int) int { return 1 }

func TestExplicitNoteRhythmGating(t *testing.T) {
	p := NewExplicitNote([]ExplicitNoteInput{{NoteName: "C4"}})
	ctx := &Context{Rhythm: notBeatRhythm{block: 0}}
	if notes := p.NotesAt(0, ctx); len(notes) != 0 {
		t.Fatalf("rhythm manager says not a beat, expected [], got %+v", notes)
	}
}
