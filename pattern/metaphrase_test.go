package pattern

import "testing"

func TestMetaPhraseDelegation(t *testing.T) {
	main := NewExplicitNote([]ExplicitNoteInput{{NoteName: "C4"}})
	fill := NewExplicitNote([]ExplicitNoteInput{{NoteName: "G4"}})
	p := NewMetaPhrase(MetaPhraseConfig{Main: main, Fill: fill, BarsOfMain: 4, BarsOfFill: 1, BarLengthSteps: 16})

	if p.Length() != 80 {
		t.Fatalf("length = %d, want 80", p.Length())
	}
	if notes := p.NotesAt(0, nil); len(notes) != 1 || notes[0].Pitch != "C4" {
		t.Fatalf("expected main delegation at step 0, got %+v", notes)
	}
	if notes := p.NotesAt(64, nil); len(notes) != 1 || notes[0].Pitch != "G4" {
		t.Fatalf("expected fill delegation at step 64, got %+v", notes)
	}
	if notes := p.NotesAt(79, nil); len(notes) != 1 || notes[0].Pitch != "G4" {
		t.Fatalf("expected fill delegation at step 79, got %+v", notes)
	}
	if notes := p.NotesAt(80, nil); len(notes) != 1 || notes[0].Pitch != "C4" {
		t.Fatalf("expected next phrase's main delegation at step 80, got %+v", notes)
	}
}

func TestMetaPhraseCaching(t *testing.T) {
	calls := 0
	main := &countingPattern{calls: &calls}
	fill := NewExplicitNote([]ExplicitNoteInput{{NoteName: "G4"}})
	p := NewMetaPhrase(MetaPhraseConfig{Main: main, Fill: fill, BarsOfMain: 1, BarsOfFill: 1, BarLengthSteps: 4})

	p.NotesAt(0, nil)
	p.NotesAt(0, nil)
	if calls != 1 {
		t.Errorf("expected cached result to avoid a second call, got %d calls", calls)
	}
	p.NotesAt(1, nil)
	if calls != 2 {
		t.Errorf("new step should invalidate cache, got %d calls", calls)
	}
}

func TestMetaPhraseCallbacks(t *testing.T) {
	var started, ended []int
	main := NewExplicitNote([]ExplicitNoteInput{{NoteName: "C4"}})
	fill := NewExplicitNote([]ExplicitNoteInput{{NoteName: "G4"}})
	p := NewMetaPhrase(MetaPhraseConfig{
		Main: main, Fill: fill, BarsOfMain: 1, BarsOfFill: 1, BarLengthSteps: 4,
		OnPhraseStart: func(i int) { started = append(started, i) },
		OnPhraseEnd:   func(i int) { ended = append(ended, i) },
	})
	for s := 0; s < 16; s++ {
		p.NotesAt(s, nil)
	}
	if len(started) < 2 {
		t.Fatalf("expected at least 2 phrase starts over 16 steps of an 8-step phrase, got %v", started)
	}
	if len(ended) < 1 {
		t.Fatalf("expected at least 1 phrase end, got %v", ended)
	}
}

type countingPattern struct {
	calls *int
}

func (c *countingPattern) NotesAt(step int, ctx *Context) []NoteEvent {
	*c.calls++
	return nil
}
func (c *countingPattern) Length() int { return 4 }
