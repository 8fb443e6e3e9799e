package pattern

import "testing"

func TestStaticChordManagerCyclesAndTracksCurrent(t *testing.T) {
	m := &StaticChordManager{Chords: []Chord{
		{Root: "C", Type: "maj", Duration: 16},
		{Root: "G", Type: "maj", Duration: 16},
	}}

	c, ok := m.ChordAt(20)
	if !ok || c.Root != "G" {
		t.Fatalf("ChordAt(20) = %+v, want the G chord", c)
	}
	notes := m.CurrentChordNotes()
	if len(notes) == 0 || notes[0] != "G3" {
		t.Fatalf("CurrentChordNotes after resolving G = %v, want G3 root", notes)
	}

	// Past the last window the progression loops: 33 % 32 = 1 -> C.
	c, ok = m.ChordAt(33)
	if !ok || c.Root != "C" {
		t.Fatalf("ChordAt(33) = %+v, want the C chord after looping", c)
	}
	notes = m.CurrentChordNotes()
	if len(notes) == 0 || notes[0] != "C3" {
		t.Fatalf("CurrentChordNotes after looping back to C = %v, want C3 root", notes)
	}
}

func TestStaticChordManagerCurrentBeforeAnyResolve(t *testing.T) {
	m := &StaticChordManager{Chords: []Chord{{Root: "D", Type: "min", Duration: 8}}}
	notes := m.CurrentChordNotes()
	if len(notes) == 0 || notes[0] != "D3" {
		t.Fatalf("CurrentChordNotes before any ChordAt = %v, want the first chord", notes)
	}

	empty := &StaticChordManager{}
	if notes := empty.CurrentChordNotes(); len(notes) != 0 {
		t.Fatalf("empty progression should report no notes, got %v", notes)
	}
}
