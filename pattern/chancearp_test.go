package pattern

import "testing"

func sequenceRandom(vals ...float64) RandomSource {
	i := 0
	return func() float64 {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

func TestChanceArpRestProbability(t *testing.T) {
	p := NewChanceArp(ChanceArpConfig{
		RestProbability: 100,
		Random:          sequenceRandom(0.0),
	})
	ctx := &Context{Chord: constantChordManager{chord: Chord{Root: "C", Type: "maj", Notes: []string{"C4", "E4", "G4"}}}}
	if notes := p.NotesAt(0, ctx); len(notes) != 0 {
		t.Fatalf("100%% rest probability should always rest, got %+v", notes)
	}
}

func TestChanceArpNoChordYieldsNothing(t *testing.T) {
	p := NewChanceArp(ChanceArpConfig{Random: sequenceRandom(0.5)})
	if notes := p.NotesAt(0, nil); len(notes) != 0 {
		t.Errorf("no chord manager should yield [], got %+v", notes)
	}
}

func TestChanceArpDeterministic(t *testing.T) {
	cfg := ChanceArpConfig{ProbabilityToAdvance: 80, RestProbability: 10, OctaveRange: 2, BaseVelocity: 90, VelocityVariation: 10}
	ctx := &Context{Chord: constantChordManager{chord: Chord{Notes: []string{"C4", "E4", "G4"}}}}

	vals := []float64{0.5, 0.2, 0.7, 0.1, 0.9, 0.3, 0.4, 0.6}
	cfg.Random = sequenceRandom(vals...)
	a := NewChanceArp(cfg)
	cfg.Random = sequenceRandom(vals...)
	b := NewChanceArp(cfg)

	for s := 0; s < 16; s++ {
		an := a.NotesAt(s, ctx)
		bn := b.NotesAt(s, ctx)
		if len(an) != len(bn) {
			t.Fatalf("step %d: divergent output lengths %d vs %d", s, len(an), len(bn))
		}
		for i := range an {
			if an[i] != bn[i] {
				t.Fatalf("step %d: divergent outputs %+v vs %+v", s, an[i], bn[i])
			}
		}
	}
}

func TestTensionChanceArpHighTensionReducesRest(t *testing.T) {
	cfg := TensionChanceArpConfig{ChanceArpConfig: ChanceArpConfig{RestProbability: 50}}
	p := NewTensionChanceArp(cfg)
	ctx := &Context{
		Chord:  constantChordManager{chord: Chord{Notes: []string{"C4", "E4", "G4"}}},
		Energy: FixedEnergyManager{Tension: TensionHigh},
	}
	// With RestProbability effectively 25 under high tension, a draw of
	// 0.3 (30 on the 0-100 scale) should NOT rest.
	p2 := NewTensionChanceArp(TensionChanceArpConfig{ChanceArpConfig: ChanceArpConfig{RestProbability: 50, Random: sequenceRandom(0.3)}})
	if notes := p2.NotesAt(0, ctx); len(notes) == 0 {
		t.Error("expected a note under scaled-down rest probability with draw 0.3")
	}
	_ = p
}
