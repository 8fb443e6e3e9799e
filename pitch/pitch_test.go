package pitch

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint8
		wantErr bool
	}{
		{"C4", "C4", 60, false},
		{"A4", "A4", 69, false},
		{"C0", "C0", 12, false},
		{"Csharp4", "C#4", 61, false},
		{"Dflat3", "Db3", 49, false},
		{"negative octave", "C-1", 0, false},
		{"empty", "", 0, true},
		{"bad letter", "H4", 0, true},
		{"no octave", "C", 0, true},
		{"out of range high", "G12", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveFallback(t *testing.T) {
	if got := Resolve("nonsense"); got != FallbackSemitone {
		t.Errorf("Resolve(invalid) = %d, want fallback %d", got, FallbackSemitone)
	}
	if got := Resolve("C4"); got != 60 {
		t.Errorf("Resolve(C4) = %d, want 60", got)
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, n := range []uint8{0, 12, 60, 61, 69, 127} {
		name := Name(n)
		back, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(Name(%d)=%q) error: %v", n, name, err)
		}
		if back != n {
			t.Errorf("round trip %d -> %q -> %d", n, name, back)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-5) != 0 {
		t.Error("Clamp(-5) should saturate to 0")
	}
	if Clamp(200) != 127 {
		t.Error("Clamp(200) should saturate to 127")
	}
	if Clamp(64) != 64 {
		t.Error("Clamp(64) should be unchanged")
	}
}
