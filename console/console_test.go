package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iltempo/steploop/bus"
	"github.com/iltempo/steploop/loop"
	"github.com/iltempo/steploop/pattern"
)

func newTestHandler() (*Handler, *loop.LiveLoop, *bytes.Buffer) {
	rec := &bus.Recording{}
	l := loop.New(loop.Config{Pattern: pattern.NewExplicitNote(nil), Channel: 1, Bus: rec})
	loops := map[string]*loop.LiveLoop{"bass": l}
	lookups := map[string]pattern.Pattern{
		"hats": pattern.NewExplicitNote([]pattern.ExplicitNoteInput{{NoteName: "C2"}}),
	}
	out := &bytes.Buffer{}
	h := New(loops, func(name string) (pattern.Pattern, bool) {
		p, ok := lookups[name]
		return p, ok
	}, out)
	return h, l, out
}

func TestMuteToggleAndExplicit(t *testing.T) {
	h, l, _ := newTestHandler()

	if err := h.ProcessCommand("mute bass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.IsMuted() {
		t.Error("mute with no argument should toggle to true")
	}
	if err := h.ProcessCommand("mute bass off"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.IsMuted() {
		t.Error("mute bass off should clear mute")
	}
	if err := h.ProcessCommand("mute nope"); err == nil {
		t.Error("mute on an unknown loop should error")
	}
}

func TestTransposeValidatesInt(t *testing.T) {
	h, l, _ := newTestHandler()

	if err := h.ProcessCommand("transpose bass -5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Transpose() != -5 {
		t.Errorf("transpose = %d, want -5", l.Transpose())
	}
	if err := h.ProcessCommand("transpose bass abc"); err == nil {
		t.Error("non-integer semitones should error")
	}
}

func TestSetPatternQueuedByDefaultImmediateWithNow(t *testing.T) {
	h, _, out := newTestHandler()

	if err := h.ProcessCommand("set-pattern bass hats"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "queued for next boundary") {
		t.Errorf("set-pattern without 'now' should queue, got %q", out.String())
	}
	if err := h.ProcessCommand("set-pattern bass nonexistent"); err == nil {
		t.Error("unknown pattern preset should error")
	}
	out.Reset()
	if err := h.ProcessCommand("set-pattern bass hats now"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "(immediate)") {
		t.Errorf("set-pattern with 'now' should apply immediately, got %q", out.String())
	}
}

func TestAddLFORejectsBadShape(t *testing.T) {
	h, _, _ := newTestHandler()

	if err := h.ProcessCommand("add-lfo bass 20 0.5 1 0 sine"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.ProcessCommand("add-lfo bass 20 0.5 1 0 hexagon"); err == nil {
		t.Error("unknown LFO shape should error")
	}
}

func TestUpdateLFOMergesSingleField(t *testing.T) {
	h, l, _ := newTestHandler()

	if err := h.ProcessCommand("add-lfo bass 20 0.5 1 0 sine"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.ProcessCommand("update-lfo bass 0 freq 2.5 now"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := l.LFOParams(0)
	if !ok || p.Frequency != 2.5 {
		t.Fatalf("frequency should be 2.5 after immediate update, got %+v", p)
	}
	if p.CC != 20 || p.Amplitude != 1 {
		t.Errorf("untouched fields must be preserved across the update, got %+v", p)
	}
}

func TestUpdateLFOQueuedAppliesAtBoundary(t *testing.T) {
	h, l, _ := newTestHandler()

	if err := h.ProcessCommand("add-lfo bass 20 0.5 1 0 sine"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.ProcessCommand("update-lfo bass 0 cc 74"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p, _ := l.LFOParams(0); p.CC != 20 {
		t.Fatalf("queued update applied before the boundary, got %+v", p)
	}
	l.Tick(0, 0.1)
	l.Tick(1, 0.1) // pattern length 1, so step 1 is a boundary
	if p, _ := l.LFOParams(0); p.CC != 74 {
		t.Fatalf("queued update should apply at the boundary, got %+v", p)
	}
}

func TestUpdateLFORejectsBadInput(t *testing.T) {
	h, _, _ := newTestHandler()

	if err := h.ProcessCommand("add-lfo bass 20 0.5 1 0 sine"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.ProcessCommand("update-lfo bass 5 freq 1"); err == nil {
		t.Error("out-of-range LFO index should error")
	}
	if err := h.ProcessCommand("update-lfo bass 0 wobble 1"); err == nil {
		t.Error("unknown field should error")
	}
	if err := h.ProcessCommand("update-lfo bass 0 cc 300"); err == nil {
		t.Error("out-of-range cc should error")
	}
	if err := h.ProcessCommand("update-lfo bass 0 freq 1 later"); err == nil {
		t.Error("trailing token other than 'now' should error")
	}
}

func TestStopAllAndList(t *testing.T) {
	h, _, out := newTestHandler()

	if err := h.ProcessCommand("stop-all"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out.Reset()
	if err := h.ProcessCommand("list"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "bass") {
		t.Errorf("list output should mention the registered loop, got %q", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	h, _, _ := newTestHandler()
	if err := h.ProcessCommand("frobnicate"); err == nil {
		t.Error("unknown command should error")
	}
}

func TestReadLoopStopsOnQuit(t *testing.T) {
	h, _, out := newTestHandler()
	input := strings.NewReader("list\nquit\nlist\n")
	if err := h.ReadLoop(input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(out.String(), "Loops (") != 1 {
		t.Errorf("expected exactly one 'list' to execute before quit, got output %q", out.String())
	}
}
