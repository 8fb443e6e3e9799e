// Package pattern implements the Pattern interface and the family of
// concrete pattern state machines that produce NoteEvents on a
// step-quantized timeline, plus the manager interfaces patterns consume.
package pattern

import (
	"math/rand"
	"time"
)

// NoteEvent is produced by a Pattern at a step.
type NoteEvent struct {
	// Pitch is a scientific pitch name ("C4"); if empty, Semitone is used
	// directly. Prefer Semitone internally to avoid repeat string parsing
	// in hot paths.
	Pitch string
	// Semitone is used when Pitch is empty.
	Semitone uint8
	// Velocity is 1..127; zero means "use the default" (100) at resolution.
	Velocity uint8
	// DurationSteps is the note's length in steps. Zero means "trigger
	// then immediately release this tick".
	DurationSteps int
}

// ResolvedVelocity returns Velocity, defaulting to 100 when unset.
func (e NoteEvent) ResolvedVelocity() uint8 {
	if e.Velocity == 0 {
		return 100
	}
	return e.Velocity
}

// Pattern is the two-method contract every concrete pattern satisfies.
// Patterns are immutable w.r.t. structural fields after construction but
// may carry internal mutable traversal state.
type Pattern interface {
	// NotesAt returns the NoteEvents to trigger at step, given ctx. Pure
	// in its own external outputs: must not mutate ctx. Internal state
	// may update. Deterministic when the pattern was built with a fixed
	// random source.
	NotesAt(step int, ctx *Context) []NoteEvent
	// Length returns the number of discrete steps before intrinsic
	// repetition; always >= 1, even for effectively-infinite patterns.
	Length() int
}

// Resettable is implemented by patterns that can restore their internal
// traversal state to its construction-time value.
type Resettable interface {
	Reset()
}

// RandomSource returns a value in [0,1). Every concrete pattern accepts
// one at construction so tests can pin behavior; a nil source falls back
// to an entropy-seeded process-wide PRNG, never read directly by pattern
// logic.
type RandomSource func() float64

var processRandom = rand.New(rand.NewSource(time.Now().UnixNano()))

func defaultRandomSource() float64 {
	return processRandom.Float64()
}

func orDefault(r RandomSource) RandomSource {
	if r == nil {
		return defaultRandomSource
	}
	return r
}
