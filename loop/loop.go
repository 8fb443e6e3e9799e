// Package loop implements the LiveLoop runtime: the per-tick contract
// that retires expired notes, fetches new NoteEvents from the current
// Pattern, emits them to a Bus with transpose/mute applied, and advances
// each LFO.
package loop

import (
	"sync"

	"github.com/iltempo/steploop/bus"
	"github.com/iltempo/steploop/lfo"
	"github.com/iltempo/steploop/pattern"
	"github.com/iltempo/steploop/pitch"
)

// maxEndStep saturates ActiveNote.EndStep so a pathological
// DurationSteps can never overflow the bookkeeping.
const maxEndStep = 1 << 40

// noteKey identifies an ActiveNote slot: at most one per (channel, semitone)
// at any time.
type noteKey struct {
	channel  uint8
	semitone uint8
}

// ActiveNote is a note currently sounding from the loop's bookkeeping
// perspective, retired once the step counter reaches EndStep.
type ActiveNote struct {
	Semitone uint8
	Velocity uint8
	Channel  uint8
	EndStep  int64 // exclusive upper bound
	// sounding records whether a NoteOn was actually sent to the bus for
	// this note (false when the loop was muted at trigger time). Retiring
	// a non-sounding note must not emit a NoteOff: it would be unpaired.
	sounding bool
}

// Config constructs a LiveLoop.
type Config struct {
	Pattern   pattern.Pattern
	LFOs      []*lfo.LFO
	Channel   uint8 // 1..16
	Context   *pattern.Context
	Muted     bool
	Transpose int
	Bus       bus.Bus
	// Diagnostics, if set, receives non-fatal trace notes (malformed
	// pitch fallback, etc.). Nil disables tracing.
	Diagnostics func(format string, args ...any)
}

// LiveLoop is the runtime of a single loop. All methods are safe for
// concurrent use: the control surface runs on a different goroutine than
// the clock driving Tick.
type LiveLoop struct {
	mu sync.Mutex

	currentPattern pattern.Pattern
	pendingPattern pattern.Pattern
	pendingPending bool

	lfos           []*lfo.LFO
	pendingLFO     map[int]lfo.Params
	pendingLFOKeys []int

	channel   uint8
	context   *pattern.Context
	muted     bool
	transpose int

	bus         bus.Bus
	diagnostics func(string, ...any)

	active map[noteKey]ActiveNote
}

// New constructs a LiveLoop from cfg.
func New(cfg Config) *LiveLoop {
	channel := cfg.Channel
	if channel == 0 || channel > 16 {
		channel = 1
	}
	diag := cfg.Diagnostics
	if diag == nil {
		diag = func(string, ...any) {}
	}
	b := cfg.Bus
	if b == nil {
		b = bus.Null{}
	}

	return &LiveLoop{
		currentPattern: cfg.Pattern,
		lfos:           append([]*lfo.LFO{}, cfg.LFOs...),
		pendingLFO:     make(map[int]lfo.Params),
		channel:        channel,
		context:        cfg.Context,
		muted:          cfg.Muted,
		transpose:      cfg.Transpose,
		bus:            b,
		diagnostics:    diag,
		active:         make(map[noteKey]ActiveNote),
	}
}

// SetPattern installs a new pattern. If immediate, it replaces the
// current pattern right away and clears any queued pattern; otherwise it
// is staged to install at the next pattern boundary.
func (l *LiveLoop) SetPattern(p pattern.Pattern, immediate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if immediate {
		l.currentPattern = p
		l.pendingPattern = nil
		l.pendingPending = false
		return
	}
	l.pendingPattern = p
	l.pendingPending = true
}

// AddLFO appends a new LFO to the loop, taking effect starting the next
// tick. No boundary gating: LFOs update every tick independent of pattern
// state.
func (l *LiveLoop) AddLFO(m *lfo.LFO) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lfos = append(l.lfos, m)
}

// LFOParams returns a copy of the current parameters of the LFO at index,
// and whether that index exists. Callers building a partial update read
// these, overlay the fields they want changed, and pass the merged Params
// back through UpdateLFO.
func (l *LiveLoop) LFOParams(index int) (lfo.Params, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.lfos) {
		return lfo.Params{}, false
	}
	return l.lfos[index].Current(), true
}

// UpdateLFO stages (or immediately applies) a parameter update for the
// LFO at index, with the same immediate/queued semantics as SetPattern.
func (l *LiveLoop) UpdateLFO(index int, params lfo.Params, immediate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.lfos) {
		return
	}
	if immediate {
		l.lfos[index].UpdateParams(params)
		delete(l.pendingLFO, index)
		return
	}
	if _, exists := l.pendingLFO[index]; !exists {
		l.pendingLFOKeys = append(l.pendingLFOKeys, index)
	}
	l.pendingLFO[index] = params
}

// SetMuted takes effect on the subsequent tick, never retroactively.
// Outstanding ActiveNotes are not force-silenced: their noteOff still
// fires at their scheduled end step.
func (l *LiveLoop) SetMuted(muted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.muted = muted
}

// IsMuted reports the current mute state.
func (l *LiveLoop) IsMuted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.muted
}

// SetTranspose takes effect on the subsequent tick, never retroactively.
func (l *LiveLoop) SetTranspose(semitones int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transpose = semitones
}

// Transpose returns the current transpose setting.
func (l *LiveLoop) Transpose() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transpose
}

// ActiveNotes returns a snapshot of the currently tracked ActiveNotes, for
// tests/diagnostics. Patterns never see this table.
func (l *LiveLoop) ActiveNotes() []ActiveNote {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ActiveNote, 0, len(l.active))
	for _, n := range l.active {
		out = append(out, n)
	}
	return out
}

// StopAll emits noteOff for every ActiveNote and clears the table. It is
// the only way to force a clean silence, and is idempotent.
func (l *LiveLoop) StopAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, n := range l.active {
		if n.sounding {
			_ = l.bus.NoteOff(bus.NoteOff{Channel: n.Channel, Note: n.Semitone})
		}
		delete(l.active, key)
	}
}

func saturatingEnd(step int, duration int) int64 {
	end := int64(step) + int64(duration)
	if end > maxEndStep {
		return maxEndStep
	}
	return end
}

// resolveSemitone converts a NoteEvent's pitch (name or raw semitone) into
// a base semitone before transpose. Unparseable names fall back per
// pitch.Resolve, traced via Diagnostics only.
func (l *LiveLoop) resolveSemitone(e pattern.NoteEvent) uint8 {
	if e.Pitch == "" {
		return e.Semitone
	}
	if _, err := pitch.Parse(e.Pitch); err != nil {
		l.diagnostics("malformed pitch %q, falling back to %d", e.Pitch, pitch.FallbackSemitone)
	}
	return pitch.Resolve(e.Pitch)
}

// Tick advances the loop by one step. stepIndex must be monotonically
// non-decreasing, though gaps are tolerated: all patterns use step mod
// length and retirement scans every expired note regardless of gap size.
func (l *LiveLoop) Tick(stepIndex int, dtSeconds float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Step 1: boundary hot-swap.
	boundaryLength := 1
	if l.currentPattern != nil {
		boundaryLength = l.currentPattern.Length()
		if boundaryLength <= 0 {
			boundaryLength = 1
		}
	}
	if stepIndex > 0 && stepIndex%boundaryLength == 0 {
		if l.pendingPending {
			l.currentPattern = l.pendingPattern
			l.pendingPattern = nil
			l.pendingPending = false
		}
		for _, idx := range l.pendingLFOKeys {
			params, ok := l.pendingLFO[idx]
			if ok && idx >= 0 && idx < len(l.lfos) {
				l.lfos[idx].UpdateParams(params)
			}
		}
		l.pendingLFOKeys = nil
		l.pendingLFO = make(map[int]lfo.Params)
	}

	// Step 2: retire expired notes (before any new trigger this tick).
	l.retireExpired(int64(stepIndex))

	// Step 3: fetch pattern notes. Pattern errors never surface; a nil
	// pattern or missing collaborator yields no events.
	var events []pattern.NoteEvent
	if l.currentPattern != nil {
		events = l.currentPattern.NotesAt(stepIndex, l.context)
	}

	// Step 4: emit new notes.
	for _, e := range events {
		base := l.resolveSemitone(e)
		semitone := pitch.Clamp(int(base) + l.transpose)
		key := noteKey{channel: l.channel, semitone: semitone}

		if prior, exists := l.active[key]; exists {
			if prior.sounding {
				_ = l.bus.NoteOff(bus.NoteOff{Channel: prior.Channel, Note: prior.Semitone})
			}
			delete(l.active, key)
		}

		velocity := e.ResolvedVelocity()
		sounding := !l.muted
		if sounding {
			_ = l.bus.NoteOn(bus.NoteOn{Channel: l.channel, Note: semitone, Velocity: velocity})
		}

		duration := e.DurationSteps
		if duration < 0 {
			duration = 0
		}
		l.active[key] = ActiveNote{
			Semitone: semitone,
			Velocity: velocity,
			Channel:  l.channel,
			EndStep:  saturatingEnd(stepIndex, duration),
			sounding: sounding,
		}
	}

	// Step 5: immediate zero-duration retirement.
	l.retireExpired(int64(stepIndex))

	// Step 6: LFOs, independent of pattern output or mute state.
	for _, m := range l.lfos {
		value := m.Update(dtSeconds)
		_ = l.bus.ControlChange(bus.ControlChange{Channel: l.channel, CC: m.Current().CC, Value: value})
	}
}

// retireExpired emits noteOff for, and removes, every ActiveNote whose
// EndStep has been reached.
func (l *LiveLoop) retireExpired(step int64) {
	for key, n := range l.active {
		if step >= n.EndStep {
			if n.sounding {
				_ = l.bus.NoteOff(bus.NoteOff{Channel: n.Channel, Note: n.Semitone})
			}
			delete(l.active, key)
		}
	}
}
