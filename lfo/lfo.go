// Package lfo implements a continuous-time modulator: a phase-accumulator
// oscillator that maps a waveform sample into a bounded MIDI controller
// value every tick.
package lfo

import "math"

// Shape selects the waveform the LFO samples.
type Shape int

const (
	Sine Shape = iota
	Triangle
	Square
	Saw
	SampleAndHold
)

// RandomSource returns a value in [0,1). LFOs accept an injectable source
// so tests can pin behavior.
type RandomSource func() float64

// Params are the mutable, in-place-replaceable fields of an LFO. New does
// not fill in defaults: it only clamps Amplitude and Offset to 0..1 and
// Frequency to >= 0, so a zero Params yields a constant output of 0.
type Params struct {
	Frequency float64 // Hz
	Amplitude float64 // 0..1
	Offset    float64 // 0..1
	Shape     Shape
	CC        uint8 // target controller number, 0..127
}

// LFO is a per-loop continuous modulator. Phase persists across parameter
// updates.
type LFO struct {
	Params
	phase      float64
	lastValue  uint8
	heldSample float64 // for SampleAndHold
	lastCycle  float64 // for SampleAndHold
	random     RandomSource
}

// New creates an LFO with the given parameters and an optional random
// source (used only by the SampleAndHold shape). A nil source falls back
// to a process-wide PRNG.
func New(p Params, random RandomSource) *LFO {
	if random == nil {
		random = defaultRandom
	}
	return &LFO{Params: clampParams(p), random: random}
}

func clampParams(p Params) Params {
	if p.Amplitude < 0 {
		p.Amplitude = 0
	}
	if p.Amplitude > 1 {
		p.Amplitude = 1
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Offset > 1 {
		p.Offset = 1
	}
	if p.Frequency < 0 {
		p.Frequency = 0
	}
	return p
}

// UpdateParams replaces named fields in place; unspecified zero-value
// float fields would be indistinguishable from "set to zero", so callers
// pass an already-merged Params built from reading Current() first. Phase
// is never touched here.
func (l *LFO) UpdateParams(p Params) {
	l.Params = clampParams(p)
}

// Current returns a copy of the LFO's current parameters.
func (l *LFO) Current() Params {
	return l.Params
}

// LastValue returns the controller value produced by the most recent
// Update call (0 before the first Update).
func (l *LFO) LastValue() uint8 {
	return l.lastValue
}

// Update advances phase by dt seconds and returns the new controller
// value 0..127.
func (l *LFO) Update(dtSeconds float64) uint8 {
	if dtSeconds < 0 {
		dtSeconds = 0
	}
	l.phase += 2 * math.Pi * l.Frequency * dtSeconds
	// Keep phase bounded so long-running loops don't lose float precision.
	if l.phase > 1e6 {
		l.phase = math.Mod(l.phase, 2*math.Pi)
	}

	w := l.sample()
	mapped := l.Offset + l.Amplitude*(w+1)/2
	if mapped < 0 {
		mapped = 0
	}
	if mapped > 1 {
		mapped = 1
	}
	l.lastValue = uint8(math.Round(mapped * 127))
	return l.lastValue
}

// sample returns the raw waveform value in [-1, 1] for the current phase.
func (l *LFO) sample() float64 {
	switch l.Shape {
	case Triangle:
		// Normalize phase to [0, 2pi), map to a triangle ramp.
		p := math.Mod(l.phase, 2*math.Pi)
		if p < 0 {
			p += 2 * math.Pi
		}
		t := p / (2 * math.Pi) // 0..1
		if t < 0.5 {
			return -1 + 4*t
		}
		return 3 - 4*t
	case Square:
		p := math.Mod(l.phase, 2*math.Pi)
		if p < 0 {
			p += 2 * math.Pi
		}
		if p < math.Pi {
			return 1
		}
		return -1
	case Saw:
		p := math.Mod(l.phase, 2*math.Pi)
		if p < 0 {
			p += 2 * math.Pi
		}
		return 2*(p/(2*math.Pi)) - 1
	case SampleAndHold:
		// A new random sample is drawn each time phase crosses a cycle
		// boundary; between crossings the held value is returned.
		cycle := math.Floor(l.phase / (2 * math.Pi))
		if cycle != l.lastCycle {
			l.heldSample = l.random()*2 - 1
			l.lastCycle = cycle
		}
		return l.heldSample
	default: // Sine
		return math.Sin(l.phase)
	}
}

func defaultRandom() float64 {
	return pseudoRandomSingleton.Float64()
}
