package lfo

import (
	"math/rand"
	"time"
)

// pseudoRandomSingleton backs the default, entropy-seeded random source
// used when a caller does not inject one. LFO logic never reads a bare
// global source directly; this is the one seeded instance the
// package-level default delegates to.
var pseudoRandomSingleton = rand.New(rand.NewSource(time.Now().UnixNano()))
