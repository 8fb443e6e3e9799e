// Package console implements an interactive REPL control surface over a
// set of named LiveLoops: mute, transpose, pattern swaps, LFO wiring, and
// stop-all, dispatched from simple text commands.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/iltempo/steploop/lfo"
	"github.com/iltempo/steploop/loop"
	"github.com/iltempo/steploop/pattern"
)

// PatternLookup resolves a named pattern preset for "set-pattern". The
// console never constructs patterns itself: it only wires named presets
// registered by the caller into a running LiveLoop.
type PatternLookup func(name string) (pattern.Pattern, bool)

// Handler dispatches command lines against a registry of named LiveLoops.
type Handler struct {
	loops    map[string]*loop.LiveLoop
	names    []string
	patterns PatternLookup
	out      io.Writer
}

// New creates a Handler over loops, keyed by operator-facing name. patterns
// may be nil, in which case "set-pattern" always fails with a clear error.
func New(loops map[string]*loop.LiveLoop, patterns PatternLookup, out io.Writer) *Handler {
	names := make([]string, 0, len(loops))
	for n := range loops {
		names = append(names, n)
	}
	sort.Strings(names)
	return &Handler{loops: loops, names: names, patterns: patterns, out: out}
}

func (h *Handler) printf(format string, args ...any) {
	fmt.Fprintf(h.out, format, args...)
}

// ProcessCommand parses and executes a single command line.
func (h *Handler) ProcessCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		return h.handleList(nil)
	}

	parts := strings.Fields(cmdLine)
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "mute":
		return h.handleMute(parts)
	case "transpose":
		return h.handleTranspose(parts)
	case "set-pattern":
		return h.handleSetPattern(parts)
	case "add-lfo":
		return h.handleAddLFO(parts)
	case "update-lfo":
		return h.handleUpdateLFO(parts)
	case "stop-all":
		return h.handleStopAll(parts)
	case "list":
		return h.handleList(parts)
	case "help":
		return h.handleHelp(parts)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

func (h *Handler) lookup(name string) (*loop.LiveLoop, error) {
	l, ok := h.loops[name]
	if !ok {
		return nil, fmt.Errorf("unknown loop: %s (type 'list' to see loops)", name)
	}
	return l, nil
}

// handleMute: mute <loop> [on|off]
func (h *Handler) handleMute(parts []string) error {
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("usage: mute <loop> [on|off]")
	}
	l, err := h.lookup(parts[1])
	if err != nil {
		return err
	}
	if len(parts) == 2 {
		l.SetMuted(!l.IsMuted())
		h.printf("loop %s mute -> %v\n", parts[1], l.IsMuted())
		return nil
	}
	switch strings.ToLower(parts[2]) {
	case "on":
		l.SetMuted(true)
	case "off":
		l.SetMuted(false)
	default:
		return fmt.Errorf("usage: mute <loop> [on|off]")
	}
	h.printf("loop %s mute -> %v\n", parts[1], l.IsMuted())
	return nil
}

// handleTranspose: transpose <loop> <semitones>
func (h *Handler) handleTranspose(parts []string) error {
	if len(parts) != 3 {
		return fmt.Errorf("usage: transpose <loop> <semitones> (e.g., 'transpose bass -5')")
	}
	l, err := h.lookup(parts[1])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Errorf("invalid semitone count: %s", parts[2])
	}
	l.SetTranspose(n)
	h.printf("loop %s transpose -> %d\n", parts[1], n)
	return nil
}

// handleSetPattern: set-pattern <loop> <patternName> [now]
func (h *Handler) handleSetPattern(parts []string) error {
	if len(parts) < 3 || len(parts) > 4 {
		return fmt.Errorf("usage: set-pattern <loop> <patternName> [now]")
	}
	l, err := h.lookup(parts[1])
	if err != nil {
		return err
	}
	if h.patterns == nil {
		return fmt.Errorf("no pattern presets registered")
	}
	p, ok := h.patterns(parts[2])
	if !ok {
		return fmt.Errorf("unknown pattern preset: %s", parts[2])
	}
	immediate := len(parts) == 4 && strings.ToLower(parts[3]) == "now"
	l.SetPattern(p, immediate)
	if immediate {
		h.printf("loop %s pattern -> %s (immediate)\n", parts[1], parts[2])
	} else {
		h.printf("loop %s pattern -> %s (queued for next boundary)\n", parts[1], parts[2])
	}
	return nil
}

// handleAddLFO: add-lfo <loop> <cc> <freqHz> <amplitude> <offset> <shape>
func (h *Handler) handleAddLFO(parts []string) error {
	if len(parts) != 7 {
		return fmt.Errorf("usage: add-lfo <loop> <cc> <freqHz> <amplitude> <offset> <shape> (shape: sine|triangle|square|saw|sh)")
	}
	l, err := h.lookup(parts[1])
	if err != nil {
		return err
	}
	cc, err := strconv.Atoi(parts[2])
	if err != nil || cc < 0 || cc > 127 {
		return fmt.Errorf("invalid cc number: %s (must be 0-127)", parts[2])
	}
	freq, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return fmt.Errorf("invalid frequency: %s", parts[3])
	}
	amp, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return fmt.Errorf("invalid amplitude: %s", parts[4])
	}
	offset, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return fmt.Errorf("invalid offset: %s", parts[5])
	}
	shape, err := parseShape(parts[6])
	if err != nil {
		return err
	}
	l.AddLFO(lfo.New(lfo.Params{Frequency: freq, Amplitude: amp, Offset: offset, Shape: shape, CC: uint8(cc)}, nil))
	h.printf("loop %s: added LFO cc=%d shape=%s\n", parts[1], cc, parts[6])
	return nil
}

func parseShape(s string) (lfo.Shape, error) {
	switch strings.ToLower(s) {
	case "sine":
		return lfo.Sine, nil
	case "triangle":
		return lfo.Triangle, nil
	case "square":
		return lfo.Square, nil
	case "saw":
		return lfo.Saw, nil
	case "sh", "sample-and-hold":
		return lfo.SampleAndHold, nil
	default:
		return 0, fmt.Errorf("unknown LFO shape: %s", s)
	}
}

// handleUpdateLFO: update-lfo <loop> <index> <field> <value> [now]
// Reads the LFO's current parameters, overlays the one requested field,
// and hands the merged Params back to the loop; "now" applies immediately
// instead of queueing for the next pattern boundary.
func (h *Handler) handleUpdateLFO(parts []string) error {
	usage := fmt.Errorf("usage: update-lfo <loop> <index> <field> <value> [now] (fields: freq|amp|offset|shape|cc)")
	if len(parts) < 5 || len(parts) > 6 {
		return usage
	}
	l, err := h.lookup(parts[1])
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Errorf("invalid LFO index: %s", parts[2])
	}
	params, ok := l.LFOParams(index)
	if !ok {
		return fmt.Errorf("loop %s has no LFO at index %d", parts[1], index)
	}

	field, value := strings.ToLower(parts[3]), parts[4]
	switch field {
	case "freq":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid frequency: %s", value)
		}
		params.Frequency = f
	case "amp":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid amplitude: %s", value)
		}
		params.Amplitude = f
	case "offset":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid offset: %s", value)
		}
		params.Offset = f
	case "shape":
		s, err := parseShape(value)
		if err != nil {
			return err
		}
		params.Shape = s
	case "cc":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 127 {
			return fmt.Errorf("invalid cc number: %s (must be 0-127)", value)
		}
		params.CC = uint8(n)
	default:
		return fmt.Errorf("unknown LFO field: %s (fields: freq|amp|offset|shape|cc)", field)
	}

	immediate := false
	if len(parts) == 6 {
		if strings.ToLower(parts[5]) != "now" {
			return usage
		}
		immediate = true
	}
	l.UpdateLFO(index, params, immediate)
	if immediate {
		h.printf("loop %s LFO %d: %s -> %s (immediate)\n", parts[1], index, field, value)
	} else {
		h.printf("loop %s LFO %d: %s -> %s (queued for next boundary)\n", parts[1], index, field, value)
	}
	return nil
}

// handleStopAll: stop-all [loop]
func (h *Handler) handleStopAll(parts []string) error {
	if len(parts) > 2 {
		return fmt.Errorf("usage: stop-all [loop]")
	}
	if len(parts) == 2 {
		l, err := h.lookup(parts[1])
		if err != nil {
			return err
		}
		l.StopAll()
		h.printf("loop %s: all notes stopped\n", parts[1])
		return nil
	}
	for _, name := range h.names {
		h.loops[name].StopAll()
	}
	h.printf("all loops: all notes stopped\n")
	return nil
}

// handleList: list
func (h *Handler) handleList(parts []string) error {
	if len(parts) > 1 {
		return fmt.Errorf("usage: list")
	}
	if len(h.names) == 0 {
		h.printf("no loops registered\n")
		return nil
	}
	h.printf("Loops (%d):\n", len(h.names))
	for _, name := range h.names {
		l := h.loops[name]
		h.printf("  - %s (muted=%v transpose=%+d active=%d)\n", name, l.IsMuted(), l.Transpose(), len(l.ActiveNotes()))
	}
	return nil
}

func (h *Handler) handleHelp(parts []string) error {
	helpText := `Available commands:
  mute <loop> [on|off]                         Toggle or set mute
  transpose <loop> <semitones>                 Set transpose in semitones
  set-pattern <loop> <patternName> [now]       Swap pattern (queued by default)
  add-lfo <loop> <cc> <freq> <amp> <offset> <shape>
                                                Attach a new LFO to a loop
  update-lfo <loop> <index> <field> <value> [now]
                                                Change one LFO parameter
  stop-all [loop]                              Force-silence one or all loops
  list                                          List registered loops
  help                                          Show this help message
  quit                                          Exit the console
  <enter>                                       List loops (same as 'list')`
	h.printf("%s\n", helpText)
	return nil
}

// ReadLoop reads commands from reader until "quit" or EOF.
func (h *Handler) ReadLoop(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)

	h.printf("> ")
	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(strings.ToLower(line)) == "quit" {
			return nil
		}

		if err := h.ProcessCommand(line); err != nil {
			h.printf("Error: %v\n", err)
		}

		h.printf("> ")
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
