package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/iltempo/steploop/bus"
	"github.com/iltempo/steploop/console"
	"github.com/iltempo/steploop/loop"
	"github.com/iltempo/steploop/pattern"
	"github.com/mattn/go-isatty"
)

// isTerminal returns true if stdin is a terminal (TTY).
func isTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// processBatchInput reads and executes commands from reader. Returns
// success (no command errored) and whether an exit was requested.
func processBatchInput(reader io.Reader, handler *console.Handler) (bool, bool) {
	scanner := bufio.NewScanner(reader)
	hadErrors := false
	shouldExit := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			fmt.Println(line)
			continue
		}
		if strings.ToLower(line) == "exit" || strings.ToLower(line) == "quit" {
			shouldExit = true
			continue
		}

		fmt.Println(">", line)
		if err := handler.ProcessCommand(line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			hadErrors = true
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return false, shouldExit
	}
	return !hadErrors, shouldExit
}

// buildLoops wires the default named loops and their starting patterns
// over b. The presets map is returned alongside so the console's
// "set-pattern" command can swap between named presets at runtime.
func buildLoops(b bus.Bus) (map[string]*loop.LiveLoop, map[string]pattern.Pattern) {
	chordMgr := &pattern.StaticChordManager{Chords: []pattern.Chord{{Root: "C", Type: "maj7", Duration: 16}}}
	energyMgr := pattern.FixedEnergyManager{Hype: pattern.HypeMedium, Tension: pattern.TensionLow}
	rhythmMgr := pattern.FourFourRhythm{}
	ctx := &pattern.Context{Chord: chordMgr, Energy: energyMgr, Rhythm: rhythmMgr}

	presets := map[string]pattern.Pattern{
		"chord-stabs": pattern.NewChordTrigger(pattern.ChordPatternConfig{Octave: 3}),
		"bass-funk":   pattern.NewSyncopatedBass(pattern.SyncopatedBassConfig{Genre: "funk", Density: 0.6}),
		"bass-house":  pattern.NewSyncopatedBass(pattern.SyncopatedBassConfig{Genre: "house", Density: 0.8}),
		"arp-chance":  pattern.NewChanceArp(pattern.ChanceArpConfig{ProbabilityToAdvance: 70, RestProbability: 15}),
		"drum-basic": pattern.NewDrum(pattern.DrumPatternConfig{
			Medium: map[string][]int{
				"kick":  {1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
				"snare": {0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
				"hat":   {1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0},
			},
			PitchNames: map[string]string{"kick": "C1", "snare": "D1", "hat": "F#1"},
		}),
		"lead-phrase": pattern.NewPhraseContourMelody(pattern.PhraseContourConfig{
			PhraseBars:  4,
			SubSections: []string{"build", "peak", "resolve"},
		}),
	}

	loops := map[string]*loop.LiveLoop{
		"chord": loop.New(loop.Config{Pattern: presets["chord-stabs"], Channel: 1, Context: ctx, Bus: b}),
		"bass":  loop.New(loop.Config{Pattern: presets["bass-funk"], Channel: 2, Context: ctx, Bus: b}),
		"arp":   loop.New(loop.Config{Pattern: presets["arp-chance"], Channel: 3, Context: ctx, Bus: b}),
		"drum":  loop.New(loop.Config{Pattern: presets["drum-basic"], Channel: 10, Context: ctx, Bus: b}),
		"lead":  loop.New(loop.Config{Pattern: presets["lead-phrase"], Channel: 4, Context: ctx, Bus: b}),
	}
	return loops, presets
}

// runClock drives every loop's Tick at a fixed sixteenth-note interval
// derived from bpm until stopChan is closed.
func runClock(loops map[string]*loop.LiveLoop, bpm int, stopChan <-chan struct{}) {
	stepDurationMs := (60_000.0 / float64(bpm)) / 4.0
	stepDuration := time.Duration(stepDurationMs * float64(time.Millisecond))

	step := 0
	ticker := time.NewTicker(stepDuration)
	defer ticker.Stop()

	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			dt := stepDuration.Seconds()
			for _, l := range loops {
				l.Tick(step, dt)
			}
			step++
		}
	}
}

func main() {
	scriptFile := flag.String("script", "", "execute commands from file")
	bpm := flag.Int("bpm", 96, "tempo in beats per minute")
	flag.Parse()

	ports, err := bus.ListPorts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing MIDI ports: %v\n", err)
		os.Exit(1)
	}
	if len(ports) == 0 {
		fmt.Fprintf(os.Stderr, "No MIDI output ports found\n")
		os.Exit(1)
	}

	fmt.Println("Available MIDI ports:")
	for i, port := range ports {
		fmt.Printf("  %d: %s\n", i, port)
	}

	var portIndex int
	inBatchMode := *scriptFile != "" || !isTerminal()

	if len(ports) == 1 || inBatchMode {
		portIndex = 0
		fmt.Printf("\nUsing port %d: %s\n\n", portIndex, ports[portIndex])
	} else {
		fmt.Print("\n")
		rl, err := readline.New(fmt.Sprintf("Select MIDI port (0-%d): ", len(ports)-1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating readline: %v\n", err)
			os.Exit(1)
		}
		defer rl.Close()

		input, err := rl.Readline()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			os.Exit(1)
		}

		input = strings.TrimSpace(input)
		portIndex, err = strconv.Atoi(input)
		if err != nil || portIndex < 0 || portIndex >= len(ports) {
			fmt.Fprintf(os.Stderr, "Invalid port selection: %s\n", input)
			os.Exit(1)
		}
		fmt.Printf("Using port %d: %s\n\n", portIndex, ports[portIndex])
	}

	midiBus, err := bus.OpenMIDIBus(portIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening MIDI port: %v\n", err)
		os.Exit(1)
	}
	defer midiBus.Close()

	loops, presets := buildLoops(midiBus)

	stopChan := make(chan struct{})
	go runClock(loops, *bpm, stopChan)

	cleanup := func() {
		close(stopChan)
		for _, l := range loops {
			l.StopAll()
		}
		midiBus.Close()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down gracefully...")
		cleanup()
		os.Exit(0)
	}()

	fmt.Println("Playback started! Type 'help' for commands, 'quit' to exit.")
	fmt.Println()

	cmdHandler := console.New(loops, func(name string) (pattern.Pattern, bool) {
		p, ok := presets[name]
		return p, ok
	}, os.Stdout)

	if *scriptFile != "" {
		f, err := os.Open(*scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script file: %v\n", err)
			os.Exit(2)
		}
		defer f.Close()

		success, shouldExit := processBatchInput(f, cmdHandler)
		if shouldExit {
			cleanup()
			if success {
				os.Exit(0)
			}
			os.Exit(1)
		}
		fmt.Println("\nScript completed. Playback continues. Press Ctrl+C to exit.")
		select {}
	}

	if isTerminal() {
		if err := cmdHandler.ReadLoop(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading commands: %v\n", err)
			os.Exit(1)
		}
	} else {
		success, shouldExit := processBatchInput(os.Stdin, cmdHandler)
		if shouldExit {
			cleanup()
			if success {
				os.Exit(0)
			}
			os.Exit(1)
		}
		fmt.Println("\nBatch commands completed. Playback continues. Press Ctrl+C to exit.")
		select {}
	}

	cleanup()
	fmt.Println("Goodbye!")
}
