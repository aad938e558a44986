package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/pkg/client"
	"speaksmart-be/pkg/practice"

	"github.com/fatih/color"
	"go.uber.org/zap/zapcore"
)

var (
	questionColor = color.New(color.FgCyan, color.Bold)
	feedbackColor = color.New(color.FgGreen)
	promptColor   = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed)
)

func main() {
	server := flag.String("server", "http://localhost:3000", "gateway base URL")
	mode := flag.String("mode", practice.ModeIELTS, "practice mode: ielts, job or speaking")
	topic := flag.String("topic", "", "job field or speaking topic")
	auto := flag.Bool("auto", true, "advance to the next question automatically")
	reportPath := flag.String("report", "speaksmart-report.txt", "where to write the session report")
	audioDir := flag.String("save-audio", "", "directory to save spoken prompts as mp3 (requires TTS on the gateway)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := zapcore.WarnLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	log := logger.NewConsoleLogger(level)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := client.New(*server)

	fmt.Println("Preparing your questions...")
	plan, err := gw.Plan(ctx, *mode, *topic)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Could not load questions: %v\n", err)
		os.Exit(1)
	}
	log.Info("Practice", "Question plan loaded", map[string]interface{}{"mode": *mode, "questions": plan.Len()})

	if *audioDir != "" {
		if err := os.MkdirAll(*audioDir, 0o755); err != nil {
			errorColor.Fprintf(os.Stderr, "Could not create audio directory: %v\n", err)
			os.Exit(1)
		}
	}
	speaker := &consoleSpeaker{gw: gw, audioDir: *audioDir}

	input := newStdin()
	listener := &stdinListener{input: input}

	cfg := practice.DefaultConfig()
	cfg.AutoAdvance = *auto

	var o *practice.Orchestrator
	o = practice.NewOrchestrator(cfg, speaker, listener, gw,
		practice.WithObserver(func(s practice.State) {
			log.Debug("Practice", "State changed", map[string]interface{}{"phase": s.Phase.String(), "cursor": s.Cursor})
			if s.Phase == practice.PhaseIdle && len(s.Records) > 0 {
				promptColor.Println("Press Enter for the next question.")
				go func() {
					if _, ok := input.next(); ok {
						o.Advance()
					}
				}()
			}
		}),
		practice.WithErrorHandler(func(err error) {
			errorColor.Println(err.Error())
			var apiErr *client.APIError
			switch {
			case errors.Is(err, practice.ErrEmptyTranscript):
				go listener.reread(o)
			case errors.As(err, &apiErr) && !apiErr.Retryable():
				o.Abort(err)
			case o.State().Phase == practice.PhaseEvaluating && !o.State().InFlight():
				promptColor.Println("Press Enter to try the evaluation again.")
				go func() {
					if _, ok := input.next(); ok {
						o.Submit()
					}
				}()
			}
		}),
	)
	listener.orch = o
	log.Debug("Practice", "Session started", map[string]interface{}{"session": o.ID()})

	records, err := o.Run(ctx, plan)
	if err != nil {
		if errors.Is(err, practice.ErrDeviceUnavailable) {
			errorColor.Fprintln(os.Stderr, "No input available. Restart the practice session with a terminal attached.")
		} else {
			errorColor.Fprintf(os.Stderr, "Session ended: %v\n", err)
		}
	}
	if len(records) == 0 {
		return
	}

	report := practice.Report(plan.Mode(), records)
	fmt.Println()
	fmt.Print(report)
	if err := os.WriteFile(*reportPath, []byte(report), 0o644); err != nil {
		errorColor.Fprintf(os.Stderr, "Could not write report: %v\n", err)
		return
	}
	feedbackColor.Printf("Report saved to %s\n", *reportPath)
}

// consoleSpeaker prints instead of playing audio. With audioDir set, every
// utterance is also synthesized by the gateway and saved as an mp3.
type consoleSpeaker struct {
	gw       *client.Client
	audioDir string

	mu sync.Mutex
	n  int
}

func (s *consoleSpeaker) Speak(ctx context.Context, text string, done func()) error {
	if strings.HasPrefix(text, "Your ") {
		feedbackColor.Println(text)
	} else {
		fmt.Println()
		questionColor.Println(text)
	}
	if s.audioDir != "" {
		s.save(ctx, text)
	}
	done()
	return nil
}

func (s *consoleSpeaker) save(ctx context.Context, text string) {
	audio, err := s.gw.Speech(ctx, text)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Could not synthesize audio: %v\n", err)
		return
	}
	s.mu.Lock()
	s.n++
	name := filepath.Join(s.audioDir, fmt.Sprintf("utterance-%03d.mp3", s.n))
	s.mu.Unlock()
	if err := os.WriteFile(name, audio, 0o644); err != nil {
		errorColor.Fprintf(os.Stderr, "Could not save audio: %v\n", err)
	}
}

// stdin hands out lines to whichever component is waiting for input.
type stdin struct {
	lines chan string
}

func newStdin() *stdin {
	s := &stdin{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			s.lines <- scanner.Text()
		}
		close(s.lines)
	}()
	return s
}

func (s *stdin) next() (string, bool) {
	line, ok := <-s.lines
	return line, ok
}

type stdinListener struct {
	input *stdin
	orch  *practice.Orchestrator

	mu     sync.Mutex
	closed bool
}

func (l *stdinListener) Start(_ context.Context, onTranscript func(string)) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return practice.ErrDeviceUnavailable
	}

	promptColor.Print("Your answer (Enter to submit): ")
	go func() {
		line, ok := l.input.next()
		if !ok {
			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
			l.orch.Abort(practice.ErrDeviceUnavailable)
			return
		}
		onTranscript(line)
		l.orch.Submit()
	}()
	return nil
}

func (l *stdinListener) Stop() error { return nil }

func (l *stdinListener) reread(o *practice.Orchestrator) {
	promptColor.Print("Your answer (Enter to submit): ")
	line, ok := l.input.next()
	if !ok {
		return
	}
	o.UpdateTranscript(line)
	o.Submit()
}
