package practice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoQuestions = errors.New("no questions available for this session")
	// ErrDeviceUnavailable is returned by a Listener that cannot capture audio.
	// It aborts the session.
	ErrDeviceUnavailable = errors.New("microphone unavailable")
	ErrSessionStarted    = errors.New("session already started")
)

// Speaker renders text as speech and calls done once playback has finished.
// done may be called from any goroutine, at most once.
type Speaker interface {
	Speak(ctx context.Context, text string, done func()) error
}

// Listener captures the user's answer and reports the running transcript.
type Listener interface {
	Start(ctx context.Context, onTranscript func(text string)) error
	Stop() error
}

type Gateway interface {
	Evaluate(ctx context.Context, mode, question, answer string) (*Evaluation, error)
}

type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

type Config struct {
	// SettleDelay precedes the first question.
	SettleDelay time.Duration
	// PaceDelay precedes each auto-advanced question.
	PaceDelay time.Duration
	// SpeechTimeout bounds how long a speech completion is awaited.
	SpeechTimeout time.Duration
	AutoAdvance   bool
	SpeakFeedback bool
}

func DefaultConfig() Config {
	return Config{
		SettleDelay:   500 * time.Millisecond,
		PaceDelay:     time.Second,
		SpeechTimeout: 2 * time.Minute,
		AutoAdvance:   true,
		SpeakFeedback: true,
	}
}

type Option func(*Orchestrator)

func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithObserver is called with every new state. It runs on the session
// goroutine and must not block.
func WithObserver(fn func(State)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// WithErrorHandler receives rejected actions and failed evaluations. It runs
// on the session goroutine and must not block.
func WithErrorHandler(fn func(error)) Option {
	return func(o *Orchestrator) { o.onError = fn }
}

func WithReportHandler(fn func([]AnswerRecord)) Option {
	return func(o *Orchestrator) { o.onReport = fn }
}

// Orchestrator runs a single practice session. All state changes happen on
// the goroutine executing Run.
type Orchestrator struct {
	id       string
	cfg      Config
	speaker  Speaker
	listener Listener
	gateway  Gateway
	clock    Clock

	observe  func(State)
	onError  func(error)
	onReport func([]AnswerRecord)

	events  chan Event
	fatal   chan error
	done    chan struct{}
	started atomic.Bool

	mu    sync.Mutex
	state State
}

func NewOrchestrator(cfg Config, speaker Speaker, listener Listener, gateway Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		id:       uuid.NewString(),
		cfg:      cfg,
		speaker:  speaker,
		listener: listener,
		gateway:  gateway,
		clock:    realClock{},
		observe:  func(State) {},
		onError:  func(error) {},
		onReport: func([]AnswerRecord) {},
		events:   make(chan Event, 32),
		fatal:    make(chan error, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) ID() string { return o.id }

// State returns a snapshot of the current session state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit asks for the current transcript to be evaluated.
func (o *Orchestrator) Submit() { o.send(SubmitAnswer{}) }

// UpdateTranscript replaces the transcript of the answer being captured.
func (o *Orchestrator) UpdateTranscript(text string) { o.send(TranscriptUpdated{Text: text}) }

// Advance moves to the next question in a session without auto advance.
func (o *Orchestrator) Advance() { o.send(Advance{}) }

func (o *Orchestrator) send(ev Event) {
	select {
	case o.events <- ev:
	case <-o.done:
	}
}

// Run drives the session until it completes, ctx ends, or the listener reports
// a device failure. It returns the answer records gathered so far.
func (o *Orchestrator) Run(ctx context.Context, plan *QuestionPlan) ([]AnswerRecord, error) {
	if plan.Len() == 0 {
		return nil, ErrNoQuestions
	}
	if !o.started.CompareAndSwap(false, true) {
		return nil, ErrSessionStarted
	}
	defer close(o.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.setState(NewState(plan, o.cfg.AutoAdvance, o.cfg.SpeakFeedback))

	go func() {
		select {
		case <-o.clock.After(o.cfg.SettleDelay):
			o.send(Dispatch{})
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = o.listener.Stop()
			return o.State().Records, ctx.Err()

		case err := <-o.fatal:
			_ = o.listener.Stop()
			return o.State().Records, err

		case ev := <-o.events:
			if re, ok := ev.(reportError); ok {
				o.onError(re.err)
				continue
			}
			next, effects, err := Transition(o.State(), ev)
			if err != nil {
				if !errors.Is(err, ErrStaleSpeech) {
					o.onError(err)
				}
				continue
			}
			o.setState(next)
			o.observe(next)

			for _, eff := range effects {
				o.execute(ctx, eff)
			}
			if next.Phase == PhaseComplete {
				return next.Records, nil
			}
		}
	}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) execute(ctx context.Context, eff Effect) {
	switch e := eff.(type) {
	case Speak:
		go o.speak(ctx, e)

	case StartListening:
		err := o.listener.Start(ctx, func(text string) {
			o.send(TranscriptUpdated{Text: text})
		})
		if err != nil {
			o.abort(err)
		}

	case StopListening:
		if err := o.listener.Stop(); err != nil {
			o.onError(err)
		}

	case Evaluate:
		go func() {
			res, err := o.gateway.Evaluate(ctx, e.Mode, e.Question, e.Answer)
			if err != nil {
				o.send(EvaluationFailed{Err: err})
				return
			}
			o.send(EvaluationSucceeded{Result: *res})
		}()

	case ShowReport:
		o.onReport(e.Records)

	case ShowError:
		o.onError(e.Err)
	}
}

// speak plays one utterance. A watchdog injects SpeechTimedOut when the
// speaker never reports completion.
func (o *Orchestrator) speak(ctx context.Context, e Speak) {
	if e.Paced {
		select {
		case <-o.clock.After(o.cfg.PaceDelay):
		case <-ctx.Done():
			return
		}
	}

	ended := make(chan struct{})
	var once sync.Once
	done := func() {
		once.Do(func() {
			close(ended)
			o.send(SpeechEnded{Speech: e.Speech})
		})
	}

	if err := o.speaker.Speak(ctx, e.Text, done); err != nil {
		o.onErrorAsync(err)
		done()
		return
	}

	select {
	case <-ended:
	case <-o.clock.After(o.cfg.SpeechTimeout):
		o.send(SpeechTimedOut{Speech: e.Speech})
	case <-ctx.Done():
	}
}

// reportError carries errors raised off the session goroutine to onError.
type reportError struct{ err error }

func (reportError) event() {}

func (o *Orchestrator) onErrorAsync(err error) {
	o.send(reportError{err: err})
}

// Abort ends the session; Run returns err.
func (o *Orchestrator) Abort(err error) { o.abort(err) }

func (o *Orchestrator) abort(err error) {
	select {
	case o.fatal <- err:
	default:
	}
}
