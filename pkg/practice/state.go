package practice

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrEmptyTranscript   = errors.New("please answer the question before submitting")
	ErrEvaluationPending = errors.New("an evaluation is already in progress")
	// ErrStaleSpeech marks a completion for a speech that is no longer current.
	ErrStaleSpeech = errors.New("stale speech completion")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpeaking
	PhaseListening
	PhaseEvaluating
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpeaking:
		return "speaking"
	case PhaseListening:
		return "listening"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type SpeechKind int

const (
	SpeechQuestion SpeechKind = iota
	SpeechFeedback
)

// Evaluation is a graded answer as returned by the gateway. Score holds the
// IELTS band for IELTS sessions.
type Evaluation struct {
	Score       float64
	Feedback    string
	ModelAnswer string
}

type AnswerRecord struct {
	Section     string
	Question    string
	UserAnswer  string
	Score       float64
	Feedback    string
	ModelAnswer string
}

// State is the whole session. Only Transition produces new states.
type State struct {
	Phase      Phase
	Plan       *QuestionPlan
	Cursor     int
	Transcript string
	Records    []AnswerRecord

	// Speech identifies the current utterance while Phase is PhaseSpeaking.
	Speech     int
	SpeechKind SpeechKind

	// LastError is set while an Evaluating session waits for a re-submit.
	LastError error

	AutoAdvance   bool
	SpeakFeedback bool
}

// NewState returns the Idle state at the first question of plan.
func NewState(plan *QuestionPlan, autoAdvance, speakFeedback bool) State {
	return State{
		Phase:         PhaseIdle,
		Plan:          plan,
		AutoAdvance:   autoAdvance,
		SpeakFeedback: speakFeedback,
	}
}

// InFlight reports whether a gateway evaluation is outstanding.
func (s State) InFlight() bool {
	return s.Phase == PhaseEvaluating && s.LastError == nil
}

// Question returns the current section and question text.
func (s State) Question() (string, string) {
	return s.Plan.At(s.Cursor)
}

type Event interface{ event() }

type (
	Dispatch            struct{}
	SpeechEnded         struct{ Speech int }
	SpeechTimedOut      struct{ Speech int }
	TranscriptUpdated   struct{ Text string }
	SubmitAnswer        struct{}
	EvaluationSucceeded struct{ Result Evaluation }
	EvaluationFailed    struct{ Err error }
	Advance             struct{}
)

func (Dispatch) event()            {}
func (SpeechEnded) event()         {}
func (SpeechTimedOut) event()      {}
func (TranscriptUpdated) event()   {}
func (SubmitAnswer) event()        {}
func (EvaluationSucceeded) event() {}
func (EvaluationFailed) event()    {}
func (Advance) event()             {}

type Effect interface{ effect() }

type Speak struct {
	Speech int
	Kind   SpeechKind
	Text   string
	// Paced is set for questions reached by auto advance.
	Paced bool
}

type Evaluate struct {
	Mode     string
	Question string
	Answer   string
}

type (
	StartListening struct{}
	StopListening  struct{}
	ShowReport     struct{ Records []AnswerRecord }
	ShowError      struct{ Err error }
)

func (Speak) effect()          {}
func (StartListening) effect() {}
func (StopListening) effect()  {}
func (Evaluate) effect()       {}
func (ShowReport) effect()     {}
func (ShowError) effect()      {}

// Transition applies ev to s. On error the returned state is s unchanged and
// no effects are produced.
func Transition(s State, ev Event) (State, []Effect, error) {
	switch e := ev.(type) {
	case Dispatch, Advance:
		if s.Phase != PhaseIdle || s.Cursor >= s.Plan.Len() {
			return s, nil, invalid(s, ev)
		}
		next, speak := s.speakQuestion(false)
		return next, []Effect{speak}, nil

	case SpeechEnded:
		return s.speechDone(e.Speech)

	case SpeechTimedOut:
		return s.speechDone(e.Speech)

	case TranscriptUpdated:
		if s.Phase != PhaseListening {
			return s, nil, invalid(s, ev)
		}
		s.Transcript = e.Text
		return s, nil, nil

	case SubmitAnswer:
		return s.submit(ev)

	case EvaluationSucceeded:
		if !s.InFlight() {
			return s, nil, invalid(s, ev)
		}
		return s.recordResult(e.Result)

	case EvaluationFailed:
		if !s.InFlight() {
			return s, nil, invalid(s, ev)
		}
		err := e.Err
		if err == nil {
			err = errors.New("evaluation failed")
		}
		s.LastError = err
		return s, []Effect{ShowError{Err: err}}, nil
	}
	return s, nil, invalid(s, ev)
}

func (s State) submit(ev Event) (State, []Effect, error) {
	switch {
	case s.InFlight():
		return s, nil, ErrEvaluationPending
	case s.Phase == PhaseEvaluating:
		// Retry after a failure; the transcript is still intact.
		s.LastError = nil
		return s, []Effect{s.evaluate()}, nil
	case s.Phase != PhaseListening:
		return s, nil, invalid(s, ev)
	case strings.TrimSpace(s.Transcript) == "":
		return s, nil, ErrEmptyTranscript
	}
	s.Phase = PhaseEvaluating
	return s, []Effect{StopListening{}, s.evaluate()}, nil
}

func (s State) evaluate() Evaluate {
	_, q := s.Question()
	return Evaluate{Mode: s.Plan.Mode(), Question: q, Answer: strings.TrimSpace(s.Transcript)}
}

func (s State) recordResult(res Evaluation) (State, []Effect, error) {
	section, q := s.Question()
	s.Records = append(slices.Clone(s.Records), AnswerRecord{
		Section:     section,
		Question:    q,
		UserAnswer:  strings.TrimSpace(s.Transcript),
		Score:       res.Score,
		Feedback:    res.Feedback,
		ModelAnswer: res.ModelAnswer,
	})
	s.Transcript = ""
	s.LastError = nil

	if s.SpeakFeedback {
		s.Phase = PhaseSpeaking
		s.Speech++
		s.SpeechKind = SpeechFeedback
		return s, []Effect{Speak{
			Speech: s.Speech,
			Kind:   SpeechFeedback,
			Text:   SpokenSummary(s.Plan.Mode(), res),
		}}, nil
	}
	return s.afterAnswer()
}

// afterAnswer moves past the current question once its result is recorded.
func (s State) afterAnswer() (State, []Effect, error) {
	s.Cursor++
	if s.Cursor >= s.Plan.Len() {
		s.Phase = PhaseComplete
		return s, []Effect{ShowReport{Records: slices.Clone(s.Records)}}, nil
	}
	if !s.AutoAdvance {
		s.Phase = PhaseIdle
		return s, nil, nil
	}
	next, speak := s.speakQuestion(true)
	return next, []Effect{speak}, nil
}

func (s State) speakQuestion(paced bool) (State, Speak) {
	_, q := s.Question()
	s.Phase = PhaseSpeaking
	s.Speech++
	s.SpeechKind = SpeechQuestion
	s.Transcript = ""
	return s, Speak{Speech: s.Speech, Kind: SpeechQuestion, Text: q, Paced: paced}
}

func (s State) speechDone(id int) (State, []Effect, error) {
	if s.Phase != PhaseSpeaking || id != s.Speech {
		return s, nil, ErrStaleSpeech
	}
	if s.SpeechKind == SpeechFeedback {
		return s.afterAnswer()
	}
	s.Phase = PhaseListening
	return s, []Effect{StartListening{}}, nil
}

func invalid(s State, ev Event) error {
	return fmt.Errorf("%w: %T in phase %s", ErrInvalidTransition, ev, s.Phase)
}

// SpokenSummary is the feedback read back to the user after an evaluation.
func SpokenSummary(mode string, res Evaluation) string {
	if mode == ModeIELTS {
		return fmt.Sprintf("Your band score is %s. Feedback: %s. Band nine model answer: %s",
			formatScore(res.Score), res.Feedback, res.ModelAnswer)
	}
	return fmt.Sprintf("Your score is %s. Feedback: %s. Here's a good response: %s",
		formatScore(res.Score), res.Feedback, res.ModelAnswer)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
