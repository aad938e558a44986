package practice

import (
	"strings"
)

const (
	ModeIELTS    = "ielts"
	ModeJob      = "job"
	ModeSpeaking = "speaking"
)

// IELTSQuestions mirrors the gateway's IELTS question set.
type IELTSQuestions struct {
	Part1 []string `json:"part1"`
	Part2 []string `json:"part2"`
	Part3 []string `json:"part3"`
}

type Section struct {
	Name      string
	Questions []string
}

// QuestionPlan is the ordered question sequence for one session. It is
// immutable once built.
type QuestionPlan struct {
	mode     string
	sections []Section
	flat     []position
}

type position struct {
	section int
	index   int
}

// NewIELTSPlan builds a three-section plan. Blank questions are dropped.
func NewIELTSPlan(set IELTSQuestions) *QuestionPlan {
	return newPlan(ModeIELTS, []Section{
		{Name: "part1", Questions: set.Part1},
		{Name: "part2", Questions: set.Part2},
		{Name: "part3", Questions: set.Part3},
	})
}

// NewFlatPlan builds a single-section plan for job and speaking sessions.
func NewFlatPlan(mode string, questions []string) *QuestionPlan {
	return newPlan(mode, []Section{{Name: "questions", Questions: questions}})
}

func newPlan(mode string, sections []Section) *QuestionPlan {
	p := &QuestionPlan{mode: mode}
	for _, s := range sections {
		kept := make([]string, 0, len(s.Questions))
		for _, q := range s.Questions {
			if strings.TrimSpace(q) != "" {
				kept = append(kept, q)
			}
		}
		if len(kept) == 0 {
			continue
		}
		si := len(p.sections)
		p.sections = append(p.sections, Section{Name: s.Name, Questions: kept})
		for i := range kept {
			p.flat = append(p.flat, position{section: si, index: i})
		}
	}
	return p
}

func (p *QuestionPlan) Mode() string { return p.mode }

// Len reports the total number of questions across all sections.
func (p *QuestionPlan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.flat)
}

// At returns the section name and question text for the i-th question.
func (p *QuestionPlan) At(i int) (section, question string) {
	pos := p.flat[i]
	s := p.sections[pos.section]
	return s.Name, s.Questions[pos.index]
}

// Sections returns a copy of the plan's sections.
func (p *QuestionPlan) Sections() []Section {
	out := make([]Section, len(p.sections))
	for i, s := range p.sections {
		out[i] = Section{Name: s.Name, Questions: append([]string(nil), s.Questions...)}
	}
	return out
}
