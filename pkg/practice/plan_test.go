package practice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIELTSPlan_OrdersSections(t *testing.T) {
	p := NewIELTSPlan(IELTSQuestions{
		Part1: []string{"a", "b"},
		Part2: []string{"Describe a book you enjoyed."},
		Part3: []string{"c"},
	})

	require.Equal(t, 4, p.Len())
	assert.Equal(t, ModeIELTS, p.Mode())

	section, q := p.At(2)
	assert.Equal(t, "part2", section)
	assert.Equal(t, "Describe a book you enjoyed.", q)

	section, q = p.At(3)
	assert.Equal(t, "part3", section)
	assert.Equal(t, "c", q)
}

func TestNewFlatPlan_DropsBlankQuestions(t *testing.T) {
	p := NewFlatPlan(ModeSpeaking, []string{"one", " ", "", "two"})
	assert.Equal(t, 2, p.Len())

	p = NewFlatPlan(ModeSpeaking, []string{" "})
	assert.Zero(t, p.Len())
	assert.Empty(t, p.Sections())
}

func TestQuestionPlan_SectionsIsCopy(t *testing.T) {
	qs := []string{"one"}
	p := NewFlatPlan(ModeJob, qs)

	qs[0] = "changed"
	sections := p.Sections()
	sections[0].Questions[0] = "also changed"

	_, q := p.At(0)
	assert.Equal(t, "one", q)
}
