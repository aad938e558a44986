package practice

import (
	"fmt"
	"strings"
)

// AverageScore returns the mean score across records, or 0 for none.
func AverageScore(records []AnswerRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Score
	}
	return sum / float64(len(records))
}

// Report renders the end-of-session summary as plain text.
func Report(mode string, records []AnswerRecord) string {
	label := "Score"
	if mode == ModeIELTS {
		label = "Band"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SpeakSmart AI - %s practice report\n", strings.ToUpper(mode))
	sb.WriteString(strings.Repeat("=", 40) + "\n")

	for i, r := range records {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, r.Question)
		if r.Section != "" && mode == ModeIELTS {
			fmt.Fprintf(&sb, "   Section: %s\n", r.Section)
		}
		fmt.Fprintf(&sb, "   Your answer: %s\n", r.UserAnswer)
		fmt.Fprintf(&sb, "   %s: %s\n", label, formatScore(r.Score))
		fmt.Fprintf(&sb, "   Feedback: %s\n", r.Feedback)
		fmt.Fprintf(&sb, "   Model answer: %s\n", r.ModelAnswer)
	}

	sb.WriteString("\n" + strings.Repeat("-", 40) + "\n")
	if len(records) == 0 {
		sb.WriteString("No answers were evaluated.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Average %s: %.1f\n", strings.ToLower(label), AverageScore(records))
	return sb.String()
}
