package dto

import "speaksmart-be/internal/constant"

type EvaluateAnswerRequest struct {
	Question   string `json:"question" validate:"required,notblank"`
	UserAnswer string `json:"userAnswer" validate:"required,notblank"`
}

// EvaluationResult is the mode-independent grading outcome. Score holds the
// IELTS band (1-9) or the 1-10 score for the other modes.
type EvaluationResult struct {
	Mode        string
	Score       float64
	Feedback    string
	ModelAnswer string
}

type IELTSEvaluationResponse struct {
	Band        float64 `json:"band"`
	Feedback    string  `json:"feedback"`
	Band9Answer string  `json:"band9_answer"`
}

type ScoreEvaluationResponse struct {
	Score        float64 `json:"score"`
	Feedback     string  `json:"feedback"`
	GoodResponse string  `json:"good_response"`
}

// ToResponse renders the wire shape for the result's mode.
func (r *EvaluationResult) ToResponse() any {
	if r.Mode == constant.ModeIELTS {
		return IELTSEvaluationResponse{
			Band:        r.Score,
			Feedback:    r.Feedback,
			Band9Answer: r.ModelAnswer,
		}
	}
	return ScoreEvaluationResponse{
		Score:        r.Score,
		Feedback:     r.Feedback,
		GoodResponse: r.ModelAnswer,
	}
}
