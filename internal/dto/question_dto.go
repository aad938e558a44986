package dto

type GenerateJobQuestionsRequest struct {
	UserField string `json:"userField" validate:"required,notblank"`
}

type GenerateSpeakingQuestionsRequest struct {
	Topic string `json:"topic" validate:"required,notblank"`
}

type IELTSQuestionSet struct {
	Part1 []string `json:"part1"`
	Part2 []string `json:"part2"`
	Part3 []string `json:"part3"`
}

type QuestionListResponse struct {
	Questions []string `json:"questions"`
}
