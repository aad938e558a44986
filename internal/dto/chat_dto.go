package dto

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required,notblank"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

type ChatResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}
