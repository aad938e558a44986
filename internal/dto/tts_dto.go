package dto

type TTSRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

type AudioResult struct {
	Audio       []byte
	ContentType string
	Cached      bool
}
