package server

import (
	"testing"

	"speaksmart-be/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, "https://a.example, https://b.example", allowedOrigins(config.AppConfig{
		CorsAllowedOrigins: "https://a.example, https://b.example",
		ClientURL:          "http://localhost:5173",
	}))
	assert.Equal(t, "http://localhost:5173", allowedOrigins(config.AppConfig{ClientURL: "http://localhost:5173"}))
}
