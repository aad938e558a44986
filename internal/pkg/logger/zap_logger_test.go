package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("QUESTION", "cache hit", map[string]interface{}{"key": "job:marketing"})
	l.Error("EVALUATION", "upstream failed", map[string]interface{}{"error": "boom"})
	l.Warn("HTTP", "no details", nil)

	entries := logs.All()
	assert.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "QUESTION", first["module"])
	assert.Equal(t, map[string]interface{}{"key": "job:marketing"}, first["details"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error_ref"])

	assert.Equal(t, map[string]interface{}{}, entries[2].ContextMap()["details"])
}
