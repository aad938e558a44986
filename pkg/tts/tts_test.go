package tts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAudioCache_KeyIncludesVoice(t *testing.T) {
	c := NewAudioCache(time.Minute)
	c.Put("voice_a", "hello", []byte("a"))

	got, ok := c.Get("voice_a", "hello")
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), got)

	_, ok = c.Get("voice_b", "hello")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 1, misses)
	assert.NotEqual(t, Key("voice_a", "hello"), Key("voice_b", "hello"))
}
