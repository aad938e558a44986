// Package tts defines the text-to-speech vendor contract and an audio memo cache.
package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrEmptyAudio = errors.New("tts: vendor returned no audio")

// Provider turns text into encoded audio (mp3 for the default vendor).
type Provider interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Voice() string
}

// StatusError reports a non-2xx answer from the vendor. Stage is "submit" or
// "fetch" for the two-step protocol.
type StatusError struct {
	Stage      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tts %s: upstream status %d", e.Stage, e.StatusCode)
}

// AudioCache memoises synthesised audio keyed by sha256(voice + ":" + text),
// so switching voices misses rather than replaying the wrong one.
type AudioCache struct {
	store  *cache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

func NewAudioCache(ttl time.Duration) *AudioCache {
	return &AudioCache{store: cache.New(ttl, 2*ttl)}
}

func Key(voice, text string) string {
	sum := sha256.Sum256([]byte(voice + ":" + text))
	return hex.EncodeToString(sum[:])
}

func (c *AudioCache) Get(voice, text string) ([]byte, bool) {
	if v, ok := c.store.Get(Key(voice, text)); ok {
		c.hits.Add(1)
		return v.([]byte), true
	}
	c.misses.Add(1)
	return nil, false
}

func (c *AudioCache) Put(voice, text string, audio []byte) {
	c.store.SetDefault(Key(voice, text), audio)
}

// Stats returns hit and miss counts since creation.
func (c *AudioCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
