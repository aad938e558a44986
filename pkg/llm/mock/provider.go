// Package mock provides a scripted LLMProvider for tests.
package mock

import (
	"context"
	"errors"
	"sync"

	"speaksmart-be/pkg/llm"
)

// Reply is one scripted answer. Err takes precedence over Text.
type Reply struct {
	Text string
	Err  error
}

// Provider returns queued replies in order. Once the queue is drained the last
// reply repeats, so a single failing Reply scripts "always fails".
type Provider struct {
	mu        sync.Mutex
	replies   []Reply
	calls     int
	prompts   []string
	histories [][]llm.Message
}

var _ llm.LLMProvider = (*Provider)(nil)

func New(replies ...Reply) *Provider {
	return &Provider{replies: replies}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.histories = append(p.histories, append([]llm.Message(nil), history...))
	if len(history) > 0 {
		p.prompts = append(p.prompts, history[len(history)-1].Content)
	}
	idx := p.calls
	p.calls++

	if len(p.replies) == 0 {
		return "", errors.New("mock: no scripted reply")
	}
	if idx >= len(p.replies) {
		idx = len(p.replies) - 1
	}
	r := p.replies[idx]
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// Calls is the number of Chat/Generate invocations so far.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Prompts returns the last message content of every call, in order.
func (p *Provider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.prompts))
	copy(out, p.prompts)
	return out
}

// Histories returns the full message history of every call, in order.
func (p *Provider) Histories() [][]llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]llm.Message, len(p.histories))
	copy(out, p.histories)
	return out
}
