// Package llm abstracts the generative-text services used for qualitative
// analysis.
package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/client-intel/pkg/anthropic"
	"github.com/sells-group/client-intel/pkg/gemini"
)

// Generator produces free text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Anthropic adapts the Anthropic Messages client.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// NewAnthropic returns a Generator backed by client.
func NewAnthropic(client anthropic.Client, model string, maxTokens int64, timeout time.Duration) *Anthropic {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Anthropic{client: client, model: model, maxTokens: maxTokens, timeout: timeout}
}

// Generate sends prompt as a single user turn.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic generate")
	}
	resp.Usage.LogCost(a.model, "market_narrative")

	text := resp.Text()
	if text == "" {
		return "", eris.New("llm: anthropic returned no text")
	}
	return text, nil
}

// Gemini adapts the Gemini client.
type Gemini struct {
	client  gemini.Client
	timeout time.Duration
}

// NewGemini returns a Generator backed by client.
func NewGemini(client gemini.Client, timeout time.Duration) *Gemini {
	return &Gemini{client: client, timeout: timeout}
}

// Generate asks Gemini for a completion.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.client.GenerateText(ctx, prompt)
	if err != nil {
		return "", eris.Wrap(err, "llm: gemini generate")
	}
	return text, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
