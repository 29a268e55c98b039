// Package gemini wraps the Google Gemini generative API.
package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"google.golang.org/api/option"
)

// Client generates text from a prompt.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}

type client struct {
	genai       *genai.Client
	model       string
	temperature float32
}

// Option configures a Client.
type Option func(*client)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(c *client) { c.temperature = t }
}

// NewClient creates a Gemini client for the given model.
func NewClient(ctx context.Context, apiKey, model string, opts ...Option) (Client, error) {
	if apiKey == "" {
		return nil, eris.New("gemini: api key is required")
	}
	g, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: new client")
	}
	c := &client{genai: g, model: model, temperature: 0.3}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *client) GenerateText(ctx context.Context, prompt string) (string, error) {
	m := c.genai.GenerativeModel(c.model)
	m.SetTemperature(c.temperature)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", eris.Wrap(err, "gemini: generate content")
	}
	return ResponseText(resp)
}

func (c *client) Close() error {
	return c.genai.Close()
}

// ResponseText joins the text parts of the first candidate.
func ResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", eris.New("gemini: no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", eris.New("gemini: no content in response")
	}
	var parts []string
	for _, p := range cand.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}
	if len(parts) == 0 {
		return "", eris.New("gemini: no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
