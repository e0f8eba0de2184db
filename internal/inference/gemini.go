// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/research-agent/pkg/types"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiBackend calls the Gemini API through the genai SDK.
type GeminiBackend struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiBackend creates a Gemini client from cfg. A nil http client uses
// the SDK default.
func NewGeminiBackend(ctx context.Context, cfg types.AIConfig, httpClient *http.Client) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "claude") {
		model = defaultGeminiModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &GeminiBackend{client: client, model: model, maxTokens: int32(maxTokens)}, nil
}

func (g *GeminiBackend) generate(ctx context.Context, systemPrompt, userPrompt, mimeType string) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxTokens,
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if mimeType != "" {
		config.ResponseMIMEType = mimeType
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), config)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty Gemini response", ErrMalformedResponse)
	}
	return text, nil
}

// Invoke sends one system/user exchange and returns the response text.
func (g *GeminiBackend) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.generate(ctx, systemPrompt, userPrompt, "")
}

// InvokeStructured requests a JSON response and decodes it into out.
func (g *GeminiBackend) InvokeStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema, out any) error {
	text, err := g.generate(ctx, systemPrompt, userPrompt+"\n\n"+schema.Instruction(), "application/json")
	if err != nil {
		return err
	}
	return DecodeJSON(text, out)
}
