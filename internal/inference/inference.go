// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inference abstracts the language-model capability used by the
// classifier, extractor, analyzers and synthesis. Callers depend on Backend;
// vendors (Claude Messages API, Gemini) are selected by configuration.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/research-agent/pkg/types"
)

var (
	// ErrNoAPIKey is returned when a backend is constructed without credentials.
	ErrNoAPIKey = errors.New("inference API key is not configured")

	// ErrMalformedResponse is returned when a response cannot be decoded.
	ErrMalformedResponse = errors.New("malformed inference response")
)

// Backend is the inference capability.
type Backend interface {
	// Invoke sends a system and user prompt and returns the text response.
	Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// InvokeStructured asks for a JSON object shaped by schema and decodes
	// it into out.
	InvokeStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema, out any) error
}

// SchemaField describes one property of a structured response.
type SchemaField struct {
	Name        string
	Type        string // string, boolean, number, array
	Description string
}

// Schema describes the JSON object expected from InvokeStructured.
type Schema struct {
	Name   string
	Fields []SchemaField
}

// Instruction renders the schema as a response-format instruction appended
// to the user prompt.
func (s Schema) Instruction() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Respond with a single JSON object (%s) and no other text. Properties:\n", s.Name)
	for _, f := range s.Fields {
		typ := f.Type
		if typ == "array" {
			typ = "array of strings"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", f.Name, typ, f.Description)
	}
	return b.String()
}

// New builds the backend selected by cfg, wrapped with retries and the
// per-call timeout.
func New(ctx context.Context, cfg types.AIConfig, client *http.Client) (Backend, error) {
	var b Backend
	switch cfg.Backend {
	case types.AIBackendGemini:
		g, err := NewGeminiBackend(ctx, cfg, client)
		if err != nil {
			return nil, err
		}
		b = g
	case types.AIBackendClaude, "":
		if cfg.APIKey == "" {
			return nil, ErrNoAPIKey
		}
		b = &ClaudeBackend{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Client:    client,
		}
	default:
		return nil, fmt.Errorf("unknown inference backend %q", cfg.Backend)
	}
	return WithRetry(b, cfg.MaxRetries, cfg.Timeout), nil
}

// backoffBase controls the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// retrying wraps a Backend with bounded retries. The timeout covers the
// whole call including retries so a caller never waits unbounded.
type retrying struct {
	next       Backend
	maxRetries int
	timeout    time.Duration
}

// WithRetry wraps b so each call is retried up to maxRetries times with
// exponential backoff and bounded by timeout (zero disables the bound).
func WithRetry(b Backend, maxRetries int, timeout time.Duration) Backend {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &retrying{next: b, maxRetries: maxRetries, timeout: timeout}
}

func (r *retrying) Invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var text string
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		text, err = r.next.Invoke(ctx, systemPrompt, userPrompt)
		return err
	})
	return text, err
}

func (r *retrying) InvokeStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema, out any) error {
	return r.do(ctx, func(ctx context.Context) error {
		return r.next.InvokeStructured(ctx, systemPrompt, userPrompt, schema, out)
	})
}

func (r *retrying) do(ctx context.Context, call func(context.Context) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := call(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, ErrNoAPIKey) || ctx.Err() != nil {
			break
		}
	}
	if r.maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("after %d retries: %w", r.maxRetries, lastErr)
}

// DecodeJSON extracts the first JSON object from text, tolerating code
// fences and surrounding prose, and decodes it into out.
func DecodeJSON(text string, out any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
