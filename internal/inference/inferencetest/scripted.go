// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inferencetest provides a scripted inference backend for tests.
package inferencetest

import (
	"context"
	"strings"
	"sync"

	"github.com/pdiddy/research-agent/internal/inference"
)

// Rule answers calls whose system prompt contains Match (and whose user
// prompt contains UserMatch, when set).
type Rule struct {
	Match     string
	UserMatch string
	Reply     string
	Err       error
}

// Call records one invocation.
type Call struct {
	System     string
	User       string
	Structured bool
}

// Scripted is a deterministic inference.Backend. Rules are tried in order;
// unmatched calls return Default, or DefaultErr when set.
type Scripted struct {
	Rules      []Rule
	Default    string
	DefaultErr error

	mu    sync.Mutex
	calls []Call
}

var _ inference.Backend = (*Scripted)(nil)

func (s *Scripted) answer(system, user string, structured bool) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{System: system, User: user, Structured: structured})
	s.mu.Unlock()

	for _, r := range s.Rules {
		if !strings.Contains(system, r.Match) {
			continue
		}
		if r.UserMatch != "" && !strings.Contains(user, r.UserMatch) {
			continue
		}
		return r.Reply, r.Err
	}
	return s.Default, s.DefaultErr
}

// Invoke returns the scripted reply.
func (s *Scripted) Invoke(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.answer(systemPrompt, userPrompt, false)
}

// InvokeStructured decodes the scripted reply as JSON into out.
func (s *Scripted) InvokeStructured(_ context.Context, systemPrompt, userPrompt string, _ inference.Schema, out any) error {
	text, err := s.answer(systemPrompt, userPrompt, true)
	if err != nil {
		return err
	}
	return inference.DecodeJSON(text, out)
}

// Calls returns a copy of the recorded invocations.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns the number of invocations so far.
func (s *Scripted) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
