// Package llmtest provides scripted llm.Generator doubles for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/dusk-indust/agentflow/internal/llm"
)

// Compile-time interface check.
var _ llm.Generator = (*Stub)(nil)

// Rule answers any request whose last message contains Match.
type Rule struct {
	Match    string
	Response string
	Err      error
}

// Stub is a deterministic Generator. Rules are checked in order against the
// content of the last message; the first match wins. Requests that match no
// rule get Default. Stub is safe for concurrent use.
type Stub struct {
	Rules   []Rule
	Default string

	mu    sync.Mutex
	calls []llm.GenerateRequest
}

// NewStub returns a Stub with the given rules.
func NewStub(rules ...Rule) *Stub {
	return &Stub{Rules: rules}
}

// Generate implements llm.Generator.
func (s *Stub) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.calls = append(s.calls, copyRequest(req))
	s.mu.Unlock()

	last := ""
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	for _, r := range s.Rules {
		if strings.Contains(last, r.Match) {
			return r.Response, r.Err
		}
	}
	return s.Default, nil
}

// Calls returns a snapshot of every request received so far.
func (s *Stub) Calls() []llm.GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.GenerateRequest, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns the number of requests received so far.
func (s *Stub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func copyRequest(req llm.GenerateRequest) llm.GenerateRequest {
	msgs := make([]llm.Message, len(req.Messages))
	copy(msgs, req.Messages)
	req.Messages = msgs
	return req
}
