// Package llmtest provides a scripted llm.Completer for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/llm"
)

// ErrScriptExhausted is returned once every scripted reply has been consumed.
var ErrScriptExhausted = errors.New("no scripted reply left")

// Scripted replays Replies in order and records every conversation it receives.
// Err, when set, is returned instead of a reply.
//
//	completer := &llmtest.Scripted{Replies: []string{`<TOOLS>"clean_text"</TOOLS>`}}
type Scripted struct {
	mu       sync.Mutex
	Replies  []string
	Err      error
	received [][]llm.Message
}

// Complete implements llm.Completer.
func (s *Scripted) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]llm.Message, len(messages))
	copy(cp, messages)
	s.received = append(s.received, cp)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Replies) == 0 {
		return "", ErrScriptExhausted
	}
	reply := s.Replies[0]
	s.Replies = s.Replies[1:]

	return reply, nil
}

// Calls returns the number of Complete calls.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.received)
}

// Received returns the conversation sent on call i.
func (s *Scripted) Received(i int) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.received) {
		return nil
	}

	return s.received[i]
}

var _ llm.Completer = (*Scripted)(nil)
