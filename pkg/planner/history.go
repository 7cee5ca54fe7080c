package planner

import (
	"sync"

	"github.com/askiada/go-planflow/pkg/llm"
)

// History is an append-only conversation.
//
// With a turn limit, only the most recent turns are kept; the system turns the
// history started with are never dropped. Trimming never leaves an assistant
// reply without the request it answers.
type History struct {
	mu     sync.Mutex
	system []llm.Message
	turns  []llm.Message
	limit  int
}

type HistoryOption func(h *History)

// WithTurnLimit keeps at most limit turns besides the leading system turns.
// 0 keeps everything.
func WithTurnLimit(limit int) HistoryOption {
	return func(h *History) {
		if limit > 0 {
			h.limit = limit
		}
	}
}

// NewHistory creates a history starting with a system turn, unless systemPrompt is empty.
func NewHistory(systemPrompt string, opts ...HistoryOption) *History {
	h := &History{}
	if systemPrompt != "" {
		h.system = append(h.system, llm.SystemMessage(systemPrompt))
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Append adds turns at the end of the history.
func (h *History) Append(msgs ...llm.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, msgs...)
	if h.limit <= 0 || len(h.turns) <= h.limit {
		return
	}

	start := len(h.turns) - h.limit
	for start < len(h.turns) && h.turns[start].Role == llm.RoleAssistant {
		start++
	}
	kept := make([]llm.Message, len(h.turns)-start)
	copy(kept, h.turns[start:])
	h.turns = kept
}

// Messages returns a copy of the conversation, system turns first.
func (h *History) Messages() []llm.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := make([]llm.Message, 0, len(h.system)+len(h.turns))
	msgs = append(msgs, h.system...)

	return append(msgs, h.turns...)
}

// Len returns the number of turns, system turns included.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.system) + len(h.turns)
}
