package planner_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-planflow/pkg/llm"
	"github.com/askiada/go-planflow/pkg/planner"
)

func TestHistoryUnbounded(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory("sys")
	for i := 0; i < 10; i++ {
		h.Append(llm.UserMessage(fmt.Sprint(i)))
	}
	assert.Equal(t, 11, h.Len())
	assert.Equal(t, llm.SystemMessage("sys"), h.Messages()[0])
}

func TestHistoryTurnLimit(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory("sys", planner.WithTurnLimit(3))
	for i := 0; i < 5; i++ {
		h.Append(llm.UserMessage(fmt.Sprint(i)))
	}

	msgs := h.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, []string{"2", "3", "4"}, []string{msgs[1].Content, msgs[2].Content, msgs[3].Content})
}

func TestHistoryMessagesIsACopy(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory("")
	h.Append(llm.UserMessage("a"))
	msgs := h.Messages()
	msgs[0].Content = "changed"
	assert.Equal(t, "a", h.Messages()[0].Content)
}

func TestHistoryConcurrentAppend(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory("")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(llm.UserMessage("x"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, h.Len())
}

func TestHistoryTurnLimitKeepsWholeExchanges(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory("sys", planner.WithTurnLimit(2))
	h.Append(llm.UserMessage("u1"))
	h.Append(llm.AssistantMessage("a1"))
	h.Append(llm.UserMessage("u2"))

	msgs := h.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.SystemMessage("sys"), msgs[0])
	assert.Equal(t, llm.UserMessage("u2"), msgs[1])

	h.Append(llm.AssistantMessage("a2"))
	h.Append(llm.UserMessage("u3"))
	h.Append(llm.AssistantMessage("a3"))

	msgs = h.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, []llm.Role{llm.RoleSystem, llm.RoleUser, llm.RoleAssistant}, []llm.Role{msgs[0].Role, msgs[1].Role, msgs[2].Role})
	assert.Equal(t, "u3", msgs[1].Content)
}
