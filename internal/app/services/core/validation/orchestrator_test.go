package validation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestOrchestrationEngine(t *testing.T) {
	newSession := func(id string) *Session {
		return &Session{
			SessionID: id,
			payloads:  [][]byte{[]byte(`{"resourceType":"Bundle"}`)},
			engines:   []Engine{&stubEngine{valid: true}},
		}
	}

	t.Run("Orchestrate validates and records sessions in order", func(t *testing.T) {
		orchestrator := NewOrchestrationEngine(stubRegistry(), 10, zap.NewNop())

		first := newSession("session-a")
		second := newSession("session-b")
		orchestrator.Orchestrate(context.Background(), first, second)

		assert.Len(t, first.Results(), 1)
		assert.Len(t, second.Results(), 1)

		history := orchestrator.History()
		assert.Len(t, history, 2)
		assert.Equal(t, "session-a", history[0].SessionID)
		assert.Equal(t, "session-b", history[1].SessionID)
	})

	t.Run("History is bounded with oldest-first eviction", func(t *testing.T) {
		orchestrator := NewOrchestrationEngine(stubRegistry(), 3, zap.NewNop())

		for i := 0; i < 5; i++ {
			orchestrator.Orchestrate(context.Background(), newSession(fmt.Sprintf("session-%d", i)))
		}

		history := orchestrator.History()
		assert.Len(t, history, 3)
		assert.Equal(t, "session-2", history[0].SessionID)
		assert.Equal(t, "session-4", history[2].SessionID)
	})

	t.Run("Clear removes by session id", func(t *testing.T) {
		orchestrator := NewOrchestrationEngine(stubRegistry(), 10, zap.NewNop())

		keep := newSession("session-keep")
		drop := newSession("session-drop")
		orchestrator.Orchestrate(context.Background(), keep, drop)

		orchestrator.Clear(&Session{SessionID: "session-drop"})

		history := orchestrator.History()
		assert.Len(t, history, 1)
		assert.Equal(t, "session-keep", history[0].SessionID)
	})
}
