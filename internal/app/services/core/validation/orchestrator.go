package validation

import (
	"context"
	"sync"

	"fhirhub-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// OrchestrationEngine owns the engine registry and a bounded history of
// sessions it has run. History is kept for introspection only, not replay.
type OrchestrationEngine struct {
	mu           sync.Mutex
	registry     *EngineRegistry
	sessions     []*Session
	historyLimit int
	log          *zap.Logger
}

func NewOrchestrationEngine(registry *EngineRegistry, historyLimit int, log *zap.Logger) *OrchestrationEngine {
	if historyLimit <= 0 {
		historyLimit = 500
	}
	return &OrchestrationEngine{
		registry:     registry,
		historyLimit: historyLimit,
		log:          log,
	}
}

func (o *OrchestrationEngine) Registry() *EngineRegistry {
	return o.registry
}

// NewSessionBuilder starts a builder bound to this orchestrator's registry.
func (o *OrchestrationEngine) NewSessionBuilder(sessionID string) *SessionBuilder {
	return NewSessionBuilder(o.registry, sessionID)
}

// Orchestrate appends each session to the history, then validates it. Both
// happen under one lock so history order matches execution order. The oldest
// sessions are evicted once the history limit is reached.
func (o *OrchestrationEngine) Orchestrate(ctx context.Context, sessions ...*Session) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, session := range sessions {
		o.sessions = append(o.sessions, session)
		if len(o.sessions) > o.historyLimit {
			o.sessions = o.sessions[len(o.sessions)-o.historyLimit:]
		}

		session.Validate(ctx)

		o.log.Debug("orchestrationEngine.Orchestrate session validated",
			zap.String(constvars.LoggingSessionIDKey, session.SessionID),
			zap.String(constvars.LoggingInteractionIDKey, session.InteractionID),
			zap.Int("payloads", session.PayloadCount()),
			zap.Int("engines", len(session.Engines())),
			zap.Int("results", len(session.Results())),
		)
	}
}

// Clear removes sessions from the history by session id, not by pointer, so
// two identical-looking sessions with different ids stay distinguishable.
func (o *OrchestrationEngine) Clear(sessions ...*Session) {
	o.mu.Lock()
	defer o.mu.Unlock()

	drop := make(map[string]struct{}, len(sessions))
	for _, session := range sessions {
		drop[session.SessionID] = struct{}{}
	}

	kept := o.sessions[:0]
	for _, session := range o.sessions {
		if _, ok := drop[session.SessionID]; !ok {
			kept = append(kept, session)
		}
	}
	for i := len(kept); i < len(o.sessions); i++ {
		o.sessions[i] = nil
	}
	o.sessions = kept
}

// History returns a snapshot of the retained sessions.
func (o *OrchestrationEngine) History() []*Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	snapshot := make([]*Session, len(o.sessions))
	copy(snapshot, o.sessions)
	return snapshot
}
