package validation

import (
	"context"
	"fmt"

	"fhirhub-service/internal/pkg/dto/requests"

	"github.com/goccy/go-json"
)

// DeviceInfo identifies the hub instance that ran a session.
type DeviceInfo struct {
	DeviceID string
	Name     string
}

// Session runs every payload through every selected engine and accumulates
// results. Engines, payloads and profile are frozen at Build time. Validate
// appends to the result list, so invoking it twice duplicates entries; run it
// once per session.
type Session struct {
	SessionID     string
	InteractionID string
	Device        DeviceInfo
	ProfileURL    string

	payloads   [][]byte
	engines    []Engine
	results    []ValidationResult
	softIssues []string
}

// Validate iterates payload-major, engine-minor: results[i] corresponds to
// iteration i of that nested order, P*E entries per invocation. One engine's
// internal failure never prevents the remaining engines or payloads from
// being attempted.
func (s *Session) Validate(ctx context.Context) {
	for _, payload := range s.payloads {
		for _, engine := range s.engines {
			s.results = append(s.results, engine.Validate(ctx, payload, s.InteractionID))
		}
	}
}

func (s *Session) Results() []ValidationResult {
	return s.results
}

func (s *Session) Engines() []Engine {
	return s.engines
}

func (s *Session) PayloadCount() int {
	return len(s.payloads)
}

// SoftIssues lists non-fatal problems found while applying the caller's
// strategy document, e.g. unrecognized engine names.
func (s *Session) SoftIssues() []string {
	return s.softIssues
}

// Valid reports whether every accumulated result passed.
func (s *Session) Valid() bool {
	for _, result := range s.results {
		if !result.Valid {
			return false
		}
	}
	return true
}

// SessionBuilder assembles an immutable Session. Payloads accumulate across
// calls; the engine list comes from the caller's strategy document or falls
// back to the local library engine.
type SessionBuilder struct {
	registry      *EngineRegistry
	sessionID     string
	interactionID string
	device        DeviceInfo
	profileURL    string
	payloads      [][]byte
	kinds         []EngineKind
	softIssues    []string
}

func NewSessionBuilder(registry *EngineRegistry, sessionID string) *SessionBuilder {
	return &SessionBuilder{
		registry:  registry,
		sessionID: sessionID,
	}
}

func (b *SessionBuilder) WithInteractionID(interactionID string) *SessionBuilder {
	b.interactionID = interactionID
	return b
}

func (b *SessionBuilder) WithDevice(device DeviceInfo) *SessionBuilder {
	b.device = device
	return b
}

func (b *SessionBuilder) WithProfileURL(profileURL string) *SessionBuilder {
	b.profileURL = profileURL
	return b
}

func (b *SessionBuilder) AddPayload(payload []byte) *SessionBuilder {
	b.payloads = append(b.payloads, payload)
	return b
}

// ApplyStrategyDocument parses a JSON strategy document and applies it. A
// malformed document or unrecognized engine name is a soft issue surfaced to
// the caller for diagnostics, never a fatal error.
func (b *SessionBuilder) ApplyStrategyDocument(doc []byte) *SessionBuilder {
	var strategy requests.ValidationStrategy
	if err := json.Unmarshal(doc, &strategy); err != nil {
		b.softIssues = append(b.softIssues, fmt.Sprintf("strategy document is not valid JSON: %v", err))
		return b
	}
	return b.ApplyStrategy(strategy)
}

// ApplyStrategy applies a parsed strategy. With ClearExisting the engine list
// is emptied first, then each named engine is appended in document order.
func (b *SessionBuilder) ApplyStrategy(strategy requests.ValidationStrategy) *SessionBuilder {
	if strategy.ClearExisting {
		b.kinds = nil
	}
	for _, name := range strategy.Engines {
		kind, ok := ParseEngineKind(name)
		if !ok {
			b.softIssues = append(b.softIssues, fmt.Sprintf("unrecognized validation engine %q", name))
			continue
		}
		b.kinds = append(b.kinds, kind)
	}
	return b
}

// Build resolves engines through the registry and freezes the session. When
// no strategy named any engine, exactly the local library engine is used.
func (b *SessionBuilder) Build(ctx context.Context) (*Session, error) {
	kinds := b.kinds
	if len(kinds) == 0 {
		kinds = []EngineKind{EngineKindLocalLibrary}
	}

	engines := make([]Engine, 0, len(kinds))
	for _, kind := range kinds {
		engine, err := b.registry.Get(ctx, EngineKey{Kind: kind, ProfileURL: b.profileURL})
		if err != nil {
			return nil, err
		}
		engines = append(engines, engine)
	}

	return &Session{
		SessionID:     b.sessionID,
		InteractionID: b.interactionID,
		Device:        b.device,
		ProfileURL:    b.profileURL,
		payloads:      b.payloads,
		engines:       engines,
		softIssues:    b.softIssues,
	}, nil
}
