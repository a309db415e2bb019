package contracts

import (
	"context"
	"encoding/json"
	"time"
)

// StateTransitionRecord is one append-only step in an interaction's durable
// history. Records are never rewritten or deleted.
type StateTransitionRecord struct {
	InteractionID       string          `bson:"interaction_id" json:"interactionId"`
	GroupInteractionID  string          `bson:"group_interaction_id,omitempty" json:"groupInteractionId,omitempty"`
	MasterInteractionID string          `bson:"master_interaction_id,omitempty" json:"masterInteractionId,omitempty"`
	TenantID            string          `bson:"tenant_id" json:"tenantId"`
	FromState           string          `bson:"from_state" json:"fromState"`
	ToState             string          `bson:"to_state" json:"toState"`
	Nature              string          `bson:"nature,omitempty" json:"nature,omitempty"`
	Payload             json.RawMessage `bson:"payload,omitempty" json:"payload,omitempty"`
	Actor               string          `bson:"actor,omitempty" json:"actor,omitempty"`
	Provenance          string          `bson:"provenance,omitempty" json:"provenance,omitempty"`
	RecordedAt          time.Time       `bson:"recorded_at" json:"recordedAt"`
}

// StateStore persists state transitions through a generic execute/insert
// surface. Implementations must treat Execute as append-only.
type StateStore interface {
	Execute(ctx context.Context, record *StateTransitionRecord) error
	LatestTransition(ctx context.Context, interactionID string) (*StateTransitionRecord, error)
	Transitions(ctx context.Context, interactionID string) ([]StateTransitionRecord, error)
}
