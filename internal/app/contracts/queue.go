package contracts

import (
	"context"
	"encoding/json"
)

// ForwardMessage is the unit handed to the dispatch queue: one downstream
// delivery attempt for one interaction.
type ForwardMessage struct {
	ID            string          `json:"id"`
	InteractionID string          `json:"interaction_id"`
	TenantID      string          `json:"tenant_id"`
	Payload       json.RawMessage `json:"payload"`
	AuthStrategy  string          `json:"auth_strategy"`
	ContentType   string          `json:"content_type,omitempty"`
	Replay        bool            `json:"replay,omitempty"`
}

// DispatchQueue decouples the request path from the single downstream
// delivery attempt. Publish must return once the message is durably handed
// off; the consumer side drives the terminal state transition.
type DispatchQueue interface {
	Publish(ctx context.Context, msg ForwardMessage) error
}

// DispatchConsumer is the receiving side of the dispatch queue.
type DispatchConsumer interface {
	Consume(ctx context.Context) (<-chan ForwardMessage, error)
}
