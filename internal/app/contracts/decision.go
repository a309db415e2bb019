package contracts

import (
	"context"
	"encoding/json"
)

// DispositionAction is one per-issue action from the decision service.
type DispositionAction struct {
	Action string          `json:"action"`
	Detail json.RawMessage `json:"detail,omitempty"`
}

// DecisionService computes the disposition for a validated interaction. It is
// treated as a pure function over the validation outcome.
type DecisionService interface {
	Decide(ctx context.Context, validationOutcome json.RawMessage, interactionID string) ([]DispositionAction, error)
}
