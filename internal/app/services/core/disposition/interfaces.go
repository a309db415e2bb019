package disposition

import (
	"context"
	"encoding/json"

	"fhirhub-service/internal/app/contracts"
)

// Outcome is the computed branch decision for one interaction.
type Outcome struct {
	// Actions is the raw per-issue action list from the decision service.
	Actions []contracts.DispositionAction
	// Payload is the disposition payload persisted at DISPOSITION: the
	// validation outcome plus the computed action list.
	Payload json.RawMessage
	// Discard halts the pipeline after DISPOSITION with no forward.
	Discard bool
	// Reject marks the caller-visible result as rejected.
	Reject bool
	// Forward is the final branch decision after policy is applied.
	Forward bool
	// Annotated is false when the decision service failed and the original
	// payload must be forwarded unannotated (fail-open).
	Annotated bool
}

// DispositionUsecase computes the accept/reject/discard branch for a
// validated interaction.
type DispositionUsecase interface {
	Compute(ctx context.Context, validationOutcome json.RawMessage, interactionID string) *Outcome
}
