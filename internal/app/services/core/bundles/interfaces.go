package bundles

import (
	"context"
	"encoding/json"

	"fhirhub-service/internal/pkg/dto/responses"
)

// SubmitBundleInput carries one inbound payload through the pipeline.
type SubmitBundleInput struct {
	TenantID            string
	InteractionID       string
	GroupInteractionID  string
	MasterInteractionID string
	Payload             json.RawMessage
	// StrategyDocument is the raw caller-declared validation strategy,
	// empty when none was supplied.
	StrategyDocument []byte
	// ForwardAuthOverride selects the outbound auth strategy for this
	// request only.
	ForwardAuthOverride string
	// ValidateOnly short-circuits the pipeline after validation: no
	// disposition, no forwarding.
	ValidateOnly bool
}

// BundleUsecase runs the validation-orchestration and interaction-lifecycle
// pipeline.
type BundleUsecase interface {
	SubmitBundle(ctx context.Context, input *SubmitBundleInput) (*responses.SubmitBundle, error)
	InteractionStatus(ctx context.Context, interactionID string) (*responses.InteractionStatus, error)
	// ReplayInteraction re-dispatches a failed interaction's original
	// payload. Explicit manual operation; never automatic.
	ReplayInteraction(ctx context.Context, interactionID string) error
}
