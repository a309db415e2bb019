package interactions

import (
	"context"
	"encoding/json"

	"fhirhub-service/internal/app/contracts"
)

// RecordAcceptInput carries the original payload persisted at
// ACCEPT_FHIR_BUNDLE.
type RecordAcceptInput struct {
	InteractionID       string
	GroupInteractionID  string
	MasterInteractionID string
	TenantID            string
	Payload             json.RawMessage
}

// RecordDispositionInput carries the disposition payload: validation outcome
// plus the computed action list.
type RecordDispositionInput struct {
	InteractionID string
	TenantID      string
	Payload       json.RawMessage
	Nature        string
}

// RecordForwardInput carries the outbound request snapshot persisted at
// FORWARD.
type RecordForwardInput struct {
	InteractionID string
	TenantID      string
	Payload       json.RawMessage
}

// RecordCompleteInput carries the downstream response persisted at COMPLETE.
type RecordCompleteInput struct {
	InteractionID string
	TenantID      string
	Payload       json.RawMessage
}

// ForwardError is the structured error captured at FAIL.
type ForwardError struct {
	Message           string              `json:"message"`
	RootCause         string              `json:"rootCause,omitempty"`
	MostSpecificCause string              `json:"mostSpecificCause,omitempty"`
	StatusCode        int                 `json:"statusCode,omitempty"`
	ResponseHeaders   map[string][]string `json:"responseHeaders,omitempty"`
	ResponseBody      string              `json:"responseBody,omitempty"`
}

// RecordFailInput carries the structured failure persisted at FAIL.
type RecordFailInput struct {
	InteractionID string
	TenantID      string
	Error         ForwardError
}

// InteractionUsecase is the durable state machine tracking each interaction
// from receipt through disposition and terminal success or failure.
// Transitions are append-only; each write is independent and best-effort with
// respect to the synchronous response path.
type InteractionUsecase interface {
	RecordAccept(ctx context.Context, input *RecordAcceptInput) error
	RecordDisposition(ctx context.Context, input *RecordDispositionInput) error
	RecordForward(ctx context.Context, input *RecordForwardInput) error
	RecordComplete(ctx context.Context, input *RecordCompleteInput) error
	RecordFail(ctx context.Context, input *RecordFailInput) error

	LatestState(ctx context.Context, interactionID string) (*contracts.StateTransitionRecord, error)
	// OriginalPayload returns the payload persisted at ACCEPT_FHIR_BUNDLE,
	// used by manual replay.
	OriginalPayload(ctx context.Context, interactionID string) (*contracts.StateTransitionRecord, error)
}
