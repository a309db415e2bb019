package responses

import "encoding/json"

// SubmitBundle is the synchronous OperationOutcome-shaped response to a
// Bundle submission. Forwarding happens after this response is written, so
// IsAsync is always true on the submit path.
type SubmitBundle struct {
	ResourceType         string                `json:"resourceType"`
	BundleSessionID      string                `json:"bundleSessionId"`
	InteractionID        string                `json:"interactionId"`
	IsAsync              bool                  `json:"isAsync"`
	ValidationResults    []ValidationResult    `json:"validationResults"`
	StatusURL            string                `json:"statusUrl"`
	Device               Device                `json:"device"`
	UAValidationStrategy *UAValidationStrategy `json:"uaValidationStrategy,omitempty"`
	Disposition          json.RawMessage       `json:"techByDesignDisposition,omitempty"`
}

// ValidationResult is the caller-visible projection of one engine run.
type ValidationResult struct {
	EngineName       string          `json:"engine"`
	ProfileURL       string          `json:"profileUrl"`
	IGVersion        string          `json:"igVersion,omitempty"`
	Valid            bool            `json:"valid"`
	InitiatedAt      string          `json:"initiatedAt"`
	CompletedAt      string          `json:"completedAt"`
	OperationOutcome json.RawMessage `json:"operationOutcome,omitempty"`
}

type Device struct {
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
}

// UAValidationStrategy echoes back soft issues found while applying the
// caller's strategy document, e.g. unrecognized engine names.
type UAValidationStrategy struct {
	Issues []string `json:"issues"`
}

// InteractionStatus is the last known persisted state snapshot for one
// interaction. It reflects what has been durably recorded, not the final
// downstream outcome if the forward is still in flight.
type InteractionStatus struct {
	InteractionID string          `json:"interactionId"`
	TenantID      string          `json:"tenantId"`
	FromState     string          `json:"fromState"`
	ToState       string          `json:"toState"`
	Nature        string          `json:"nature,omitempty"`
	RecordedAt    string          `json:"recordedAt"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}
