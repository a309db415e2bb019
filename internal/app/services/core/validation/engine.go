package validation

import (
	"context"
	"time"

	"fhirhub-service/internal/pkg/fhir_dto"
)

// Observability is a diagnostics record captured once at engine construction
// and never mutated. It plays no part in business logic.
type Observability struct {
	Identity            string    `json:"identity"`
	Name                string    `json:"name"`
	ConstructionStartAt time.Time `json:"constructionStartAt"`
	ConstructionEndAt   time.Time `json:"constructionEndAt"`
}

// ValidationResult is the immutable outcome of one engine run over one
// payload. Engines never let a failure escape Validate: internal errors
// become a result with Valid=false and a synthesized fatal outcome.
type ValidationResult struct {
	InitiatedAt      time.Time                 `json:"initiatedAt"`
	CompletedAt      time.Time                 `json:"completedAt"`
	ProfileURL       string                    `json:"profileUrl"`
	IGVersion        string                    `json:"igVersion,omitempty"`
	Observability    Observability             `json:"observability"`
	Valid            bool                      `json:"valid"`
	OperationOutcome fhir_dto.OperationOutcome `json:"operationOutcome"`
}

// Engine validates one payload against one profile.
type Engine interface {
	Validate(ctx context.Context, payload []byte, interactionID string) ValidationResult
	Observability() Observability
}

// fatalResult synthesizes the failure-shaped result shared by all engine
// variants.
func fatalResult(obs Observability, profileURL, igVersion, diagnostics string, initiatedAt time.Time) ValidationResult {
	return ValidationResult{
		InitiatedAt:      initiatedAt,
		CompletedAt:      time.Now(),
		ProfileURL:       profileURL,
		IGVersion:        igVersion,
		Observability:    obs,
		Valid:            false,
		OperationOutcome: fhir_dto.FatalOutcome(diagnostics),
	}
}
