package contracts

import (
	"context"

	"fhirhub-service/internal/pkg/fhir_dto"
)

// ValidatorCapability is the external profile/schema validation algorithm.
// Implementations report parse failures of the payload itself as a fatal
// diagnostic issue, never as an error: the error return is reserved for
// infrastructure failures (the engine converts those to fatal results too).
type ValidatorCapability interface {
	Validate(ctx context.Context, payload []byte, profileURL string) (bool, []fhir_dto.OperationOutcomeIssue, error)
}
