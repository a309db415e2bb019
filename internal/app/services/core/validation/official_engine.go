package validation

import (
	"context"
	"fmt"
	"os"
	"time"

	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/fhir_dto"
	"fhirhub-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// EmbeddedOfficialEngine runs the official validator with an
// implementation-guide package loaded once at construction. Construction is
// the expensive step; the registry guarantees it happens at most once per
// profile.
type EmbeddedOfficialEngine struct {
	obs        Observability
	profileURL string
	igVersion  string
	igPackage  []byte
	validator  contracts.ValidatorCapability
	log        *zap.Logger
}

func NewEmbeddedOfficialEngine(profileURL, igVersion, igPackagePath string, validator contracts.ValidatorCapability, log *zap.Logger) (*EmbeddedOfficialEngine, error) {
	start := time.Now()

	var igPackage []byte
	if igPackagePath != "" {
		data, err := os.ReadFile(igPackagePath)
		if err != nil {
			return nil, fmt.Errorf("loading IG package %q: %w", igPackagePath, err)
		}
		igPackage = data
	}

	engine := &EmbeddedOfficialEngine{
		profileURL: profileURL,
		igVersion:  igVersion,
		igPackage:  igPackage,
		validator:  validator,
		log:        log,
	}
	engine.obs = Observability{
		Identity:            utils.GenerateSessionID(),
		Name:                string(EngineKindEmbeddedOfficial),
		ConstructionStartAt: start,
		ConstructionEndAt:   time.Now(),
	}
	return engine, nil
}

func (e *EmbeddedOfficialEngine) Observability() Observability {
	return e.obs
}

func (e *EmbeddedOfficialEngine) Validate(ctx context.Context, payload []byte, interactionID string) (result ValidationResult) {
	initiatedAt := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("embeddedOfficialEngine.Validate recovered from panic",
				zap.String(constvars.LoggingInteractionIDKey, interactionID),
				zap.Any("panic", r),
			)
			result = fatalResult(e.obs, e.profileURL, e.igVersion, fmt.Sprintf("validator panic: %v", r), initiatedAt)
		}
	}()

	valid, issues, err := e.validator.Validate(ctx, payload, e.profileURL)
	if err != nil {
		e.log.Error("embeddedOfficialEngine.Validate validator failure",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.String(constvars.LoggingProfileURLKey, e.profileURL),
			zap.Error(err),
		)
		return fatalResult(e.obs, e.profileURL, e.igVersion, err.Error(), initiatedAt)
	}

	return ValidationResult{
		InitiatedAt:   initiatedAt,
		CompletedAt:   time.Now(),
		ProfileURL:    e.profileURL,
		IGVersion:     e.igVersion,
		Observability: e.obs,
		Valid:         valid,
		OperationOutcome: fhir_dto.OperationOutcome{
			ResourceType: constvars.ResourceOperationOutcome,
			Issue:        issues,
		},
	}
}
