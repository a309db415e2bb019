package validation

import (
	"context"
	"fmt"
	"time"

	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/fhir_dto"
	"fhirhub-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// LocalLibraryEngine wraps the in-process validator capability.
type LocalLibraryEngine struct {
	obs        Observability
	profileURL string
	igVersion  string
	validator  contracts.ValidatorCapability
	log        *zap.Logger
}

func NewLocalLibraryEngine(profileURL, igVersion string, validator contracts.ValidatorCapability, log *zap.Logger) *LocalLibraryEngine {
	start := time.Now()
	engine := &LocalLibraryEngine{
		profileURL: profileURL,
		igVersion:  igVersion,
		validator:  validator,
		log:        log,
	}
	engine.obs = Observability{
		Identity:            utils.GenerateSessionID(),
		Name:                string(EngineKindLocalLibrary),
		ConstructionStartAt: start,
		ConstructionEndAt:   time.Now(),
	}
	return engine
}

func (e *LocalLibraryEngine) Observability() Observability {
	return e.obs
}

func (e *LocalLibraryEngine) Validate(ctx context.Context, payload []byte, interactionID string) (result ValidationResult) {
	initiatedAt := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("localLibraryEngine.Validate recovered from panic",
				zap.String(constvars.LoggingInteractionIDKey, interactionID),
				zap.Any("panic", r),
			)
			result = fatalResult(e.obs, e.profileURL, e.igVersion, fmt.Sprintf("validator panic: %v", r), initiatedAt)
		}
	}()

	valid, issues, err := e.validator.Validate(ctx, payload, e.profileURL)
	if err != nil {
		e.log.Error("localLibraryEngine.Validate validator failure",
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
