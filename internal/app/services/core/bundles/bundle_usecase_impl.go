package bundles

import (
	"context"
	"fmt"
	"time"

	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/services/core/disposition"
	"fhirhub-service/internal/app/services/core/forwarding"
	"fhirhub-service/internal/app/services/core/interactions"
	"fhirhub-service/internal/app/services/core/validation"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/dto/responses"
	"fhirhub-service/internal/pkg/exceptions"
	"fhirhub-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type bundleUsecase struct {
	orchestrator *validation.OrchestrationEngine
	interactions interactions.InteractionUsecase
	disposition  disposition.DispositionUsecase
	dispatcher   *forwarding.Dispatcher
	cfg          *config.InternalConfig
	log          *zap.Logger
}

func NewBundleUsecase(
	orchestrator *validation.OrchestrationEngine,
	interactionUsecase interactions.InteractionUsecase,
	dispositionUsecase disposition.DispositionUsecase,
	dispatcher *forwarding.Dispatcher,
	cfg *config.InternalConfig,
	log *zap.Logger,
) BundleUsecase {
	return &bundleUsecase{
		orchestrator: orchestrator,
		interactions: interactionUsecase,
		disposition:  dispositionUsecase,
		dispatcher:   dispatcher,
		cfg:          cfg,
		log:          log,
	}
}

// validationOutcome is the aggregate handed to the decision service and
// echoed in the synchronous response.
type validationOutcome struct {
	Valid   bool                         `json:"valid"`
	Results []responses.ValidationResult `json:"results"`
}

func (uc *bundleUsecase) SubmitBundle(ctx context.Context, input *SubmitBundleInput) (*responses.SubmitBundle, error) {
	sessionID := utils.GenerateSessionID()
	interactionID := input.InteractionID
	if interactionID == "" {
		interactionID = utils.GenerateInteractionID()
	}

	builder := uc.orchestrator.NewSessionBuilder(sessionID).
		WithInteractionID(interactionID).
		WithDevice(validation.DeviceInfo{
			DeviceID: uc.cfg.App.DeviceID,
			Name:     uc.cfg.App.DeviceName,
		}).
		WithProfileURL(uc.cfg.Validation.DefaultProfileURL).
		AddPayload(input.Payload)

	if len(input.StrategyDocument) > 0 {
		builder.ApplyStrategyDocument(input.StrategyDocument)
	}

	session, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	uc.orchestrator.Orchestrate(ctx, session)

	results := mapResults(session.Results())
	outcome := validationOutcome{
		Valid:   session.Valid(),
		Results: results,
	}
	outcomeJSON, merr := json.Marshal(outcome)
	if merr != nil {
		uc.log.Error("bundleUsecase.SubmitBundle marshal validation outcome failed",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.Error(merr),
		)
	}

	// ACCEPT_FHIR_BUNDLE persists the original payload. Persistence is
	// best-effort: the synchronous response is never withheld over it.
	if rerr := uc.interactions.RecordAccept(ctx, &interactions.RecordAcceptInput{
		InteractionID:       interactionID,
		GroupInteractionID:  input.GroupInteractionID,
		MasterInteractionID: input.MasterInteractionID,
		TenantID:            input.TenantID,
		Payload:             input.Payload,
	}); rerr != nil {
		uc.log.Warn("bundleUsecase.SubmitBundle accept transition not persisted",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.Error(rerr),
		)
	}

	response := &responses.SubmitBundle{
		ResourceType:      constvars.ResourceOperationOutcome,
		BundleSessionID:   sessionID,
		InteractionID:     interactionID,
		IsAsync:           !input.ValidateOnly,
		ValidationResults: results,
		StatusURL:         uc.statusURL(interactionID),
		Device: responses.Device{
			DeviceID: uc.cfg.App.DeviceID,
			Name:     uc.cfg.App.DeviceName,
		},
	}
	if issues := session.SoftIssues(); len(issues) > 0 {
		response.UAValidationStrategy = &responses.UAValidationStrategy{Issues: issues}
	}

	if input.ValidateOnly {
		return response, nil
	}

	dispositionOutcome := uc.disposition.Compute(ctx, outcomeJSON, interactionID)
	response.Disposition = dispositionOutcome.Payload

	dispositionNature := ""
	if !dispositionOutcome.Annotated {
		dispositionNature = "no disposition available"
	}
	if rerr := uc.interactions.RecordDisposition(ctx, &interactions.RecordDispositionInput{
		InteractionID: interactionID,
		TenantID:      input.TenantID,
		Payload:       dispositionOutcome.Payload,
		Nature:        dispositionNature,
	}); rerr != nil {
		uc.log.Warn("bundleUsecase.SubmitBundle disposition transition not persisted",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.Error(rerr),
		)
	}

	if !dispositionOutcome.Forward {
		// Discarded interactions stop silently, rejected interactions
		// stop with the rejection visible in the disposition block.
		return response, nil
	}

	forwardPayload := input.Payload
	if dispositionOutcome.Annotated && dispositionOutcome.Payload != nil {
		annotated, aerr := json.Marshal(map[string]json.RawMessage{
			"bundle":                  input.Payload,
			"techByDesignDisposition": dispositionOutcome.Payload,
		})
		if aerr == nil {
			forwardPayload = annotated
		}
	}

	if derr := uc.dispatcher.Dispatch(ctx, &forwarding.DispatchInput{
		InteractionID:        interactionID,
		TenantID:             input.TenantID,
		Payload:              forwardPayload,
		AuthStrategyOverride: input.ForwardAuthOverride,
	}); derr != nil {
		// Already recorded as FAIL; the submitter still gets the
		// validation response and can consult the status endpoint.
		uc.log.Error("bundleUsecase.SubmitBundle dispatch failed",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.Error(derr),
		)
	}

	return response, nil
}

func (uc *bundleUsecase) InteractionStatus(ctx context.Context, interactionID string) (*responses.InteractionStatus, error) {
	record, err := uc.interactions.LatestState(ctx, interactionID)
	if err != nil {
		return nil, err
	}
	return &responses.InteractionStatus{
		InteractionID: record.InteractionID,
		TenantID:      record.TenantID,
		FromState:     record.FromState,
		ToState:       record.ToState,
		Nature:        record.Nature,
		RecordedAt:    record.RecordedAt.Format(time.RFC3339Nano),
		Payload:       record.Payload,
	}, nil
}

func (uc *bundleUsecase) ReplayInteraction(ctx context.Context, interactionID string) error {
	latest, err := uc.interactions.LatestState(ctx, interactionID)
	if err != nil {
		return err
	}
	if latest.ToState != constvars.StateFail {
		return exceptions.ErrInteractionNotReplayable(interactionID, latest.ToState)
	}

	original, err := uc.interactions.OriginalPayload(ctx, interactionID)
	if err != nil {
		return err
	}

	return uc.dispatcher.Dispatch(ctx, &forwarding.DispatchInput{
		InteractionID: interactionID,
		TenantID:      original.TenantID,
		Payload:       original.Payload,
		Replay:        true,
	})
}

func (uc *bundleUsecase) statusURL(interactionID string) string {
	return fmt.Sprintf("%s/%s/%s/Bundle/$status/%s",
		uc.cfg.App.BaseUrl, uc.cfg.App.EndpointPrefix, uc.cfg.App.Version, interactionID)
}

func mapResults(results []validation.ValidationResult) []responses.ValidationResult {
	mapped := make([]responses.ValidationResult, 0, len(results))
	for _, result := range results {
		outcomeJSON, err := json.Marshal(result.OperationOutcome)
		if err != nil {
			outcomeJSON = nil
		}
		mapped = append(mapped, responses.ValidationResult{
			EngineName:       result.Observability.Name,
			ProfileURL:       result.ProfileURL,
			IGVersion:        result.IGVersion,
			Valid:            result.Valid,
			InitiatedAt:      result.InitiatedAt.Format(time.RFC3339Nano),
			CompletedAt:      result.CompletedAt.Format(time.RFC3339Nano),
			OperationOutcome: outcomeJSON,
		})
	}
	return mapped
}
