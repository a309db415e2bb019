package interactions

import (
	"context"
	"time"

	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type interactionUsecase struct {
	store       contracts.StateStore
	statusCache *StatusCache
	actor       string
	log         *zap.Logger
}

func NewInteractionUsecase(store contracts.StateStore, statusCache *StatusCache, actor string, log *zap.Logger) InteractionUsecase {
	return &interactionUsecase{
		store:       store,
		statusCache: statusCache,
		actor:       actor,
		log:         log,
	}
}

func (uc *interactionUsecase) RecordAccept(ctx context.Context, input *RecordAcceptInput) error {
	return uc.execute(ctx, &contracts.StateTransitionRecord{
		InteractionID:       input.InteractionID,
		GroupInteractionID:  input.GroupInteractionID,
		MasterInteractionID: input.MasterInteractionID,
		TenantID:            input.TenantID,
		FromState:           constvars.StateNone,
		ToState:             constvars.StateAcceptFHIRBundle,
		Nature:              "Original FHIR Payload",
		Payload:             input.Payload,
	})
}

func (uc *interactionUsecase) RecordDisposition(ctx context.Context, input *RecordDispositionInput) error {
	nature := input.Nature
	if nature == "" {
		nature = "techByDesignDisposition"
	}
	return uc.execute(ctx, &contracts.StateTransitionRecord{
		InteractionID: input.InteractionID,
		TenantID:      input.TenantID,
		FromState:     constvars.StateAcceptFHIRBundle,
		ToState:       constvars.StateDisposition,
		Nature:        nature,
		Payload:       input.Payload,
	})
}

func (uc *interactionUsecase) RecordForward(ctx context.Context, input *RecordForwardInput) error {
	return uc.execute(ctx, &contracts.StateTransitionRecord{
		InteractionID: input.InteractionID,
		TenantID:      input.TenantID,
		FromState:     constvars.StateDisposition,
		ToState:       constvars.StateForward,
		Nature:        "Forwarded HTTP Request",
		Payload:       input.Payload,
	})
}

func (uc *interactionUsecase) RecordComplete(ctx context.Context, input *RecordCompleteInput) error {
	return uc.execute(ctx, &contracts.StateTransitionRecord{
		InteractionID: input.InteractionID,
		TenantID:      input.TenantID,
		FromState:     constvars.StateForward,
		ToState:       constvars.StateComplete,
		Nature:        "Forwarded HTTP Response",
		Payload:       input.Payload,
	})
}

func (uc *interactionUsecase) RecordFail(ctx context.Context, input *RecordFailInput) error {
	payload, err := json.Marshal(input.Error)
	if err != nil {
		payload = []byte(`{"message":"failed to marshal forward error"}`)
	}
	return uc.execute(ctx, &contracts.StateTransitionRecord{
		InteractionID: input.InteractionID,
		TenantID:      input.TenantID,
		FromState:     constvars.StateForward,
		ToState:       constvars.StateFail,
		Nature:        "Forwarded HTTP Failure",
		Payload:       payload,
	})
}

// execute appends one transition and refreshes the status snapshot cache.
// Cache refresh failures are logged only; the durable write is the source of
// truth.
func (uc *interactionUsecase) execute(ctx context.Context, record *contracts.StateTransitionRecord) error {
	record.Actor = uc.actor
	record.Provenance = "fhirhub-pipeline"
	record.RecordedAt = time.Now()

	if err := uc.store.Execute(ctx, record); err != nil {
		uc.log.Error(constvars.ErrDevStateTransitionPersistence,
			zap.String(constvars.LoggingInteractionIDKey, record.InteractionID),
			zap.String(constvars.LoggingStateKey, record.ToState),
			zap.Error(err),
		)
		return err
	}

	if uc.statusCache != nil {
		if err := uc.statusCache.Put(ctx, record); err != nil {
			uc.log.Warn("interactionUsecase.execute status cache refresh failed",
				zap.String(constvars.LoggingInteractionIDKey, record.InteractionID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (uc *interactionUsecase) LatestState(ctx context.Context, interactionID string) (*contracts.StateTransitionRecord, error) {
	if uc.statusCache != nil {
		if record, err := uc.statusCache.Get(ctx, interactionID); err == nil && record != nil {
			return record, nil
		}
	}

	record, err := uc.store.LatestTransition(ctx, interactionID)
	if err != nil {
		return nil, exceptions.ErrInteractionNotFound(err, interactionID)
	}
	return record, nil
}

func (uc *interactionUsecase) OriginalPayload(ctx context.Context, interactionID string) (*contracts.StateTransitionRecord, error) {
	transitions, err := uc.store.Transitions(ctx, interactionID)
	if err != nil {
		return nil, exceptions.ErrInteractionNotFound(err, interactionID)
	}
	for i := range transitions {
		if transitions[i].ToState == constvars.StateAcceptFHIRBundle {
			return &transitions[i], nil
		}
	}
	return nil, exceptions.ErrInteractionNotFound(nil, interactionID)
}
