package disposition

import (
	"context"

	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type dispositionUsecase struct {
	decision contracts.DecisionService
	// forwardOnReject is a policy parameter: when set, a reject-bearing
	// action list still forwards the annotated payload downstream.
	forwardOnReject bool
	log             *zap.Logger
}

func NewDispositionUsecase(decision contracts.DecisionService, forwardOnReject bool, log *zap.Logger) DispositionUsecase {
	return &dispositionUsecase{
		decision:        decision,
		forwardOnReject: forwardOnReject,
		log:             log,
	}
}

// dispositionPayload is what gets persisted at DISPOSITION and, when the
// pipeline forwards, annotated onto the outbound payload.
type dispositionPayload struct {
	ValidationOutcome json.RawMessage               `json:"validationOutcome"`
	Actions           []contracts.DispositionAction `json:"actions"`
}

// Compute asks the decision service for per-issue actions and applies the
// branching rules: any discard halts the pipeline after DISPOSITION; any
// reject withholds forwarding unless the forward-on-reject policy is set. A
// decision failure is fail-open: the original payload is forwarded
// unannotated rather than dropped.
func (uc *dispositionUsecase) Compute(ctx context.Context, validationOutcome json.RawMessage, interactionID string) *Outcome {
	actions, err := uc.decision.Decide(ctx, validationOutcome, interactionID)
	if err != nil {
		uc.log.Error("dispositionUsecase.Compute decision unavailable, failing open",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.Error(err),
		)
		return &Outcome{
			Forward:   true,
			Annotated: false,
		}
	}

	outcome := &Outcome{
		Actions:   actions,
		Annotated: true,
	}
	for _, action := range actions {
		switch action.Action {
		case constvars.DispositionDiscard:
			outcome.Discard = true
		case constvars.DispositionReject:
			outcome.Reject = true
		}
	}

	payload, merr := json.Marshal(dispositionPayload{
		ValidationOutcome: validationOutcome,
		Actions:           actions,
	})
	if merr != nil {
		uc.log.Error("dispositionUsecase.Compute marshal disposition payload failed",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.Error(merr),
		)
	} else {
		outcome.Payload = payload
	}

	switch {
	case outcome.Discard:
		outcome.Forward = false
	case outcome.Reject:
		outcome.Forward = uc.forwardOnReject
	default:
		outcome.Forward = true
	}

	if outcome.Reject && !outcome.Forward {
		uc.log.Info("dispositionUsecase.Compute rejection present, DO NOT FORWARD",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
		)
	}

	return outcome
}
