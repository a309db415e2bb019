package forwarding

import (
	"context"
	"encoding/json"

	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/app/services/core/interactions"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// DispatchInput describes one downstream delivery to schedule.
type DispatchInput struct {
	InteractionID string
	TenantID      string
	Payload       json.RawMessage
	// AuthStrategyOverride, when non-empty, wins over the configured
	// default strategy.
	AuthStrategyOverride string
	ContentType          string
	Replay               bool
}

// Dispatcher schedules the single asynchronous delivery of an accepted
// payload to the downstream scoring endpoint. The FORWARD transition is
// written at schedule time; the worker consuming the queue writes the
// terminal COMPLETE or FAIL.
type Dispatcher struct {
	queue        contracts.DispatchQueue
	interactions interactions.InteractionUsecase
	cfg          config.AppForwarding
	log          *zap.Logger
}

func NewDispatcher(queue contracts.DispatchQueue, interactionUsecase interactions.InteractionUsecase, cfg config.AppForwarding, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		queue:        queue,
		interactions: interactionUsecase,
		cfg:          cfg,
		log:          log,
	}
}

// Dispatch records the FORWARD transition and hands the message to the
// queue. It returns before the downstream outcome is known. A publish
// failure is terminal: it is recorded as FAIL, not retried.
func (d *Dispatcher) Dispatch(ctx context.Context, input *DispatchInput) error {
	strategy := input.AuthStrategyOverride
	if strategy == "" {
		strategy = d.cfg.DefaultAuthStrategy
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = d.cfg.DefaultContentType
	}

	msg := contracts.ForwardMessage{
		ID:            utils.GenerateRequestID(),
		InteractionID: input.InteractionID,
		TenantID:      input.TenantID,
		Payload:       input.Payload,
		AuthStrategy:  strategy,
		ContentType:   contentType,
		Replay:        input.Replay,
	}

	snapshot, err := json.Marshal(map[string]interface{}{
		"endpoint":     d.cfg.ScoringEndpointUrl,
		"authStrategy": strategy,
		"contentType":  contentType,
		"payload":      input.Payload,
	})
	if err != nil {
		snapshot = input.Payload
	}
	if rerr := d.interactions.RecordForward(ctx, &interactions.RecordForwardInput{
		InteractionID: input.InteractionID,
		TenantID:      input.TenantID,
		Payload:       snapshot,
	}); rerr != nil {
		// State persistence failures never abort the pipeline.
		d.log.Warn("dispatcher.Dispatch forward transition not persisted",
			zap.String(constvars.LoggingInteractionIDKey, input.InteractionID),
			zap.Error(rerr),
		)
	}

	if err := d.queue.Publish(ctx, msg); err != nil {
		d.log.Error("dispatcher.Dispatch publish failed",
			zap.String(constvars.LoggingInteractionIDKey, input.InteractionID),
			zap.Error(err),
		)
		d.interactions.RecordFail(ctx, &interactions.RecordFailInput{
			InteractionID: input.InteractionID,
			TenantID:      input.TenantID,
			Error: interactions.ForwardError{
				Message:           "failed to enqueue forward message",
				RootCause:         rootCause(err),
				MostSpecificCause: err.Error(),
			},
		})
		return err
	}

	d.log.Info("dispatcher.Dispatch forward scheduled",
		zap.String(constvars.LoggingInteractionIDKey, input.InteractionID),
		zap.String("auth_strategy", strategy),
		zap.Bool("replay", input.Replay),
	)
	return nil
}
