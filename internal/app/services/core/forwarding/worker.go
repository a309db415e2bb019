package forwarding

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/app/services/core/interactions"
	"fhirhub-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// Worker consumes forward messages and performs exactly one downstream
// attempt per message. Success writes COMPLETE, anything else writes FAIL
// with a structured error. There is no automatic retry; replay of failed
// interactions is a separate explicit operation.
type Worker struct {
	consumer     contracts.DispatchConsumer
	interactions interactions.InteractionUsecase
	secrets      contracts.SecretStore
	cfg          config.AppForwarding
	log          *zap.Logger
	stop         chan struct{}
}

func NewWorker(consumer contracts.DispatchConsumer, interactionUsecase interactions.InteractionUsecase, secrets contracts.SecretStore, cfg config.AppForwarding, log *zap.Logger) *Worker {
	return &Worker{
		consumer:     consumer,
		interactions: interactionUsecase,
		secrets:      secrets,
		cfg:          cfg,
		log:          log,
		stop:         make(chan struct{}),
	}
}

// Start begins consuming. It returns a stop function to halt execution.
func (w *Worker) Start(ctx context.Context) (stop func(), err error) {
	messages, err := w.consumer.Consume(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				w.Deliver(ctx, msg)
			}
		}
	}()

	return func() {
		close(w.stop)
	}, nil
}

// Deliver performs the single downstream attempt for one message and records
// the terminal transition.
func (w *Worker) Deliver(ctx context.Context, msg contracts.ForwardMessage) {
	strategy, err := resolveAuthStrategy(msg.AuthStrategy, w.cfg, w.secrets)
	if err != nil {
		w.fail(ctx, msg, "auth strategy resolution failed", err, nil, nil)
		return
	}

	client, headers, err := strategy.Prepare(ctx)
	if err != nil {
		// Configuration errors fail fast: no outbound request is made.
		w.fail(ctx, msg, "auth strategy misconfigured", err, nil, nil)
		return
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, w.cfg.ScoringEndpointUrl, bytes.NewReader(msg.Payload))
	if err != nil {
		w.fail(ctx, msg, "failed to build downstream request", err, nil, nil)
		return
	}
	req.Header.Set(constvars.HeaderContentType, msg.ContentType)
	req.Header.Set(constvars.HeaderInteractionID, msg.InteractionID)
	req.Header.Set(constvars.HeaderTenantID, msg.TenantID)
	for name, values := range headers {
		for _, value := range values {
			req.Header.Set(name, value)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		w.fail(ctx, msg, "downstream call failed", err, nil, nil)
		return
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= 300 {
		w.fail(ctx, msg, "downstream returned non-success status", nil, resp, bodyBytes)
		return
	}

	if err := w.interactions.RecordComplete(ctx, &interactions.RecordCompleteInput{
		InteractionID: msg.InteractionID,
		TenantID:      msg.TenantID,
		Payload:       bodyBytes,
	}); err != nil {
		w.log.Warn("worker.Deliver complete transition not persisted",
			zap.String(constvars.LoggingInteractionIDKey, msg.InteractionID),
			zap.Error(err),
		)
	}

	w.log.Info("worker.Deliver downstream call complete",
		zap.String(constvars.LoggingInteractionIDKey, msg.InteractionID),
		zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
	)
}

func (w *Worker) fail(ctx context.Context, msg contracts.ForwardMessage, message string, cause error, resp *http.Response, body []byte) {
	forwardError := interactions.ForwardError{
		Message: message,
	}
	if cause != nil {
		forwardError.RootCause = rootCause(cause)
		forwardError.MostSpecificCause = cause.Error()
	}
	if resp != nil {
		forwardError.StatusCode = resp.StatusCode
		forwardError.ResponseHeaders = resp.Header
		forwardError.ResponseBody = string(body)
	}

	if err := w.interactions.RecordFail(ctx, &interactions.RecordFailInput{
		InteractionID: msg.InteractionID,
		TenantID:      msg.TenantID,
		Error:         forwardError,
	}); err != nil {
		w.log.Warn("worker.fail fail transition not persisted",
			zap.String(constvars.LoggingInteractionIDKey, msg.InteractionID),
			zap.Error(err),
		)
	}

	w.log.Error("worker.Deliver downstream call failed",
		zap.String(constvars.LoggingInteractionIDKey, msg.InteractionID),
		zap.String("failure", message),
		zap.Int(constvars.LoggingStatusCodeKey, forwardError.StatusCode),
		zap.Error(cause),
	)
}

// rootCause walks the unwrap chain to the innermost error.
func rootCause(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
