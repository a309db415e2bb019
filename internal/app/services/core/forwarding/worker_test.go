package forwarding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/app/services/core/interactions"
	"fhirhub-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingInteractions struct {
	mu        sync.Mutex
	forwards  []*interactions.RecordForwardInput
	completes []*interactions.RecordCompleteInput
	fails     []*interactions.RecordFailInput
}

func (r *recordingInteractions) RecordAccept(ctx context.Context, input *interactions.RecordAcceptInput) error {
	return nil
}

func (r *recordingInteractions) RecordDisposition(ctx context.Context, input *interactions.RecordDispositionInput) error {
	return nil
}

func (r *recordingInteractions) RecordForward(ctx context.Context, input *interactions.RecordForwardInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forwards = append(r.forwards, input)
	return nil
}

func (r *recordingInteractions) RecordComplete(ctx context.Context, input *interactions.RecordCompleteInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completes = append(r.completes, input)
	return nil
}

func (r *recordingInteractions) RecordFail(ctx context.Context, input *interactions.RecordFailInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails = append(r.fails, input)
	return nil
}

func (r *recordingInteractions) LatestState(ctx context.Context, interactionID string) (*contracts.StateTransitionRecord, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingInteractions) OriginalPayload(ctx context.Context, interactionID string) (*contracts.StateTransitionRecord, error) {
	return nil, errors.New("not implemented")
}

type mapSecretStore map[string]string

func (s mapSecretStore) GetSecret(ctx context.Context, name string) (string, error) {
	value, ok := s[name]
	if !ok {
		return "", errors.New("secret not found: " + name)
	}
	return value, nil
}

func forwardMessageTo(endpoint string) (config.AppForwarding, contracts.ForwardMessage) {
	cfg := config.AppForwarding{
		ScoringEndpointUrl:      endpoint,
		DefaultAuthStrategy:     constvars.ForwardAuthNone,
		RequestTimeoutInSeconds: 5,
		DefaultContentType:      constvars.MIMEApplicationFHIRJSON,
	}
	msg := contracts.ForwardMessage{
		ID:            "msg-1",
		InteractionID: "interaction-1",
		TenantID:      "tenant-1",
		Payload:       []byte(`{"bundle":{"resourceType":"Bundle"}}`),
		AuthStrategy:  constvars.ForwardAuthNone,
		ContentType:   constvars.MIMEApplicationFHIRJSON,
	}
	return cfg, msg
}

func TestWorkerDeliver(t *testing.T) {
	t.Run("Success records COMPLETE with the response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "interaction-1", r.Header.Get(constvars.HeaderInteractionID))
			assert.Equal(t, "tenant-1", r.Header.Get(constvars.HeaderTenantID))
			assert.Equal(t, constvars.MIMEApplicationFHIRJSON, r.Header.Get(constvars.HeaderContentType))
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"scored":true}`))
		}))
		defer server.Close()

		cfg, msg := forwardMessageTo(server.URL)
		recorded := &recordingInteractions{}
		worker := NewWorker(nil, recorded, mapSecretStore{}, cfg, zap.NewNop())

		worker.Deliver(context.Background(), msg)

		assert.Len(t, recorded.completes, 1)
		assert.Empty(t, recorded.fails)
		assert.JSONEq(t, `{"scored":true}`, string(recorded.completes[0].Payload))
	})

	t.Run("Non-success status records FAIL with response details", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Downstream-Error", "scoring-rejected")
			http.Error(w, "internal failure", http.StatusInternalServerError)
		}))
		defer server.Close()

		cfg, msg := forwardMessageTo(server.URL)
		recorded := &recordingInteractions{}
		worker := NewWorker(nil, recorded, mapSecretStore{}, cfg, zap.NewNop())

		worker.Deliver(context.Background(), msg)

		assert.Empty(t, recorded.completes)
		assert.Len(t, recorded.fails, 1)

		failure := recorded.fails[0].Error
		assert.Equal(t, http.StatusInternalServerError, failure.StatusCode)
		assert.Contains(t, failure.ResponseBody, "internal failure")
		assert.Equal(t, []string{"scoring-rejected"}, failure.ResponseHeaders["X-Downstream-Error"])
	})

	t.Run("Unreachable endpoint records FAIL with a root cause", func(t *testing.T) {
		cfg, msg := forwardMessageTo("http://127.0.0.1:1")
		recorded := &recordingInteractions{}
		worker := NewWorker(nil, recorded, mapSecretStore{}, cfg, zap.NewNop())

		worker.Deliver(context.Background(), msg)

		assert.Len(t, recorded.fails, 1)
		assert.NotEmpty(t, recorded.fails[0].Error.RootCause)
		assert.Zero(t, recorded.fails[0].Error.StatusCode)
	})

	t.Run("Misconfigured api-key strategy fails before any network call", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer server.Close()

		cfg, msg := forwardMessageTo(server.URL)
		// header name configured, secret name missing
		cfg.APIKeyHeaderName = "X-Scoring-Key"
		msg.AuthStrategy = constvars.ForwardAuthAPIKey

		recorded := &recordingInteractions{}
		worker := NewWorker(nil, recorded, mapSecretStore{}, cfg, zap.NewNop())

		worker.Deliver(context.Background(), msg)

		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
		assert.Len(t, recorded.fails, 1)
		assert.Equal(t, "auth strategy misconfigured", recorded.fails[0].Error.Message)
	})

	t.Run("Api-key strategy attaches the secret header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "s3cret-key", r.Header.Get("X-Scoring-Key"))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		cfg, msg := forwardMessageTo(server.URL)
		cfg.APIKeyHeaderName = "X-Scoring-Key"
		cfg.APIKeySecretName = "scoring-api-key"
		msg.AuthStrategy = constvars.ForwardAuthAPIKey

		recorded := &recordingInteractions{}
		worker := NewWorker(nil, recorded, mapSecretStore{"scoring-api-key": "s3cret-key"}, cfg, zap.NewNop())

		worker.Deliver(context.Background(), msg)

		assert.Len(t, recorded.completes, 1)
	})

	t.Run("Unknown strategy records FAIL", func(t *testing.T) {
		cfg, msg := forwardMessageTo("http://127.0.0.1:1")
		msg.AuthStrategy = "kerberos"

		recorded := &recordingInteractions{}
		worker := NewWorker(nil, recorded, mapSecretStore{}, cfg, zap.NewNop())

		worker.Deliver(context.Background(), msg)

		assert.Len(t, recorded.fails, 1)
		assert.Equal(t, "auth strategy resolution failed", recorded.fails[0].Error.Message)
	})
}

type stubQueue struct {
	published []contracts.ForwardMessage
	err       error
}

func (q *stubQueue) Publish(ctx context.Context, msg contracts.ForwardMessage) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, msg)
	return nil
}

func TestDispatcherDispatch(t *testing.T) {
	cfg := config.AppForwarding{
		ScoringEndpointUrl:  "https://scoring.example.org/ingest",
		DefaultAuthStrategy: constvars.ForwardAuthNone,
		DefaultContentType:  constvars.MIMEApplicationFHIRJSON,
	}

	t.Run("Records FORWARD then publishes", func(t *testing.T) {
		queue := &stubQueue{}
		recorded := &recordingInteractions{}
		dispatcher := NewDispatcher(queue, recorded, cfg, zap.NewNop())

		err := dispatcher.Dispatch(context.Background(), &DispatchInput{
			InteractionID: "interaction-1",
			TenantID:      "tenant-1",
			Payload:       []byte(`{"bundle":{}}`),
		})

		assert.NoError(t, err)
		assert.Len(t, recorded.forwards, 1)
		assert.Len(t, queue.published, 1)
		assert.Equal(t, constvars.ForwardAuthNone, queue.published[0].AuthStrategy)
		assert.Equal(t, constvars.MIMEApplicationFHIRJSON, queue.published[0].ContentType)
		assert.Contains(t, string(recorded.forwards[0].Payload), "scoring.example.org")
	})

	t.Run("Override wins over the default strategy", func(t *testing.T) {
		queue := &stubQueue{}
		dispatcher := NewDispatcher(queue, &recordingInteractions{}, cfg, zap.NewNop())

		err := dispatcher.Dispatch(context.Background(), &DispatchInput{
			InteractionID:        "interaction-2",
			TenantID:             "tenant-1",
			AuthStrategyOverride: constvars.ForwardAuthMTLS,
		})

		assert.NoError(t, err)
		assert.Equal(t, constvars.ForwardAuthMTLS, queue.published[0].AuthStrategy)
	})

	t.Run("Publish failure records FAIL", func(t *testing.T) {
		queue := &stubQueue{err: errors.New("broker unavailable")}
		recorded := &recordingInteractions{}
		dispatcher := NewDispatcher(queue, recorded, cfg, zap.NewNop())

		err := dispatcher.Dispatch(context.Background(), &DispatchInput{
			InteractionID: "interaction-3",
			TenantID:      "tenant-1",
		})

		assert.Error(t, err)
		assert.Len(t, recorded.fails, 1)
		assert.Equal(t, "broker unavailable", recorded.fails[0].Error.RootCause)
	})
}
