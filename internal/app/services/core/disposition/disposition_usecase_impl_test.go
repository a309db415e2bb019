package disposition

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubDecision struct {
	actions []contracts.DispositionAction
	err     error
}

func (d *stubDecision) Decide(ctx context.Context, validationOutcome json.RawMessage, interactionID string) ([]contracts.DispositionAction, error) {
	return d.actions, d.err
}

func TestDispositionCompute(t *testing.T) {
	outcomeJSON := json.RawMessage(`{"valid":false,"results":[]}`)

	t.Run("Accept forwards annotated", func(t *testing.T) {
		uc := NewDispositionUsecase(&stubDecision{
			actions: []contracts.DispositionAction{{Action: constvars.DispositionAccept}},
		}, false, zap.NewNop())

		outcome := uc.Compute(context.Background(), outcomeJSON, "interaction-1")

		assert.True(t, outcome.Forward)
		assert.True(t, outcome.Annotated)
		assert.False(t, outcome.Discard)
		assert.False(t, outcome.Reject)

		var payload dispositionPayload
		assert.NoError(t, json.Unmarshal(outcome.Payload, &payload))
		assert.JSONEq(t, string(outcomeJSON), string(payload.ValidationOutcome))
		assert.Len(t, payload.Actions, 1)
	})

	t.Run("Discard halts after disposition", func(t *testing.T) {
		uc := NewDispositionUsecase(&stubDecision{
			actions: []contracts.DispositionAction{
				{Action: constvars.DispositionAccept},
				{Action: constvars.DispositionDiscard},
			},
		}, false, zap.NewNop())

		outcome := uc.Compute(context.Background(), outcomeJSON, "interaction-2")

		assert.True(t, outcome.Discard)
		assert.False(t, outcome.Forward)
		assert.True(t, outcome.Annotated, "disposition payload is still recorded")
	})

	t.Run("Discard wins over reject", func(t *testing.T) {
		uc := NewDispositionUsecase(&stubDecision{
			actions: []contracts.DispositionAction{
				{Action: constvars.DispositionReject},
				{Action: constvars.DispositionDiscard},
			},
		}, true, zap.NewNop())

		outcome := uc.Compute(context.Background(), outcomeJSON, "interaction-3")

		assert.True(t, outcome.Discard)
		assert.False(t, outcome.Forward, "discard halts even with forward-on-reject set")
	})

	t.Run("Reject withholds forwarding by default", func(t *testing.T) {
		uc := NewDispositionUsecase(&stubDecision{
			actions: []contracts.DispositionAction{{Action: constvars.DispositionReject}},
		}, false, zap.NewNop())

		outcome := uc.Compute(context.Background(), outcomeJSON, "interaction-4")

		assert.True(t, outcome.Reject)
		assert.False(t, outcome.Forward)
	})

	t.Run("Reject forwards when policy allows", func(t *testing.T) {
		uc := NewDispositionUsecase(&stubDecision{
			actions: []contracts.DispositionAction{{Action: constvars.DispositionReject}},
		}, true, zap.NewNop())

		outcome := uc.Compute(context.Background(), outcomeJSON, "interaction-5")

		assert.True(t, outcome.Reject)
		assert.True(t, outcome.Forward)
	})

	t.Run("Decision failure fails open", func(t *testing.T) {
		uc := NewDispositionUsecase(&stubDecision{err: errors.New("decision service down")}, false, zap.NewNop())

		outcome := uc.Compute(context.Background(), outcomeJSON, "interaction-6")

		assert.True(t, outcome.Forward)
		assert.False(t, outcome.Annotated)
		assert.Nil(t, outcome.Payload)
	})
}

func TestDecisionClient(t *testing.T) {
	t.Run("Decodes action list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "interaction-7", r.Header.Get(constvars.HeaderInteractionID))

			var request decideRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, "interaction-7", request.InteractionID)

			json.NewEncoder(w).Encode(decideResponse{
				Actions: []contracts.DispositionAction{
					{Action: constvars.DispositionAccept},
					{Action: constvars.DispositionReject, Detail: json.RawMessage(`{"issue":0}`)},
				},
			})
		}))
		defer server.Close()

		client := NewDecisionClient(server.URL, time.Second, zap.NewNop())
		actions, err := client.Decide(context.Background(), json.RawMessage(`{"valid":true}`), "interaction-7")

		assert.NoError(t, err)
		assert.Len(t, actions, 2)
		assert.Equal(t, constvars.DispositionReject, actions[1].Action)
	})

	t.Run("Non-OK status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewDecisionClient(server.URL, time.Second, zap.NewNop())
		_, err := client.Decide(context.Background(), json.RawMessage(`{}`), "interaction-8")

		assert.Error(t, err)
	})
}
