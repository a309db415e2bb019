package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/services/core/interactions"
	"fhirhub-service/internal/app/services/shared/jwtmanager"
	"fhirhub-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testMiddlewares(recorder *interactions.Recorder) *Middlewares {
	internalConfig := &config.InternalConfig{
		JWT: config.AppJWT{Secret: "test-admin-secret", ExpTimeInHour: 1},
		Recorder: config.AppRecorder{
			HistorySize:   10,
			CaptureBodies: true,
		},
	}
	return &Middlewares{
		Log:            zap.NewNop(),
		JWTManager:     jwtmanager.NewJWTManager(internalConfig, zap.NewNop()),
		Recorder:       recorder,
		InternalConfig: internalConfig,
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	m := testMiddlewares(nil)

	t.Run("Generates a request id when absent", func(t *testing.T) {
		var seen string
		handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Honors a client-supplied request id", func(t *testing.T) {
		handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-req-1")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-req-1", rr.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestInteractionRecording(t *testing.T) {
	t.Run("Snapshots the request and response pair", func(t *testing.T) {
		recorder := interactions.NewRecorder(10, nil, constvars.PersistenceNone, zap.NewNop())
		m := testMiddlewares(recorder)

		handler := m.InteractionRecording(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte(`{"ok":true}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/Bundle", strings.NewReader(`{"resourceType":"Bundle"}`))
		req.Header.Set(constvars.HeaderInteractionID, "interaction-1")
		req.Header.Set(constvars.HeaderTenantID, "tenant-1")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusAccepted, rr.Code)

		snapshot, ok := recorder.Get("interaction-1")
		assert.True(t, ok)
		assert.Equal(t, "tenant-1", snapshot.TenantID)
		assert.Equal(t, http.MethodPost, snapshot.Request.Method)
		assert.Equal(t, "/api/v1/Bundle", snapshot.Request.URI)
		assert.JSONEq(t, `{"resourceType":"Bundle"}`, string(snapshot.Request.Body))
		assert.Equal(t, http.StatusAccepted, snapshot.Response.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, string(snapshot.Response.Body))
	})

	t.Run("Mints an interaction id when absent", func(t *testing.T) {
		recorder := interactions.NewRecorder(10, nil, constvars.PersistenceNone, zap.NewNop())
		m := testMiddlewares(recorder)

		var minted string
		handler := m.InteractionRecording(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			minted, _ = r.Context().Value(constvars.CONTEXT_INTERACTION_ID_KEY).(string)
			assert.Equal(t, minted, r.Header.Get(constvars.HeaderInteractionID))
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/Bundle", strings.NewReader(`{}`)))

		assert.NotEmpty(t, minted)
		_, ok := recorder.Get(minted)
		assert.True(t, ok)
	})

	t.Run("Captures query and route params", func(t *testing.T) {
		recorder := interactions.NewRecorder(10, nil, constvars.PersistenceNone, zap.NewNop())
		m := testMiddlewares(recorder)

		router := chi.NewRouter()
		router.With(m.InteractionRecording).Post("/Bundle/{bundleType}", func(w http.ResponseWriter, r *http.Request) {})

		req := httptest.NewRequest(http.MethodPost, "/Bundle/transaction?dryRun=true", strings.NewReader(`{}`))
		req.Header.Set(constvars.HeaderInteractionID, "interaction-3")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		snapshot, ok := recorder.Get("interaction-3")
		assert.True(t, ok)
		assert.Equal(t, "transaction", snapshot.Request.Params["bundleType"])
		assert.Equal(t, "true", snapshot.Request.Params["dryRun"])
	})

	t.Run("Leaves bodies out when capture is disabled", func(t *testing.T) {
		recorder := interactions.NewRecorder(10, nil, constvars.PersistenceNone, zap.NewNop())
		m := testMiddlewares(recorder)
		m.InternalConfig.Recorder.CaptureBodies = false

		handler := m.InteractionRecording(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ok":true}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/Bundle", strings.NewReader(`{"resourceType":"Bundle"}`))
		req.Header.Set(constvars.HeaderInteractionID, "interaction-2")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		snapshot, ok := recorder.Get("interaction-2")
		assert.True(t, ok)
		assert.Empty(t, snapshot.Request.Body)
		assert.Empty(t, snapshot.Response.Body)
	})
}

func TestAuthenticate(t *testing.T) {
	m := testMiddlewares(nil)

	protected := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Missing token is unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/replay/x", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Garbage token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/replay/x", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer not-a-token")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Valid token passes", func(t *testing.T) {
		token, err := m.JWTManager.CreateToken(context.Background(), &jwtmanager.CreateTokenInput{Subject: "ops"})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/admin/replay/x", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token.Token)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
