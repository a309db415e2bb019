package middlewares

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"fhirhub-service/internal/app/services/core/interactions"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/exceptions"
	"fhirhub-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// InteractionRecording snapshots each request/response pair into the bounded
// interaction history. The interaction id is taken from the caller-supplied
// header or minted here so downstream handlers and the snapshot agree on it.
func (m *Middlewares) InteractionRecording(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		interactionID := r.Header.Get(constvars.HeaderInteractionID)
		if interactionID == "" {
			interactionID = utils.GenerateInteractionID()
			r.Header.Set(constvars.HeaderInteractionID, interactionID)
		}

		captureBodies := m.InternalConfig.Recorder.CaptureBodies

		var requestBody []byte
		if captureBodies && r.Body != nil {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrCannotParseJSON(err))
				return
			}
			requestBody = bodyBytes
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		request := interactions.RequestEncountered{
			Method:     r.Method,
			URI:        r.URL.RequestURI(),
			Headers:    r.Header.Clone(),
			RemoteAddr: r.RemoteAddr,
			Params:     requestParams(r),
			Body:       requestBody,
			ObservedAt: time.Now().UTC(),
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_INTERACTION_ID_KEY, interactionID)
		ctx = context.WithValue(ctx, constvars.CONTEXT_TENANT_ID_KEY, r.Header.Get(constvars.HeaderTenantID))

		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK, capture: captureBodies}

		next.ServeHTTP(rec, r.WithContext(ctx))

		snapshot := &interactions.RequestResponseEncountered{
			InteractionID: interactionID,
			TenantID:      r.Header.Get(constvars.HeaderTenantID),
			Request:       request,
			Response: interactions.ResponseEncountered{
				StatusCode: rec.statusCode,
				Headers:    rec.Header().Clone(),
				Body:       rec.body,
				ObservedAt: time.Now().UTC(),
			},
		}

		m.Recorder.Record(r.Context(), snapshot, r.Header.Get(constvars.HeaderPersistence))
	})
}

// requestParams flattens query values and chi route params into the snapshot.
func requestParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		params[key] = strings.Join(values, ",")
	}
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		for i, key := range routeCtx.URLParams.Keys {
			params[key] = routeCtx.URLParams.Values[i]
		}
	}
	if len(params) == 0 {
		return nil
	}
	return params
}
