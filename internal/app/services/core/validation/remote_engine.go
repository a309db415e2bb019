package validation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/fhir_dto"
	"fhirhub-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RemoteApiEngine delegates validation to a remote validation API. Calls are
// throttled with a token bucket so a burst of sessions cannot flood the
// upstream service.
type RemoteApiEngine struct {
	obs        Observability
	profileURL string
	igVersion  string
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

type remoteValidateRequest struct {
	ProfileURL string          `json:"profileUrl"`
	Resource   json.RawMessage `json:"resource"`
}

type remoteValidateResponse struct {
	Valid bool                             `json:"valid"`
	Issue []fhir_dto.OperationOutcomeIssue `json:"issue"`
}

func NewRemoteApiEngine(profileURL, igVersion, baseURL string, requestsPerSecond int, log *zap.Logger) *RemoteApiEngine {
	start := time.Now()
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	engine := &RemoteApiEngine{
		profileURL: profileURL,
		igVersion:  igVersion,
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		log:        log,
	}
	engine.obs = Observability{
		Identity:            utils.GenerateSessionID(),
		Name:                string(EngineKindRemoteAPI),
		ConstructionStartAt: start,
		ConstructionEndAt:   time.Now(),
	}
	return engine
}

func (e *RemoteApiEngine) Observability() Observability {
	return e.obs
}

func (e *RemoteApiEngine) Validate(ctx context.Context, payload []byte, interactionID string) ValidationResult {
	initiatedAt := time.Now()

	if err := e.limiter.Wait(ctx); err != nil {
		return fatalResult(e.obs, e.profileURL, e.igVersion, fmt.Sprintf("rate limiter wait: %v", err), initiatedAt)
	}

	requestJSON, err := json.Marshal(remoteValidateRequest{
		ProfileURL: e.profileURL,
		Resource:   json.RawMessage(payload),
	})
	if err != nil {
		return fatalResult(e.obs, e.profileURL, e.igVersion, fmt.Sprintf("marshal validate request: %v", err), initiatedAt)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, e.baseURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return fatalResult(e.obs, e.profileURL, e.igVersion, fmt.Sprintf("build validate request: %v", err), initiatedAt)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderInteractionID, interactionID)

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Error("remoteApiEngine.Validate request failed",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.Error(err),
		)
		return fatalResult(e.obs, e.profileURL, e.igVersion, err.Error(), initiatedAt)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fatalResult(e.obs, e.profileURL, e.igVersion,
			fmt.Sprintf("remote validation API returned %d: %s", resp.StatusCode, string(bodyBytes)), initiatedAt)
	}

	var remoteResponse remoteValidateResponse
	if derr := json.NewDecoder(resp.Body).Decode(&remoteResponse); derr != nil {
		return fatalResult(e.obs, e.profileURL, e.igVersion, fmt.Sprintf("decode validate response: %v", derr), initiatedAt)
	}

	return ValidationResult{
		InitiatedAt:   initiatedAt,
		CompletedAt:   time.Now(),
		ProfileURL:    e.profileURL,
		IGVersion:     e.igVersion,
		Observability: e.obs,
		Valid:         remoteResponse.Valid,
		OperationOutcome: fhir_dto.OperationOutcome{
			ResourceType: constvars.ResourceOperationOutcome,
			Issue:        remoteResponse.Issue,
		},
	}
}
