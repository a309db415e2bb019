package disposition

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// DecisionClient calls the external decision service over HTTP.
type DecisionClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

type decideRequest struct {
	InteractionID     string          `json:"interactionId"`
	ValidationOutcome json.RawMessage `json:"validationOutcome"`
}

type decideResponse struct {
	Actions []contracts.DispositionAction `json:"actions"`
}

func NewDecisionClient(baseURL string, timeout time.Duration, log *zap.Logger) *DecisionClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DecisionClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *DecisionClient) Decide(ctx context.Context, validationOutcome json.RawMessage, interactionID string) ([]contracts.DispositionAction, error) {
	requestJSON, err := json.Marshal(decideRequest{
		InteractionID:     interactionID,
		ValidationOutcome: validationOutcome,
	})
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.baseURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderInteractionID, interactionID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.log.Error("decisionClient.Decide non-OK response",
			zap.String(constvars.LoggingInteractionIDKey, interactionID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.ByteString("body", bodyBytes),
		)
		return nil, exceptions.ErrSendHTTPRequest(fmt.Errorf("decision service returned %d", resp.StatusCode))
	}

	var decision decideResponse
	if derr := json.NewDecoder(resp.Body).Decode(&decision); derr != nil {
		return nil, exceptions.ErrDecodeResponse(derr, "decision")
	}
	return decision.Actions, nil
}
