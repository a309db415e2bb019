package bundles

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/dto/requests"
	"fhirhub-service/internal/pkg/exceptions"
	"fhirhub-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errInvalidJSONBody = errors.New("request body is not valid JSON")

type BundleController struct {
	Log           *zap.Logger
	BundleUsecase BundleUsecase
}

func NewBundleController(logger *zap.Logger, bundleUsecase BundleUsecase) *BundleController {
	return &BundleController{
		Log:           logger,
		BundleUsecase: bundleUsecase,
	}
}

func (ctrl *BundleController) SubmitBundle(w http.ResponseWriter, r *http.Request) {
	input, err := ctrl.buildSubmitInput(r, false)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.BundleUsecase.SubmitBundle(ctx, input)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildFHIRResponse(w, constvars.StatusOK, response)
}

func (ctrl *BundleController) ValidateBundle(w http.ResponseWriter, r *http.Request) {
	input, err := ctrl.buildSubmitInput(r, true)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.BundleUsecase.SubmitBundle(ctx, input)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildFHIRResponse(w, constvars.StatusOK, response)
}

func (ctrl *BundleController) FindInteractionStatus(w http.ResponseWriter, r *http.Request) {
	interactionID := chi.URLParam(r, constvars.URLParamInteractionID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.BundleUsecase.InteractionStatus(ctx, interactionID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindStatusSuccessMessage, response)
}

func (ctrl *BundleController) ReplayInteraction(w http.ResponseWriter, r *http.Request) {
	interactionID := chi.URLParam(r, constvars.URLParamInteractionID)

	// Body is optional; an empty body means a replay with no recorded reason.
	request := new(requests.ReplayInteraction)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil && err != io.EOF {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = ctrl.BundleUsecase.ReplayInteraction(ctx, interactionID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("interaction replay dispatched",
		zap.String(constvars.LoggingInteractionIDKey, interactionID),
		zap.String("reason", request.Reason),
	)
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.ReplaySuccessMessage, nil)
}

func (ctrl *BundleController) buildSubmitInput(r *http.Request, validateOnly bool) (*SubmitBundleInput, error) {
	tenantID := r.Header.Get(constvars.HeaderTenantID)
	if tenantID == "" {
		return nil, exceptions.ErrTenantHeaderMissing()
	}

	options := &requests.SubmitBundleOptions{
		ForwardAuth: r.Header.Get(constvars.HeaderForwardAuth),
	}
	if err := utils.ValidateStruct(options); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	if !json.Valid(body) {
		return nil, exceptions.ErrCannotParseJSON(errInvalidJSONBody)
	}

	return &SubmitBundleInput{
		TenantID:            tenantID,
		InteractionID:       r.Header.Get(constvars.HeaderInteractionID),
		GroupInteractionID:  r.Header.Get(constvars.HeaderGroupInteractionID),
		MasterInteractionID: r.Header.Get(constvars.HeaderMasterInteractionID),
		Payload:             body,
		StrategyDocument:    []byte(r.Header.Get(constvars.HeaderValidationStrategy)),
		ForwardAuthOverride: options.ForwardAuth,
		ValidateOnly:        validateOnly,
	}, nil
}
