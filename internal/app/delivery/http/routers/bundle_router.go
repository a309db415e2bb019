package routers

import (
	"fhirhub-service/internal/app/delivery/http/middlewares"
	"fhirhub-service/internal/app/services/core/bundles"

	"github.com/go-chi/chi/v5"
)

func attachBundleRouter(router chi.Router, middlewares *middlewares.Middlewares, bundleController *bundles.BundleController) {
	router.With(middlewares.InteractionRecording).Post("/", bundleController.SubmitBundle)
	router.With(middlewares.InteractionRecording).Post("/$validate", bundleController.ValidateBundle)
	router.Get("/$status/{interactionId}", bundleController.FindInteractionStatus)
}

func attachAdminRouter(router chi.Router, middlewares *middlewares.Middlewares, bundleController *bundles.BundleController) {
	router.With(middlewares.Authenticate).Post("/replay/{interactionId}", bundleController.ReplayInteraction)
}
