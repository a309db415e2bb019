package routers

import (
	"fmt"
	"time"

	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/delivery/http/middlewares"
	"fhirhub-service/internal/app/services/core/bundles"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	bundleController *bundles.BundleController,
) {

	corsOptions := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-FHIRHUB-Tenant-ID",
			"X-FHIRHUB-Interaction-ID",
			"X-FHIRHUB-Group-Interaction-ID",
			"X-FHIRHUB-Master-Interaction-ID",
			"X-FHIRHUB-Validation-Strategy",
			"X-FHIRHUB-Forward-Auth",
			"X-FHIRHUB-Persistence",
		},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	// Rate limiting middleware using httprate
	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/Bundle", func(r chi.Router) {
				attachBundleRouter(r, middlewares, bundleController)
			})

			r.Route("/admin", func(r chi.Router) {
				attachAdminRouter(r, middlewares, bundleController)
			})
		})
	})
}
