package middlewares

import (
	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/services/core/interactions"
	"fhirhub-service/internal/app/services/shared/jwtmanager"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	JWTManager     *jwtmanager.JWTManager
	Recorder       *interactions.Recorder
	InternalConfig *config.InternalConfig
}
