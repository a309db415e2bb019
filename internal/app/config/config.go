package config

import (
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "fhirhub"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "fhirhub-secrets"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", ":8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1"),
			Address:                   utils.GetEnvString("APP_ADDRESS", "localhost"),
			BaseUrl:                   utils.GetEnvString("APP_BASE_URL", "http://localhost:8080"),
			Timezone:                  utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeout:           utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds: utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 1),
			DeviceID:                  utils.GetEnvString("APP_DEVICE_ID", "fhirhub-01"),
			DeviceName:                utils.GetEnvString("APP_DEVICE_NAME", "FHIR Hub"),
		},
		Validation: AppValidation{
			DefaultProfileURL:          utils.GetEnvString("VALIDATION_DEFAULT_PROFILE_URL", "https://fhirhub.example.org/StructureDefinition/bundle"),
			RemoteApiBaseUrl:           utils.GetEnvString("VALIDATION_REMOTE_API_BASE_URL", "http://localhost:5555/validate"),
			RemoteApiRequestsPerSecond: utils.GetEnvInt("VALIDATION_REMOTE_API_RPS", 5),
			IGPackagePath:              utils.GetEnvString("VALIDATION_IG_PACKAGE_PATH", ""),
			IGVersion:                  utils.GetEnvString("VALIDATION_IG_VERSION", "1.0.0"),
			SessionHistoryLimit:        utils.GetEnvInt("VALIDATION_SESSION_HISTORY_LIMIT", 500),
		},
		Disposition: AppDisposition{
			DecisionBaseUrl:         utils.GetEnvString("DISPOSITION_DECISION_BASE_URL", "http://localhost:6666/decide"),
			RequestTimeoutInSeconds: utils.GetEnvInt("DISPOSITION_REQUEST_TIMEOUT_IN_SECONDS", 10),
			ForwardOnReject:         utils.GetEnvBool("DISPOSITION_FORWARD_ON_REJECT", false),
		},
		Forwarding: AppForwarding{
			ScoringEndpointUrl:      utils.GetEnvString("FORWARDING_SCORING_ENDPOINT_URL", "http://localhost:7777/score"),
			DefaultAuthStrategy:     utils.GetEnvString("FORWARDING_DEFAULT_AUTH_STRATEGY", "noauth"),
			APIKeyHeaderName:        utils.GetEnvString("FORWARDING_API_KEY_HEADER_NAME", ""),
			APIKeySecretName:        utils.GetEnvString("FORWARDING_API_KEY_SECRET_NAME", ""),
			MTLSCertSecretName:      utils.GetEnvString("FORWARDING_MTLS_CERT_SECRET_NAME", ""),
			MTLSKeySecretName:       utils.GetEnvString("FORWARDING_MTLS_KEY_SECRET_NAME", ""),
			RequestTimeoutInSeconds: utils.GetEnvInt("FORWARDING_REQUEST_TIMEOUT_IN_SECONDS", 30),
			DefaultContentType:      utils.GetEnvString("FORWARDING_DEFAULT_CONTENT_TYPE", "application/fhir+json"),
			QueueName:               utils.GetEnvString("FORWARDING_QUEUE_NAME", "fhirhub_forward_queue"),
			DeadLetterQueueName:     utils.GetEnvString("FORWARDING_DLQ_NAME", "fhirhub_forward_dlq"),
			SecretBackend:           utils.GetEnvString("FORWARDING_SECRET_BACKEND", constvars.SecretBackendMinio),
			EnvSecretPrefix:         utils.GetEnvString("FORWARDING_ENV_SECRET_PREFIX", "FHIRHUB_SECRET"),
		},
		Recorder: AppRecorder{
			HistorySize:             utils.GetEnvInt("RECORDER_HISTORY_SIZE", 50),
			DefaultPersistence:      utils.GetEnvString("RECORDER_DEFAULT_PERSISTENCE", "mongo"),
			StatusCacheTTLInSeconds: utils.GetEnvInt("RECORDER_STATUS_CACHE_TTL_IN_SECONDS", 3600),
			CaptureBodies:           utils.GetEnvBool("RECORDER_CAPTURE_BODIES", false),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 1),
		},
	}
}
