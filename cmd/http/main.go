package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/app/delivery/http/middlewares"
	"fhirhub-service/internal/app/delivery/http/routers"
	"fhirhub-service/internal/app/drivers/database"
	"fhirhub-service/internal/app/drivers/logger"
	"fhirhub-service/internal/app/drivers/messaging"
	"fhirhub-service/internal/app/drivers/storage"
	"fhirhub-service/internal/app/services/core/bundles"
	"fhirhub-service/internal/app/services/core/disposition"
	"fhirhub-service/internal/app/services/core/forwarding"
	"fhirhub-service/internal/app/services/core/interactions"
	"fhirhub-service/internal/app/services/core/validation"
	"fhirhub-service/internal/app/services/shared/forwardqueue"
	"fhirhub-service/internal/app/services/shared/jwtmanager"
	"fhirhub-service/internal/app/services/shared/profilevalidator"
	redisrepo "fhirhub-service/internal/app/services/shared/redis"
	"fhirhub-service/internal/app/services/shared/secrets"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/exceptions"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	logger.InitLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logrus.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		RabbitMQ:       rabbitConn,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Fatalf("Error releasing resources: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig

	// Redis
	redisRepository := redisrepo.NewRedisRepository(bootstrap.Redis)

	// Secrets
	var secretStore contracts.SecretStore
	switch internalConfig.Forwarding.SecretBackend {
	case constvars.SecretBackendEnv:
		secretStore = secrets.NewEnvSecretStore(internalConfig.Forwarding.EnvSecretPrefix)
	default:
		secretStore = secrets.NewMinioSecretStore(bootstrap.Minio, bootstrap.DriverConfig.Minio.BucketName)
	}

	// Validation
	structuralValidator := profilevalidator.NewStructuralValidator()
	validationConfig := internalConfig.Validation
	engineRegistry := validation.NewEngineRegistry(func(ctx context.Context, key validation.EngineKey) (validation.Engine, error) {
		switch key.Kind {
		case validation.EngineKindLocalLibrary:
			return validation.NewLocalLibraryEngine(key.ProfileURL, validationConfig.IGVersion, structuralValidator, log), nil
		case validation.EngineKindEmbeddedOfficial:
			return validation.NewEmbeddedOfficialEngine(key.ProfileURL, validationConfig.IGVersion, validationConfig.IGPackagePath, structuralValidator, log)
		case validation.EngineKindRemoteAPI:
			return validation.NewRemoteApiEngine(key.ProfileURL, validationConfig.IGVersion, validationConfig.RemoteApiBaseUrl, validationConfig.RemoteApiRequestsPerSecond, log), nil
		default:
			return nil, exceptions.ErrUnknownEngineKind(string(key.Kind))
		}
	})
	orchestrator := validation.NewOrchestrationEngine(engineRegistry, validationConfig.SessionHistoryLimit, log)

	// Interactions
	stateStore := interactions.NewInteractionMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	statusCache := interactions.NewStatusCache(
		redisRepository,
		time.Duration(internalConfig.Recorder.StatusCacheTTLInSeconds)*time.Second,
	)
	interactionUsecase := interactions.NewInteractionUsecase(stateStore, statusCache, internalConfig.App.DeviceName, log)
	recorder := interactions.NewRecorder(
		internalConfig.Recorder.HistorySize,
		stateStore,
		internalConfig.Recorder.DefaultPersistence,
		log,
	)

	// Disposition
	decisionClient := disposition.NewDecisionClient(
		internalConfig.Disposition.DecisionBaseUrl,
		time.Duration(internalConfig.Disposition.RequestTimeoutInSeconds)*time.Second,
		log,
	)
	dispositionUsecase := disposition.NewDispositionUsecase(decisionClient, internalConfig.Disposition.ForwardOnReject, log)

	// Forwarding
	forwardQueue, err := forwardqueue.NewService(
		bootstrap.RabbitMQ,
		log,
		internalConfig.Forwarding.QueueName,
		internalConfig.Forwarding.DeadLetterQueueName,
		8,
	)
	if err != nil {
		logrus.Fatalf("Failed to set up forward queue: %v", err)
	}
	dispatcher := forwarding.NewDispatcher(forwardQueue, interactionUsecase, internalConfig.Forwarding, log)
	worker := forwarding.NewWorker(forwardQueue, interactionUsecase, secretStore, internalConfig.Forwarding, log)
	workerStop, err := worker.Start(context.Background())
	if err != nil {
		logrus.Fatalf("Failed to start forwarding worker: %v", err)
	}
	bootstrap.WorkerStop = workerStop

	// JWT
	jwtManager := jwtmanager.NewJWTManager(internalConfig, log)

	// Middlewares
	mdw := &middlewares.Middlewares{
		Log:            log,
		JWTManager:     jwtManager,
		Recorder:       recorder,
		InternalConfig: internalConfig,
	}

	// Bundle pipeline
	bundleUsecase := bundles.NewBundleUsecase(orchestrator, interactionUsecase, dispositionUsecase, dispatcher, internalConfig, log)
	bundleController := bundles.NewBundleController(log, bundleUsecase)

	routers.SetupRoutes(bootstrap.Router, internalConfig, mdw, bundleController)
}
