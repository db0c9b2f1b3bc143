package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/delivery/http/middlewares"
	"mindhub-service/internal/app/delivery/http/routers"
	"mindhub-service/internal/app/drivers/database"
	"mindhub-service/internal/app/drivers/logger"
	"mindhub-service/internal/app/drivers/messaging"
	minioDriver "mindhub-service/internal/app/drivers/storage"
	"mindhub-service/internal/app/services/core/assessments"
	"mindhub-service/internal/app/services/core/remoteaccess"
	"mindhub-service/internal/app/services/core/templates"
	"mindhub-service/internal/app/services/shared/eventqueue"
	"mindhub-service/internal/app/services/shared/locker"
	redisRepo "mindhub-service/internal/app/services/shared/redis"
	"mindhub-service/internal/app/services/shared/reports"
	"mindhub-service/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := minioDriver.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	bootstrapTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during dependency shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapTheApp(bootstrap config.Bootstrap) {
	// Shared infrastructure
	redisRepository := redisRepo.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)

	eventPublisher, err := eventqueue.NewEventPublisher(bootstrap.RabbitMQ, bootstrap.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	minioStorage := storage.NewMinioStorage(bootstrap.Minio, bootstrap.InternalConfig.Minio.BucketName)
	reportService := reports.NewReportService(minioStorage, bootstrap.InternalConfig.App.ReportFontPath, bootstrap.Logger)

	// Template catalog
	templateStore := templates.NewTemplateStore(bootstrap.Logger)
	loaded, loadErrors, err := templateStore.LoadAll(bootstrap.InternalConfig.App.TemplateSourceDir)
	if err != nil {
		log.Fatalf("Failed to load scale templates: %v", err)
	}
	bootstrap.Logger.Info("Scale template catalog loaded",
		zap.Int("loaded", len(loaded)),
		zap.Int("failed", len(loadErrors)),
	)

	templateUsecase := templates.NewTemplateUsecase(templateStore, bootstrap.Logger)
	templateController := templates.NewTemplateController(bootstrap.Logger, templateUsecase, bootstrap.InternalConfig.App.TemplateSourceDir)

	// Assessments
	assessmentRepository := assessments.NewAssessmentMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	assessmentUsecase := assessments.NewAssessmentUsecase(
		assessmentRepository,
		templateStore,
		lockerService,
		eventPublisher,
		reportService,
		minioStorage,
		bootstrap.Logger,
	)
	assessmentController := assessments.NewAssessmentController(bootstrap.Logger, assessmentUsecase)

	// Remote access
	remoteAccessUsecase := remoteaccess.NewRemoteAccessUsecase(redisRepository, lockerService, bootstrap.Logger)
	remoteAccessController := remoteaccess.NewRemoteAccessController(
		bootstrap.Logger,
		remoteAccessUsecase,
		assessmentUsecase,
		templateStore,
		bootstrap.InternalConfig.App.RemoteLinkBaseURL,
		time.Duration(bootstrap.InternalConfig.App.RemoteTokenTTLInMinutes)*time.Minute,
	)

	// Middlewares and routes
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)
	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		middlewares,
		templateController,
		assessmentController,
		remoteAccessController,
	)
}
