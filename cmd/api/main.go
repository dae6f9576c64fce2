package main

import (
	"context"
	"dresssenseapi/config"
	"dresssenseapi/controllers"
	"dresssenseapi/dbhelper"
	"dresssenseapi/models"
	"dresssenseapi/repository"
	"dresssenseapi/services"
	"dresssenseapi/tasks"
	"dresssenseapi/wardrobe"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %s", err)
	}
	logger, err := services.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %s", err)
	}
	defer logger.Sync()

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		Release:          "dresssenseapi@1.0.0",
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	db, err := dbhelper.SetupDB(cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("database: %s", err)
	}

	awsService, err := services.NewAWSService(ctx, services.S3Options{
		BucketName:      cfg.S3BucketName,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		AccessKeySecret: cfg.S3AccessKeySecret,
	})
	if err != nil {
		log.Fatalf("Failed to initialize AWS provider: S3: %s", err)
	}
	urlCache, err := services.NewURLCacheService(awsService, logger)
	if err != nil {
		log.Fatalf("Failed to initialize URL cache service: %s", err)
	}

	llm, err := services.NewGoogleLLMProcessor(ctx, services.GoogleLLMOptions{
		APIKey:        cfg.GoogleAPIKey,
		VisionModel:   cfg.VisionModel,
		TextModel:     cfg.TextModel,
		RatePerMinute: cfg.ModelRatePerMinute,
		MaxRetries:    cfg.ModelMaxRetries,
		Timeout:       cfg.ModelTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %s", err)
	}

	schema := models.DefaultAttributeSchema
	extractor := services.NewFeatureExtractor(llm, schema, cfg.ModelMaxImageBytes, cfg.ModelMinJPEGQuality, cfg.ModelTimeout, logger)
	preprocessor := services.NewImagePreprocessor(cfg.BackgroundThreshold, cfg.BackgroundBlurSigma)

	asynqClient := tasks.NewClient(cfg.AsyncBrokerAddress)
	defer asynqClient.Close()
	orphans := &tasks.AsynqOrphanReporter{Client: asynqClient, Logger: logger}

	catalog := repository.NewCatalogRepository(db)
	closet := wardrobe.NewCloset(catalog, awsService, preprocessor, extractor, orphans, schema, logger)
	recommender := wardrobe.NewRecommender(catalog, llm, cfg.ModelTimeout, logger)
	outfits := wardrobe.NewOutfitBook(repository.NewOutfitRepository(db))

	e := controllers.SetupServer(controllers.ServerOptions{
		Closet:         closet,
		Recommender:    recommender,
		Outfits:        outfits,
		URLCache:       urlCache,
		Presigner:      awsService,
		JWTSecret:      cfg.JWTSecret,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})
	e.Debug = !cfg.IsProduction()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	logger.Info("starting api", zap.String("addr", cfg.HTTPAddr))
	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
