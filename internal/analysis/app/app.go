package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/analysis/config"
	"github.com/justwannacode/kpo-hw3/internal/analysis/delivery/httpd"
	"github.com/justwannacode/kpo-hw3/internal/analysis/repository"
	"github.com/justwannacode/kpo-hw3/internal/analysis/service"
	"github.com/justwannacode/kpo-hw3/internal/analysis/service/integration"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher repository.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	artifactRepo, err := repository.NewMinIOArtifactRepository(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.Region,
		cfg.Storage.UseSSL,
		cfg.Storage.ConnectTimeout,
		log,
	)
	if err != nil {
		return nil, err
	}

	submissionRepo := repository.NewSubmissionRepository(db, log)
	reportRepo := repository.NewReportRepository(db, log)

	fileClient := integration.NewFileClient(cfg.FileService.BaseURL, cfg.FileService.Timeout, log)

	// Брокер опционален: без него отчёты создаются, событий просто нет.
	var publisher repository.EventPublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = repository.NewRabbitMQPublisher(cfg.RabbitMQ.URL, log)
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ unavailable, events disabled")
			publisher = nil
		}
	}

	reportService := service.NewReportService(submissionRepo, reportRepo, artifactRepo, fileClient, publisher, log)
	wordCloudService := service.NewWordCloudService(reportService, log)

	handler := httpd.NewHandler(reportService, wordCloudService, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting analysis service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down analysis service...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
