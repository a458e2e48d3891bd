package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	kafka_impl "primegames-media/internal/broker/kafka"
	"primegames-media/internal/config"
	"primegames-media/internal/domain"
	media_h "primegames-media/internal/http-server/handler/media"
	"primegames-media/internal/http-server/router"
	postgres_repo "primegames-media/internal/repository/content/db/postgres"
	content_uc "primegames-media/internal/usecase/content"
	media_uc "primegames-media/internal/usecase/media"
	"primegames-media/internal/usecase/processor"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zlog.Zerolog
	db       *dbpg.DB
	producer *kafka_impl.ProducerClient
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}

	db, err := dbpg.New(cfg.DBDSN(), []string{}, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage, err := NewFileStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	contentRepo := postgres_repo.NewContentRepository(db, retries)

	var (
		producer *kafka_impl.ProducerClient
		mediaUC  *media_uc.MediaUsecase
	)

	imageProcessor := processor.NewImageProcessor(logger)
	validator := media_uc.NewValidator(cfg.Media.AllowedMimeTypes, cfg.Media.AllowedExtensions, cfg.Media.HardCapBytes)

	if cfg.OrphanQueueEnabled() {
		producer = kafka_impl.NewProducerClient(cfg)
		mediaUC = media_uc.NewMediaUsecase(storage, imageProcessor, validator, producer, logger)
	} else {
		logger.Warn().Msg("Kafka brokers not configured, failed cleanups will only be logged")
		mediaUC = media_uc.NewMediaUsecase(storage, imageProcessor, validator, nil, logger)
	}

	budget := domain.SizeBudget{
		MaxBytes:  cfg.Media.MaxBytes,
		MaxWidth:  cfg.Media.MaxWidth,
		MaxHeight: cfg.Media.MaxHeight,
	}

	contentUC := content_uc.NewContentUsecase(contentRepo, mediaUC, budget, cfg.Media.Container, logger)

	mediaHandler := media_h.NewMediaHandler(mediaUC, contentUC, budget, cfg.Media.Container, cfg.UploadContainers(), cfg.Media.HardCapBytes, logger)

	h := &router.Handler{
		MediaHandler: mediaHandler,
	}
	if cfg.Storage.Driver == config.StorageDriverLocal {
		h.UploadsDir = cfg.Storage.LocalRoot
		h.UploadsPrefix = cfg.Storage.LocalURLPrefix
	}

	mux := router.SetupRouter(h, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		db:       db,
		producer: producer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Str("storage", a.cfg.Storage.Driver).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		if a.db != nil && a.db.Master != nil {
			a.db.Master.Close()
		}

		if a.producer != nil {
			a.producer.Close()
		}

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
