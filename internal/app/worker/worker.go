package worker

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"primegames-media/internal/app"
	kafka_impl "primegames-media/internal/broker/kafka"
	"primegames-media/internal/config"
	orphan "primegames-media/internal/worker"

	"github.com/wb-go/wbf/zlog"
)

var ErrQueueDisabled = errors.New("kafka brokers are not configured")

// SweeperApp runs the orphan sweeper against the configured blob store.
type SweeperApp struct {
	cfg      *config.Config
	logger   *zlog.Zerolog
	consumer *kafka_impl.ConsumerClient
	producer *kafka_impl.ProducerClient
	sweeper  *orphan.Worker
}

func NewSweeperApp(cfg *config.Config, logger *zlog.Zerolog) (*SweeperApp, error) {
	if !cfg.OrphanQueueEnabled() {
		return nil, ErrQueueDisabled
	}

	storage, err := app.NewFileStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	consumer := kafka_impl.NewConsumerClient(cfg)
	producer := kafka_impl.NewProducerClient(cfg)

	sweeper := orphan.NewWorker(consumer, storage, producer, cfg.DefaultRetryStrategy(), cfg.Worker.Concurrency, cfg.Worker.RequeueDelay, logger)

	return &SweeperApp{
		cfg:      cfg,
		logger:   logger,
		consumer: consumer,
		producer: producer,
		sweeper:  sweeper,
	}, nil
}

func (s *SweeperApp) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.logger.Info().
		Str("topic", s.cfg.Kafka.OrphanTopic).
		Str("group", s.cfg.Kafka.GroupID).
		Msg("Orphan sweeper started")

	runErr := s.sweeper.Run(ctx)

	if err := s.consumer.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to close consumer")
	}
	if err := s.producer.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to close producer")
	}

	if runErr != nil {
		return fmt.Errorf("sweeper: %w", runErr)
	}
	return nil
}
