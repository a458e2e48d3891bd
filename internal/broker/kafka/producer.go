package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"primegames-media/internal/config"
	"primegames-media/internal/domain"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type ProducerClient struct {
	producer *wbkafka.Producer
	retries  retry.Strategy
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrphanTopic),
		retries:  cfg.DefaultRetryStrategy(),
	}
}

func (p *ProducerClient) Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error {
	return p.producer.SendWithRetry(ctx, strategy, key, value)
}

// Enqueue publishes an orphan cleanup task keyed by its reference.
func (p *ProducerClient) Enqueue(ctx context.Context, task *domain.OrphanTask) error {
	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal orphan task: %w", err)
	}
	return p.Send(ctx, p.retries, []byte(task.Reference), value)
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
