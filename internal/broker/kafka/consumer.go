package kafka

import (
	"context"
	"fmt"

	"primegames-media/internal/broker"
	"primegames-media/internal/config"

	kafka "github.com/segmentio/kafka-go"
	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type ConsumerClient struct {
	consumer *wbkafka.Consumer
}

func NewConsumerClient(cfg *config.Config) *ConsumerClient {
	return &ConsumerClient{
		consumer: wbkafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.OrphanTopic, cfg.Kafka.GroupID),
	}
}

// Start pumps fetched messages into out until ctx is done.
func (c *ConsumerClient) Start(ctx context.Context, out chan<- *broker.Message, strategy retry.Strategy) {
	raw := make(chan kafka.Message)

	go c.consumer.StartConsuming(ctx, raw, strategy)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-raw:
				select {
				case out <- broker.NewMessage(msg.Key, msg.Value, msg.Offset, msg):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func (c *ConsumerClient) Commit(ctx context.Context, msg *broker.Message) error {
	raw, ok := msg.Raw().(kafka.Message)
	if !ok {
		return fmt.Errorf("unexpected message type %T", msg.Raw())
	}
	return c.consumer.Commit(ctx, raw)
}

func (c *ConsumerClient) Close() error {
	return c.consumer.Close()
}
