package broker

import (
	"context"

	"github.com/wb-go/wbf/retry"
)

type Message struct {
	Key    []byte
	Value  []byte
	Offset int64
	raw    any
}

func NewMessage(key, value []byte, offset int64, raw any) *Message {
	return &Message{Key: key, Value: value, Offset: offset, raw: raw}
}

// Raw returns the transport specific message used for commits.
func (m *Message) Raw() any {
	return m.raw
}

type Producer interface {
	Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}

type Consumer interface {
	Commit(ctx context.Context, msg *Message) error
	Start(ctx context.Context, out chan<- *Message, strategy retry.Strategy)
	Close() error
}
