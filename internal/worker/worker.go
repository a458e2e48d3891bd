package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"primegames-media/internal/broker"
	"primegames-media/internal/domain"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

type fileStorage interface {
	Delete(ctx context.Context, ref, container string) error
}

type orphanQueue interface {
	Enqueue(ctx context.Context, task *domain.OrphanTask) error
}

// Worker drains the orphan queue, retrying deletes of blobs whose owning
// record was never committed or has moved on to a new image.
type Worker struct {
	consumer     broker.Consumer
	storage      fileStorage
	requeue      orphanQueue
	retries      retry.Strategy
	logger       *zlog.Zerolog
	concurrency  int
	maxAttempts  int
	requeueDelay time.Duration
	now          func() time.Time
	wg           sync.WaitGroup
}

// NewWorker builds a sweeper. A failed delete is retried no earlier than
// requeueDelay doubled per previous attempt.
func NewWorker(consumer broker.Consumer, storage fileStorage, requeue orphanQueue, retries retry.Strategy, concurrency int, requeueDelay time.Duration, logger *zlog.Zerolog) *Worker {
	return &Worker{
		consumer:     consumer,
		storage:      storage,
		requeue:      requeue,
		retries:      retries,
		logger:       logger,
		concurrency:  max(concurrency, 1),
		maxAttempts:  domain.MaxOrphanAttempts,
		requeueDelay: max(requeueDelay, 0),
		now:          time.Now,
	}
}

// Run consumes until ctx is cancelled and all in-flight messages are done.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Int("concurrency", w.concurrency).Msg("Starting orphan sweeper")

	messages := make(chan *broker.Message, w.concurrency*2)
	w.consumer.Start(ctx, messages, w.retries)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			w.processWorker(ctx, id, messages)
		}(i)
	}

	<-ctx.Done()
	w.logger.Info().Msg("Shutting down orphan sweeper gracefully...")
	w.wg.Wait()
	return nil
}

func (w *Worker) processWorker(ctx context.Context, id int, messages <-chan *broker.Message) {
	w.logger.Debug().Int("worker_id", id).Msg("Worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Int("worker_id", id).Msg("Worker stopping")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			startTime := time.Now()
			if err := w.safeProcessMessage(ctx, id, msg); err != nil {
				w.logger.Error().
					Err(err).
					Int("worker_id", id).
					Int64("offset", msg.Offset).
					Msg("Failed to process message")
				continue
			}
			if err := w.consumer.Commit(ctx, msg); err != nil {
				w.logger.Error().
					Err(err).
					Int("worker_id", id).
					Int64("offset", msg.Offset).
					Msg("Failed to commit message after successful processing")
				continue
			}
			w.logger.Debug().
				Int("worker_id", id).
				Int64("offset", msg.Offset).
				Dur("duration", time.Since(startTime)).
				Msg("Message processed and committed successfully")
		}
	}
}

func (w *Worker) safeProcessMessage(ctx context.Context, workerID int, msg *broker.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().
				Int("worker_id", workerID).
				Interface("panic", r).
				Int64("offset", msg.Offset).
				Msg("Panic recovered while processing message")
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processMessage(ctx, msg)
}

// processMessage returns nil when the message can be committed: the blob is
// gone, the task was requeued, or it ran out of attempts.
func (w *Worker) processMessage(ctx context.Context, msg *broker.Message) error {
	var task domain.OrphanTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		w.logger.Error().Err(err).Str("message", string(msg.Value)).Int64("offset", msg.Offset).Msg("Dropping malformed orphan task")
		return nil
	}

	if err := w.waitUntil(ctx, task.NotBefore); err != nil {
		return err
	}

	err := w.storage.Delete(ctx, task.Reference, task.Container)
	if err == nil {
		w.logger.Info().
			Str("task_id", task.ID).
			Str("reference", task.Reference).
			Str("reason", string(task.Reason)).
			Msg("Orphaned image deleted")
		return nil
	}

	task.Attempts++
	task.Error = err.Error()
	task.NotBefore = w.now().Add(w.backoff(task.Attempts))

	if task.Attempts >= w.maxAttempts {
		w.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Str("reference", task.Reference).
			Int("attempts", task.Attempts).
			Msg("Giving up on orphaned image")
		return nil
	}

	if err := w.requeue.Enqueue(ctx, &task); err != nil {
		return fmt.Errorf("failed to requeue orphan task %s: %w", task.ID, err)
	}

	w.logger.Warn().
		Err(err).
		Str("task_id", task.ID).
		Int("attempts", task.Attempts).
		Time("not_before", task.NotBefore).
		Msg("Orphaned image delete failed, requeued")
	return nil
}

// backoff returns requeueDelay * 2^(attempts-1).
func (w *Worker) backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return w.requeueDelay << (attempts - 1)
}

// waitUntil blocks until t or ctx is done. The message stays uncommitted on
// cancellation so it is redelivered.
func (w *Worker) waitUntil(ctx context.Context, t time.Time) error {
	if t.IsZero() {
		return nil
	}

	wait := t.Sub(w.now())
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
