package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"primegames-media/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

const cleanupTimeout = 30 * time.Second

type MediaUsecase struct {
	storage   fileStorage
	processor imageProcessor
	validator *Validator
	orphans   orphanQueue
	validate  *validator.Validate
	logger    *zlog.Zerolog
}

// NewMediaUsecase wires the pipeline. orphans may be nil, failed cleanups are
// then only logged.
func NewMediaUsecase(storage fileStorage, processor imageProcessor, v *Validator, orphans orphanQueue, logger *zlog.Zerolog) *MediaUsecase {
	return &MediaUsecase{
		storage:   storage,
		processor: processor,
		validator: v,
		orphans:   orphans,
		validate:  validator.New(),
		logger:    logger,
	}
}

// ProcessAndUpload validates the candidate, shrinks it when it exceeds the
// byte budget and uploads the result. Candidates already within budget are
// uploaded byte for byte.
func (u *MediaUsecase) ProcessAndUpload(ctx context.Context, candidate domain.ImageCandidate, budget domain.SizeBudget, container string) (domain.StoredReference, error) {
	if err := u.validate.Struct(budget); err != nil {
		return "", fmt.Errorf("%w: budget: %w", ErrInvalidInput, err)
	}

	if err := u.validator.Validate(candidate); err != nil {
		u.logger.Warn().Err(err).Str("filename", candidate.Filename).Msg("Rejected upload")
		return "", err
	}

	data := candidate.Data
	contentType := strings.ToLower(candidate.ContentType)

	if candidate.Size() > budget.MaxBytes {
		processed, err := u.processor.Process(ctx, candidate, budget)
		if err != nil {
			return "", fmt.Errorf("process %s: %w", candidate.Filename, err)
		}
		data = processed.Data
		contentType = processed.ContentType
	} else {
		u.logger.Debug().
			Str("filename", candidate.Filename).
			Int64("size", candidate.Size()).
			Int64("budget", budget.MaxBytes).
			Msg("Image within budget, uploading original")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref, err := u.storage.Upload(ctx, data, contentType, container)
	if err != nil {
		u.logger.Error().Err(err).Str("filename", candidate.Filename).Str("container", container).Msg("Failed to upload image")
		if errors.Is(err, ErrStorage) {
			return "", fmt.Errorf("upload %s: %w", candidate.Filename, err)
		}
		return "", fmt.Errorf("%w: upload %s: %w", ErrStorage, candidate.Filename, err)
	}

	u.logger.Info().
		Str("filename", candidate.Filename).
		Str("reference", ref).
		Int("size", len(data)).
		Str("content_type", contentType).
		Msg("Image uploaded")

	return ref, nil
}

// ReplaceImage uploads the candidate and hands the new reference to commit.
// If commit fails the new upload is deleted and the commit error returned;
// otherwise oldRef, when set, is deleted. Deletes are best effort and never
// change the returned error.
func (u *MediaUsecase) ReplaceImage(ctx context.Context, candidate domain.ImageCandidate, budget domain.SizeBudget, container string, oldRef domain.StoredReference, commit CommitFunc) (domain.StoredReference, error) {
	ref, err := u.ProcessAndUpload(ctx, candidate, budget, container)
	if err != nil {
		return "", err
	}

	if err := commit(ctx, ref); err != nil {
		u.logger.Error().Err(err).Str("reference", ref).Msg("Commit failed, removing uploaded image")
		u.cleanup(ctx, ref, container, domain.ReasonCommitFailed)
		return "", fmt.Errorf("commit %s: %w", candidate.Filename, err)
	}

	if oldRef != "" && oldRef != ref {
		u.cleanup(ctx, oldRef, container, domain.ReasonReplacedImage)
	}

	return ref, nil
}

// DeleteImage removes a stored image after its owning record is gone.
func (u *MediaUsecase) DeleteImage(ctx context.Context, ref domain.StoredReference, container string) domain.CleanupResult {
	return u.cleanup(ctx, ref, container, domain.ReasonRecordDeleted)
}

func (u *MediaUsecase) cleanup(ctx context.Context, ref domain.StoredReference, container string, reason domain.OrphanReason) domain.CleanupResult {
	result := domain.CleanupResult{Reference: ref, Container: container}
	if ref == "" {
		return result
	}

	// runs even when the request context is already cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	result.Err = u.storage.Delete(ctx, ref, container)
	u.logCleanup(result, reason)

	if !result.OK() {
		u.enqueueOrphan(ctx, result, reason)
	}
	return result
}

func (u *MediaUsecase) logCleanup(result domain.CleanupResult, reason domain.OrphanReason) {
	if result.OK() {
		u.logger.Info().
			Str("reference", result.Reference).
			Str("reason", string(reason)).
			Msg("Image deleted")
		return
	}

	u.logger.Error().
		Err(result.Err).
		Str("reference", result.Reference).
		Str("container", result.Container).
		Str("reason", string(reason)).
		Msg("Failed to delete image")
}

func (u *MediaUsecase) enqueueOrphan(ctx context.Context, result domain.CleanupResult, reason domain.OrphanReason) {
	if u.orphans == nil {
		return
	}

	task := &domain.OrphanTask{
		ID:        uuid.NewString(),
		Reference: result.Reference,
		Container: result.Container,
		Reason:    reason,
		Error:     result.Err.Error(),
		CreatedAt: time.Now(),
	}

	if err := u.orphans.Enqueue(ctx, task); err != nil {
		u.logger.Error().Err(err).Str("reference", result.Reference).Msg("Failed to enqueue orphaned image")
		return
	}

	u.logger.Info().Str("task_id", task.ID).Str("reference", result.Reference).Msg("Orphaned image queued for cleanup")
}
