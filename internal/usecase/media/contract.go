package media

import (
	"context"

	"primegames-media/internal/domain"
)

type fileStorage interface {
	Upload(ctx context.Context, data []byte, contentType, container string) (string, error)
	Delete(ctx context.Context, ref, container string) error
}

type imageProcessor interface {
	Process(ctx context.Context, candidate domain.ImageCandidate, budget domain.SizeBudget) (*domain.ProcessedImage, error)
}

type orphanQueue interface {
	Enqueue(ctx context.Context, task *domain.OrphanTask) error
}

// CommitFunc persists a freshly uploaded reference on the owning record.
type CommitFunc func(ctx context.Context, ref domain.StoredReference) error
