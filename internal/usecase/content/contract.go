package content

import (
	"context"

	"primegames-media/internal/domain"
	"primegames-media/internal/usecase/media"
)

type contentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Content, error)
	UpdateThumbnail(ctx context.Context, id int64, url string) error
}

type mediaUsecase interface {
	ReplaceImage(ctx context.Context, candidate domain.ImageCandidate, budget domain.SizeBudget, container string, oldRef domain.StoredReference, commit media.CommitFunc) (domain.StoredReference, error)
	DeleteImage(ctx context.Context, ref domain.StoredReference, container string) domain.CleanupResult
}
