package media

import (
	"context"

	"primegames-media/internal/domain"
)

type mediaUsecase interface {
	ProcessAndUpload(ctx context.Context, candidate domain.ImageCandidate, budget domain.SizeBudget, container string) (domain.StoredReference, error)
}

type contentUsecase interface {
	SetThumbnail(ctx context.Context, id int64, candidate domain.ImageCandidate) (*domain.Content, error)
	RemoveThumbnail(ctx context.Context, id int64) error
}
