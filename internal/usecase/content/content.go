package content

import (
	"context"
	"fmt"

	"primegames-media/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

// ContentUsecase manages the thumbnail attached to a CMS content record.
type ContentUsecase struct {
	repo      contentRepository
	media     mediaUsecase
	budget    domain.SizeBudget
	container string
	logger    *zlog.Zerolog
}

func NewContentUsecase(repo contentRepository, media mediaUsecase, budget domain.SizeBudget, container string, logger *zlog.Zerolog) *ContentUsecase {
	return &ContentUsecase{
		repo:      repo,
		media:     media,
		budget:    budget,
		container: container,
		logger:    logger,
	}
}

// SetThumbnail uploads candidate as the new thumbnail of content id. The
// previous thumbnail is removed only once the record points at the new one.
func (u *ContentUsecase) SetThumbnail(ctx context.Context, id int64, candidate domain.ImageCandidate) (*domain.Content, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get content %d: %w", id, err)
	}

	ref, err := u.media.ReplaceImage(ctx, candidate, u.budget, u.container, c.ThumbnailURL, func(ctx context.Context, ref domain.StoredReference) error {
		return u.repo.UpdateThumbnail(ctx, id, ref)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set thumbnail for content %d: %w", id, err)
	}

	c.ThumbnailURL = ref
	u.logger.Info().Int64("content_id", id).Str("thumbnail", ref).Msg("Thumbnail updated")
	return c, nil
}

// RemoveThumbnail clears the thumbnail of content id and deletes the stored
// image. A failed delete is logged only.
func (u *ContentUsecase) RemoveThumbnail(ctx context.Context, id int64) error {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get content %d: %w", id, err)
	}

	if c.ThumbnailURL == "" {
		return nil
	}

	if err := u.repo.UpdateThumbnail(ctx, id, ""); err != nil {
		return fmt.Errorf("failed to clear thumbnail for content %d: %w", id, err)
	}

	res := u.media.DeleteImage(ctx, c.ThumbnailURL, u.container)
	if !res.OK() {
		u.logger.Warn().Err(res.Err).Int64("content_id", id).Str("thumbnail", c.ThumbnailURL).Msg("Thumbnail cleared but image not deleted")
	}

	return nil
}
