package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"primegames-media/internal/domain"
	"primegames-media/internal/repository/content"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

type ContentRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewContentRepository(db *dbpg.DB, retries retry.Strategy) *ContentRepository {
	return &ContentRepository{
		db:      db,
		retries: retries,
	}
}

func (r *ContentRepository) GetByID(ctx context.Context, id int64) (*domain.Content, error) {
	query := `
		SELECT id, title, COALESCE(thumbnail_url, ''), updated_at
		FROM contents
		WHERE id = $1
	`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}

	var c domain.Content
	err = row.Scan(&c.ID, &c.Title, &c.ThumbnailURL, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	return &c, nil
}

// UpdateThumbnail stores url as the thumbnail of the content; an empty url
// clears it.
func (r *ContentRepository) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	query := `UPDATE contents SET thumbnail_url = NULLIF($1, ''), updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, url, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update thumbnail: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return content.ErrContentNotFound
	}

	return nil
}
