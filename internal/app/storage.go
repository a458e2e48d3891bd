package app

import (
	"context"
	"fmt"

	"primegames-media/internal/config"
	minio_repo "primegames-media/internal/repository/media/cloud/minio"
	local_repo "primegames-media/internal/repository/media/local"

	"github.com/wb-go/wbf/zlog"
)

type FileStorage interface {
	Upload(ctx context.Context, data []byte, contentType, container string) (string, error)
	Delete(ctx context.Context, ref, container string) error
}

// NewFileStorage picks the blob store named by storage.driver.
func NewFileStorage(cfg *config.Config, logger *zlog.Zerolog) (FileStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverLocal:
		repo, err := local_repo.NewFileRepository(cfg.Storage.LocalRoot, cfg.Storage.LocalURLPrefix, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create local file repository: %w", err)
		}
		return repo, nil
	case config.StorageDriverMinIO:
		repo, err := minio_repo.NewMinIORepository(cfg, cfg.DefaultRetryStrategy(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create minio file repository: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
