package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	repoMedia "primegames-media/internal/repository/media"

	"github.com/wb-go/wbf/zlog"
)

const filePrefix = "thumb_"

// FileRepository keeps uploads on local disk under root/<container> and hands
// out references of the form <urlPrefix>/<container>/<name>.
type FileRepository struct {
	root      string
	urlPrefix string
	logger    *zlog.Zerolog
}

func NewFileRepository(root, urlPrefix string, logger *zlog.Zerolog) (*FileRepository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", root, err)
	}

	return &FileRepository{
		root:      root,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

func (r *FileRepository) Upload(ctx context.Context, data []byte, contentType, container string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", repoMedia.ErrStorageValidation)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := r.containerDir(container)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", repoMedia.ErrStorage, dir, err)
	}

	name := repoMedia.ObjectName(filePrefix, contentType)
	filePath := filepath.Join(dir, name)

	// Write to a temp file first so readers never see a partial image.
	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: write %s: %w", repoMedia.ErrStorage, name, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: rename %s: %w", repoMedia.ErrStorage, name, err)
	}

	ref := path.Join(r.urlPrefix, container, name)

	r.logger.Info().
		Str("file", name).
		Int("size", len(data)).
		Str("reference", ref).
		Msg("File uploaded to local storage")

	return ref, nil
}

// Delete removes the file behind ref. A missing file is logged and ignored.
func (r *FileRepository) Delete(ctx context.Context, ref, container string) error {
	name := repoMedia.NameFromReference(ref)
	if name == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := r.containerDir(container)
	if err != nil {
		return err
	}

	filePath := filepath.Join(dir, name)
	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Str("path", filePath).Msg("File not found for deletion")
			return nil
		}
		return fmt.Errorf("%w: remove %s: %w", repoMedia.ErrStorage, name, err)
	}

	r.logger.Info().Str("file", name).Msg("File deleted from local storage")
	return nil
}

func (r *FileRepository) containerDir(container string) (string, error) {
	container = strings.Trim(container, "/")
	if container == "" || strings.Contains(container, "..") || strings.ContainsAny(container, `/\`) {
		return "", fmt.Errorf("%w: invalid container %q", repoMedia.ErrStorageValidation, container)
	}
	return filepath.Join(r.root, container), nil
}
