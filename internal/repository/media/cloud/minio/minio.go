package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"primegames-media/internal/config"
	repoMedia "primegames-media/internal/repository/media"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

type FileRepository struct {
	client  *minio.Client
	cfg     *config.Config
	retries retry.Strategy
	logger  *zlog.Zerolog

	mu      sync.Mutex
	buckets map[string]bool
}

func NewMinIORepository(cfg *config.Config, retries retry.Strategy, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &FileRepository{
		client:  client,
		cfg:     cfg,
		retries: retries,
		logger:  logger,
		buckets: make(map[string]bool),
	}, nil
}

// Upload stores data in the bucket named by container and returns the public
// URL of the new object.
func (r *FileRepository) Upload(ctx context.Context, data []byte, contentType, container string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", repoMedia.ErrStorageValidation)
	}

	if err := r.ensureBucket(ctx, container); err != nil {
		return "", err
	}

	objectName := repoMedia.ObjectName("", contentType)

	err := retry.Do(func() error {
		_, err := r.client.PutObject(ctx, container, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: contentType,
		})
		return err
	}, r.retries)
	if err != nil {
		r.logger.Error().Err(err).Str("bucket", container).Str("object", objectName).Msg("Failed to upload object")
		return "", fmt.Errorf("%w: put %s/%s: %w", repoMedia.ErrStorage, container, objectName, err)
	}

	r.logger.Info().
		Str("bucket", container).
		Str("object", objectName).
		Int("size", len(data)).
		Msg("File uploaded successfully")

	return r.objectURL(container, objectName), nil
}

// Delete removes the object behind ref. Missing objects are not an error.
func (r *FileRepository) Delete(ctx context.Context, ref, container string) error {
	objectName := repoMedia.NameFromReference(ref)
	if objectName == "" {
		return nil
	}

	err := retry.Do(func() error {
		err := r.client.RemoveObject(ctx, container, objectName, minio.RemoveObjectOptions{})
		if isNotFound(err) {
			return nil
		}
		return err
	}, r.retries)
	if err != nil {
		return fmt.Errorf("%w: remove %s/%s: %w", repoMedia.ErrStorage, container, objectName, err)
	}

	r.logger.Info().Str("bucket", container).Str("object", objectName).Msg("File deleted successfully")
	return nil
}

func (r *FileRepository) ensureBucket(ctx context.Context, bucket string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.buckets[bucket] {
		return nil
	}

	exists, err := r.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket %s: %w", repoMedia.ErrStorage, bucket, err)
	}

	if !exists {
		err := r.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: r.cfg.MinIO.Region})
		if err != nil && !isBucketOwned(err) {
			return fmt.Errorf("%w: create bucket %s: %w", repoMedia.ErrStorage, bucket, err)
		}
		r.logger.Info().Str("bucket", bucket).Msg("Created bucket")
	}

	r.buckets[bucket] = true
	return nil
}

func (r *FileRepository) objectURL(bucket, objectName string) string {
	base := strings.TrimRight(r.cfg.MinIO.PublicURL, "/")
	if base == "" {
		base = r.client.EndpointURL().String()
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, objectName)
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

func isBucketOwned(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists"
}
