package minio

import (
	"context"
	"testing"

	"primegames-media/internal/config"
	repoMedia "primegames-media/internal/repository/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

func newTestRepository(t *testing.T, publicURL string) *FileRepository {
	t.Helper()
	cfg := &config.Config{MinIO: config.MinIOConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "access",
		SecretKey: "secret",
		PublicURL: publicURL,
	}}
	repo, err := NewMinIORepository(cfg, retry.Strategy{Attempts: 1}, &zlog.Logger)
	require.NoError(t, err)
	return repo
}

func TestObjectURL(t *testing.T) {
	repo := newTestRepository(t, "")
	assert.Equal(t, "http://localhost:9000/thumbnail-images/a.jpg", repo.objectURL("thumbnail-images", "a.jpg"))

	repo = newTestRepository(t, "https://cdn.primegames.test/")
	assert.Equal(t, "https://cdn.primegames.test/thumbnail-images/a.jpg", repo.objectURL("thumbnail-images", "a.jpg"))
}

func TestUpload_RejectsEmptyPayload(t *testing.T) {
	repo := newTestRepository(t, "")

	_, err := repo.Upload(context.Background(), nil, "image/jpeg", "thumbnail-images")
	require.ErrorIs(t, err, repoMedia.ErrStorageValidation)
}

func TestDelete_EmptyReferenceIsNoop(t *testing.T) {
	repo := newTestRepository(t, "")

	assert.NoError(t, repo.Delete(context.Background(), "", "thumbnail-images"))
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, isNotFound(nil))
}
