package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	repoMedia "primegames-media/internal/repository/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func newTestRepository(t *testing.T) (*FileRepository, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "uploads")
	repo, err := NewFileRepository(root, "uploads/", &zlog.Logger)
	require.NoError(t, err)
	return repo, root
}

func TestUploadAndDelete(t *testing.T) {
	repo, root := newTestRepository(t)
	ctx := context.Background()
	data := []byte("image bytes")

	ref, err := repo.Upload(ctx, data, "image/webp", "thumbnail-images")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "/uploads/thumbnail-images/thumb_"), ref)
	assert.True(t, strings.HasSuffix(ref, ".webp"), ref)

	stored := filepath.Join(root, "thumbnail-images", filepath.Base(ref))
	got, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, repo.Delete(ctx, ref, "thumbnail-images"))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestDelete_MissingFileIsNotAnError(t *testing.T) {
	repo, _ := newTestRepository(t)

	assert.NoError(t, repo.Delete(context.Background(), "/uploads/thumbnail-images/thumb_gone.jpg", "thumbnail-images"))
	assert.NoError(t, repo.Delete(context.Background(), "http://example.com/uploads/x.jpg", "thumbnail-images"))
	assert.NoError(t, repo.Delete(context.Background(), "", "thumbnail-images"))
}

func TestUpload_RejectsBadInput(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Upload(ctx, nil, "image/jpeg", "thumbnail-images")
	require.ErrorIs(t, err, repoMedia.ErrStorageValidation)

	_, err = repo.Upload(ctx, []byte("x"), "image/jpeg", "../escape")
	require.ErrorIs(t, err, repoMedia.ErrStorageValidation)
}

func TestUpload_Cancelled(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Upload(ctx, []byte("x"), "image/jpeg", "thumbnail-images")
	require.ErrorIs(t, err, context.Canceled)
}
