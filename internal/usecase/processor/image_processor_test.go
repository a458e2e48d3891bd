package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"primegames-media/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func photoLike(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	src := noise(64, 64, 7)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(x%64, y%64).RGBA()
			img.Set(x, y, color.RGBA{
				uint8((int(r>>8) + x*255/w) / 2),
				uint8((int(g>>8) + y*255/h) / 2),
				uint8(b >> 8),
				255,
			})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func TestImageProcessor_LargeJPEG(t *testing.T) {
	data := encodeJPEG(t, photoLike(3000, 2000), 100)
	budget := domain.SizeBudget{MaxBytes: 1 << 20, MaxWidth: 1920, MaxHeight: 1080}
	require.Greater(t, int64(len(data)), budget.MaxBytes)

	p := NewImageProcessor(&zlog.Logger)
	res, err := p.Process(context.Background(), domain.ImageCandidate{
		Data:        data,
		ContentType: "image/jpeg",
		Filename:    "hero.jpg",
	}, budget)
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Width, 1920)
	assert.LessOrEqual(t, res.Height, 1080)
	assert.LessOrEqual(t, len(res.Attempts), MaxQualityAttempts)
	assert.True(t, res.Processed)
	if !res.FallbackApplied {
		assert.LessOrEqual(t, res.Size(), budget.MaxBytes)
		assert.Equal(t, 1620, res.Width)
		assert.Equal(t, 1080, res.Height)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, res.Width, cfg.Width)
	assert.Equal(t, res.Height, cfg.Height)
}

func TestImageProcessor_ResizesPNGAndKeepsFormat(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{uint8(x / 2), uint8(y / 2), 64, 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, src))

	p := NewImageProcessor(&zlog.Logger)
	res, err := p.Process(context.Background(), domain.ImageCandidate{
		Data:        buf.Bytes(),
		ContentType: "image/png",
		Filename:    "banner.png",
	}, domain.SizeBudget{MaxBytes: 1 << 20, MaxWidth: 200, MaxHeight: 200})
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, []int{95}, res.Attempts)
	assert.False(t, res.FallbackApplied)

	cfg, err := png.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
}

func TestImageProcessor_DecodeError(t *testing.T) {
	p := NewImageProcessor(&zlog.Logger)
	_, err := p.Process(context.Background(), domain.ImageCandidate{
		Data:        []byte("\x89PNG\r\n\x1a\nnot really a png"),
		ContentType: "image/png",
		Filename:    "broken.png",
	}, domain.SizeBudget{MaxBytes: 1, MaxWidth: 10, MaxHeight: 10})

	require.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "broken.png")
}

func TestImageProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewImageProcessor(&zlog.Logger).Process(ctx, domain.ImageCandidate{Data: []byte{1}}, domain.SizeBudget{MaxBytes: 1, MaxWidth: 1, MaxHeight: 1})
	require.ErrorIs(t, err, context.Canceled)
}
