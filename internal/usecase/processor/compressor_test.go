package processor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"primegames-media/internal/domain"
	"primegames-media/internal/usecase/processor/operations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

// sizedAttempt returns a payload whose length depends on the quality.
func sizedAttempt(sizes map[int]int) attemptFunc {
	return func(quality int) ([]byte, error) {
		return make([]byte, sizes[quality]), nil
	}
}

func linearSizes() map[int]int {
	// 95 -> 950 bytes, 85 -> 850 bytes, ...
	sizes := make(map[int]int)
	for q := 0; q <= 100; q++ {
		sizes[q] = q * 10
	}
	return sizes
}

func TestSearchQuality_Sequence(t *testing.T) {
	cases := []struct {
		name   string
		budget int64
		want   []int
	}{
		{"first attempt fits", 1000, []int{95}},
		{"exact budget fits", 950, []int{95}},
		{"fits at 65", 700, []int{95, 85, 75, 65}},
		{"fits at 25", 250, []int{95, 85, 75, 65, 55, 45, 35, 25}},
		{"never fits", 10, []int{95, 85, 75, 65, 55, 45, 35, 25}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := searchQuality(context.Background(), c.budget, false, sizedAttempt(linearSizes()))
			require.NoError(t, err)
			assert.Equal(t, c.want, res.attempts)
			assert.Len(t, res.data, c.want[len(c.want)-1]*10)
			assert.LessOrEqual(t, len(res.attempts), MaxQualityAttempts)
		})
	}
}

func TestSearchQuality_LosslessSingleAttempt(t *testing.T) {
	res, err := searchQuality(context.Background(), 1, true, sizedAttempt(linearSizes()))
	require.NoError(t, err)
	assert.Equal(t, []int{95}, res.attempts)
}

func TestSearchQuality_AttemptError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := searchQuality(context.Background(), 1, false, func(quality int) ([]byte, error) {
		calls++
		if quality == 75 {
			return nil, boom
		}
		return make([]byte, 100), nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestSearchQuality_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := searchQuality(ctx, 1, false, func(quality int) ([]byte, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return make([]byte, 100), nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestMaxQualityAttempts(t *testing.T) {
	assert.Equal(t, 8, MaxQualityAttempts)
}

func noise(w, h int, seed int64) image.Image {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	return img
}

func newTestCompressor() *Compressor {
	return NewCompressor(operations.NewResizer(), &zlog.Logger)
}

func TestCompressor_FitsWithoutFallback(t *testing.T) {
	img := noise(64, 64, 1)

	res, err := newTestCompressor().Compress(context.Background(), img, 1<<20, domain.FormatJPEG)
	require.NoError(t, err)

	assert.Equal(t, []int{95}, res.Attempts)
	assert.False(t, res.FallbackApplied)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 64, res.Height)
}

func TestCompressor_FallbackOnTinyBudget(t *testing.T) {
	img := noise(200, 100, 2)

	res, err := newTestCompressor().Compress(context.Background(), img, 64, domain.FormatWebP)
	require.NoError(t, err)

	assert.Equal(t, []int{95, 85, 75, 65, 55, 45, 35, 25}, res.Attempts)
	assert.True(t, res.FallbackApplied)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, 160, res.Width)
	assert.Equal(t, 80, res.Height)
	// The budget cannot be met; the fallback result is accepted anyway.
	assert.Greater(t, res.Size(), int64(64))
}

func TestCompressor_PNGFallsBackToJPEG(t *testing.T) {
	img := noise(120, 120, 3)

	res, err := newTestCompressor().Compress(context.Background(), img, 2048, domain.FormatPNG)
	require.NoError(t, err)

	assert.Equal(t, []int{95}, res.Attempts)
	assert.True(t, res.FallbackApplied)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, 96, res.Width)
	assert.Equal(t, 96, res.Height)
}
