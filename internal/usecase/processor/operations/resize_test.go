package operations

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDimensions_NoUpscale(t *testing.T) {
	cases := []struct{ w, h, maxW, maxH int }{
		{500, 500, 1920, 1080},
		{1920, 1080, 1920, 1080},
		{1, 1, 1, 1},
		{100, 1080, 1920, 1080},
	}

	for _, c := range cases {
		w, h := PlanDimensions(c.w, c.h, c.maxW, c.maxH)
		assert.Equal(t, c.w, w)
		assert.Equal(t, c.h, h)
	}
}

func TestPlanDimensions_FitsBoundsAndKeepsRatio(t *testing.T) {
	cases := []struct {
		name                  string
		w, h, maxW, maxH      int
		wantWidth, wantHeight int
	}{
		{"landscape bound by height", 3000, 2000, 1920, 1080, 1620, 1080},
		{"landscape bound by width", 4000, 1000, 1920, 1080, 1920, 480},
		{"portrait", 1000, 3000, 1920, 1080, 360, 1080},
		{"square", 2048, 2048, 1024, 1024, 1024, 1024},
		{"odd ratio floors", 1001, 333, 500, 500, 500, 166},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, h := PlanDimensions(c.w, c.h, c.maxW, c.maxH)
			assert.Equal(t, c.wantWidth, w)
			assert.Equal(t, c.wantHeight, h)
			assert.LessOrEqual(t, w, c.maxW)
			assert.LessOrEqual(t, h, c.maxH)

			// Scaling width back by the original ratio lands within a pixel.
			expectedH := float64(w) * float64(c.h) / float64(c.w)
			assert.LessOrEqual(t, math.Abs(expectedH-float64(h)), 1.0)
		})
	}
}

func TestPlanDimensions_ClampsToOnePixel(t *testing.T) {
	w, h := PlanDimensions(10000, 2, 100, 100)
	assert.Equal(t, 100, w)
	assert.Equal(t, 1, h)

	w, h = PlanDimensions(3, 9000, 100, 100)
	assert.Equal(t, 1, w)
	assert.Equal(t, 100, h)
}

func TestScaleDimensions(t *testing.T) {
	w, h := ScaleDimensions(1620, 1080, 0.8)
	assert.Equal(t, 1296, w)
	assert.Equal(t, 864, h)

	w, h = ScaleDimensions(1, 1, 0.8)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestResizer_Fit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			src.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}

	r := NewResizer()

	out, err := r.Fit(src, 150, 150)
	require.NoError(t, err)
	assert.Equal(t, 150, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())

	same, err := r.Fit(src, 1000, 1000)
	require.NoError(t, err)
	assert.Same(t, src, same)
}

func TestResizer_ResizeRejectsEmptyTarget(t *testing.T) {
	_, err := NewResizer().Resize(image.NewRGBA(image.Rect(0, 0, 10, 10)), 0, 5)
	assert.Error(t, err)
}
