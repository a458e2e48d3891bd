package operations

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"primegames-media/internal/domain"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), uint8((x ^ y) & 0xff), 255})
		}
	}
	return img
}

func TestSelectEncoder_Mapping(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
		lossless    bool
	}{
		{"image/png", "image/png", true},
		{"IMAGE/PNG", "image/png", true},
		{"image/webp", "image/webp", false},
		{"image/jpeg", "image/jpeg", false},
		{"image/jpg", "image/jpeg", false},
		{"image/gif", "image/jpeg", false},
		{"", "image/jpeg", false},
	}

	for _, c := range cases {
		enc := SelectEncoder(domain.FormatFromContentType(c.contentType), 85)
		assert.Equal(t, c.want, enc.ContentType(), c.contentType)
		assert.Equal(t, c.lossless, enc.Lossless(), c.contentType)
	}
}

func TestSelectEncoder_WebPAt85(t *testing.T) {
	enc := SelectEncoder(domain.FormatFromContentType("image/webp"), 85)

	w, ok := enc.(webpEncoder)
	require.True(t, ok, "expected WebP encoder, got %T", enc)
	assert.Equal(t, 85, w.Quality())

	data, err := EncodeBytes(enc, gradient(64, 48))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestSelectEncoder_ClampsQuality(t *testing.T) {
	assert.Equal(t, MaxQuality, SelectEncoder(domain.FormatJPEG, 250).(jpegEncoder).Quality())
	assert.Equal(t, MinQuality, SelectEncoder(domain.FormatJPEG, -4).(jpegEncoder).Quality())
}

func TestPNGEncoder_IgnoresQuality(t *testing.T) {
	img := gradient(80, 60)

	high, err := EncodeBytes(SelectEncoder(domain.FormatPNG, 95), img)
	require.NoError(t, err)
	low, err := EncodeBytes(SelectEncoder(domain.FormatPNG, 25), img)
	require.NoError(t, err)

	assert.Equal(t, high, low)

	_, err = png.Decode(bytes.NewReader(high))
	require.NoError(t, err)
}

func TestJPEGEncoder_LowerQualityIsSmaller(t *testing.T) {
	img := gradient(200, 150)

	high, err := EncodeBytes(SelectEncoder(domain.FormatJPEG, 95), img)
	require.NoError(t, err)
	low, err := EncodeBytes(SelectEncoder(domain.FormatJPEG, 25), img)
	require.NoError(t, err)

	assert.Less(t, len(low), len(high))

	_, err = jpeg.Decode(bytes.NewReader(low))
	require.NoError(t, err)
}
