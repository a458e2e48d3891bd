package operations

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"primegames-media/internal/domain"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	MinQuality = 1
	MaxQuality = 100
)

type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	ContentType() string
	// Lossless reports whether the output ignores the quality setting.
	Lossless() bool
}

// SelectEncoder maps a format and quality to a concrete encoder.
func SelectEncoder(format domain.Format, quality int) Encoder {
	quality = clampQuality(quality)

	switch format {
	case domain.FormatPNG:
		return pngEncoder{enc: png.Encoder{CompressionLevel: png.BestCompression}}
	case domain.FormatWebP:
		return webpEncoder{quality: quality}
	default:
		return jpegEncoder{quality: quality}
	}
}

// EncodeBytes runs enc against img and returns the encoded bytes.
func EncodeBytes(enc Encoder, img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := enc.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", enc.ContentType(), err)
	}
	return buf.Bytes(), nil
}

type pngEncoder struct {
	enc png.Encoder
}

func (e pngEncoder) Encode(w io.Writer, img image.Image) error {
	return e.enc.Encode(w, img)
}

func (pngEncoder) ContentType() string { return domain.FormatPNG.ContentType() }
func (pngEncoder) Lossless() bool      { return true }

type webpEncoder struct {
	quality int
}

func (e webpEncoder) Encode(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: float32(e.quality)})
}

func (webpEncoder) ContentType() string { return domain.FormatWebP.ContentType() }
func (webpEncoder) Lossless() bool      { return false }

func (e webpEncoder) Quality() int { return e.quality }

type jpegEncoder struct {
	quality int
}

func (e jpegEncoder) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: e.quality})
}

func (jpegEncoder) ContentType() string { return domain.FormatJPEG.ContentType() }
func (jpegEncoder) Lossless() bool      { return false }

func (e jpegEncoder) Quality() int { return e.quality }

// flatten composites translucent images onto white, JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Point{}, 1.0)
}

func clampQuality(q int) int {
	return min(max(q, MinQuality), MaxQuality)
}
