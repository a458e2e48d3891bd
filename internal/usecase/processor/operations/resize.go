package operations

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PlanDimensions fits width x height inside maxWidth x maxHeight keeping the
// aspect ratio. Images that already fit are returned unchanged.
func PlanDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratioX := float64(maxWidth) / float64(width)
	ratioY := float64(maxHeight) / float64(height)
	ratio := min(ratioX, ratioY)

	newWidth := int(float64(width) * ratio)
	newHeight := int(float64(height) * ratio)

	return max(newWidth, 1), max(newHeight, 1)
}

// ScaleDimensions multiplies both sides by factor, flooring and clamping to 1px.
func ScaleDimensions(width, height int, factor float64) (int, int) {
	newWidth := int(float64(width) * factor)
	newHeight := int(float64(height) * factor)
	return max(newWidth, 1), max(newHeight, 1)
}

type Resizer struct {
	filter imaging.ResampleFilter
}

func NewResizer() *Resizer {
	return &Resizer{filter: imaging.Lanczos}
}

// Fit resizes img to the planned dimensions for the given bounds. The source
// image is returned as is when no resize is needed.
func (r *Resizer) Fit(img image.Image, maxWidth, maxHeight int) (image.Image, error) {
	bounds := img.Bounds()
	width, height := PlanDimensions(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	if width == bounds.Dx() && height == bounds.Dy() {
		return img, nil
	}
	return r.Resize(img, width, height)
}

func (r *Resizer) Resize(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, r.filter), nil
}
