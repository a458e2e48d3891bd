package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"primegames-media/internal/domain"
	"primegames-media/internal/usecase/processor/operations"

	"github.com/wb-go/wbf/zlog"
	_ "golang.org/x/image/webp"
)

type ImageProcessor struct {
	resizer    *operations.Resizer
	compressor *Compressor
	logger     *zlog.Zerolog
}

func NewImageProcessor(logger *zlog.Zerolog) *ImageProcessor {
	resizer := operations.NewResizer()
	return &ImageProcessor{
		resizer:    resizer,
		compressor: NewCompressor(resizer, logger),
		logger:     logger,
	}
}

// Process decodes the candidate, fits it inside the budget dimensions and
// compresses it towards the byte budget. The output format follows the
// declared content type.
func (p *ImageProcessor) Process(ctx context.Context, candidate domain.ImageCandidate, budget domain.SizeBudget) (*domain.ProcessedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, decodedFormat, err := image.Decode(bytes.NewReader(candidate.Data))
	if err != nil {
		p.logger.Error().Err(err).Str("filename", candidate.Filename).Msg("Failed to decode image")
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, candidate.Filename, err)
	}

	bounds := img.Bounds()
	format := domain.FormatFromContentType(candidate.ContentType)

	p.logger.Info().
		Str("filename", candidate.Filename).
		Int64("original_size", candidate.Size()).
		Str("decoded_format", decodedFormat).
		Str("target_format", format.String()).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Msg("Starting image processing")

	resized, err := p.resizer.Fit(img, budget.MaxWidth, budget.MaxHeight)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEncode, candidate.Filename, err)
	}

	result, err := p.compressor.Compress(ctx, resized, budget.MaxBytes, format)
	if err != nil {
		p.logger.Error().Err(err).Str("filename", candidate.Filename).Msg("Failed to compress image")
		return nil, fmt.Errorf("compress %s: %w", candidate.Filename, err)
	}

	p.logger.Info().
		Str("filename", candidate.Filename).
		Int64("final_size", result.Size()).
		Str("content_type", result.ContentType).
		Int("width", result.Width).
		Int("height", result.Height).
		Ints("qualities", result.Attempts).
		Bool("fallback", result.FallbackApplied).
		Msg("Image processing completed")

	return result, nil
}
