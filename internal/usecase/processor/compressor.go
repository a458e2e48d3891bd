package processor

import (
	"context"
	"fmt"
	"image"

	"primegames-media/internal/domain"
	"primegames-media/internal/usecase/processor/operations"

	"github.com/wb-go/wbf/zlog"
)

const (
	InitialQuality  = 95
	QualityStep     = 10
	QualityFloor    = 20
	FallbackScale   = 0.8
	FallbackQuality = 60

	// MaxQualityAttempts is the length of 95, 85, ..., 25.
	MaxQualityAttempts = (InitialQuality-QualityFloor-1)/QualityStep + 1
)

type attemptFunc func(quality int) ([]byte, error)

type searchResult struct {
	data     []byte
	attempts []int
}

// searchQuality tries qualities 95, 85, ... and stops at the first result
// within budget. A next quality at or below the floor ends the search with
// the last result. Lossless encoders produce the same bytes at any quality,
// so they get a single attempt.
func searchQuality(ctx context.Context, budget int64, lossless bool, attempt attemptFunc) (searchResult, error) {
	var res searchResult

	for quality := InitialQuality; ; quality -= QualityStep {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		data, err := attempt(quality)
		if err != nil {
			return res, err
		}
		res.data = data
		res.attempts = append(res.attempts, quality)

		if int64(len(data)) <= budget || lossless || quality-QualityStep <= QualityFloor {
			return res, nil
		}
	}
}

type Compressor struct {
	resizer *operations.Resizer
	logger  *zlog.Zerolog
}

func NewCompressor(resizer *operations.Resizer, logger *zlog.Zerolog) *Compressor {
	return &Compressor{
		resizer: resizer,
		logger:  logger,
	}
}

// Compress encodes img under budget bytes where possible. When the quality
// search cannot reach the budget the image is shrunk once to 80% and encoded
// as JPEG at quality 60; that result is returned even if it is still too big.
func (c *Compressor) Compress(ctx context.Context, img image.Image, budget int64, format domain.Format) (*domain.ProcessedImage, error) {
	lossless := operations.SelectEncoder(format, InitialQuality).Lossless()

	res, err := searchQuality(ctx, budget, lossless, func(quality int) ([]byte, error) {
		enc := operations.SelectEncoder(format, quality)
		data, err := operations.EncodeBytes(enc, img)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}

		c.logger.Debug().
			Str("format", format.String()).
			Int("quality", quality).
			Int("size", len(data)).
			Msg("Compression attempt")
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	result := &domain.ProcessedImage{
		Data:        res.data,
		ContentType: format.ContentType(),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Processed:   true,
		Attempts:    res.attempts,
	}

	if result.Size() <= budget {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Warn().
		Int64("size", result.Size()).
		Int64("budget", budget).
		Msg("Image still too large after compression, applying fallback resize")

	width, height := operations.ScaleDimensions(bounds.Dx(), bounds.Dy(), FallbackScale)
	shrunk, err := c.resizer.Resize(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: fallback resize: %w", ErrEncode, err)
	}

	data, err := operations.EncodeBytes(operations.SelectEncoder(domain.FormatJPEG, FallbackQuality), shrunk)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	result.Data = data
	result.ContentType = domain.FormatJPEG.ContentType()
	result.Width = width
	result.Height = height
	result.FallbackApplied = true

	if result.Size() > budget {
		c.logger.Warn().
			Int64("size", result.Size()).
			Int64("budget", budget).
			Msg("Fallback result exceeds budget, accepting it")
	}

	return result, nil
}
