package media

import (
	"errors"

	repoMedia "primegames-media/internal/repository/media"
	"primegames-media/internal/usecase/processor"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDecode       = processor.ErrDecode
	ErrEncode       = processor.ErrEncode
	ErrStorage      = repoMedia.ErrStorage
)
