package processor

import "errors"

var (
	ErrDecode = errors.New("failed to decode image")
	ErrEncode = errors.New("failed to encode image")
)
