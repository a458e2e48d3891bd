package media

import "errors"

var (
	ErrStorage           = errors.New("storage error")
	ErrStorageValidation = errors.New("storage validation failed")
	ErrObjectNotFound    = errors.New("object not found")
)
