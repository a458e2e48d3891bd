package content

import "errors"

var ErrContentNotFound = errors.New("content not found")
