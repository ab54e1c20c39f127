package archive

import "errors"

var (
	ErrUnavailable  = errors.New("archive server unavailable")
	ErrUnauthorized = errors.New("archive: unauthorized")
)
