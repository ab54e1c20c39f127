package shared

import "errors"

// Errors raised by the archive server's services and mapped to gRPC codes
// by the handlers.
var (
	ErrorInvalidLoginPassword    = errors.New("invalid login/password")
	ErrorInvalidAuthheaderFormat = errors.New("invalid auth header format")
	ErrorValidation              = errors.New("validation error")
	ErrorNotUploaded             = errors.New("invoice pdf not uploaded yet")
)
