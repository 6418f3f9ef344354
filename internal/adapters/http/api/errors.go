package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrPayloadTooLarge = errors.New("upload exceeds size limit")
	ErrRateLimited     = errors.New("rate limit exceeded")
)
