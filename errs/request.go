package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken = errors.New("missing access token")
	ErrExpiredToken = errors.New("expired access token")
	ErrInvalidToken = errors.New("invalid access token")
)

func NewTokenError(sentinel error, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrUnauthorized, sentinel),
		Cause:      cause,
	}
}
