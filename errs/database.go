package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
)

var (
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrDatabaseTimeout    = errors.New("database timeout")
)

// Postgres SQLSTATE codes surfaced by the backend.
const (
	codeInsufficientPrivilege = "42501"
	codeUniqueViolation       = "23505"
	codeForeignKeyViolation   = "23503"
	codeCheckViolation        = "23514"
	codeNotNullViolation      = "23502"
	codeInvalidText           = "22P02"
)

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	switch backend.CodeOf(cause) {
	case backend.CodeNoRows:
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s %w", entity, ErrNotFound),
			Details:    details,
			Cause:      cause,
		}
	case codeInsufficientPrivilege:
		return &ApiErr{
			StatusCode: http.StatusForbidden,
			err:        fmt.Errorf("%s: %w", entity, ErrForbidden),
			Details:    "The row-level security policy rejected this request",
			Cause:      cause,
		}
	case codeUniqueViolation:
		return &ApiErr{
			StatusCode: http.StatusConflict,
			err:        fmt.Errorf("%s already exists: %w", entity, ErrConflict),
			Details:    details,
			Cause:      cause,
		}
	case codeForeignKeyViolation:
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        fmt.Errorf("invalid reference in %s: %w", entity, ErrBadRequest),
			Details:    "The referenced resource does not exist or cannot be linked",
			Cause:      cause,
		}
	case codeCheckViolation, codeNotNullViolation, codeInvalidText:
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        fmt.Errorf("invalid %s: %w", entity, ErrBadRequest),
			Details:    details,
			Cause:      cause,
		}
	}

	if cause != nil {
		switch {
		case errors.Is(cause, context.DeadlineExceeded):
			return &ApiErr{
				StatusCode: http.StatusGatewayTimeout,
				err:        ErrDatabaseTimeout,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(cause.Error(), "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}
