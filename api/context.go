package api

import (
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/auth"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// callerFromRequest returns the session placed in the context by authenticate.
func callerFromRequest(r *http.Request) (*auth.Session, error) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return nil, errs.NewUnauthorizedError("no session")
	}
	return session, nil
}

// uuidParam parses the named URL parameter as an id.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a UUID")
	}
	return id, nil
}
