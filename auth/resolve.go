package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RoleSource looks up the role names assigned to a user.
type RoleSource interface {
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ResolveProfile extends the session's user with its roles. A nil session
// resolves to a nil profile and roles is not consulted. A failed role
// lookup is logged and yields an empty role list; it never fails the
// resolution.
func ResolveProfile(ctx context.Context, roles RoleSource, session *Session, logger zerolog.Logger) *Profile {
	if session == nil {
		return nil
	}

	profile := &Profile{User: session.User, Roles: []string{}}
	names, err := roles.RolesForUser(ctx, session.User.ID)
	if err != nil {
		logger.Error().Err(err).Str("userID", session.User.ID.String()).Msg("Error fetching user roles")
		return profile
	}
	if names != nil {
		profile.Roles = names
	}
	return profile
}
