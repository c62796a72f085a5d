package database

import (
	"context"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type UserProfileRepo struct {
	table  table[models.UserProfile]
	logger zerolog.Logger
}

func NewUserProfileRepo(client backend.Client) *UserProfileRepo {
	return &UserProfileRepo{
		table:  table[models.UserProfile]{client: client, name: models.UserProfile{}.TableName()},
		logger: log.With().Str("repo", "userProfileRepo").Logger(),
	}
}

func (r *UserProfileRepo) Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, err := r.table.get(ctx, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("userID", userID.String()).Msg("Error fetching profile")
		return nil, err
	}
	return profile, nil
}

func (r *UserProfileRepo) UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (*models.UserProfile, error) {
	profile, err := r.table.update(ctx, userID, map[string]any{"display_name": displayName})
	if err != nil {
		r.logger.Error().Err(err).Str("userID", userID.String()).Msg("Error updating profile")
		return nil, err
	}
	return profile, nil
}

type UserRoleRepo struct {
	table  table[models.UserRole]
	logger zerolog.Logger
}

func NewUserRoleRepo(client backend.Client) *UserRoleRepo {
	return &UserRoleRepo{
		table:  table[models.UserRole]{client: client, name: models.UserRole{}.TableName()},
		logger: log.With().Str("repo", "userRoleRepo").Logger(),
	}
}

// RolesForUser returns the role names assigned to the user.
func (r *UserRoleRepo) RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	q := backend.From(r.table.name).Eq("user_id", userID)
	q.Columns = "role"
	assignments, err := r.table.list(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Str("userID", userID.String()).Msg("Error fetching user roles")
		return nil, err
	}

	roles := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		roles = append(roles, assignment.Role)
	}
	return roles, nil
}
