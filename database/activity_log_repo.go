package database

import (
	"context"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ActivityLogLimit caps how many entries a project's activity feed returns.
const ActivityLogLimit = 100

type ActivityLogRepo struct {
	table  table[models.ActivityLog]
	logger zerolog.Logger
}

func NewActivityLogRepo(client backend.Client) *ActivityLogRepo {
	return &ActivityLogRepo{
		table:  table[models.ActivityLog]{client: client, name: models.ActivityLog{}.TableName()},
		logger: log.With().Str("repo", "activityLogRepo").Logger(),
	}
}

// ListForProject returns the most recent entries first, with the actor's profile attached.
func (r *ActivityLogRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.ActivityLog, error) {
	q := backend.From(r.table.name).
		Embed("Profile").
		Eq("project_id", projectID).
		OrderBy("created_at", true).
		WithLimit(ActivityLogLimit)
	entries, err := r.table.list(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error fetching activity log")
		return nil, err
	}
	return entries, nil
}
