package database

import (
	"context"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ResourceRepo struct {
	table  table[models.Resource]
	logger zerolog.Logger
}

func NewResourceRepo(client backend.Client) *ResourceRepo {
	return &ResourceRepo{
		table:  table[models.Resource]{client: client, name: models.Resource{}.TableName()},
		logger: log.With().Str("repo", "resourceRepo").Logger(),
	}
}

func (r *ResourceRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Resource, error) {
	q := backend.From(r.table.name).Eq("project_id", projectID).OrderBy("created_at", false)
	resources, err := r.table.list(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error fetching resources")
		return nil, err
	}
	return resources, nil
}

func (r *ResourceRepo) Get(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	resource, err := r.table.get(ctx, id)
	if err != nil {
		r.logger.Error().Err(err).Str("resourceID", id.String()).Msg("Error fetching resource")
		return nil, err
	}
	return resource, nil
}

func (r *ResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	if err := r.table.insert(ctx, resource); err != nil {
		r.logger.Error().Err(err).Str("projectID", resource.ProjectID.String()).Msg("Error creating resource")
		return err
	}
	return nil
}

func (r *ResourceRepo) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*models.Resource, error) {
	resource, err := r.table.update(ctx, id, withoutKeys(values, "id", "project_id", "created_at"))
	if err != nil {
		r.logger.Error().Err(err).Str("resourceID", id.String()).Msg("Error updating resource")
		return nil, err
	}
	return resource, nil
}

func (r *ResourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.table.delete(ctx, id); err != nil {
		r.logger.Error().Err(err).Str("resourceID", id.String()).Msg("Error deleting resource")
		return err
	}
	return nil
}
