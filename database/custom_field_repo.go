package database

import (
	"context"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type CustomFieldRepo struct {
	table  table[models.CustomField]
	logger zerolog.Logger
}

func NewCustomFieldRepo(client backend.Client) *CustomFieldRepo {
	return &CustomFieldRepo{
		table:  table[models.CustomField]{client: client, name: models.CustomField{}.TableName()},
		logger: log.With().Str("repo", "customFieldRepo").Logger(),
	}
}

func (r *CustomFieldRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.CustomField, error) {
	q := backend.From(r.table.name).Eq("project_id", projectID).OrderBy("created_at", false)
	fields, err := r.table.list(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error fetching custom fields")
		return nil, err
	}
	return fields, nil
}

func (r *CustomFieldRepo) Create(ctx context.Context, field *models.CustomField) error {
	if err := r.table.insert(ctx, field); err != nil {
		r.logger.Error().Err(err).Str("projectID", field.ProjectID.String()).Msg("Error creating custom field")
		return err
	}
	return nil
}

func (r *CustomFieldRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.table.delete(ctx, id); err != nil {
		r.logger.Error().Err(err).Str("customFieldID", id.String()).Msg("Error deleting custom field")
		return err
	}
	return nil
}
