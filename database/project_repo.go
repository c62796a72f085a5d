package database

import (
	"context"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// userProjectsFn returns the projects visible to auth.uid().
const userProjectsFn = "get_user_projects"

type ProjectRepo struct {
	client backend.Client
	table  table[models.Project]
	logger zerolog.Logger
}

func NewProjectRepo(client backend.Client) *ProjectRepo {
	return &ProjectRepo{
		client: client,
		table:  table[models.Project]{client: client, name: models.Project{}.TableName()},
		logger: log.With().Str("repo", "projectRepo").Logger(),
	}
}

// ListForUser returns every project the caller may see, as decided by the backend.
func (r *ProjectRepo) ListForUser(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	if err := r.client.RPC(ctx, userProjectsFn, nil, &projects); err != nil {
		r.logger.Error().Err(err).Msg("Error fetching user projects")
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// Get returns the project with its custom field definitions, or nil when
// no row is visible under that id.
func (r *ProjectRepo) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := r.table.get(ctx, id, "CustomFields")
	if err != nil {
		if backend.IsNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("projectID", id.String()).Msg("Error fetching project")
		return nil, err
	}
	return project, nil
}

// Create inserts the project; project.CreatedBy must already hold the caller's id.
func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if err := r.table.insert(ctx, project); err != nil {
		r.logger.Error().Err(err).Str("name", project.Name).Msg("Error creating project")
		return err
	}
	return nil
}

// Update applies values to the project. id, created_by and created_date are never written.
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*models.Project, error) {
	project, err := r.table.update(ctx, id, withoutKeys(values, "id", "created_by", "created_date"))
	if err != nil {
		r.logger.Error().Err(err).Str("projectID", id.String()).Msg("Error updating project")
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.table.delete(ctx, id); err != nil {
		r.logger.Error().Err(err).Str("projectID", id.String()).Msg("Error deleting project")
		return err
	}
	return nil
}
