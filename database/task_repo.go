package database

import (
	"context"

	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type TaskRepo struct {
	table  table[models.Task]
	logger zerolog.Logger
}

func NewTaskRepo(client backend.Client) *TaskRepo {
	return &TaskRepo{
		table:  table[models.Task]{client: client, name: models.Task{}.TableName()},
		logger: log.With().Str("repo", "taskRepo").Logger(),
	}
}

func (r *TaskRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	q := backend.From(r.table.name).Eq("project_id", projectID).OrderBy("created_at", false)
	tasks, err := r.table.list(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error fetching tasks")
		return nil, err
	}
	return tasks, nil
}

// Get fails with backend.ErrNoRows when the task does not exist.
func (r *TaskRepo) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := r.table.get(ctx, id)
	if err != nil {
		r.logger.Error().Err(err).Str("taskID", id.String()).Msg("Error fetching task")
		return nil, err
	}
	return task, nil
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	if err := r.table.insert(ctx, task); err != nil {
		r.logger.Error().Err(err).Str("projectID", task.ProjectID.String()).Msg("Error creating task")
		return err
	}
	return nil
}

// Update merges data into the task and returns the stored row. A task that
// does not belong to projectID fails with backend.ErrNoRows.
func (r *TaskRepo) Update(ctx context.Context, projectID, id uuid.UUID, data map[string]any) (*models.Task, error) {
	q := backend.From(r.table.name).Eq("id", id).Eq("project_id", projectID)
	task, err := r.table.updateWhere(ctx, q, withoutKeys(data, "id", "project_id", "created_at"))
	if err != nil {
		r.logger.Error().Err(err).Str("taskID", id.String()).Msg("Error updating task")
		return nil, err
	}
	return task, nil
}

// Delete removes the task only while it belongs to projectID.
func (r *TaskRepo) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	q := backend.From(r.table.name).Eq("id", id).Eq("project_id", projectID)
	if err := r.table.deleteWhere(ctx, q); err != nil {
		r.logger.Error().Err(err).Str("taskID", id.String()).Msg("Error deleting task")
		return err
	}
	return nil
}
