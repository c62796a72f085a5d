package api

import (
	"context"
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/ProNexus-Startup/ProjectHub/backend/mutation"
	"github.com/ProNexus-Startup/ProjectHub/backend/querycache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type taskHandler struct {
	responder Responder
	logger    zerolog.Logger
	taskRepo  *database.TaskRepo
	cache     *querycache.Cache
	updater   *mutation.TaskUpdater
}

func newTaskHandler(taskRepo *database.TaskRepo, cache *querycache.Cache, updater *mutation.TaskUpdater) taskHandler {
	logger := log.With().Str("handlerName", "taskHandler").Logger()

	return taskHandler{
		responder: NewResponder(logger),
		logger:    logger,
		taskRepo:  taskRepo,
		cache:     cache,
		updater:   updater,
	}
}

// getTasks returns the project's tasks through the caller's query cache entry
// @Summary Get tasks
// @Tags Tasks
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {array} models.Task "Tasks in creation order"
// @Router /project/{projectID}/tasks [get]
func (h taskHandler) getTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		key := querycache.TasksKey(caller.User.ID, projectID)
		tasks, err := querycache.QueryJSON(r.Context(), h.cache, key, func(ctx context.Context) ([]models.Task, error) {
			return h.taskRepo.ListForProject(ctx, projectID)
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "tasks", err))
			return
		}

		h.responder.WriteJSON(w, tasks)
	}
}

func (h taskHandler) getTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := uuidParam(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		task, err := h.taskRepo.Get(r.Context(), taskID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "task", err))
			return
		}
		if task.ProjectID != projectID {
			h.responder.WriteError(w, errs.NewNotFoundError("task not found in project"))
			return
		}

		h.responder.WriteJSON(w, task)
	}
}

// createTask adds a task to a project
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param task body models.Task true "Task data"
// @Success 201 {object} models.Task "Created task"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid task data"
// @Router /project/{projectID}/task [post]
func (h taskHandler) createTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var task models.Task
		if err := h.responder.DecodeJSON(r, &task); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if task.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if err := normalizeTask(&task); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		task.ProjectID = projectID

		if err := h.taskRepo.Create(r.Context(), &task); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "task", err))
			return
		}
		if err := h.cache.Invalidate(r.Context(), querycache.TasksKey(caller.User.ID, projectID)); err != nil {
			h.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error invalidating task list")
		}

		h.responder.WriteCreated(w, task)
	}
}

// updateTask applies a partial update optimistically
// @Summary Update task
// @Description The caller's cached task list shows the change at once and is restored if the backend rejects it
// @Tags Tasks
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param taskID path string true "Task ID" format(uuid)
// @Success 200 {object} mutation.Mutation "Settled mutation"
// @Failure 403 {object} ErrorResponse "Forbidden - Rejected by row-level security"
// @Router /project/{projectID}/task/{taskID} [patch]
func (h taskHandler) updateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := uuidParam(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		changes, err := h.responder.DecodeChanges(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateTaskChanges(changes); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		m, err := h.updater.Update(r.Context(), projectID, mutation.TaskPatch{ID: taskID, Data: changes})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "task", err))
			return
		}

		h.responder.WriteJSON(w, m)
	}
}

func (h taskHandler) deleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := uuidParam(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		task, err := h.taskRepo.Get(r.Context(), taskID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "task", err))
			return
		}
		if task.ProjectID != projectID {
			h.responder.WriteError(w, errs.NewNotFoundError("task not found in project"))
			return
		}

		if err := h.taskRepo.Delete(r.Context(), projectID, taskID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "task", err))
			return
		}
		if err := h.cache.Invalidate(r.Context(), querycache.TasksKey(caller.User.ID, projectID)); err != nil {
			h.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error invalidating task list")
		}

		h.responder.WriteJSON(w, deleted("task"))
	}
}

// normalizeTask fills the enum defaults and rejects unknown enum values.
func normalizeTask(task *models.Task) error {
	if task.TaskType == "" {
		task.TaskType = models.TaskTypeTask
	}
	if task.Status == "" {
		task.Status = models.TaskNotStarted
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Dependencies == nil {
		task.Dependencies = []string{}
	}
	return validateTaskChanges(map[string]any{
		"task_type": string(task.TaskType),
		"status":    string(task.Status),
		"priority":  string(task.Priority),
	})
}

func validateTaskChanges(changes map[string]any) error {
	if v, ok := changes["task_type"]; ok {
		if s, _ := v.(string); !models.TaskType(s).Valid() {
			return errs.NewInvalidFieldError("task_type", "must be task, milestone or deliverable")
		}
	}
	if v, ok := changes["status"]; ok {
		if s, _ := v.(string); !models.TaskStatus(s).Valid() {
			return errs.NewInvalidFieldError("status", "must be not-started, in-progress, completed or on-hold")
		}
	}
	if v, ok := changes["priority"]; ok {
		if s, _ := v.(string); !models.TaskPriority(s).Valid() {
			return errs.NewInvalidFieldError("priority", "must be Blocker, Critical, High, Medium or Low")
		}
	}
	return nil
}
