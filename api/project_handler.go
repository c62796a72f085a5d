package api

import (
	"context"
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/ProNexus-Startup/ProjectHub/backend/querycache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	taskRepo    *database.TaskRepo
	cache       *querycache.Cache
}

func newProjectHandler(projectRepo *database.ProjectRepo, taskRepo *database.TaskRepo, cache *querycache.Cache) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		cache:       cache,
	}
}

type createProjectRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	TeamMembers []string             `json:"team_members"`
}

// getAllProjects lists the projects visible to the caller
// @Summary Get all projects
// @Description Retrieves every project the caller may read, as decided by the backend
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.ListForUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// getProject retrieves a specific project by ID with its custom fields
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// getProjectDetail returns the project together with its tasks
// @Summary Get project detail
// @Description Fetches the project and its task list concurrently; the task list comes from the query cache
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectDetail "Project with tasks"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID}/detail [get]
func (h projectHandler) getProjectDetail() http.HandlerFunc {
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

		var (
			project *models.Project
			tasks   []models.Task
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			if project, err = h.projectRepo.Get(ctx, projectID); err != nil {
				return wrapDatabaseError("fetch", "project", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			tasks, err = querycache.QueryJSON(ctx, h.cache, querycache.TasksKey(caller.User.ID, projectID), func(ctx context.Context) ([]models.Task, error) {
				return h.taskRepo.ListForProject(ctx, projectID)
			})
			if err != nil {
				return wrapDatabaseError("fetch", "tasks", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, ProjectDetail{
			Project: *project,
			Tasks:   tasks,
			IsOwner: project.CreatedBy == caller.User.ID,
		})
	}
}

// createProject creates a new project owned by the caller
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body createProjectRequest true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createProjectRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if req.Status == "" {
			req.Status = models.ProjectActive
		}
		if !req.Status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be active, completed or archived"))
			return
		}
		if req.TeamMembers == nil {
			req.TeamMembers = []string{}
		}

		project := models.Project{
			Name:        req.Name,
			Description: req.Description,
			Status:      req.Status,
			CreatedBy:   caller.User.ID,
			TeamMembers: req.TeamMembers,
		}
		if err := h.projectRepo.Create(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.responder.WriteCreated(w, project)
	}
}

// updateProject applies a partial update to a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Updated project"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		changes, err := h.responder.DecodeChanges(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if status, ok := changes["status"].(string); ok && !models.ProjectStatus(status).Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be active, completed or archived"))
			return
		}

		project, err := h.projectRepo.Update(r.Context(), projectID, changes)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
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

		// Verify project exists
		project, err := h.projectRepo.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}
		if err := h.cache.Invalidate(r.Context(), querycache.TasksKey(caller.User.ID, projectID)); err != nil {
			h.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Error invalidating task list")
		}

		h.responder.WriteJSON(w, deleted("project"))
	}
}
