package api

import (
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/rs/zerolog/log"
)

type activityHandler struct {
	responder Responder
	repo      *database.ActivityLogRepo
}

func newActivityHandler(repo *database.ActivityLogRepo) activityHandler {
	logger := log.With().Str("handlerName", "activityHandler").Logger()
	return activityHandler{
		responder: NewResponder(logger),
		repo:      repo,
	}
}

// getActivity returns the project's most recent activity, newest first
// @Summary Get project activity
// @Tags Activity
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {array} models.ActivityLog "At most 100 entries with the actor's profile"
// @Router /project/{projectID}/activity [get]
func (h activityHandler) getActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entries, err := h.repo.ListForProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "activity log", err))
			return
		}

		h.responder.WriteJSON(w, entries)
	}
}
