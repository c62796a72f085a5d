package api

import (
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/auth"
	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/ProNexus-Startup/ProjectHub/backend/notify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder     Responder
	logger        zerolog.Logger
	profileRepo   *database.UserProfileRepo
	notifications *notify.Recorder
}

func newUserHandler(profileRepo *database.UserProfileRepo, notifications *notify.Recorder) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		profileRepo:   profileRepo,
		notifications: notifications,
	}
}

// getMe returns the caller's auth state: the user with resolved roles
// @Summary Get current user
// @Tags Users
// @Produce json
// @Success 200 {object} auth.State "Resolved user and roles"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /me [get]
func (h userHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := auth.ProfileFromContext(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("no session"))
			return
		}
		h.responder.WriteJSON(w, auth.State{User: profile, Loading: false})
	}
}

func (h userHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		profile, err := h.profileRepo.Get(r.Context(), caller.User.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "profile", err))
			return
		}

		h.responder.WriteJSON(w, profile)
	}
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

func (h userHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req updateProfileRequest
		if err := h.responder.DecodeJSON(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.DisplayName == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("display_name"))
			return
		}

		profile, err := h.profileRepo.UpdateDisplayName(r.Context(), caller.User.ID, req.DisplayName)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "profile", err))
			return
		}

		h.responder.WriteJSON(w, profile)
	}
}

// getNotifications returns the caller's recent notifications, newest first
func (h userHandler) getNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.notifications.Recent(caller.User.ID))
	}
}
