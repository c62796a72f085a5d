package api

import (
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/rs/zerolog/log"
)

const resourceTypeReason = "must be human, equipment or material"

type resourceHandler struct {
	responder Responder
	repo      *database.ResourceRepo
}

func newResourceHandler(repo *database.ResourceRepo) resourceHandler {
	logger := log.With().Str("handlerName", "resourceHandler").Logger()
	return resourceHandler{
		responder: NewResponder(logger),
		repo:      repo,
	}
}

func (h resourceHandler) getResources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		resources, err := h.repo.ListForProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "resources", err))
			return
		}

		h.responder.WriteJSON(w, resources)
	}
}

func (h resourceHandler) getResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resourceID, err := uuidParam(r, "resourceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		resource, err := h.repo.Get(r.Context(), resourceID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "resource", err))
			return
		}

		h.responder.WriteJSON(w, resource)
	}
}

func (h resourceHandler) createResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var resource models.Resource
		if err := h.responder.DecodeJSON(r, &resource); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if resource.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if !resource.Type.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("type", resourceTypeReason))
			return
		}
		resource.ProjectID = projectID

		if err := h.repo.Create(r.Context(), &resource); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "resource", err))
			return
		}

		h.responder.WriteCreated(w, resource)
	}
}

func (h resourceHandler) updateResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resourceID, err := uuidParam(r, "resourceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		changes, err := h.responder.DecodeChanges(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if v, ok := changes["type"]; ok {
			if s, _ := v.(string); !models.ResourceType(s).Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("type", resourceTypeReason))
				return
			}
		}

		resource, err := h.repo.Update(r.Context(), resourceID, changes)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "resource", err))
			return
		}

		h.responder.WriteJSON(w, resource)
	}
}

func (h resourceHandler) deleteResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resourceID, err := uuidParam(r, "resourceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.repo.Delete(r.Context(), resourceID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "resource", err))
			return
		}

		h.responder.WriteJSON(w, deleted("resource"))
	}
}
