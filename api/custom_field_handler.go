package api

import (
	"net/http"

	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/errs"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/rs/zerolog/log"
)

type customFieldHandler struct {
	responder Responder
	repo      *database.CustomFieldRepo
}

func newCustomFieldHandler(repo *database.CustomFieldRepo) customFieldHandler {
	logger := log.With().Str("handlerName", "customFieldHandler").Logger()
	return customFieldHandler{
		responder: NewResponder(logger),
		repo:      repo,
	}
}

func (h customFieldHandler) getCustomFields() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields, err := h.repo.ListForProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("fetch", "custom fields", err))
			return
		}

		h.responder.WriteJSON(w, fields)
	}
}

// createCustomField declares a new task field for a project
// @Summary Create custom field
// @Tags CustomFields
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param field body models.CustomField true "Field definition"
// @Success 201 {object} models.CustomField "Created field"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid field type"
// @Router /project/{projectID}/custom-fields [post]
func (h customFieldHandler) createCustomField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuidParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var field models.CustomField
		if err := h.responder.DecodeJSON(r, &field); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if field.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if !field.FieldType.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("field_type", "must be text, number, date, select or boolean"))
			return
		}
		field.ProjectID = projectID

		if err := h.repo.Create(r.Context(), &field); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "custom field", err))
			return
		}

		h.responder.WriteCreated(w, field)
	}
}

func (h customFieldHandler) deleteCustomField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldID, err := uuidParam(r, "fieldID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.repo.Delete(r.Context(), fieldID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "custom field", err))
			return
		}

		h.responder.WriteJSON(w, deleted("custom field"))
	}
}
