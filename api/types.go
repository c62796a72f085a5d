package api

import (
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler      healthHandler
	userHandler        userHandler
	projectHandler     projectHandler
	taskHandler        taskHandler
	customFieldHandler customFieldHandler
	budgetHandler      budgetHandler
	expenseHandler     expenseHandler
	resourceHandler    resourceHandler
	activityHandler    activityHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection is the list of projects visible to the caller
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

// ProjectDetail is a project with its tasks and whether the caller owns it
type ProjectDetail struct {
	Project models.Project `json:"project"`
	Tasks   []models.Task  `json:"tasks"`
	IsOwner bool           `json:"is_owner"`
}

type deleteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func deleted(entity string) deleteResponse {
	return deleteResponse{Status: "success", Message: entity + " deleted successfully"}
}
