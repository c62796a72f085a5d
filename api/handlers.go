package api

import (
	"time"

	"github.com/ProNexus-Startup/ProjectHub/backend/mutation"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time) *routeHandlers {
	db := deps.Database
	updater := mutation.NewTaskUpdater(deps.Cache, db.TaskRepo(), deps.Notifications)

	return &routeHandlers{
		healthHandler:      newHealthHandler(startupTime),
		userHandler:        newUserHandler(db.UserProfileRepo(), deps.Notifications),
		projectHandler:     newProjectHandler(db.ProjectRepo(), db.TaskRepo(), deps.Cache),
		taskHandler:        newTaskHandler(db.TaskRepo(), deps.Cache, updater),
		customFieldHandler: newCustomFieldHandler(db.CustomFieldRepo()),
		budgetHandler:      newBudgetHandler(db.BudgetRepo()),
		expenseHandler:     newExpenseHandler(db.ExpenseRepo()),
		resourceHandler:    newResourceHandler(db.ResourceRepo()),
		activityHandler:    newActivityHandler(db.ActivityLogRepo()),
	}
}
