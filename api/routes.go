package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/health", handlers.healthHandler.getHealth())
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/me", handlers.userHandler.getMe())
		r.Get("/me/profile", handlers.userHandler.getProfile())
		r.Put("/me/profile", handlers.userHandler.updateProfile())
		r.Get("/notifications", handlers.userHandler.getNotifications())

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Post("/project", handlers.projectHandler.createProject())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())
		r.Get("/project/{projectID}/detail", handlers.projectHandler.getProjectDetail())

		r.Get("/project/{projectID}/tasks", handlers.taskHandler.getTasks())
		r.Post("/project/{projectID}/task", handlers.taskHandler.createTask())
		r.Get("/project/{projectID}/task/{taskID}", handlers.taskHandler.getTask())
		r.Patch("/project/{projectID}/task/{taskID}", handlers.taskHandler.updateTask())
		r.Delete("/project/{projectID}/task/{taskID}", handlers.taskHandler.deleteTask())

		r.Get("/project/{projectID}/custom-fields", handlers.customFieldHandler.getCustomFields())
		r.Post("/project/{projectID}/custom-fields", handlers.customFieldHandler.createCustomField())
		r.Delete("/custom-field/{fieldID}", handlers.customFieldHandler.deleteCustomField())

		r.Get("/project/{projectID}/budgets", handlers.budgetHandler.getBudgets())
		r.Post("/project/{projectID}/budgets", handlers.budgetHandler.createBudget())
		r.Get("/budget/{budgetID}", handlers.budgetHandler.getBudget())
		r.Put("/budget/{budgetID}", handlers.budgetHandler.updateBudget())
		r.Delete("/budget/{budgetID}", handlers.budgetHandler.deleteBudget())

		r.Get("/project/{projectID}/expenses", handlers.expenseHandler.getExpenses())
		r.Post("/project/{projectID}/expenses", handlers.expenseHandler.createExpense())
		r.Get("/expense/{expenseID}", handlers.expenseHandler.getExpense())
		r.Put("/expense/{expenseID}", handlers.expenseHandler.updateExpense())
		r.Delete("/expense/{expenseID}", handlers.expenseHandler.deleteExpense())

		r.Get("/project/{projectID}/resources", handlers.resourceHandler.getResources())
		r.Post("/project/{projectID}/resources", handlers.resourceHandler.createResource())
		r.Get("/resource/{resourceID}", handlers.resourceHandler.getResource())
		r.Put("/resource/{resourceID}", handlers.resourceHandler.updateResource())
		r.Delete("/resource/{resourceID}", handlers.resourceHandler.deleteResource())

		r.Get("/project/{projectID}/activity", handlers.activityHandler.getActivity())
	})
}
