package database

import (
	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
)

// Database bundles the per-entity repos sharing one backend client.
type Database struct {
	projectRepo     *ProjectRepo
	taskRepo        *TaskRepo
	customFieldRepo *CustomFieldRepo
	budgetRepo      *BudgetRepo
	expenseRepo     *ExpenseRepo
	resourceRepo    *ResourceRepo
	activityLogRepo *ActivityLogRepo
	userProfileRepo *UserProfileRepo
	userRoleRepo    *UserRoleRepo
}

// New initializes every repository on top of a shared backend client
func New(client backend.Client) Database {
	return Database{
		projectRepo:     NewProjectRepo(client),
		taskRepo:        NewTaskRepo(client),
		customFieldRepo: NewCustomFieldRepo(client),
		budgetRepo:      NewBudgetRepo(client),
		expenseRepo:     NewExpenseRepo(client),
		resourceRepo:    NewResourceRepo(client),
		activityLogRepo: NewActivityLogRepo(client),
		userProfileRepo: NewUserProfileRepo(client),
		userRoleRepo:    NewUserRoleRepo(client),
	}
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TaskRepo() *TaskRepo {
	return d.taskRepo
}

func (d Database) CustomFieldRepo() *CustomFieldRepo {
	return d.customFieldRepo
}

func (d Database) BudgetRepo() *BudgetRepo {
	return d.budgetRepo
}

func (d Database) ExpenseRepo() *ExpenseRepo {
	return d.expenseRepo
}

func (d Database) ResourceRepo() *ResourceRepo {
	return d.resourceRepo
}

func (d Database) ActivityLogRepo() *ActivityLogRepo {
	return d.activityLogRepo
}

func (d Database) UserProfileRepo() *UserProfileRepo {
	return d.userProfileRepo
}

func (d Database) UserRoleRepo() *UserRoleRepo {
	return d.userRoleRepo
}
