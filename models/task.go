package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TaskType string

const (
	TaskTypeTask        TaskType = "task"
	TaskTypeMilestone   TaskType = "milestone"
	TaskTypeDeliverable TaskType = "deliverable"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeTask, TaskTypeMilestone, TaskTypeDeliverable:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not-started"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOnHold     TaskStatus = "on-hold"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskCompleted, TaskOnHold:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityBlocker  TaskPriority = "Blocker"
	PriorityCritical TaskPriority = "Critical"
	PriorityHigh     TaskPriority = "High"
	PriorityMedium   TaskPriority = "Medium"
	PriorityLow      TaskPriority = "Low"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityBlocker, PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type DocsProgressStatus string

const (
	DocsNotStarted      DocsProgressStatus = "Not Started"
	DocsInAnalysis      DocsProgressStatus = "In Analysis-TA"
	DocsInProgress      DocsProgressStatus = "In Progress"
	DocsReadyOrTestCase DocsProgressStatus = "Ready or Test Cases"
	DocsHandover        DocsProgressStatus = "Handover"
	DocsNotApplicable   DocsProgressStatus = "Not Applicable"
)

// Task belongs to a project. Dates, progress, dependencies and custom
// field values are stored as given; nothing here checks them.
type Task struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID      uuid.UUID                   `json:"project_id" gorm:"type:uuid;not null;index:idx_tasks_project_id"`
	Name           string                      `json:"name" gorm:"type:text;not null"`
	Description    *string                     `json:"description,omitempty" gorm:"type:text"`
	TaskType       TaskType                    `json:"task_type" gorm:"type:text;not null;default:task"`
	Status         TaskStatus                  `json:"status" gorm:"type:text;not null;default:not-started"`
	Priority       TaskPriority                `json:"priority" gorm:"type:text;not null;default:Medium"`
	Developer      *string                     `json:"developer,omitempty" gorm:"type:text"`
	EstimatedDays  *float64                    `json:"estimated_days,omitempty"`
	EstimatedHours *float64                    `json:"estimated_hours,omitempty"`
	StartDate      Date                        `json:"start_date"`
	EndDate        Date                        `json:"end_date"`
	Dependencies   datatypes.JSONSlice[string] `json:"dependencies" gorm:"type:jsonb;not null;default:'[]'"`
	Assignee       *string                     `json:"assignee,omitempty" gorm:"type:text"`
	Progress       float64                     `json:"progress" gorm:"not null;default:0"`
	CustomFields   datatypes.JSONMap           `json:"custom_fields,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
	WorkItemLink   *string                     `json:"work_item_link,omitempty" gorm:"type:text"`
	DocsProgress   *DocsProgressStatus         `json:"docs_progress,omitempty" gorm:"type:text"`
}

func (Task) TableName() string {
	return "tasks"
}
