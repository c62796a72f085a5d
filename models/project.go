package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Project is the root of every other entity. CreatedBy is written once, on
// insert; who may read or write a project is decided by the backend.
type Project struct {
	ID           uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name         string                      `json:"name" gorm:"type:text;not null"`
	Description  string                      `json:"description" gorm:"type:text;not null;default:''"`
	Status       ProjectStatus               `json:"status" gorm:"type:text;not null;default:active"`
	CreatedDate  time.Time                   `json:"created_date" gorm:"autoCreateTime"`
	LastModified time.Time                   `json:"last_modified" gorm:"autoUpdateTime"`
	CreatedBy    uuid.UUID                   `json:"created_by" gorm:"<-:create;type:uuid;not null"`
	TeamMembers  datatypes.JSONSlice[string] `json:"team_members" gorm:"type:jsonb;not null;default:'[]'"`

	// Attached on demand.
	Tasks        []Task        `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CustomFields []CustomField `json:"customFields,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Budgets      []Budget      `json:"budgets,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Expenses     []Expense     `json:"expenses,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Resources    []Resource    `json:"resources,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "projects"
}
