package models

import (
	"time"

	"github.com/google/uuid"
)

type ResourceType string

const (
	ResourceHuman     ResourceType = "human"
	ResourceEquipment ResourceType = "equipment"
	ResourceMaterial  ResourceType = "material"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceHuman, ResourceEquipment, ResourceMaterial:
		return true
	}
	return false
}

type Resource struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID    uuid.UUID    `json:"project_id" gorm:"type:uuid;not null;index:idx_resources_project_id"`
	Name         string       `json:"name" gorm:"type:text;not null"`
	Type         ResourceType `json:"type" gorm:"type:text;not null"`
	Availability float64      `json:"availability" gorm:"not null;default:100"` // percent
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Resource) TableName() string {
	return "resources"
}
