package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FieldType string

const (
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldSelect  FieldType = "select"
	FieldBoolean FieldType = "boolean"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldSelect, FieldBoolean:
		return true
	}
	return false
}

// CustomField declares one key of Task.CustomFields for a project.
type CustomField struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID    uuid.UUID      `json:"project_id" gorm:"type:uuid;not null;index:idx_custom_fields_project_id"`
	Name         string         `json:"name" gorm:"type:text;not null"`
	FieldType    FieldType      `json:"field_type" gorm:"type:text;not null"`
	Required     bool           `json:"required" gorm:"not null;default:false"`
	Options      datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`
	DefaultValue datatypes.JSON `json:"default_value,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (CustomField) TableName() string {
	return "custom_fields"
}
