package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityLog is an audit record written by the backend. It is never
// created or changed from here.
type ActivityLog struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID         `json:"project_id" gorm:"type:uuid;not null"`
	TaskID    *uuid.UUID        `json:"task_id,omitempty" gorm:"type:uuid"`
	UserID    uuid.UUID         `json:"user_id" gorm:"type:uuid;not null"`
	Action    string            `json:"action" gorm:"type:text;not null"`
	Changes   datatypes.JSONMap `json:"changes,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at"`

	Profile *UserProfile `json:"profiles,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
