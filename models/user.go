package models

import "github.com/google/uuid"

// UserProfile is the public profile row kept next to the auth user.
type UserProfile struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	DisplayName *string   `json:"display_name" gorm:"type:text"`
	Email       *string   `json:"email,omitempty" gorm:"type:text"`
}

func (UserProfile) TableName() string {
	return "profiles"
}

type UserRole struct {
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Role   string    `json:"role" gorm:"type:text;primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
