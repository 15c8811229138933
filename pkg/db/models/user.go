package models

import (
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/enums"
)

// User represents a person who can borrow assets. PasswordHash is only
// consulted by the low-security admin gate and is opaque everywhere else.
type User struct {
	ID           string         `gorm:"column:id;primaryKey" json:"id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Role         enums.UserRole `gorm:"column:role;not null" json:"role"`
	Email        string         `gorm:"column:email;not null" json:"email"`
	Department   *string        `gorm:"column:department" json:"department,omitempty"`
	PasswordHash *string        `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
