package models

import (
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/enums"
)

// Reservation is an advisory booking record. It carries no scheduling
// constraint: a confirmed reservation does not block lifecycle
// transitions on the same asset.
type Reservation struct {
	ID        string                  `gorm:"column:id;primaryKey" json:"id"`
	AssetID   string                  `gorm:"column:asset_id;not null;index" json:"assetId"`
	UserID    string                  `gorm:"column:user_id;not null" json:"userId"`
	StartDate time.Time               `gorm:"column:start_date;not null" json:"startDate"`
	EndDate   time.Time               `gorm:"column:end_date;not null" json:"endDate"`
	Status    enums.ReservationStatus `gorm:"column:status;not null" json:"status"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
