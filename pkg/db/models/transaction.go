package models

import (
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/enums"
)

// Transaction is one immutable ledger entry. Asset and user names are
// denormalized at creation time and never re-synced: ledger entries are
// historical facts. Seq breaks timestamp ties by insertion order.
type Transaction struct {
	ID        string                `gorm:"column:id;primaryKey" json:"id"`
	Seq       int64                 `gorm:"column:seq;uniqueIndex" json:"-"`
	AssetID   string                `gorm:"column:asset_id;not null;index" json:"assetId"`
	AssetName string                `gorm:"column:asset_name;not null" json:"assetName"`
	UserID    string                `gorm:"column:user_id" json:"userId"`
	UserName  string                `gorm:"column:user_name;not null" json:"userName"`
	Type      enums.TransactionType `gorm:"column:type;not null" json:"type"`
	Timestamp time.Time             `gorm:"column:timestamp;not null;index" json:"timestamp"`
	Signature string                `gorm:"column:signature" json:"signature,omitempty"`
	Notes     *string               `gorm:"column:notes" json:"notes,omitempty"`
}
