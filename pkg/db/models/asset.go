package models

import (
	"sort"
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/enums"
)

// Asset is a trackable physical item. Assets are never deleted; their
// lifecycle state moves through enums.AssetStatus instead.
type Asset struct {
	ID             string            `gorm:"column:id;primaryKey" json:"id"`
	Name           string            `gorm:"column:name;not null" json:"name"`
	Category       string            `gorm:"column:category;not null" json:"category"`
	Model          string            `gorm:"column:model" json:"model"`
	SerialNumber   string            `gorm:"column:serial_number" json:"serialNumber"`
	PurchaseDate   time.Time         `gorm:"column:purchase_date" json:"purchaseDate"`
	Status         enums.AssetStatus `gorm:"column:status;not null" json:"status"`
	CurrentHolder  *string           `gorm:"column:current_holder" json:"currentHolder,omitempty"`
	ImageRef       string            `gorm:"column:image_ref" json:"imageRef"`
	QRPayload      string            `gorm:"column:qr_payload" json:"qrPayload"`
	Description    *string           `gorm:"column:description" json:"description,omitempty"`
	CustomFeatures map[string]string `gorm:"column:custom_features;serializer:json" json:"customFeatures,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// FeatureKeys returns the custom feature names sorted lexicographically,
// the canonical order for display and export.
func (a Asset) FeatureKeys() []string {
	keys := make([]string, 0, len(a.CustomFeatures))
	for key := range a.CustomFeatures {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HolderName returns the current holder or an empty string.
func (a Asset) HolderName() string {
	if a.CurrentHolder == nil {
		return ""
	}
	return *a.CurrentHolder
}
