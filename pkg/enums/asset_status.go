package enums

import "fmt"

// AssetStatus is the lifecycle state of a tracked asset.
type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "available"
	AssetStatusBorrowed    AssetStatus = "borrowed"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusLost        AssetStatus = "lost"
)

var validAssetStatuses = []AssetStatus{
	AssetStatusAvailable,
	AssetStatusBorrowed,
	AssetStatusMaintenance,
	AssetStatusLost,
}

// IsValid reports whether the value matches the canonical asset status enum.
func (s AssetStatus) IsValid() bool {
	for _, candidate := range validAssetStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAssetStatus converts raw input into AssetStatus.
func ParseAssetStatus(value string) (AssetStatus, error) {
	for _, candidate := range validAssetStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset status %q", value)
}
