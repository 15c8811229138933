package db

import (
	"context"
	"fmt"

	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

// AutoMigrate creates or updates the schema for every canonical
// collection. Alerts are derived at runtime and have no table.
func AutoMigrate(ctx context.Context, client *Client, logg *logger.Logger) error {
	if client == nil {
		return fmt.Errorf("db client required")
	}

	err := client.DB().WithContext(ctx).AutoMigrate(
		&models.Asset{},
		&models.Transaction{},
		&models.User{},
		&models.Reservation{},
	)
	if err != nil {
		return fmt.Errorf("auto migrating schema: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "schema migration complete")
	}
	return nil
}
