package repository

import (
	"context"
	"errors"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// SystemSettingsRepositoryImpl implements the SystemSettingsRepository interface.
// Settings rows are append-only; the latest row wins.
type SystemSettingsRepositoryImpl struct {
	db *gorm.DB
}

// NewSystemSettingsRepository creates a new system settings repository
func NewSystemSettingsRepository(db *gorm.DB) SystemSettingsRepository {
	return &SystemSettingsRepositoryImpl{db: db}
}

func (r *SystemSettingsRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Latest returns the most recently written settings row, or nil when none exists
func (r *SystemSettingsRepositoryImpl) Latest(ctx context.Context) (*models.SystemSettings, error) {
	db := r.getDB(ctx)

	var settings models.SystemSettings
	err := db.Order("id DESC").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save appends a new settings row
func (r *SystemSettingsRepositoryImpl) Save(ctx context.Context, settings *models.SystemSettings) error {
	return r.getDB(ctx).Create(settings).Error
}
