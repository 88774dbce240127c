package models

import (
	"time"

	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/shopspring/decimal"
)

// SystemSettings stores singleton pricing configuration. The latest row (by
// created_at) wins; updates insert a new row so history is preserved.
type SystemSettings struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// VATRate is a percentage, e.g. 15 for 15%.
	VATRate           decimal.Decimal `gorm:"type:numeric(5,2);not null;default:15" json:"vat_rate"`
	Currency          string          `gorm:"size:10;not null;default:'SAR'" json:"currency"`
	QuoteValidityDays int             `gorm:"not null;default:30" json:"quote_validity_days"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_system_settings_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}

// ToEngineSettings maps the persisted settings to the engine's snapshot.
func (s *SystemSettings) ToEngineSettings() pricing.Settings {
	return pricing.Settings{
		VATRate:  s.VATRate,
		Currency: s.Currency,
	}
}

// SystemSettingsFilter represents filter criteria for settings queries
type SystemSettingsFilter struct {
	ID *uint `json:"id,omitempty"`
}
