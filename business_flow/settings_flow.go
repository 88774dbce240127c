package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/config"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const settingsCacheKey = "settings:current"

// SettingsFlow serves and updates the system settings and setup lookups
type SettingsFlow interface {
	GetSettings(ctx context.Context) (*dto.GetSettingsResponse, error)
	UpdateSettings(ctx context.Context, request *dto.UpdateSettingsRequest, metadata *ClientMetadata) (*dto.UpdateSettingsResponse, error)
}

// SettingsFlowImpl implements the settings business flow
type SettingsFlowImpl struct {
	settingsRepo repository.SystemSettingsRepository
	auditRepo    repository.AuditLogRepository
	rc           *redis.Client
	cacheConfig  *config.CacheConfig
	db           *gorm.DB
}

// NewSettingsFlow creates a new settings flow instance
func NewSettingsFlow(
	settingsRepo repository.SystemSettingsRepository,
	auditRepo repository.AuditLogRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	db *gorm.DB,
) SettingsFlow {
	return &SettingsFlowImpl{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		rc:           rc,
		cacheConfig:  cacheConfig,
		db:           db,
	}
}

// GetSettings returns the effective settings, from cache when possible.
// With no settings row yet, the compiled-in defaults apply.
func (f *SettingsFlowImpl) GetSettings(ctx context.Context) (*dto.GetSettingsResponse, error) {
	if cached := f.fromCache(ctx); cached != nil {
		return &dto.GetSettingsResponse{
			Message:  "Settings retrieved successfully",
			Settings: *cached,
		}, nil
	}

	settings, err := f.settingsRepo.Latest(ctx)
	if err != nil {
		return nil, NewBusinessError("GET_SETTINGS_FAILED", "Failed to retrieve settings", err)
	}

	item := defaultSettingsDTO()
	if settings != nil {
		item = toSettingsDTO(settings)
	}
	f.toCache(ctx, item)

	return &dto.GetSettingsResponse{
		Message:  "Settings retrieved successfully",
		Settings: item,
	}, nil
}

// UpdateSettings appends a new settings row; the latest row wins so history
// stays queryable. The cache entry is dropped after commit.
func (f *SettingsFlowImpl) UpdateSettings(ctx context.Context, request *dto.UpdateSettingsRequest, metadata *ClientMetadata) (*dto.UpdateSettingsResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.UpdateSettingsResponse, error) {
		current, err := f.settingsRepo.Latest(ctx)
		if err != nil {
			return nil, err
		}

		next := &models.SystemSettings{
			VATRate:           pricing.DefaultVATRate,
			Currency:          utils.DefaultCurrency,
			QuoteValidityDays: utils.DefaultQuoteValidityDays,
		}
		if current != nil {
			next.VATRate = current.VATRate
			next.Currency = current.Currency
			next.QuoteValidityDays = current.QuoteValidityDays
		}

		if request.VATRate != nil {
			rate, err := decimal.NewFromString(*request.VATRate)
			if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
				return nil, ErrInvalidVATRate
			}
			next.VATRate = rate
		}
		if request.Currency != nil {
			currency := strings.ToUpper(strings.TrimSpace(*request.Currency))
			if len(currency) != 3 {
				return nil, ErrInvalidCurrency
			}
			next.Currency = currency
		}
		if request.QuoteValidityDays != nil {
			if *request.QuoteValidityDays < 1 {
				return nil, NewBusinessError("INVALID_QUOTE_VALIDITY", "Quote validity must be at least one day", nil)
			}
			next.QuoteValidityDays = *request.QuoteValidityDays
		}

		if err := f.settingsRepo.Save(ctx, next); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "system_settings", next.ID,
			fmt.Sprintf("Settings updated: VAT %s%%, currency %s, validity %d days", next.VATRate, next.Currency, next.QuoteValidityDays), metadata)

		return &dto.UpdateSettingsResponse{
			Message:  "Settings updated successfully",
			Settings: toSettingsDTO(next),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_SETTINGS_FAILED", "Failed to update settings", err)
	}

	f.dropCache(ctx)
	return resp, nil
}

func (f *SettingsFlowImpl) cacheEnabled() bool {
	return f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled
}

func (f *SettingsFlowImpl) cacheKey() string {
	prefix := ""
	if f.cacheConfig != nil {
		prefix = f.cacheConfig.RedisPrefix
	}
	return prefix + settingsCacheKey
}

func (f *SettingsFlowImpl) fromCache(ctx context.Context) *dto.SystemSettingsDTO {
	if !f.cacheEnabled() {
		return nil
	}
	raw, err := f.rc.Get(ctx, f.cacheKey()).Bytes()
	if err != nil {
		return nil
	}
	var item dto.SystemSettingsDTO
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil
	}
	return &item
}

func (f *SettingsFlowImpl) toCache(ctx context.Context, item dto.SystemSettingsDTO) {
	if !f.cacheEnabled() {
		return
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return
	}
	_ = f.rc.Set(ctx, f.cacheKey(), raw, f.cacheConfig.DefaultTTL).Err()
}

func (f *SettingsFlowImpl) dropCache(ctx context.Context) {
	if !f.cacheEnabled() {
		return
	}
	_ = f.rc.Del(ctx, f.cacheKey()).Err()
}

func defaultSettingsDTO() dto.SystemSettingsDTO {
	return dto.SystemSettingsDTO{
		VATRate:           pricing.DefaultVATRate.StringFixed(2),
		Currency:          utils.DefaultCurrency,
		QuoteValidityDays: utils.DefaultQuoteValidityDays,
	}
}

func toSettingsDTO(settings *models.SystemSettings) dto.SystemSettingsDTO {
	return dto.SystemSettingsDTO{
		VATRate:           settings.VATRate.StringFixed(2),
		Currency:          settings.Currency,
		QuoteValidityDays: settings.QuoteValidityDays,
	}
}
