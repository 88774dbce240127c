package repository

import (
	"context"
	"errors"

	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// PricingRuleRepositoryImpl implements the PricingRuleRepository interface
type PricingRuleRepositoryImpl struct {
	*BaseRepository[models.PricingRule, models.PricingRuleFilter]
}

// NewPricingRuleRepository creates a new pricing rule repository
func NewPricingRuleRepository(db *gorm.DB) PricingRuleRepository {
	return &PricingRuleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PricingRule, models.PricingRuleFilter](db),
	}
}

func (r *PricingRuleRepositoryImpl) ByFilter(ctx context.Context, filter models.PricingRuleFilter, orderBy string, limit, offset int) ([]*models.PricingRule, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *PricingRuleRepositoryImpl) Count(ctx context.Context, filter models.PricingRuleFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ByUUID retrieves a pricing rule by UUID
func (r *PricingRuleRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.PricingRule, error) {
	parsedUUID, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)
	var rule models.PricingRule
	if err := db.Where("uuid = ?", parsedUUID).Last(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// ByCode retrieves a pricing rule by its unique code
func (r *PricingRuleRepositoryImpl) ByCode(ctx context.Context, code string) (*models.PricingRule, error) {
	filter := models.PricingRuleFilter{Code: &code}
	rules, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, nil
	}
	return rules[0], nil
}

// ListActiveByPriority retrieves active rules ordered the way evaluation consumes them,
// highest priority first with insertion order breaking ties.
func (r *PricingRuleRepositoryImpl) ListActiveByPriority(ctx context.Context) ([]*models.PricingRule, error) {
	isActive := true
	filter := models.PricingRuleFilter{IsActive: &isActive}
	return r.ByFilter(ctx, filter, "priority DESC, id ASC", 0, 0)
}

func (r *PricingRuleRepositoryImpl) applyFilter(db *gorm.DB, filter models.PricingRuleFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
