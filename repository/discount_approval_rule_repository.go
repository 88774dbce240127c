package repository

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// DiscountApprovalRuleRepositoryImpl implements the DiscountApprovalRuleRepository interface
type DiscountApprovalRuleRepositoryImpl struct {
	*BaseRepository[models.DiscountApprovalRule, models.DiscountApprovalRuleFilter]
}

// NewDiscountApprovalRuleRepository creates a new discount approval rule repository
func NewDiscountApprovalRuleRepository(db *gorm.DB) DiscountApprovalRuleRepository {
	return &DiscountApprovalRuleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DiscountApprovalRule, models.DiscountApprovalRuleFilter](db),
	}
}

func (r *DiscountApprovalRuleRepositoryImpl) ByFilter(ctx context.Context, filter models.DiscountApprovalRuleFilter, orderBy string, limit, offset int) ([]*models.DiscountApprovalRule, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *DiscountApprovalRuleRepositoryImpl) Count(ctx context.Context, filter models.DiscountApprovalRuleFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ListActiveByType retrieves active approval rules for a discount type, highest priority first
func (r *DiscountApprovalRuleRepositoryImpl) ListActiveByType(ctx context.Context, discountType string) ([]*models.DiscountApprovalRule, error) {
	isActive := true
	filter := models.DiscountApprovalRuleFilter{DiscountType: &discountType, IsActive: &isActive}
	return r.ByFilter(ctx, filter, "priority DESC, id ASC", 0, 0)
}

func (r *DiscountApprovalRuleRepositoryImpl) applyFilter(db *gorm.DB, filter models.DiscountApprovalRuleFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.DiscountType != nil {
		db = db.Where("discount_type = ?", *filter.DiscountType)
	}
	if filter.ApproverRoleID != nil {
		db = db.Where("approver_role_id = ?", *filter.ApproverRoleID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
