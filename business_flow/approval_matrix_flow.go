package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApprovalMatrixFlow handles the discount approval matrix
type ApprovalMatrixFlow interface {
	CreateRule(ctx context.Context, request *dto.CreateApprovalRuleRequest, metadata *ClientMetadata) (*dto.ApprovalRuleResponse, error)
	UpdateRule(ctx context.Context, ruleID uint, request *dto.UpdateApprovalRuleRequest, metadata *ClientMetadata) (*dto.ApprovalRuleResponse, error)
	ListRules(ctx context.Context, discountType string) (*dto.ListApprovalRulesResponse, error)
	DeactivateRule(ctx context.Context, ruleID uint, metadata *ClientMetadata) (*dto.ApprovalRuleResponse, error)
}

// ApprovalMatrixFlowImpl implements the approval matrix business flow
type ApprovalMatrixFlowImpl struct {
	approvalRepo repository.DiscountApprovalRuleRepository
	roleRepo     repository.RoleRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewApprovalMatrixFlow creates a new approval matrix flow instance
func NewApprovalMatrixFlow(
	approvalRepo repository.DiscountApprovalRuleRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ApprovalMatrixFlow {
	return &ApprovalMatrixFlowImpl{
		approvalRepo: approvalRepo,
		roleRepo:     roleRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateRule adds one approval matrix row. The percentage range is half-open
// [min, max); min must be strictly below max and both inside [0, 100].
func (f *ApprovalMatrixFlowImpl) CreateRule(ctx context.Context, request *dto.CreateApprovalRuleRequest, metadata *ClientMetadata) (*dto.ApprovalRuleResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	discountType := pricing.DiscountType(request.DiscountType)
	if !discountType.Valid() {
		return nil, NewBusinessError("INVALID_DISCOUNT_TYPE", "Invalid discount type", ErrInvalidDiscountValue)
	}

	minPct, maxPct, err := parseApprovalRange(request.MinPercentage, request.MaxPercentage)
	if err != nil {
		return nil, NewBusinessError("INVALID_APPROVAL_RANGE", "Invalid approval percentage range", err)
	}

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.ApprovalRuleResponse, error) {
		role, err := f.roleRepo.ByID(ctx, request.ApproverRoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}

		if request.EscalationRoleID != nil {
			escalationRole, err := f.roleRepo.ByID(ctx, *request.EscalationRoleID)
			if err != nil {
				return nil, err
			}
			if escalationRole == nil {
				return nil, ErrRoleNotFound
			}
		}

		rule := &models.DiscountApprovalRule{
			Name:               strings.TrimSpace(request.Name),
			DiscountType:       string(discountType),
			MinPercentage:      minPct,
			MaxPercentage:      maxPct,
			ApproverRoleID:     request.ApproverRoleID,
			Priority:           request.Priority,
			IsActive:           utils.ToPtr(true),
			RequiresEscalation: request.RequiresEscalation,
			EscalationRoleID:   request.EscalationRoleID,
		}

		if err := f.approvalRepo.Save(ctx, rule); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "discount_approval_rule", rule.ID,
			fmt.Sprintf("Approval rule created: %s [%s, %s) for %s", rule.Name, minPct, maxPct, rule.DiscountType), metadata)

		return &dto.ApprovalRuleResponse{
			Message: "Approval rule created successfully",
			Rule:    toApprovalRuleItem(rule),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_APPROVAL_RULE_FAILED", "Failed to create approval rule", err)
	}
	return resp, nil
}

// UpdateRule applies partial updates to one approval matrix row
func (f *ApprovalMatrixFlowImpl) UpdateRule(ctx context.Context, ruleID uint, request *dto.UpdateApprovalRuleRequest, metadata *ClientMetadata) (*dto.ApprovalRuleResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.ApprovalRuleResponse, error) {
		rule, err := f.approvalRepo.ByID(ctx, ruleID)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			return nil, ErrApprovalRuleNotFound
		}

		if request.Name != nil {
			rule.Name = strings.TrimSpace(*request.Name)
		}
		if request.MinPercentage != nil {
			minPct, err := decimal.NewFromString(*request.MinPercentage)
			if err != nil {
				return nil, ErrInvalidApprovalRange
			}
			rule.MinPercentage = minPct
		}
		if request.MaxPercentage != nil {
			maxPct, err := decimal.NewFromString(*request.MaxPercentage)
			if err != nil {
				return nil, ErrInvalidApprovalRange
			}
			rule.MaxPercentage = maxPct
		}
		if err := validateApprovalRange(rule.MinPercentage, rule.MaxPercentage); err != nil {
			return nil, err
		}
		if request.ApproverRoleID != nil {
			role, err := f.roleRepo.ByID(ctx, *request.ApproverRoleID)
			if err != nil {
				return nil, err
			}
			if role == nil {
				return nil, ErrRoleNotFound
			}
			rule.ApproverRoleID = *request.ApproverRoleID
		}
		if request.Priority != nil {
			rule.Priority = *request.Priority
		}
		if request.RequiresEscalation != nil {
			rule.RequiresEscalation = *request.RequiresEscalation
		}
		if request.EscalationRoleID != nil {
			escalationRole, err := f.roleRepo.ByID(ctx, *request.EscalationRoleID)
			if err != nil {
				return nil, err
			}
			if escalationRole == nil {
				return nil, ErrRoleNotFound
			}
			rule.EscalationRoleID = request.EscalationRoleID
		}
		if request.IsActive != nil {
			rule.IsActive = request.IsActive
		}
		rule.UpdatedAt = utils.UTCNow()

		if err := f.approvalRepo.Update(ctx, rule); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "discount_approval_rule", rule.ID,
			fmt.Sprintf("Approval rule updated: %s", rule.Name), metadata)

		return &dto.ApprovalRuleResponse{
			Message: "Approval rule updated successfully",
			Rule:    toApprovalRuleItem(rule),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_APPROVAL_RULE_FAILED", "Failed to update approval rule", err)
	}
	return resp, nil
}

// ListRules returns the matrix rows, optionally for one discount type
func (f *ApprovalMatrixFlowImpl) ListRules(ctx context.Context, discountType string) (*dto.ListApprovalRulesResponse, error) {
	var rules []*models.DiscountApprovalRule
	var err error
	if discountType != "" {
		if !pricing.DiscountType(discountType).Valid() {
			return nil, NewBusinessError("INVALID_DISCOUNT_TYPE", "Invalid discount type", ErrInvalidDiscountValue)
		}
		rules, err = f.approvalRepo.ListActiveByType(ctx, discountType)
	} else {
		rules, err = f.approvalRepo.ByFilter(ctx, models.DiscountApprovalRuleFilter{}, "discount_type ASC, priority DESC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("LIST_APPROVAL_RULES_FAILED", "Failed to list approval rules", err)
	}

	items := make([]dto.ApprovalRuleItem, 0, len(rules))
	for i := range rules {
		items = append(items, toApprovalRuleItem(rules[i]))
	}

	return &dto.ListApprovalRulesResponse{
		Message: "Approval rules retrieved successfully",
		Items:   items,
	}, nil
}

// DeactivateRule disables one matrix row
func (f *ApprovalMatrixFlowImpl) DeactivateRule(ctx context.Context, ruleID uint, metadata *ClientMetadata) (*dto.ApprovalRuleResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.ApprovalRuleResponse, error) {
		rule, err := f.approvalRepo.ByID(ctx, ruleID)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			return nil, ErrApprovalRuleNotFound
		}

		rule.IsActive = utils.ToPtr(false)
		rule.UpdatedAt = utils.UTCNow()
		if err := f.approvalRepo.Update(ctx, rule); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityDeactivated, "discount_approval_rule", rule.ID,
			fmt.Sprintf("Approval rule deactivated: %s", rule.Name), metadata)

		return &dto.ApprovalRuleResponse{
			Message: "Approval rule deactivated successfully",
			Rule:    toApprovalRuleItem(rule),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("DEACTIVATE_APPROVAL_RULE_FAILED", "Failed to deactivate approval rule", err)
	}
	return resp, nil
}

func parseApprovalRange(minStr, maxStr string) (decimal.Decimal, decimal.Decimal, error) {
	minPct, err := decimal.NewFromString(minStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, ErrInvalidApprovalRange
	}
	maxPct, err := decimal.NewFromString(maxStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, ErrInvalidApprovalRange
	}
	if err := validateApprovalRange(minPct, maxPct); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return minPct, maxPct, nil
}

func validateApprovalRange(minPct, maxPct decimal.Decimal) error {
	hundred := decimal.NewFromInt(100)
	if minPct.IsNegative() || maxPct.GreaterThan(hundred) {
		return ErrInvalidApprovalRange
	}
	if !minPct.LessThan(maxPct) {
		return ErrInvalidApprovalRange
	}
	return nil
}

func toApprovalRuleItem(rule *models.DiscountApprovalRule) dto.ApprovalRuleItem {
	return dto.ApprovalRuleItem{
		ID:                 rule.ID,
		UUID:               rule.UUID.String(),
		Name:               rule.Name,
		DiscountType:       rule.DiscountType,
		MinPercentage:      rule.MinPercentage.StringFixed(2),
		MaxPercentage:      rule.MaxPercentage.StringFixed(2),
		ApproverRoleID:     rule.ApproverRoleID,
		Priority:           rule.Priority,
		RequiresEscalation: rule.RequiresEscalation,
		EscalationRoleID:   rule.EscalationRoleID,
		IsActive:           rule.IsActive,
	}
}
