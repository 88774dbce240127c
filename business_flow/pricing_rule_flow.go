package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// PricingRuleFlow handles authoring and management of pricing rules
type PricingRuleFlow interface {
	CreateRule(ctx context.Context, request *dto.CreatePricingRuleRequest, metadata *ClientMetadata) (*dto.PricingRuleResponse, error)
	UpdateRule(ctx context.Context, ruleUUID string, request *dto.UpdatePricingRuleRequest, metadata *ClientMetadata) (*dto.PricingRuleResponse, error)
	GetRule(ctx context.Context, ruleUUID string) (*dto.PricingRuleResponse, error)
	ListRules(ctx context.Context, activeOnly bool) (*dto.ListPricingRulesResponse, error)
	DeactivateRule(ctx context.Context, ruleUUID string, metadata *ClientMetadata) (*dto.PricingRuleResponse, error)
}

// PricingRuleFlowImpl implements the pricing rule business flow
type PricingRuleFlowImpl struct {
	ruleRepo      repository.PricingRuleRepository
	componentRepo repository.CostComponentRepository
	auditRepo     repository.AuditLogRepository
	db            *gorm.DB
}

// NewPricingRuleFlow creates a new pricing rule flow instance
func NewPricingRuleFlow(
	ruleRepo repository.PricingRuleRepository,
	componentRepo repository.CostComponentRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) PricingRuleFlow {
	return &PricingRuleFlowImpl{
		ruleRepo:      ruleRepo,
		componentRepo: componentRepo,
		auditRepo:     auditRepo,
		db:            db,
	}
}

// CreateRule authors a pricing rule. Conditions and actions are validated
// structurally so the engine never sees a malformed rule from this path;
// add_cost_component actions must reference an existing component code.
func (f *PricingRuleFlowImpl) CreateRule(ctx context.Context, request *dto.CreatePricingRuleRequest, metadata *ClientMetadata) (*dto.PricingRuleResponse, error) {
	userID, _ := UserIDFromContext(ctx)
	code := strings.ToLower(strings.TrimSpace(request.Code))

	fromDate, toDate, err := parseRuleWindow(request.FromDate, request.ToDate)
	if err != nil {
		return nil, NewBusinessError("INVALID_RULE_WINDOW", "Invalid rule validity window", err)
	}

	draft := pricing.Rule{
		Conditions: request.Conditions,
		Actions:    request.Actions,
	}
	if err := draft.Validate(); err != nil {
		return nil, NewBusinessError("INVALID_RULE_DEFINITION", "Invalid rule definition", err)
	}

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.PricingRuleResponse, error) {
		existing, err := f.ruleRepo.ByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrRuleCodeTaken
		}

		if err := f.checkComponentReferences(ctx, request.Actions); err != nil {
			return nil, err
		}

		rule := &models.PricingRule{
			Name:          strings.TrimSpace(request.Name),
			Code:          code,
			Priority:      request.Priority,
			IsActive:      utils.ToPtr(true),
			StopIfMatched: request.StopIfMatched,
			Conditions:    request.Conditions,
			Actions:       request.Actions,
			FromDate:      fromDate,
			ToDate:        toDate,
			Description:   request.Description,
		}

		if err := f.ruleRepo.Save(ctx, rule); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "pricing_rule", rule.ID,
			fmt.Sprintf("Pricing rule created: %s (priority %d)", rule.Code, rule.Priority), metadata)

		return &dto.PricingRuleResponse{
			Message: "Pricing rule created successfully",
			Rule:    toPricingRuleItem(rule),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_PRICING_RULE_FAILED", "Failed to create pricing rule", err)
	}
	return resp, nil
}

// UpdateRule applies partial updates to a pricing rule
func (f *PricingRuleFlowImpl) UpdateRule(ctx context.Context, ruleUUID string, request *dto.UpdatePricingRuleRequest, metadata *ClientMetadata) (*dto.PricingRuleResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.PricingRuleResponse, error) {
		rule, err := f.ruleRepo.ByUUID(ctx, ruleUUID)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			return nil, ErrPricingRuleNotFound
		}

		if request.Name != nil {
			rule.Name = strings.TrimSpace(*request.Name)
		}
		if request.Priority != nil {
			rule.Priority = *request.Priority
		}
		if request.StopIfMatched != nil {
			rule.StopIfMatched = *request.StopIfMatched
		}
		if request.Conditions != nil {
			rule.Conditions = *request.Conditions
		}
		if request.Actions != nil {
			if err := f.checkComponentReferences(ctx, request.Actions); err != nil {
				return nil, err
			}
			rule.Actions = request.Actions
		}
		if request.FromDate != nil || request.ToDate != nil {
			fromDate, toDate, err := parseRuleWindow(request.FromDate, request.ToDate)
			if err != nil {
				return nil, err
			}
			if request.FromDate != nil {
				rule.FromDate = fromDate
			}
			if request.ToDate != nil {
				rule.ToDate = toDate
			}
		}
		if request.Description != nil {
			rule.Description = request.Description
		}
		if request.IsActive != nil {
			rule.IsActive = request.IsActive
		}

		if rule.FromDate != nil && rule.ToDate != nil && rule.FromDate.After(*rule.ToDate) {
			return nil, ErrStartDateAfterEndDate
		}

		draft := rule.ToEngineRule()
		if err := draft.Validate(); err != nil {
			return nil, NewBusinessError("INVALID_RULE_DEFINITION", "Invalid rule definition", err)
		}

		rule.UpdatedAt = utils.UTCNow()
		if err := f.ruleRepo.Update(ctx, rule); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "pricing_rule", rule.ID,
			fmt.Sprintf("Pricing rule updated: %s", rule.Code), metadata)

		return &dto.PricingRuleResponse{
			Message: "Pricing rule updated successfully",
			Rule:    toPricingRuleItem(rule),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_PRICING_RULE_FAILED", "Failed to update pricing rule", err)
	}
	return resp, nil
}

// GetRule returns a single pricing rule by its UUID
func (f *PricingRuleFlowImpl) GetRule(ctx context.Context, ruleUUID string) (*dto.PricingRuleResponse, error) {
	rule, err := f.ruleRepo.ByUUID(ctx, ruleUUID)
	if err != nil {
		return nil, NewBusinessError("GET_PRICING_RULE_FAILED", "Failed to retrieve pricing rule", err)
	}
	if rule == nil {
		return nil, NewBusinessError("PRICING_RULE_NOT_FOUND", "Pricing rule not found", ErrPricingRuleNotFound)
	}

	return &dto.PricingRuleResponse{
		Message: "Pricing rule retrieved successfully",
		Rule:    toPricingRuleItem(rule),
	}, nil
}

// ListRules returns pricing rules in evaluation order
func (f *PricingRuleFlowImpl) ListRules(ctx context.Context, activeOnly bool) (*dto.ListPricingRulesResponse, error) {
	var rules []*models.PricingRule
	var err error
	if activeOnly {
		rules, err = f.ruleRepo.ListActiveByPriority(ctx)
	} else {
		rules, err = f.ruleRepo.ByFilter(ctx, models.PricingRuleFilter{}, "priority DESC, id ASC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("LIST_PRICING_RULES_FAILED", "Failed to list pricing rules", err)
	}

	items := make([]dto.PricingRuleItem, 0, len(rules))
	for i := range rules {
		items = append(items, toPricingRuleItem(rules[i]))
	}

	return &dto.ListPricingRulesResponse{
		Message: "Pricing rules retrieved successfully",
		Items:   items,
	}, nil
}

// DeactivateRule disables a rule without deleting it, preserving quote history
func (f *PricingRuleFlowImpl) DeactivateRule(ctx context.Context, ruleUUID string, metadata *ClientMetadata) (*dto.PricingRuleResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.PricingRuleResponse, error) {
		rule, err := f.ruleRepo.ByUUID(ctx, ruleUUID)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			return nil, ErrPricingRuleNotFound
		}

		rule.IsActive = utils.ToPtr(false)
		rule.UpdatedAt = utils.UTCNow()
		if err := f.ruleRepo.Update(ctx, rule); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityDeactivated, "pricing_rule", rule.ID,
			fmt.Sprintf("Pricing rule deactivated: %s", rule.Code), metadata)

		return &dto.PricingRuleResponse{
			Message: "Pricing rule deactivated successfully",
			Rule:    toPricingRuleItem(rule),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("DEACTIVATE_PRICING_RULE_FAILED", "Failed to deactivate pricing rule", err)
	}
	return resp, nil
}

// checkComponentReferences verifies every add_cost_component action points at
// a known component code.
func (f *PricingRuleFlowImpl) checkComponentReferences(ctx context.Context, actions []pricing.Action) error {
	for _, action := range actions {
		if action.Type != pricing.ActionAddCostComponent {
			continue
		}
		component, err := f.componentRepo.ByCode(ctx, action.ComponentID)
		if err != nil {
			return err
		}
		if component == nil {
			return NewBusinessErrorf("UNKNOWN_COST_COMPONENT", "action references unknown cost component %q", nil, action.ComponentID)
		}
	}
	return nil
}

func parseRuleWindow(fromStr, toStr *string) (*time.Time, *time.Time, error) {
	var fromDate, toDate *time.Time
	if fromStr != nil && *fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, *fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from_date: %w", err)
		}
		parsed = parsed.UTC()
		fromDate = &parsed
	}
	if toStr != nil && *toStr != "" {
		parsed, err := time.Parse(time.RFC3339, *toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to_date: %w", err)
		}
		parsed = parsed.UTC()
		toDate = &parsed
	}
	if fromDate != nil && toDate != nil && fromDate.After(*toDate) {
		return nil, nil, ErrStartDateAfterEndDate
	}
	return fromDate, toDate, nil
}

func toPricingRuleItem(rule *models.PricingRule) dto.PricingRuleItem {
	item := dto.PricingRuleItem{
		ID:            rule.ID,
		UUID:          rule.UUID.String(),
		Name:          rule.Name,
		Code:          rule.Code,
		Priority:      rule.Priority,
		StopIfMatched: rule.StopIfMatched,
		Conditions:    rule.Conditions,
		Actions:       rule.Actions,
		Description:   rule.Description,
		IsActive:      rule.IsActive,
		CreatedAt:     rule.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rule.FromDate != nil {
		item.FromDate = utils.ToPtr(rule.FromDate.UTC().Format(time.RFC3339))
	}
	if rule.ToDate != nil {
		item.ToDate = utils.ToPtr(rule.ToDate.UTC().Format(time.RFC3339))
	}
	return item
}
