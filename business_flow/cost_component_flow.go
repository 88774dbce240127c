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

// CostComponentFlow handles the cost component catalog
type CostComponentFlow interface {
	CreateComponent(ctx context.Context, request *dto.CreateCostComponentRequest, metadata *ClientMetadata) (*dto.CostComponentResponse, error)
	UpdateComponent(ctx context.Context, componentID uint, request *dto.UpdateCostComponentRequest, metadata *ClientMetadata) (*dto.CostComponentResponse, error)
	ListComponents(ctx context.Context, activeOnly bool) (*dto.ListCostComponentsResponse, error)
	DeactivateComponent(ctx context.Context, componentID uint, metadata *ClientMetadata) (*dto.CostComponentResponse, error)
}

// CostComponentFlowImpl implements the cost component business flow
type CostComponentFlowImpl struct {
	componentRepo repository.CostComponentRepository
	auditRepo     repository.AuditLogRepository
	db            *gorm.DB
}

// NewCostComponentFlow creates a new cost component flow instance
func NewCostComponentFlow(
	componentRepo repository.CostComponentRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) CostComponentFlow {
	return &CostComponentFlowImpl{
		componentRepo: componentRepo,
		auditRepo:     auditRepo,
		db:            db,
	}
}

// CreateComponent defines a reusable cost component with a unique code
func (f *CostComponentFlowImpl) CreateComponent(ctx context.Context, request *dto.CreateCostComponentRequest, metadata *ClientMetadata) (*dto.CostComponentResponse, error) {
	userID, _ := UserIDFromContext(ctx)
	code := strings.ToLower(strings.TrimSpace(request.Code))

	method := models.CostComponentMethod(request.CalculationMethod)
	if !method.Valid() {
		return nil, NewBusinessError("INVALID_CALCULATION_METHOD", "Invalid calculation method", ErrInvalidCalculationMethod)
	}

	value, err := decimal.NewFromString(request.Value)
	if err != nil || value.IsNegative() {
		return nil, NewBusinessError("INVALID_COMPONENT_VALUE", "Component value must be a non-negative decimal", err)
	}

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.CostComponentResponse, error) {
		existing, err := f.componentRepo.ByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrComponentCodeTaken
		}

		component := &models.CostComponent{
			Name:              strings.TrimSpace(request.Name),
			Code:              code,
			Type:              strings.TrimSpace(request.Type),
			CalculationMethod: method,
			ComponentValue:    value,
			VATApplicable:     request.VATApplicable,
			Scope:             request.Scope,
			ApplicableFor:     request.ApplicableFor,
			IsActive:          utils.ToPtr(true),
		}
		if component.ApplicableFor == nil {
			component.ApplicableFor = []string{}
		}
		if component.Scope == "" {
			component.Scope = string(pricing.ScopeLineItem)
		}

		if err := f.componentRepo.Save(ctx, component); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "cost_component", component.ID,
			fmt.Sprintf("Cost component created: %s", component.Code), metadata)

		return &dto.CostComponentResponse{
			Message:   "Cost component created successfully",
			Component: toCostComponentItem(component),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_COST_COMPONENT_FAILED", "Failed to create cost component", err)
	}
	return resp, nil
}

// UpdateComponent applies partial updates to a cost component. The code is
// immutable because pricing rules and catalogs reference components by code.
func (f *CostComponentFlowImpl) UpdateComponent(ctx context.Context, componentID uint, request *dto.UpdateCostComponentRequest, metadata *ClientMetadata) (*dto.CostComponentResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.CostComponentResponse, error) {
		component, err := f.componentRepo.ByID(ctx, componentID)
		if err != nil {
			return nil, err
		}
		if component == nil {
			return nil, ErrCostComponentNotFound
		}

		if request.Name != nil {
			component.Name = strings.TrimSpace(*request.Name)
		}
		if request.Type != nil {
			component.Type = strings.TrimSpace(*request.Type)
		}
		if request.CalculationMethod != nil {
			method := models.CostComponentMethod(*request.CalculationMethod)
			if !method.Valid() {
				return nil, ErrInvalidCalculationMethod
			}
			component.CalculationMethod = method
		}
		if request.Value != nil {
			value, err := decimal.NewFromString(*request.Value)
			if err != nil || value.IsNegative() {
				return nil, NewBusinessError("INVALID_COMPONENT_VALUE", "Component value must be a non-negative decimal", err)
			}
			component.ComponentValue = value
		}
		if request.VATApplicable != nil {
			component.VATApplicable = request.VATApplicable
		}
		if request.Scope != nil {
			component.Scope = *request.Scope
		}
		if request.ApplicableFor != nil {
			component.ApplicableFor = request.ApplicableFor
		}
		if request.IsActive != nil {
			component.IsActive = request.IsActive
		}
		component.UpdatedAt = utils.UTCNow()

		if err := f.componentRepo.Update(ctx, component); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "cost_component", component.ID,
			fmt.Sprintf("Cost component updated: %s", component.Code), metadata)

		return &dto.CostComponentResponse{
			Message:   "Cost component updated successfully",
			Component: toCostComponentItem(component),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_COST_COMPONENT_FAILED", "Failed to update cost component", err)
	}
	return resp, nil
}

// ListComponents returns cost components, optionally active ones only
func (f *CostComponentFlowImpl) ListComponents(ctx context.Context, activeOnly bool) (*dto.ListCostComponentsResponse, error) {
	var components []*models.CostComponent
	var err error
	if activeOnly {
		components, err = f.componentRepo.ListActive(ctx)
	} else {
		components, err = f.componentRepo.ByFilter(ctx, models.CostComponentFilter{}, "code ASC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("LIST_COST_COMPONENTS_FAILED", "Failed to list cost components", err)
	}

	items := make([]dto.CostComponentItem, 0, len(components))
	for i := range components {
		items = append(items, toCostComponentItem(components[i]))
	}

	return &dto.ListCostComponentsResponse{
		Message: "Cost components retrieved successfully",
		Items:   items,
	}, nil
}

// DeactivateComponent disables a component without removing it. Rules that
// still reference its code surface diagnostics at pricing time.
func (f *CostComponentFlowImpl) DeactivateComponent(ctx context.Context, componentID uint, metadata *ClientMetadata) (*dto.CostComponentResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.CostComponentResponse, error) {
		component, err := f.componentRepo.ByID(ctx, componentID)
		if err != nil {
			return nil, err
		}
		if component == nil {
			return nil, ErrCostComponentNotFound
		}

		component.IsActive = utils.ToPtr(false)
		component.UpdatedAt = utils.UTCNow()
		if err := f.componentRepo.Update(ctx, component); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityDeactivated, "cost_component", component.ID,
			fmt.Sprintf("Cost component deactivated: %s", component.Code), metadata)

		return &dto.CostComponentResponse{
			Message:   "Cost component deactivated successfully",
			Component: toCostComponentItem(component),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("DEACTIVATE_COST_COMPONENT_FAILED", "Failed to deactivate cost component", err)
	}
	return resp, nil
}

func toCostComponentItem(component *models.CostComponent) dto.CostComponentItem {
	return dto.CostComponentItem{
		ID:                component.ID,
		UUID:              component.UUID.String(),
		Name:              component.Name,
		Code:              component.Code,
		Type:              component.Type,
		CalculationMethod: string(component.CalculationMethod),
		Value:             component.ComponentValue.StringFixed(2),
		VATApplicable:     component.VATApplicable,
		Scope:             component.Scope,
		ApplicableFor:     component.ApplicableFor,
		IsActive:          component.IsActive,
	}
}
