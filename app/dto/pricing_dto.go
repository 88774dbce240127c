package dto

import (
	"github.com/marafiq-hq/staffing-crm/pricing"
)

// CreateCostComponentRequest represents the request to define a cost component
type CreateCostComponentRequest struct {
	Name              string   `json:"name" validate:"required,min=2,max=255" example:"Worker Housing"`
	Code              string   `json:"code" validate:"required,min=2,max=50" example:"comp-housing"`
	Type              string   `json:"type" validate:"omitempty,max=50" example:"accommodation"`
	CalculationMethod string   `json:"calculation_method" validate:"required,oneof=fixed_amount percentage_of_base per_unit_quantity" example:"fixed_amount"`
	Value             string   `json:"value" validate:"required" example:"350.00"`
	VATApplicable     *bool    `json:"vat_applicable,omitempty" example:"true"`
	Scope             string   `json:"scope" validate:"required,oneof=line_item overall_quote" example:"line_item"`
	ApplicableFor     []string `json:"applicable_for,omitempty" example:"PH,IN"`
}

// UpdateCostComponentRequest represents the request to update a cost component
type UpdateCostComponentRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Type              *string  `json:"type,omitempty" validate:"omitempty,max=50"`
	CalculationMethod *string  `json:"calculation_method,omitempty" validate:"omitempty,oneof=fixed_amount percentage_of_base per_unit_quantity"`
	Value             *string  `json:"value,omitempty"`
	VATApplicable     *bool    `json:"vat_applicable,omitempty"`
	Scope             *string  `json:"scope,omitempty" validate:"omitempty,oneof=line_item overall_quote"`
	ApplicableFor     []string `json:"applicable_for,omitempty"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

// CostComponentItem represents a cost component in responses
type CostComponentItem struct {
	ID                uint     `json:"id" example:"9"`
	UUID              string   `json:"uuid"`
	Name              string   `json:"name" example:"Worker Housing"`
	Code              string   `json:"code" example:"comp-housing"`
	Type              string   `json:"type" example:"accommodation"`
	CalculationMethod string   `json:"calculation_method" example:"fixed_amount"`
	Value             string   `json:"value" example:"350.00"`
	VATApplicable     *bool    `json:"vat_applicable" example:"true"`
	Scope             string   `json:"scope" example:"line_item"`
	ApplicableFor     []string `json:"applicable_for"`
	IsActive          *bool    `json:"is_active" example:"true"`
}

// CostComponentResponse wraps a single cost component
type CostComponentResponse struct {
	Message   string            `json:"message" example:"Cost component saved successfully"`
	Component CostComponentItem `json:"component"`
}

// ListCostComponentsResponse represents the cost component list response
type ListCostComponentsResponse struct {
	Message string              `json:"message" example:"Cost components retrieved successfully"`
	Items   []CostComponentItem `json:"items"`
}

// CreatePricingRuleRequest represents the request to author a pricing rule.
// Conditions and actions use the engine's wire format directly.
type CreatePricingRuleRequest struct {
	Name          string               `json:"name" validate:"required,min=2,max=255" example:"PH driver surcharge"`
	Code          string               `json:"code" validate:"required,min=2,max=50" example:"rule-ph-driver"`
	Priority      int                  `json:"priority" example:"100"`
	StopIfMatched bool                 `json:"stop_if_matched" example:"false"`
	Conditions    pricing.ConditionSet `json:"conditions"`
	Actions       []pricing.Action     `json:"actions" validate:"required,min=1"`
	FromDate      *string              `json:"from_date,omitempty" example:"2026-01-01T00:00:00Z"`
	ToDate        *string              `json:"to_date,omitempty" example:"2026-12-31T23:59:59Z"`
	Description   *string              `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdatePricingRuleRequest represents the request to update a pricing rule
type UpdatePricingRuleRequest struct {
	Name          *string               `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Priority      *int                  `json:"priority,omitempty"`
	StopIfMatched *bool                 `json:"stop_if_matched,omitempty"`
	Conditions    *pricing.ConditionSet `json:"conditions,omitempty"`
	Actions       []pricing.Action      `json:"actions,omitempty"`
	FromDate      *string               `json:"from_date,omitempty"`
	ToDate        *string               `json:"to_date,omitempty"`
	Description   *string               `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsActive      *bool                 `json:"is_active,omitempty"`
}

// PricingRuleItem represents a pricing rule in responses
type PricingRuleItem struct {
	ID            uint                 `json:"id" example:"15"`
	UUID          string               `json:"uuid"`
	Name          string               `json:"name" example:"PH driver surcharge"`
	Code          string               `json:"code" example:"rule-ph-driver"`
	Priority      int                  `json:"priority" example:"100"`
	StopIfMatched bool                 `json:"stop_if_matched" example:"false"`
	Conditions    pricing.ConditionSet `json:"conditions"`
	Actions       []pricing.Action     `json:"actions"`
	FromDate      *string              `json:"from_date,omitempty"`
	ToDate        *string              `json:"to_date,omitempty"`
	Description   *string              `json:"description,omitempty"`
	IsActive      *bool                `json:"is_active" example:"true"`
	CreatedAt     string               `json:"created_at"`
}

// PricingRuleResponse wraps a single pricing rule
type PricingRuleResponse struct {
	Message string          `json:"message" example:"Pricing rule saved successfully"`
	Rule    PricingRuleItem `json:"rule"`
}

// ListPricingRulesResponse represents the pricing rule list response
type ListPricingRulesResponse struct {
	Message string            `json:"message" example:"Pricing rules retrieved successfully"`
	Items   []PricingRuleItem `json:"items"`
}

// CreateApprovalRuleRequest represents one approval matrix row.
// The range is half-open: MinPercentage is covered, MaxPercentage is not.
type CreateApprovalRuleRequest struct {
	Name               string  `json:"name" validate:"required,min=2,max=255" example:"Manager tier"`
	DiscountType       string  `json:"discount_type" validate:"required,oneof=line_item overall_quote" example:"overall_quote"`
	MinPercentage      string  `json:"min_percentage" validate:"required" example:"5.00"`
	MaxPercentage      string  `json:"max_percentage" validate:"required" example:"15.00"`
	ApproverRoleID     uint    `json:"approver_role_id" validate:"required" example:"3"`
	Priority           int     `json:"priority" example:"10"`
	RequiresEscalation bool    `json:"requires_escalation" example:"false"`
	EscalationRoleID   *uint   `json:"escalation_role_id,omitempty" example:"4"`
}

// UpdateApprovalRuleRequest represents an approval matrix row update
type UpdateApprovalRuleRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	MinPercentage      *string `json:"min_percentage,omitempty"`
	MaxPercentage      *string `json:"max_percentage,omitempty"`
	ApproverRoleID     *uint   `json:"approver_role_id,omitempty"`
	Priority           *int    `json:"priority,omitempty"`
	RequiresEscalation *bool   `json:"requires_escalation,omitempty"`
	EscalationRoleID   *uint   `json:"escalation_role_id,omitempty"`
	IsActive           *bool   `json:"is_active,omitempty"`
}

// ApprovalRuleItem represents an approval matrix row in responses
type ApprovalRuleItem struct {
	ID                 uint   `json:"id" example:"2"`
	UUID               string `json:"uuid"`
	Name               string `json:"name" example:"Manager tier"`
	DiscountType       string `json:"discount_type" example:"overall_quote"`
	MinPercentage      string `json:"min_percentage" example:"5.00"`
	MaxPercentage      string `json:"max_percentage" example:"15.00"`
	ApproverRoleID     uint   `json:"approver_role_id" example:"3"`
	Priority           int    `json:"priority" example:"10"`
	RequiresEscalation bool   `json:"requires_escalation" example:"false"`
	EscalationRoleID   *uint  `json:"escalation_role_id,omitempty"`
	IsActive           *bool  `json:"is_active" example:"true"`
}

// ApprovalRuleResponse wraps a single approval matrix row
type ApprovalRuleResponse struct {
	Message string           `json:"message" example:"Approval rule saved successfully"`
	Rule    ApprovalRuleItem `json:"rule"`
}

// ListApprovalRulesResponse represents the approval matrix for one discount type
type ListApprovalRulesResponse struct {
	Message string             `json:"message" example:"Approval rules retrieved successfully"`
	Items   []ApprovalRuleItem `json:"items"`
}
