package dto

// CreateQuoteRequest represents the request to draft a quote for a lead
type CreateQuoteRequest struct {
	LeadID    uint                   `json:"lead_id" validate:"required" example:"19"`
	LineItems []QuoteLineItemRequest `json:"line_items" validate:"required,min=1,dive"`
}

// QuoteLineItemRequest represents one staffing position on a quote
type QuoteLineItemRequest struct {
	NationalityID          *uint `json:"nationality_id,omitempty" example:"6"`
	JobID                  *uint `json:"job_id,omitempty" example:"4"`
	JobProfileID           *uint `json:"job_profile_id,omitempty" example:"11"`
	Quantity               int   `json:"quantity" validate:"required,min=1" example:"10"`
	ContractDurationMonths int   `json:"contract_duration_months" validate:"required,min=1" example:"24"`
	SkillLevelID           *uint `json:"skill_level_id,omitempty" example:"2"`
	CityID                 *uint `json:"city_id,omitempty" example:"3"`
}

// QuoteLineItemDTO represents a line item with its priced amounts
type QuoteLineItemDTO struct {
	ID                     uint   `json:"id" example:"31"`
	UUID                   string `json:"uuid"`
	NationalityID          *uint  `json:"nationality_id,omitempty"`
	JobID                  *uint  `json:"job_id,omitempty"`
	JobProfileID           *uint  `json:"job_profile_id,omitempty"`
	Quantity               int    `json:"quantity" example:"10"`
	ContractDurationMonths int    `json:"contract_duration_months" example:"24"`
	SkillLevelID           *uint  `json:"skill_level_id,omitempty"`
	CityID                 *uint  `json:"city_id,omitempty"`
	BaseMonthlyCost        string `json:"base_monthly_cost" example:"2400.00"`
	Subtotal               string `json:"subtotal" example:"2650.00"`
	VATAmount              string `json:"vat_amount" example:"397.50"`
	Total                  string `json:"total" example:"3047.50"`
}

// QuoteDTO represents a quote with its priced amounts
type QuoteDTO struct {
	ID             uint               `json:"id" example:"27"`
	UUID           string             `json:"uuid"`
	LeadID         uint               `json:"lead_id" example:"19"`
	Code           string             `json:"code" example:"QT-2026-000027"`
	Status         string             `json:"status" example:"priced"`
	Subtotal       string             `json:"subtotal" example:"26500.00"`
	VATAmount      string             `json:"vat_amount" example:"3975.00"`
	Total          string             `json:"total" example:"30475.00"`
	Currency       string             `json:"currency" example:"SAR"`
	AppliedRuleIDs []string           `json:"applied_rule_ids"`
	ValidUntil     *string            `json:"valid_until,omitempty"`
	OwnerID        *uint              `json:"owner_id,omitempty"`
	LineItems      []QuoteLineItemDTO `json:"line_items,omitempty"`
	CreatedAt      string             `json:"created_at"`
	UpdatedAt      string             `json:"updated_at"`
}

// QuoteResponse wraps a single quote
type QuoteResponse struct {
	Message string   `json:"message" example:"Quote retrieved successfully"`
	Quote   QuoteDTO `json:"quote"`
}

// ListQuotesRequest represents query filters for listing quotes
type ListQuotesRequest struct {
	PaginationRequest
	LeadID  *uint   `json:"lead_id,omitempty" query:"lead_id"`
	Status  *string `json:"status,omitempty" query:"status"`
	OwnerID *uint   `json:"owner_id,omitempty" query:"owner_id"`
}

// ListQuotesResponse represents the quote list response
type ListQuotesResponse struct {
	Message    string         `json:"message" example:"Quotes retrieved successfully"`
	Items      []QuoteDTO     `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// PricingDiagnosticDTO reports a rule or action the engine skipped
type PricingDiagnosticDTO struct {
	RuleID  string `json:"rule_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Message string `json:"message" example:"cost component comp-visa-ph not found"`
}

// PriceQuoteResponse represents the result of a pricing run
type PriceQuoteResponse struct {
	Message     string                 `json:"message" example:"Quote priced successfully"`
	Quote       QuoteDTO               `json:"quote"`
	Diagnostics []PricingDiagnosticDTO `json:"diagnostics,omitempty"`
}

// RequestDiscountRequest asks who must sign off on a discount
type RequestDiscountRequest struct {
	DiscountType string `json:"discount_type" validate:"required,oneof=line_item overall_quote" example:"overall_quote"`
	Percentage   string `json:"percentage" validate:"required" example:"12.50"`
}

// DiscountDecisionResponse represents the resolved approver for a discount
type DiscountDecisionResponse struct {
	Message            string  `json:"message" example:"Approval routed successfully"`
	SelfApproved       bool    `json:"self_approved" example:"false"`
	ApproverRoleID     *uint   `json:"approver_role_id,omitempty" example:"3"`
	ApproverRoleName   *string `json:"approver_role_name,omitempty" example:"sales_manager"`
	RequiresEscalation bool    `json:"requires_escalation" example:"false"`
	EscalationRoleID   *uint   `json:"escalation_role_id,omitempty"`
}

// ChangeQuoteStatusRequest represents a quote lifecycle transition
type ChangeQuoteStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=draft priced pending_approval approved rejected sent accepted expired" example:"sent"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}
