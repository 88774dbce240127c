package dto

// CreateLeadRequest represents the request to open a lead
type CreateLeadRequest struct {
	AccountID *uint   `json:"account_id,omitempty" example:"42"`
	ContactID *uint   `json:"contact_id,omitempty" example:"7"`
	Title     string  `json:"title" validate:"required,min=2,max=255" example:"Site security staffing, Riyadh metro"`
	Industry  string  `json:"industry" validate:"omitempty,max=100" example:"Construction"`
	Source    string  `json:"source" validate:"omitempty,max=100" example:"referral"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateLeadRequest represents the request to update a lead
type UpdateLeadRequest struct {
	AccountID *uint   `json:"account_id,omitempty"`
	ContactID *uint   `json:"contact_id,omitempty"`
	Title     *string `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	Industry  *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Source    *string `json:"source,omitempty" validate:"omitempty,max=100"`
	OwnerID   *uint   `json:"owner_id,omitempty"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ChangeLeadStatusRequest represents a pipeline transition
type ChangeLeadStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=new contacted qualified converted lost" example:"qualified"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500" example:"Budget confirmed by client"`
}

// LeadItem represents a lead in list and detail responses
type LeadItem struct {
	ID        uint    `json:"id" example:"19"`
	UUID      string  `json:"uuid"`
	AccountID *uint   `json:"account_id,omitempty" example:"42"`
	ContactID *uint   `json:"contact_id,omitempty" example:"7"`
	Title     string  `json:"title" example:"Site security staffing, Riyadh metro"`
	Industry  string  `json:"industry" example:"Construction"`
	Source    string  `json:"source" example:"referral"`
	Status    string  `json:"status" example:"qualified"`
	OwnerID   *uint   `json:"owner_id,omitempty" example:"5"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// LeadResponse wraps a single lead
type LeadResponse struct {
	Message string   `json:"message" example:"Lead retrieved successfully"`
	Lead    LeadItem `json:"lead"`
}

// ListLeadsRequest represents query filters for listing leads
type ListLeadsRequest struct {
	PaginationRequest
	AccountID *uint   `json:"account_id,omitempty" query:"account_id"`
	Status    *string `json:"status,omitempty" query:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	OwnerID   *uint   `json:"owner_id,omitempty" query:"owner_id"`
	Industry  *string `json:"industry,omitempty" query:"industry"`
	Source    *string `json:"source,omitempty" query:"source"`
}

// ListLeadsResponse represents the lead list response
type ListLeadsResponse struct {
	Message    string         `json:"message" example:"Leads retrieved successfully"`
	Items      []LeadItem     `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// LeadPipelineResponse represents lead counts per pipeline status
type LeadPipelineResponse struct {
	Message string           `json:"message" example:"Pipeline summary retrieved successfully"`
	Counts  map[string]int64 `json:"counts"`
}
