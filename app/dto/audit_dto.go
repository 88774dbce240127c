package dto

// AuditLogItem represents one audit trail entry
type AuditLogItem struct {
	ID           uint    `json:"id" example:"311"`
	UserID       *uint   `json:"user_id,omitempty" example:"5"`
	Action       string  `json:"action" example:"quote_priced"`
	EntityType   *string `json:"entity_type,omitempty" example:"quote"`
	EntityID     *uint   `json:"entity_id,omitempty" example:"88"`
	Description  *string `json:"description,omitempty"`
	IPAddress    *string `json:"ip_address,omitempty" example:"10.0.3.17"`
	RequestID    *string `json:"request_id,omitempty"`
	Success      bool    `json:"success" example:"true"`
	ErrorMessage *string `json:"error_message,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// ListAuditLogsRequest represents query filters for the audit trail
type ListAuditLogsRequest struct {
	PaginationRequest
	UserID        *uint   `json:"user_id,omitempty" query:"user_id"`
	Action        *string `json:"action,omitempty" query:"action"`
	EntityType    *string `json:"entity_type,omitempty" query:"entity_type"`
	EntityID      *uint   `json:"entity_id,omitempty" query:"entity_id"`
	Success       *bool   `json:"success,omitempty" query:"success"`
	CreatedAfter  *string `json:"created_after,omitempty" query:"created_after" example:"2026-08-01T00:00:00Z"`
	CreatedBefore *string `json:"created_before,omitempty" query:"created_before"`
}

// ListAuditLogsResponse represents the audit trail page
type ListAuditLogsResponse struct {
	Message    string         `json:"message" example:"Audit logs retrieved successfully"`
	Items      []AuditLogItem `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}
