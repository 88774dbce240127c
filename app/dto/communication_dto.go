package dto

// LogCommunicationRequest represents the request to record a client touchpoint
type LogCommunicationRequest struct {
	Type       string  `json:"type" validate:"required,oneof=call email meeting note" example:"call"`
	AccountID  *uint   `json:"account_id,omitempty" example:"42"`
	ContactID  *uint   `json:"contact_id,omitempty" example:"7"`
	LeadID     *uint   `json:"lead_id,omitempty" example:"19"`
	Subject    string  `json:"subject" validate:"required,min=2,max=255" example:"Quote follow-up call"`
	Body       *string `json:"body,omitempty" validate:"omitempty,max=5000"`
	OccurredAt *string `json:"occurred_at,omitempty" example:"2026-03-01T14:00:00Z"`
	SendEmail  bool    `json:"send_email" example:"false"`
}

// CommunicationItem represents a recorded touchpoint
type CommunicationItem struct {
	ID         uint    `json:"id" example:"88"`
	UUID       string  `json:"uuid"`
	Type       string  `json:"type" example:"call"`
	AccountID  *uint   `json:"account_id,omitempty"`
	ContactID  *uint   `json:"contact_id,omitempty"`
	LeadID     *uint   `json:"lead_id,omitempty"`
	UserID     uint    `json:"user_id" example:"5"`
	Subject    string  `json:"subject" example:"Quote follow-up call"`
	Body       *string `json:"body,omitempty"`
	OccurredAt string  `json:"occurred_at" example:"2026-03-01T14:00:00Z"`
	EmailSent  *bool   `json:"email_sent,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// CommunicationResponse wraps a single communication entry
type CommunicationResponse struct {
	Message       string            `json:"message" example:"Communication logged successfully"`
	Communication CommunicationItem `json:"communication"`
}

// ListCommunicationsResponse represents a communication timeline
type ListCommunicationsResponse struct {
	Message string              `json:"message" example:"Communications retrieved successfully"`
	Items   []CommunicationItem `json:"items"`
}
