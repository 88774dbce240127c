package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       *uint           `gorm:"index:idx_audit_user_id" json:"user_id,omitempty"`
	User         *User           `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Action       string          `gorm:"size:100;not null;index:idx_audit_action" json:"action"`
	EntityType   *string         `gorm:"size:50;index:idx_audit_entity_type" json:"entity_type,omitempty"`
	EntityID     *uint           `gorm:"index:idx_audit_entity_id" json:"entity_id,omitempty"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionLoginSuccess      = "login_success"
	AuditActionLoginFailed       = "login_failed"
	AuditActionLogout            = "logout"
	AuditActionPasswordChanged   = "password_changed"
	AuditActionSessionCreated    = "session_created"
	AuditActionSessionExpired    = "session_expired"
	AuditActionEntityCreated     = "entity_created"
	AuditActionEntityUpdated     = "entity_updated"
	AuditActionEntityDeleted     = "entity_deleted"
	AuditActionEntityActivated   = "entity_activated"
	AuditActionEntityDeactivated = "entity_deactivated"
	AuditActionQuotePriced       = "quote_priced"
	AuditActionQuoteExpired      = "quote_expired"
	AuditActionDiscountRequested = "discount_requested"
	AuditActionDiscountApproved  = "discount_approved"
	AuditActionDiscountRejected  = "discount_rejected"
	AuditActionSettingsUpdated   = "settings_updated"
	AuditActionEmailSent         = "email_sent"
	AuditActionReportExported    = "report_exported"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	UserID        *uint
	Action        *string
	EntityType    *string
	EntityID      *uint
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}

func (a *AuditLog) IsSecurityEvent() bool {
	securityActions := map[string]bool{
		AuditActionLoginSuccess:    true,
		AuditActionLoginFailed:     true,
		AuditActionPasswordChanged: true,
	}
	return securityActions[a.Action]
}
