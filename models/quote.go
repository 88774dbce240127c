package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteStatus values follow the quote lifecycle.
const (
	QuoteStatusDraft           = "draft"
	QuoteStatusPriced          = "priced"
	QuoteStatusPendingApproval = "pending_approval"
	QuoteStatusApproved        = "approved"
	QuoteStatusRejected        = "rejected"
	QuoteStatusSent            = "sent"
	QuoteStatusAccepted        = "accepted"
	QuoteStatusExpired         = "expired"
)

// Quote represents a priced staffing proposal for a lead
type Quote struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	LeadID uint   `gorm:"not null;index" json:"lead_id"`
	Code   string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Status string `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`

	// Computed by the pricing engine; persisted for audit and dashboards.
	Subtotal       decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"subtotal"`
	VATAmount      decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"vat_amount"`
	Total          decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"total"`
	Currency       string          `gorm:"size:10;not null;default:'SAR'" json:"currency"`
	AppliedRuleIDs []string        `gorm:"type:jsonb;serializer:json" json:"applied_rule_ids"`

	ValidUntil *time.Time `json:"valid_until,omitempty"`
	OwnerID    *uint      `gorm:"index" json:"owner_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Lead      *Lead           `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:CASCADE" json:"lead,omitempty"`
	LineItems []QuoteLineItem `gorm:"foreignKey:QuoteID;references:ID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
}

// BeforeCreate ensures UUID is set
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.UUID == uuid.Nil {
		q.UUID = uuid.New()
	}
	return nil
}

func (Quote) TableName() string {
	return "quotes"
}

// QuoteLineItem carries the facts the pricing rule engine resolves against.
type QuoteLineItem struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	QuoteID uint `gorm:"not null;index" json:"quote_id"`

	NationalityID          *uint `gorm:"index" json:"nationality_id,omitempty"`
	JobID                  *uint `gorm:"index" json:"job_id,omitempty"`
	JobProfileID           *uint `gorm:"index" json:"job_profile_id,omitempty"`
	Quantity               int   `gorm:"not null;default:1" json:"quantity"`
	ContractDurationMonths int   `gorm:"not null;default:12" json:"contract_duration_months"`
	SkillLevelID           *uint `gorm:"index" json:"skill_level_id,omitempty"`
	CityID                 *uint `gorm:"index" json:"city_id,omitempty"`

	// BaseMonthlyCost is the starting subtotal the rule pass adjusts.
	BaseMonthlyCost decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"base_monthly_cost"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"subtotal"`
	VATAmount       decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"vat_amount"`
	Total           decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"total"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Nationality *Nationality `gorm:"foreignKey:NationalityID;references:ID;constraint:OnDelete:SET NULL" json:"nationality,omitempty"`
	Job         *Job         `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:SET NULL" json:"job,omitempty"`
	JobProfile  *JobProfile  `gorm:"foreignKey:JobProfileID;references:ID;constraint:OnDelete:SET NULL" json:"job_profile,omitempty"`
	SkillLevel  *SkillLevel  `gorm:"foreignKey:SkillLevelID;references:ID;constraint:OnDelete:SET NULL" json:"skill_level,omitempty"`
	City        *City        `gorm:"foreignKey:CityID;references:ID;constraint:OnDelete:SET NULL" json:"city,omitempty"`
}

// BeforeCreate ensures UUID is set
func (li *QuoteLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.UUID == uuid.Nil {
		li.UUID = uuid.New()
	}
	return nil
}

func (QuoteLineItem) TableName() string {
	return "quote_line_items"
}

// QuoteFilter represents filter criteria for quote queries
type QuoteFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	LeadID        *uint      `json:"lead_id,omitempty"`
	Code          *string    `json:"code,omitempty"`
	Status        *string    `json:"status,omitempty"`
	OwnerID       *uint      `json:"owner_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

// QuoteLineItemFilter represents filter criteria for line item queries
type QuoteLineItemFilter struct {
	ID      *uint `json:"id,omitempty"`
	QuoteID *uint `json:"quote_id,omitempty"`
}
