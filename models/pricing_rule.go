package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"gorm.io/gorm"
)

// PricingRule persists an authored rule. Conditions and actions are stored as
// JSONB snapshots of the engine's typed structures; structural validation
// happens at entry time so the engine only has to fail closed on legacy rows.
type PricingRule struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name string `gorm:"size:255;not null" json:"name"`
	Code string `gorm:"size:50;uniqueIndex;not null" json:"code"`

	// Priority determines evaluation order, higher first; ties broken by
	// stable input order.
	Priority      int   `gorm:"not null;default:0;index" json:"priority"`
	IsActive      *bool `gorm:"default:true;index" json:"is_active"`
	StopIfMatched bool  `gorm:"not null;default:false" json:"stop_if_matched"`

	Conditions pricing.ConditionSet `gorm:"type:jsonb;serializer:json" json:"conditions"`
	Actions    []pricing.Action     `gorm:"type:jsonb;serializer:json" json:"actions"`

	// A rule outside its validity window is treated as inactive.
	FromDate *time.Time `json:"from_date,omitempty"`
	ToDate   *time.Time `json:"to_date,omitempty"`

	Description *string `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate ensures UUID is set
func (r *PricingRule) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	return nil
}

func (PricingRule) TableName() string {
	return "pricing_rules"
}

// ToEngineRule maps the persisted rule to its evaluation snapshot.
func (r *PricingRule) ToEngineRule() pricing.Rule {
	return pricing.Rule{
		ID:            r.UUID.String(),
		Name:          r.Name,
		Code:          r.Code,
		Priority:      r.Priority,
		Active:        r.IsActive != nil && *r.IsActive,
		StopIfMatched: r.StopIfMatched,
		Conditions:    r.Conditions,
		Actions:       r.Actions,
		FromDate:      r.FromDate,
		ToDate:        r.ToDate,
	}
}

// PricingRuleFilter represents filter criteria for pricing rule queries
type PricingRuleFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Code     *string `json:"code,omitempty"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
