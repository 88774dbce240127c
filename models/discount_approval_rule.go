package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountApprovalRule is one row of the discount approval matrix. The
// percentage range is half-open [MinPercentage, MaxPercentage); the
// MinPercentage < MaxPercentage invariant is enforced at entry, not at
// evaluation.
type DiscountApprovalRule struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name         string `gorm:"size:255;not null" json:"name"`
	DiscountType string `gorm:"type:varchar(20);not null;index" json:"discount_type"`

	MinPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"min_percentage"`
	MaxPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"max_percentage"`

	ApproverRoleID uint `gorm:"not null;index" json:"approver_role_id"`
	Priority       int  `gorm:"not null;default:0" json:"priority"`
	IsActive       *bool `gorm:"default:true;index" json:"is_active"`

	RequiresEscalation   bool             `gorm:"not null;default:false" json:"requires_escalation"`
	EscalationRoleID     *uint            `gorm:"index" json:"escalation_role_id,omitempty"`
	AutoApproveThreshold *decimal.Decimal `gorm:"type:numeric(5,2)" json:"auto_approve_threshold,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ApproverRole   *Role `gorm:"foreignKey:ApproverRoleID;references:ID;constraint:OnDelete:RESTRICT" json:"approver_role,omitempty"`
	EscalationRole *Role `gorm:"foreignKey:EscalationRoleID;references:ID;constraint:OnDelete:SET NULL" json:"escalation_role,omitempty"`
}

// BeforeCreate ensures UUID is set
func (r *DiscountApprovalRule) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	return nil
}

func (DiscountApprovalRule) TableName() string {
	return "discount_approval_rules"
}

// ToEngineRule maps the persisted matrix row to its evaluation snapshot.
func (r *DiscountApprovalRule) ToEngineRule() pricing.ApprovalRule {
	rule := pricing.ApprovalRule{
		ID:                 r.UUID.String(),
		Name:               r.Name,
		DiscountType:       pricing.DiscountType(r.DiscountType),
		MinPercentage:      r.MinPercentage,
		MaxPercentage:      r.MaxPercentage,
		ApproverRoleID:     strconv.FormatUint(uint64(r.ApproverRoleID), 10),
		Priority:           r.Priority,
		Active:             r.IsActive != nil && *r.IsActive,
		RequiresEscalation: r.RequiresEscalation,
	}
	if r.EscalationRoleID != nil {
		rule.EscalationRoleID = strconv.FormatUint(uint64(*r.EscalationRoleID), 10)
	}
	return rule
}

// DiscountApprovalRuleFilter represents filter criteria for approval matrix queries
type DiscountApprovalRuleFilter struct {
	ID             *uint   `json:"id,omitempty"`
	DiscountType   *string `json:"discount_type,omitempty"`
	ApproverRoleID *uint   `json:"approver_role_id,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}
