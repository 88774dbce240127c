package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents a CRM operator
type User struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	FirstName    string `gorm:"size:100;not null" json:"first_name"`
	LastName     string `gorm:"size:100;not null" json:"last_name"`
	Email        string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Mobile       *string `gorm:"size:20" json:"mobile,omitempty"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	RoleID   uint `gorm:"not null;index" json:"role_id"`
	BranchID *uint `gorm:"index" json:"branch_id,omitempty"`

	// Self-approval ceilings for discounts, clamped to [0, 100] at entry.
	// Below these no approval matrix lookup happens at all.
	MaxSelfApproveLineDiscountPercent    decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"max_self_approve_line_discount_percent"`
	MaxSelfApproveOverallDiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"max_self_approve_overall_discount_percent"`

	IsActive    *bool      `gorm:"default:true;index" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Role   *Role   `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT" json:"role,omitempty"`
	Branch *Branch `gorm:"foreignKey:BranchID;references:ID;constraint:OnDelete:SET NULL" json:"branch,omitempty"`
}

// BeforeCreate ensures UUID is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SelfApprovalLimits maps the user's ceilings into the engine's snapshot.
func (u *User) SelfApprovalLimits() pricing.SelfApprovalLimits {
	return pricing.SelfApprovalLimits{
		MaxLineDiscountPercent:    u.MaxSelfApproveLineDiscountPercent,
		MaxOverallDiscountPercent: u.MaxSelfApproveOverallDiscountPercent,
	}
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Email    *string    `json:"email,omitempty"`
	RoleID   *uint      `json:"role_id,omitempty"`
	BranchID *uint      `json:"branch_id,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
