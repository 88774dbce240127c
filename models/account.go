// Package models contains domain entities and business models for the staffing CRM
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents a client company that hires workforce through the agency
type Account struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name     string  `gorm:"size:255;not null;index" json:"name"`
	Industry string  `gorm:"size:100;index" json:"industry"`
	Phone    *string `gorm:"size:20" json:"phone,omitempty"`
	Email    *string `gorm:"size:255" json:"email,omitempty"`
	Website  *string `gorm:"size:255" json:"website,omitempty"`

	// Address
	Address  *string `gorm:"type:text" json:"address,omitempty"`
	CityID   *uint   `gorm:"index" json:"city_id,omitempty"`
	BranchID *uint   `gorm:"index" json:"branch_id,omitempty"`

	IsActive *bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	City   *City   `gorm:"foreignKey:CityID;references:ID;constraint:OnDelete:SET NULL" json:"city,omitempty"`
	Branch *Branch `gorm:"foreignKey:BranchID;references:ID;constraint:OnDelete:SET NULL" json:"branch,omitempty"`
}

// BeforeCreate ensures UUID is set
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	return nil
}

func (Account) TableName() string {
	return "accounts"
}

// AccountFilter represents filter criteria for account queries
type AccountFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Industry      *string    `json:"industry,omitempty"`
	CityID        *uint      `json:"city_id,omitempty"`
	BranchID      *uint      `json:"branch_id,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
