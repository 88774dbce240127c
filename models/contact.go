package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact represents a person at a client account
type Contact struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	AccountID uint `gorm:"not null;index" json:"account_id"`

	FirstName string  `gorm:"size:100;not null" json:"first_name"`
	LastName  string  `gorm:"size:100;not null" json:"last_name"`
	Title     *string `gorm:"size:100" json:"title,omitempty"`
	Email     *string `gorm:"size:255;index" json:"email,omitempty"`
	Mobile    *string `gorm:"size:20" json:"mobile,omitempty"`
	IsPrimary *bool   `gorm:"default:false" json:"is_primary"`
	IsActive  *bool   `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE" json:"account,omitempty"`
}

// BeforeCreate ensures UUID is set
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

func (Contact) TableName() string {
	return "contacts"
}

// FullName returns the contact's display name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ContactFilter represents filter criteria for contact queries
type ContactFilter struct {
	ID        *uint      `json:"id,omitempty"`
	UUID      *uuid.UUID `json:"uuid,omitempty"`
	AccountID *uint      `json:"account_id,omitempty"`
	Email     *string    `json:"email,omitempty"`
	IsPrimary *bool      `json:"is_primary,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}
