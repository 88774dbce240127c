package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Nationality represents a worker nationality the agency recruits from
type Nationality struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name    string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	ISOCode string `gorm:"size:2;not null;uniqueIndex" json:"iso_code"`

	// DefaultComponentCodes attach nationality-specific costs (visa class,
	// embassy attestation) to every line item of this nationality.
	DefaultComponentCodes pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"default_component_codes"`

	IsActive *bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate ensures UUID is set
func (n *Nationality) BeforeCreate(tx *gorm.DB) error {
	if n.UUID == uuid.Nil {
		n.UUID = uuid.New()
	}
	return nil
}

func (Nationality) TableName() string {
	return "nationalities"
}

// NationalityFilter represents filter criteria for nationality queries
type NationalityFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	ISOCode  *string `json:"iso_code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
