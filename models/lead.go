package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStatus represents a lead's position in the pipeline.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// Valid checks if the status is valid.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for LeadStatus.
func (s *LeadStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = LeadStatus(v)
	case []byte:
		*s = LeadStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LeadStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for LeadStatus.
func (s LeadStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid LeadStatus: %s", s)
	}
	return string(s), nil
}

// Lead represents a staffing opportunity before it becomes a quote
type Lead struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	AccountID *uint  `gorm:"index" json:"account_id,omitempty"`
	ContactID *uint  `gorm:"index" json:"contact_id,omitempty"`
	Title     string `gorm:"size:255;not null" json:"title"`

	// Industry and Source are facts the pricing rule engine can match on.
	Industry string `gorm:"size:100;index" json:"industry"`
	Source   string `gorm:"size:100;index" json:"source"`

	Status  LeadStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	OwnerID *uint      `gorm:"index" json:"owner_id,omitempty"`
	Notes   *string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:SET NULL" json:"account,omitempty"`
	Contact *Contact `gorm:"foreignKey:ContactID;references:ID;constraint:OnDelete:SET NULL" json:"contact,omitempty"`
	Owner   *User    `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
}

// BeforeCreate ensures UUID is set
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	return nil
}

func (Lead) TableName() string {
	return "leads"
}

// LeadFilter represents filter criteria for lead queries
type LeadFilter struct {
	ID            *uint       `json:"id,omitempty"`
	UUID          *uuid.UUID  `json:"uuid,omitempty"`
	AccountID     *uint       `json:"account_id,omitempty"`
	Industry      *string     `json:"industry,omitempty"`
	Source        *string     `json:"source,omitempty"`
	Status        *LeadStatus `json:"status,omitempty"`
	OwnerID       *uint       `json:"owner_id,omitempty"`
	CreatedAfter  *time.Time  `json:"created_after,omitempty"`
	CreatedBefore *time.Time  `json:"created_before,omitempty"`
}
