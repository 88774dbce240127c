package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommunicationType classifies a logged interaction.
type CommunicationType string

const (
	CommunicationCall    CommunicationType = "call"
	CommunicationEmail   CommunicationType = "email"
	CommunicationMeeting CommunicationType = "meeting"
	CommunicationNote    CommunicationType = "note"
)

// Valid checks if the communication type is valid.
func (t CommunicationType) Valid() bool {
	switch t {
	case CommunicationCall, CommunicationEmail, CommunicationMeeting, CommunicationNote:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CommunicationType.
func (t *CommunicationType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = CommunicationType(v)
	case []byte:
		*t = CommunicationType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CommunicationType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CommunicationType.
func (t CommunicationType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid CommunicationType: %s", t)
	}
	return string(t), nil
}

// CommunicationLog records a call, email, meeting, or note against an
// account, contact, or lead.
type CommunicationLog struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Type    CommunicationType `gorm:"type:varchar(20);not null;index" json:"type"`
	Subject string            `gorm:"size:255;not null" json:"subject"`
	Body    *string           `gorm:"type:text" json:"body,omitempty"`

	AccountID *uint `gorm:"index" json:"account_id,omitempty"`
	ContactID *uint `gorm:"index" json:"contact_id,omitempty"`
	LeadID    *uint `gorm:"index" json:"lead_id,omitempty"`
	UserID    uint  `gorm:"not null;index" json:"user_id"`

	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	EmailSent  *bool     `gorm:"default:false" json:"email_sent,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE" json:"account,omitempty"`
	Contact *Contact `gorm:"foreignKey:ContactID;references:ID;constraint:OnDelete:CASCADE" json:"contact,omitempty"`
	Lead    *Lead    `gorm:"foreignKey:LeadID;references:ID;constraint:OnDelete:CASCADE" json:"lead,omitempty"`
	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
}

// BeforeCreate ensures UUID is set
func (c *CommunicationLog) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

func (CommunicationLog) TableName() string {
	return "communication_logs"
}

// CommunicationLogFilter represents filter criteria for communication queries
type CommunicationLogFilter struct {
	ID             *uint              `json:"id,omitempty"`
	Type           *CommunicationType `json:"type,omitempty"`
	AccountID      *uint              `json:"account_id,omitempty"`
	ContactID      *uint              `json:"contact_id,omitempty"`
	LeadID         *uint              `json:"lead_id,omitempty"`
	UserID         *uint              `json:"user_id,omitempty"`
	OccurredAfter  *time.Time         `json:"occurred_after,omitempty"`
	OccurredBefore *time.Time         `json:"occurred_before,omitempty"`
}
