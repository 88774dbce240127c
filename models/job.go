package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Job represents a job category (e.g. driver, housekeeper, welder)
type Job struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name     string  `gorm:"size:255;not null;index" json:"name"`
	Code     string  `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Category *string `gorm:"size:100;index" json:"category,omitempty"`
	IsActive *bool   `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate ensures UUID is set
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.UUID == uuid.Nil {
		j.UUID = uuid.New()
	}
	return nil
}

func (Job) TableName() string {
	return "jobs"
}

// JobProfile refines a job with a base cost and default cost components.
// DefaultComponentCodes may reference components that were later deleted;
// the pricing engine reports those as diagnostics instead of failing.
type JobProfile struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	JobID uint   `gorm:"not null;index" json:"job_id"`
	Name  string `gorm:"size:255;not null" json:"name"`

	BaseMonthlyCost       decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"base_monthly_cost"`
	DefaultComponentCodes pq.StringArray  `gorm:"type:text[];not null;default:'{}'" json:"default_component_codes"`

	SkillLevelID *uint `gorm:"index" json:"skill_level_id,omitempty"`
	IsActive     *bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Job        *Job        `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	SkillLevel *SkillLevel `gorm:"foreignKey:SkillLevelID;references:ID;constraint:OnDelete:SET NULL" json:"skill_level,omitempty"`
}

// BeforeCreate ensures UUID is set
func (jp *JobProfile) BeforeCreate(tx *gorm.DB) error {
	if jp.UUID == uuid.Nil {
		jp.UUID = uuid.New()
	}
	return nil
}

func (JobProfile) TableName() string {
	return "job_profiles"
}

// JobFilter represents filter criteria for job queries
type JobFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty"`
	Category *string `json:"category,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// JobProfileFilter represents filter criteria for job profile queries
type JobProfileFilter struct {
	ID           *uint   `json:"id,omitempty"`
	JobID        *uint   `json:"job_id,omitempty"`
	Name         *string `json:"name,omitempty"`
	SkillLevelID *uint   `json:"skill_level_id,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}
