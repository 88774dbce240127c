package models

import (
	"time"

	"gorm.io/gorm"
)

// Lookup tables behind the setup screens: branches, cities, departments, and
// skill levels. All share the same code/name/is_active shape.

type Branch struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Code     string  `gorm:"size:20;uniqueIndex;not null" json:"code"`
	CityID   *uint   `gorm:"index" json:"city_id,omitempty"`
	Phone    *string `gorm:"size:20" json:"phone,omitempty"`
	IsActive *bool   `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	City *City `gorm:"foreignKey:CityID;references:ID;constraint:OnDelete:SET NULL" json:"city,omitempty"`
}

func (Branch) TableName() string { return "branches" }

type City struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Region   *string `gorm:"size:100" json:"region,omitempty"`
	IsActive *bool  `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (City) TableName() string { return "cities" }

type Department struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Code     string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	IsActive *bool  `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Department) TableName() string { return "departments" }

type SkillLevel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Code     string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Rank     int    `gorm:"not null;default:0" json:"rank"`
	IsActive *bool  `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SkillLevel) TableName() string { return "skill_levels" }

// LookupFilter represents filter criteria shared by lookup table queries
type LookupFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
