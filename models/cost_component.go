package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostComponentMethod wraps the engine's calculation method for persistence.
type CostComponentMethod pricing.CalculationMethod

// Valid checks if the calculation method is one the engine understands.
func (m CostComponentMethod) Valid() bool {
	switch pricing.CalculationMethod(m) {
	case pricing.CalcFixedAmount, pricing.CalcPercentageOfBase, pricing.CalcPerUnitQuantity:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CostComponentMethod.
func (m *CostComponentMethod) Scan(value any) error {
	if value == nil {
		*m = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*m = CostComponentMethod(v)
	case []byte:
		*m = CostComponentMethod(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CostComponentMethod", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CostComponentMethod.
func (m CostComponentMethod) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid CostComponentMethod: %s", m)
	}
	return string(m), nil
}

// CostComponent represents a reusable priced line item that pricing rules,
// job profiles, and nationalities can attach to a quote. Deleting a component
// does not cascade into referencing rules; the engine reports dangling
// references as diagnostics at evaluation time.
type CostComponent struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name string `gorm:"size:255;not null" json:"name"`
	Code string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Type string `gorm:"size:50;index" json:"type"`

	CalculationMethod CostComponentMethod `gorm:"type:varchar(30);not null" json:"calculation_method"`
	ComponentValue    decimal.Decimal     `gorm:"type:numeric(18,4);not null" json:"value"`
	VATApplicable     *bool               `gorm:"default:false" json:"vat_applicable"`

	// Scope: line_item or overall_quote.
	Scope string `gorm:"type:varchar(20);not null;default:'line_item';index" json:"scope"`

	// ApplicableFor restricts usage, e.g. nationality ISO codes or job codes.
	ApplicableFor pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"applicable_for"`

	IsActive *bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate ensures UUID is set
func (c *CostComponent) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

func (CostComponent) TableName() string {
	return "cost_components"
}

// ToEngineComponent maps the persisted component to its evaluation snapshot.
func (c *CostComponent) ToEngineComponent() pricing.Component {
	return pricing.Component{
		ID:            c.Code,
		Name:          c.Name,
		Method:        pricing.CalculationMethod(c.CalculationMethod),
		Value:         c.ComponentValue,
		VATApplicable: c.VATApplicable != nil && *c.VATApplicable,
		Scope:         pricing.ComponentScope(c.Scope),
	}
}

// CostComponentFilter represents filter criteria for cost component queries
type CostComponentFilter struct {
	ID                *uint   `json:"id,omitempty"`
	Code              *string `json:"code,omitempty"`
	Type              *string `json:"type,omitempty"`
	CalculationMethod *string `json:"calculation_method,omitempty"`
	Scope             *string `json:"scope,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
}
