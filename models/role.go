package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Module is the closed enum of CRM modules a capability can target.
type Module string

const (
	ModuleAccounts       Module = "accounts"
	ModuleContacts       Module = "contacts"
	ModuleLeads          Module = "leads"
	ModuleQuotes         Module = "quotes"
	ModuleJobs           Module = "jobs"
	ModuleNationalities  Module = "nationalities"
	ModuleCostComponents Module = "cost_components"
	ModulePricingRules   Module = "pricing_rules"
	ModuleApprovalMatrix Module = "approval_matrix"
	ModuleRoles          Module = "roles"
	ModuleUsers          Module = "users"
	ModuleCommunications Module = "communications"
	ModuleDashboard      Module = "dashboard"
	ModuleForecasting    Module = "forecasting"
	ModuleSettings       Module = "settings"
	ModuleAuditLog       Module = "audit_log"
)

// CapAction is the closed enum of actions a capability can grant.
type CapAction string

const (
	ActionView   CapAction = "view"
	ActionCreate CapAction = "create"
	ActionUpdate CapAction = "update"
	ActionDelete CapAction = "delete"
	ActionExport CapAction = "export"
)

func knownModules() map[Module]bool {
	return map[Module]bool{
		ModuleAccounts: true, ModuleContacts: true, ModuleLeads: true,
		ModuleQuotes: true, ModuleJobs: true, ModuleNationalities: true,
		ModuleCostComponents: true, ModulePricingRules: true,
		ModuleApprovalMatrix: true, ModuleRoles: true, ModuleUsers: true,
		ModuleCommunications: true, ModuleDashboard: true,
		ModuleForecasting: true, ModuleSettings: true, ModuleAuditLog: true,
	}
}

func knownActions() map[CapAction]bool {
	return map[CapAction]bool{
		ActionView: true, ActionCreate: true, ActionUpdate: true,
		ActionDelete: true, ActionExport: true,
	}
}

// Capability pairs a module with an action.
type Capability struct {
	Module Module    `json:"module"`
	Action CapAction `json:"action"`
}

// Validate rejects unknown module/action pairs at load time instead of
// silently rendering them as denied.
func (c Capability) Validate() error {
	if !knownModules()[c.Module] {
		return fmt.Errorf("unknown module %q in capability", c.Module)
	}
	if !knownActions()[c.Action] {
		return fmt.Errorf("unknown action %q in capability", c.Action)
	}
	return nil
}

// CapabilitySet is a typed lookup over a role's granted capabilities.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from granted capabilities, validating each.
func NewCapabilitySet(caps []Capability) (CapabilitySet, error) {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		set[c] = struct{}{}
	}
	return set, nil
}

// Allows reports whether the set grants action on module.
func (s CapabilitySet) Allows(module Module, action CapAction) bool {
	_, ok := s[Capability{Module: module, Action: action}]
	return ok
}

// Role represents a named capability bundle assigned to users
type Role struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name        string  `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	Capabilities []Capability `gorm:"type:jsonb;serializer:json" json:"capabilities"`

	IsActive *bool `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate ensures UUID is set
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	return nil
}

func (Role) TableName() string {
	return "roles"
}

// CapabilitySet builds the typed lookup for this role's capabilities.
func (r *Role) CapabilitySet() (CapabilitySet, error) {
	return NewCapabilitySet(r.Capabilities)
}

// RoleFilter represents filter criteria for role queries
type RoleFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
