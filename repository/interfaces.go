// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/marafiq-hq/staffing-crm/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// AccountRepository defines operations for client accounts
type AccountRepository interface {
	Repository[models.Account, models.AccountFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Account, error)
	ByName(ctx context.Context, name string) (*models.Account, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Account, error)
}

// ContactRepository defines operations for account contacts
type ContactRepository interface {
	Repository[models.Contact, models.ContactFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Contact, error)
	ListByAccount(ctx context.Context, accountID uint) ([]*models.Contact, error)
	PrimaryForAccount(ctx context.Context, accountID uint) (*models.Contact, error)
}

// LeadRepository defines operations for leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Lead, error)
	ListByStatus(ctx context.Context, status models.LeadStatus, limit, offset int) ([]*models.Lead, error)
	CountByStatus(ctx context.Context) (map[models.LeadStatus]int64, error)
}

// QuoteRepository defines operations for quotes and their line items
type QuoteRepository interface {
	Repository[models.Quote, models.QuoteFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Quote, error)
	ByCode(ctx context.Context, code string) (*models.Quote, error)
	WithLineItems(ctx context.Context, id uint) (*models.Quote, error)
	ListByLead(ctx context.Context, leadID uint) ([]*models.Quote, error)
	ListActiveForForecast(ctx context.Context) ([]*models.Quote, error)
	ListExpirable(ctx context.Context, asOf time.Time, limit int) ([]*models.Quote, error)
}

// QuoteLineItemRepository defines operations for quote line items
type QuoteLineItemRepository interface {
	Repository[models.QuoteLineItem, models.QuoteLineItemFilter]
	ListByQuote(ctx context.Context, quoteID uint) ([]*models.QuoteLineItem, error)
	DeleteByQuote(ctx context.Context, quoteID uint) error
}

// JobRepository defines operations for jobs
type JobRepository interface {
	Repository[models.Job, models.JobFilter]
	ByCode(ctx context.Context, code string) (*models.Job, error)
	ListActive(ctx context.Context) ([]*models.Job, error)
}

// JobProfileRepository defines operations for job profiles
type JobProfileRepository interface {
	Repository[models.JobProfile, models.JobProfileFilter]
	ListByJob(ctx context.Context, jobID uint) ([]*models.JobProfile, error)
}

// NationalityRepository defines operations for nationalities
type NationalityRepository interface {
	Repository[models.Nationality, models.NationalityFilter]
	ByISOCode(ctx context.Context, isoCode string) (*models.Nationality, error)
	ListActive(ctx context.Context) ([]*models.Nationality, error)
}

// CostComponentRepository defines operations for cost components
type CostComponentRepository interface {
	Repository[models.CostComponent, models.CostComponentFilter]
	ByCode(ctx context.Context, code string) (*models.CostComponent, error)
	ListActive(ctx context.Context) ([]*models.CostComponent, error)
}

// PricingRuleRepository defines operations for pricing rules
type PricingRuleRepository interface {
	Repository[models.PricingRule, models.PricingRuleFilter]
	ByUUID(ctx context.Context, uuid string) (*models.PricingRule, error)
	ByCode(ctx context.Context, code string) (*models.PricingRule, error)
	ListActiveByPriority(ctx context.Context) ([]*models.PricingRule, error)
}

// DiscountApprovalRuleRepository defines operations for the approval matrix
type DiscountApprovalRuleRepository interface {
	Repository[models.DiscountApprovalRule, models.DiscountApprovalRuleFilter]
	ListActiveByType(ctx context.Context, discountType string) ([]*models.DiscountApprovalRule, error)
}

// RoleRepository defines operations for roles
type RoleRepository interface {
	Repository[models.Role, models.RoleFilter]
	ByName(ctx context.Context, name string) (*models.Role, error)
	ListActive(ctx context.Context) ([]*models.Role, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID uint) error
}

// UserSessionRepository defines operations for user sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.UserSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.UserSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllUserSessions(ctx context.Context, userID uint) error
	CleanupExpiredSessions(ctx context.Context) error
}

// CommunicationLogRepository defines operations for communication logs
type CommunicationLogRepository interface {
	Repository[models.CommunicationLog, models.CommunicationLogFilter]
	ListRecent(ctx context.Context, limit int) ([]*models.CommunicationLog, error)
	ListByLead(ctx context.Context, leadID uint) ([]*models.CommunicationLog, error)
	ListByAccount(ctx context.Context, accountID uint) ([]*models.CommunicationLog, error)
}

// LookupRepository defines operations for setup lookup tables
type LookupRepository interface {
	ListBranches(ctx context.Context, activeOnly bool) ([]*models.Branch, error)
	ListCities(ctx context.Context, activeOnly bool) ([]*models.City, error)
	ListDepartments(ctx context.Context, activeOnly bool) ([]*models.Department, error)
	ListSkillLevels(ctx context.Context, activeOnly bool) ([]*models.SkillLevel, error)
	SaveBranch(ctx context.Context, branch *models.Branch) error
	SaveCity(ctx context.Context, city *models.City) error
	SaveDepartment(ctx context.Context, department *models.Department) error
	SaveSkillLevel(ctx context.Context, skillLevel *models.SkillLevel) error
	BranchByID(ctx context.Context, id uint) (*models.Branch, error)
	CityByID(ctx context.Context, id uint) (*models.City, error)
	SkillLevelByID(ctx context.Context, id uint) (*models.SkillLevel, error)
}

// SystemSettingsRepository defines operations for system settings
type SystemSettingsRepository interface {
	Latest(ctx context.Context) (*models.SystemSettings, error)
	Save(ctx context.Context, settings *models.SystemSettings) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByEntity(ctx context.Context, entityType string, entityID uint, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
	ListSecurityEvents(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
