package repository

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// CommunicationLogRepositoryImpl implements the CommunicationLogRepository interface
type CommunicationLogRepositoryImpl struct {
	*BaseRepository[models.CommunicationLog, models.CommunicationLogFilter]
}

// NewCommunicationLogRepository creates a new communication log repository
func NewCommunicationLogRepository(db *gorm.DB) CommunicationLogRepository {
	return &CommunicationLogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CommunicationLog, models.CommunicationLogFilter](db),
	}
}

func (r *CommunicationLogRepositoryImpl) ByFilter(ctx context.Context, filter models.CommunicationLogFilter, orderBy string, limit, offset int) ([]*models.CommunicationLog, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *CommunicationLogRepositoryImpl) Count(ctx context.Context, filter models.CommunicationLogFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ListRecent retrieves the most recent communications across all records
func (r *CommunicationLogRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*models.CommunicationLog, error) {
	return r.ByFilter(ctx, models.CommunicationLogFilter{}, "occurred_at DESC", limit, 0)
}

// ListByLead retrieves communications attached to a lead, newest first
func (r *CommunicationLogRepositoryImpl) ListByLead(ctx context.Context, leadID uint) ([]*models.CommunicationLog, error) {
	filter := models.CommunicationLogFilter{LeadID: &leadID}
	return r.ByFilter(ctx, filter, "occurred_at DESC", 0, 0)
}

// ListByAccount retrieves communications attached to an account, newest first
func (r *CommunicationLogRepositoryImpl) ListByAccount(ctx context.Context, accountID uint) ([]*models.CommunicationLog, error) {
	filter := models.CommunicationLogFilter{AccountID: &accountID}
	return r.ByFilter(ctx, filter, "occurred_at DESC", 0, 0)
}

func (r *CommunicationLogRepositoryImpl) applyFilter(db *gorm.DB, filter models.CommunicationLogFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	if filter.AccountID != nil {
		db = db.Where("account_id = ?", *filter.AccountID)
	}
	if filter.ContactID != nil {
		db = db.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.LeadID != nil {
		db = db.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.OccurredAfter != nil {
		db = db.Where("occurred_at >= ?", *filter.OccurredAfter)
	}
	if filter.OccurredBefore != nil {
		db = db.Where("occurred_at <= ?", *filter.OccurredBefore)
	}
	return db
}
