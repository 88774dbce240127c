package repository

import (
	"context"
	"errors"
	"time"

	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// QuoteRepositoryImpl implements the QuoteRepository interface
type QuoteRepositoryImpl struct {
	*BaseRepository[models.Quote, models.QuoteFilter]
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &QuoteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Quote, models.QuoteFilter](db),
	}
}

func (r *QuoteRepositoryImpl) ByFilter(ctx context.Context, filter models.QuoteFilter, orderBy string, limit, offset int) ([]*models.Quote, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *QuoteRepositoryImpl) Count(ctx context.Context, filter models.QuoteFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ByUUID retrieves a quote by UUID
func (r *QuoteRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Quote, error) {
	parsedUUID, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.QuoteFilter{UUID: &parsedUUID}
	quotes, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	return quotes[0], nil
}

// ByCode retrieves a quote by its human-facing code
func (r *QuoteRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Quote, error) {
	filter := models.QuoteFilter{Code: &code}
	quotes, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	return quotes[0], nil
}

// WithLineItems retrieves a quote with its line items and their pricing references preloaded
func (r *QuoteRepositoryImpl) WithLineItems(ctx context.Context, id uint) (*models.Quote, error) {
	db := r.getDB(ctx)

	var quote models.Quote
	err := db.Preload("LineItems").
		Preload("LineItems.Nationality").
		Preload("LineItems.Job").
		Preload("LineItems.JobProfile").
		Preload("Lead").
		Last(&quote, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &quote, nil
}

// ListByLead retrieves all quotes raised against a lead
func (r *QuoteRepositoryImpl) ListByLead(ctx context.Context, leadID uint) ([]*models.Quote, error) {
	filter := models.QuoteFilter{LeadID: &leadID}
	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// ListActiveForForecast retrieves quotes still in play for pipeline forecasting.
// Terminal quotes (rejected, expired) carry no expected revenue.
func (r *QuoteRepositoryImpl) ListActiveForForecast(ctx context.Context) ([]*models.Quote, error) {
	db := r.getDB(ctx)

	var quotes []*models.Quote
	err := db.Preload("Lead").
		Where("status IN ?", []string{
			models.QuoteStatusPriced,
			models.QuoteStatusPendingApproval,
			models.QuoteStatusApproved,
			models.QuoteStatusSent,
			models.QuoteStatusAccepted,
		}).
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}

	return quotes, nil
}

// ListExpirable retrieves quotes whose validity window has lapsed while they
// were still waiting on the client.
func (r *QuoteRepositoryImpl) ListExpirable(ctx context.Context, asOf time.Time, limit int) ([]*models.Quote, error) {
	db := r.getDB(ctx)

	var quotes []*models.Quote
	err := db.Where("status IN ?", []string{
		models.QuoteStatusPriced,
		models.QuoteStatusApproved,
		models.QuoteStatusSent,
	}).
		Where("valid_until IS NOT NULL AND valid_until < ?", asOf).
		Order("valid_until ASC").
		Limit(limit).
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}

	return quotes, nil
}

func (r *QuoteRepositoryImpl) applyFilter(db *gorm.DB, filter models.QuoteFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.LeadID != nil {
		db = db.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.OwnerID != nil {
		db = db.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
