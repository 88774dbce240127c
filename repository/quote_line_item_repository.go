package repository

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// QuoteLineItemRepositoryImpl implements the QuoteLineItemRepository interface
type QuoteLineItemRepositoryImpl struct {
	*BaseRepository[models.QuoteLineItem, models.QuoteLineItemFilter]
}

// NewQuoteLineItemRepository creates a new quote line item repository
func NewQuoteLineItemRepository(db *gorm.DB) QuoteLineItemRepository {
	return &QuoteLineItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.QuoteLineItem, models.QuoteLineItemFilter](db),
	}
}

func (r *QuoteLineItemRepositoryImpl) ByFilter(ctx context.Context, filter models.QuoteLineItemFilter, orderBy string, limit, offset int) ([]*models.QuoteLineItem, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *QuoteLineItemRepositoryImpl) Count(ctx context.Context, filter models.QuoteLineItemFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ListByQuote retrieves line items of a quote in insertion order
func (r *QuoteLineItemRepositoryImpl) ListByQuote(ctx context.Context, quoteID uint) ([]*models.QuoteLineItem, error) {
	filter := models.QuoteLineItemFilter{QuoteID: &quoteID}
	return r.ByFilter(ctx, filter, "id ASC", 0, 0)
}

// DeleteByQuote removes all line items of a quote, used when re-pricing replaces them
func (r *QuoteLineItemRepositoryImpl) DeleteByQuote(ctx context.Context, quoteID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Where("quote_id = ?", quoteID).Delete(&models.QuoteLineItem{}).Error
	return err
}

func (r *QuoteLineItemRepositoryImpl) applyFilter(db *gorm.DB, filter models.QuoteLineItemFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.QuoteID != nil {
		db = db.Where("quote_id = ?", *filter.QuoteID)
	}
	return db
}
