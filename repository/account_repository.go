package repository

import (
	"context"
	"errors"

	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// AccountRepositoryImpl implements AccountRepository
type AccountRepositoryImpl struct {
	*BaseRepository[models.Account, models.AccountFilter]
}

// NewAccountRepository creates a new repository for client accounts
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &AccountRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Account, models.AccountFilter](db),
	}
}

func (r *AccountRepositoryImpl) ByFilter(ctx context.Context, filter models.AccountFilter, orderBy string, limit, offset int) ([]*models.Account, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *AccountRepositoryImpl) Count(ctx context.Context, filter models.AccountFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

func (r *AccountRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Account, error) {
	db := r.getDB(ctx)
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	var account models.Account
	if err := db.Where("uuid = ?", parsed).Last(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepositoryImpl) ByName(ctx context.Context, name string) (*models.Account, error) {
	db := r.getDB(ctx)
	var account models.Account
	if err := db.Where("name = ?", name).Last(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	isActive := true
	return r.ByFilter(ctx, models.AccountFilter{IsActive: &isActive}, "name ASC", limit, offset)
}

// applyFilter applies filter conditions to the GORM query
func (r *AccountRepositoryImpl) applyFilter(db *gorm.DB, filter models.AccountFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.Industry != nil {
		db = db.Where("industry = ?", *filter.Industry)
	}
	if filter.CityID != nil {
		db = db.Where("city_id = ?", *filter.CityID)
	}
	if filter.BranchID != nil {
		db = db.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
