package repository

import (
	"context"
	"strings"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// NationalityRepositoryImpl implements the NationalityRepository interface
type NationalityRepositoryImpl struct {
	*BaseRepository[models.Nationality, models.NationalityFilter]
}

// NewNationalityRepository creates a new nationality repository
func NewNationalityRepository(db *gorm.DB) NationalityRepository {
	return &NationalityRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Nationality, models.NationalityFilter](db),
	}
}

func (r *NationalityRepositoryImpl) ByFilter(ctx context.Context, filter models.NationalityFilter, orderBy string, limit, offset int) ([]*models.Nationality, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *NationalityRepositoryImpl) Count(ctx context.Context, filter models.NationalityFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ByISOCode retrieves a nationality by ISO code, case-insensitively
func (r *NationalityRepositoryImpl) ByISOCode(ctx context.Context, isoCode string) (*models.Nationality, error) {
	normalized := strings.ToUpper(strings.TrimSpace(isoCode))
	filter := models.NationalityFilter{ISOCode: &normalized}
	nationalities, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(nationalities) == 0 {
		return nil, nil
	}
	return nationalities[0], nil
}

// ListActive retrieves all active nationalities ordered by name
func (r *NationalityRepositoryImpl) ListActive(ctx context.Context) ([]*models.Nationality, error) {
	isActive := true
	return r.ByFilter(ctx, models.NationalityFilter{IsActive: &isActive}, "name ASC", 0, 0)
}

func (r *NationalityRepositoryImpl) applyFilter(db *gorm.DB, filter models.NationalityFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.ISOCode != nil {
		db = db.Where("iso_code = ?", *filter.ISOCode)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
