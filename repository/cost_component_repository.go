package repository

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// CostComponentRepositoryImpl implements the CostComponentRepository interface
type CostComponentRepositoryImpl struct {
	*BaseRepository[models.CostComponent, models.CostComponentFilter]
}

// NewCostComponentRepository creates a new cost component repository
func NewCostComponentRepository(db *gorm.DB) CostComponentRepository {
	return &CostComponentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CostComponent, models.CostComponentFilter](db),
	}
}

func (r *CostComponentRepositoryImpl) ByFilter(ctx context.Context, filter models.CostComponentFilter, orderBy string, limit, offset int) ([]*models.CostComponent, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *CostComponentRepositoryImpl) Count(ctx context.Context, filter models.CostComponentFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ByCode retrieves a cost component by its unique code
func (r *CostComponentRepositoryImpl) ByCode(ctx context.Context, code string) (*models.CostComponent, error) {
	filter := models.CostComponentFilter{Code: &code}
	components, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, nil
	}
	return components[0], nil
}

// ListActive retrieves all active cost components ordered by code
func (r *CostComponentRepositoryImpl) ListActive(ctx context.Context) ([]*models.CostComponent, error) {
	isActive := true
	return r.ByFilter(ctx, models.CostComponentFilter{IsActive: &isActive}, "code ASC", 0, 0)
}

func (r *CostComponentRepositoryImpl) applyFilter(db *gorm.DB, filter models.CostComponentFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	if filter.CalculationMethod != nil {
		db = db.Where("calculation_method = ?", *filter.CalculationMethod)
	}
	if filter.Scope != nil {
		db = db.Where("scope = ?", *filter.Scope)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
