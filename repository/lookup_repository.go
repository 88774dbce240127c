package repository

import (
	"context"
	"errors"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// LookupRepositoryImpl implements the LookupRepository interface over the
// setup tables (branches, cities, departments, skill levels).
type LookupRepositoryImpl struct {
	db *gorm.DB
}

// NewLookupRepository creates a new lookup repository
func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &LookupRepositoryImpl{db: db}
}

func (r *LookupRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

func listLookup[T any](db *gorm.DB, activeOnly bool) ([]*T, error) {
	var entity T
	query := db.Model(&entity)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var entities []*T
	if err := query.Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func lookupByID[T any](db *gorm.DB, id uint) (*T, error) {
	var entity T
	if err := db.Last(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (r *LookupRepositoryImpl) ListBranches(ctx context.Context, activeOnly bool) ([]*models.Branch, error) {
	return listLookup[models.Branch](r.getDB(ctx), activeOnly)
}

func (r *LookupRepositoryImpl) ListCities(ctx context.Context, activeOnly bool) ([]*models.City, error) {
	return listLookup[models.City](r.getDB(ctx), activeOnly)
}

func (r *LookupRepositoryImpl) ListDepartments(ctx context.Context, activeOnly bool) ([]*models.Department, error) {
	return listLookup[models.Department](r.getDB(ctx), activeOnly)
}

func (r *LookupRepositoryImpl) ListSkillLevels(ctx context.Context, activeOnly bool) ([]*models.SkillLevel, error) {
	return listLookup[models.SkillLevel](r.getDB(ctx), activeOnly)
}

func (r *LookupRepositoryImpl) SaveBranch(ctx context.Context, branch *models.Branch) error {
	return r.getDB(ctx).Save(branch).Error
}

func (r *LookupRepositoryImpl) SaveCity(ctx context.Context, city *models.City) error {
	return r.getDB(ctx).Save(city).Error
}

func (r *LookupRepositoryImpl) SaveDepartment(ctx context.Context, department *models.Department) error {
	return r.getDB(ctx).Save(department).Error
}

func (r *LookupRepositoryImpl) SaveSkillLevel(ctx context.Context, skillLevel *models.SkillLevel) error {
	return r.getDB(ctx).Save(skillLevel).Error
}

func (r *LookupRepositoryImpl) BranchByID(ctx context.Context, id uint) (*models.Branch, error) {
	return lookupByID[models.Branch](r.getDB(ctx), id)
}

func (r *LookupRepositoryImpl) CityByID(ctx context.Context, id uint) (*models.City, error) {
	return lookupByID[models.City](r.getDB(ctx), id)
}

func (r *LookupRepositoryImpl) SkillLevelByID(ctx context.Context, id uint) (*models.SkillLevel, error) {
	return lookupByID[models.SkillLevel](r.getDB(ctx), id)
}
