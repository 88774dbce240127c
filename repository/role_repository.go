package repository

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// RoleRepositoryImpl implements the RoleRepository interface
type RoleRepositoryImpl struct {
	*BaseRepository[models.Role, models.RoleFilter]
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &RoleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Role, models.RoleFilter](db),
	}
}

func (r *RoleRepositoryImpl) ByFilter(ctx context.Context, filter models.RoleFilter, orderBy string, limit, offset int) ([]*models.Role, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *RoleRepositoryImpl) Count(ctx context.Context, filter models.RoleFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ByName retrieves a role by its unique name
func (r *RoleRepositoryImpl) ByName(ctx context.Context, name string) (*models.Role, error) {
	filter := models.RoleFilter{Name: &name}
	roles, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, nil
	}
	return roles[0], nil
}

// ListActive retrieves all active roles ordered by name
func (r *RoleRepositoryImpl) ListActive(ctx context.Context) ([]*models.Role, error) {
	isActive := true
	return r.ByFilter(ctx, models.RoleFilter{IsActive: &isActive}, "name ASC", 0, 0)
}

func (r *RoleRepositoryImpl) applyFilter(db *gorm.DB, filter models.RoleFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
