package repository

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// ContactRepositoryImpl implements the ContactRepository interface
type ContactRepositoryImpl struct {
	*BaseRepository[models.Contact, models.ContactFilter]
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Contact, models.ContactFilter](db),
	}
}

func (r *ContactRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactFilter, orderBy string, limit, offset int) ([]*models.Contact, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *ContactRepositoryImpl) Count(ctx context.Context, filter models.ContactFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ByUUID retrieves a contact by UUID
func (r *ContactRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Contact, error) {
	parsedUUID, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.ContactFilter{UUID: &parsedUUID}
	contacts, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return contacts[0], nil
}

// ListByAccount retrieves contacts belonging to an account
func (r *ContactRepositoryImpl) ListByAccount(ctx context.Context, accountID uint) ([]*models.Contact, error) {
	filter := models.ContactFilter{AccountID: &accountID}
	return r.ByFilter(ctx, filter, "is_primary DESC, created_at ASC", 0, 0)
}

// PrimaryForAccount returns the primary contact of an account, or nil when none is flagged
func (r *ContactRepositoryImpl) PrimaryForAccount(ctx context.Context, accountID uint) (*models.Contact, error) {
	isPrimary := true
	filter := models.ContactFilter{AccountID: &accountID, IsPrimary: &isPrimary}
	contacts, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return contacts[0], nil
}

func (r *ContactRepositoryImpl) applyFilter(db *gorm.DB, filter models.ContactFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.AccountID != nil {
		db = db.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.IsPrimary != nil {
		db = db.Where("is_primary = ?", *filter.IsPrimary)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
