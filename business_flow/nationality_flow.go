package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// NationalityFlow handles the nationality catalog
type NationalityFlow interface {
	CreateNationality(ctx context.Context, request *dto.CreateNationalityRequest, metadata *ClientMetadata) (*dto.NationalityResponse, error)
	UpdateNationality(ctx context.Context, nationalityID uint, request *dto.UpdateNationalityRequest, metadata *ClientMetadata) (*dto.NationalityResponse, error)
	ListNationalities(ctx context.Context, activeOnly bool) (*dto.ListNationalitiesResponse, error)
}

// NationalityFlowImpl implements the nationality business flow
type NationalityFlowImpl struct {
	nationalityRepo repository.NationalityRepository
	auditRepo       repository.AuditLogRepository
	db              *gorm.DB
}

// NewNationalityFlow creates a new nationality flow instance
func NewNationalityFlow(
	nationalityRepo repository.NationalityRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) NationalityFlow {
	return &NationalityFlowImpl{
		nationalityRepo: nationalityRepo,
		auditRepo:       auditRepo,
		db:              db,
	}
}

// CreateNationality registers a nationality with a unique ISO code
func (f *NationalityFlowImpl) CreateNationality(ctx context.Context, request *dto.CreateNationalityRequest, metadata *ClientMetadata) (*dto.NationalityResponse, error) {
	userID, _ := UserIDFromContext(ctx)
	isoCode := strings.ToUpper(strings.TrimSpace(request.ISOCode))

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.NationalityResponse, error) {
		existing, err := f.nationalityRepo.ByISOCode(ctx, isoCode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrNationalityTaken
		}

		nationality := &models.Nationality{
			Name:                  strings.TrimSpace(request.Name),
			ISOCode:               isoCode,
			DefaultComponentCodes: request.DefaultComponentCodes,
			IsActive:              utils.ToPtr(true),
		}
		if nationality.DefaultComponentCodes == nil {
			nationality.DefaultComponentCodes = []string{}
		}

		if err := f.nationalityRepo.Save(ctx, nationality); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "nationality", nationality.ID,
			fmt.Sprintf("Nationality created: %s (%s)", nationality.Name, nationality.ISOCode), metadata)

		return &dto.NationalityResponse{
			Message:     "Nationality created successfully",
			Nationality: toNationalityItem(nationality),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_NATIONALITY_FAILED", "Failed to create nationality", err)
	}
	return resp, nil
}

// UpdateNationality applies partial updates to a nationality
func (f *NationalityFlowImpl) UpdateNationality(ctx context.Context, nationalityID uint, request *dto.UpdateNationalityRequest, metadata *ClientMetadata) (*dto.NationalityResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.NationalityResponse, error) {
		nationality, err := f.nationalityRepo.ByID(ctx, nationalityID)
		if err != nil {
			return nil, err
		}
		if nationality == nil {
			return nil, ErrNationalityNotFound
		}

		if request.Name != nil {
			nationality.Name = strings.TrimSpace(*request.Name)
		}
		if request.DefaultComponentCodes != nil {
			nationality.DefaultComponentCodes = request.DefaultComponentCodes
		}
		if request.IsActive != nil {
			nationality.IsActive = request.IsActive
		}
		nationality.UpdatedAt = utils.UTCNow()

		if err := f.nationalityRepo.Update(ctx, nationality); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "nationality", nationality.ID,
			fmt.Sprintf("Nationality updated: %s", nationality.ISOCode), metadata)

		return &dto.NationalityResponse{
			Message:     "Nationality updated successfully",
			Nationality: toNationalityItem(nationality),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_NATIONALITY_FAILED", "Failed to update nationality", err)
	}
	return resp, nil
}

// ListNationalities returns nationalities, optionally active ones only
func (f *NationalityFlowImpl) ListNationalities(ctx context.Context, activeOnly bool) (*dto.ListNationalitiesResponse, error) {
	var nationalities []*models.Nationality
	var err error
	if activeOnly {
		nationalities, err = f.nationalityRepo.ListActive(ctx)
	} else {
		nationalities, err = f.nationalityRepo.ByFilter(ctx, models.NationalityFilter{}, "name ASC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("LIST_NATIONALITIES_FAILED", "Failed to list nationalities", err)
	}

	items := make([]dto.NationalityItem, 0, len(nationalities))
	for i := range nationalities {
		items = append(items, toNationalityItem(nationalities[i]))
	}

	return &dto.ListNationalitiesResponse{
		Message: "Nationalities retrieved successfully",
		Items:   items,
	}, nil
}

func toNationalityItem(nationality *models.Nationality) dto.NationalityItem {
	return dto.NationalityItem{
		ID:                    nationality.ID,
		UUID:                  nationality.UUID.String(),
		Name:                  nationality.Name,
		ISOCode:               nationality.ISOCode,
		DefaultComponentCodes: nationality.DefaultComponentCodes,
		IsActive:              nationality.IsActive,
	}
}
