package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// leadTransitions lists the allowed pipeline moves from each status.
// Terminal statuses (converted, lost) allow no further moves except
// reopening a lost lead back to contacted.
var leadTransitions = map[models.LeadStatus][]models.LeadStatus{
	models.LeadStatusNew:       {models.LeadStatusContacted, models.LeadStatusLost},
	models.LeadStatusContacted: {models.LeadStatusQualified, models.LeadStatusLost},
	models.LeadStatusQualified: {models.LeadStatusConverted, models.LeadStatusLost},
	models.LeadStatusConverted: {},
	models.LeadStatusLost:      {models.LeadStatusContacted},
}

func leadTransitionAllowed(from, to models.LeadStatus) bool {
	for _, next := range leadTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LeadFlow handles lead pipeline management
type LeadFlow interface {
	CreateLead(ctx context.Context, request *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.LeadResponse, error)
	UpdateLead(ctx context.Context, leadUUID string, request *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.LeadResponse, error)
	GetLead(ctx context.Context, leadUUID string) (*dto.LeadResponse, error)
	ListLeads(ctx context.Context, request *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error)
	ChangeStatus(ctx context.Context, leadUUID string, request *dto.ChangeLeadStatusRequest, metadata *ClientMetadata) (*dto.LeadResponse, error)
	PipelineSummary(ctx context.Context) (*dto.LeadPipelineResponse, error)
}

// LeadFlowImpl implements the lead business flow
type LeadFlowImpl struct {
	leadRepo    repository.LeadRepository
	accountRepo repository.AccountRepository
	contactRepo repository.ContactRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewLeadFlow creates a new lead flow instance
func NewLeadFlow(
	leadRepo repository.LeadRepository,
	accountRepo repository.AccountRepository,
	contactRepo repository.ContactRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) LeadFlow {
	return &LeadFlowImpl{
		leadRepo:    leadRepo,
		accountRepo: accountRepo,
		contactRepo: contactRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// CreateLead opens a new lead in status "new", owned by the caller
func (f *LeadFlowImpl) CreateLead(ctx context.Context, request *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.LeadResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.LeadResponse, error) {
		if request.AccountID != nil {
			account, err := f.accountRepo.ByID(ctx, *request.AccountID)
			if err != nil {
				return nil, err
			}
			if account == nil {
				return nil, ErrAccountNotFound
			}
		}
		if request.ContactID != nil {
			contact, err := f.contactRepo.ByID(ctx, *request.ContactID)
			if err != nil {
				return nil, err
			}
			if contact == nil {
				return nil, ErrContactNotFound
			}
			if request.AccountID != nil && contact.AccountID != *request.AccountID {
				return nil, ErrContactAccountMismatch
			}
		}

		var owner *uint
		if userID != 0 {
			owner = &userID
		}

		lead := &models.Lead{
			AccountID: request.AccountID,
			ContactID: request.ContactID,
			Title:     strings.TrimSpace(request.Title),
			Industry:  strings.TrimSpace(request.Industry),
			Source:    strings.TrimSpace(request.Source),
			Status:    models.LeadStatusNew,
			OwnerID:   owner,
			Notes:     request.Notes,
		}

		if err := f.leadRepo.Save(ctx, lead); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "lead", lead.ID,
			fmt.Sprintf("Lead created: %s", lead.Title), metadata)

		return &dto.LeadResponse{
			Message: "Lead created successfully",
			Lead:    toLeadItem(lead),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_LEAD_FAILED", "Failed to create lead", err)
	}
	return resp, nil
}

// UpdateLead applies partial updates to a lead. Status is not updatable here;
// pipeline moves go through ChangeStatus so transitions stay validated.
func (f *LeadFlowImpl) UpdateLead(ctx context.Context, leadUUID string, request *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.LeadResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.LeadResponse, error) {
		lead, err := f.leadRepo.ByUUID(ctx, leadUUID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, ErrLeadNotFound
		}

		if request.AccountID != nil {
			account, err := f.accountRepo.ByID(ctx, *request.AccountID)
			if err != nil {
				return nil, err
			}
			if account == nil {
				return nil, ErrAccountNotFound
			}
			lead.AccountID = request.AccountID
		}
		if request.ContactID != nil {
			contact, err := f.contactRepo.ByID(ctx, *request.ContactID)
			if err != nil {
				return nil, err
			}
			if contact == nil {
				return nil, ErrContactNotFound
			}
			if lead.AccountID != nil && contact.AccountID != *lead.AccountID {
				return nil, ErrContactAccountMismatch
			}
			lead.ContactID = request.ContactID
		}
		if request.Title != nil {
			lead.Title = strings.TrimSpace(*request.Title)
		}
		if request.Industry != nil {
			lead.Industry = strings.TrimSpace(*request.Industry)
		}
		if request.Source != nil {
			lead.Source = strings.TrimSpace(*request.Source)
		}
		if request.OwnerID != nil {
			lead.OwnerID = request.OwnerID
		}
		if request.Notes != nil {
			lead.Notes = request.Notes
		}
		lead.UpdatedAt = utils.UTCNow()

		if err := f.leadRepo.Update(ctx, lead); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "lead", lead.ID,
			fmt.Sprintf("Lead updated: %s", lead.Title), metadata)

		return &dto.LeadResponse{
			Message: "Lead updated successfully",
			Lead:    toLeadItem(lead),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_LEAD_FAILED", "Failed to update lead", err)
	}
	return resp, nil
}

// GetLead returns a single lead by its UUID
func (f *LeadFlowImpl) GetLead(ctx context.Context, leadUUID string) (*dto.LeadResponse, error) {
	lead, err := f.leadRepo.ByUUID(ctx, leadUUID)
	if err != nil {
		return nil, NewBusinessError("GET_LEAD_FAILED", "Failed to retrieve lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	return &dto.LeadResponse{
		Message: "Lead retrieved successfully",
		Lead:    toLeadItem(lead),
	}, nil
}

// ListLeads returns a filtered page of leads
func (f *LeadFlowImpl) ListLeads(ctx context.Context, request *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error) {
	filter := models.LeadFilter{
		AccountID: request.AccountID,
		OwnerID:   request.OwnerID,
		Industry:  request.Industry,
		Source:    request.Source,
	}
	if request.Status != nil {
		status := models.LeadStatus(*request.Status)
		filter.Status = &status
	}

	total, err := f.leadRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_LEADS_FAILED", "Failed to list leads", err)
	}

	leads, err := f.leadRepo.ByFilter(ctx, filter, "created_at DESC", request.Limit(), request.Offset())
	if err != nil {
		return nil, NewBusinessError("LIST_LEADS_FAILED", "Failed to list leads", err)
	}

	items := make([]dto.LeadItem, 0, len(leads))
	for i := range leads {
		items = append(items, toLeadItem(leads[i]))
	}

	return &dto.ListLeadsResponse{
		Message: "Leads retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationMeta{
			Page:       request.Page,
			PageSize:   request.Limit(),
			TotalCount: total,
		},
	}, nil
}

// ChangeStatus moves a lead along the pipeline, validating the transition
func (f *LeadFlowImpl) ChangeStatus(ctx context.Context, leadUUID string, request *dto.ChangeLeadStatusRequest, metadata *ClientMetadata) (*dto.LeadResponse, error) {
	userID, _ := UserIDFromContext(ctx)
	target := models.LeadStatus(request.Status)
	if !target.Valid() {
		return nil, NewBusinessError("INVALID_LEAD_STATUS", "Invalid lead status", ErrInvalidLeadStatus)
	}

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.LeadResponse, error) {
		lead, err := f.leadRepo.ByUUID(ctx, leadUUID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, ErrLeadNotFound
		}

		if lead.Status == target {
			return &dto.LeadResponse{
				Message: "Lead status unchanged",
				Lead:    toLeadItem(lead),
			}, nil
		}

		if !leadTransitionAllowed(lead.Status, target) {
			return nil, ErrInvalidLeadTransition
		}

		previous := lead.Status
		lead.Status = target
		lead.UpdatedAt = utils.UTCNow()

		if err := f.leadRepo.Update(ctx, lead); err != nil {
			return nil, err
		}

		description := fmt.Sprintf("Lead status changed: %s -> %s", previous, target)
		if request.Reason != nil && *request.Reason != "" {
			description = fmt.Sprintf("%s (%s)", description, *request.Reason)
		}
		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "lead", lead.ID, description, metadata)

		return &dto.LeadResponse{
			Message: "Lead status changed successfully",
			Lead:    toLeadItem(lead),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CHANGE_LEAD_STATUS_FAILED", "Failed to change lead status", err)
	}
	return resp, nil
}

// PipelineSummary returns lead counts per pipeline status
func (f *LeadFlowImpl) PipelineSummary(ctx context.Context) (*dto.LeadPipelineResponse, error) {
	counts, err := f.leadRepo.CountByStatus(ctx)
	if err != nil {
		return nil, NewBusinessError("PIPELINE_SUMMARY_FAILED", "Failed to retrieve pipeline summary", err)
	}

	out := make(map[string]int64, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}

	return &dto.LeadPipelineResponse{
		Message: "Pipeline summary retrieved successfully",
		Counts:  out,
	}, nil
}

func toLeadItem(lead *models.Lead) dto.LeadItem {
	return dto.LeadItem{
		ID:        lead.ID,
		UUID:      lead.UUID.String(),
		AccountID: lead.AccountID,
		ContactID: lead.ContactID,
		Title:     lead.Title,
		Industry:  lead.Industry,
		Source:    lead.Source,
		Status:    string(lead.Status),
		OwnerID:   lead.OwnerID,
		Notes:     lead.Notes,
		CreatedAt: lead.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: lead.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
