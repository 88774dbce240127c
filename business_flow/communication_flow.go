package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/app/services"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// CommunicationFlow records client touchpoints and serves activity timelines
type CommunicationFlow interface {
	LogCommunication(ctx context.Context, request *dto.LogCommunicationRequest, metadata *ClientMetadata) (*dto.CommunicationResponse, error)
	ListByLead(ctx context.Context, leadID uint) (*dto.ListCommunicationsResponse, error)
	ListByAccount(ctx context.Context, accountID uint) (*dto.ListCommunicationsResponse, error)
}

// CommunicationFlowImpl implements the communication business flow
type CommunicationFlowImpl struct {
	commRepo            repository.CommunicationLogRepository
	accountRepo         repository.AccountRepository
	contactRepo         repository.ContactRepository
	leadRepo            repository.LeadRepository
	auditRepo           repository.AuditLogRepository
	notificationService services.NotificationService
	db                  *gorm.DB
}

// NewCommunicationFlow creates a new communication flow instance
func NewCommunicationFlow(
	commRepo repository.CommunicationLogRepository,
	accountRepo repository.AccountRepository,
	contactRepo repository.ContactRepository,
	leadRepo repository.LeadRepository,
	auditRepo repository.AuditLogRepository,
	notificationService services.NotificationService,
	db *gorm.DB,
) CommunicationFlow {
	return &CommunicationFlowImpl{
		commRepo:            commRepo,
		accountRepo:         accountRepo,
		contactRepo:         contactRepo,
		leadRepo:            leadRepo,
		auditRepo:           auditRepo,
		notificationService: notificationService,
		db:                  db,
	}
}

// LogCommunication records a touchpoint against an account, contact, or lead.
// For email entries with send_email set, the body is mailed to the contact
// after the record is committed.
func (f *CommunicationFlowImpl) LogCommunication(ctx context.Context, request *dto.LogCommunicationRequest, metadata *ClientMetadata) (*dto.CommunicationResponse, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, NewBusinessError("LOG_COMMUNICATION_FAILED", "Failed to log communication", ErrUserNotFound)
	}

	commType := models.CommunicationType(request.Type)
	if !commType.Valid() {
		return nil, NewBusinessError("INVALID_COMMUNICATION_TYPE", "Invalid communication type", nil)
	}

	occurredAt := utils.UTCNow()
	if request.OccurredAt != nil && *request.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, *request.OccurredAt)
		if err != nil {
			return nil, NewBusinessError("INVALID_OCCURRED_AT", "occurred_at must be an RFC 3339 timestamp", err)
		}
		occurredAt = parsed.UTC()
	}

	var contact *models.Contact

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.CommunicationResponse, error) {
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
			loaded, err := f.contactRepo.ByID(ctx, *request.ContactID)
			if err != nil {
				return nil, err
			}
			if loaded == nil {
				return nil, ErrContactNotFound
			}
			if request.AccountID != nil && loaded.AccountID != *request.AccountID {
				return nil, ErrContactAccountMismatch
			}
			contact = loaded
		}
		if request.LeadID != nil {
			lead, err := f.leadRepo.ByID(ctx, *request.LeadID)
			if err != nil {
				return nil, err
			}
			if lead == nil {
				return nil, ErrLeadNotFound
			}
		}

		entry := &models.CommunicationLog{
			Type:       commType,
			Subject:    request.Subject,
			Body:       request.Body,
			AccountID:  request.AccountID,
			ContactID:  request.ContactID,
			LeadID:     request.LeadID,
			UserID:     userID,
			OccurredAt: occurredAt,
			EmailSent:  utils.ToPtr(false),
		}
		if err := f.commRepo.Save(ctx, entry); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "communication_log", entry.ID,
			fmt.Sprintf("Communication logged: %s - %s", entry.Type, entry.Subject), metadata)

		return &dto.CommunicationResponse{
			Message:       "Communication logged successfully",
			Communication: toCommunicationItem(entry),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("LOG_COMMUNICATION_FAILED", "Failed to log communication", err)
	}

	// Outbound mail happens after commit so a provider outage never loses
	// the record itself.
	if request.SendEmail && commType == models.CommunicationEmail && contact != nil && contact.Email != nil {
		body := ""
		if request.Body != nil {
			body = *request.Body
		}
		if err := f.notificationService.SendEmail(*contact.Email, request.Subject, body); err == nil {
			if entry, lookupErr := f.commRepo.ByID(ctx, resp.Communication.ID); lookupErr == nil && entry != nil {
				entry.EmailSent = utils.ToPtr(true)
				if updateErr := f.commRepo.Update(ctx, entry); updateErr == nil {
					resp.Communication.EmailSent = utils.ToPtr(true)
				}
			}
		}
	}

	return resp, nil
}

// ListByLead returns the communication timeline of a lead, newest first
func (f *CommunicationFlowImpl) ListByLead(ctx context.Context, leadID uint) (*dto.ListCommunicationsResponse, error) {
	lead, err := f.leadRepo.ByID(ctx, leadID)
	if err != nil {
		return nil, NewBusinessError("LIST_COMMUNICATIONS_FAILED", "Failed to list communications", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	entries, err := f.commRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, NewBusinessError("LIST_COMMUNICATIONS_FAILED", "Failed to list communications", err)
	}
	return communicationList(entries), nil
}

// ListByAccount returns the communication timeline of an account, newest first
func (f *CommunicationFlowImpl) ListByAccount(ctx context.Context, accountID uint) (*dto.ListCommunicationsResponse, error) {
	account, err := f.accountRepo.ByID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("LIST_COMMUNICATIONS_FAILED", "Failed to list communications", err)
	}
	if account == nil {
		return nil, NewBusinessError("ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	entries, err := f.commRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("LIST_COMMUNICATIONS_FAILED", "Failed to list communications", err)
	}
	return communicationList(entries), nil
}

func communicationList(entries []*models.CommunicationLog) *dto.ListCommunicationsResponse {
	items := make([]dto.CommunicationItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toCommunicationItem(entry))
	}
	return &dto.ListCommunicationsResponse{
		Message: "Communications retrieved successfully",
		Items:   items,
	}
}

func toCommunicationItem(entry *models.CommunicationLog) dto.CommunicationItem {
	return dto.CommunicationItem{
		ID:         entry.ID,
		UUID:       entry.UUID.String(),
		Type:       string(entry.Type),
		AccountID:  entry.AccountID,
		ContactID:  entry.ContactID,
		LeadID:     entry.LeadID,
		UserID:     entry.UserID,
		Subject:    entry.Subject,
		Body:       entry.Body,
		OccurredAt: entry.OccurredAt.UTC().Format(time.RFC3339),
		EmailSent:  entry.EmailSent,
		CreatedAt:  entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}
