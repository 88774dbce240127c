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

// ContactFlow handles contact management within accounts
type ContactFlow interface {
	CreateContact(ctx context.Context, request *dto.CreateContactRequest, metadata *ClientMetadata) (*dto.ContactResponse, error)
	UpdateContact(ctx context.Context, contactUUID string, request *dto.UpdateContactRequest, metadata *ClientMetadata) (*dto.ContactResponse, error)
	ListContacts(ctx context.Context, accountUUID string) (*dto.ListContactsResponse, error)
	DeleteContact(ctx context.Context, contactUUID string, metadata *ClientMetadata) error
}

// ContactFlowImpl implements the contact business flow
type ContactFlowImpl struct {
	contactRepo repository.ContactRepository
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewContactFlow creates a new contact flow instance
func NewContactFlow(
	contactRepo repository.ContactRepository,
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ContactFlow {
	return &ContactFlowImpl{
		contactRepo: contactRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// CreateContact adds a contact to an existing account. Marking the contact
// primary demotes the account's previous primary contact.
func (f *ContactFlowImpl) CreateContact(ctx context.Context, request *dto.CreateContactRequest, metadata *ClientMetadata) (*dto.ContactResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.ContactResponse, error) {
		account, err := f.accountRepo.ByID(ctx, request.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}
		if !utils.IsTrue(account.IsActive) {
			return nil, ErrAccountInactive
		}

		if utils.IsTrue(request.IsPrimary) {
			if err := f.demotePrimary(ctx, account.ID); err != nil {
				return nil, err
			}
		}

		contact := &models.Contact{
			AccountID: account.ID,
			FirstName: strings.TrimSpace(request.FirstName),
			LastName:  strings.TrimSpace(request.LastName),
			Title:     request.Title,
			Email:     request.Email,
			Mobile:    request.Mobile,
			IsPrimary: request.IsPrimary,
			IsActive:  utils.ToPtr(true),
		}

		if err := f.contactRepo.Save(ctx, contact); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "contact", contact.ID,
			fmt.Sprintf("Contact created: %s (account %d)", contact.FullName(), account.ID), metadata)

		return &dto.ContactResponse{
			Message: "Contact created successfully",
			Contact: toContactItem(contact),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_CONTACT_FAILED", "Failed to create contact", err)
	}
	return resp, nil
}

// UpdateContact applies partial updates to a contact
func (f *ContactFlowImpl) UpdateContact(ctx context.Context, contactUUID string, request *dto.UpdateContactRequest, metadata *ClientMetadata) (*dto.ContactResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.ContactResponse, error) {
		contact, err := f.contactRepo.ByUUID(ctx, contactUUID)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			return nil, ErrContactNotFound
		}

		if request.FirstName != nil {
			contact.FirstName = strings.TrimSpace(*request.FirstName)
		}
		if request.LastName != nil {
			contact.LastName = strings.TrimSpace(*request.LastName)
		}
		if request.Title != nil {
			contact.Title = request.Title
		}
		if request.Email != nil {
			contact.Email = request.Email
		}
		if request.Mobile != nil {
			contact.Mobile = request.Mobile
		}
		if request.IsPrimary != nil {
			if *request.IsPrimary && !utils.IsTrue(contact.IsPrimary) {
				if err := f.demotePrimary(ctx, contact.AccountID); err != nil {
					return nil, err
				}
			}
			contact.IsPrimary = request.IsPrimary
		}
		if request.IsActive != nil {
			contact.IsActive = request.IsActive
		}
		contact.UpdatedAt = utils.UTCNow()

		if err := f.contactRepo.Update(ctx, contact); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "contact", contact.ID,
			fmt.Sprintf("Contact updated: %s", contact.FullName()), metadata)

		return &dto.ContactResponse{
			Message: "Contact updated successfully",
			Contact: toContactItem(contact),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_CONTACT_FAILED", "Failed to update contact", err)
	}
	return resp, nil
}

// ListContacts returns the contacts belonging to an account
func (f *ContactFlowImpl) ListContacts(ctx context.Context, accountUUID string) (*dto.ListContactsResponse, error) {
	account, err := f.accountRepo.ByUUID(ctx, accountUUID)
	if err != nil {
		return nil, NewBusinessError("LIST_CONTACTS_FAILED", "Failed to list contacts", err)
	}
	if account == nil {
		return nil, NewBusinessError("ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	contacts, err := f.contactRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, NewBusinessError("LIST_CONTACTS_FAILED", "Failed to list contacts", err)
	}

	items := make([]dto.ContactItem, 0, len(contacts))
	for i := range contacts {
		items = append(items, toContactItem(contacts[i]))
	}

	return &dto.ListContactsResponse{
		Message: "Contacts retrieved successfully",
		Items:   items,
	}, nil
}

// DeleteContact soft-deletes a contact
func (f *ContactFlowImpl) DeleteContact(ctx context.Context, contactUUID string, metadata *ClientMetadata) error {
	userID, _ := UserIDFromContext(ctx)

	_, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*struct{}, error) {
		contact, err := f.contactRepo.ByUUID(ctx, contactUUID)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			return nil, ErrContactNotFound
		}

		if err := f.contactRepo.Delete(ctx, contact); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityDeleted, "contact", contact.ID,
			fmt.Sprintf("Contact deleted: %s", contact.FullName()), metadata)

		return &struct{}{}, nil
	})

	if err != nil {
		return NewBusinessError("DELETE_CONTACT_FAILED", "Failed to delete contact", err)
	}
	return nil
}

func (f *ContactFlowImpl) demotePrimary(ctx context.Context, accountID uint) error {
	current, err := f.contactRepo.PrimaryForAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}
	current.IsPrimary = utils.ToPtr(false)
	current.UpdatedAt = utils.UTCNow()
	return f.contactRepo.Update(ctx, current)
}

func toContactItem(contact *models.Contact) dto.ContactItem {
	return dto.ContactItem{
		ID:        contact.ID,
		UUID:      contact.UUID.String(),
		AccountID: contact.AccountID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Title:     contact.Title,
		Email:     contact.Email,
		Mobile:    contact.Mobile,
		IsPrimary: contact.IsPrimary,
		IsActive:  contact.IsActive,
		CreatedAt: contact.CreatedAt.UTC().Format(time.RFC3339),
	}
}
