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

// AccountFlow handles client account management
type AccountFlow interface {
	CreateAccount(ctx context.Context, request *dto.CreateAccountRequest, metadata *ClientMetadata) (*dto.AccountResponse, error)
	UpdateAccount(ctx context.Context, accountUUID string, request *dto.UpdateAccountRequest, metadata *ClientMetadata) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, accountUUID string) (*dto.AccountResponse, error)
	ListAccounts(ctx context.Context, request *dto.ListAccountsRequest) (*dto.ListAccountsResponse, error)
	DeactivateAccount(ctx context.Context, accountUUID string, metadata *ClientMetadata) (*dto.AccountResponse, error)
}

// AccountFlowImpl implements the account business flow
type AccountFlowImpl struct {
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewAccountFlow creates a new account flow instance
func NewAccountFlow(
	accountRepo repository.AccountRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) AccountFlow {
	return &AccountFlowImpl{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// CreateAccount registers a new client account with a unique name
func (f *AccountFlowImpl) CreateAccount(ctx context.Context, request *dto.CreateAccountRequest, metadata *ClientMetadata) (*dto.AccountResponse, error) {
	userID, _ := UserIDFromContext(ctx)
	name := strings.TrimSpace(request.Name)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.AccountResponse, error) {
		existing, err := f.accountRepo.ByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrAccountNameTaken
		}

		account := &models.Account{
			Name:     name,
			Industry: strings.TrimSpace(request.Industry),
			Phone:    request.Phone,
			Email:    request.Email,
			Website:  request.Website,
			Address:  request.Address,
			CityID:   request.CityID,
			BranchID: request.BranchID,
			IsActive: utils.ToPtr(true),
		}

		if err := f.accountRepo.Save(ctx, account); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "account", account.ID,
			fmt.Sprintf("Account created: %s", account.Name), metadata)

		return &dto.AccountResponse{
			Message: "Account created successfully",
			Account: toAccountItem(account),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_ACCOUNT_FAILED", "Failed to create account", err)
	}
	return resp, nil
}

// UpdateAccount applies partial updates to an account
func (f *AccountFlowImpl) UpdateAccount(ctx context.Context, accountUUID string, request *dto.UpdateAccountRequest, metadata *ClientMetadata) (*dto.AccountResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.AccountResponse, error) {
		account, err := f.accountRepo.ByUUID(ctx, accountUUID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}

		if request.Name != nil {
			name := strings.TrimSpace(*request.Name)
			if name != account.Name {
				existing, err := f.accountRepo.ByName(ctx, name)
				if err != nil {
					return nil, err
				}
				if existing != nil && existing.ID != account.ID {
					return nil, ErrAccountNameTaken
				}
				account.Name = name
			}
		}
		if request.Industry != nil {
			account.Industry = strings.TrimSpace(*request.Industry)
		}
		if request.Phone != nil {
			account.Phone = request.Phone
		}
		if request.Email != nil {
			account.Email = request.Email
		}
		if request.Website != nil {
			account.Website = request.Website
		}
		if request.Address != nil {
			account.Address = request.Address
		}
		if request.CityID != nil {
			account.CityID = request.CityID
		}
		if request.BranchID != nil {
			account.BranchID = request.BranchID
		}
		if request.IsActive != nil {
			account.IsActive = request.IsActive
		}
		account.UpdatedAt = utils.UTCNow()

		if err := f.accountRepo.Update(ctx, account); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "account", account.ID,
			fmt.Sprintf("Account updated: %s", account.Name), metadata)

		return &dto.AccountResponse{
			Message: "Account updated successfully",
			Account: toAccountItem(account),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_ACCOUNT_FAILED", "Failed to update account", err)
	}
	return resp, nil
}

// GetAccount returns a single account by its UUID
func (f *AccountFlowImpl) GetAccount(ctx context.Context, accountUUID string) (*dto.AccountResponse, error) {
	account, err := f.accountRepo.ByUUID(ctx, accountUUID)
	if err != nil {
		return nil, NewBusinessError("GET_ACCOUNT_FAILED", "Failed to retrieve account", err)
	}
	if account == nil {
		return nil, NewBusinessError("ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	return &dto.AccountResponse{
		Message: "Account retrieved successfully",
		Account: toAccountItem(account),
	}, nil
}

// ListAccounts returns a filtered page of accounts
func (f *AccountFlowImpl) ListAccounts(ctx context.Context, request *dto.ListAccountsRequest) (*dto.ListAccountsResponse, error) {
	filter := models.AccountFilter{
		Industry: request.Industry,
		CityID:   request.CityID,
		BranchID: request.BranchID,
		IsActive: request.IsActive,
	}

	total, err := f.accountRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_ACCOUNTS_FAILED", "Failed to list accounts", err)
	}

	accounts, err := f.accountRepo.ByFilter(ctx, filter, "created_at DESC", request.Limit(), request.Offset())
	if err != nil {
		return nil, NewBusinessError("LIST_ACCOUNTS_FAILED", "Failed to list accounts", err)
	}

	items := make([]dto.AccountItem, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountItem(accounts[i]))
	}

	return &dto.ListAccountsResponse{
		Message: "Accounts retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationMeta{
			Page:       request.Page,
			PageSize:   request.Limit(),
			TotalCount: total,
		},
	}, nil
}

// DeactivateAccount soft-disables an account without deleting history
func (f *AccountFlowImpl) DeactivateAccount(ctx context.Context, accountUUID string, metadata *ClientMetadata) (*dto.AccountResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.AccountResponse, error) {
		account, err := f.accountRepo.ByUUID(ctx, accountUUID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}

		account.IsActive = utils.ToPtr(false)
		account.UpdatedAt = utils.UTCNow()
		if err := f.accountRepo.Update(ctx, account); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityDeactivated, "account", account.ID,
			fmt.Sprintf("Account deactivated: %s", account.Name), metadata)

		return &dto.AccountResponse{
			Message: "Account deactivated successfully",
			Account: toAccountItem(account),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("DEACTIVATE_ACCOUNT_FAILED", "Failed to deactivate account", err)
	}
	return resp, nil
}

func toAccountItem(account *models.Account) dto.AccountItem {
	return dto.AccountItem{
		ID:        account.ID,
		UUID:      account.UUID.String(),
		Name:      account.Name,
		Industry:  account.Industry,
		Phone:     account.Phone,
		Email:     account.Email,
		Website:   account.Website,
		Address:   account.Address,
		CityID:    account.CityID,
		BranchID:  account.BranchID,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
