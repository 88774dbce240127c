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
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserFlow handles CRM user administration
type UserFlow interface {
	CreateUser(ctx context.Context, request *dto.CreateUserRequest, metadata *ClientMetadata) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, userUUID string, request *dto.UpdateUserRequest, metadata *ClientMetadata) (*dto.UserResponse, error)
	GetUser(ctx context.Context, userUUID string) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, request *dto.ListUsersRequest) (*dto.ListUsersResponse, error)
	DeactivateUser(ctx context.Context, userUUID string, metadata *ClientMetadata) (*dto.UserResponse, error)
}

// UserFlowImpl implements the user business flow
type UserFlowImpl struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	lookupRepo  repository.LookupRepository
	sessionRepo repository.UserSessionRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewUserFlow creates a new user flow instance
func NewUserFlow(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	lookupRepo repository.LookupRepository,
	sessionRepo repository.UserSessionRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) UserFlow {
	return &UserFlowImpl{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		lookupRepo:  lookupRepo,
		sessionRepo: sessionRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// CreateUser registers a CRM user with a hashed password and optional
// self-approval discount ceilings
func (f *UserFlowImpl) CreateUser(ctx context.Context, request *dto.CreateUserRequest, metadata *ClientMetadata) (*dto.UserResponse, error) {
	callerID, _ := UserIDFromContext(ctx)
	email := strings.ToLower(strings.TrimSpace(request.Email))

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.UserResponse, error) {
		existing, err := f.userRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}

		role, err := f.roleRepo.ByID(ctx, request.RoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}
		if !utils.IsTrue(role.IsActive) {
			return nil, ErrRoleInactive
		}

		if request.BranchID != nil {
			branch, err := f.lookupRepo.BranchByID(ctx, *request.BranchID)
			if err != nil {
				return nil, err
			}
			if branch == nil {
				return nil, ErrBranchNotFound
			}
		}

		lineLimit, err := parseSelfApproveLimit(request.MaxSelfApproveLineDiscountPercent)
		if err != nil {
			return nil, err
		}
		overallLimit, err := parseSelfApproveLimit(request.MaxSelfApproveOverallDiscount)
		if err != nil {
			return nil, err
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		user := &models.User{
			Email:                                email,
			PasswordHash:                         string(passwordHash),
			FirstName:                            strings.TrimSpace(request.FirstName),
			LastName:                             strings.TrimSpace(request.LastName),
			RoleID:                               request.RoleID,
			BranchID:                             request.BranchID,
			Mobile:                               request.Mobile,
			MaxSelfApproveLineDiscountPercent:    lineLimit,
			MaxSelfApproveOverallDiscountPercent: overallLimit,
			IsActive:                             utils.ToPtr(true),
		}
		if err := f.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		user.Role = role

		_ = auditEntity(ctx, f.auditRepo, &callerID, models.AuditActionEntityCreated, "user", user.ID,
			fmt.Sprintf("User created: %s (%s)", email, role.Name), metadata)

		return &dto.UserResponse{
			Message: "User created successfully",
			User:    toUserItem(user),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_USER_FAILED", "Failed to create user", err)
	}
	return resp, nil
}

// UpdateUser applies a partial update. Email is immutable; password changes
// go through the login flow so sessions get revoked alongside.
func (f *UserFlowImpl) UpdateUser(ctx context.Context, userUUID string, request *dto.UpdateUserRequest, metadata *ClientMetadata) (*dto.UserResponse, error) {
	callerID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.UserResponse, error) {
		user, err := f.userRepo.ByUUID(ctx, userUUID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		if request.FirstName != nil {
			user.FirstName = strings.TrimSpace(*request.FirstName)
		}
		if request.LastName != nil {
			user.LastName = strings.TrimSpace(*request.LastName)
		}
		if request.RoleID != nil && *request.RoleID != user.RoleID {
			role, err := f.roleRepo.ByID(ctx, *request.RoleID)
			if err != nil {
				return nil, err
			}
			if role == nil {
				return nil, ErrRoleNotFound
			}
			if !utils.IsTrue(role.IsActive) {
				return nil, ErrRoleInactive
			}
			user.RoleID = *request.RoleID
			user.Role = role
		}
		if request.BranchID != nil {
			branch, err := f.lookupRepo.BranchByID(ctx, *request.BranchID)
			if err != nil {
				return nil, err
			}
			if branch == nil {
				return nil, ErrBranchNotFound
			}
			user.BranchID = request.BranchID
		}
		if request.Mobile != nil {
			user.Mobile = request.Mobile
		}
		if request.MaxSelfApproveLineDiscountPercent != nil {
			limit, err := parseSelfApproveLimit(request.MaxSelfApproveLineDiscountPercent)
			if err != nil {
				return nil, err
			}
			user.MaxSelfApproveLineDiscountPercent = limit
		}
		if request.MaxSelfApproveOverallDiscount != nil {
			limit, err := parseSelfApproveLimit(request.MaxSelfApproveOverallDiscount)
			if err != nil {
				return nil, err
			}
			user.MaxSelfApproveOverallDiscountPercent = limit
		}
		if request.IsActive != nil {
			user.IsActive = request.IsActive
			if !*request.IsActive {
				// Closing the account also ends every open session
				if err := f.sessionRepo.ExpireAllUserSessions(ctx, user.ID); err != nil {
					return nil, err
				}
			}
		}
		user.UpdatedAt = utils.UTCNow()

		if err := f.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &callerID, models.AuditActionEntityUpdated, "user", user.ID,
			fmt.Sprintf("User updated: %s", user.Email), metadata)

		return &dto.UserResponse{
			Message: "User updated successfully",
			User:    toUserItem(user),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_USER_FAILED", "Failed to update user", err)
	}
	return resp, nil
}

// GetUser returns a single user by UUID
func (f *UserFlowImpl) GetUser(ctx context.Context, userUUID string) (*dto.UserResponse, error) {
	user, err := f.userRepo.ByUUID(ctx, userUUID)
	if err != nil {
		return nil, NewBusinessError("GET_USER_FAILED", "Failed to retrieve user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if user.Role == nil {
		if role, err := f.roleRepo.ByID(ctx, user.RoleID); err == nil {
			user.Role = role
		}
	}

	return &dto.UserResponse{
		Message: "User retrieved successfully",
		User:    toUserItem(user),
	}, nil
}

// ListUsers returns a filtered page of users
func (f *UserFlowImpl) ListUsers(ctx context.Context, request *dto.ListUsersRequest) (*dto.ListUsersResponse, error) {
	filter := models.UserFilter{
		RoleID:   request.RoleID,
		BranchID: request.BranchID,
		IsActive: request.IsActive,
	}

	total, err := f.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_USERS_FAILED", "Failed to list users", err)
	}

	users, err := f.userRepo.ByFilter(ctx, filter, "created_at DESC", request.Limit(), request.Offset())
	if err != nil {
		return nil, NewBusinessError("LIST_USERS_FAILED", "Failed to list users", err)
	}

	roleNames := map[uint]*models.Role{}
	items := make([]dto.UserItem, 0, len(users))
	for _, user := range users {
		if user.Role == nil {
			if cached, ok := roleNames[user.RoleID]; ok {
				user.Role = cached
			} else if role, err := f.roleRepo.ByID(ctx, user.RoleID); err == nil {
				roleNames[user.RoleID] = role
				user.Role = role
			}
		}
		items = append(items, toUserItem(user))
	}

	return &dto.ListUsersResponse{
		Message: "Users retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationMeta{
			Page:       request.Page,
			PageSize:   request.Limit(),
			TotalCount: total,
		},
	}, nil
}

// DeactivateUser closes the account and expires its sessions
func (f *UserFlowImpl) DeactivateUser(ctx context.Context, userUUID string, metadata *ClientMetadata) (*dto.UserResponse, error) {
	callerID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.UserResponse, error) {
		user, err := f.userRepo.ByUUID(ctx, userUUID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		user.IsActive = utils.ToPtr(false)
		user.UpdatedAt = utils.UTCNow()
		if err := f.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		if err := f.sessionRepo.ExpireAllUserSessions(ctx, user.ID); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &callerID, models.AuditActionEntityDeactivated, "user", user.ID,
			fmt.Sprintf("User deactivated: %s", user.Email), metadata)

		return &dto.UserResponse{
			Message: "User deactivated successfully",
			User:    toUserItem(user),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("DEACTIVATE_USER_FAILED", "Failed to deactivate user", err)
	}
	return resp, nil
}

// parseSelfApproveLimit parses a discount ceiling percentage and keeps it
// inside [0, 100]. A nil input means zero, so no self-approval.
func parseSelfApproveLimit(raw *string) (decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	limit, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, NewBusinessError("INVALID_SELF_APPROVE_LIMIT", "Self-approval limit must be a decimal percentage", err)
	}
	if limit.IsNegative() || limit.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, NewBusinessError("INVALID_SELF_APPROVE_LIMIT", "Self-approval limit must be between 0 and 100", ErrInvalidDiscountValue)
	}
	return limit, nil
}

func toUserItem(user *models.User) dto.UserItem {
	item := dto.UserItem{
		ID:                                user.ID,
		UUID:                              user.UUID.String(),
		Email:                             user.Email,
		FirstName:                         user.FirstName,
		LastName:                          user.LastName,
		RoleID:                            user.RoleID,
		BranchID:                          user.BranchID,
		Mobile:                            user.Mobile,
		MaxSelfApproveLineDiscountPercent: user.MaxSelfApproveLineDiscountPercent.StringFixed(2),
		MaxSelfApproveOverallDiscount:     user.MaxSelfApproveOverallDiscountPercent.StringFixed(2),
		IsActive:                          user.IsActive,
		CreatedAt:                         user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if user.Role != nil {
		item.RoleName = &user.Role.Name
	}
	if user.LastLoginAt != nil {
		item.LastLoginAt = utils.ToPtr(user.LastLoginAt.UTC().Format(time.RFC3339))
	}
	return item
}
