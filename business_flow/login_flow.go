package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/app/services"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles user authentication and session operations
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, sessionToken string, metadata *ClientMetadata) (*dto.LogoutResponse, error)
	ChangePassword(ctx context.Context, request *dto.ChangePasswordRequest, metadata *ClientMetadata) (*dto.ChangePasswordResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.UserSessionRepository
	auditRepo    repository.AuditLogRepository
	roleRepo     repository.RoleRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	auditRepo repository.AuditLogRepository,
	roleRepo repository.RoleRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		roleRepo:     roleRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates a user with email and password
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))
	if email == "" {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", ErrUserNotFound)
	}
	if request.Password == "" {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", ErrIncorrectPassword)
	}

	var user *models.User

	resp, err := withFlowTransaction(ctx, lf.db, func(ctx context.Context) (*dto.LoginResponse, error) {
		var err error
		user, err = lf.userRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		if !utils.IsTrue(user.IsActive) {
			return nil, ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		role, err := lf.roleRepo.ByID(ctx, user.RoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}
		if !utils.IsTrue(role.IsActive) {
			return nil, ErrRoleInactive
		}
		user.Role = role

		session, err := lf.CreateSession(ctx, user.ID, metadata)
		if err != nil {
			return nil, err
		}

		if err := lf.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
			return nil, err
		}

		return &dto.LoginResponse{
			User:    ToAuthUserDTO(*user),
			Session: ToUserSessionDTO(*session),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		var userID *uint
		if user != nil {
			userID = &user.ID
		}
		_ = auditEntry(ctx, lf.auditRepo, userID, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("User logged in successfully: %d", resp.User.ID)
	_ = auditEntry(ctx, lf.auditRepo, &user.ID, models.AuditActionLoginSuccess, msg, true, nil, metadata)

	return resp, nil
}

// RefreshToken exchanges a valid refresh token for a new session
func (lf *LoginFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error) {
	resp, err := withFlowTransaction(ctx, lf.db, func(ctx context.Context) (*dto.RefreshTokenResponse, error) {
		session, err := lf.sessionRepo.ByRefreshToken(ctx, request.RefreshToken)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		if !session.IsValid() {
			return nil, ErrSessionExpired
		}

		user, err := lf.userRepo.ByID(ctx, session.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if !utils.IsTrue(user.IsActive) {
			return nil, ErrAccountInactive
		}

		role, err := lf.roleRepo.ByID(ctx, user.RoleID)
		if err != nil {
			return nil, err
		}
		user.Role = role

		// Rotate: old session goes inactive, new one takes its correlation ID
		if err := lf.sessionRepo.ExpireSession(ctx, session.ID); err != nil {
			return nil, err
		}

		newSession, err := lf.createSessionWithCorrelation(ctx, user.ID, session.CorrelationID, metadata)
		if err != nil {
			return nil, err
		}

		return &dto.RefreshTokenResponse{
			User:    ToAuthUserDTO(*user),
			Session: ToUserSessionDTO(*newSession),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}
	return resp, nil
}

// Logout deactivates the session bound to the presented token
func (lf *LoginFlowImpl) Logout(ctx context.Context, sessionToken string, metadata *ClientMetadata) (*dto.LogoutResponse, error) {
	session, err := lf.sessionRepo.BySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	if session == nil {
		return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", ErrSessionNotFound)
	}

	if err := lf.sessionRepo.ExpireSession(ctx, session.ID); err != nil {
		return nil, NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	msg := fmt.Sprintf("User logged out: %d", session.UserID)
	_ = auditEntry(ctx, lf.auditRepo, &session.UserID, models.AuditActionLogout, msg, true, nil, metadata)

	return &dto.LogoutResponse{Message: "Logged out successfully"}, nil
}

// ChangePassword verifies the current password, stores the new hash, and
// expires every other session of the user
func (lf *LoginFlowImpl) ChangePassword(ctx context.Context, request *dto.ChangePasswordRequest, metadata *ClientMetadata) (*dto.ChangePasswordResponse, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, NewBusinessError("CHANGE_PASSWORD_FAILED", "Password change failed", ErrUserNotFound)
	}

	resp, err := withFlowTransaction(ctx, lf.db, func(ctx context.Context) (*dto.ChangePasswordResponse, error) {
		user, err := lf.userRepo.ByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.CurrentPassword)); err != nil {
			return nil, ErrIncorrectPassword
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		if err := lf.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
			return nil, err
		}

		if err := lf.sessionRepo.ExpireAllUserSessions(ctx, user.ID); err != nil {
			return nil, err
		}

		return &dto.ChangePasswordResponse{Message: "Password changed successfully"}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Password change failed: %s", err.Error())
		_ = auditEntry(ctx, lf.auditRepo, &userID, models.AuditActionPasswordChanged, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("CHANGE_PASSWORD_FAILED", "Password change failed", err)
	}

	msg := fmt.Sprintf("Password changed: %d", userID)
	_ = auditEntry(ctx, lf.auditRepo, &userID, models.AuditActionPasswordChanged, msg, true, nil, metadata)

	return resp, nil
}

// CreateSession issues tokens and stores a new session row
func (lf *LoginFlowImpl) CreateSession(ctx context.Context, userID uint, metadata *ClientMetadata) (*models.UserSession, error) {
	return lf.createSessionWithCorrelation(ctx, userID, uuid.New(), metadata)
}

func (lf *LoginFlowImpl) createSessionWithCorrelation(ctx context.Context, userID uint, correlationID uuid.UUID, metadata *ClientMetadata) (*models.UserSession, error) {
	accessToken, refreshToken, err := lf.tokenService.GenerateTokens(userID)
	if err != nil {
		return nil, err
	}

	expiresAt := utils.UTCNowAdd(utils.SessionTimeout)

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.UserSession{
		UserID:        userID,
		CorrelationID: correlationID,
		SessionToken:  accessToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     expiresAt,
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := lf.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// withFlowTransaction runs fn inside a database transaction carried on the context
func withFlowTransaction[T any](ctx context.Context, db *gorm.DB, fn func(context.Context) (*T, error)) (*T, error) {
	var result *T
	var fnErr error

	err := repository.WithTransaction(ctx, db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
