// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/app/services"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
	sessionRepo  repository.UserSessionRepository
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(
	tokenService services.TokenService,
	sessionRepo repository.UserSessionRepository,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		sessionRepo:  sessionRepo,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
	}
}

// Authenticate validates the bearer token and its backing session, then
// stores the user identity in the request context
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required", "MISSING_AUTHORIZATION_HEADER")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Expected 'Bearer <token>'", "INVALID_AUTHORIZATION_FORMAT")
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return unauthorized(c, "Access token is required", "MISSING_ACCESS_TOKEN")
		}

		// Validate the token (this already checks for revocation)
		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			var errorCode string
			var message string

			if errors.Is(err, services.ErrTokenExpired) {
				errorCode = "TOKEN_EXPIRED"
				message = "Access token has expired"
			} else if errors.Is(err, services.ErrTokenInvalid) {
				errorCode = "TOKEN_INVALID"
				message = "Invalid access token"
			} else if errors.Is(err, services.ErrTokenRevoked) {
				errorCode = "TOKEN_REVOKED"
				message = "Access token has been revoked"
			} else {
				errorCode = "TOKEN_VALIDATION_FAILED"
				message = "Token validation failed"
			}

			return unauthorized(c, message, errorCode)
		}

		// A revoked or logged-out session invalidates the token even when
		// its signature still verifies.
		session, err := m.sessionRepo.BySessionToken(c.Context(), token)
		if err != nil || session == nil || !session.IsValid() {
			return unauthorized(c, "Session is no longer active", "SESSION_INACTIVE")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// RequireCapability gates a route group behind a module/action grant on the
// caller's role. Runs after Authenticate.
func (m *AuthMiddleware) RequireCapability(module models.Module, action models.CapAction) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := GetUserIDFromContext(c)
		if !ok || userID == 0 {
			return unauthorized(c, "Authentication required", "AUTHENTICATION_REQUIRED")
		}

		user, err := m.userRepo.ByID(c.Context(), userID)
		if err != nil || user == nil {
			return unauthorized(c, "User not found", "USER_NOT_FOUND")
		}
		if user.IsActive == nil || !*user.IsActive {
			return unauthorized(c, "Account is inactive", "ACCOUNT_INACTIVE")
		}

		role := user.Role
		if role == nil {
			role, err = m.roleRepo.ByID(c.Context(), user.RoleID)
			if err != nil || role == nil {
				return forbidden(c, "Role not found", "ROLE_NOT_FOUND")
			}
		}
		if role.IsActive == nil || !*role.IsActive {
			return forbidden(c, "Role is inactive", "ROLE_INACTIVE")
		}

		capabilities, err := role.CapabilitySet()
		if err != nil || !capabilities.Allows(module, action) {
			return forbidden(c, "Insufficient permissions", "CAPABILITY_DENIED")
		}

		c.Locals("user_role_id", role.ID)
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}

func forbidden(c fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(c fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("user_id").(uint)
	return userID, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
