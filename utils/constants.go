package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// ContextKey is the type for values the auth middleware places on the request context
type ContextKey string

// Context keys set by the auth middleware
const (
	UserIDKey    ContextKey = "user_id"
	UserUUIDKey  ContextKey = "user_uuid"
	UserRoleKey  ContextKey = "user_role_id"
	SessionIDKey ContextKey = "session_id"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Pricing constants
const (
	// DefaultCurrency is the currency used when no system setting exists
	DefaultCurrency = "SAR"

	// DefaultQuoteValidityDays is how long a sent quote stays open
	DefaultQuoteValidityDays = 30

	// QuoteCodePrefix prefixes generated quote codes
	QuoteCodePrefix = "QT"
)
