// Package businessflow contains the core business logic and use cases for the staffing CRM
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User and auth errors
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleInactive      = errors.New("role is inactive")
	ErrRoleNameTaken     = errors.New("role name already exists")
	ErrInvalidCapability = errors.New("invalid capability")

	// Account and contact errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountNameTaken     = errors.New("account name already exists")
	ErrContactNotFound      = errors.New("contact not found")
	ErrContactAccountMismatch = errors.New("contact does not belong to account")

	// Lead errors
	ErrLeadNotFound          = errors.New("lead not found")
	ErrInvalidLeadStatus     = errors.New("invalid lead status")
	ErrInvalidLeadTransition = errors.New("invalid lead status transition")

	// Catalog errors
	ErrJobNotFound           = errors.New("job not found")
	ErrJobCodeTaken          = errors.New("job code already exists")
	ErrJobProfileNotFound    = errors.New("job profile not found")
	ErrNationalityNotFound   = errors.New("nationality not found")
	ErrNationalityTaken      = errors.New("nationality already exists")
	ErrSkillLevelNotFound    = errors.New("skill level not found")
	ErrBranchNotFound        = errors.New("branch not found")
	ErrCityNotFound          = errors.New("city not found")

	// Pricing configuration errors
	ErrCostComponentNotFound  = errors.New("cost component not found")
	ErrComponentCodeTaken     = errors.New("cost component code already exists")
	ErrInvalidCalculationMethod = errors.New("invalid calculation method")
	ErrPricingRuleNotFound    = errors.New("pricing rule not found")
	ErrRuleCodeTaken          = errors.New("pricing rule code already exists")
	ErrInvalidRuleDefinition  = errors.New("invalid rule definition")
	ErrApprovalRuleNotFound   = errors.New("approval rule not found")
	ErrInvalidApprovalRange   = errors.New("min percentage must be below max percentage")

	// Quote errors
	ErrQuoteNotFound        = errors.New("quote not found")
	ErrQuoteHasNoLineItems  = errors.New("quote has no line items")
	ErrQuoteNotEditable     = errors.New("quote can no longer be edited")
	ErrInvalidQuoteStatus   = errors.New("invalid quote status")
	ErrInvalidQuoteTransition = errors.New("invalid quote status transition")
	ErrInvalidDiscountValue = errors.New("discount percentage must be between 0 and 100")

	// Settings errors
	ErrInvalidVATRate  = errors.New("vat rate must be between 0 and 100")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}

func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}

func IsInvalidLeadTransition(err error) bool {
	return errors.Is(err, ErrInvalidLeadTransition)
}

func IsQuoteNotFound(err error) bool {
	return errors.Is(err, ErrQuoteNotFound)
}

func IsQuoteNotEditable(err error) bool {
	return errors.Is(err, ErrQuoteNotEditable)
}

func IsPricingRuleNotFound(err error) bool {
	return errors.Is(err, ErrPricingRuleNotFound)
}

func IsCostComponentNotFound(err error) bool {
	return errors.Is(err, ErrCostComponentNotFound)
}

func IsInvalidRuleDefinition(err error) bool {
	return errors.Is(err, ErrInvalidRuleDefinition)
}

func IsInvalidApprovalRange(err error) bool {
	return errors.Is(err, ErrInvalidApprovalRange)
}

func IsInvalidDiscountValue(err error) bool {
	return errors.Is(err, ErrInvalidDiscountValue)
}

func IsAccountNameTaken(err error) bool {
	return errors.Is(err, ErrAccountNameTaken)
}

func IsContactAccountMismatch(err error) bool {
	return errors.Is(err, ErrContactAccountMismatch)
}

func IsInvalidLeadStatus(err error) bool {
	return errors.Is(err, ErrInvalidLeadStatus)
}

func IsRoleNotFound(err error) bool {
	return errors.Is(err, ErrRoleNotFound)
}

func IsRoleInactive(err error) bool {
	return errors.Is(err, ErrRoleInactive)
}

func IsRoleNameTaken(err error) bool {
	return errors.Is(err, ErrRoleNameTaken)
}

func IsInvalidCapability(err error) bool {
	return errors.Is(err, ErrInvalidCapability)
}

func IsJobNotFound(err error) bool {
	return errors.Is(err, ErrJobNotFound)
}

func IsJobCodeTaken(err error) bool {
	return errors.Is(err, ErrJobCodeTaken)
}

func IsJobProfileNotFound(err error) bool {
	return errors.Is(err, ErrJobProfileNotFound)
}

func IsNationalityNotFound(err error) bool {
	return errors.Is(err, ErrNationalityNotFound)
}

func IsNationalityTaken(err error) bool {
	return errors.Is(err, ErrNationalityTaken)
}

func IsSkillLevelNotFound(err error) bool {
	return errors.Is(err, ErrSkillLevelNotFound)
}

func IsBranchNotFound(err error) bool {
	return errors.Is(err, ErrBranchNotFound)
}

func IsComponentCodeTaken(err error) bool {
	return errors.Is(err, ErrComponentCodeTaken)
}

func IsInvalidCalculationMethod(err error) bool {
	return errors.Is(err, ErrInvalidCalculationMethod)
}

func IsRuleCodeTaken(err error) bool {
	return errors.Is(err, ErrRuleCodeTaken)
}

func IsApprovalRuleNotFound(err error) bool {
	return errors.Is(err, ErrApprovalRuleNotFound)
}

func IsQuoteHasNoLineItems(err error) bool {
	return errors.Is(err, ErrQuoteHasNoLineItems)
}

func IsInvalidQuoteStatus(err error) bool {
	return errors.Is(err, ErrInvalidQuoteStatus)
}

func IsInvalidQuoteTransition(err error) bool {
	return errors.Is(err, ErrInvalidQuoteTransition)
}

func IsInvalidVATRate(err error) bool {
	return errors.Is(err, ErrInvalidVATRate)
}

func IsInvalidCurrency(err error) bool {
	return errors.Is(err, ErrInvalidCurrency)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}
