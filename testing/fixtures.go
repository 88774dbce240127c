// Package testing provides test utilities and database setup for testing the staffing CRM
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestRole creates a role granting the given capabilities
func (tf *TestFixtures) CreateTestRole(name string, caps []models.Capability) (*models.Role, error) {
	role := &models.Role{
		Name:         name,
		Capabilities: caps,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(role).Error; err != nil {
		return nil, fmt.Errorf("failed to create test role: %w", err)
	}

	return role, nil
}

// CreateTestUser creates a user assigned to the given role. The password is
// always "TestPass123!".
func (tf *TestFixtures) CreateTestUser(roleID uint) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", mathrand.Intn(900000000)+100000000)

	user := &models.User{
		FirstName:    "Jane",
		LastName:     "Smith",
		Email:        fmt.Sprintf("jane.smith.%s@example.com", randomDigits),
		Mobile:       utils.ToPtr(fmt.Sprintf("+9665%s", randomDigits[:8])),
		PasswordHash: string(hashedPassword),
		RoleID:       roleID,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestAccount creates a client account with a unique name
func (tf *TestFixtures) CreateTestAccount() (*models.Account, error) {
	account := &models.Account{
		Name:     fmt.Sprintf("Test Account %d", mathrand.Intn(10000000)),
		Industry: "construction",
		Email:    utils.ToPtr("contact@testaccount.example.com"),
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create test account: %w", err)
	}

	return account, nil
}

// CreateTestContact creates a contact under the given account
func (tf *TestFixtures) CreateTestContact(accountID uint) (*models.Contact, error) {
	contact := &models.Contact{
		AccountID: accountID,
		FirstName: "John",
		LastName:  "Doe",
		Email:     utils.ToPtr(fmt.Sprintf("john.doe.%d@example.com", mathrand.Intn(10000000))),
		IsPrimary: utils.ToPtr(true),
		IsActive:  utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contact: %w", err)
	}

	return contact, nil
}

// CreateTestLead creates a qualified lead so quote flows can build on it
func (tf *TestFixtures) CreateTestLead(accountID, ownerID uint) (*models.Lead, error) {
	lead := &models.Lead{
		AccountID: &accountID,
		Title:     fmt.Sprintf("Test Lead %d", mathrand.Intn(10000000)),
		Industry:  "construction",
		Source:    "referral",
		Status:    models.LeadStatusQualified,
		OwnerID:   &ownerID,
	}

	if err := tf.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}

	return lead, nil
}

// CreateTestJob creates a job category with a unique code
func (tf *TestFixtures) CreateTestJob() (*models.Job, error) {
	job := &models.Job{
		Name:     "Test Driver",
		Code:     fmt.Sprintf("job_%d", mathrand.Intn(10000000)),
		Category: utils.ToPtr("transport"),
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create test job: %w", err)
	}

	return job, nil
}

// CreateTestJobProfile creates a profile for the given job with the given
// base monthly cost
func (tf *TestFixtures) CreateTestJobProfile(jobID uint, baseCost decimal.Decimal, componentCodes ...string) (*models.JobProfile, error) {
	profile := &models.JobProfile{
		JobID:                 jobID,
		Name:                  fmt.Sprintf("Test Profile %d", mathrand.Intn(10000000)),
		BaseMonthlyCost:       baseCost,
		DefaultComponentCodes: componentCodes,
		IsActive:              utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create test job profile: %w", err)
	}

	return profile, nil
}

// CreateTestNationality creates a nationality with a unique name and ISO code
func (tf *TestFixtures) CreateTestNationality(componentCodes ...string) (*models.Nationality, error) {
	letters := "abcdefghijklmnopqrstuvwxyz"
	iso := string([]byte{letters[mathrand.Intn(26)], letters[mathrand.Intn(26)]})

	nationality := &models.Nationality{
		Name:                  fmt.Sprintf("Test Nationality %d", mathrand.Intn(10000000)),
		ISOCode:               iso,
		DefaultComponentCodes: componentCodes,
		IsActive:              utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(nationality).Error; err != nil {
		return nil, fmt.Errorf("failed to create test nationality: %w", err)
	}

	return nationality, nil
}

// CreateTestCostComponent creates an active cost component
func (tf *TestFixtures) CreateTestCostComponent(method models.CostComponentMethod, value decimal.Decimal, vatApplicable bool) (*models.CostComponent, error) {
	component := &models.CostComponent{
		Name:              "Test Component",
		Code:              fmt.Sprintf("comp_%d", mathrand.Intn(10000000)),
		Type:              "government_fee",
		CalculationMethod: method,
		ComponentValue:    value,
		VATApplicable:     utils.ToPtr(vatApplicable),
		Scope:             "line_item",
		ApplicableFor:     []string{},
		IsActive:          utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(component).Error; err != nil {
		return nil, fmt.Errorf("failed to create test cost component: %w", err)
	}

	return component, nil
}

// CreateTestApprovalRule creates one approval matrix row for the given role
// and half-open percentage range
func (tf *TestFixtures) CreateTestApprovalRule(discountType string, minPct, maxPct decimal.Decimal, approverRoleID uint) (*models.DiscountApprovalRule, error) {
	rule := &models.DiscountApprovalRule{
		Name:           fmt.Sprintf("Test Approval %s-%s", minPct.String(), maxPct.String()),
		DiscountType:   discountType,
		MinPercentage:  minPct,
		MaxPercentage:  maxPct,
		ApproverRoleID: approverRoleID,
		IsActive:       utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create test approval rule: %w", err)
	}

	return rule, nil
}

// CreateTestSettings inserts a settings row with the given VAT rate
func (tf *TestFixtures) CreateTestSettings(vatRate decimal.Decimal) (*models.SystemSettings, error) {
	settings := &models.SystemSettings{
		VATRate:           vatRate,
		Currency:          "SAR",
		QuoteValidityDays: 30,
	}

	if err := tf.DB.DB.Create(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create test settings: %w", err)
	}

	return settings, nil
}

func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active session for the given user
func (tf *TestFixtures) CreateTestSession(userID uint) (*models.UserSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.UserSession{
		CorrelationID: uuid.New(),
		UserID:        userID,
		SessionToken:  sessionToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(userID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Description: &description,
		Success:     &success,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}
