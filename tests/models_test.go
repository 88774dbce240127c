// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"

	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/pricing"
	testingutil "github.com/marafiq-hq/staffing-crm/testing"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCapabilitySet(t *testing.T) {
	t.Run("AllowsGrantedCapability", func(t *testing.T) {
		set, err := models.NewCapabilitySet([]models.Capability{
			{Module: models.ModuleLeads, Action: models.ActionView},
			{Module: models.ModuleLeads, Action: models.ActionCreate},
		})
		require.NoError(t, err)

		assert.True(t, set.Allows(models.ModuleLeads, models.ActionView))
		assert.True(t, set.Allows(models.ModuleLeads, models.ActionCreate))
		assert.False(t, set.Allows(models.ModuleLeads, models.ActionDelete))
		assert.False(t, set.Allows(models.ModuleQuotes, models.ActionView))
	})

	t.Run("RejectsUnknownModule", func(t *testing.T) {
		_, err := models.NewCapabilitySet([]models.Capability{
			{Module: "payments", Action: models.ActionView},
		})
		assert.Error(t, err)
	})

	t.Run("RejectsUnknownAction", func(t *testing.T) {
		_, err := models.NewCapabilitySet([]models.Capability{
			{Module: models.ModuleLeads, Action: "approve"},
		})
		assert.Error(t, err)
	})

	t.Run("EmptySetDeniesEverything", func(t *testing.T) {
		set, err := models.NewCapabilitySet(nil)
		require.NoError(t, err)
		assert.False(t, set.Allows(models.ModuleDashboard, models.ActionView))
	})
}

func TestLeadStatus(t *testing.T) {
	t.Run("ValidStatuses", func(t *testing.T) {
		for _, s := range []models.LeadStatus{
			models.LeadStatusNew,
			models.LeadStatusContacted,
			models.LeadStatusQualified,
			models.LeadStatusConverted,
			models.LeadStatusLost,
		} {
			assert.True(t, s.Valid(), "expected %s to be valid", s)
		}
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		assert.False(t, models.LeadStatus("archived").Valid())
		assert.False(t, models.LeadStatus("").Valid())
	})
}

func TestCostComponentMethod(t *testing.T) {
	assert.True(t, models.CostComponentMethod(pricing.CalcFixedAmount).Valid())
	assert.True(t, models.CostComponentMethod(pricing.CalcPercentageOfBase).Valid())
	assert.True(t, models.CostComponentMethod(pricing.CalcPerUnitQuantity).Valid())
	assert.False(t, models.CostComponentMethod("hourly").Valid())
}

func TestCommunicationType(t *testing.T) {
	assert.True(t, models.CommunicationCall.Valid())
	assert.True(t, models.CommunicationEmail.Valid())
	assert.True(t, models.CommunicationMeeting.Valid())
	assert.True(t, models.CommunicationNote.Valid())
	assert.False(t, models.CommunicationType("fax").Valid())
}

func TestRole(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("CreateRole", func(t *testing.T) {
			role, err := fixtures.CreateTestRole("sales_rep", []models.Capability{
				{Module: models.ModuleLeads, Action: models.ActionView},
				{Module: models.ModuleQuotes, Action: models.ActionCreate},
			})
			require.NoError(t, err)
			assert.NotZero(t, role.ID)
			assert.NotEmpty(t, role.UUID)
			assert.True(t, utils.IsTrue(role.IsActive))
		})

		t.Run("CapabilitySetRoundTrip", func(t *testing.T) {
			role, err := fixtures.CreateTestRole("quote_admin", []models.Capability{
				{Module: models.ModuleQuotes, Action: models.ActionView},
				{Module: models.ModuleQuotes, Action: models.ActionUpdate},
			})
			require.NoError(t, err)

			var loaded models.Role
			require.NoError(t, testDB.DB.First(&loaded, role.ID).Error)

			set, err := loaded.CapabilitySet()
			require.NoError(t, err)
			assert.True(t, set.Allows(models.ModuleQuotes, models.ActionView))
			assert.True(t, set.Allows(models.ModuleQuotes, models.ActionUpdate))
			assert.False(t, set.Allows(models.ModuleQuotes, models.ActionDelete))
		})

		t.Run("TableName", func(t *testing.T) {
			assert.Equal(t, "roles", models.Role{}.TableName())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUser(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		role, err := fixtures.CreateTestRole("test_user_role", []models.Capability{
			{Module: models.ModuleLeads, Action: models.ActionView},
		})
		require.NoError(t, err)

		t.Run("CreateUser", func(t *testing.T) {
			user, err := fixtures.CreateTestUser(role.ID)
			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.Equal(t, "Jane", user.FirstName)
			assert.Equal(t, "Smith", user.LastName)
			assert.Equal(t, "Jane Smith", user.FullName())
			assert.True(t, utils.IsTrue(user.IsActive))
		})

		t.Run("PasswordHashing", func(t *testing.T) {
			user, err := fixtures.CreateTestUser(role.ID)
			require.NoError(t, err)

			assert.NotEmpty(t, user.PasswordHash)
			err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("TestPass123!"))
			assert.NoError(t, err)
			err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("WrongPass"))
			assert.Error(t, err)
		})

		t.Run("SelfApprovalLimits", func(t *testing.T) {
			user, err := fixtures.CreateTestUser(role.ID)
			require.NoError(t, err)

			user.MaxSelfApproveLineDiscountPercent = decimal.NewFromInt(5)
			user.MaxSelfApproveOverallDiscountPercent = decimal.NewFromInt(10)
			require.NoError(t, testDB.DB.Save(user).Error)

			limits := user.SelfApprovalLimits()
			assert.True(t, limits.MaxLineDiscountPercent.Equal(decimal.NewFromInt(5)))
			assert.True(t, limits.MaxOverallDiscountPercent.Equal(decimal.NewFromInt(10)))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestQuoteModel(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		role, err := fixtures.CreateTestRole("quote_model_role", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)
		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		lead, err := fixtures.CreateTestLead(account.ID, user.ID)
		require.NoError(t, err)

		t.Run("CreateQuoteDefaults", func(t *testing.T) {
			quote := &models.Quote{
				LeadID: lead.ID,
				Code:   "QT-TEST-000001",
				Status: models.QuoteStatusDraft,
			}
			require.NoError(t, testDB.DB.Create(quote).Error)

			var loaded models.Quote
			require.NoError(t, testDB.DB.First(&loaded, quote.ID).Error)
			assert.Equal(t, models.QuoteStatusDraft, loaded.Status)
			assert.Equal(t, "SAR", loaded.Currency)
			assert.True(t, loaded.Subtotal.IsZero())
			assert.NotEmpty(t, loaded.UUID)
		})

		t.Run("TableNames", func(t *testing.T) {
			assert.Equal(t, "quotes", models.Quote{}.TableName())
			assert.Equal(t, "quote_line_items", models.QuoteLineItem{}.TableName())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSystemSettingsDefaults(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		settings, err := fixtures.CreateTestSettings(decimal.NewFromInt(15))
		require.NoError(t, err)
		assert.NotZero(t, settings.ID)

		engineSettings := settings.ToEngineSettings()
		assert.True(t, engineSettings.VATRate.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, "SAR", engineSettings.Currency)

		return nil
	})
	require.NoError(t, err)
}
