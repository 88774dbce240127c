// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	testingutil "github.com/marafiq-hq/staffing-crm/testing"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAccountRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAndByID", func(t *testing.T) {
			account := &models.Account{
				Name:     "Gulf Construction Co",
				Industry: "construction",
				IsActive: utils.ToPtr(true),
			}
			require.NoError(t, repo.Save(ctx, account))
			assert.NotZero(t, account.ID)

			loaded, err := repo.ByID(ctx, account.ID)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, "Gulf Construction Co", loaded.Name)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			loaded, err := repo.ByID(ctx, 999999)
			assert.NoError(t, err)
			assert.Nil(t, loaded)
		})

		t.Run("ByName", func(t *testing.T) {
			account := &models.Account{Name: "Desert Logistics", Industry: "transport", IsActive: utils.ToPtr(true)}
			require.NoError(t, repo.Save(ctx, account))

			loaded, err := repo.ByName(ctx, "Desert Logistics")
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, account.ID, loaded.ID)

			missing, err := repo.ByName(ctx, "No Such Company")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ByFilterAndCount", func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, &models.Account{Name: "Filter A", Industry: "hospitality", IsActive: utils.ToPtr(true)}))
			require.NoError(t, repo.Save(ctx, &models.Account{Name: "Filter B", Industry: "hospitality", IsActive: utils.ToPtr(false)}))

			industry := "hospitality"
			accounts, err := repo.ByFilter(ctx, models.AccountFilter{Industry: &industry}, "created_at DESC", 10, 0)
			require.NoError(t, err)
			assert.Len(t, accounts, 2)

			count, err := repo.Count(ctx, models.AccountFilter{Industry: &industry, IsActive: utils.ToPtr(true)})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("Update", func(t *testing.T) {
			account := &models.Account{Name: "Rename Me", Industry: "retail", IsActive: utils.ToPtr(true)}
			require.NoError(t, repo.Save(ctx, account))

			account.Name = "Renamed Co"
			require.NoError(t, repo.Update(ctx, account))

			loaded, err := repo.ByID(ctx, account.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed Co", loaded.Name)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPricingRuleRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewPricingRuleRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByCode", func(t *testing.T) {
			rule := &models.PricingRule{
				Name:     "Construction Markup",
				Code:     "construction_markup",
				Priority: 10,
				IsActive: utils.ToPtr(true),
			}
			require.NoError(t, repo.Save(ctx, rule))

			loaded, err := repo.ByCode(ctx, "construction_markup")
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, rule.ID, loaded.ID)

			missing, err := repo.ByCode(ctx, "no_such_rule")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ListActiveByPriority", func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, &models.PricingRule{Name: "Low", Code: "low_priority", Priority: 1, IsActive: utils.ToPtr(true)}))
			require.NoError(t, repo.Save(ctx, &models.PricingRule{Name: "High", Code: "high_priority", Priority: 100, IsActive: utils.ToPtr(true)}))
			require.NoError(t, repo.Save(ctx, &models.PricingRule{Name: "Inactive", Code: "inactive_rule", Priority: 200, IsActive: utils.ToPtr(false)}))

			rules, err := repo.ListActiveByPriority(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, rules)

			// Inactive rules never come back; ordering is priority descending
			for i, r := range rules {
				assert.NotEqual(t, "inactive_rule", r.Code)
				if i > 0 {
					assert.GreaterOrEqual(t, rules[i-1].Priority, r.Priority)
				}
			}
			assert.Equal(t, "high_priority", rules[0].Code)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestQuoteRepositoryListExpirable(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewQuoteRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		role, err := fixtures.CreateTestRole("expiry_role", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)
		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		lead, err := fixtures.CreateTestLead(account.ID, user.ID)
		require.NoError(t, err)

		now := time.Now().UTC()
		past := now.Add(-48 * time.Hour)
		future := now.Add(48 * time.Hour)

		makeQuote := func(code, status string, validUntil *time.Time) *models.Quote {
			quote := &models.Quote{
				LeadID:     lead.ID,
				Code:       code,
				Status:     status,
				ValidUntil: validUntil,
			}
			require.NoError(t, repo.Save(ctx, quote))
			return quote
		}

		lapsedSent := makeQuote("QT-EXP-1", models.QuoteStatusSent, &past)
		lapsedPriced := makeQuote("QT-EXP-2", models.QuoteStatusPriced, &past)
		makeQuote("QT-EXP-3", models.QuoteStatusSent, &future)
		makeQuote("QT-EXP-4", models.QuoteStatusDraft, &past)
		makeQuote("QT-EXP-5", models.QuoteStatusAccepted, &past)
		makeQuote("QT-EXP-6", models.QuoteStatusSent, nil)

		expirable, err := repo.ListExpirable(ctx, now, 100)
		require.NoError(t, err)
		require.Len(t, expirable, 2)

		ids := []uint{expirable[0].ID, expirable[1].ID}
		assert.Contains(t, ids, lapsedSent.ID)
		assert.Contains(t, ids, lapsedPriced.ID)

		return nil
	})
	require.NoError(t, err)
}

func TestDiscountApprovalRuleRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewDiscountApprovalRuleRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		role, err := fixtures.CreateTestRole("approver_role", nil)
		require.NoError(t, err)

		_, err = fixtures.CreateTestApprovalRule("overall_quote", decimal.NewFromInt(5), decimal.NewFromInt(15), role.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestApprovalRule("line_item", decimal.NewFromInt(0), decimal.NewFromInt(10), role.ID)
		require.NoError(t, err)

		overall, err := repo.ListActiveByType(ctx, "overall_quote")
		require.NoError(t, err)
		require.Len(t, overall, 1)
		assert.Equal(t, "overall_quote", overall[0].DiscountType)

		line, err := repo.ListActiveByType(ctx, "line_item")
		require.NoError(t, err)
		assert.Len(t, line, 1)

		return nil
	})
	require.NoError(t, err)
}

func TestAuditLogRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewAuditLogRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		role, err := fixtures.CreateTestRole("audit_role", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)

		_, err = fixtures.CreateTestAuditLog(&user.ID, models.AuditActionLoginSuccess, true)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAuditLog(&user.ID, models.AuditActionLoginFailed, false)
		require.NoError(t, err)
		_, err = fixtures.CreateTestAuditLog(nil, models.AuditActionLoginFailed, false)
		require.NoError(t, err)

		t.Run("ByFilterAction", func(t *testing.T) {
			action := models.AuditActionLoginFailed
			entries, err := repo.ByFilter(ctx, models.AuditLogFilter{Action: &action}, "created_at DESC", 10, 0)
			require.NoError(t, err)
			assert.Len(t, entries, 2)
		})

		t.Run("ByFilterUser", func(t *testing.T) {
			entries, err := repo.ByFilter(ctx, models.AuditLogFilter{UserID: &user.ID}, "created_at DESC", 10, 0)
			require.NoError(t, err)
			assert.Len(t, entries, 2)
		})

		t.Run("ListFailedActions", func(t *testing.T) {
			entries, err := repo.ListFailedActions(ctx, 10, 0)
			require.NoError(t, err)
			assert.Len(t, entries, 2)
			for _, e := range entries {
				assert.False(t, utils.IsTrue(e.Success))
			}
		})

		return nil
	})
	require.NoError(t, err)
}
