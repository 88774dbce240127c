package tests

import (
	"context"
	"testing"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/marafiq-hq/staffing-crm/repository"
	testingutil "github.com/marafiq-hq/staffing-crm/testing"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuoteFlow(testDB *testingutil.TestDB) businessflow.QuoteFlow {
	return businessflow.NewQuoteFlow(
		repository.NewQuoteRepository(testDB.DB),
		repository.NewQuoteLineItemRepository(testDB.DB),
		repository.NewLeadRepository(testDB.DB),
		repository.NewJobProfileRepository(testDB.DB),
		repository.NewJobRepository(testDB.DB),
		repository.NewNationalityRepository(testDB.DB),
		repository.NewCostComponentRepository(testDB.DB),
		repository.NewPricingRuleRepository(testDB.DB),
		repository.NewDiscountApprovalRuleRepository(testDB.DB),
		repository.NewUserRepository(testDB.DB),
		repository.NewRoleRepository(testDB.DB),
		repository.NewSystemSettingsRepository(testDB.DB),
		repository.NewLookupRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		pricing.NewEngine(utils.UTCNow),
		testDB.DB,
	)
}

// industryMarkupRule persists a 10 percent markup that fires for construction leads.
func industryMarkupRule(t *testing.T, testDB *testingutil.TestDB) *models.PricingRule {
	t.Helper()

	rule := &models.PricingRule{
		Name:     "Construction Markup",
		Code:     "construction_markup",
		Priority: 10,
		IsActive: utils.ToPtr(true),
		Conditions: pricing.ConditionSet{
			All: []pricing.Condition{
				{Fact: pricing.FactLeadIndustry, Operator: pricing.OpEqual, Value: "construction"},
			},
		},
		Actions: []pricing.Action{
			{Type: pricing.ActionApplyMarkupPercentage, Value: decimal.NewFromInt(10)},
		},
	}
	require.NoError(t, repository.NewPricingRuleRepository(testDB.DB).Save(testingutil.CreateTestContext(), rule))
	return rule
}

func TestQuoteLifecycle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestQuoteFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("sales_rep", nil)
		require.NoError(t, err)
		approverRole, err := fixtures.CreateTestRole("sales_manager", nil)
		require.NoError(t, err)

		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)
		user.MaxSelfApproveOverallDiscountPercent = decimal.NewFromInt(10)
		require.NoError(t, testDB.DB.Save(user).Error)

		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		lead, err := fixtures.CreateTestLead(account.ID, user.ID)
		require.NoError(t, err)

		job, err := fixtures.CreateTestJob()
		require.NoError(t, err)
		profile, err := fixtures.CreateTestJobProfile(job.ID, decimal.NewFromInt(1000))
		require.NoError(t, err)

		_, err = fixtures.CreateTestSettings(decimal.NewFromInt(15))
		require.NoError(t, err)

		// Overall discounts between 10 and 30 percent go to the sales manager
		_, err = fixtures.CreateTestApprovalRule("overall_quote", decimal.NewFromInt(10), decimal.NewFromInt(30), approverRole.ID)
		require.NoError(t, err)

		markupRule := industryMarkupRule(t, testDB)

		ctx := context.WithValue(testingutil.CreateTestContext(), utils.UserIDKey, user.ID)

		var quoteUUID string

		t.Run("CreateDraft", func(t *testing.T) {
			resp, err := flow.CreateQuote(ctx, &dto.CreateQuoteRequest{
				LeadID: lead.ID,
				LineItems: []dto.QuoteLineItemRequest{
					{
						JobID:                  &job.ID,
						JobProfileID:           &profile.ID,
						Quantity:               2,
						ContractDurationMonths: 12,
					},
				},
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp)

			assert.Equal(t, models.QuoteStatusDraft, resp.Quote.Status)
			assert.Contains(t, resp.Quote.Code, "QT-")
			require.Len(t, resp.Quote.LineItems, 1)
			assert.Equal(t, "1000.00", resp.Quote.LineItems[0].BaseMonthlyCost)
			assert.Equal(t, "0.00", resp.Quote.Subtotal)
			require.NotNil(t, resp.Quote.OwnerID)
			assert.Equal(t, user.ID, *resp.Quote.OwnerID)

			quoteUUID = resp.Quote.UUID
		})

		t.Run("UnknownLead", func(t *testing.T) {
			_, err := flow.CreateQuote(ctx, &dto.CreateQuoteRequest{
				LeadID: 999999,
				LineItems: []dto.QuoteLineItemRequest{
					{Quantity: 1, ContractDurationMonths: 12},
				},
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrLeadNotFound)
		})

		t.Run("LostLeadRejected", func(t *testing.T) {
			lost, err := fixtures.CreateTestLead(account.ID, user.ID)
			require.NoError(t, err)
			lost.Status = models.LeadStatusLost
			require.NoError(t, testDB.DB.Save(lost).Error)

			_, err = flow.CreateQuote(ctx, &dto.CreateQuoteRequest{
				LeadID: lost.ID,
				LineItems: []dto.QuoteLineItemRequest{
					{Quantity: 1, ContractDurationMonths: 12},
				},
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrInvalidLeadStatus)
		})

		t.Run("PriceQuote", func(t *testing.T) {
			resp, err := flow.PriceQuote(ctx, quoteUUID, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp)

			// 1000 monthly x 2 heads x 12 months = 24000, plus the 10 percent
			// construction markup. No VAT-bearing components are involved.
			assert.Equal(t, models.QuoteStatusPriced, resp.Quote.Status)
			assert.Equal(t, "26400.00", resp.Quote.Subtotal)
			assert.Equal(t, "0.00", resp.Quote.VATAmount)
			assert.Equal(t, "26400.00", resp.Quote.Total)
			assert.Equal(t, "SAR", resp.Quote.Currency)
			require.Len(t, resp.Quote.AppliedRuleIDs, 1)
			assert.Equal(t, markupRule.UUID.String(), resp.Quote.AppliedRuleIDs[0])
			assert.NotNil(t, resp.Quote.ValidUntil)
		})

		t.Run("RepriceIsIdempotent", func(t *testing.T) {
			resp, err := flow.PriceQuote(ctx, quoteUUID, metadata)
			require.NoError(t, err)
			assert.Equal(t, "26400.00", resp.Quote.Total)
		})

		t.Run("DiscountInvalidPercentage", func(t *testing.T) {
			_, err := flow.RequestDiscount(ctx, quoteUUID, &dto.RequestDiscountRequest{
				DiscountType: "overall_quote",
				Percentage:   "150",
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrInvalidDiscountValue)
		})

		t.Run("DiscountOutsideMatrix", func(t *testing.T) {
			// 50 percent exceeds the self-approval ceiling and no matrix row
			// covers it, so the request fails outright.
			_, err := flow.RequestDiscount(ctx, quoteUUID, &dto.RequestDiscountRequest{
				DiscountType: "overall_quote",
				Percentage:   "50",
			}, metadata)
			require.Error(t, err)

			var noRule *pricing.NoRuleCoversPercentageError
			assert.ErrorAs(t, err, &noRule)
		})

		t.Run("DiscountSelfApproved", func(t *testing.T) {
			resp, err := flow.RequestDiscount(ctx, quoteUUID, &dto.RequestDiscountRequest{
				DiscountType: "overall_quote",
				Percentage:   "5",
			}, metadata)
			require.NoError(t, err)
			assert.True(t, resp.SelfApproved)
			assert.Nil(t, resp.ApproverRoleID)

			current, err := flow.GetQuote(ctx, quoteUUID)
			require.NoError(t, err)
			assert.Equal(t, models.QuoteStatusPriced, current.Quote.Status)
			assert.Equal(t, "25080.00", current.Quote.Total)
		})

		t.Run("DiscountRoutedToApprover", func(t *testing.T) {
			resp, err := flow.RequestDiscount(ctx, quoteUUID, &dto.RequestDiscountRequest{
				DiscountType: "overall_quote",
				Percentage:   "20",
			}, metadata)
			require.NoError(t, err)
			assert.False(t, resp.SelfApproved)
			require.NotNil(t, resp.ApproverRoleID)
			assert.Equal(t, approverRole.ID, *resp.ApproverRoleID)
			require.NotNil(t, resp.ApproverRoleName)
			assert.Equal(t, "sales_manager", *resp.ApproverRoleName)

			current, err := flow.GetQuote(ctx, quoteUUID)
			require.NoError(t, err)
			assert.Equal(t, models.QuoteStatusPendingApproval, current.Quote.Status)
			// A routed discount is not applied until someone approves it
			assert.Equal(t, "25080.00", current.Quote.Total)
		})

		t.Run("DiscountRequiresPricedQuote", func(t *testing.T) {
			_, err := flow.RequestDiscount(ctx, quoteUUID, &dto.RequestDiscountRequest{
				DiscountType: "overall_quote",
				Percentage:   "5",
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrInvalidQuoteStatus)
		})

		t.Run("StatusTransitions", func(t *testing.T) {
			resp, err := flow.ChangeStatus(ctx, quoteUUID, &dto.ChangeQuoteStatusRequest{Status: models.QuoteStatusApproved}, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.QuoteStatusApproved, resp.Quote.Status)

			resp, err = flow.ChangeStatus(ctx, quoteUUID, &dto.ChangeQuoteStatusRequest{Status: models.QuoteStatusSent}, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.QuoteStatusSent, resp.Quote.Status)

			resp, err = flow.ChangeStatus(ctx, quoteUUID, &dto.ChangeQuoteStatusRequest{Status: models.QuoteStatusAccepted}, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.QuoteStatusAccepted, resp.Quote.Status)

			_, err = flow.ChangeStatus(ctx, quoteUUID, &dto.ChangeQuoteStatusRequest{Status: models.QuoteStatusDraft}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrInvalidQuoteTransition)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPriceQuoteWithDefaultComponents(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestQuoteFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("component_role", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)
		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		lead, err := fixtures.CreateTestLead(account.ID, user.ID)
		require.NoError(t, err)
		job, err := fixtures.CreateTestJob()
		require.NoError(t, err)

		_, err = fixtures.CreateTestSettings(decimal.NewFromInt(15))
		require.NoError(t, err)

		// A fixed 600 visa fee with VAT that every line for this profile carries
		visa, err := fixtures.CreateTestCostComponent(models.CostComponentMethod(pricing.CalcFixedAmount), decimal.NewFromInt(600), true)
		require.NoError(t, err)
		profile, err := fixtures.CreateTestJobProfile(job.ID, decimal.NewFromInt(1000), visa.Code)
		require.NoError(t, err)

		ctx := context.WithValue(testingutil.CreateTestContext(), utils.UserIDKey, user.ID)

		created, err := flow.CreateQuote(ctx, &dto.CreateQuoteRequest{
			LeadID: lead.ID,
			LineItems: []dto.QuoteLineItemRequest{
				{JobProfileID: &profile.ID, Quantity: 1, ContractDurationMonths: 12},
			},
		}, metadata)
		require.NoError(t, err)

		resp, err := flow.PriceQuote(ctx, created.Quote.UUID, metadata)
		require.NoError(t, err)

		// 1000 x 1 x 12 = 12000 base plus the 600 visa fee; VAT applies only
		// to the component.
		assert.Equal(t, "12600.00", resp.Quote.Subtotal)
		assert.Equal(t, "90.00", resp.Quote.VATAmount)
		assert.Equal(t, "12690.00", resp.Quote.Total)
		assert.Empty(t, resp.Diagnostics)

		return nil
	})
	require.NoError(t, err)
}

func TestPriceQuoteRequiresDraftOrPriced(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestQuoteFlow(testDB)
		quoteRepo := repository.NewQuoteRepository(testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("lock_role", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)
		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		lead, err := fixtures.CreateTestLead(account.ID, user.ID)
		require.NoError(t, err)
		job, err := fixtures.CreateTestJob()
		require.NoError(t, err)
		profile, err := fixtures.CreateTestJobProfile(job.ID, decimal.NewFromInt(1000))
		require.NoError(t, err)

		ctx := context.WithValue(testingutil.CreateTestContext(), utils.UserIDKey, user.ID)

		created, err := flow.CreateQuote(ctx, &dto.CreateQuoteRequest{
			LeadID: lead.ID,
			LineItems: []dto.QuoteLineItemRequest{
				{JobProfileID: &profile.ID, Quantity: 1, ContractDurationMonths: 6},
			},
		}, metadata)
		require.NoError(t, err)

		quote, err := quoteRepo.ByUUID(ctx, created.Quote.UUID)
		require.NoError(t, err)
		quote.Status = models.QuoteStatusAccepted
		require.NoError(t, quoteRepo.Update(ctx, quote))

		_, err = flow.PriceQuote(ctx, created.Quote.UUID, metadata)
		require.Error(t, err)
		assert.ErrorIs(t, err, businessflow.ErrQuoteNotEditable)

		return nil
	})
	require.NoError(t, err)
}
