package tests

import (
	"context"
	"testing"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/marafiq-hq/staffing-crm/repository"
	testingutil "github.com/marafiq-hq/staffing-crm/testing"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingRuleFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewPricingRuleFlow(
			repository.NewPricingRuleRepository(testDB.DB),
			repository.NewCostComponentRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			testDB.DB,
		)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("rule_author", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)
		ctx := context.WithValue(testingutil.CreateTestContext(), utils.UserIDKey, user.ID)

		markupActions := []pricing.Action{
			{Type: pricing.ActionApplyMarkupPercentage, Value: decimal.NewFromInt(8)},
		}

		t.Run("CreateRule", func(t *testing.T) {
			resp, err := flow.CreateRule(ctx, &dto.CreatePricingRuleRequest{
				Name:     "Referral Markup",
				Code:     "Referral_Markup",
				Priority: 50,
				Conditions: pricing.ConditionSet{
					All: []pricing.Condition{
						{Fact: pricing.FactLeadSource, Operator: pricing.OpEqual, Value: "referral"},
					},
				},
				Actions: markupActions,
			}, metadata)
			require.NoError(t, err)

			// Codes are normalized to lower case on entry
			assert.Equal(t, "referral_markup", resp.Rule.Code)
			assert.Equal(t, 50, resp.Rule.Priority)
			assert.True(t, utils.IsTrue(resp.Rule.IsActive))
		})

		t.Run("DuplicateCode", func(t *testing.T) {
			_, err := flow.CreateRule(ctx, &dto.CreatePricingRuleRequest{
				Name:    "Duplicate",
				Code:    "referral_markup",
				Actions: markupActions,
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrRuleCodeTaken)
		})

		t.Run("UnknownOperatorRejected", func(t *testing.T) {
			_, err := flow.CreateRule(ctx, &dto.CreatePricingRuleRequest{
				Name: "Bad Operator",
				Code: "bad_operator",
				Conditions: pricing.ConditionSet{
					All: []pricing.Condition{
						{Fact: pricing.FactLeadIndustry, Operator: "matches", Value: "construction"},
					},
				},
				Actions: markupActions,
			}, metadata)
			require.Error(t, err)

			var malformed *pricing.MalformedRuleError
			assert.ErrorAs(t, err, &malformed)
		})

		t.Run("UnknownActionTypeRejected", func(t *testing.T) {
			_, err := flow.CreateRule(ctx, &dto.CreatePricingRuleRequest{
				Name: "Bad Action",
				Code: "bad_action",
				Actions: []pricing.Action{
					{Type: "multiply_total", Value: decimal.NewFromInt(2)},
				},
			}, metadata)
			require.Error(t, err)

			var malformed *pricing.MalformedRuleError
			assert.ErrorAs(t, err, &malformed)
		})

		t.Run("UnknownComponentReferenceRejected", func(t *testing.T) {
			_, err := flow.CreateRule(ctx, &dto.CreatePricingRuleRequest{
				Name: "Ghost Component",
				Code: "ghost_component",
				Actions: []pricing.Action{
					{Type: pricing.ActionAddCostComponent, ComponentID: "comp-does-not-exist"},
				},
			}, metadata)
			require.Error(t, err)
		})

		t.Run("DeactivateRule", func(t *testing.T) {
			created, err := flow.CreateRule(ctx, &dto.CreatePricingRuleRequest{
				Name:    "Short Lived",
				Code:    "short_lived",
				Actions: markupActions,
			}, metadata)
			require.NoError(t, err)

			resp, err := flow.DeactivateRule(ctx, created.Rule.UUID, metadata)
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(resp.Rule.IsActive))

			listed, err := flow.ListRules(ctx, true)
			require.NoError(t, err)
			for _, item := range listed.Items {
				assert.NotEqual(t, "short_lived", item.Code)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestApprovalMatrixFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := businessflow.NewApprovalMatrixFlow(
			repository.NewDiscountApprovalRuleRepository(testDB.DB),
			repository.NewRoleRepository(testDB.DB),
			repository.NewAuditLogRepository(testDB.DB),
			testDB.DB,
		)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("matrix_author", nil)
		require.NoError(t, err)
		approverRole, err := fixtures.CreateTestRole("matrix_approver", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)
		ctx := context.WithValue(testingutil.CreateTestContext(), utils.UserIDKey, user.ID)

		t.Run("CreateRow", func(t *testing.T) {
			resp, err := flow.CreateRule(ctx, &dto.CreateApprovalRuleRequest{
				Name:           "Manager tier",
				DiscountType:   "overall_quote",
				MinPercentage:  "5.00",
				MaxPercentage:  "15.00",
				ApproverRoleID: approverRole.ID,
				Priority:       10,
			}, metadata)
			require.NoError(t, err)

			assert.Equal(t, "overall_quote", resp.Rule.DiscountType)
			assert.Equal(t, approverRole.ID, resp.Rule.ApproverRoleID)
		})

		t.Run("InvertedRangeRejected", func(t *testing.T) {
			_, err := flow.CreateRule(ctx, &dto.CreateApprovalRuleRequest{
				Name:           "Backwards",
				DiscountType:   "overall_quote",
				MinPercentage:  "20.00",
				MaxPercentage:  "10.00",
				ApproverRoleID: approverRole.ID,
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrInvalidApprovalRange)
		})

		t.Run("UnknownRoleRejected", func(t *testing.T) {
			_, err := flow.CreateRule(ctx, &dto.CreateApprovalRuleRequest{
				Name:           "No Such Role",
				DiscountType:   "line_item",
				MinPercentage:  "0.00",
				MaxPercentage:  "10.00",
				ApproverRoleID: 999999,
			}, metadata)
			require.Error(t, err)
			assert.ErrorIs(t, err, businessflow.ErrRoleNotFound)
		})

		t.Run("InvalidDiscountTypeRejected", func(t *testing.T) {
			_, err := flow.CreateRule(ctx, &dto.CreateApprovalRuleRequest{
				Name:           "Bad Type",
				DiscountType:   "per_quote",
				MinPercentage:  "0.00",
				MaxPercentage:  "10.00",
				ApproverRoleID: approverRole.ID,
			}, metadata)
			require.Error(t, err)
		})

		t.Run("ListByType", func(t *testing.T) {
			resp, err := flow.ListRules(ctx, "overall_quote")
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Manager tier", resp.Items[0].Name)
		})

		return nil
	})
	require.NoError(t, err)
}
