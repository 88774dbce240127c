package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvalMatrix() []ApprovalRule {
	return []ApprovalRule{
		{
			ID:             "tier-supervisor",
			Name:           "Supervisor approval",
			DiscountType:   DiscountLineItem,
			MinPercentage:  decimal.NewFromInt(0),
			MaxPercentage:  decimal.NewFromInt(5),
			ApproverRoleID: "role-supervisor",
			Priority:       1,
			Active:         true,
		},
		{
			ID:             "tier-manager",
			Name:           "Manager approval",
			DiscountType:   DiscountLineItem,
			MinPercentage:  decimal.NewFromInt(5),
			MaxPercentage:  decimal.NewFromInt(15),
			ApproverRoleID: "role-manager",
			Priority:       1,
			Active:         true,
		},
		{
			ID:                 "tier-director",
			Name:               "Director approval",
			DiscountType:       DiscountLineItem,
			MinPercentage:      decimal.NewFromInt(15),
			MaxPercentage:      decimal.NewFromInt(40),
			ApproverRoleID:     "role-director",
			Priority:           1,
			Active:             true,
			RequiresEscalation: true,
			EscalationRoleID:   "role-ceo",
		},
	}
}

func TestResolveApprover(t *testing.T) {
	noLimits := SelfApprovalLimits{}

	t.Run("HalfOpenRangeBoundaryFallsInHigherTier", func(t *testing.T) {
		// 5 falls in [5, 15), not [0, 5).
		decision, err := ResolveApprover(DiscountLineItem, decimal.NewFromInt(5), approvalMatrix(), noLimits)
		require.NoError(t, err)
		assert.False(t, decision.SelfApproved)
		assert.Equal(t, "role-manager", decision.ApproverRoleID)
		assert.Equal(t, "tier-manager", decision.RuleID)
	})

	t.Run("LowTierMatch", func(t *testing.T) {
		decision, err := ResolveApprover(DiscountLineItem, decimal.NewFromFloat(3.5), approvalMatrix(), noLimits)
		require.NoError(t, err)
		assert.Equal(t, "role-supervisor", decision.ApproverRoleID)
		assert.False(t, decision.RequiresEscalation)
	})

	t.Run("EscalationSurfaced", func(t *testing.T) {
		decision, err := ResolveApprover(DiscountLineItem, decimal.NewFromInt(20), approvalMatrix(), noLimits)
		require.NoError(t, err)
		assert.Equal(t, "role-director", decision.ApproverRoleID)
		assert.True(t, decision.RequiresEscalation)
		assert.Equal(t, "role-ceo", decision.EscalationRoleID)
	})

	t.Run("SelfApprovalShortCircuitsMatrix", func(t *testing.T) {
		limits := SelfApprovalLimits{MaxLineDiscountPercent: decimal.NewFromInt(10)}
		// 7% <= 10% limit: self-approved even though matrix rules cover 7.
		decision, err := ResolveApprover(DiscountLineItem, decimal.NewFromInt(7), approvalMatrix(), limits)
		require.NoError(t, err)
		assert.True(t, decision.SelfApproved)
		assert.Empty(t, decision.ApproverRoleID)
	})

	t.Run("SelfApprovalLimitIsPerDiscountType", func(t *testing.T) {
		limits := SelfApprovalLimits{MaxOverallDiscountPercent: decimal.NewFromInt(10)}
		// Overall limit does not cover a line item discount.
		decision, err := ResolveApprover(DiscountLineItem, decimal.NewFromInt(7), approvalMatrix(), limits)
		require.NoError(t, err)
		assert.False(t, decision.SelfApproved)
		assert.Equal(t, "role-manager", decision.ApproverRoleID)
	})

	t.Run("NoCoveringRuleIsAnExplicitError", func(t *testing.T) {
		_, err := ResolveApprover(DiscountLineItem, decimal.NewFromInt(60), approvalMatrix(), noLimits)
		require.Error(t, err)
		var noRule *NoRuleCoversPercentageError
		assert.ErrorAs(t, err, &noRule)
	})

	t.Run("DiscountTypeFilters", func(t *testing.T) {
		_, err := ResolveApprover(DiscountOverallQuote, decimal.NewFromInt(3), approvalMatrix(), noLimits)
		var noRule *NoRuleCoversPercentageError
		assert.ErrorAs(t, err, &noRule)
	})

	t.Run("InactiveRulesIgnored", func(t *testing.T) {
		rules := approvalMatrix()
		rules[1].Active = false
		_, err := ResolveApprover(DiscountLineItem, decimal.NewFromInt(7), rules, SelfApprovalLimits{})
		var noRule *NoRuleCoversPercentageError
		assert.ErrorAs(t, err, &noRule)
	})

	t.Run("HighestPriorityWinsStableOnTies", func(t *testing.T) {
		rules := []ApprovalRule{
			{ID: "first", DiscountType: DiscountOverallQuote, MinPercentage: decimal.Zero, MaxPercentage: decimal.NewFromInt(50), ApproverRoleID: "role-a", Priority: 1, Active: true},
			{ID: "second", DiscountType: DiscountOverallQuote, MinPercentage: decimal.Zero, MaxPercentage: decimal.NewFromInt(50), ApproverRoleID: "role-b", Priority: 1, Active: true},
			{ID: "preferred", DiscountType: DiscountOverallQuote, MinPercentage: decimal.Zero, MaxPercentage: decimal.NewFromInt(50), ApproverRoleID: "role-c", Priority: 9, Active: true},
		}

		decision, err := ResolveApprover(DiscountOverallQuote, decimal.NewFromInt(10), rules, SelfApprovalLimits{})
		require.NoError(t, err)
		assert.Equal(t, "preferred", decision.RuleID)

		// Drop the high-priority rule: ties resolve to input order.
		decision, err = ResolveApprover(DiscountOverallQuote, decimal.NewFromInt(10), rules[:2], SelfApprovalLimits{})
		require.NoError(t, err)
		assert.Equal(t, "first", decision.RuleID)
	})
}
