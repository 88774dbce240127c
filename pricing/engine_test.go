package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func unconditionalRule(id string, priority int, actions ...Action) Rule {
	return Rule{
		ID:       id,
		Name:     id,
		Priority: priority,
		Active:   true,
		Actions:  actions,
	}
}

func TestEngineEvaluate(t *testing.T) {
	engine := NewEngine(fixedClock())
	ctx := testContext()
	settings := Settings{VATRate: decimal.NewFromInt(15), Currency: "SAR"}

	t.Run("ZeroActiveRulesYieldsEmptyResult", func(t *testing.T) {
		res := engine.Evaluate(ctx, nil, nil, settings)
		assert.Empty(t, res.AppliedRuleIDs)
		assert.Empty(t, res.Lines)
		assert.True(t, res.Subtotal.Equal(ctx.LineItem.BaseCost))
		assert.True(t, res.Total.Equal(ctx.LineItem.BaseCost))
	})

	t.Run("FixedAmountComponentWithVAT", func(t *testing.T) {
		components := []Component{{
			ID:            "comp-medical",
			Name:          "Medical Insurance",
			Method:        CalcFixedAmount,
			Value:         decimal.NewFromInt(50),
			VATApplicable: true,
		}}
		rules := []Rule{unconditionalRule("r1", 10, Action{Type: ActionAddCostComponent, ComponentID: "comp-medical"})}

		res := engine.Evaluate(ctx, rules, components, settings)
		require.Len(t, res.Lines, 1)
		assert.True(t, res.Lines[0].Amount.Equal(decimal.NewFromInt(50)))
		assert.True(t, res.Lines[0].VATAmount.Equal(decimal.NewFromFloat(7.5)))
		assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(1050)))
		assert.True(t, res.VATAmount.Equal(decimal.NewFromFloat(7.5)))
		assert.True(t, res.Total.Equal(decimal.NewFromFloat(1057.5)))
	})

	t.Run("PercentageOfBaseComponent", func(t *testing.T) {
		components := []Component{{
			ID:     "comp-admin",
			Name:   "Admin Fee",
			Method: CalcPercentageOfBase,
			Value:  decimal.NewFromInt(10),
		}}
		rules := []Rule{unconditionalRule("r1", 10, Action{Type: ActionAddCostComponent, ComponentID: "comp-admin"})}

		res := engine.Evaluate(ctx, rules, components, settings)
		require.Len(t, res.Lines, 1)
		// 10% of the 1000 base cost.
		assert.True(t, res.Lines[0].Amount.Equal(decimal.NewFromInt(100)))
		assert.True(t, res.Lines[0].VATAmount.IsZero())
	})

	t.Run("PerUnitQuantityComponent", func(t *testing.T) {
		components := []Component{{
			ID:     "comp-visa",
			Name:   "Visa Processing",
			Method: CalcPerUnitQuantity,
			Value:  decimal.NewFromInt(25),
		}}
		rules := []Rule{unconditionalRule("r1", 10, Action{Type: ActionAddCostComponent, ComponentID: "comp-visa"})}

		res := engine.Evaluate(ctx, rules, components, settings)
		require.Len(t, res.Lines, 1)
		// 25 per unit, quantity 10.
		assert.True(t, res.Lines[0].Amount.Equal(decimal.NewFromInt(250)))
	})

	t.Run("MarkupAndDiscountUsePreActionSubtotal", func(t *testing.T) {
		rules := []Rule{unconditionalRule("r1", 10,
			Action{Type: ActionApplyMarkupPercentage, Value: decimal.NewFromInt(10)},
			Action{Type: ActionApplyMarkupPercentage, Value: decimal.NewFromInt(10)},
		)}

		res := engine.Evaluate(ctx, rules, nil, settings)
		require.Len(t, res.Lines, 2)
		// Both markups computed against the 1000 subtotal captured when the
		// rule matched, not a running product: 1000 + 100 + 100.
		assert.True(t, res.Lines[0].Amount.Equal(decimal.NewFromInt(100)))
		assert.True(t, res.Lines[1].Amount.Equal(decimal.NewFromInt(100)))
		assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("DiscountSubtracts", func(t *testing.T) {
		rules := []Rule{unconditionalRule("r1", 10,
			Action{Type: ActionApplyDiscountPercentage, Value: decimal.NewFromInt(5)},
		)}

		res := engine.Evaluate(ctx, rules, nil, settings)
		require.Len(t, res.Lines, 1)
		assert.True(t, res.Lines[0].Amount.Equal(decimal.NewFromInt(-50)))
		assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(950)))
	})

	t.Run("PriorityOrderingIsDescendingAndStable", func(t *testing.T) {
		rules := []Rule{
			unconditionalRule("low", 1),
			unconditionalRule("high", 100),
			unconditionalRule("mid-a", 50),
			unconditionalRule("mid-b", 50),
		}

		res := engine.Evaluate(ctx, rules, nil, settings)
		assert.Equal(t, []string{"high", "mid-a", "mid-b", "low"}, res.AppliedRuleIDs)
	})

	t.Run("StopIfMatchedShortCircuits", func(t *testing.T) {
		stopper := unconditionalRule("stopper", 50)
		stopper.StopIfMatched = true
		rules := []Rule{
			unconditionalRule("high", 100),
			stopper,
			unconditionalRule("low", 1),
		}

		res := engine.Evaluate(ctx, rules, nil, settings)
		assert.Equal(t, []string{"high", "stopper"}, res.AppliedRuleIDs)
	})

	t.Run("StopIfMatchedOnNonMatchingRuleDoesNotStop", func(t *testing.T) {
		stopper := Rule{
			ID:            "stopper",
			Priority:      50,
			Active:        true,
			StopIfMatched: true,
			Conditions: ConditionSet{All: []Condition{
				{Fact: FactLeadIndustry, Operator: OpEqual, Value: "Hospitality"},
			}},
		}
		rules := []Rule{stopper, unconditionalRule("low", 1)}

		res := engine.Evaluate(ctx, rules, nil, settings)
		assert.Equal(t, []string{"low"}, res.AppliedRuleIDs)
	})

	t.Run("InactiveAndOutOfWindowRulesAreSkipped", func(t *testing.T) {
		past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		pastEnd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		future := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

		inactive := unconditionalRule("inactive", 90)
		inactive.Active = false
		expired := unconditionalRule("expired", 80)
		expired.FromDate = &past
		expired.ToDate = &pastEnd
		notYet := unconditionalRule("not-yet", 70)
		notYet.FromDate = &future
		current := unconditionalRule("current", 60)
		current.FromDate = &past

		res := engine.Evaluate(ctx, []Rule{inactive, expired, notYet, current}, nil, settings)
		assert.Equal(t, []string{"current"}, res.AppliedRuleIDs)
	})

	t.Run("MissingComponentSkipsActionNotRule", func(t *testing.T) {
		components := []Component{{
			ID:     "comp-known",
			Name:   "Known",
			Method: CalcFixedAmount,
			Value:  decimal.NewFromInt(30),
		}}
		rules := []Rule{
			unconditionalRule("r1", 10,
				Action{Type: ActionAddCostComponent, ComponentID: "comp-missing"},
				Action{Type: ActionAddCostComponent, ComponentID: "comp-known"},
			),
			unconditionalRule("r2", 5,
				Action{Type: ActionAddCostComponent, ComponentID: "comp-known"},
			),
		}

		res := engine.Evaluate(ctx, rules, components, settings)
		assert.Equal(t, []string{"r1", "r2"}, res.AppliedRuleIDs)
		require.Len(t, res.Lines, 2)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, "r1", res.Diagnostics[0].RuleID)
		assert.Contains(t, res.Diagnostics[0].Message, "comp-missing")
		assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(1060)))
	})

	t.Run("MalformedRuleIsSkippedWithDiagnostic", func(t *testing.T) {
		malformed := Rule{
			ID:       "bad",
			Priority: 100,
			Active:   true,
			Conditions: ConditionSet{All: []Condition{
				{Fact: FactLineItemQuantity, Operator: OpBetween, Value: float64(5)},
			}},
		}
		rules := []Rule{malformed, unconditionalRule("good", 1)}

		res := engine.Evaluate(ctx, rules, nil, settings)
		assert.Equal(t, []string{"good"}, res.AppliedRuleIDs)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, "bad", res.Diagnostics[0].RuleID)
	})

	t.Run("UnknownFactNeverThrows", func(t *testing.T) {
		rules := []Rule{
			{
				ID:       "unknown-fact",
				Priority: 100,
				Active:   true,
				Conditions: ConditionSet{All: []Condition{
					{Fact: FactKey("line_item.unknown_field"), Operator: OpEqual, Value: "x"},
				}},
			},
			unconditionalRule("fallback", 1),
		}

		var res Result
		assert.NotPanics(t, func() {
			res = engine.Evaluate(ctx, rules, nil, settings)
		})
		assert.Equal(t, []string{"fallback"}, res.AppliedRuleIDs)
	})

	t.Run("DefaultVATRateApplies", func(t *testing.T) {
		components := []Component{{
			ID:            "comp-fee",
			Name:          "Fee",
			Method:        CalcFixedAmount,
			Value:         decimal.NewFromInt(100),
			VATApplicable: true,
		}}
		rules := []Rule{unconditionalRule("r1", 10, Action{Type: ActionAddCostComponent, ComponentID: "comp-fee"})}

		res := engine.Evaluate(ctx, rules, components, Settings{Currency: "SAR"})
		assert.True(t, res.VATAmount.Equal(decimal.NewFromInt(15)))
	})

	t.Run("EvaluationIsIdempotent", func(t *testing.T) {
		components := []Component{{
			ID:            "comp-medical",
			Name:          "Medical Insurance",
			Method:        CalcFixedAmount,
			Value:         decimal.NewFromInt(50),
			VATApplicable: true,
		}}
		rules := []Rule{
			unconditionalRule("r1", 10, Action{Type: ActionAddCostComponent, ComponentID: "comp-medical"}),
			unconditionalRule("r2", 5, Action{Type: ActionApplyMarkupPercentage, Value: decimal.NewFromInt(8)}),
		}

		first := engine.Evaluate(ctx, rules, components, settings)
		second := engine.Evaluate(ctx, rules, components, settings)
		assert.Equal(t, first.AppliedRuleIDs, second.AppliedRuleIDs)
		assert.True(t, first.Subtotal.Equal(second.Subtotal))
		assert.True(t, first.VATAmount.Equal(second.VATAmount))
		assert.True(t, first.Total.Equal(second.Total))
		assert.Equal(t, len(first.Lines), len(second.Lines))
	})

	t.Run("ConditionalRuleMatchesContext", func(t *testing.T) {
		rules := []Rule{
			{
				ID:       "construction-markup",
				Priority: 10,
				Active:   true,
				Conditions: ConditionSet{All: []Condition{
					{Fact: FactLeadIndustry, Operator: OpEqual, Value: "Construction"},
					{Fact: FactLineItemQuantity, Operator: OpBetween, Value: []any{float64(5), float64(50)}},
				}},
				Actions: []Action{{Type: ActionApplyMarkupPercentage, Value: decimal.NewFromInt(12)}},
			},
		}

		res := engine.Evaluate(ctx, rules, nil, settings)
		assert.Equal(t, []string{"construction-markup"}, res.AppliedRuleIDs)
		assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(1120)))
	})
}
