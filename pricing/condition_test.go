package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() Context {
	return Context{
		LineItem: LineItem{
			Nationality:            "PH",
			JobID:                  "job-driver",
			JobProfileID:           "profile-driver-heavy",
			Quantity:               10,
			ContractDurationMonths: 24,
			SkillLevelID:           "skilled",
			City:                   "Riyadh",
			BaseCost:               decimal.NewFromInt(1000),
		},
		Lead: Lead{
			Industry: "Construction",
			Source:   "referral",
		},
	}
}

func TestResolve(t *testing.T) {
	ctx := testContext()

	t.Run("StringFacts", func(t *testing.T) {
		v, err := Resolve(ctx, FactLineItemNationality)
		require.NoError(t, err)
		assert.Equal(t, "PH", v)

		v, err = Resolve(ctx, FactLeadIndustry)
		require.NoError(t, err)
		assert.Equal(t, "Construction", v)
	})

	t.Run("NumericFacts", func(t *testing.T) {
		v, err := Resolve(ctx, FactLineItemQuantity)
		require.NoError(t, err)
		assert.Equal(t, float64(10), v)

		v, err = Resolve(ctx, FactLineItemContractDuration)
		require.NoError(t, err)
		assert.Equal(t, float64(24), v)
	})

	t.Run("UnknownFactFailsClosed", func(t *testing.T) {
		_, err := Resolve(ctx, FactKey("line_item.unknown_field"))
		require.Error(t, err)
		var unknownErr *UnknownFactError
		assert.ErrorAs(t, err, &unknownErr)
	})
}

func TestEvaluateOperators(t *testing.T) {
	t.Run("EqualIsCaseSensitive", func(t *testing.T) {
		assert.True(t, Evaluate("Riyadh", OpEqual, "Riyadh"))
		assert.False(t, Evaluate("Riyadh", OpEqual, "riyadh"))
		assert.True(t, Evaluate(float64(10), OpEqual, float64(10)))
	})

	t.Run("NotEqual", func(t *testing.T) {
		assert.True(t, Evaluate("PH", OpNotEqual, "IN"))
		assert.False(t, Evaluate("PH", OpNotEqual, "PH"))
	})

	t.Run("NumericComparisons", func(t *testing.T) {
		assert.True(t, Evaluate(float64(10), OpGreaterThan, float64(5)))
		assert.False(t, Evaluate(float64(5), OpGreaterThan, float64(10)))
		assert.True(t, Evaluate(float64(5), OpLessThan, float64(10)))
		assert.True(t, Evaluate(float64(10), OpGreaterThanOrEqual, float64(10)))
		assert.True(t, Evaluate(float64(10), OpLessThanOrEqual, float64(10)))
	})

	t.Run("NonNumericOperandsNeverMatch", func(t *testing.T) {
		assert.False(t, Evaluate("ten", OpGreaterThan, float64(5)))
		assert.False(t, Evaluate(float64(10), OpLessThan, "twenty"))
	})

	t.Run("BetweenIsInclusive", func(t *testing.T) {
		bounds := []any{float64(5), float64(15)}
		assert.True(t, Evaluate(float64(5), OpBetween, bounds))
		assert.True(t, Evaluate(float64(15), OpBetween, bounds))
		assert.True(t, Evaluate(float64(10), OpBetween, bounds))
		assert.False(t, Evaluate(float64(4.99), OpBetween, bounds))
		assert.False(t, Evaluate(float64(15.01), OpBetween, bounds))
	})

	t.Run("BetweenWithMissingBoundNeverMatches", func(t *testing.T) {
		assert.False(t, Evaluate(float64(10), OpBetween, []any{float64(5)}))
		assert.False(t, Evaluate(float64(10), OpBetween, float64(5)))
		assert.False(t, Evaluate(float64(10), OpBetween, nil))
	})

	t.Run("InMembership", func(t *testing.T) {
		assert.True(t, Evaluate("PH", OpIn, []any{"PH", "IN", "NP"}))
		assert.False(t, Evaluate("EG", OpIn, []any{"PH", "IN", "NP"}))
		assert.True(t, Evaluate(float64(24), OpIn, []any{float64(12), float64(24)}))
		assert.False(t, Evaluate("PH", OpIn, "PH"))
	})

	t.Run("ContainsIsCaseInsensitive", func(t *testing.T) {
		assert.True(t, Evaluate("Heavy Equipment Driver", OpContains, "equipment"))
		assert.False(t, Evaluate("Heavy Equipment Driver", OpContains, "plumber"))
	})

	t.Run("StartsWithIsCaseInsensitive", func(t *testing.T) {
		assert.True(t, Evaluate("Riyadh", OpStartsWith, "riy"))
		assert.False(t, Evaluate("Riyadh", OpStartsWith, "jed"))
	})

	t.Run("UnknownOperatorNeverMatches", func(t *testing.T) {
		assert.False(t, Evaluate("PH", Operator("regex"), ".*"))
	})
}

func TestConditionSetMatches(t *testing.T) {
	ctx := testContext()

	t.Run("EmptySetAlwaysMatches", func(t *testing.T) {
		assert.True(t, ConditionSet{}.Matches(ctx))
		assert.True(t, ConditionSet{All: []Condition{}}.Matches(ctx))
	})

	t.Run("AllIsLogicalAnd", func(t *testing.T) {
		cs := ConditionSet{All: []Condition{
			{Fact: FactLineItemNationality, Operator: OpEqual, Value: "PH"},
			{Fact: FactLineItemQuantity, Operator: OpGreaterThanOrEqual, Value: float64(5)},
		}}
		assert.True(t, cs.Matches(ctx))

		cs.All = append(cs.All, Condition{Fact: FactLeadIndustry, Operator: OpEqual, Value: "Hospitality"})
		assert.False(t, cs.Matches(ctx))
	})

	t.Run("AnyIsLogicalOr", func(t *testing.T) {
		cs := ConditionSet{Any: []Condition{
			{Fact: FactLeadIndustry, Operator: OpEqual, Value: "Hospitality"},
			{Fact: FactLeadIndustry, Operator: OpEqual, Value: "Construction"},
		}}
		assert.True(t, cs.Matches(ctx))

		cs = ConditionSet{Any: []Condition{
			{Fact: FactLeadIndustry, Operator: OpEqual, Value: "Hospitality"},
		}}
		assert.False(t, cs.Matches(ctx))
	})

	t.Run("NotNegates", func(t *testing.T) {
		cs := ConditionSet{Not: &ConditionSet{All: []Condition{
			{Fact: FactLineItemNationality, Operator: OpEqual, Value: "PH"},
		}}}
		assert.False(t, cs.Matches(ctx))

		cs = ConditionSet{Not: &ConditionSet{All: []Condition{
			{Fact: FactLineItemNationality, Operator: OpEqual, Value: "IN"},
		}}}
		assert.True(t, cs.Matches(ctx))
	})

	t.Run("UnknownFactFailsClosed", func(t *testing.T) {
		cs := ConditionSet{All: []Condition{
			{Fact: FactKey("line_item.unknown_field"), Operator: OpEqual, Value: "x"},
		}}
		assert.False(t, cs.Matches(ctx))
	})
}

func TestConditionValidate(t *testing.T) {
	t.Run("ValidCondition", func(t *testing.T) {
		c := Condition{Fact: FactLineItemQuantity, Operator: OpBetween, Value: []any{float64(1), float64(10)}}
		assert.NoError(t, c.Validate())
	})

	t.Run("MissingFact", func(t *testing.T) {
		c := Condition{Operator: OpEqual, Value: "x"}
		var malformed *MalformedRuleError
		assert.ErrorAs(t, c.Validate(), &malformed)
	})

	t.Run("UnknownFact", func(t *testing.T) {
		c := Condition{Fact: FactKey("lead.unknown"), Operator: OpEqual, Value: "x"}
		var unknown *UnknownFactError
		assert.ErrorAs(t, c.Validate(), &unknown)
	})

	t.Run("NumericOperatorOnStringFact", func(t *testing.T) {
		c := Condition{Fact: FactLineItemCity, Operator: OpGreaterThan, Value: float64(5)}
		var mismatch *TypeMismatchError
		assert.ErrorAs(t, c.Validate(), &mismatch)
	})

	t.Run("BetweenRequiresPair", func(t *testing.T) {
		c := Condition{Fact: FactLineItemQuantity, Operator: OpBetween, Value: float64(5)}
		var malformed *MalformedRuleError
		assert.ErrorAs(t, c.Validate(), &malformed)
	})

	t.Run("InRequiresArray", func(t *testing.T) {
		c := Condition{Fact: FactLineItemNationality, Operator: OpIn, Value: "PH"}
		var malformed *MalformedRuleError
		assert.ErrorAs(t, c.Validate(), &malformed)
	})

	t.Run("ScalarOperatorRejectsArray", func(t *testing.T) {
		c := Condition{Fact: FactLineItemNationality, Operator: OpEqual, Value: []any{"PH"}}
		var malformed *MalformedRuleError
		assert.ErrorAs(t, c.Validate(), &malformed)
	})
}
