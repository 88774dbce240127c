package pricing

import (
	"strings"
)

// Operator is a comparison applied between a resolved fact value and a
// condition value.
type Operator string

const (
	OpEqual              Operator = "equal"
	OpNotEqual           Operator = "not_equal"
	OpGreaterThan        Operator = "greater_than"
	OpLessThan           Operator = "less_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpBetween            Operator = "between"
	OpIn                 Operator = "in"
	OpContains           Operator = "contains"
	OpStartsWith         Operator = "starts_with"
)

// Valid checks if the operator is one the evaluator understands.
func (o Operator) Valid() bool {
	switch o {
	case OpEqual, OpNotEqual,
		OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual,
		OpBetween, OpIn, OpContains, OpStartsWith:
		return true
	default:
		return false
	}
}

// Condition is a single fact/operator/value test. Value shape depends on the
// operator: between requires a 2-element array, in requires an array, all
// other operators require a scalar.
type Condition struct {
	Fact     FactKey  `json:"fact"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// ConditionSet groups conditions. Only All is authored today; Any and Not are
// evaluated so the model can grow without a breaking change. An empty set
// matches unconditionally.
type ConditionSet struct {
	All []Condition   `json:"all,omitempty"`
	Any []Condition   `json:"any,omitempty"`
	Not *ConditionSet `json:"not,omitempty"`
}

// IsEmpty reports whether the set has no conditions at any level.
func (cs ConditionSet) IsEmpty() bool {
	return len(cs.All) == 0 && len(cs.Any) == 0 && cs.Not == nil
}

// Matches evaluates the set against a context: logical AND over All, logical
// OR over Any, negation of Not, all three combined conjunctively. Evaluation
// is fail-closed: a condition that cannot be evaluated counts as false.
func (cs ConditionSet) Matches(ctx Context) bool {
	for _, c := range cs.All {
		if !evaluateCondition(ctx, c) {
			return false
		}
	}

	if len(cs.Any) > 0 {
		matched := false
		for _, c := range cs.Any {
			if evaluateCondition(ctx, c) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if cs.Not != nil && cs.Not.Matches(ctx) {
		return false
	}

	return true
}

// Validate checks structural invariants for authoring time: known fact keys,
// known operators, and value shapes matching the operator.
func (cs ConditionSet) Validate() error {
	for _, c := range cs.All {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for _, c := range cs.Any {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if cs.Not != nil {
		return cs.Not.Validate()
	}
	return nil
}

// Validate checks a single condition's structure.
func (c Condition) Validate() error {
	if c.Fact == "" {
		return &MalformedRuleError{Reason: "condition is missing fact"}
	}
	if !IsSupportedFactKey(c.Fact) {
		return &UnknownFactError{Key: c.Fact}
	}
	if !c.Operator.Valid() {
		return &MalformedRuleError{Reason: "condition has unknown operator " + string(c.Operator)}
	}
	switch c.Operator {
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual, OpBetween:
		if !isNumericFact(c.Fact) {
			return &TypeMismatchError{Key: c.Fact, Operator: c.Operator}
		}
	}
	switch c.Operator {
	case OpBetween:
		arr, ok := toSlice(c.Value)
		if !ok || len(arr) != 2 {
			return &MalformedRuleError{Reason: "between requires a [lo, hi] pair"}
		}
	case OpIn:
		if _, ok := toSlice(c.Value); !ok {
			return &MalformedRuleError{Reason: "in requires an array of values"}
		}
	default:
		if _, ok := toSlice(c.Value); ok {
			return &MalformedRuleError{Reason: string(c.Operator) + " requires a scalar value"}
		}
	}
	return nil
}

// isNumericFact reports whether the fact key resolves to a number.
func isNumericFact(key FactKey) bool {
	switch key {
	case FactLineItemQuantity, FactLineItemContractDuration:
		return true
	default:
		return false
	}
}

func evaluateCondition(ctx Context, c Condition) bool {
	fact, err := Resolve(ctx, c.Fact)
	if err != nil {
		// Fail closed: unknown facts never match.
		return false
	}
	return Evaluate(fact, c.Operator, c.Value)
}

// Evaluate applies the operator semantics to a resolved fact value and a
// condition value. Any malformed pairing yields non-match rather than an
// error so that a single bad rule can never abort an evaluation pass.
func Evaluate(factValue any, op Operator, conditionValue any) bool {
	switch op {
	case OpEqual:
		return looseEqual(factValue, conditionValue)
	case OpNotEqual:
		return !looseEqual(factValue, conditionValue)
	case OpGreaterThan:
		f, c, ok := numericPair(factValue, conditionValue)
		return ok && f > c
	case OpLessThan:
		f, c, ok := numericPair(factValue, conditionValue)
		return ok && f < c
	case OpGreaterThanOrEqual:
		f, c, ok := numericPair(factValue, conditionValue)
		return ok && f >= c
	case OpLessThanOrEqual:
		f, c, ok := numericPair(factValue, conditionValue)
		return ok && f <= c
	case OpBetween:
		arr, ok := toSlice(conditionValue)
		if !ok || len(arr) != 2 {
			return false
		}
		f, ok := toNumber(factValue)
		if !ok {
			return false
		}
		lo, okLo := toNumber(arr[0])
		hi, okHi := toNumber(arr[1])
		if !okLo || !okHi {
			return false
		}
		return lo <= f && f <= hi
	case OpIn:
		arr, ok := toSlice(conditionValue)
		if !ok {
			return false
		}
		for _, v := range arr {
			if looseEqual(factValue, v) {
				return true
			}
		}
		return false
	case OpContains:
		f, c, ok := stringPair(factValue, conditionValue)
		return ok && strings.Contains(strings.ToLower(f), strings.ToLower(c))
	case OpStartsWith:
		f, c, ok := stringPair(factValue, conditionValue)
		return ok && strings.HasPrefix(strings.ToLower(f), strings.ToLower(c))
	default:
		return false
	}
}

// looseEqual compares scalars: numbers numerically, everything else as
// case-sensitive strings. Mixed string/number never matches.
func looseEqual(a, b any) bool {
	if fa, ok := toNumber(a); ok {
		fb, okB := toNumber(b)
		return okB && fa == fb
	}
	sa, okA := toString(a)
	sb, okB := toString(b)
	return okA && okB && sa == sb
}

func numericPair(a, b any) (float64, float64, bool) {
	fa, okA := toNumber(a)
	fb, okB := toNumber(b)
	return fa, fb, okA && okB
}

func stringPair(a, b any) (string, string, bool) {
	sa, okA := toString(a)
	sb, okB := toString(b)
	return sa, sb, okA && okB
}

// toNumber coerces condition/fact scalars that arrive from JSON decoding.
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

func toString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func toSlice(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		out := make([]any, 0, len(val))
		for _, s := range val {
			out = append(out, s)
		}
		return out, true
	case []float64:
		out := make([]any, 0, len(val))
		for _, f := range val {
			out = append(out, f)
		}
		return out, true
	default:
		return nil, false
	}
}
