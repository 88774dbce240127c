package pricing

import "fmt"

// UnknownFactError indicates a condition referenced a fact key the resolver
// does not support. The owning rule is treated as non-matching.
type UnknownFactError struct {
	Key FactKey
}

func (e *UnknownFactError) Error() string {
	return fmt.Sprintf("unknown fact key: %s", e.Key)
}

// TypeMismatchError indicates a fact resolved to a value whose type does not
// fit the operator it was paired with. Treated as non-match, never propagated.
type TypeMismatchError struct {
	Key      FactKey
	Operator Operator
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("fact %s cannot be evaluated with operator %s", e.Key, e.Operator)
}

// MissingComponentError indicates an add_cost_component action referenced a
// cost component id that is not in the snapshot. Only that action is skipped.
type MissingComponentError struct {
	RuleID      string
	ComponentID string
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("rule %s references missing cost component %s", e.RuleID, e.ComponentID)
}

// MalformedRuleError indicates a structurally invalid rule (missing fact or
// operator, value shape not matching the operator). The whole rule is skipped
// as if it were inactive.
type MalformedRuleError struct {
	RuleID string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("malformed rule %s: %s", e.RuleID, e.Reason)
}

// NoRuleCoversPercentageError indicates no active approval matrix rule's range
// contains the requested discount percentage. Surfaced to the caller instead
// of silently allowing the discount.
type NoRuleCoversPercentageError struct {
	DiscountType DiscountType
	Percentage   string
}

func (e *NoRuleCoversPercentageError) Error() string {
	return fmt.Sprintf("no %s approval rule covers discount of %s%%", e.DiscountType, e.Percentage)
}
