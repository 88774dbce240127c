package pricing

import (
	"github.com/shopspring/decimal"
)

// DiscountType distinguishes line-item discounts from overall-quote discounts.
type DiscountType string

const (
	DiscountLineItem     DiscountType = "line_item"
	DiscountOverallQuote DiscountType = "overall_quote"
)

// Valid checks if the discount type is known.
func (d DiscountType) Valid() bool {
	return d == DiscountLineItem || d == DiscountOverallQuote
}

// ApprovalRule is the evaluation-time snapshot of one approval matrix row.
// The percentage range is half-open: [MinPercentage, MaxPercentage).
type ApprovalRule struct {
	ID                 string
	Name               string
	DiscountType       DiscountType
	MinPercentage      decimal.Decimal
	MaxPercentage      decimal.Decimal
	ApproverRoleID     string
	Priority           int
	Active             bool
	RequiresEscalation bool
	EscalationRoleID   string
}

// contains reports whether the rule's half-open range covers the percentage.
func (r ApprovalRule) contains(percentage decimal.Decimal) bool {
	return r.MinPercentage.LessThanOrEqual(percentage) && percentage.LessThan(r.MaxPercentage)
}

// SelfApprovalLimits carries the requesting user's per-type ceilings below
// which no approver is required. Values are percentages in [0, 100].
type SelfApprovalLimits struct {
	MaxLineDiscountPercent    decimal.Decimal
	MaxOverallDiscountPercent decimal.Decimal
}

func (l SelfApprovalLimits) limitFor(discountType DiscountType) decimal.Decimal {
	if discountType == DiscountOverallQuote {
		return l.MaxOverallDiscountPercent
	}
	return l.MaxLineDiscountPercent
}

// ApprovalDecision is the outcome of resolving an approver for a discount.
type ApprovalDecision struct {
	SelfApproved       bool   `json:"self_approved"`
	RuleID             string `json:"rule_id,omitempty"`
	ApproverRoleID     string `json:"approver_role_id,omitempty"`
	RequiresEscalation bool   `json:"requires_escalation"`
	EscalationRoleID   string `json:"escalation_role_id,omitempty"`
}

// ResolveApprover answers who must approve a discount of the given type and
// percentage. The requester's own self-approval limit is consulted first; at
// or below it no approver is required and the matrix is never consulted.
// Among active matrix rules of the matching type whose range contains the
// percentage, the highest priority wins, stable on input order. When no rule
// covers the percentage the resolver fails with NoRuleCoversPercentageError
// rather than silently allowing the discount.
func ResolveApprover(discountType DiscountType, percentage decimal.Decimal, rules []ApprovalRule, limits SelfApprovalLimits) (*ApprovalDecision, error) {
	if percentage.LessThanOrEqual(limits.limitFor(discountType)) {
		return &ApprovalDecision{SelfApproved: true}, nil
	}

	var winner *ApprovalRule
	for i := range rules {
		r := rules[i]
		if !r.Active || r.DiscountType != discountType {
			continue
		}
		if !r.contains(percentage) {
			continue
		}
		if winner == nil || r.Priority > winner.Priority {
			winner = &r
		}
	}

	if winner == nil {
		return nil, &NoRuleCoversPercentageError{
			DiscountType: discountType,
			Percentage:   percentage.String(),
		}
	}

	decision := &ApprovalDecision{
		RuleID:         winner.ID,
		ApproverRoleID: winner.ApproverRoleID,
	}
	if winner.RequiresEscalation {
		decision.RequiresEscalation = true
		decision.EscalationRoleID = winner.EscalationRoleID
	}
	return decision, nil
}
