// Package pricing implements the quote pricing rule engine: fact resolution,
// condition evaluation, prioritized rule application, and discount approval
// resolution. The package is pure: it performs no I/O and never mutates its
// inputs; callers load full snapshots of rules, components, and settings
// before each evaluation pass.
package pricing

import (
	"github.com/shopspring/decimal"
)

// FactKey identifies a resolvable attribute of a pricing context. Keys are
// fixed dotted paths rooted at line_item.* or lead.*.
type FactKey string

const (
	FactLineItemNationality      FactKey = "line_item.nationality"
	FactLineItemJobID            FactKey = "line_item.job_id"
	FactLineItemJobProfileID     FactKey = "line_item.job_profile_id"
	FactLineItemQuantity         FactKey = "line_item.quantity"
	FactLineItemContractDuration FactKey = "line_item.contract_duration_months"
	FactLineItemSkillLevelID     FactKey = "line_item.skill_level_id"
	FactLineItemCity             FactKey = "line_item.city"
	FactLeadIndustry             FactKey = "lead.industry"
	FactLeadSource               FactKey = "lead.source"
)

// SupportedFactKeys lists every fact key the resolver understands, for
// authoring-time validation of rule conditions.
func SupportedFactKeys() []FactKey {
	return []FactKey{
		FactLineItemNationality,
		FactLineItemJobID,
		FactLineItemJobProfileID,
		FactLineItemQuantity,
		FactLineItemContractDuration,
		FactLineItemSkillLevelID,
		FactLineItemCity,
		FactLeadIndustry,
		FactLeadSource,
	}
}

// IsSupportedFactKey reports whether the resolver can resolve the given key.
func IsSupportedFactKey(key FactKey) bool {
	for _, k := range SupportedFactKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// LineItem is the snapshot of a quote line item used during evaluation.
type LineItem struct {
	Nationality            string
	JobID                  string
	JobProfileID           string
	Quantity               int
	ContractDurationMonths int
	SkillLevelID           string
	City                   string
	// BaseCost is the starting subtotal the rule pass adjusts.
	BaseCost decimal.Decimal
}

// Lead is the snapshot of the parent lead of the quote being priced.
type Lead struct {
	Industry string
	Source   string
}

// Context is the immutable input to one evaluation pass.
type Context struct {
	LineItem LineItem
	Lead     Lead
}

// Resolve extracts the typed value of a fact from the context. Unknown keys
// fail closed with UnknownFactError; callers treat that as "condition cannot
// evaluate" rather than a crash.
func Resolve(ctx Context, key FactKey) (any, error) {
	switch key {
	case FactLineItemNationality:
		return ctx.LineItem.Nationality, nil
	case FactLineItemJobID:
		return ctx.LineItem.JobID, nil
	case FactLineItemJobProfileID:
		return ctx.LineItem.JobProfileID, nil
	case FactLineItemQuantity:
		return float64(ctx.LineItem.Quantity), nil
	case FactLineItemContractDuration:
		return float64(ctx.LineItem.ContractDurationMonths), nil
	case FactLineItemSkillLevelID:
		return ctx.LineItem.SkillLevelID, nil
	case FactLineItemCity:
		return ctx.LineItem.City, nil
	case FactLeadIndustry:
		return ctx.Lead.Industry, nil
	case FactLeadSource:
		return ctx.Lead.Source, nil
	default:
		return nil, &UnknownFactError{Key: key}
	}
}
