package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ActionType tags the three priced actions a rule can apply.
type ActionType string

const (
	ActionAddCostComponent        ActionType = "add_cost_component"
	ActionApplyMarkupPercentage   ActionType = "apply_markup_percentage"
	ActionApplyDiscountPercentage ActionType = "apply_discount_percentage"
)

// Valid checks if the action type is one the applicator understands.
func (a ActionType) Valid() bool {
	switch a {
	case ActionAddCostComponent, ActionApplyMarkupPercentage, ActionApplyDiscountPercentage:
		return true
	default:
		return false
	}
}

// Action is one priced adjustment attached to a rule. ComponentID is set for
// add_cost_component; Value carries the percentage for the other two kinds.
type Action struct {
	Type        ActionType      `json:"type"`
	ComponentID string          `json:"component_id,omitempty"`
	Value       decimal.Decimal `json:"value,omitempty"`
}

// Validate checks the action's structure for authoring time.
func (a Action) Validate() error {
	if !a.Type.Valid() {
		return &MalformedRuleError{Reason: "action has unknown type " + string(a.Type)}
	}
	if a.Type == ActionAddCostComponent && a.ComponentID == "" {
		return &MalformedRuleError{Reason: "add_cost_component action is missing component_id"}
	}
	return nil
}

// Rule is the evaluation-time snapshot of a pricing rule. Higher priority
// rules are evaluated first; a matched rule with StopIfMatched set terminates
// the pass.
type Rule struct {
	ID            string
	Name          string
	Code          string
	Priority      int
	Active        bool
	StopIfMatched bool
	Conditions    ConditionSet
	Actions       []Action
	FromDate      *time.Time
	ToDate        *time.Time
}

// Validate checks structural invariants of the rule's conditions and actions.
func (r Rule) Validate() error {
	if err := r.Conditions.Validate(); err != nil {
		return err
	}
	for _, a := range r.Actions {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// effectiveAt reports whether the rule is active and inside its validity
// window at the given instant. Open bounds are unbounded.
func (r Rule) effectiveAt(now time.Time) bool {
	if !r.Active {
		return false
	}
	if r.FromDate != nil && now.Before(*r.FromDate) {
		return false
	}
	if r.ToDate != nil && now.After(*r.ToDate) {
		return false
	}
	return true
}

// CalculationMethod selects how a cost component's value turns into money.
type CalculationMethod string

const (
	CalcFixedAmount      CalculationMethod = "fixed_amount"
	CalcPercentageOfBase CalculationMethod = "percentage_of_base"
	CalcPerUnitQuantity  CalculationMethod = "per_unit_quantity"
)

// ComponentScope selects whether a component prices a single line item or the
// overall quote.
type ComponentScope string

const (
	ScopeLineItem     ComponentScope = "line_item"
	ScopeOverallQuote ComponentScope = "overall_quote"
)

// Component is the evaluation-time snapshot of a cost component.
type Component struct {
	ID            string
	Name          string
	Method        CalculationMethod
	Value         decimal.Decimal
	VATApplicable bool
	Scope         ComponentScope
}

// Settings carries externally supplied system settings for a pass.
type Settings struct {
	// VATRate is a percentage, e.g. 15 for 15%.
	VATRate  decimal.Decimal
	Currency string
}

// DefaultVATRate applies when system settings carry no VAT rate.
var DefaultVATRate = decimal.NewFromInt(15)

// AppliedAction records one adjustment for audit and explainability.
type AppliedAction struct {
	RuleID        string          `json:"rule_id"`
	RuleName      string          `json:"rule_name"`
	Type          ActionType      `json:"type"`
	ComponentID   string          `json:"component_id,omitempty"`
	ComponentName string          `json:"component_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
}

// Diagnostic is an operator-visible note about a rule or action that was
// skipped during a pass. Skips never abort the pass.
type Diagnostic struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
}

// Result is the outcome of one evaluation pass.
type Result struct {
	AppliedRuleIDs []string        `json:"applied_rule_ids"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	VATAmount      decimal.Decimal `json:"vat_amount"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	Lines          []AppliedAction `json:"lines"`
	Diagnostics    []Diagnostic    `json:"diagnostics,omitempty"`
}

// Engine evaluates pricing rules against contexts. It holds no state beyond
// the clock, so one engine may serve concurrent evaluations.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine using the supplied clock. A nil clock falls
// back to time.Now in UTC.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{now: now}
}

// Evaluate runs one pass: filters rules to active ones inside their validity
// window, orders them by priority descending (stable on ties), applies the
// actions of every matching rule in action-list order, and honors
// stop_if_matched. Per-rule failures are contained as diagnostics; no rule
// can abort evaluation of the rules after it.
func (e *Engine) Evaluate(ctx Context, rules []Rule, components []Component, settings Settings) Result {
	now := e.now()

	vatRate := settings.VATRate
	if vatRate.IsZero() {
		vatRate = DefaultVATRate
	}

	byID := make(map[string]Component, len(components))
	for _, c := range components {
		byID[c.ID] = c
	}

	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.effectiveAt(now) {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	result := Result{
		AppliedRuleIDs: []string{},
		Subtotal:       ctx.LineItem.BaseCost,
		Currency:       settings.Currency,
		Lines:          []AppliedAction{},
	}

	for _, rule := range active {
		if err := rule.Validate(); err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				RuleID:  rule.ID,
				Message: err.Error(),
			})
			continue
		}

		if !rule.Conditions.Matches(ctx) {
			continue
		}

		// Percentage actions are computed against the subtotal as it stood
		// when this rule matched, so multiple markups or discounts in one
		// rule do not compound against each other.
		ruleBase := result.Subtotal
		for _, action := range rule.Actions {
			applied, err := applyAction(rule, action, ctx, byID, ruleBase, vatRate)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, Diagnostic{
					RuleID:  rule.ID,
					Message: err.Error(),
				})
				continue
			}
			result.Subtotal = result.Subtotal.Add(applied.Amount)
			result.VATAmount = result.VATAmount.Add(applied.VATAmount)
			result.Lines = append(result.Lines, applied)
		}

		result.AppliedRuleIDs = append(result.AppliedRuleIDs, rule.ID)

		if rule.StopIfMatched {
			break
		}
	}

	result.Total = result.Subtotal.Add(result.VATAmount)
	return result
}

// applyAction computes the money effect of one action. ruleBase is the
// subtotal captured when the owning rule matched; percentage actions are
// computed against it rather than the running subtotal.
func applyAction(rule Rule, action Action, ctx Context, components map[string]Component, ruleBase decimal.Decimal, vatRate decimal.Decimal) (AppliedAction, error) {
	applied := AppliedAction{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		Type:     action.Type,
	}

	hundred := decimal.NewFromInt(100)

	switch action.Type {
	case ActionAddCostComponent:
		component, ok := components[action.ComponentID]
		if !ok {
			return AppliedAction{}, &MissingComponentError{RuleID: rule.ID, ComponentID: action.ComponentID}
		}
		applied.ComponentID = component.ID
		applied.ComponentName = component.Name

		switch component.Method {
		case CalcFixedAmount:
			applied.Amount = component.Value
		case CalcPercentageOfBase:
			applied.Amount = ctx.LineItem.BaseCost.Mul(component.Value).Div(hundred)
		case CalcPerUnitQuantity:
			applied.Amount = component.Value.Mul(decimal.NewFromInt(int64(ctx.LineItem.Quantity)))
		default:
			return AppliedAction{}, &MalformedRuleError{
				RuleID: rule.ID,
				Reason: "cost component " + component.ID + " has unknown calculation method " + string(component.Method),
			}
		}
		if component.VATApplicable {
			applied.VATAmount = applied.Amount.Mul(vatRate).Div(hundred)
		}

	case ActionApplyMarkupPercentage:
		applied.Amount = ruleBase.Mul(action.Value).Div(hundred)

	case ActionApplyDiscountPercentage:
		applied.Amount = ruleBase.Mul(action.Value).Div(hundred).Neg()

	default:
		return AppliedAction{}, &MalformedRuleError{RuleID: rule.ID, Reason: "unknown action type " + string(action.Type)}
	}

	return applied, nil
}
