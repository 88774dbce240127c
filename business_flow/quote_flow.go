package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// quoteTransitions lists the allowed lifecycle moves from each status.
// Draft quotes reach priced only through a pricing pass; accepted and
// expired are terminal.
var quoteTransitions = map[string][]string{
	models.QuoteStatusDraft:           {},
	models.QuoteStatusPriced:          {models.QuoteStatusPendingApproval, models.QuoteStatusSent, models.QuoteStatusExpired},
	models.QuoteStatusPendingApproval: {models.QuoteStatusApproved, models.QuoteStatusRejected},
	models.QuoteStatusApproved:        {models.QuoteStatusSent, models.QuoteStatusExpired},
	models.QuoteStatusRejected:        {models.QuoteStatusPriced},
	models.QuoteStatusSent:            {models.QuoteStatusAccepted, models.QuoteStatusExpired},
	models.QuoteStatusAccepted:        {},
	models.QuoteStatusExpired:         {},
}

func quoteTransitionAllowed(from, to string) bool {
	for _, next := range quoteTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// QuoteFlow handles quote drafting, pricing, discount routing, and lifecycle
type QuoteFlow interface {
	CreateQuote(ctx context.Context, request *dto.CreateQuoteRequest, metadata *ClientMetadata) (*dto.QuoteResponse, error)
	GetQuote(ctx context.Context, quoteUUID string) (*dto.QuoteResponse, error)
	ListQuotes(ctx context.Context, request *dto.ListQuotesRequest) (*dto.ListQuotesResponse, error)
	PriceQuote(ctx context.Context, quoteUUID string, metadata *ClientMetadata) (*dto.PriceQuoteResponse, error)
	RequestDiscount(ctx context.Context, quoteUUID string, request *dto.RequestDiscountRequest, metadata *ClientMetadata) (*dto.DiscountDecisionResponse, error)
	ChangeStatus(ctx context.Context, quoteUUID string, request *dto.ChangeQuoteStatusRequest, metadata *ClientMetadata) (*dto.QuoteResponse, error)
}

// QuoteFlowImpl implements the quote business flow
type QuoteFlowImpl struct {
	quoteRepo     repository.QuoteRepository
	lineItemRepo  repository.QuoteLineItemRepository
	leadRepo      repository.LeadRepository
	profileRepo   repository.JobProfileRepository
	jobRepo       repository.JobRepository
	natRepo       repository.NationalityRepository
	componentRepo repository.CostComponentRepository
	ruleRepo      repository.PricingRuleRepository
	approvalRepo  repository.DiscountApprovalRuleRepository
	userRepo      repository.UserRepository
	roleRepo      repository.RoleRepository
	settingsRepo  repository.SystemSettingsRepository
	lookupRepo    repository.LookupRepository
	auditRepo     repository.AuditLogRepository
	engine        *pricing.Engine
	db            *gorm.DB
}

// NewQuoteFlow creates a new quote flow instance
func NewQuoteFlow(
	quoteRepo repository.QuoteRepository,
	lineItemRepo repository.QuoteLineItemRepository,
	leadRepo repository.LeadRepository,
	profileRepo repository.JobProfileRepository,
	jobRepo repository.JobRepository,
	natRepo repository.NationalityRepository,
	componentRepo repository.CostComponentRepository,
	ruleRepo repository.PricingRuleRepository,
	approvalRepo repository.DiscountApprovalRuleRepository,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	settingsRepo repository.SystemSettingsRepository,
	lookupRepo repository.LookupRepository,
	auditRepo repository.AuditLogRepository,
	engine *pricing.Engine,
	db *gorm.DB,
) QuoteFlow {
	return &QuoteFlowImpl{
		quoteRepo:     quoteRepo,
		lineItemRepo:  lineItemRepo,
		leadRepo:      leadRepo,
		profileRepo:   profileRepo,
		jobRepo:       jobRepo,
		natRepo:       natRepo,
		componentRepo: componentRepo,
		ruleRepo:      ruleRepo,
		approvalRepo:  approvalRepo,
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		settingsRepo:  settingsRepo,
		lookupRepo:    lookupRepo,
		auditRepo:     auditRepo,
		engine:        engine,
		db:            db,
	}
}

// CreateQuote drafts a quote for a lead. Line item references are validated
// and the base monthly cost is snapshotted from the job profile so later
// catalog edits do not silently reprice existing drafts.
func (f *QuoteFlowImpl) CreateQuote(ctx context.Context, request *dto.CreateQuoteRequest, metadata *ClientMetadata) (*dto.QuoteResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	if len(request.LineItems) == 0 {
		return nil, NewBusinessError("QUOTE_HAS_NO_LINE_ITEMS", "A quote needs at least one line item", ErrQuoteHasNoLineItems)
	}

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.QuoteResponse, error) {
		lead, err := f.leadRepo.ByID(ctx, request.LeadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, ErrLeadNotFound
		}
		if lead.Status == models.LeadStatusLost {
			return nil, ErrInvalidLeadStatus
		}

		var owner *uint
		if userID != 0 {
			owner = &userID
		}

		quote := &models.Quote{
			LeadID:         lead.ID,
			Code:           fmt.Sprintf("%s-%d", utils.QuoteCodePrefix, utils.UTCNow().UnixNano()),
			Status:         models.QuoteStatusDraft,
			Currency:       utils.DefaultCurrency,
			AppliedRuleIDs: []string{},
			OwnerID:        owner,
		}
		if err := f.quoteRepo.Save(ctx, quote); err != nil {
			return nil, err
		}

		// Stable human-readable code once the row ID is known
		quote.Code = fmt.Sprintf("%s-%d-%06d", utils.QuoteCodePrefix, utils.UTCNow().Year(), quote.ID)
		if err := f.quoteRepo.Update(ctx, quote); err != nil {
			return nil, err
		}

		lineItems := make([]*models.QuoteLineItem, 0, len(request.LineItems))
		for _, li := range request.LineItems {
			item, err := f.buildLineItem(ctx, quote.ID, li)
			if err != nil {
				return nil, err
			}
			lineItems = append(lineItems, item)
		}
		if err := f.lineItemRepo.SaveBatch(ctx, lineItems); err != nil {
			return nil, err
		}
		quote.LineItems = make([]models.QuoteLineItem, 0, len(lineItems))
		for _, item := range lineItems {
			quote.LineItems = append(quote.LineItems, *item)
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "quote", quote.ID,
			fmt.Sprintf("Quote drafted: %s (%d line items)", quote.Code, len(lineItems)), metadata)

		return &dto.QuoteResponse{
			Message: "Quote drafted successfully",
			Quote:   toQuoteDTO(quote),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_QUOTE_FAILED", "Failed to create quote", err)
	}
	return resp, nil
}

func (f *QuoteFlowImpl) buildLineItem(ctx context.Context, quoteID uint, req dto.QuoteLineItemRequest) (*models.QuoteLineItem, error) {
	item := &models.QuoteLineItem{
		QuoteID:                quoteID,
		NationalityID:          req.NationalityID,
		JobID:                  req.JobID,
		JobProfileID:           req.JobProfileID,
		Quantity:               req.Quantity,
		ContractDurationMonths: req.ContractDurationMonths,
		SkillLevelID:           req.SkillLevelID,
		CityID:                 req.CityID,
	}

	if req.NationalityID != nil {
		nat, err := f.natRepo.ByID(ctx, *req.NationalityID)
		if err != nil {
			return nil, err
		}
		if nat == nil {
			return nil, ErrNationalityNotFound
		}
	}
	if req.JobID != nil {
		job, err := f.jobRepo.ByID(ctx, *req.JobID)
		if err != nil {
			return nil, err
		}
		if job == nil {
			return nil, ErrJobNotFound
		}
	}
	if req.JobProfileID != nil {
		profile, err := f.profileRepo.ByID(ctx, *req.JobProfileID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrJobProfileNotFound
		}
		if req.JobID != nil && profile.JobID != *req.JobID {
			return nil, ErrJobProfileNotFound
		}
		item.BaseMonthlyCost = profile.BaseMonthlyCost
	}
	if req.SkillLevelID != nil {
		level, err := f.lookupRepo.SkillLevelByID(ctx, *req.SkillLevelID)
		if err != nil {
			return nil, err
		}
		if level == nil {
			return nil, ErrSkillLevelNotFound
		}
	}

	return item, nil
}

// GetQuote returns a quote with its line items
func (f *QuoteFlowImpl) GetQuote(ctx context.Context, quoteUUID string) (*dto.QuoteResponse, error) {
	quote, err := f.loadQuoteWithItems(ctx, quoteUUID)
	if err != nil {
		return nil, err
	}

	return &dto.QuoteResponse{
		Message: "Quote retrieved successfully",
		Quote:   toQuoteDTO(quote),
	}, nil
}

// ListQuotes returns a filtered page of quotes without line items
func (f *QuoteFlowImpl) ListQuotes(ctx context.Context, request *dto.ListQuotesRequest) (*dto.ListQuotesResponse, error) {
	filter := models.QuoteFilter{
		LeadID:  request.LeadID,
		Status:  request.Status,
		OwnerID: request.OwnerID,
	}

	total, err := f.quoteRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_QUOTES_FAILED", "Failed to list quotes", err)
	}

	quotes, err := f.quoteRepo.ByFilter(ctx, filter, "created_at DESC", request.Limit(), request.Offset())
	if err != nil {
		return nil, NewBusinessError("LIST_QUOTES_FAILED", "Failed to list quotes", err)
	}

	items := make([]dto.QuoteDTO, 0, len(quotes))
	for i := range quotes {
		items = append(items, toQuoteDTO(quotes[i]))
	}

	return &dto.ListQuotesResponse{
		Message: "Quotes retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationMeta{
			Page:       request.Page,
			PageSize:   request.Limit(),
			TotalCount: total,
		},
	}, nil
}

// PriceQuote runs the rule engine against every line item and persists the
// results. Skipped rules and dangling component references come back as
// diagnostics; they never abort the pass.
func (f *QuoteFlowImpl) PriceQuote(ctx context.Context, quoteUUID string, metadata *ClientMetadata) (*dto.PriceQuoteResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.PriceQuoteResponse, error) {
		quote, err := f.loadQuoteWithItemsTx(ctx, quoteUUID)
		if err != nil {
			return nil, err
		}
		if quote.Status != models.QuoteStatusDraft && quote.Status != models.QuoteStatusPriced {
			return nil, ErrQuoteNotEditable
		}
		if len(quote.LineItems) == 0 {
			return nil, ErrQuoteHasNoLineItems
		}

		lead := quote.Lead
		if lead == nil {
			loaded, err := f.leadRepo.ByID(ctx, quote.LeadID)
			if err != nil {
				return nil, err
			}
			if loaded == nil {
				return nil, ErrLeadNotFound
			}
			lead = loaded
		}

		rules, components, settings, err := f.loadPricingSnapshot(ctx)
		if err != nil {
			return nil, err
		}

		componentsByID := make(map[string]pricing.Component, len(components))
		for _, c := range components {
			componentsByID[c.ID] = c
		}

		quoteSubtotal := decimal.Zero
		quoteVAT := decimal.Zero
		appliedRuleIDs := []string{}
		seenRules := map[string]bool{}
		diagnostics := []dto.PricingDiagnosticDTO{}

		for i := range quote.LineItems {
			item := &quote.LineItems[i]

			factCtx, err := f.buildPricingContext(ctx, item, lead)
			if err != nil {
				return nil, err
			}

			// Catalog defaults (job profile and nationality components)
			// price in before the rule pass adjusts the running subtotal.
			defaultAmount, defaultVAT, defaultDiags := f.applyDefaultComponents(ctx, item, factCtx, componentsByID, settings.VATRate)
			diagnostics = append(diagnostics, defaultDiags...)

			factCtx.LineItem.BaseCost = factCtx.LineItem.BaseCost.Add(defaultAmount)

			result := f.engine.Evaluate(factCtx, rules, components, settings)

			item.Subtotal = result.Subtotal
			item.VATAmount = result.VATAmount.Add(defaultVAT)
			item.Total = item.Subtotal.Add(item.VATAmount)
			if err := f.lineItemRepo.Update(ctx, item); err != nil {
				return nil, err
			}

			quoteSubtotal = quoteSubtotal.Add(item.Subtotal)
			quoteVAT = quoteVAT.Add(item.VATAmount)
			for _, ruleID := range result.AppliedRuleIDs {
				if !seenRules[ruleID] {
					seenRules[ruleID] = true
					appliedRuleIDs = append(appliedRuleIDs, ruleID)
				}
			}
			for _, d := range result.Diagnostics {
				diagnostics = append(diagnostics, dto.PricingDiagnosticDTO{RuleID: d.RuleID, Message: d.Message})
			}
		}

		quote.Subtotal = quoteSubtotal
		quote.VATAmount = quoteVAT
		quote.Total = quoteSubtotal.Add(quoteVAT)
		quote.Currency = settings.Currency
		quote.AppliedRuleIDs = appliedRuleIDs
		quote.Status = models.QuoteStatusPriced
		quote.ValidUntil = utils.UTCNowAddPtr(time.Duration(f.quoteValidityDays(ctx)) * 24 * time.Hour)
		quote.UpdatedAt = utils.UTCNow()
		if err := f.quoteRepo.Update(ctx, quote); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionQuotePriced, "quote", quote.ID,
			fmt.Sprintf("Quote priced: %s total %s %s (%d rules applied)", quote.Code, quote.Total.StringFixed(2), quote.Currency, len(appliedRuleIDs)), metadata)

		return &dto.PriceQuoteResponse{
			Message:     "Quote priced successfully",
			Quote:       toQuoteDTO(quote),
			Diagnostics: diagnostics,
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("PRICE_QUOTE_FAILED", "Failed to price quote", err)
	}
	return resp, nil
}

// RequestDiscount resolves who must approve a discount on the quote. Below
// the caller's self-approval ceiling the discount is applied immediately;
// otherwise the quote moves to pending_approval addressed to the resolved role.
func (f *QuoteFlowImpl) RequestDiscount(ctx context.Context, quoteUUID string, request *dto.RequestDiscountRequest, metadata *ClientMetadata) (*dto.DiscountDecisionResponse, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, NewBusinessError("REQUEST_DISCOUNT_FAILED", "Failed to request discount", ErrUserNotFound)
	}

	discountType := pricing.DiscountType(request.DiscountType)
	if !discountType.Valid() {
		return nil, NewBusinessError("INVALID_DISCOUNT_TYPE", "Invalid discount type", ErrInvalidDiscountValue)
	}

	percentage, err := decimal.NewFromString(request.Percentage)
	if err != nil || percentage.LessThanOrEqual(decimal.Zero) || percentage.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return nil, NewBusinessError("INVALID_DISCOUNT_VALUE", "Discount percentage must be in (0, 100)", ErrInvalidDiscountValue)
	}

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.DiscountDecisionResponse, error) {
		quote, err := f.loadQuoteWithItemsTx(ctx, quoteUUID)
		if err != nil {
			return nil, err
		}
		if quote.Status != models.QuoteStatusPriced {
			return nil, ErrInvalidQuoteStatus
		}

		user, err := f.userRepo.ByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		matrixRows, err := f.approvalRepo.ListActiveByType(ctx, string(discountType))
		if err != nil {
			return nil, err
		}
		matrix := make([]pricing.ApprovalRule, 0, len(matrixRows))
		for _, row := range matrixRows {
			matrix = append(matrix, row.ToEngineRule())
		}

		decision, err := pricing.ResolveApprover(discountType, percentage, matrix, user.SelfApprovalLimits())
		if err != nil {
			return nil, err
		}

		if decision.SelfApproved {
			if err := f.applyDiscount(ctx, quote, discountType, percentage); err != nil {
				return nil, err
			}
			_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionDiscountApproved, "quote", quote.ID,
				fmt.Sprintf("Discount self-approved on %s: %s%% (%s)", quote.Code, percentage, discountType), metadata)

			return &dto.DiscountDecisionResponse{
				Message:      "Discount self-approved and applied",
				SelfApproved: true,
			}, nil
		}

		quote.Status = models.QuoteStatusPendingApproval
		quote.UpdatedAt = utils.UTCNow()
		if err := f.quoteRepo.Update(ctx, quote); err != nil {
			return nil, err
		}

		out := &dto.DiscountDecisionResponse{
			Message:            "Approval routed successfully",
			RequiresEscalation: decision.RequiresEscalation,
		}
		if roleID, err := strconv.ParseUint(decision.ApproverRoleID, 10, 64); err == nil {
			id := uint(roleID)
			out.ApproverRoleID = &id
			if role, err := f.roleRepo.ByID(ctx, id); err == nil && role != nil {
				out.ApproverRoleName = &role.Name
			}
		}
		if decision.EscalationRoleID != "" {
			if roleID, err := strconv.ParseUint(decision.EscalationRoleID, 10, 64); err == nil {
				id := uint(roleID)
				out.EscalationRoleID = &id
			}
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionDiscountRequested, "quote", quote.ID,
			fmt.Sprintf("Discount requested on %s: %s%% (%s), routed to role %s", quote.Code, percentage, discountType, decision.ApproverRoleID), metadata)

		return out, nil
	})

	if err != nil {
		return nil, NewBusinessError("REQUEST_DISCOUNT_FAILED", "Failed to request discount", err)
	}
	return resp, nil
}

// applyDiscount reduces the quote's totals by the percentage. Line item
// discounts apply per line; overall discounts apply to the quote totals.
func (f *QuoteFlowImpl) applyDiscount(ctx context.Context, quote *models.Quote, discountType pricing.DiscountType, percentage decimal.Decimal) error {
	factor := decimal.NewFromInt(1).Sub(percentage.Div(decimal.NewFromInt(100)))

	if discountType == pricing.DiscountLineItem {
		subtotal := decimal.Zero
		vat := decimal.Zero
		for i := range quote.LineItems {
			item := &quote.LineItems[i]
			item.Subtotal = item.Subtotal.Mul(factor)
			item.VATAmount = item.VATAmount.Mul(factor)
			item.Total = item.Subtotal.Add(item.VATAmount)
			if err := f.lineItemRepo.Update(ctx, item); err != nil {
				return err
			}
			subtotal = subtotal.Add(item.Subtotal)
			vat = vat.Add(item.VATAmount)
		}
		quote.Subtotal = subtotal
		quote.VATAmount = vat
	} else {
		quote.Subtotal = quote.Subtotal.Mul(factor)
		quote.VATAmount = quote.VATAmount.Mul(factor)
	}

	quote.Total = quote.Subtotal.Add(quote.VATAmount)
	quote.UpdatedAt = utils.UTCNow()
	return f.quoteRepo.Update(ctx, quote)
}

// ChangeStatus moves a quote through its lifecycle, validating the transition
func (f *QuoteFlowImpl) ChangeStatus(ctx context.Context, quoteUUID string, request *dto.ChangeQuoteStatusRequest, metadata *ClientMetadata) (*dto.QuoteResponse, error) {
	userID, _ := UserIDFromContext(ctx)
	target := request.Status

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.QuoteResponse, error) {
		quote, err := f.loadQuoteWithItemsTx(ctx, quoteUUID)
		if err != nil {
			return nil, err
		}

		if quote.Status == target {
			return &dto.QuoteResponse{
				Message: "Quote status unchanged",
				Quote:   toQuoteDTO(quote),
			}, nil
		}

		if !quoteTransitionAllowed(quote.Status, target) {
			return nil, ErrInvalidQuoteTransition
		}

		previous := quote.Status
		quote.Status = target
		quote.UpdatedAt = utils.UTCNow()
		if err := f.quoteRepo.Update(ctx, quote); err != nil {
			return nil, err
		}

		action := models.AuditActionEntityUpdated
		switch target {
		case models.QuoteStatusApproved:
			action = models.AuditActionDiscountApproved
		case models.QuoteStatusRejected:
			action = models.AuditActionDiscountRejected
		}
		description := fmt.Sprintf("Quote status changed: %s -> %s (%s)", previous, target, quote.Code)
		if request.Reason != nil && *request.Reason != "" {
			description = fmt.Sprintf("%s: %s", description, *request.Reason)
		}
		_ = auditEntity(ctx, f.auditRepo, &userID, action, "quote", quote.ID, description, metadata)

		return &dto.QuoteResponse{
			Message: "Quote status changed successfully",
			Quote:   toQuoteDTO(quote),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CHANGE_QUOTE_STATUS_FAILED", "Failed to change quote status", err)
	}
	return resp, nil
}

func (f *QuoteFlowImpl) loadQuoteWithItems(ctx context.Context, quoteUUID string) (*models.Quote, error) {
	quote, err := f.quoteRepo.ByUUID(ctx, quoteUUID)
	if err != nil {
		return nil, NewBusinessError("GET_QUOTE_FAILED", "Failed to retrieve quote", err)
	}
	if quote == nil {
		return nil, NewBusinessError("QUOTE_NOT_FOUND", "Quote not found", ErrQuoteNotFound)
	}
	full, err := f.quoteRepo.WithLineItems(ctx, quote.ID)
	if err != nil {
		return nil, NewBusinessError("GET_QUOTE_FAILED", "Failed to retrieve quote", err)
	}
	return full, nil
}

// loadQuoteWithItemsTx is the in-transaction variant returning bare errors
// so the surrounding flow wraps them once.
func (f *QuoteFlowImpl) loadQuoteWithItemsTx(ctx context.Context, quoteUUID string) (*models.Quote, error) {
	quote, err := f.quoteRepo.ByUUID(ctx, quoteUUID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrQuoteNotFound
	}
	return f.quoteRepo.WithLineItems(ctx, quote.ID)
}

// loadPricingSnapshot loads the full rule, component, and settings snapshot
// used by one pricing pass.
func (f *QuoteFlowImpl) loadPricingSnapshot(ctx context.Context) ([]pricing.Rule, []pricing.Component, pricing.Settings, error) {
	ruleRows, err := f.ruleRepo.ListActiveByPriority(ctx)
	if err != nil {
		return nil, nil, pricing.Settings{}, err
	}
	rules := make([]pricing.Rule, 0, len(ruleRows))
	for _, row := range ruleRows {
		rules = append(rules, row.ToEngineRule())
	}

	componentRows, err := f.componentRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, pricing.Settings{}, err
	}
	components := make([]pricing.Component, 0, len(componentRows))
	for _, row := range componentRows {
		components = append(components, row.ToEngineComponent())
	}

	settings := pricing.Settings{
		VATRate:  pricing.DefaultVATRate,
		Currency: utils.DefaultCurrency,
	}
	if row, err := f.settingsRepo.Latest(ctx); err == nil && row != nil {
		settings = row.ToEngineSettings()
	}

	return rules, components, settings, nil
}

func (f *QuoteFlowImpl) quoteValidityDays(ctx context.Context) int {
	if row, err := f.settingsRepo.Latest(ctx); err == nil && row != nil && row.QuoteValidityDays > 0 {
		return row.QuoteValidityDays
	}
	return utils.DefaultQuoteValidityDays
}

// buildPricingContext assembles the fact snapshot for one line item. Facts
// carry author-facing identifiers: nationality ISO codes, job and skill
// level codes, and city names.
func (f *QuoteFlowImpl) buildPricingContext(ctx context.Context, item *models.QuoteLineItem, lead *models.Lead) (pricing.Context, error) {
	factCtx := pricing.Context{
		LineItem: pricing.LineItem{
			Quantity:               item.Quantity,
			ContractDurationMonths: item.ContractDurationMonths,
			BaseCost: item.BaseMonthlyCost.
				Mul(decimal.NewFromInt(int64(item.Quantity))).
				Mul(decimal.NewFromInt(int64(item.ContractDurationMonths))),
		},
		Lead: pricing.Lead{
			Industry: lead.Industry,
			Source:   lead.Source,
		},
	}

	if item.NationalityID != nil {
		nat := item.Nationality
		if nat == nil {
			loaded, err := f.natRepo.ByID(ctx, *item.NationalityID)
			if err != nil {
				return pricing.Context{}, err
			}
			nat = loaded
		}
		if nat != nil {
			factCtx.LineItem.Nationality = nat.ISOCode
		}
	}
	if item.JobID != nil {
		job := item.Job
		if job == nil {
			loaded, err := f.jobRepo.ByID(ctx, *item.JobID)
			if err != nil {
				return pricing.Context{}, err
			}
			job = loaded
		}
		if job != nil {
			factCtx.LineItem.JobID = job.Code
		}
	}
	if item.JobProfileID != nil {
		factCtx.LineItem.JobProfileID = strconv.FormatUint(uint64(*item.JobProfileID), 10)
	}
	if item.SkillLevelID != nil {
		level := item.SkillLevel
		if level == nil {
			loaded, err := f.lookupRepo.SkillLevelByID(ctx, *item.SkillLevelID)
			if err != nil {
				return pricing.Context{}, err
			}
			level = loaded
		}
		if level != nil {
			factCtx.LineItem.SkillLevelID = level.Code
		}
	}
	if item.CityID != nil {
		city := item.City
		if city == nil {
			loaded, err := f.lookupRepo.CityByID(ctx, *item.CityID)
			if err != nil {
				return pricing.Context{}, err
			}
			city = loaded
		}
		if city != nil {
			factCtx.LineItem.City = city.Name
		}
	}

	return factCtx, nil
}

// applyDefaultComponents prices the component codes attached to the line
// item's job profile and nationality. Unknown codes become diagnostics.
func (f *QuoteFlowImpl) applyDefaultComponents(ctx context.Context, item *models.QuoteLineItem, factCtx pricing.Context, components map[string]pricing.Component, vatRate decimal.Decimal) (decimal.Decimal, decimal.Decimal, []dto.PricingDiagnosticDTO) {
	if vatRate.IsZero() {
		vatRate = pricing.DefaultVATRate
	}
	hundred := decimal.NewFromInt(100)

	codes := []string{}
	if item.JobProfileID != nil {
		if profile, err := f.profileRepo.ByID(ctx, *item.JobProfileID); err == nil && profile != nil {
			codes = append(codes, profile.DefaultComponentCodes...)
		}
	}
	if item.NationalityID != nil {
		if nat, err := f.natRepo.ByID(ctx, *item.NationalityID); err == nil && nat != nil {
			codes = append(codes, nat.DefaultComponentCodes...)
		}
	}

	amount := decimal.Zero
	vat := decimal.Zero
	var diags []dto.PricingDiagnosticDTO

	for _, code := range codes {
		component, ok := components[code]
		if !ok {
			diags = append(diags, dto.PricingDiagnosticDTO{
				Message: fmt.Sprintf("default cost component %s not found or inactive", code),
			})
			continue
		}

		var value decimal.Decimal
		switch component.Method {
		case pricing.CalcFixedAmount:
			value = component.Value
		case pricing.CalcPercentageOfBase:
			value = factCtx.LineItem.BaseCost.Mul(component.Value).Div(hundred)
		case pricing.CalcPerUnitQuantity:
			value = component.Value.Mul(decimal.NewFromInt(int64(item.Quantity)))
		default:
			diags = append(diags, dto.PricingDiagnosticDTO{
				Message: fmt.Sprintf("default cost component %s has unknown calculation method %s", code, component.Method),
			})
			continue
		}

		amount = amount.Add(value)
		if component.VATApplicable {
			vat = vat.Add(value.Mul(vatRate).Div(hundred))
		}
	}

	return amount, vat, diags
}

func toQuoteDTO(quote *models.Quote) dto.QuoteDTO {
	out := dto.QuoteDTO{
		ID:             quote.ID,
		UUID:           quote.UUID.String(),
		LeadID:         quote.LeadID,
		Code:           quote.Code,
		Status:         quote.Status,
		Subtotal:       quote.Subtotal.StringFixed(2),
		VATAmount:      quote.VATAmount.StringFixed(2),
		Total:          quote.Total.StringFixed(2),
		Currency:       quote.Currency,
		AppliedRuleIDs: quote.AppliedRuleIDs,
		OwnerID:        quote.OwnerID,
		CreatedAt:      quote.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      quote.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if out.AppliedRuleIDs == nil {
		out.AppliedRuleIDs = []string{}
	}
	if quote.ValidUntil != nil {
		out.ValidUntil = utils.ToPtr(quote.ValidUntil.UTC().Format(time.RFC3339))
	}
	for i := range quote.LineItems {
		item := &quote.LineItems[i]
		out.LineItems = append(out.LineItems, dto.QuoteLineItemDTO{
			ID:                     item.ID,
			UUID:                   item.UUID.String(),
			NationalityID:          item.NationalityID,
			JobID:                  item.JobID,
			JobProfileID:           item.JobProfileID,
			Quantity:               item.Quantity,
			ContractDurationMonths: item.ContractDurationMonths,
			SkillLevelID:           item.SkillLevelID,
			CityID:                 item.CityID,
			BaseMonthlyCost:        item.BaseMonthlyCost.StringFixed(2),
			Subtotal:               item.Subtotal.StringFixed(2),
			VATAmount:              item.VATAmount.StringFixed(2),
			Total:                  item.Total.StringFixed(2),
		})
	}
	return out
}
