package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/app/middleware"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/marafiq-hq/staffing-crm/pricing"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// QuoteHandler handles quoting and discount HTTP requests
type QuoteHandler struct {
	quoteFlow businessflow.QuoteFlow
	validator *validator.Validate
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteFlow businessflow.QuoteFlow) *QuoteHandler {
	return &QuoteHandler{
		quoteFlow: quoteFlow,
		validator: validator.New(),
	}
}

// CreateQuote drafts a quote with its line items
// @Summary Create Quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body dto.CreateQuoteRequest true "Quote data"
// @Success 201 {object} dto.APIResponse{data=dto.QuoteResponse} "Quote created"
// @Failure 404 {object} dto.APIResponse "Referenced record not found"
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c fiber.Ctx) error {
	var req dto.CreateQuoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.quoteFlow.CreateQuote(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidLeadStatus(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Lead cannot be quoted in its current status", "INVALID_LEAD_STATUS", nil)
		}
		if businessflow.IsQuoteHasNoLineItems(err) {
			return errorResponse(c, fiber.StatusBadRequest, "A quote needs at least one line item", "QUOTE_HAS_NO_LINE_ITEMS", nil)
		}
		if businessflow.IsNationalityNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Nationality not found", "NATIONALITY_NOT_FOUND", nil)
		}
		if businessflow.IsJobNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Job not found", "JOB_NOT_FOUND", nil)
		}
		if businessflow.IsJobProfileNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Job profile not found", "JOB_PROFILE_NOT_FOUND", nil)
		}
		if businessflow.IsSkillLevelNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Skill level not found", "SKILL_LEVEL_NOT_FOUND", nil)
		}
		log.Println("Create quote failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create quote", "CREATE_QUOTE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// GetQuote returns a quote with its line items
// @Summary Get Quote
// @Tags Quotes
// @Produce json
// @Param uuid path string true "Quote UUID"
// @Success 200 {object} dto.APIResponse{data=dto.QuoteResponse} "Quote retrieved"
// @Failure 404 {object} dto.APIResponse "Quote not found"
// @Router /api/v1/quotes/{uuid} [get]
func (h *QuoteHandler) GetQuote(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.quoteFlow.GetQuote(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}
		log.Println("Get quote failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve quote", "GET_QUOTE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListQuotes returns a filtered page of quotes
// @Summary List Quotes
// @Tags Quotes
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListQuotesResponse} "Quotes retrieved"
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c fiber.Ctx) error {
	var req dto.ListQuotesRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.quoteFlow.ListQuotes(ctx, &req)
	if err != nil {
		log.Println("List quotes failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list quotes", "LIST_QUOTES_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// PriceQuote runs the rule engine over the quote's line items
// @Summary Price Quote
// @Tags Quotes
// @Produce json
// @Param uuid path string true "Quote UUID"
// @Success 200 {object} dto.APIResponse{data=dto.PriceQuoteResponse} "Quote priced"
// @Failure 422 {object} dto.APIResponse "Quote is not in a priceable status"
// @Router /api/v1/quotes/{uuid}/price [post]
func (h *QuoteHandler) PriceQuote(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	start := time.Now()
	result, err := h.quoteFlow.PriceQuote(ctx, c.Params("uuid"), clientMetadata(c))
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}
		if businessflow.IsQuoteNotEditable(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Quote cannot be priced in its current status", "QUOTE_NOT_EDITABLE", nil)
		}
		log.Println("Price quote failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to price quote", "PRICE_QUOTE_FAILED", nil)
	}

	middleware.ObserveQuotePriced(result.Quote.Currency, time.Since(start), len(result.Quote.AppliedRuleIDs))

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// RequestDiscount routes a discount through the approval matrix
// @Summary Request Discount
// @Tags Quotes
// @Accept json
// @Produce json
// @Param uuid path string true "Quote UUID"
// @Param request body dto.RequestDiscountRequest true "Discount request"
// @Success 200 {object} dto.APIResponse{data=dto.DiscountDecisionResponse} "Discount resolved"
// @Failure 422 {object} dto.APIResponse "No approval rule covers the percentage"
// @Router /api/v1/quotes/{uuid}/discount [post]
func (h *QuoteHandler) RequestDiscount(c fiber.Ctx) error {
	var req dto.RequestDiscountRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.quoteFlow.RequestDiscount(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidQuoteStatus(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Quote must be priced before discounting", "INVALID_QUOTE_STATUS", nil)
		}
		if businessflow.IsInvalidDiscountValue(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Discount percentage is out of range", "INVALID_DISCOUNT_VALUE", nil)
		}
		var noRule *pricing.NoRuleCoversPercentageError
		if errors.As(err, &noRule) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "No approval rule covers the requested percentage", "NO_APPROVAL_RULE", noRule.Error())
		}
		log.Println("Request discount failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to process discount request", "REQUEST_DISCOUNT_FAILED", nil)
	}

	middleware.ObserveDiscountDecision(result.SelfApproved)

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ChangeStatus moves a quote through its lifecycle
// @Summary Change Quote Status
// @Tags Quotes
// @Accept json
// @Produce json
// @Param uuid path string true "Quote UUID"
// @Param request body dto.ChangeQuoteStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.QuoteResponse} "Status changed"
// @Failure 422 {object} dto.APIResponse "Transition not allowed"
// @Router /api/v1/quotes/{uuid}/status [post]
func (h *QuoteHandler) ChangeStatus(c fiber.Ctx) error {
	var req dto.ChangeQuoteStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.quoteFlow.ChangeStatus(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidQuoteTransition(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Quote status transition not allowed", "INVALID_QUOTE_TRANSITION", nil)
		}
		log.Println("Change quote status failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to change quote status", "CHANGE_QUOTE_STATUS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
