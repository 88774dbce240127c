package handlers

import (
	"log"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PricingAdminHandler handles cost component, pricing rule, and approval matrix administration
type PricingAdminHandler struct {
	componentFlow businessflow.CostComponentFlow
	ruleFlow      businessflow.PricingRuleFlow
	approvalFlow  businessflow.ApprovalMatrixFlow
	validator     *validator.Validate
}

// NewPricingAdminHandler creates a new pricing administration handler
func NewPricingAdminHandler(componentFlow businessflow.CostComponentFlow, ruleFlow businessflow.PricingRuleFlow, approvalFlow businessflow.ApprovalMatrixFlow) *PricingAdminHandler {
	return &PricingAdminHandler{
		componentFlow: componentFlow,
		ruleFlow:      ruleFlow,
		approvalFlow:  approvalFlow,
		validator:     validator.New(),
	}
}

// CreateCostComponent registers a chargeable component
// @Summary Create Cost Component
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CreateCostComponentRequest true "Component data"
// @Success 201 {object} dto.APIResponse{data=dto.CostComponentResponse} "Component created"
// @Failure 409 {object} dto.APIResponse "Component code already exists"
// @Router /api/v1/cost-components [post]
func (h *PricingAdminHandler) CreateCostComponent(c fiber.Ctx) error {
	var req dto.CreateCostComponentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.componentFlow.CreateComponent(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsComponentCodeTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Component code already exists", "COMPONENT_CODE_TAKEN", nil)
		}
		if businessflow.IsInvalidCalculationMethod(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown calculation method", "INVALID_CALCULATION_METHOD", nil)
		}
		log.Println("Create cost component failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create cost component", "CREATE_COMPONENT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateCostComponent updates a chargeable component
// @Summary Update Cost Component
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path int true "Component ID"
// @Param request body dto.UpdateCostComponentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CostComponentResponse} "Component updated"
// @Failure 404 {object} dto.APIResponse "Component not found"
// @Router /api/v1/cost-components/{id} [put]
func (h *PricingAdminHandler) UpdateCostComponent(c fiber.Ctx) error {
	componentID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid component ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateCostComponentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.componentFlow.UpdateComponent(ctx, componentID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCostComponentNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Cost component not found", "COMPONENT_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidCalculationMethod(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown calculation method", "INVALID_CALCULATION_METHOD", nil)
		}
		log.Println("Update cost component failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update cost component", "UPDATE_COMPONENT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListCostComponents returns the component catalog
// @Summary List Cost Components
// @Tags Pricing
// @Produce json
// @Param active_only query bool false "Only active components"
// @Success 200 {object} dto.APIResponse{data=dto.ListCostComponentsResponse} "Components retrieved"
// @Router /api/v1/cost-components [get]
func (h *PricingAdminHandler) ListCostComponents(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.componentFlow.ListComponents(ctx, c.Query("active_only") == "true")
	if err != nil {
		log.Println("List cost components failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list cost components", "LIST_COMPONENTS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// DeactivateCostComponent retires a component from new quotes
// @Summary Deactivate Cost Component
// @Tags Pricing
// @Produce json
// @Param id path int true "Component ID"
// @Success 200 {object} dto.APIResponse{data=dto.CostComponentResponse} "Component deactivated"
// @Failure 404 {object} dto.APIResponse "Component not found"
// @Router /api/v1/cost-components/{id} [delete]
func (h *PricingAdminHandler) DeactivateCostComponent(c fiber.Ctx) error {
	componentID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid component ID", "INVALID_REQUEST", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.componentFlow.DeactivateComponent(ctx, componentID, clientMetadata(c))
	if err != nil {
		if businessflow.IsCostComponentNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Cost component not found", "COMPONENT_NOT_FOUND", nil)
		}
		log.Println("Deactivate cost component failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate cost component", "DEACTIVATE_COMPONENT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// CreatePricingRule adds a rule to the pricing engine
// @Summary Create Pricing Rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CreatePricingRuleRequest true "Rule data"
// @Success 201 {object} dto.APIResponse{data=dto.PricingRuleResponse} "Rule created"
// @Failure 422 {object} dto.APIResponse "Rule definition rejected"
// @Router /api/v1/pricing-rules [post]
func (h *PricingAdminHandler) CreatePricingRule(c fiber.Ctx) error {
	var req dto.CreatePricingRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.ruleFlow.CreateRule(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRuleCodeTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Rule code already exists", "RULE_CODE_TAKEN", nil)
		}
		if businessflow.IsInvalidRuleDefinition(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Rule definition rejected", "INVALID_RULE_DEFINITION", nil)
		}
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Effective start date is after end date", "INVALID_EFFECTIVE_RANGE", nil)
		}
		log.Println("Create pricing rule failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create pricing rule", "CREATE_RULE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdatePricingRule updates an engine rule
// @Summary Update Pricing Rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param uuid path string true "Rule UUID"
// @Param request body dto.UpdatePricingRuleRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.PricingRuleResponse} "Rule updated"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/pricing-rules/{uuid} [put]
func (h *PricingAdminHandler) UpdatePricingRule(c fiber.Ctx) error {
	var req dto.UpdatePricingRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.ruleFlow.UpdateRule(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPricingRuleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Pricing rule not found", "RULE_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidRuleDefinition(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Rule definition rejected", "INVALID_RULE_DEFINITION", nil)
		}
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Effective start date is after end date", "INVALID_EFFECTIVE_RANGE", nil)
		}
		log.Println("Update pricing rule failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update pricing rule", "UPDATE_RULE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// GetPricingRule returns one engine rule
// @Summary Get Pricing Rule
// @Tags Pricing
// @Produce json
// @Param uuid path string true "Rule UUID"
// @Success 200 {object} dto.APIResponse{data=dto.PricingRuleResponse} "Rule retrieved"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/pricing-rules/{uuid} [get]
func (h *PricingAdminHandler) GetPricingRule(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.ruleFlow.GetRule(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsPricingRuleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Pricing rule not found", "RULE_NOT_FOUND", nil)
		}
		log.Println("Get pricing rule failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve pricing rule", "GET_RULE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListPricingRules returns the rule set in priority order
// @Summary List Pricing Rules
// @Tags Pricing
// @Produce json
// @Param active_only query bool false "Only active rules"
// @Success 200 {object} dto.APIResponse{data=dto.ListPricingRulesResponse} "Rules retrieved"
// @Router /api/v1/pricing-rules [get]
func (h *PricingAdminHandler) ListPricingRules(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.ruleFlow.ListRules(ctx, c.Query("active_only") == "true")
	if err != nil {
		log.Println("List pricing rules failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list pricing rules", "LIST_RULES_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// DeactivatePricingRule removes a rule from evaluation
// @Summary Deactivate Pricing Rule
// @Tags Pricing
// @Produce json
// @Param uuid path string true "Rule UUID"
// @Success 200 {object} dto.APIResponse{data=dto.PricingRuleResponse} "Rule deactivated"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/pricing-rules/{uuid} [delete]
func (h *PricingAdminHandler) DeactivatePricingRule(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.ruleFlow.DeactivateRule(ctx, c.Params("uuid"), clientMetadata(c))
	if err != nil {
		if businessflow.IsPricingRuleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Pricing rule not found", "RULE_NOT_FOUND", nil)
		}
		log.Println("Deactivate pricing rule failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate pricing rule", "DEACTIVATE_RULE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// CreateApprovalRule adds a row to the discount approval matrix
// @Summary Create Approval Rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CreateApprovalRuleRequest true "Approval rule data"
// @Success 201 {object} dto.APIResponse{data=dto.ApprovalRuleResponse} "Approval rule created"
// @Failure 422 {object} dto.APIResponse "Range overlaps or is inverted"
// @Router /api/v1/approval-rules [post]
func (h *PricingAdminHandler) CreateApprovalRule(c fiber.Ctx) error {
	var req dto.CreateApprovalRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.approvalFlow.CreateRule(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidApprovalRange(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Approval range rejected", "INVALID_APPROVAL_RANGE", nil)
		}
		if businessflow.IsRoleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Role not found", "ROLE_NOT_FOUND", nil)
		}
		log.Println("Create approval rule failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create approval rule", "CREATE_APPROVAL_RULE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateApprovalRule updates a matrix row
// @Summary Update Approval Rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path int true "Approval rule ID"
// @Param request body dto.UpdateApprovalRuleRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ApprovalRuleResponse} "Approval rule updated"
// @Failure 404 {object} dto.APIResponse "Approval rule not found"
// @Router /api/v1/approval-rules/{id} [put]
func (h *PricingAdminHandler) UpdateApprovalRule(c fiber.Ctx) error {
	ruleID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid approval rule ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateApprovalRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.approvalFlow.UpdateRule(ctx, ruleID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsApprovalRuleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Approval rule not found", "APPROVAL_RULE_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidApprovalRange(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Approval range rejected", "INVALID_APPROVAL_RANGE", nil)
		}
		if businessflow.IsRoleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Role not found", "ROLE_NOT_FOUND", nil)
		}
		log.Println("Update approval rule failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update approval rule", "UPDATE_APPROVAL_RULE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListApprovalRules returns the matrix, optionally filtered by discount type
// @Summary List Approval Rules
// @Tags Pricing
// @Produce json
// @Param discount_type query string false "line_item or overall_quote"
// @Success 200 {object} dto.APIResponse{data=dto.ListApprovalRulesResponse} "Approval rules retrieved"
// @Router /api/v1/approval-rules [get]
func (h *PricingAdminHandler) ListApprovalRules(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.approvalFlow.ListRules(ctx, c.Query("discount_type"))
	if err != nil {
		log.Println("List approval rules failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list approval rules", "LIST_APPROVAL_RULES_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// DeactivateApprovalRule removes a matrix row from routing
// @Summary Deactivate Approval Rule
// @Tags Pricing
// @Produce json
// @Param id path int true "Approval rule ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApprovalRuleResponse} "Approval rule deactivated"
// @Failure 404 {object} dto.APIResponse "Approval rule not found"
// @Router /api/v1/approval-rules/{id} [delete]
func (h *PricingAdminHandler) DeactivateApprovalRule(c fiber.Ctx) error {
	ruleID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid approval rule ID", "INVALID_REQUEST", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.approvalFlow.DeactivateRule(ctx, ruleID, clientMetadata(c))
	if err != nil {
		if businessflow.IsApprovalRuleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Approval rule not found", "APPROVAL_RULE_NOT_FOUND", nil)
		}
		log.Println("Deactivate approval rule failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate approval rule", "DEACTIVATE_APPROVAL_RULE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
