package handlers

import (
	"log"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// LeadHandler handles lead pipeline HTTP requests
type LeadHandler struct {
	leadFlow  businessflow.LeadFlow
	validator *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadFlow businessflow.LeadFlow) *LeadHandler {
	return &LeadHandler{
		leadFlow:  leadFlow,
		validator: validator.New(),
	}
}

// CreateLead opens a lead
// @Summary Create Lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body dto.CreateLeadRequest true "Lead data"
// @Success 201 {object} dto.APIResponse{data=dto.LeadResponse} "Lead created"
// @Failure 404 {object} dto.APIResponse "Account or contact not found"
// @Router /api/v1/leads [post]
func (h *LeadHandler) CreateLead(c fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.leadFlow.CreateLead(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsAccountNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND", nil)
		}
		if businessflow.IsContactNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", nil)
		}
		if businessflow.IsContactAccountMismatch(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Contact does not belong to account", "CONTACT_ACCOUNT_MISMATCH", nil)
		}
		log.Println("Create lead failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", "CREATE_LEAD_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateLead applies a partial update to a lead
// @Summary Update Lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param uuid path string true "Lead UUID"
// @Param request body dto.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.LeadResponse} "Lead updated"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/leads/{uuid} [put]
func (h *LeadHandler) UpdateLead(c fiber.Ctx) error {
	var req dto.UpdateLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.leadFlow.UpdateLead(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		log.Println("Update lead failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", "UPDATE_LEAD_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// GetLead returns a single lead
// @Summary Get Lead
// @Tags Leads
// @Produce json
// @Param uuid path string true "Lead UUID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadResponse} "Lead retrieved"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/leads/{uuid} [get]
func (h *LeadHandler) GetLead(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.leadFlow.GetLead(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		log.Println("Get lead failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve lead", "GET_LEAD_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListLeads returns a filtered page of leads
// @Summary List Leads
// @Tags Leads
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListLeadsResponse} "Leads retrieved"
// @Router /api/v1/leads [get]
func (h *LeadHandler) ListLeads(c fiber.Ctx) error {
	var req dto.ListLeadsRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.leadFlow.ListLeads(ctx, &req)
	if err != nil {
		log.Println("List leads failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list leads", "LIST_LEADS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ChangeStatus moves a lead through the pipeline
// @Summary Change Lead Status
// @Tags Leads
// @Accept json
// @Produce json
// @Param uuid path string true "Lead UUID"
// @Param request body dto.ChangeLeadStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.LeadResponse} "Status changed"
// @Failure 422 {object} dto.APIResponse "Transition not allowed"
// @Router /api/v1/leads/{uuid}/status [post]
func (h *LeadHandler) ChangeStatus(c fiber.Ctx) error {
	var req dto.ChangeLeadStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.leadFlow.ChangeStatus(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidLeadTransition(err) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, "Lead status transition not allowed", "INVALID_LEAD_TRANSITION", nil)
		}
		log.Println("Change lead status failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to change lead status", "CHANGE_LEAD_STATUS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// PipelineSummary returns lead counts per pipeline stage
// @Summary Lead Pipeline Summary
// @Tags Leads
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.LeadPipelineResponse} "Pipeline retrieved"
// @Router /api/v1/leads/pipeline [get]
func (h *LeadHandler) PipelineSummary(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.leadFlow.PipelineSummary(ctx)
	if err != nil {
		log.Println("Pipeline summary failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to build pipeline summary", "PIPELINE_SUMMARY_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
