package handlers

import (
	"log"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CommunicationHandler handles communication log HTTP requests
type CommunicationHandler struct {
	communicationFlow businessflow.CommunicationFlow
	validator         *validator.Validate
}

// NewCommunicationHandler creates a new communication handler
func NewCommunicationHandler(communicationFlow businessflow.CommunicationFlow) *CommunicationHandler {
	return &CommunicationHandler{
		communicationFlow: communicationFlow,
		validator:         validator.New(),
	}
}

// LogCommunication records a touchpoint and optionally sends the email
// @Summary Log Communication
// @Tags Communications
// @Accept json
// @Produce json
// @Param request body dto.LogCommunicationRequest true "Communication data"
// @Success 201 {object} dto.APIResponse{data=dto.CommunicationResponse} "Communication logged"
// @Failure 404 {object} dto.APIResponse "Referenced record not found"
// @Router /api/v1/communications [post]
func (h *CommunicationHandler) LogCommunication(c fiber.Ctx) error {
	var req dto.LogCommunicationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.communicationFlow.LogCommunication(ctx, &req, clientMetadata(c))
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
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		log.Println("Log communication failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to log communication", "LOG_COMMUNICATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// ListByLead returns a lead's communication history
// @Summary List Lead Communications
// @Tags Communications
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListCommunicationsResponse} "Communications retrieved"
// @Router /api/v1/leads/{id}/communications [get]
func (h *CommunicationHandler) ListByLead(c fiber.Ctx) error {
	leadID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_REQUEST", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.communicationFlow.ListByLead(ctx, leadID)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		log.Println("List lead communications failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list communications", "LIST_COMMUNICATIONS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListByAccount returns an account's communication history
// @Summary List Account Communications
// @Tags Communications
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListCommunicationsResponse} "Communications retrieved"
// @Router /api/v1/accounts/{id}/communications [get]
func (h *CommunicationHandler) ListByAccount(c fiber.Ctx) error {
	accountID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid account ID", "INVALID_REQUEST", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.communicationFlow.ListByAccount(ctx, accountID)
	if err != nil {
		if businessflow.IsAccountNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND", nil)
		}
		log.Println("List account communications failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list communications", "LIST_COMMUNICATIONS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
