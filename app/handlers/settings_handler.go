package handlers

import (
	"log"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SettingsHandler handles system settings HTTP requests
type SettingsHandler struct {
	settingsFlow businessflow.SettingsFlow
	validator    *validator.Validate
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsFlow businessflow.SettingsFlow) *SettingsHandler {
	return &SettingsHandler{
		settingsFlow: settingsFlow,
		validator:    validator.New(),
	}
}

// GetSettings returns the current system settings
// @Summary Get Settings
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.GetSettingsResponse} "Settings retrieved"
// @Router /api/v1/settings [get]
func (h *SettingsHandler) GetSettings(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.settingsFlow.GetSettings(ctx)
	if err != nil {
		log.Println("Get settings failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve settings", "GET_SETTINGS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// UpdateSettings writes a new settings revision
// @Summary Update Settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings to change"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateSettingsResponse} "Settings updated"
// @Failure 400 {object} dto.APIResponse "Value out of range"
// @Router /api/v1/settings [put]
func (h *SettingsHandler) UpdateSettings(c fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.settingsFlow.UpdateSettings(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidVATRate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "VAT rate must be between 0 and 100", "INVALID_VAT_RATE", nil)
		}
		if businessflow.IsInvalidCurrency(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Currency must be a 3-letter ISO code", "INVALID_CURRENCY", nil)
		}
		log.Println("Update settings failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update settings", "UPDATE_SETTINGS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
