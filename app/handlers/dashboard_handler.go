package handlers

import (
	"fmt"
	"log"

	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/gofiber/fiber/v3"
)

// DashboardHandler handles dashboard and forecast HTTP requests
type DashboardHandler struct {
	dashboardFlow businessflow.DashboardFlow
	forecastFlow  businessflow.ForecastFlow
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardFlow businessflow.DashboardFlow, forecastFlow businessflow.ForecastFlow) *DashboardHandler {
	return &DashboardHandler{
		dashboardFlow: dashboardFlow,
		forecastFlow:  forecastFlow,
	}
}

// Summary returns the operational dashboard counters
// @Summary Dashboard Summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardSummaryResponse} "Summary retrieved"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Summary(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.dashboardFlow.Summary(ctx)
	if err != nil {
		log.Println("Dashboard summary failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to build dashboard summary", "DASHBOARD_SUMMARY_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// Forecast returns probability-weighted revenue from the open pipeline
// @Summary Revenue Forecast
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ForecastResponse} "Forecast retrieved"
// @Router /api/v1/forecast [get]
func (h *DashboardHandler) Forecast(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.forecastFlow.Forecast(ctx)
	if err != nil {
		log.Println("Forecast failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to build forecast", "FORECAST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ExportForecast streams the forecast as a spreadsheet download
// @Summary Export Forecast
// @Tags Dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Spreadsheet file"
// @Router /api/v1/forecast/export [get]
func (h *DashboardHandler) ExportForecast(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.forecastFlow.ExportForecast(ctx)
	if err != nil {
		log.Println("Forecast export failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to export forecast", "FORECAST_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.FileName))
	return c.Send(result.Content)
}
