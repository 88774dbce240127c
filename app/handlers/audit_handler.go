package handlers

import (
	"log"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/gofiber/fiber/v3"
)

// AuditHandler handles audit trail HTTP requests
type AuditHandler struct {
	auditFlow businessflow.AuditFlow
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditFlow businessflow.AuditFlow) *AuditHandler {
	return &AuditHandler{auditFlow: auditFlow}
}

// ListAuditLogs returns a filtered page of the audit trail
// @Summary List Audit Logs
// @Tags Audit
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListAuditLogsResponse} "Audit logs retrieved"
// @Router /api/v1/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c fiber.Ctx) error {
	var req dto.ListAuditLogsRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.auditFlow.ListAuditLogs(ctx, &req)
	if err != nil {
		log.Println("List audit logs failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list audit logs", "LIST_AUDIT_LOGS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
