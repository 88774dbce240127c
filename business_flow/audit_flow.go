package businessflow

import (
	"context"
	"time"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
)

// AuditFlow exposes the audit trail for compliance review
type AuditFlow interface {
	ListAuditLogs(ctx context.Context, request *dto.ListAuditLogsRequest) (*dto.ListAuditLogsResponse, error)
}

// AuditFlowImpl implements the audit trail business flow
type AuditFlowImpl struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditFlow creates a new audit flow instance
func NewAuditFlow(auditRepo repository.AuditLogRepository) AuditFlow {
	return &AuditFlowImpl{auditRepo: auditRepo}
}

func (f *AuditFlowImpl) ListAuditLogs(ctx context.Context, request *dto.ListAuditLogsRequest) (*dto.ListAuditLogsResponse, error) {
	filter := models.AuditLogFilter{
		UserID:     request.UserID,
		Action:     request.Action,
		EntityType: request.EntityType,
		EntityID:   request.EntityID,
		Success:    request.Success,
	}
	if request.CreatedAfter != nil {
		after, err := time.Parse(time.RFC3339, *request.CreatedAfter)
		if err != nil {
			return nil, NewBusinessError("INVALID_TIME_RANGE", "created_after must be RFC3339", err)
		}
		filter.CreatedAfter = &after
	}
	if request.CreatedBefore != nil {
		before, err := time.Parse(time.RFC3339, *request.CreatedBefore)
		if err != nil {
			return nil, NewBusinessError("INVALID_TIME_RANGE", "created_before must be RFC3339", err)
		}
		filter.CreatedBefore = &before
	}

	entries, err := f.auditRepo.ByFilter(ctx, filter, "created_at DESC", request.Limit(), request.Offset())
	if err != nil {
		return nil, NewBusinessError("LIST_AUDIT_LOGS_FAILED", "Failed to list audit logs", err)
	}
	total, err := f.auditRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_AUDIT_LOGS_FAILED", "Failed to count audit logs", err)
	}

	items := make([]dto.AuditLogItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toAuditLogItem(entry))
	}

	return &dto.ListAuditLogsResponse{
		Message: "Audit logs retrieved successfully",
		Items:   items,
		Pagination: dto.PaginationMeta{
			Page:       request.Page,
			PageSize:   request.Limit(),
			TotalCount: total,
		},
	}, nil
}

func toAuditLogItem(entry *models.AuditLog) dto.AuditLogItem {
	return dto.AuditLogItem{
		ID:           entry.ID,
		UserID:       entry.UserID,
		Action:       entry.Action,
		EntityType:   entry.EntityType,
		EntityID:     entry.EntityID,
		Description:  entry.Description,
		IPAddress:    entry.IPAddress,
		RequestID:    entry.RequestID,
		Success:      entry.Success == nil || *entry.Success,
		ErrorMessage: entry.ErrorMessage,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}
}
