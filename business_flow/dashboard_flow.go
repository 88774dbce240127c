package businessflow

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
)

const recentActivityLimit = 10

// DashboardFlow serves the landing page counters
type DashboardFlow interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
}

// DashboardFlowImpl implements the dashboard business flow
type DashboardFlowImpl struct {
	accountRepo repository.AccountRepository
	leadRepo    repository.LeadRepository
	quoteRepo   repository.QuoteRepository
	commRepo    repository.CommunicationLogRepository
}

// NewDashboardFlow creates a new dashboard flow instance
func NewDashboardFlow(
	accountRepo repository.AccountRepository,
	leadRepo repository.LeadRepository,
	quoteRepo repository.QuoteRepository,
	commRepo repository.CommunicationLogRepository,
) DashboardFlow {
	return &DashboardFlowImpl{
		accountRepo: accountRepo,
		leadRepo:    leadRepo,
		quoteRepo:   quoteRepo,
		commRepo:    commRepo,
	}
}

// Summary aggregates the dashboard counters in one pass. Open leads are
// those still moving through the pipeline; open quotes are those not yet
// accepted, rejected, or expired.
func (f *DashboardFlowImpl) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	activeAccounts, err := f.accountRepo.Count(ctx, models.AccountFilter{IsActive: utils.ToPtr(true)})
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to build dashboard summary", err)
	}

	statusCounts, err := f.leadRepo.CountByStatus(ctx)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to build dashboard summary", err)
	}
	leadsByStatus := make(map[string]int64, len(statusCounts))
	var openLeads int64
	for status, count := range statusCounts {
		leadsByStatus[string(status)] = count
		switch status {
		case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusQualified:
			openLeads += count
		}
	}

	var openQuotes int64
	quotedRevenue := decimal.Zero
	quotes, err := f.quoteRepo.ListActiveForForecast(ctx)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to build dashboard summary", err)
	}
	for _, quote := range quotes {
		if quote.Status == models.QuoteStatusAccepted {
			continue
		}
		openQuotes++
		quotedRevenue = quotedRevenue.Add(quote.Total)
	}

	recent, err := f.commRepo.ListRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to build dashboard summary", err)
	}
	activity := make([]dto.CommunicationItem, 0, len(recent))
	for _, entry := range recent {
		activity = append(activity, toCommunicationItem(entry))
	}

	return &dto.DashboardSummaryResponse{
		Message:        "Dashboard retrieved successfully",
		ActiveAccounts: activeAccounts,
		OpenLeads:      openLeads,
		LeadsByStatus:  leadsByStatus,
		OpenQuotes:     openQuotes,
		QuotedRevenue:  quotedRevenue.StringFixed(2),
		RecentActivity: activity,
	}, nil
}
