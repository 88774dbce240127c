package dto

// DashboardSummaryResponse represents the landing page counters
type DashboardSummaryResponse struct {
	Message        string           `json:"message" example:"Dashboard retrieved successfully"`
	ActiveAccounts int64            `json:"active_accounts" example:"134"`
	OpenLeads      int64            `json:"open_leads" example:"28"`
	LeadsByStatus  map[string]int64 `json:"leads_by_status"`
	OpenQuotes     int64            `json:"open_quotes" example:"12"`
	QuotedRevenue  string           `json:"quoted_revenue" example:"482000.00"`
	RecentActivity []CommunicationItem `json:"recent_activity"`
}

// ForecastItem represents one quote's weighted contribution to the pipeline
type ForecastItem struct {
	QuoteID       uint   `json:"quote_id" example:"27"`
	QuoteCode     string `json:"quote_code" example:"QT-2026-000027"`
	LeadTitle     string `json:"lead_title" example:"Site security staffing, Riyadh metro"`
	Status        string `json:"status" example:"sent"`
	Total         string `json:"total" example:"30475.00"`
	Probability   string `json:"probability" example:"0.60"`
	WeightedValue string `json:"weighted_value" example:"18285.00"`
}

// ForecastResponse represents the weighted pipeline forecast
type ForecastResponse struct {
	Message       string         `json:"message" example:"Forecast retrieved successfully"`
	Currency      string         `json:"currency" example:"SAR"`
	TotalPipeline string         `json:"total_pipeline" example:"482000.00"`
	TotalWeighted string         `json:"total_weighted" example:"214300.00"`
	Items         []ForecastItem `json:"items"`
}

// ExportForecastResponse carries the generated spreadsheet
type ExportForecastResponse struct {
	FileName    string `json:"file_name" example:"forecast-2026-03-01.xlsx"`
	ContentType string `json:"content_type" example:"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"`
	Content     []byte `json:"-"`
}
