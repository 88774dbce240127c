package businessflow

import (
	"bytes"
	"context"
	"fmt"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// forecastProbabilities weight each open quote status by how likely it is
// to close. Accepted quotes count in full; terminal losses never reach the
// forecast query.
var forecastProbabilities = map[string]decimal.Decimal{
	models.QuoteStatusPriced:          decimal.NewFromFloat(0.30),
	models.QuoteStatusPendingApproval: decimal.NewFromFloat(0.40),
	models.QuoteStatusApproved:        decimal.NewFromFloat(0.60),
	models.QuoteStatusSent:            decimal.NewFromFloat(0.75),
	models.QuoteStatusAccepted:        decimal.NewFromInt(1),
}

// ForecastFlow serves the weighted pipeline forecast
type ForecastFlow interface {
	Forecast(ctx context.Context) (*dto.ForecastResponse, error)
	ExportForecast(ctx context.Context) (*dto.ExportForecastResponse, error)
}

// ForecastFlowImpl implements the forecast business flow
type ForecastFlowImpl struct {
	quoteRepo    repository.QuoteRepository
	settingsFlow SettingsFlow
}

// NewForecastFlow creates a new forecast flow instance. Settings are read
// through the settings flow so the forecast sees the cached currency.
func NewForecastFlow(quoteRepo repository.QuoteRepository, settingsFlow SettingsFlow) ForecastFlow {
	return &ForecastFlowImpl{quoteRepo: quoteRepo, settingsFlow: settingsFlow}
}

// Forecast weights every open quote by its status probability
func (f *ForecastFlowImpl) Forecast(ctx context.Context) (*dto.ForecastResponse, error) {
	quotes, err := f.quoteRepo.ListActiveForForecast(ctx)
	if err != nil {
		return nil, NewBusinessError("FORECAST_FAILED", "Failed to build forecast", err)
	}

	currency := utils.DefaultCurrency
	if settings, err := f.settingsFlow.GetSettings(ctx); err == nil && settings.Settings.Currency != "" {
		currency = settings.Settings.Currency
	}

	totalPipeline := decimal.Zero
	totalWeighted := decimal.Zero
	items := make([]dto.ForecastItem, 0, len(quotes))

	for _, quote := range quotes {
		probability, ok := forecastProbabilities[quote.Status]
		if !ok {
			continue
		}
		weighted := quote.Total.Mul(probability)

		leadTitle := ""
		if quote.Lead != nil {
			leadTitle = quote.Lead.Title
		}

		items = append(items, dto.ForecastItem{
			QuoteID:       quote.ID,
			QuoteCode:     quote.Code,
			LeadTitle:     leadTitle,
			Status:        quote.Status,
			Total:         quote.Total.StringFixed(2),
			Probability:   probability.StringFixed(2),
			WeightedValue: weighted.StringFixed(2),
		})
		totalPipeline = totalPipeline.Add(quote.Total)
		totalWeighted = totalWeighted.Add(weighted)
	}

	return &dto.ForecastResponse{
		Message:       "Forecast retrieved successfully",
		Currency:      currency,
		TotalPipeline: totalPipeline.StringFixed(2),
		TotalWeighted: totalWeighted.StringFixed(2),
		Items:         items,
	}, nil
}

// ExportForecast renders the forecast as an XLSX workbook
func (f *ForecastFlowImpl) ExportForecast(ctx context.Context) (*dto.ExportForecastResponse, error) {
	forecast, err := f.Forecast(ctx)
	if err != nil {
		return nil, err
	}

	workbook := excelize.NewFile()
	defer workbook.Close()

	const sheet = "Forecast"
	index, err := workbook.NewSheet(sheet)
	if err != nil {
		return nil, NewBusinessError("EXPORT_FORECAST_FAILED", "Failed to export forecast", err)
	}
	workbook.SetActiveSheet(index)
	workbook.DeleteSheet("Sheet1")

	headers := []string{"Quote Code", "Lead", "Status", fmt.Sprintf("Total (%s)", forecast.Currency), "Probability", fmt.Sprintf("Weighted (%s)", forecast.Currency)}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, NewBusinessError("EXPORT_FORECAST_FAILED", "Failed to export forecast", err)
		}
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return nil, NewBusinessError("EXPORT_FORECAST_FAILED", "Failed to export forecast", err)
		}
	}

	for row, item := range forecast.Items {
		values := []any{item.QuoteCode, item.LeadTitle, item.Status, item.Total, item.Probability, item.WeightedValue}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, NewBusinessError("EXPORT_FORECAST_FAILED", "Failed to export forecast", err)
			}
			if err := workbook.SetCellValue(sheet, cell, value); err != nil {
				return nil, NewBusinessError("EXPORT_FORECAST_FAILED", "Failed to export forecast", err)
			}
		}
	}

	summaryRow := len(forecast.Items) + 3
	totals := [][2]any{
		{"Total pipeline", forecast.TotalPipeline},
		{"Total weighted", forecast.TotalWeighted},
	}
	for i, pair := range totals {
		labelCell, _ := excelize.CoordinatesToCellName(1, summaryRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(4, summaryRow+i)
		_ = workbook.SetCellValue(sheet, labelCell, pair[0])
		_ = workbook.SetCellValue(sheet, valueCell, pair[1])
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return nil, NewBusinessError("EXPORT_FORECAST_FAILED", "Failed to export forecast", err)
	}

	return &dto.ExportForecastResponse{
		FileName:    fmt.Sprintf("forecast-%s.xlsx", utils.UTCNow().Format("2006-01-02")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}
