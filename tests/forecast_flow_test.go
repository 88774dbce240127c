package tests

import (
	"strings"
	"testing"

	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	testingutil "github.com/marafiq-hq/staffing-crm/testing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForecastFlow(testDB *testingutil.TestDB) businessflow.ForecastFlow {
	settingsFlow := businessflow.NewSettingsFlow(
		repository.NewSystemSettingsRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		nil,
		nil,
		testDB.DB,
	)
	return businessflow.NewForecastFlow(repository.NewQuoteRepository(testDB.DB), settingsFlow)
}

func TestForecast(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestForecastFlow(testDB)
		ctx := testingutil.CreateTestContext()

		role, err := fixtures.CreateTestRole("sales_rep", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)
		account, err := fixtures.CreateTestAccount()
		require.NoError(t, err)
		lead, err := fixtures.CreateTestLead(account.ID, user.ID)
		require.NoError(t, err)

		require.NoError(t, testDB.DB.Create(&models.SystemSettings{
			VATRate:           decimal.NewFromInt(15),
			Currency:          "AED",
			QuoteValidityDays: 30,
		}).Error)

		seed := []struct {
			code   string
			status string
			total  int64
		}{
			{"QT-FC-1", models.QuoteStatusPriced, 1000},
			{"QT-FC-2", models.QuoteStatusSent, 2000},
			{"QT-FC-3", models.QuoteStatusAccepted, 500},
			{"QT-FC-4", models.QuoteStatusRejected, 9999},
			{"QT-FC-5", models.QuoteStatusDraft, 9999},
		}
		for _, q := range seed {
			require.NoError(t, testDB.DB.Create(&models.Quote{
				LeadID:   lead.ID,
				Code:     q.code,
				Status:   q.status,
				Total:    decimal.NewFromInt(q.total),
				Currency: "AED",
			}).Error)
		}

		t.Run("WeightsOpenQuotesByStatus", func(t *testing.T) {
			forecast, err := flow.Forecast(ctx)
			require.NoError(t, err)

			assert.Equal(t, "AED", forecast.Currency)
			assert.Len(t, forecast.Items, 3)
			assert.Equal(t, "3500.00", forecast.TotalPipeline)
			assert.Equal(t, "2300.00", forecast.TotalWeighted)

			byCode := make(map[string]string, len(forecast.Items))
			for _, item := range forecast.Items {
				byCode[item.QuoteCode] = item.WeightedValue
				assert.Equal(t, lead.Title, item.LeadTitle)
			}
			assert.Equal(t, "300.00", byCode["QT-FC-1"])
			assert.Equal(t, "1500.00", byCode["QT-FC-2"])
			assert.Equal(t, "500.00", byCode["QT-FC-3"])
		})

		t.Run("CurrencyFollowsLatestSettings", func(t *testing.T) {
			require.NoError(t, testDB.DB.Create(&models.SystemSettings{
				VATRate:           decimal.NewFromInt(15),
				Currency:          "KWD",
				QuoteValidityDays: 30,
			}).Error)

			forecast, err := flow.Forecast(ctx)
			require.NoError(t, err)
			assert.Equal(t, "KWD", forecast.Currency)
		})

		t.Run("Export", func(t *testing.T) {
			export, err := flow.ExportForecast(ctx)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(export.FileName, "forecast-"))
			assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.ContentType)
			assert.NotEmpty(t, export.Content)
		})

		return nil
	})
	require.NoError(t, err)
}
