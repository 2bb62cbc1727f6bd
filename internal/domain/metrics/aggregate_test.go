package metrics_test

import (
	"testing"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/faktura-pro/faktura-api/internal/domain/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummarize_ReferenceScenario pins the documented dashboard scenario:
// a paid January invoice, a February Storno and an unpaid invoice from the
// previous year, observed on 2024-02-20.
func TestSummarize_ReferenceScenario(t *testing.T) {
	now := mustDate(t, "2024-02-20")
	invoices := []entity.Invoice{
		invoiceOn(t, "2024-01-15", 1000, paid()),
		invoiceOn(t, "2024-02-15", -200, withNotes("Stornorechnung")),
		invoiceOn(t, "2023-12-01", 500),
	}

	s := metrics.Summarize(invoices, now)

	assertDecimal(t, "1300", s.TotalAllTime)
	assertDecimal(t, "800", s.TotalYTD)
	assertDecimal(t, "1000", s.PaidTotalYTD)
	assert.Equal(t, 2, s.NumInvoicesYTD)
	assertDecimal(t, "-200", s.TotalMTD)
	assertDecimal(t, "500", s.UnpaidTotal,
		"the 2023 invoice is outstanding regardless of year")
	assert.Equal(t, 1, s.OutstandingCount)
	assertDecimal(t, "400", s.AverageInvoiceYTD)

	require.Len(t, s.MonthlyTotals, 2)
	assert.Equal(t, "2024-01", s.MonthlyTotals[0].Month)
	assertDecimal(t, "1000", s.MonthlyTotals[0].Total)
	assert.Equal(t, "2024-02", s.MonthlyTotals[1].Month)
	assertDecimal(t, "-200", s.MonthlyTotals[1].Total)
}

// TestSummarize_Idempotent guards the determinism contract: same input, same
// clock, bit-identical output.
func TestSummarize_Idempotent(t *testing.T) {
	now := mustDate(t, "2024-06-15")
	invoices := []entity.Invoice{
		invoiceOn(t, "2024-01-15", 1000, withClient("Acme")),
		invoiceOn(t, "2024-02-15", 2000, withClient("Beta")),
		invoiceOn(t, "2024-03-15", 2000, withClient("Acme")),
	}
	first := metrics.Summarize(invoices, now)
	second := metrics.Summarize(invoices, now)
	assert.Equal(t, first, second)
}

// TestSummarize_DeletedInvoicesNeverCount varies a soft-deleted invoice's
// amount and date and expects no aggregate to move.
func TestSummarize_DeletedInvoicesNeverCount(t *testing.T) {
	now := mustDate(t, "2024-06-15")
	base := []entity.Invoice{invoiceOn(t, "2024-03-01", 1000, paid())}

	withDeleted := append([]entity.Invoice{}, base...)
	withDeleted = append(withDeleted, invoiceOn(t, "2024-05-01", 99999, deleted()))

	assert.Equal(t, metrics.Summarize(base, now), metrics.Summarize(withDeleted, now))

	withDeleted[1] = invoiceOn(t, "2019-01-01", -5, deleted())
	assert.Equal(t, metrics.Summarize(base, now), metrics.Summarize(withDeleted, now))
}

func TestSummarize_InvalidDateCountsAllTimeOnly(t *testing.T) {
	now := mustDate(t, "2024-06-15")
	invoices := []entity.Invoice{
		invoiceOn(t, "2024-03-01", 1000),
		invoiceOn(t, "2024-03-01", 700, withoutDate()),
	}
	s := metrics.Summarize(invoices, now)
	assertDecimal(t, "1700", s.TotalAllTime)
	assertDecimal(t, "1000", s.TotalYTD, "undated invoices skip date buckets")
	assert.Equal(t, 1, s.NumInvoicesYTD)
}

func TestSummarize_EmptyInputIsAllZeros(t *testing.T) {
	s := metrics.Summarize(nil, mustDate(t, "2024-06-15"))
	assertDecimal(t, "0", s.TotalAllTime)
	assertDecimal(t, "0", s.TotalYTD)
	assertDecimal(t, "0", s.AverageInvoiceYTD, "no NaN, no division by zero")
	assertDecimal(t, "0", s.TopClientShare)
	assert.Empty(t, s.TopClients)
}

func TestSummarize_TopClientsShares(t *testing.T) {
	now := mustDate(t, "2024-06-15")
	invoices := []entity.Invoice{
		invoiceOn(t, "2024-01-10", 6000, withClient("Acme")),
		invoiceOn(t, "2024-02-10", 3000, withClient("Beta")),
		invoiceOn(t, "2024-03-10", 1000),  // no client name -> "Unknown"
		invoiceOn(t, "2024-04-10", 500, withClient("Gamma")),
		invoiceOn(t, "2024-04-12", 300, withClient("Delta")),
		invoiceOn(t, "2024-04-14", 200, withClient("Epsilon")),
	}
	s := metrics.Summarize(invoices, now)

	require.Len(t, s.PerClientTotals, 6)
	require.Len(t, s.TopClients, 5, "ranking is capped at five clients")
	assert.Equal(t, "Acme", s.TopClients[0].Name)
	assert.Equal(t, "Unknown", s.TopClients[2].Name)

	// Each share must be exactly clientTotal / totalYTD.
	for _, c := range s.TopClients {
		assert.True(t, c.Share.Equal(c.Total.Div(s.TotalYTD)),
			"share of %s: want %s, got %s", c.Name, c.Total.Div(s.TotalYTD), c.Share)
	}
	assert.True(t, s.TopClientShare.Equal(s.TopClients[0].Share))
}

func TestMonthlyTotals_ArbitraryYear(t *testing.T) {
	invoices := []entity.Invoice{
		invoiceOn(t, "2022-05-10", 100),
		invoiceOn(t, "2022-05-20", 150),
		invoiceOn(t, "2023-01-02", 999),
	}
	totals := metrics.MonthlyTotals(invoices, 2022)
	require.Len(t, totals, 1)
	assert.Equal(t, "2022-05", totals[0].Month)
	assertDecimal(t, "250", totals[0].Total)
}

func TestSmoothedMonthlyTotals_CutoffShiftsToPreviousMonth(t *testing.T) {
	invoices := []entity.Invoice{
		invoiceOn(t, "2024-03-05", 1000), // day 5 < 20 -> billed for February
		invoiceOn(t, "2024-03-25", 400),  // day 25 stays in March
	}
	totals := metrics.SmoothedMonthlyTotals(invoices, 2024, metrics.DefaultCutoffDay)
	require.Len(t, totals, 2)
	assert.Equal(t, "2024-02", totals[0].Month)
	assertDecimal(t, "1000", totals[0].Total)
	assert.Equal(t, "2024-03", totals[1].Month)
	assertDecimal(t, "400", totals[1].Total)
}

func TestSmoothedMonthlyTotals_JanuaryRollsIntoPreviousYear(t *testing.T) {
	invoices := []entity.Invoice{invoiceOn(t, "2024-01-10", 800)}

	assert.Empty(t, metrics.SmoothedMonthlyTotals(invoices, 2024, metrics.DefaultCutoffDay),
		"an early-January invoice bills December work")

	prev := metrics.SmoothedMonthlyTotals(invoices, 2023, metrics.DefaultCutoffDay)
	require.Len(t, prev, 1)
	assert.Equal(t, "2023-12", prev[0].Month)
	assertDecimal(t, "800", prev[0].Total)
}

func TestSmoothedMonthlyTotalsByClient(t *testing.T) {
	invoices := []entity.Invoice{
		invoiceOn(t, "2024-03-25", 400, withClient("Acme")),
		invoiceOn(t, "2024-03-25", 900, withClient("Beta")),
		invoiceOn(t, "2024-04-02", 100, withClient("Acme")), // day 2 -> March bucket
	}
	buckets := metrics.SmoothedMonthlyTotalsByClient(invoices, 2024, metrics.DefaultCutoffDay)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-03", buckets[0].Month)
	require.Len(t, buckets[0].Clients, 2)
	assert.Equal(t, "Beta", buckets[0].Clients[0].Name, "clients sorted by total, descending")
	assertDecimal(t, "500", buckets[0].Clients[1].Total)
}

func TestInvoiceYears(t *testing.T) {
	now := mustDate(t, "2024-06-15")
	invoices := []entity.Invoice{
		invoiceOn(t, "2021-02-01", 10),
		invoiceOn(t, "2023-02-01", 10),
		invoiceOn(t, "2023-08-01", 10),
		invoiceOn(t, "2020-01-01", 10, deleted()),
		invoiceOn(t, "2019-01-01", 10, withoutDate()),
	}
	assert.Equal(t, []int{2024, 2023, 2021}, metrics.InvoiceYears(invoices, now),
		"distinct valid years plus the current year, descending")

	assert.Equal(t, []int{2024}, metrics.InvoiceYears(nil, now),
		"the year selector always offers at least the current year")
}
