package dto

import "github.com/faktura-pro/faktura-api/internal/domain/metrics"

// ── Query parameters ──────────────────────────────────────────────────────────

// MonthlySeriesRequest parameters for GET /api/statistics/monthly.
type MonthlySeriesRequest struct {
	Year     int  `query:"year"`     // default: current year
	Smoothed bool `query:"smoothed"` // apply the billing-cutoff rule
	Cutoff   int  `query:"cutoff"`   // cutoff day, default 20
}

// ProjectionRequest parameters for GET /api/statistics/projection.
type ProjectionRequest struct {
	Year     int    `query:"year"`     // default: current year
	Strategy string `query:"strategy"` // day-of-year | first-invoice-span
}

// VATSimulationRequest parameters for GET /api/statistics/vat.
type VATSimulationRequest struct {
	RatePercent string `query:"rate"` // optional override, e.g. "19" or "7.5"
}

// ── Responses ─────────────────────────────────────────────────────────────────

// MonthlySeriesResponse is one year of (optionally smoothed) monthly revenue.
type MonthlySeriesResponse struct {
	Year     int                  `json:"year"`
	Smoothed bool                 `json:"smoothed"`
	Months   []metrics.MonthTotal `json:"months"`
	// ByClient is only filled for smoothed series (breakdown tooltips).
	ByClient []metrics.MonthClientTotals `json:"by_client,omitempty"`
}

// YearsResponse feeds the dashboard year selector.
type YearsResponse struct {
	Years []int `json:"years"`
}
