package metrics

import (
	"time"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// § 19 UStG revenue thresholds in EUR.
var (
	// KleinunternehmerPreviousYearLimit caps the previous calendar year.
	KleinunternehmerPreviousYearLimit = decimal.NewFromInt(22000)
	// KleinunternehmerCurrentYearLimit caps the running year.
	KleinunternehmerCurrentYearLimit = decimal.NewFromInt(50000)
)

// KleinunternehmerReport tracks the small-business VAT exemption thresholds.
type KleinunternehmerReport struct {
	PreviousYearTotal    decimal.Decimal `json:"previous_year_total"`
	PreviousYearExceeded bool            `json:"previous_year_exceeded"`

	CurrentYearTotalYTD decimal.Decimal `json:"current_year_total_ytd"`
	// ProjectedAnnual is the day-of-year run-rate projection of the current
	// year's total.
	ProjectedAnnual     decimal.Decimal `json:"projected_annual"`
	ProjectionExceeded  bool            `json:"projection_exceeded"`
	// ThresholdRemaining is the headroom to the 50 000 € limit; negative once
	// the limit is crossed.
	ThresholdRemaining decimal.Decimal `json:"threshold_remaining"`

	// EstimatedCrossingDate linearly extrapolates when the 50 000 € limit
	// will be crossed; nil when already exceeded or there is no revenue yet.
	EstimatedCrossingDate *time.Time `json:"estimated_crossing_date,omitempty"`
}

// MonitorKleinunternehmer sums net amounts for the previous year and the
// running year (any sign: a rectification legitimately reduces the § 19
// totals, unlike in VAT accounting) and checks both statutory limits.
func MonitorKleinunternehmer(invoices []entity.Invoice, now time.Time) KleinunternehmerReport {
	year := now.Year()

	var r KleinunternehmerReport
	for _, inv := range invoices {
		if inv.Deleted || !inv.HasValidDate() {
			continue
		}
		switch inv.Date.Year() {
		case year - 1:
			r.PreviousYearTotal = r.PreviousYearTotal.Add(NetAmount(inv))
		case year:
			r.CurrentYearTotalYTD = r.CurrentYearTotalYTD.Add(NetAmount(inv))
		}
	}

	r.PreviousYearExceeded = r.PreviousYearTotal.GreaterThan(KleinunternehmerPreviousYearLimit)

	dayOfYear := decimal.NewFromInt(int64(now.YearDay()))
	avgPerDay := r.CurrentYearTotalYTD.Div(dayOfYear)
	r.ProjectedAnnual = avgPerDay.Mul(daysPerYear)
	r.ProjectionExceeded = r.ProjectedAnnual.GreaterThan(KleinunternehmerCurrentYearLimit)
	r.ThresholdRemaining = KleinunternehmerCurrentYearLimit.Sub(r.CurrentYearTotalYTD)

	if r.CurrentYearTotalYTD.IsPositive() && r.ThresholdRemaining.IsPositive() && avgPerDay.IsPositive() {
		daysNeeded := int(r.ThresholdRemaining.Div(avgPerDay).Ceil().IntPart())
		crossing := truncateToDay(now).AddDate(0, 0, daysNeeded)
		r.EstimatedCrossingDate = &crossing
	}
	return r
}
