package metrics

import (
	"sort"
	"time"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProjectionStrategy selects how a partial year is annualized.
type ProjectionStrategy string

const (
	// StrategyDayOfYear scales the year-to-date total by day-of-year:
	// total / dayOfYear × 365.
	StrategyDayOfYear ProjectionStrategy = "day-of-year"

	// StrategyFirstInvoiceSpan anchors the run rate to the first invoice date
	// of the year instead of January 1, which avoids under-projection when
	// invoicing started mid-year.
	StrategyFirstInvoiceSpan ProjectionStrategy = "first-invoice-span"
)

// daysPerYear is the fixed annualization basis (leap days are ignored).
var daysPerYear = decimal.NewFromInt(365)

// twelve months, for non-current-year averages.
var twelve = decimal.NewFromInt(12)

// Projection is the run-rate revenue forecast for one year.
type Projection struct {
	Year            int                `json:"year"`
	Strategy        ProjectionStrategy `json:"strategy"`
	TotalYTD        decimal.Decimal    `json:"total_ytd"`
	MonthsElapsed   int                `json:"months_elapsed"`
	AverageMonthly  decimal.Decimal    `json:"average_monthly"`
	ProjectedAnnual decimal.Decimal    `json:"projected_annual"`
}

// ProjectRevenue forecasts the annual revenue of the target year. For the
// current year the partial total is annualized with the chosen strategy; for
// past or future years no projection happens beyond the actual total
// (projected = actual, average = total / 12). A year without invoices yields
// the zero projection.
func ProjectRevenue(invoices []entity.Invoice, year int, now time.Time, strategy ProjectionStrategy) Projection {
	p := Projection{Year: year, Strategy: strategy}

	total := decimal.Zero
	count := 0
	var firstDate time.Time
	firstMonth := time.December
	for _, inv := range invoices {
		if inv.Deleted || !inv.HasValidDate() || inv.Date.Year() != year {
			continue
		}
		total = total.Add(NetAmount(inv))
		count++
		if firstDate.IsZero() || inv.Date.Before(firstDate) {
			firstDate = inv.Date
		}
		if inv.Date.Month() < firstMonth {
			firstMonth = inv.Date.Month()
		}
	}
	if count == 0 {
		return p
	}
	p.TotalYTD = total

	if year != now.Year() {
		p.MonthsElapsed = 12
		p.AverageMonthly = total.Div(twelve)
		p.ProjectedAnnual = total
		return p
	}

	monthsElapsed := int(now.Month()) - int(firstMonth) + 1
	if monthsElapsed < 1 {
		monthsElapsed = 1
	}
	p.MonthsElapsed = monthsElapsed
	p.AverageMonthly = total.Div(decimal.NewFromInt(int64(monthsElapsed)))

	switch strategy {
	case StrategyDayOfYear:
		dayOfYear := decimal.NewFromInt(int64(now.YearDay()))
		p.ProjectedAnnual = total.Div(dayOfYear).Mul(daysPerYear)
	default: // StrategyFirstInvoiceSpan
		daysElapsed := daysBetweenInclusive(firstDate, now)
		daysInPeriod := daysBetweenInclusive(firstDate, endOfYear(year, now.Location()))
		if daysInPeriod < daysElapsed {
			daysInPeriod = daysElapsed
		}
		p.ProjectedAnnual = total.
			Div(decimal.NewFromInt(int64(daysElapsed))).
			Mul(decimal.NewFromInt(int64(daysInPeriod)))
	}
	return p
}

// Sources of a refined month value.
const (
	MonthSourceActual   = "actual"   // smoothed invoiced revenue, month fully elapsed
	MonthSourceBlend    = "blend"    // current month: max(time tracking, baseline)
	MonthSourceBaseline = "baseline" // future month: trailing median of actuals
)

// MonthProjection is one month of the refined forecast.
type MonthProjection struct {
	Month     string          `json:"month"`
	Projected decimal.Decimal `json:"projected"`
	Source    string          `json:"source"`
}

// RefinedProjection blends smoothed invoice actuals with time-tracking data.
type RefinedProjection struct {
	Year            int               `json:"year"`
	Months          []MonthProjection `json:"months"` // Jan–Dec of the current year
	Baseline        decimal.Decimal   `json:"baseline"`
	ProjectedAnnual decimal.Decimal   `json:"projected_annual"`
}

// trailingbaselineMonths caps how many elapsed months feed the rolling median.
const trailingBaselineMonths = 4

// RefineProjection builds the two-signal forecast for the current year:
//
//   - months already elapsed use the smoothed invoiced actuals;
//   - the current (partial) month takes the maximum of a linear time-tracking
//     extrapolation and the trailing median of the last 3–4 smoothed actuals,
//     so a slow invoicing start never drags the forecast below the recent
//     baseline;
//   - future months use that baseline.
//
// The annual total sums all twelve month values. Raw run-rate projection is
// noisy early in the year or with sparse invoicing; this variant is what the
// dashboard shows by default.
func RefineProjection(invoices []entity.Invoice, entries []entity.TimeEntry, now time.Time, cutoffDay int) RefinedProjection {
	year := now.Year()
	currentMonth := now.Month()

	smoothed := map[string]decimal.Decimal{}
	for _, mt := range SmoothedMonthlyTotals(invoices, year, cutoffDay) {
		smoothed[mt.Month] = mt.Total
	}

	// Trailing median over the last fully elapsed months.
	var past []decimal.Decimal
	for m := time.January; m < currentMonth; m++ {
		past = append(past, smoothed[monthKey(year, m)])
	}
	if len(past) > trailingBaselineMonths {
		past = past[len(past)-trailingBaselineMonths:]
	}
	baseline := median(past)

	r := RefinedProjection{Year: year, Baseline: baseline}
	for m := time.January; m <= time.December; m++ {
		key := monthKey(year, m)
		mp := MonthProjection{Month: key}
		switch {
		case m < currentMonth:
			mp.Projected = smoothed[key]
			mp.Source = MonthSourceActual
		case m == currentMonth:
			mp.Projected = decimal.Max(timeTrackingExtrapolation(entries, now), baseline)
			mp.Source = MonthSourceBlend
		default:
			mp.Projected = baseline
			mp.Source = MonthSourceBaseline
		}
		r.Months = append(r.Months, mp)
		r.ProjectedAnnual = r.ProjectedAnnual.Add(mp.Projected)
	}
	return r
}

// timeTrackingExtrapolation projects the current month's revenue from tracked
// hours: revenue so far this month, scaled linearly to the full month.
func timeTrackingExtrapolation(entries []entity.TimeEntry, now time.Time) decimal.Decimal {
	monthStart, monthEnd := monthBounds(now)
	revenue := decimal.Zero
	for _, e := range entries {
		if e.Date.IsZero() || e.Date.Before(monthStart) || e.Date.After(monthEnd) {
			continue
		}
		if e.Date.After(now) {
			continue
		}
		revenue = revenue.Add(e.Revenue())
	}
	if revenue.IsZero() {
		return decimal.Zero
	}
	daysInMonth := monthEnd.Day()
	return revenue.
		Div(decimal.NewFromInt(int64(now.Day()))).
		Mul(decimal.NewFromInt(int64(daysInMonth)))
}

// median of a decimal slice; zero for an empty slice. The even case averages
// the two middle values.
func median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}
