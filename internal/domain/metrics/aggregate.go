package metrics

import (
	"sort"
	"time"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCutoffDay is the billing-period cutoff for smoothed monthly
	// totals: invoices issued before this day of the month bill the previous
	// month's work.
	DefaultCutoffDay = 20

	// topClientCount is the length of the top-client ranking.
	topClientCount = 5

	unknownClient = "Unknown"
)

// MonthTotal is a net revenue bucket keyed by "YYYY-MM".
type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// ClientTotal is the net revenue attributed to one client.
type ClientTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// ClientShare is a ranked client with its share of the year's revenue.
type ClientShare struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Share decimal.Decimal `json:"share"` // Total / TotalYTD, 0 when TotalYTD is 0
}

// MonthClientTotals is the per-client breakdown of one smoothed month bucket.
type MonthClientTotals struct {
	Month   string        `json:"month"`
	Clients []ClientTotal `json:"clients"` // descending by total
}

// Summary aggregates the invoice list around a reference instant.
type Summary struct {
	TotalAllTime      decimal.Decimal `json:"total_all_time"`
	TotalYTD          decimal.Decimal `json:"total_ytd"`
	NumInvoicesYTD    int             `json:"num_invoices_ytd"`
	PaidTotalYTD      decimal.Decimal `json:"paid_total_ytd"`
	TotalMTD          decimal.Decimal `json:"total_mtd"`
	UnpaidTotal       decimal.Decimal `json:"unpaid_total"`
	OutstandingCount  int             `json:"outstanding_count"`
	MonthlyTotals     []MonthTotal    `json:"monthly_totals"`      // current year, ascending by month
	PerClientTotals   []ClientTotal   `json:"per_client_totals"`   // current year, descending by total
	TopClients        []ClientShare   `json:"top_clients"`         // top 5 by YTD total
	TopClientShare    decimal.Decimal `json:"top_client_share"`    // share of rank 1, 0 if none
	AverageInvoiceYTD decimal.Decimal `json:"average_invoice_ytd"` // TotalYTD / NumInvoicesYTD
}

// Summarize scans the invoice list once and builds the dashboard totals.
// Soft-deleted invoices never count anywhere. Invoices without a valid date
// count in the all-time total only. Outstanding receivables are unpaid
// invoices with a strictly positive net amount, regardless of year.
func Summarize(invoices []entity.Invoice, now time.Time) Summary {
	year := now.Year()
	monthStart, monthEnd := monthBounds(now)

	s := Summary{
		MonthlyTotals:   []MonthTotal{},
		PerClientTotals: []ClientTotal{},
		TopClients:      []ClientShare{},
	}
	monthly := map[string]decimal.Decimal{}
	perClient := map[string]decimal.Decimal{}

	for _, inv := range invoices {
		if inv.Deleted {
			continue
		}
		net := NetAmount(inv)
		s.TotalAllTime = s.TotalAllTime.Add(net)

		status := DisplayStatus(inv, now)
		if (status == entity.StatusUnpaid || status == entity.StatusOverdue) && net.IsPositive() {
			s.UnpaidTotal = s.UnpaidTotal.Add(net)
			s.OutstandingCount++
		}

		if !inv.HasValidDate() {
			continue
		}
		if inv.Date.Year() == year {
			s.TotalYTD = s.TotalYTD.Add(net)
			s.NumInvoicesYTD++
			if inv.Paid {
				s.PaidTotalYTD = s.PaidTotalYTD.Add(net)
			}
			key := monthKey(inv.Date.Year(), inv.Date.Month())
			monthly[key] = monthly[key].Add(net)

			name := inv.Customer.Name
			if name == "" {
				name = unknownClient
			}
			perClient[name] = perClient[name].Add(net)
		}
		if !inv.Date.Before(monthStart) && !inv.Date.After(monthEnd) {
			s.TotalMTD = s.TotalMTD.Add(net)
		}
	}

	s.MonthlyTotals = sortedMonthTotals(monthly)
	s.PerClientTotals = sortedClientTotals(perClient)

	for i, c := range s.PerClientTotals {
		if i >= topClientCount {
			break
		}
		share := decimal.Zero
		if !s.TotalYTD.IsZero() {
			share = c.Total.Div(s.TotalYTD)
		}
		s.TopClients = append(s.TopClients, ClientShare{Name: c.Name, Total: c.Total, Share: share})
	}
	if len(s.TopClients) > 0 {
		s.TopClientShare = s.TopClients[0].Share
	}
	if s.NumInvoicesYTD > 0 {
		s.AverageInvoiceYTD = s.TotalYTD.Div(decimal.NewFromInt(int64(s.NumInvoicesYTD)))
	}
	return s
}

// MonthlyTotals buckets net amounts per "YYYY-MM" for an arbitrary year
// (year-selector support), sorted ascending by key.
func MonthlyTotals(invoices []entity.Invoice, year int) []MonthTotal {
	monthly := map[string]decimal.Decimal{}
	for _, inv := range invoices {
		if inv.Deleted || !inv.HasValidDate() || inv.Date.Year() != year {
			continue
		}
		key := monthKey(inv.Date.Year(), inv.Date.Month())
		monthly[key] = monthly[key].Add(NetAmount(inv))
	}
	return sortedMonthTotals(monthly)
}

// effectiveMonth applies the billing-cutoff rule: invoices issued before the
// cutoff day bill the previous month's work and are attributed there.
func effectiveMonth(date time.Time, cutoffDay int) (int, time.Month) {
	if cutoffDay <= 0 {
		cutoffDay = DefaultCutoffDay
	}
	if date.Day() < cutoffDay {
		return previousMonth(date.Year(), date.Month())
	}
	return date.Year(), date.Month()
}

// SmoothedMonthlyTotals is the billing-cutoff-aware variant of MonthlyTotals:
// an invoice dated before cutoffDay is attributed to the previous calendar
// month (with January rolling over into the previous year's December).
func SmoothedMonthlyTotals(invoices []entity.Invoice, year, cutoffDay int) []MonthTotal {
	monthly := map[string]decimal.Decimal{}
	for _, inv := range invoices {
		if inv.Deleted || !inv.HasValidDate() {
			continue
		}
		y, m := effectiveMonth(inv.Date, cutoffDay)
		if y != year {
			continue
		}
		key := monthKey(y, m)
		monthly[key] = monthly[key].Add(NetAmount(inv))
	}
	return sortedMonthTotals(monthly)
}

// SmoothedMonthlyTotalsByClient is the per-client breakdown of the smoothed
// buckets (tooltip data), months ascending, clients descending by total.
func SmoothedMonthlyTotalsByClient(invoices []entity.Invoice, year, cutoffDay int) []MonthClientTotals {
	buckets := map[string]map[string]decimal.Decimal{}
	for _, inv := range invoices {
		if inv.Deleted || !inv.HasValidDate() {
			continue
		}
		y, m := effectiveMonth(inv.Date, cutoffDay)
		if y != year {
			continue
		}
		key := monthKey(y, m)
		if buckets[key] == nil {
			buckets[key] = map[string]decimal.Decimal{}
		}
		name := inv.Customer.Name
		if name == "" {
			name = unknownClient
		}
		buckets[key][name] = buckets[key][name].Add(NetAmount(inv))
	}

	out := make([]MonthClientTotals, 0, len(buckets))
	for key, clients := range buckets {
		out = append(out, MonthClientTotals{Month: key, Clients: sortedClientTotals(clients)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// InvoiceYears returns the distinct years of all dated, non-deleted invoices
// plus the current year (a year selector always offers at least that),
// sorted descending.
func InvoiceYears(invoices []entity.Invoice, now time.Time) []int {
	years := map[int]struct{}{now.Year(): {}}
	for _, inv := range invoices {
		if inv.Deleted || !inv.HasValidDate() {
			continue
		}
		years[inv.Date.Year()] = struct{}{}
	}
	out := make([]int, 0, len(years))
	for y := range years {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// sortedMonthTotals flattens a month bucket map, ascending by key.
func sortedMonthTotals(monthly map[string]decimal.Decimal) []MonthTotal {
	out := make([]MonthTotal, 0, len(monthly))
	for key, total := range monthly {
		out = append(out, MonthTotal{Month: key, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// sortedClientTotals flattens a client bucket map, descending by total; ties
// break on the name so repeated runs stay deterministic.
func sortedClientTotals(perClient map[string]decimal.Decimal) []ClientTotal {
	out := make([]ClientTotal, 0, len(perClient))
	for name, total := range perClient {
		out = append(out, ClientTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
