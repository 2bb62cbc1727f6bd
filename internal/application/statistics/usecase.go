// Package statistics wires the metrics engine to the outside world: it loads
// the invoice list once per call, injects a single reference clock and hands
// the plain data structures back to the HTTP layer.
package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/faktura-pro/faktura-api/internal/application/dto"
	"github.com/faktura-pro/faktura-api/internal/domain"
	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/faktura-pro/faktura-api/internal/domain/metrics"
	"github.com/faktura-pro/faktura-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Config is the computation configuration derived from the app config.
type Config struct {
	Company         entity.CompanyInfo
	Personal        entity.PersonalTaxSettings
	Tariff          metrics.Tariff
	CutoffDay       int
	DefaultStrategy metrics.ProjectionStrategy

	// Elster master data for the UStVA export.
	TaxNumber  string
	OwnerName  string
	Street     string
	PostalCode string
	City       string
}

// Usecase computes all dashboard figures. It holds no state between calls;
// every method re-reads the invoice list so concurrent requests never share
// mutable data.
type Usecase struct {
	invoices repository.InvoiceRepository
	times    repository.TimeEntryRepository
	renderer UStVARenderer
	cfg      Config

	// clock is injectable for tests; each request reads it exactly once so
	// all figures of one response observe the same instant.
	clock func() time.Time
}

// NewUsecase builds the statistics use case with the real clock.
func NewUsecase(invoices repository.InvoiceRepository, times repository.TimeEntryRepository, renderer UStVARenderer, cfg Config) *Usecase {
	if cfg.CutoffDay <= 0 {
		cfg.CutoffDay = metrics.DefaultCutoffDay
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = metrics.StrategyFirstInvoiceSpan
	}
	return &Usecase{
		invoices: invoices,
		times:    times,
		renderer: renderer,
		cfg:      cfg,
		clock:    time.Now,
	}
}

// WithClock overrides the reference clock (tests).
func (uc *Usecase) WithClock(clock func() time.Time) *Usecase {
	uc.clock = clock
	return uc
}

func (uc *Usecase) load(ctx context.Context) ([]entity.Invoice, error) {
	invoices, err := uc.invoices.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("statistics: load invoices: %w", err)
	}
	return invoices, nil
}

// Summary computes the aggregation dashboard.
func (uc *Usecase) Summary(ctx context.Context) (*metrics.Summary, error) {
	invoices, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	s := metrics.Summarize(invoices, uc.clock())
	return &s, nil
}

// MonthlySeries returns the month buckets of a year, optionally smoothed by
// the billing cutoff. Smoothed responses include the per-client breakdown.
func (uc *Usecase) MonthlySeries(ctx context.Context, req dto.MonthlySeriesRequest) (*dto.MonthlySeriesResponse, error) {
	invoices, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	year := req.Year
	if year == 0 {
		year = now.Year()
	}
	cutoff := req.Cutoff
	if cutoff <= 0 {
		cutoff = uc.cfg.CutoffDay
	}

	resp := &dto.MonthlySeriesResponse{Year: year, Smoothed: req.Smoothed}
	if req.Smoothed {
		resp.Months = metrics.SmoothedMonthlyTotals(invoices, year, cutoff)
		resp.ByClient = metrics.SmoothedMonthlyTotalsByClient(invoices, year, cutoff)
	} else {
		resp.Months = metrics.MonthlyTotals(invoices, year)
	}
	return resp, nil
}

// Projection runs the run-rate forecast for a year with the requested
// strategy (falling back to the configured default).
func (uc *Usecase) Projection(ctx context.Context, req dto.ProjectionRequest) (*metrics.Projection, error) {
	invoices, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	year := req.Year
	if year == 0 {
		year = now.Year()
	}
	strategy := uc.cfg.DefaultStrategy
	switch metrics.ProjectionStrategy(req.Strategy) {
	case metrics.StrategyDayOfYear:
		strategy = metrics.StrategyDayOfYear
	case metrics.StrategyFirstInvoiceSpan:
		strategy = metrics.StrategyFirstInvoiceSpan
	}
	p := metrics.ProjectRevenue(invoices, year, now, strategy)
	return &p, nil
}

// RefinedProjection blends smoothed actuals with time tracking.
func (uc *Usecase) RefinedProjection(ctx context.Context) (*metrics.RefinedProjection, error) {
	invoices, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	entries, err := uc.times.ListByYear(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("statistics: load time entries: %w", err)
	}
	r := metrics.RefineProjection(invoices, entries, now, uc.cfg.CutoffDay)
	return &r, nil
}

// VATSimulation classifies the year's revenue and plays both pricing
// scenarios. rate is an optional percent override ("19", "7.5").
func (uc *Usecase) VATSimulation(ctx context.Context, rate string) (*metrics.VATSimulation, error) {
	invoices, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	var override *decimal.Decimal
	if rate != "" {
		parsed, err := decimal.NewFromString(rate)
		if err != nil || parsed.IsNegative() {
			return nil, fmt.Errorf("statistics: rate override %q: %w", rate, domain.ErrInvalidInput)
		}
		override = &parsed
	}
	sim := metrics.SimulateVAT(invoices, uc.cfg.Company, uc.clock(), override)
	return &sim, nil
}

// Kleinunternehmer checks the § 19 UStG thresholds.
func (uc *Usecase) Kleinunternehmer(ctx context.Context) (*metrics.KleinunternehmerReport, error) {
	invoices, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	r := metrics.MonitorKleinunternehmer(invoices, uc.clock())
	return &r, nil
}

// IncomeTax estimates the year's income tax, church tax and Soli.
func (uc *Usecase) IncomeTax(ctx context.Context) (*metrics.IncomeTaxEstimate, error) {
	invoices, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	est := metrics.EstimateIncomeTax(invoices, uc.cfg.Personal, uc.cfg.Tariff, uc.clock())
	return &est, nil
}

// Years lists the selectable dashboard years.
func (uc *Usecase) Years(ctx context.Context) (*dto.YearsResponse, error) {
	invoices, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.YearsResponse{Years: metrics.InvoiceYears(invoices, uc.clock())}, nil
}

// ExportUStVA renders the current VAT figures as an Elster-style UStVA XML
// document. period is the Elster period code; empty means the current month.
func (uc *Usecase) ExportUStVA(ctx context.Context, period string) ([]byte, error) {
	sim, err := uc.VATSimulation(ctx, "")
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	if period == "" {
		period = now.Format("01")
	}
	xml, err := uc.renderer.Render(UStVAExport{
		Year:             sim.Year,
		Period:           period,
		TaxNumber:        uc.cfg.TaxNumber,
		Name:             uc.cfg.OwnerName,
		Street:           uc.cfg.Street,
		PostalCode:       uc.cfg.PostalCode,
		City:             uc.cfg.City,
		TaxableNet:       sim.TaxableNet,
		ReverseChargeNet: sim.ReverseChargeNet,
		VATDue:           sim.NetInvariant.VATDue,
	})
	if err != nil {
		return nil, fmt.Errorf("statistics: render UStVA: %w", err)
	}
	return xml, nil
}
