package metrics

import (
	"time"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Tariff holds the income tax curve parameters. The German bracket constants
// shift yearly, so they are configuration, not literals; DefaultTariff2025
// ships the 2025 approximations.
type Tariff struct {
	// BasicAllowance (Grundfreibetrag): income below it is tax free.
	BasicAllowance decimal.Decimal
	// ProgressiveEnd closes the zone where the marginal rate climbs linearly
	// from EntryRate to MiddleRate.
	ProgressiveEnd decimal.Decimal
	// TopBracketStart is where the flat MiddleRate gives way to TopRate
	// (Reichensteuer).
	TopBracketStart decimal.Decimal

	EntryRate  decimal.Decimal // marginal rate at the allowance (14 %)
	MiddleRate decimal.Decimal // flat rate of the upper zone (42 %)
	TopRate    decimal.Decimal // top rate (45 %)

	// Solidarity surcharge: zero up to the Freigrenze, linear phase-in
	// (Milderungszone) at PhaseInRate, full SoliRate from FullFrom upward.
	// Both thresholds double under joint assessment.
	SoliFreigrenze  decimal.Decimal
	SoliFullFrom    decimal.Decimal
	SoliRate        decimal.Decimal
	SoliPhaseInRate decimal.Decimal
}

// DefaultTariff2025 returns the approximate 2025 parameters of § 32a EStG and
// the solidarity surcharge.
func DefaultTariff2025() Tariff {
	return Tariff{
		BasicAllowance:  decimal.NewFromInt(12096),
		ProgressiveEnd:  decimal.NewFromInt(68480),
		TopBracketStart: decimal.NewFromInt(277826),
		EntryRate:       decimal.NewFromFloat(0.14),
		MiddleRate:      decimal.NewFromFloat(0.42),
		TopRate:         decimal.NewFromFloat(0.45),
		SoliFreigrenze:  decimal.NewFromInt(16956),
		SoliFullFrom:    decimal.NewFromInt(31527),
		SoliRate:        decimal.NewFromFloat(0.055),
		SoliPhaseInRate: decimal.NewFromFloat(0.119),
	}
}

// IncomeTax approximates the German progressive income tax on a taxable
// amount. Piecewise: zero below the allowance; in the progressive zone the
// marginal rate climbs linearly from EntryRate to MiddleRate and the tax is
// the average of the start/end marginal rates times the amount above the
// allowance (trapezoidal stand-in for the quadratic § 32a formula); then flat
// MiddleRate up to TopBracketStart and flat TopRate above. Under joint
// assessment the Splittingtarif applies: tax on half the amount, doubled.
// This is explicitly an approximation, not tax law.
func (t Tariff) IncomeTax(taxable decimal.Decimal, jointAssessment bool) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	if jointAssessment {
		return t.incomeTaxSingle(taxable.Div(two)).Mul(two)
	}
	return t.incomeTaxSingle(taxable)
}

func (t Tariff) incomeTaxSingle(taxable decimal.Decimal) decimal.Decimal {
	if taxable.LessThanOrEqual(t.BasicAllowance) {
		return decimal.Zero
	}

	progressiveWidth := t.ProgressiveEnd.Sub(t.BasicAllowance)

	if taxable.LessThanOrEqual(t.ProgressiveEnd) {
		// Marginal rate at this income, interpolated across the zone.
		above := taxable.Sub(t.BasicAllowance)
		marginal := t.EntryRate.Add(
			t.MiddleRate.Sub(t.EntryRate).Mul(above).Div(progressiveWidth))
		avgRate := t.EntryRate.Add(marginal).Div(two)
		return avgRate.Mul(above)
	}

	// Full progressive zone at its average rate.
	tax := t.EntryRate.Add(t.MiddleRate).Div(two).Mul(progressiveWidth)

	if taxable.LessThanOrEqual(t.TopBracketStart) {
		return tax.Add(t.MiddleRate.Mul(taxable.Sub(t.ProgressiveEnd)))
	}
	tax = tax.Add(t.MiddleRate.Mul(t.TopBracketStart.Sub(t.ProgressiveEnd)))
	return tax.Add(t.TopRate.Mul(taxable.Sub(t.TopBracketStart)))
}

// SolidaritySurcharge computes the Soli on an income tax amount: zero up to
// the Freigrenze, (tax − Freigrenze) × PhaseInRate in the Milderungszone,
// full SoliRate × tax above FullFrom. Thresholds double under joint
// assessment.
func (t Tariff) SolidaritySurcharge(incomeTax decimal.Decimal, jointAssessment bool) decimal.Decimal {
	freigrenze := t.SoliFreigrenze
	fullFrom := t.SoliFullFrom
	if jointAssessment {
		freigrenze = freigrenze.Mul(two)
		fullFrom = fullFrom.Mul(two)
	}
	switch {
	case incomeTax.LessThanOrEqual(freigrenze):
		return decimal.Zero
	case incomeTax.GreaterThanOrEqual(fullFrom):
		return incomeTax.Mul(t.SoliRate)
	default:
		return incomeTax.Sub(freigrenze).Mul(t.SoliPhaseInRate)
	}
}

// IncomeTaxEstimate splits every levy into the part already incurred on the
// YTD base ("current") and the incremental part attributable to the rest of
// the year ("projected").
type IncomeTaxEstimate struct {
	RevenueYTD             decimal.Decimal `json:"revenue_ytd"`
	ProjectedAnnualRevenue decimal.Decimal `json:"projected_annual_revenue"`
	TaxableYTD             decimal.Decimal `json:"taxable_ytd"`
	TaxableAnnual          decimal.Decimal `json:"taxable_annual"`

	IncomeTaxCurrent   decimal.Decimal `json:"income_tax_current"`
	IncomeTaxProjected decimal.Decimal `json:"income_tax_projected"`
	IncomeTaxAnnual    decimal.Decimal `json:"income_tax_annual"`

	ChurchTaxCurrent   decimal.Decimal `json:"church_tax_current"`
	ChurchTaxProjected decimal.Decimal `json:"church_tax_projected"`
	ChurchTaxAnnual    decimal.Decimal `json:"church_tax_annual"`

	SoliCurrent   decimal.Decimal `json:"soli_current"`
	SoliProjected decimal.Decimal `json:"soli_projected"`
	SoliAnnual    decimal.Decimal `json:"soli_annual"`

	// TotalDue = annual income tax + church tax + Soli − prepayments.
	TotalDue decimal.Decimal `json:"total_due"`
}

// EstimateIncomeTax projects the freelancer's income tax burden from the
// current year's invoices.
//
// Revenue is positive-only: rectifications contribute zero rather than
// reducing the taxable base. The annual figure is a day-of-year run rate;
// expenses are deducted pro rata for the YTD base and in full for the annual
// base, both floored at zero. Under joint assessment the partner's projected
// income joins the annual base only; the YTD figure stays unadjusted, an
// acknowledged approximation.
func EstimateIncomeTax(invoices []entity.Invoice, settings entity.PersonalTaxSettings, tariff Tariff, now time.Time) IncomeTaxEstimate {
	year := now.Year()

	var est IncomeTaxEstimate
	for _, inv := range invoices {
		if inv.Deleted || !inv.HasValidDate() || inv.Date.Year() != year {
			continue
		}
		if net := NetAmount(inv); net.IsPositive() {
			est.RevenueYTD = est.RevenueYTD.Add(net)
		}
	}

	dayOfYear := decimal.NewFromInt(int64(now.YearDay()))
	elapsedFraction := dayOfYear.Div(daysPerYear)
	est.ProjectedAnnualRevenue = est.RevenueYTD.Div(dayOfYear).Mul(daysPerYear)

	est.TaxableYTD = floorZero(est.RevenueYTD.Sub(settings.AnnualExpenses.Mul(elapsedFraction)))
	est.TaxableAnnual = floorZero(est.ProjectedAnnualRevenue.Sub(settings.AnnualExpenses))

	annualBase := est.TaxableAnnual
	if settings.JointAssessment {
		annualBase = annualBase.Add(settings.PartnerAnnualIncome)
	}

	est.IncomeTaxAnnual = tariff.IncomeTax(annualBase, settings.JointAssessment)
	est.IncomeTaxCurrent = tariff.IncomeTax(est.TaxableYTD, settings.JointAssessment)
	if est.IncomeTaxCurrent.GreaterThan(est.IncomeTaxAnnual) {
		est.IncomeTaxCurrent = est.IncomeTaxAnnual
	}
	est.IncomeTaxProjected = est.IncomeTaxAnnual.Sub(est.IncomeTaxCurrent)

	churchRate := settings.EffectiveChurchTaxRate()
	est.ChurchTaxAnnual = churchRate.Mul(est.IncomeTaxAnnual)
	est.ChurchTaxCurrent = splitLikeIncomeTax(est.ChurchTaxAnnual, est.IncomeTaxCurrent, est.IncomeTaxAnnual)
	est.ChurchTaxProjected = est.ChurchTaxAnnual.Sub(est.ChurchTaxCurrent)

	est.SoliAnnual = tariff.SolidaritySurcharge(est.IncomeTaxAnnual, settings.JointAssessment)
	est.SoliCurrent = splitLikeIncomeTax(est.SoliAnnual, est.IncomeTaxCurrent, est.IncomeTaxAnnual)
	est.SoliProjected = est.SoliAnnual.Sub(est.SoliCurrent)

	est.TotalDue = est.IncomeTaxAnnual.
		Add(est.ChurchTaxAnnual).
		Add(est.SoliAnnual).
		Sub(settings.PrepaymentsYTD)
	return est
}

// splitLikeIncomeTax apportions an annual levy to "current" in the same
// proportion as the income tax split. Zero annual tax means zero current.
func splitLikeIncomeTax(annualLevy, currentTax, annualTax decimal.Decimal) decimal.Decimal {
	if !annualTax.IsPositive() {
		return decimal.Zero
	}
	return annualLevy.Mul(currentTax).Div(annualTax)
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
