package metrics_test

import (
	"testing"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/faktura-pro/faktura-api/internal/domain/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func taxf(t *testing.T, taxable float64, joint bool) float64 {
	t.Helper()
	return metrics.DefaultTariff2025().
		IncomeTax(decimal.NewFromFloat(taxable), joint).
		InexactFloat64()
}

func TestIncomeTax_ZeroAtOrBelowBasicAllowance(t *testing.T) {
	for _, x := range []float64{-5000, 0, 1, 8000, 12095, 12096} {
		assert.Zerof(t, taxf(t, x, false), "tax(%v) must be zero", x)
	}
}

func TestIncomeTax_BracketBoundaries(t *testing.T) {
	// End of the progressive zone: average rate 28 % on 56 384 €.
	assert.InDelta(t, 15787.52, taxf(t, 68480, false), 0.01)

	// Midpoint of the progressive zone: average rate 21 %.
	assert.InDelta(t, 5920.32, taxf(t, 40288, false), 0.01)

	// Flat 42 % zone.
	assert.InDelta(t, 29025.92, taxf(t, 100000, false), 0.01)

	// Above the top bracket: 45 % on the excess.
	assert.InDelta(t, 113691.14, taxf(t, 300000, false), 0.01)
}

// TestIncomeTax_Monotonic walks a grid and requires tax(x) to never decrease.
func TestIncomeTax_Monotonic(t *testing.T) {
	tariff := metrics.DefaultTariff2025()
	prev := decimal.Zero
	for x := int64(0); x <= 400000; x += 500 {
		tax := tariff.IncomeTax(decimal.NewFromInt(x), false)
		assert.Falsef(t, tax.LessThan(prev), "tax decreased at %d: %s < %s", x, tax, prev)
		prev = tax
	}
}

func TestIncomeTax_SplittingDoublesHalvedBase(t *testing.T) {
	tariff := metrics.DefaultTariff2025()
	for _, x := range []int64{20000, 60000, 150000} {
		single := tariff.IncomeTax(decimal.NewFromInt(x), false)
		joint := tariff.IncomeTax(decimal.NewFromInt(2*x), true)
		assert.True(t, joint.Equal(single.Mul(decimal.NewFromInt(2))),
			"splitting tariff on %d: want %s, got %s", 2*x, single.Mul(decimal.NewFromInt(2)), joint)
	}
}

func TestSolidaritySurcharge(t *testing.T) {
	tariff := metrics.DefaultTariff2025()

	soli := func(tax float64, joint bool) float64 {
		return tariff.SolidaritySurcharge(decimal.NewFromFloat(tax), joint).InexactFloat64()
	}

	assert.Zero(t, soli(10000, false), "below the Freigrenze")
	assert.Zero(t, soli(16956, false), "at the Freigrenze")
	assert.InDelta(t, 362.24, soli(20000, false), 0.01, "Milderungszone phase-in")
	assert.InDelta(t, 2200, soli(40000, false), 0.01, "full 5.5 % above the cap")

	// Thresholds double under joint assessment.
	assert.Zero(t, soli(30000, true))
	assert.InDelta(t, 40000*0.055, soli(40000*2, true)/2, 0.01)
}

func TestEstimateIncomeTax_EndToEnd(t *testing.T) {
	// Day 73 of 2024 = 20 % of the year elapsed. 29 200 € invoiced projects
	// to 146 000 €; 10 000 € expenses leave 27 200 € / 136 000 € taxable.
	now := mustDate(t, "2024-03-13")
	invoices := []entity.Invoice{
		invoiceOn(t, "2024-01-15", 29200, paid()),
		invoiceOn(t, "2024-02-15", -1000), // rectification: must not reduce revenue
	}
	settings := entity.PersonalTaxSettings{
		AnnualExpenses: decimal.NewFromInt(10000),
		ChurchMember:   true,
		FederalState:   entity.StateNW,
		PrepaymentsYTD: decimal.NewFromInt(5000),
	}

	est := metrics.EstimateIncomeTax(invoices, settings, metrics.DefaultTariff2025(), now)

	assertDecimal(t, "29200", est.RevenueYTD)
	assertDecimal(t, "146000", est.ProjectedAnnualRevenue)
	assertDecimal(t, "27200", est.TaxableYTD)
	assertDecimal(t, "136000", est.TaxableAnnual)

	assert.InDelta(t, 44145.92, est.IncomeTaxAnnual.InexactFloat64(), 0.01)
	assert.InDelta(t, 2680.99, est.IncomeTaxCurrent.InexactFloat64(), 0.05)
	assert.InDelta(t, 41464.93, est.IncomeTaxProjected.InexactFloat64(), 0.05)

	// 9 % church tax outside BY/BW, split like the income tax.
	assert.InDelta(t, est.IncomeTaxAnnual.InexactFloat64()*0.09, est.ChurchTaxAnnual.InexactFloat64(), 0.01)
	assert.InDelta(t, est.IncomeTaxCurrent.InexactFloat64()*0.09, est.ChurchTaxCurrent.InexactFloat64(), 0.01)

	// Full 5.5 % Soli on the annual tax, proportional split.
	assert.InDelta(t, 44145.92*0.055, est.SoliAnnual.InexactFloat64(), 0.01)
	wantSoliCurrent := est.SoliAnnual.InexactFloat64() * est.IncomeTaxCurrent.InexactFloat64() / est.IncomeTaxAnnual.InexactFloat64()
	assert.InDelta(t, wantSoliCurrent, est.SoliCurrent.InexactFloat64(), 0.01)

	wantTotal := est.IncomeTaxAnnual.Add(est.ChurchTaxAnnual).Add(est.SoliAnnual).Sub(decimal.NewFromInt(5000))
	assert.True(t, est.TotalDue.Equal(wantTotal))
}

func TestEstimateIncomeTax_JointAssessmentAddsPartnerIncomeAnnuallyOnly(t *testing.T) {
	now := mustDate(t, "2024-03-13")
	invoices := []entity.Invoice{invoiceOn(t, "2024-01-15", 20000)}
	base := entity.PersonalTaxSettings{AnnualExpenses: decimal.NewFromInt(10000)}

	joint := base
	joint.JointAssessment = true
	joint.PartnerAnnualIncome = decimal.NewFromInt(30000)

	single := metrics.EstimateIncomeTax(invoices, base, metrics.DefaultTariff2025(), now)
	combined := metrics.EstimateIncomeTax(invoices, joint, metrics.DefaultTariff2025(), now)

	assert.True(t, combined.TaxableAnnual.Equal(single.TaxableAnnual),
		"the partner income joins the tax base, not the reported taxable revenue")
	assert.True(t, combined.IncomeTaxAnnual.GreaterThan(decimal.Zero))

	// Splittingtarif on 120 000 € combined equals twice the tax on 60 000 €.
	tariff := metrics.DefaultTariff2025()
	want := tariff.IncomeTax(decimal.NewFromInt(60000), false).Mul(decimal.NewFromInt(2))
	assert.InDelta(t, want.InexactFloat64(), combined.IncomeTaxAnnual.InexactFloat64(), 0.01)
}

func TestEstimateIncomeTax_ExpensesAboveRevenueFloorAtZero(t *testing.T) {
	now := mustDate(t, "2024-03-13")
	invoices := []entity.Invoice{invoiceOn(t, "2024-01-15", 1000)}
	settings := entity.PersonalTaxSettings{AnnualExpenses: decimal.NewFromInt(50000)}

	est := metrics.EstimateIncomeTax(invoices, settings, metrics.DefaultTariff2025(), now)
	assertDecimal(t, "0", est.TaxableYTD)
	assertDecimal(t, "0", est.TaxableAnnual)
	assertDecimal(t, "0", est.IncomeTaxAnnual)
	assertDecimal(t, "0", est.SoliAnnual)
}

func TestFederalStateChurchTaxRates(t *testing.T) {
	assertDecimal(t, "0.08", entity.StateBY.ChurchTaxRate())
	assertDecimal(t, "0.08", entity.StateBW.ChurchTaxRate())
	assertDecimal(t, "0.09", entity.StateBE.ChurchTaxRate())
	assertDecimal(t, "0.09", entity.FederalState("??").ChurchTaxRate(),
		"unknown states default to the higher rate")
}
