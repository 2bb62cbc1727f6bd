package metrics

import (
	"strings"
	"time"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StatutoryVATRate is the German standard rate in percent, used when the
// company carries no explicit configuration.
var StatutoryVATRate = decimal.NewFromInt(19)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Exemption markers looked up (case-insensitive) in the client's
// VAT-exemption reason text.
var exemptionMarkers = []string{"§ 19", "kleinunternehmer", "reverse"}

// VATScenario is the outcome of one pricing assumption over the taxable net.
type VATScenario struct {
	VATDue      decimal.Decimal `json:"vat_due"`
	NetAfterVAT decimal.Decimal `json:"net_after_vat"`
	// RevenueDelta is the net revenue change against today's totals:
	// 0 in the net-invariant scenario, ≤ 0 in the gross-invariant one.
	RevenueDelta decimal.Decimal `json:"revenue_delta"`
}

// VATSimulation buckets the year's positive net revenue by VAT treatment and
// plays through the two pricing scenarios of a § 19 exit.
type VATSimulation struct {
	Year             int             `json:"year"`
	RatePercent      decimal.Decimal `json:"rate_percent"`
	TaxableNet       decimal.Decimal `json:"taxable_net"`
	ReverseChargeNet decimal.Decimal `json:"reverse_charge_net"`
	ExemptNet        decimal.Decimal `json:"exempt_net"`
	// NetInvariant keeps net prices fixed and adds VAT on top (customers pay
	// more); GrossInvariant reinterprets today's totals as gross (revenue
	// shrinks).
	NetInvariant   VATScenario `json:"net_invariant"`
	GrossInvariant VATScenario `json:"gross_invariant"`
}

// isReverseCharge applies the EU B2B heuristic: a non-empty client VAT ID
// that is not a German one shifts the tax liability to the buyer.
func isReverseCharge(inv entity.Invoice) bool {
	id := strings.TrimSpace(inv.ClientVATID)
	return id != "" && !strings.HasPrefix(strings.ToUpper(id), "DE")
}

// isExplicitlyExempt reports a client-side VAT exemption: the stored flag or
// a recognizable marker in the free-text reason.
func isExplicitlyExempt(inv entity.Invoice) bool {
	if inv.VATExempt {
		return true
	}
	reason := strings.ToLower(inv.VATExemptReason)
	for _, marker := range exemptionMarkers {
		if strings.Contains(reason, marker) {
			return true
		}
	}
	return false
}

// SimulateVAT classifies the current year's invoices into taxable, reverse
// charge and exempt net buckets and computes both pricing scenarios over the
// taxable bucket. Negative and zero amounts (rectifications) are excluded
// from VAT accounting entirely. overrideRatePercent, when non-nil, replaces
// the configured rate.
func SimulateVAT(invoices []entity.Invoice, company entity.CompanyInfo, now time.Time, overrideRatePercent *decimal.Decimal) VATSimulation {
	year := now.Year()
	sim := VATSimulation{Year: year, RatePercent: effectiveRatePercent(company, overrideRatePercent)}

	for _, inv := range invoices {
		if inv.Deleted || !inv.HasValidDate() || inv.Date.Year() != year {
			continue
		}
		net := NetAmount(inv)
		if !net.IsPositive() {
			continue
		}
		switch {
		case isReverseCharge(inv):
			sim.ReverseChargeNet = sim.ReverseChargeNet.Add(net)
		case isExplicitlyExempt(inv):
			sim.ExemptNet = sim.ExemptNet.Add(net)
		default:
			sim.TaxableNet = sim.TaxableNet.Add(net)
		}
	}

	rate := sim.RatePercent.Div(hundred)

	// Net-invariant: prices stay net, VAT goes on top.
	sim.NetInvariant = VATScenario{
		VATDue:       sim.TaxableNet.Mul(rate),
		NetAfterVAT:  sim.TaxableNet,
		RevenueDelta: decimal.Zero,
	}

	// Gross-invariant: today's totals already include VAT.
	netAfter := sim.TaxableNet.Div(one.Add(rate))
	sim.GrossInvariant = VATScenario{
		VATDue:       sim.TaxableNet.Sub(netAfter),
		NetAfterVAT:  netAfter,
		RevenueDelta: netAfter.Sub(sim.TaxableNet),
	}
	return sim
}

// effectiveRatePercent resolves the rate: explicit override, then the
// company's configured rate when VAT is enabled, else the statutory 19 %.
func effectiveRatePercent(company entity.CompanyInfo, override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	if company.VATEnabled && company.DefaultTaxRate.IsPositive() {
		return company.DefaultTaxRate
	}
	return StatutoryVATRate
}
