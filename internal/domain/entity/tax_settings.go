package entity

import "github.com/shopspring/decimal"

// FederalState is one of the 16 German states (ISO 3166-2:DE suffix).
// It determines the church tax rate: 8 % in Bavaria and Baden-Württemberg,
// 9 % everywhere else.
type FederalState string

const (
	StateBW FederalState = "BW" // Baden-Württemberg
	StateBY FederalState = "BY" // Bayern
	StateBE FederalState = "BE" // Berlin
	StateBB FederalState = "BB" // Brandenburg
	StateHB FederalState = "HB" // Bremen
	StateHH FederalState = "HH" // Hamburg
	StateHE FederalState = "HE" // Hessen
	StateMV FederalState = "MV" // Mecklenburg-Vorpommern
	StateNI FederalState = "NI" // Niedersachsen
	StateNW FederalState = "NW" // Nordrhein-Westfalen
	StateRP FederalState = "RP" // Rheinland-Pfalz
	StateSL FederalState = "SL" // Saarland
	StateSN FederalState = "SN" // Sachsen
	StateST FederalState = "ST" // Sachsen-Anhalt
	StateSH FederalState = "SH" // Schleswig-Holstein
	StateTH FederalState = "TH" // Thüringen
)

var (
	churchTaxRateLow  = decimal.NewFromFloat(0.08)
	churchTaxRateHigh = decimal.NewFromFloat(0.09)
)

// ChurchTaxRate returns the state's church tax rate as a fraction of the
// income tax. Unknown state codes fall back to the higher 9 % rate.
func (s FederalState) ChurchTaxRate() decimal.Decimal {
	switch s {
	case StateBW, StateBY:
		return churchTaxRateLow
	default:
		return churchTaxRateHigh
	}
}

// PersonalTaxSettings is the freelancer's income tax configuration.
type PersonalTaxSettings struct {
	// AnnualExpenses is the deductible expense allowance for the full year.
	AnnualExpenses decimal.Decimal

	// JointAssessment enables the Splittingtarif; PartnerAnnualIncome is the
	// partner's projected annual taxable income and is only used when set.
	JointAssessment     bool
	PartnerAnnualIncome decimal.Decimal

	// ChurchMember derives the rate from FederalState; ChurchTaxRate, when
	// positive, overrides the derived rate (fraction of income tax).
	ChurchMember  bool
	ChurchTaxRate decimal.Decimal
	FederalState  FederalState

	// PrepaymentsYTD are income tax prepayments already made this year.
	PrepaymentsYTD decimal.Decimal
}

// EffectiveChurchTaxRate resolves the rate to apply: explicit override first,
// then membership + state, else zero.
func (s PersonalTaxSettings) EffectiveChurchTaxRate() decimal.Decimal {
	if s.ChurchTaxRate.IsPositive() {
		return s.ChurchTaxRate
	}
	if s.ChurchMember {
		return s.FederalState.ChurchTaxRate()
	}
	return decimal.Zero
}
