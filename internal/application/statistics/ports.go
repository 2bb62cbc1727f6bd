package statistics

import "github.com/shopspring/decimal"

// UStVAExport is the payload of an Umsatzsteuervoranmeldung (advance VAT
// return) export built from the VAT simulation.
type UStVAExport struct {
	Year   int
	Period string // "01".."12", or "41".."44" for quarters

	// Datenlieferant / Unternehmer master data.
	TaxNumber  string
	Name       string
	Street     string
	PostalCode string
	City       string

	// Kz 81: taxable net turnover at the standard rate (full euros).
	TaxableNet decimal.Decimal
	// Kz 60: reverse-charge turnover (§ 13b UStG, full euros).
	ReverseChargeNet decimal.Decimal
	// Kz 83: resulting VAT payable (cents).
	VATDue decimal.Decimal
}

// UStVARenderer turns an export into an Elster-compatible XML document.
type UStVARenderer interface {
	Render(export UStVAExport) ([]byte, error)
}
