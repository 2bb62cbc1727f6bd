package entity

import "github.com/shopspring/decimal"

// CompanyInfo carries the company-wide VAT configuration. A freelancer under
// the Kleinunternehmer regime (§ 19 UStG) runs with VATEnabled = false.
type CompanyInfo struct {
	VATEnabled bool
	// DefaultTaxRate is the configured VAT rate in percent (e.g. 19).
	DefaultTaxRate decimal.Decimal
}
