package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is a stored invoice status. "Rectified" means the invoice has
// been superseded by a rectification (Stornorechnung), not that it is one.
type InvoiceStatus string

const (
	StatusUnpaid    InvoiceStatus = "unpaid"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusRectified InvoiceStatus = "rectified"

	// StatusRectification is a derived display status for invoices that ARE a
	// rectification (negative total / "storno" marker). Never stored.
	StatusRectification InvoiceStatus = "rectification"
)

// RectificationLink marks an invoice as superseded by a correcting invoice.
// The zero value means "not rectified". Use RectifiedBy to build the linked
// variant; By reports the correcting invoice number when known.
type RectificationLink struct {
	rectified bool
	by        string
}

// RectifiedBy links the invoice to the rectification that supersedes it.
// number may be empty when the legacy record only carried the flag.
func RectifiedBy(number string) RectificationLink {
	return RectificationLink{rectified: true, by: number}
}

// Rectified reports whether the invoice has been superseded.
func (l RectificationLink) Rectified() bool { return l.rectified }

// By returns the correcting invoice number; ok is false when the invoice is
// not rectified or the number is unknown.
func (l RectificationLink) By() (number string, ok bool) {
	return l.by, l.rectified && l.by != ""
}

// InvoiceItem is one line of an invoice. Negative unit prices are legal and
// mark correction lines.
type InvoiceItem struct {
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Invoice is the record the metrics engine operates on. It is supplied by the
// persistence layer and treated as immutable by every computation.
//
// Date is the issue date at calendar-day granularity; the zero time means the
// stored date was missing or unparseable (such invoices still count in the
// all-time total but are skipped by every date-bucketed aggregate).
type Invoice struct {
	ID       string
	Number   string
	Date     time.Time
	DueDate  *time.Time
	Customer Customer
	Items    []InvoiceItem

	// Total is the authoritative net amount when present; nil means derive it
	// from the items. Explicit totals allow post-hoc overrides, e.g. forced
	// negative totals on rectifications.
	Total *decimal.Decimal

	Paid          bool
	Status        InvoiceStatus // optional stored status; empty = none
	Rectification RectificationLink
	Notes         string

	// Client VAT classification inputs (EU reverse charge / § 19 UStG).
	ClientVATID     string
	VATExempt       bool
	VATExemptReason string

	Deleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasValidDate reports whether the issue date is usable for date-bucketed
// aggregates.
func (inv Invoice) HasValidDate() bool { return !inv.Date.IsZero() }
