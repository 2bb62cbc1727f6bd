// Package metrics is the financial computation engine of Faktura Pro: invoice
// classification, revenue aggregation and projection, VAT simulation,
// Kleinunternehmer threshold monitoring and income tax estimation.
//
// Every function is pure and synchronous: it takes the in-memory invoice list
// plus an injected reference instant ("now") and returns a freshly built
// value. Nothing here reads the wall clock, performs I/O or fails; ratios
// over empty inputs are guarded and come back as exact zero.
package metrics

import (
	"strings"
	"time"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// rectificationMarker flags a Stornorechnung by its note or first line item.
const rectificationMarker = "storno"

// NetAmount returns the invoice's authoritative net amount: the explicit
// total when present, otherwise the sum of quantity × unit price over the
// items.
func NetAmount(inv entity.Invoice) decimal.Decimal {
	if inv.Total != nil {
		return *inv.Total
	}
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.Quantity.Mul(item.UnitPrice))
	}
	return sum
}

// IsRectification reports whether the invoice IS a correcting invoice
// (Stornorechnung): negative net total, any negative item price, or the
// marker substring in the notes or the first item name (case-insensitive).
// This is distinct from the stored "rectified" state, which marks the
// superseded original.
func IsRectification(inv entity.Invoice) bool {
	if NetAmount(inv).IsNegative() {
		return true
	}
	for _, item := range inv.Items {
		if item.UnitPrice.IsNegative() {
			return true
		}
	}
	if strings.Contains(strings.ToLower(inv.Notes), rectificationMarker) {
		return true
	}
	if len(inv.Items) > 0 &&
		strings.Contains(strings.ToLower(inv.Items[0].Name), rectificationMarker) {
		return true
	}
	return false
}

// DisplayStatus derives the status shown to the user. Precedence:
//
//	rectification (the invoice IS one)
//	rectified     (superseded, stored flag or status)
//	paid
//	stored status (unpaid/paid/overdue)
//	overdue       (due date strictly before today, day granularity)
//	unpaid        (default)
func DisplayStatus(inv entity.Invoice, now time.Time) entity.InvoiceStatus {
	if IsRectification(inv) {
		return entity.StatusRectification
	}
	if inv.Rectification.Rectified() || inv.Status == entity.StatusRectified {
		return entity.StatusRectified
	}
	if inv.Paid {
		return entity.StatusPaid
	}
	switch inv.Status {
	case entity.StatusUnpaid, entity.StatusPaid, entity.StatusOverdue:
		return inv.Status
	}
	if inv.DueDate != nil && truncateToDay(*inv.DueDate).Before(truncateToDay(now)) {
		return entity.StatusOverdue
	}
	return entity.StatusUnpaid
}

// InvoiceActions lists which operations the caller may offer for an invoice.
// The engine only derives permissions; enforcing them is the caller's job.
type InvoiceActions struct {
	MarkPaid bool `json:"mark_paid"`
	Download bool `json:"download"`
	Rectify  bool `json:"rectify"`
	Delete   bool `json:"delete"`
}

// ActionsFor derives the permitted actions. MarkPaid and Rectify are off for
// invoices that are a rectification or have already been rectified; Download
// and Delete are always available.
func ActionsFor(inv entity.Invoice) InvoiceActions {
	locked := IsRectification(inv) ||
		inv.Rectification.Rectified() || inv.Status == entity.StatusRectified
	return InvoiceActions{
		MarkPaid: !locked,
		Download: true,
		Rectify:  !locked,
		Delete:   true,
	}
}
