package metrics_test

import (
	"testing"
	"time"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// mustDate parses a YYYY-MM-DD fixture date.
func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", s, err)
	}
	return d
}

type invoiceOpt func(*entity.Invoice)

// invoiceOn builds a fixture invoice with an explicit total.
func invoiceOn(t *testing.T, date string, total float64, opts ...invoiceOpt) entity.Invoice {
	t.Helper()
	amount := decimal.NewFromFloat(total)
	inv := entity.Invoice{
		Number: "R-" + date,
		Date:   mustDate(t, date),
		Total:  &amount,
	}
	for _, opt := range opts {
		opt(&inv)
	}
	return inv
}

func paid() invoiceOpt {
	return func(inv *entity.Invoice) { inv.Paid = true }
}

func deleted() invoiceOpt {
	return func(inv *entity.Invoice) { inv.Deleted = true }
}

func withNotes(notes string) invoiceOpt {
	return func(inv *entity.Invoice) { inv.Notes = notes }
}

func withClient(name string) invoiceOpt {
	return func(inv *entity.Invoice) { inv.Customer = entity.Customer{Name: name} }
}

func withVATID(id string) invoiceOpt {
	return func(inv *entity.Invoice) { inv.ClientVATID = id }
}

func withExemptReason(reason string) invoiceOpt {
	return func(inv *entity.Invoice) { inv.VATExemptReason = reason }
}

func withoutDate() invoiceOpt {
	return func(inv *entity.Invoice) { inv.Date = time.Time{} }
}

// assertDecimal compares a decimal against its expected string form.
func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		"want %s, got %s (%v)", want, got, msgAndArgs)
}
