package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry is a tracked work block. The refined revenue projection uses
// hours × hourly rate as a second signal next to invoiced amounts.
type TimeEntry struct {
	ID         string
	Date       time.Time
	Hours      decimal.Decimal
	HourlyRate decimal.Decimal
	Note       string
}

// Revenue returns hours × hourly rate.
func (e TimeEntry) Revenue() decimal.Decimal {
	return e.Hours.Mul(e.HourlyRate)
}
