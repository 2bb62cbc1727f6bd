package dto

import (
	"github.com/faktura-pro/faktura-api/internal/domain/metrics"
	"github.com/shopspring/decimal"
)

// InvoiceListItem is one row of the invoice table: stored fields plus the
// derived display status and permitted actions.
type InvoiceListItem struct {
	ID          string                 `json:"id"`
	Number      string                 `json:"number"`
	Date        string                 `json:"date,omitempty"` // YYYY-MM-DD, empty if unknown
	DueDate     string                 `json:"due_date,omitempty"`
	Customer    string                 `json:"customer"`
	NetAmount   decimal.Decimal        `json:"net_amount"`
	Status      string                 `json:"status"`
	RectifiedBy string                 `json:"rectified_by,omitempty"`
	Actions     metrics.InvoiceActions `json:"actions"`
}

// InvoiceListResponse wraps the table rows.
type InvoiceListResponse struct {
	Invoices []InvoiceListItem `json:"invoices"`
	Count    int               `json:"count"`
}
