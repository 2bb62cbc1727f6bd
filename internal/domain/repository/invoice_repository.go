package repository

import (
	"context"
	"time"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
)

// InvoiceRepository is the persistence port for invoices. The metrics engine
// never touches storage; use cases load the full list through this port and
// hand it over as an in-memory slice.
type InvoiceRepository interface {
	// ListAll returns every stored invoice with its items, including
	// soft-deleted ones (the engine filters those itself).
	ListAll(ctx context.Context) ([]entity.Invoice, error)

	GetByID(ctx context.Context, id string) (*entity.Invoice, error)

	Create(ctx context.Context, invoice *entity.Invoice) error

	// MarkPaid flips the paid flag; the caller checks the permitted actions
	// beforehand.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
}
