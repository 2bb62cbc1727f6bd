// Package billing exposes the invoice list with its derived display state
// and guards the state transitions the dashboard may trigger.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/faktura-pro/faktura-api/internal/application/dto"
	"github.com/faktura-pro/faktura-api/internal/domain"
	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/faktura-pro/faktura-api/internal/domain/metrics"
	"github.com/faktura-pro/faktura-api/internal/domain/repository"
)

type InvoiceUseCase struct {
	repo  repository.InvoiceRepository
	clock func() time.Time
}

func NewInvoiceUseCase(repo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, clock: time.Now}
}

// WithClock overrides the reference clock (tests).
func (uc *InvoiceUseCase) WithClock(clock func() time.Time) *InvoiceUseCase {
	uc.clock = clock
	return uc
}

// List returns all non-deleted invoices annotated with display status, net
// amount and the actions valid in that state.
func (uc *InvoiceUseCase) List(ctx context.Context) (*dto.InvoiceListResponse, error) {
	invoices, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("billing: list invoices: %w", err)
	}
	now := uc.clock()

	items := make([]dto.InvoiceListItem, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Deleted {
			continue
		}
		item := dto.InvoiceListItem{
			ID:        inv.ID,
			Number:    inv.Number,
			Customer:  inv.Customer.Name,
			NetAmount: metrics.NetAmount(inv),
			Status:    string(metrics.DisplayStatus(inv, now)),
			Actions:   metrics.ActionsFor(inv),
		}
		if inv.HasValidDate() {
			item.Date = inv.Date.Format("2006-01-02")
		}
		if inv.DueDate != nil {
			item.DueDate = inv.DueDate.Format("2006-01-02")
		}
		if by, ok := inv.Rectification.By(); ok {
			item.RectifiedBy = by
		}
		items = append(items, item)
	}
	return &dto.InvoiceListResponse{Invoices: items, Count: len(items)}, nil
}

// MarkPaid records a payment. The transition is refused for rectifications
// and for invoices that already have a rectification.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("billing: get invoice: %w", err)
	}
	now := uc.clock()
	if !metrics.ActionsFor(*inv).MarkPaid {
		return nil, fmt.Errorf("billing: invoice %s: %w", inv.Number, domain.ErrActionNotAllowed)
	}
	if err := uc.repo.MarkPaid(ctx, id, now); err != nil {
		return nil, fmt.Errorf("billing: mark paid: %w", err)
	}
	inv.Paid = true
	inv.Status = entity.StatusPaid
	inv.UpdatedAt = now
	return inv, nil
}
