package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/faktura-pro/faktura-api/internal/domain"
	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/faktura-pro/faktura-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements the InvoiceRepository port on PostgreSQL.
type InvoiceRepo struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository builds the persistence adapter for invoices.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

const invoiceColumns = `
	id, number, date, due_date, customer_id, customer_name,
	total, paid, status, rectified, rectified_by, notes,
	client_vat_id, vat_exempt, vat_exempt_reason, deleted,
	created_at, updated_at`

// ListAll loads every invoice with its line items. Two queries: one for the
// headers, one for all items, stitched together in memory.
func (r *InvoiceRepo) ListAll(ctx context.Context) ([]entity.Invoice, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+invoiceColumns+` FROM invoices ORDER BY date NULLS LAST, number`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []entity.Invoice
	index := map[string]int{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		index[inv.ID] = len(list)
		list = append(list, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	itemRows, err := r.pool.Query(ctx, `
		SELECT invoice_id, name, quantity, unit_price
		FROM invoice_items ORDER BY invoice_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var invoiceID string
		var item entity.InvoiceItem
		if err := itemRows.Scan(&invoiceID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		if i, ok := index[invoiceID]; ok {
			list[i].Items = append(list[i].Items, item)
		}
	}
	return list, itemRows.Err()
}

// GetByID loads one invoice with its items. Returns domain.ErrNotFound when
// the id is unknown.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT name, quantity, unit_price
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.InvoiceItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		inv.Items = append(inv.Items, item)
	}
	return inv, rows.Err()
}

// Create persists the invoice header and its items.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rectifiedBy := ""
	if by, ok := invoice.Rectification.By(); ok {
		rectifiedBy = by
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (id, number, date, due_date, customer_id, customer_name,
			total, paid, status, rectified, rectified_by, notes,
			client_vat_id, vat_exempt, vat_exempt_reason, deleted,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		invoice.ID, invoice.Number, nullIfZeroTime(invoice.Date), invoice.DueDate,
		nullIfEmpty(invoice.Customer.ID), invoice.Customer.Name,
		invoice.Total, invoice.Paid, nullIfEmpty(string(invoice.Status)),
		invoice.Rectification.Rectified(), nullIfEmpty(rectifiedBy), invoice.Notes,
		nullIfEmpty(invoice.ClientVATID), invoice.VATExempt, nullIfEmpty(invoice.VATExemptReason),
		invoice.Deleted, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", invoice.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	for i, item := range invoice.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, position, name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), invoice.ID, i, item.Name, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// MarkPaid flips the paid flag and stamps the update time.
func (r *InvoiceRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices SET paid = TRUE, status = 'paid', updated_at = $2
		WHERE id = $1`, id, paidAt)
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanInvoice maps one row onto the entity, converting the nullable columns.
func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var date, dueDate *time.Time
	var customerID, status, rectifiedBy, notes, clientVATID, exemptReason *string
	var total *decimal.Decimal
	var rectified bool

	err := row.Scan(
		&inv.ID, &inv.Number, &date, &dueDate, &customerID, &inv.Customer.Name,
		&total, &inv.Paid, &status, &rectified, &rectifiedBy, &notes,
		&clientVATID, &inv.VATExempt, &exemptReason, &inv.Deleted,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	if date != nil {
		inv.Date = *date
	}
	inv.DueDate = dueDate
	inv.Customer.ID = derefStr(customerID)
	inv.Total = total
	inv.Status = entity.InvoiceStatus(derefStr(status))
	if rectified {
		inv.Rectification = entity.RectifiedBy(derefStr(rectifiedBy))
	}
	inv.Notes = derefStr(notes)
	inv.ClientVATID = derefStr(clientVATID)
	inv.VATExemptReason = derefStr(exemptReason)
	return &inv, nil
}

func nullIfZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
