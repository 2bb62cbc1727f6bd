package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faktura-pro/faktura-api/internal/application/billing"
	"github.com/faktura-pro/faktura-api/internal/domain"
	"github.com/faktura-pro/faktura-api/internal/domain/entity"
)

type fakeInvoiceRepo struct {
	invoices   []entity.Invoice
	paidCalled string
}

func (f *fakeInvoiceRepo) ListAll(ctx context.Context) ([]entity.Invoice, error) {
	return f.invoices, nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			return &f.invoices[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	f.invoices = append(f.invoices, *invoice)
	return nil
}

func (f *fakeInvoiceRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	f.paidCalled = id
	return nil
}

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func fixedNow(s string) func() time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return func() time.Time { return t }
}

func TestList_AnnotatesStatusAndActions(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeInvoiceRepo{invoices: []entity.Invoice{
		{ID: "a", Number: "R-001", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), DueDate: &due,
			Customer: entity.Customer{Name: "ACME"}, Total: amount(1000)},
		{ID: "b", Number: "R-002", Date: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), Total: amount(-1000)},
		{ID: "c", Number: "R-003", Deleted: true, Total: amount(50)},
	}}
	uc := billing.NewInvoiceUseCase(repo).WithClock(fixedNow("2024-04-01"))

	out, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, out.Count, "deleted invoices are hidden")

	first := out.Invoices[0]
	assert.Equal(t, "overdue", first.Status)
	assert.Equal(t, "2024-02-01", first.Date)
	assert.Equal(t, "2024-03-01", first.DueDate)
	assert.True(t, first.Actions.MarkPaid)
	assert.True(t, first.NetAmount.Equal(decimal.NewFromInt(1000)))

	second := out.Invoices[1]
	assert.Equal(t, "rectification", second.Status)
	assert.False(t, second.Actions.MarkPaid, "rectifications cannot be marked paid")
}

func TestList_ExposesRectifiedBy(t *testing.T) {
	repo := &fakeInvoiceRepo{invoices: []entity.Invoice{
		{ID: "a", Number: "R-001", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Total: amount(1000), Rectification: entity.RectifiedBy("R-002")},
	}}
	uc := billing.NewInvoiceUseCase(repo).WithClock(fixedNow("2024-04-01"))

	out, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Invoices, 1)
	assert.Equal(t, "rectified", out.Invoices[0].Status)
	assert.Equal(t, "R-002", out.Invoices[0].RectifiedBy)
}

func TestMarkPaid_HappyPath(t *testing.T) {
	repo := &fakeInvoiceRepo{invoices: []entity.Invoice{
		{ID: "a", Number: "R-001", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Total: amount(1000)},
	}}
	uc := billing.NewInvoiceUseCase(repo).WithClock(fixedNow("2024-04-01"))

	inv, err := uc.MarkPaid(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", repo.paidCalled)
	assert.True(t, inv.Paid)
	assert.Equal(t, entity.StatusPaid, inv.Status)
}

func TestMarkPaid_RefusedForRectification(t *testing.T) {
	repo := &fakeInvoiceRepo{invoices: []entity.Invoice{
		{ID: "a", Number: "ST-001", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Total: amount(-1000)},
	}}
	uc := billing.NewInvoiceUseCase(repo).WithClock(fixedNow("2024-04-01"))

	_, err := uc.MarkPaid(context.Background(), "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrActionNotAllowed))
	assert.Empty(t, repo.paidCalled, "repository must not be touched on refusal")
}

func TestMarkPaid_UnknownInvoice(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	uc := billing.NewInvoiceUseCase(repo)

	_, err := uc.MarkPaid(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
