package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpoint/stockpos/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testProduct(name, barcode string, price float64, qty int) *domain.Product {
	return &domain.Product{
		Name:     name,
		Barcode:  barcode,
		Price:    decimal.NewFromFloat(price),
		Quantity: qty,
	}
}

func TestUpsertThenGetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testProduct("Coffee Beans", "456789123456", 24.99, 25)
	p.Description = "medium roast"
	p.Category = "Food"
	require.NoError(t, s.Upsert(ctx, p))
	require.NotEmpty(t, p.ID)
	require.False(t, p.UpdatedAt.IsZero())

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Barcode, got.Barcode)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, p.Quantity, got.Quantity)
	assert.Equal(t, p.Description, got.Description)
	assert.Equal(t, p.Category, got.Category)
}

func TestUpsertReplacesInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testProduct("First", "111111", 1, 1)
	second := testProduct("Second", "222222", 2, 2)
	require.NoError(t, s.Upsert(ctx, first))
	require.NoError(t, s.Upsert(ctx, second))

	first.Quantity = 9
	require.NoError(t, s.Upsert(ctx, first))

	products, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	// Replacement keeps the document's insertion order.
	assert.Equal(t, first.ID, products[0].ID)
	assert.Equal(t, 9, products[0].Quantity)
	assert.Equal(t, second.ID, products[1].ID)
}

func TestUpsertRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	invalid := testProduct("   ", "111111", 1, 1)
	err := s.Upsert(ctx, invalid)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	negative := testProduct("Negative", "111111", 1, -1)
	assert.ErrorIs(t, s.Upsert(ctx, negative), ErrInvalidProduct)

	products, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetByBarcode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testProduct("Chair", "123456789012", 299.99, 10)
	require.NoError(t, s.Upsert(ctx, p))

	got, err := s.GetByBarcode(ctx, "123456789012")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.GetByBarcode(ctx, "999999999999")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, p.ID))
	_, err = s.GetByBarcode(ctx, "123456789012")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByBarcodeFirstMatchOnDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testProduct("A", "111111", 1, 1)
	b := testProduct("B", "111111", 2, 2)
	require.NoError(t, s.Upsert(ctx, a))
	require.NoError(t, s.Upsert(ctx, b))

	got, err := s.GetByBarcode(ctx, "111111")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestDeleteAbsentIsNoOp(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), "no-such-id"))
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testProduct("A", "111111", 1, 1)))
	require.NoError(t, s.ClearAll(ctx))

	products, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	phone := testProduct("Apple iPhone 15", "194253714125", 999.99, 5)
	phone.Description = "advanced camera system"
	phone.Category = "Electronics"
	chair := testProduct("Office Chair", "123456789012", 299.99, 10)
	chair.Category = "Furniture"
	require.NoError(t, s.Upsert(ctx, phone))
	require.NoError(t, s.Upsert(ctx, chair))

	byName, err := s.Search(ctx, "iphone")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, phone.ID, byName[0].ID)

	byCategory, err := s.Search(ctx, "furniture")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, chair.ID, byCategory[0].ID)

	byBarcode, err := s.Search(ctx, "194253")
	require.NoError(t, err)
	require.Len(t, byBarcode, 1)

	byDescription, err := s.Search(ctx, "CAMERA")
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
}

func TestUpdateAbortLeavesSnapshotIntact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testProduct("A", "111111", 1, 5)
	require.NoError(t, s.Upsert(ctx, p))

	boom := assert.AnError
	err := s.Update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		products[0].Quantity = 0
		return products, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestReceiptJournal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := &domain.Receipt{
		ID:        "r-1",
		Total:     decimal.NewFromInt(10),
		CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &domain.Receipt{
		ID:        "r-2",
		Total:     decimal.NewFromInt(20),
		CreatedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveReceipt(ctx, newer))
	require.NoError(t, s.SaveReceipt(ctx, older))

	receipts, err := s.ListReceipts(ctx)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "r-1", receipts[0].ID)
	assert.Equal(t, "r-2", receipts[1].ID)
	assert.True(t, receipts[1].Total.Equal(decimal.NewFromInt(20)))
}

func TestReceiptJournalOrderWithinSecond(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A whole-second stamp must not sort after a fractional one in the same
	// second.
	whole := &domain.Receipt{
		ID:        "r-whole",
		CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	half := &domain.Receipt{
		ID:        "r-half",
		CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 500_000_000, time.UTC),
	}
	require.NoError(t, s.SaveReceipt(ctx, half))
	require.NoError(t, s.SaveReceipt(ctx, whole))

	receipts, err := s.ListReceipts(ctx)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "r-whole", receipts[0].ID)
	assert.Equal(t, "r-half", receipts[1].ID)
}
