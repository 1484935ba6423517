package portability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpoint/stockpos/internal/domain"
)

type fakeReplacer struct {
	products []domain.Product
	calls    int
}

func (f *fakeReplacer) Update(_ context.Context, fn func([]domain.Product) ([]domain.Product, error)) error {
	f.calls++
	next, err := fn(f.products)
	if err != nil {
		return err
	}
	f.products = next
	return nil
}

func sampleCatalog() []domain.Product {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Product{
		{
			ID:          "p-1",
			Name:        "Coffee Beans",
			Barcode:     "456789123456",
			Price:       decimal.NewFromFloat(24.99),
			Quantity:    25,
			Description: "medium roast",
			Category:    "Food",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func TestExportDocumentShape(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	data, err := Export(sampleCatalog(), now)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"version": "1.0"`)
	assert.Contains(t, text, `"exportDate": "2026-03-02T08:00:00Z"`)
	// Price travels as a bare JSON number.
	assert.Contains(t, text, `"price": 24.99`)
}

func TestExportEmptyCatalogKeepsSequence(t *testing.T) {
	data, err := Export(nil, time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"products": []`)
}

func TestExportImportRoundTrip(t *testing.T) {
	original := sampleCatalog()
	data, err := Export(original, time.Now())
	require.NoError(t, err)

	products, err := ParseDocument(data, time.Now())
	require.NoError(t, err)
	require.Len(t, products, 1)
	got := products[0]
	assert.Equal(t, original[0].ID, got.ID)
	assert.Equal(t, original[0].Name, got.Name)
	assert.Equal(t, original[0].Barcode, got.Barcode)
	assert.True(t, original[0].Price.Equal(got.Price))
	assert.Equal(t, original[0].Quantity, got.Quantity)
	assert.True(t, original[0].CreatedAt.Equal(got.CreatedAt))
}

func TestParseDocumentRejectsMissingProducts(t *testing.T) {
	replacer := &fakeReplacer{products: sampleCatalog()}

	_, err := ParseDocument([]byte(`{"exportDate":"2026-01-01","version":"1.0"}`), time.Now())
	assert.ErrorIs(t, err, ErrMissingProducts)

	// A rejected document must leave the existing catalog untouched: the
	// replacer is never reached.
	assert.Zero(t, replacer.calls)
	assert.Len(t, replacer.products, 1)
}

func TestParseDocumentRejectsNonSequenceProducts(t *testing.T) {
	_, err := ParseDocument([]byte(`{"products": 5}`), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a sequence")
}

func TestParseDocumentToleratesForeignShapes(t *testing.T) {
	fallback := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	doc := `{
		"products": [
			{"name": "Tea", "barcode": "111222333", "price": "3.50",
			 "quantity": 7, "createdAt": "2024/01/02"}
		],
		"version": "1.0"
	}`
	products, err := ParseDocument([]byte(doc), fallback)
	require.NoError(t, err)
	require.Len(t, products, 1)

	got := products[0]
	assert.NotEmpty(t, got.ID, "missing ids are assigned")
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(3.50)), "string prices accepted")
	assert.Equal(t, 2024, got.CreatedAt.Year(), "slash dates parsed")
	assert.True(t, got.UpdatedAt.Equal(fallback), "absent stamps fall back")
}

func TestImportReplacesWholeCatalog(t *testing.T) {
	replacer := &fakeReplacer{products: sampleCatalog()}
	incoming := []domain.Product{
		{ID: "n-1", Name: "New One", Price: decimal.NewFromInt(1), Quantity: 1},
		{ID: "n-2", Name: "New Two", Price: decimal.NewFromInt(2), Quantity: 2},
	}

	require.NoError(t, Import(context.Background(), replacer, incoming))
	require.Len(t, replacer.products, 2)
	assert.Equal(t, "n-1", replacer.products[0].ID)
}

func TestCSVRoundTrip(t *testing.T) {
	original := sampleCatalog()
	data, err := ExportCSV(original)
	require.NoError(t, err)

	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, "id,name,barcode,price,quantity,description,category,createdAt,updatedAt",
		strings.TrimRight(header, "\r"))

	products, err := ParseCSV(data, time.Now())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, original[0].Name, products[0].Name)
	assert.True(t, original[0].Price.Equal(products[0].Price))
	assert.Equal(t, original[0].Quantity, products[0].Quantity)
	assert.True(t, original[0].CreatedAt.Equal(products[0].CreatedAt))
}
