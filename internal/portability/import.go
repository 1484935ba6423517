package portability

import (
	"context"
	jsonenc "encoding/json"
	"errors"
	"time"

	"github.com/araddon/dateparse"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openpoint/stockpos/internal/domain"
)

var (
	// ErrMissingProducts rejects documents without a products sequence.
	ErrMissingProducts = errors.New("document has no products list")
)

// CatalogReplacer is the transactional surface the destructive import needs.
type CatalogReplacer interface {
	Update(ctx context.Context, fn func(products []domain.Product) ([]domain.Product, error)) error
}

// rawProduct tolerates documents produced by other exporters: prices may be
// numbers or numeric strings, timestamps any common format.
type rawProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type rawDocument struct {
	Products   *jsonenc.RawMessage `json:"products"`
	ExportDate string              `json:"exportDate"`
	Version    string              `json:"version"`
}

// ParseDocument validates and decodes an interchange document. A missing or
// non-sequence products key rejects the whole document; the existing catalog
// is never touched by a failed parse.
func ParseDocument(data []byte, now time.Time) ([]domain.Product, error) {
	var doc rawDocument
	if err := jsonCodec.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.Wrap(err, "decode document")
	}
	if doc.Products == nil {
		return nil, ErrMissingProducts
	}
	var raws []rawProduct
	if err := jsonCodec.Unmarshal(*doc.Products, &raws); err != nil {
		return nil, pkgerrors.Wrap(err, "products is not a sequence")
	}

	products := make([]domain.Product, 0, len(raws))
	for _, r := range raws {
		p := domain.Product{
			ID:          r.ID,
			Name:        r.Name,
			Barcode:     r.Barcode,
			Price:       r.Price,
			Quantity:    r.Quantity,
			Description: r.Description,
			Category:    r.Category,
			CreatedAt:   parseStamp(r.CreatedAt, now),
			UpdatedAt:   parseStamp(r.UpdatedAt, now),
		}
		if p.ID == "" {
			p.ID = domain.NewID()
		}
		products = append(products, p)
	}
	return products, nil
}

// Import replaces the full catalog with the given products in one store
// transaction. Destructive by contract; callers confirm first.
func Import(ctx context.Context, catalog CatalogReplacer, products []domain.Product) error {
	err := catalog.Update(ctx, func([]domain.Product) ([]domain.Product, error) {
		return products, nil
	})
	if err != nil {
		return pkgerrors.Wrap(err, "replace catalog")
	}
	zap.L().Info("catalog imported", zap.Int("products", len(products)))
	return nil
}

func parseStamp(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return fallback
	}
	return t
}
