package portability

import (
	"time"

	"github.com/gocarina/gocsv"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openpoint/stockpos/internal/domain"
)

// csvRow is the tabular projection of a product. Timestamps travel as strings
// so foreign spreadsheets with odd date formats still import.
type csvRow struct {
	ID          string          `csv:"id"`
	Name        string          `csv:"name"`
	Barcode     string          `csv:"barcode"`
	Price       decimal.Decimal `csv:"price"`
	Quantity    int             `csv:"quantity"`
	Description string          `csv:"description"`
	Category    string          `csv:"category"`
	CreatedAt   string          `csv:"createdAt"`
	UpdatedAt   string          `csv:"updatedAt"`
}

// ExportCSV renders the catalog as CSV with a header row.
func ExportCSV(products []domain.Product) ([]byte, error) {
	rows := make([]csvRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, csvRow{
			ID:          p.ID,
			Name:        p.Name,
			Barcode:     p.Barcode,
			Price:       p.Price,
			Quantity:    p.Quantity,
			Description: p.Description,
			Category:    p.Category,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
		})
	}
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "encode csv")
	}
	return []byte(out), nil
}

// ParseCSV decodes a CSV catalog with the ExportCSV column set. Same replace
// semantics as the JSON document: feed the result to Import.
func ParseCSV(data []byte, now time.Time) ([]domain.Product, error) {
	var rows []csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, pkgerrors.Wrap(err, "decode csv")
	}
	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
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
