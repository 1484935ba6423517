package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product's accumulated requested quantity within the active
// checkout session. Name, price and barcode are denormalized from the product
// at first scan; AvailableStock is the stock snapshot taken at that moment and
// serves as the soft upper bound for in-session quantity adjustments.
type CartLine struct {
	ProductID      string          `json:"productId"`
	Name           string          `json:"name"`
	Barcode        string          `json:"barcode"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	AvailableStock int             `json:"availableStock"`
}

// LineTotal returns price * quantity for the line.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Receipt records a successfully committed sale.
type Receipt struct {
	ID        string          `json:"id"`
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}
