package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted documents carry price as a bare JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog item. The zero ID means the product has not been
// persisted yet; the store assigns one on first upsert.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Valid reports whether the product may be persisted. Invalid in-memory
// instances can transiently exist; the store checks this before every write.
func (p *Product) Valid() bool {
	return strings.TrimSpace(p.Name) != "" &&
		!p.Price.IsNegative() &&
		p.Quantity >= 0
}

// Touch refreshes the mutation timestamp, stamping CreatedAt on first use.
func (p *Product) Touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

const (
	nameMinLen    = 2
	nameMaxLen    = 100
	barcodeMinLen = 6
	barcodeMaxLen = 50
	maxQuantity   = 999999
)

var (
	maxPrice       = decimal.NewFromFloat(999999.99)
	barcodePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// ValidateFields runs the full per-field validation used by the editing
// surfaces. It is stricter than Valid: Valid gates persistence, this gates
// operator input.
func ValidateFields(p *Product) map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		errs["name"] = "product name is required"
	case len(name) < nameMinLen:
		errs["name"] = fmt.Sprintf("product name must be at least %d characters", nameMinLen)
	case len(name) > nameMaxLen:
		errs["name"] = fmt.Sprintf("product name must be less than %d characters", nameMaxLen)
	}

	if p.Price.IsNegative() {
		errs["price"] = "price cannot be negative"
	} else if p.Price.GreaterThan(maxPrice) {
		errs["price"] = "price is too high"
	}

	if p.Quantity < 0 {
		errs["quantity"] = "quantity cannot be negative"
	} else if p.Quantity > maxQuantity {
		errs["quantity"] = "quantity is too high"
	}

	if barcode := strings.TrimSpace(p.Barcode); barcode != "" {
		switch {
		case len(barcode) < barcodeMinLen:
			errs["barcode"] = fmt.Sprintf("barcode must be at least %d characters", barcodeMinLen)
		case len(barcode) > barcodeMaxLen:
			errs["barcode"] = fmt.Sprintf("barcode must be less than %d characters", barcodeMaxLen)
		case !barcodePattern.MatchString(barcode):
			errs["barcode"] = "barcode must contain only letters and numbers"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
