// Package pos holds the checkout session: cart accumulation against live
// stock, the scan admission gate, and the commit that turns a cart into
// persisted stock decrements.
package pos

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openpoint/stockpos/internal/domain"
	"github.com/openpoint/stockpos/internal/store"
)

// CatalogReader is the read surface the cart needs from the inventory store.
type CatalogReader interface {
	GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
}

// Cart accumulates the lines of the active checkout session. It is owned by a
// single session; the store stays the source of truth for stock.
type Cart struct {
	mu      sync.Mutex
	catalog CatalogReader
	gate    *ScanGate
	lines   []domain.CartLine
}

// NewCart builds a cart over the catalog with the given scan gate.
func NewCart(catalog CatalogReader, gate *ScanGate) *Cart {
	return &Cart{catalog: catalog, gate: gate}
}

// Scan admits one barcode detection. Detections refused by the gate come back
// as OutcomeIgnored with no side effect. Admission order matches the original
// flow: lookup miss, then zero stock, then the live-stock bound for an
// existing line, then add or increment.
func (c *Cart) Scan(ctx context.Context, barcode string) (ScanResult, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return ScanResult{Outcome: OutcomeIgnored}, nil
	}
	if !c.gate.TryAcquire(barcode) {
		return ScanResult{Outcome: OutcomeIgnored, Barcode: barcode}, nil
	}
	defer c.gate.Release()

	product, err := c.catalog.GetByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ScanResult{Outcome: OutcomeNotFound, Barcode: barcode}, nil
		}
		zap.L().Error("barcode lookup failed", zap.String("barcode", barcode), zap.Error(err))
		return ScanResult{Barcode: barcode}, err
	}
	if product.Quantity <= 0 {
		return ScanResult{Outcome: OutcomeOutOfStock, Barcode: barcode}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != product.ID {
			continue
		}
		// Bound by the live stock fetched this scan, not the stale snapshot.
		if c.lines[i].Quantity >= product.Quantity {
			line := c.lines[i]
			return ScanResult{Outcome: OutcomeInsufficientStock, Line: &line, Barcode: barcode}, nil
		}
		c.lines[i].Quantity++
		line := c.lines[i]
		return ScanResult{Outcome: OutcomeIncremented, Line: &line, Barcode: barcode}, nil
	}

	line := domain.CartLine{
		ProductID:      product.ID,
		Name:           product.Name,
		Barcode:        product.Barcode,
		Price:          product.Price,
		Quantity:       1,
		AvailableStock: product.Quantity,
	}
	c.lines = append(c.lines, line)
	return ScanResult{Outcome: OutcomeAdded, Line: &line, Barcode: barcode}, nil
}

// AdjustQuantity sets the requested quantity for a line. A target of zero or
// below removes the line; a target above the stock snapshot is rejected with
// OutcomeInsufficientStock and the line left unchanged.
func (c *Cart) AdjustQuantity(productID string, quantity int) ScanResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			line := c.lines[i]
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return ScanResult{Outcome: OutcomeRemoved, Line: &line}
		}
		if quantity > c.lines[i].AvailableStock {
			line := c.lines[i]
			return ScanResult{Outcome: OutcomeInsufficientStock, Line: &line}
		}
		c.lines[i].Quantity = quantity
		line := c.lines[i]
		return ScanResult{Outcome: OutcomeAdjusted, Line: &line}
	}
	return ScanResult{Outcome: OutcomeNotFound}
}

// Remove deletes a line regardless of quantity. Removing an absent product is
// a no-op.
func (c *Cart) Remove(productID string) {
	c.AdjustQuantity(productID, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Lines returns a copy of the cart in the order lines were added.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total returns the sum of price * quantity across all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// ItemCount returns the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
