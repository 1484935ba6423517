package pos

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openpoint/stockpos/internal/domain"
)

var (
	// ErrEmptyCart rejects committing a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrStockConflict aborts a commit when live stock no longer covers a
	// line. Nothing is applied; the cashier adjusts the cart and retries.
	ErrStockConflict = errors.New("stock changed since scan")
	// ErrCommitInFlight rejects a double-submit while a commit is resolving.
	ErrCommitInFlight = errors.New("checkout already in progress")
)

// CatalogWriter is the transactional write surface checkout needs.
type CatalogWriter interface {
	Update(ctx context.Context, fn func(products []domain.Product) ([]domain.Product, error)) error
}

// ReceiptJournal records committed sales.
type ReceiptJournal interface {
	SaveReceipt(ctx context.Context, r *domain.Receipt) error
}

// Committer applies a cart's quantities as stock decrements. The whole commit
// runs inside one store transaction, so it is all-or-nothing: a storage
// failure or stock conflict persists nothing and leaves the cart intact.
type Committer struct {
	catalog  CatalogWriter
	journal  ReceiptJournal
	inFlight atomic.Bool
	nowFunc  func() time.Time
}

// NewCommitter creates a Committer. journal may be nil to skip journaling.
func NewCommitter(catalog CatalogWriter, journal ReceiptJournal) *Committer {
	return &Committer{catalog: catalog, journal: journal, nowFunc: time.Now}
}

// Commit re-fetches every cart line's product by id, decrements stock in line
// order, and persists the catalog in a single transaction. On success the
// cart is cleared and a receipt returned.
func (cm *Committer) Commit(ctx context.Context, cart *Cart) (*domain.Receipt, error) {
	if !cm.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCommitInFlight
	}
	defer cm.inFlight.Store(false)

	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := cm.nowFunc()
	err := cm.catalog.Update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		byID := make(map[string]int, len(products))
		for i := range products {
			byID[products[i].ID] = i
		}
		for _, line := range lines {
			i, ok := byID[line.ProductID]
			if !ok {
				return nil, pkgerrors.Wrapf(ErrStockConflict, "product %s (%s) no longer exists", line.Name, line.ProductID)
			}
			if products[i].Quantity < line.Quantity {
				return nil, pkgerrors.Wrapf(ErrStockConflict, "product %s: have %d, cart wants %d",
					line.Name, products[i].Quantity, line.Quantity)
			}
			products[i].Quantity -= line.Quantity
			products[i].Touch(now)
		}
		return products, nil
	})
	if err != nil {
		zap.L().Error("checkout commit failed", zap.Int("lines", len(lines)), zap.Error(err))
		return nil, err
	}

	total := decimalTotal(lines)
	receipt := &domain.Receipt{
		ID:        uuid.NewString(),
		Lines:     lines,
		Total:     total,
		CreatedAt: now,
	}
	if cm.journal != nil {
		// Stock is already committed; a journal failure must not fail the sale.
		if err := cm.journal.SaveReceipt(ctx, receipt); err != nil {
			zap.L().Warn("receipt journal write failed", zap.String("receipt", receipt.ID), zap.Error(err))
		}
	}
	cart.Clear()

	zap.L().Info("sale committed",
		zap.String("receipt", receipt.ID),
		zap.Int("lines", len(lines)),
		zap.String("total", total.StringFixed(2)),
	)
	return receipt, nil
}

func decimalTotal(lines []domain.CartLine) (total decimal.Decimal) {
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}
