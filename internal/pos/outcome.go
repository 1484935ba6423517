package pos

import "github.com/openpoint/stockpos/internal/domain"

// ScanOutcome classifies what a scan or quantity adjustment did to the cart.
// Business-rule rejections (NotFound, OutOfStock, InsufficientStock) are
// expected outcomes surfaced to the cashier, not errors.
type ScanOutcome int

const (
	// OutcomeIgnored marks a detection dropped by the scan gate (reentrant or
	// debounced). It is a deliberate no-op and is never rendered.
	OutcomeIgnored ScanOutcome = iota
	OutcomeAdded
	OutcomeIncremented
	OutcomeAdjusted
	OutcomeRemoved
	OutcomeNotFound
	OutcomeOutOfStock
	OutcomeInsufficientStock
)

func (o ScanOutcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAdded:
		return "added"
	case OutcomeIncremented:
		return "incremented"
	case OutcomeAdjusted:
		return "adjusted"
	case OutcomeRemoved:
		return "removed"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeOutOfStock:
		return "out_of_stock"
	case OutcomeInsufficientStock:
		return "insufficient_stock"
	}
	return "unknown"
}

// ScanResult carries the outcome of one accepted scan plus the affected line
// (nil for rejections) and the barcode that triggered it.
type ScanResult struct {
	Outcome ScanOutcome
	Line    *domain.CartLine
	Barcode string
}
