package pos

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/openpoint/stockpos/internal/domain"
)

// Event bus topics. Sensor adapters publish detections; the session publishes
// every non-ignored scan result for the UI to render.
const (
	TopicScanDetected = "scanner:detected"
	TopicScanOutcome  = "pos:scan_outcome"
)

// Detection is one raw barcode detection from a scanner sensor. The session
// consumes RawText only; symbology is carried for logging and ignored.
type Detection struct {
	Symbology string
	RawText   string
	At        time.Time
}

// Session wires a scanner sensor to a cart and committer over the event bus.
// It owns the cart for the duration of the checkout flow.
type Session struct {
	bus       EventBus.Bus
	cart      *Cart
	committer *Committer
}

// NewSession builds a session over the given bus, cart and committer.
func NewSession(bus EventBus.Bus, cart *Cart, committer *Committer) *Session {
	return &Session{bus: bus, cart: cart, committer: committer}
}

// Attach subscribes the session to scanner detections. The subscription must
// be async: handleDetection republishes outcomes on the same bus, and the bus
// lock is not reentrant, so a synchronous subscriber would deadlock on its
// first non-ignored detection. Transactional keeps detections resolving one
// at a time, in publish order.
func (s *Session) Attach() error {
	return s.bus.SubscribeAsync(TopicScanDetected, s.handleDetection, true)
}

// Detach unsubscribes from the scanner topic.
func (s *Session) Detach() error {
	return s.bus.Unsubscribe(TopicScanDetected, s.handleDetection)
}

func (s *Session) handleDetection(d Detection) {
	res, err := s.cart.Scan(context.Background(), d.RawText)
	if err != nil {
		zap.L().Error("scan resolution failed",
			zap.String("symbology", d.Symbology),
			zap.String("barcode", d.RawText),
			zap.Error(err),
		)
		s.bus.Publish(TopicScanOutcome, res, err)
		return
	}
	if res.Outcome == OutcomeIgnored {
		// Reentrant or debounced detection: deliberate silent no-op.
		return
	}
	s.bus.Publish(TopicScanOutcome, res, nil)
}

// Cart exposes the session's cart to the UI.
func (s *Session) Cart() *Cart {
	return s.cart
}

// Checkout commits the session's cart.
func (s *Session) Checkout(ctx context.Context) (*domain.Receipt, error) {
	return s.committer.Commit(ctx, s.cart)
}
