package pos

import (
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpoint/stockpos/internal/domain"
)

func TestSessionPublishesOutcomes(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]domain.Product{
		"111": {ID: "A", Name: "Widget", Barcode: "111",
			Price: decimal.NewFromInt(10), Quantity: 2},
	}}
	clock := newFakeClock()
	cart := NewCart(catalog, newTestGate(clock))
	bus := EventBus.New()
	session := NewSession(bus, cart, NewCommitter(nil, nil))
	require.NoError(t, session.Attach())
	defer func() { _ = session.Detach() }()

	var outcomes []ScanOutcome
	require.NoError(t, bus.Subscribe(TopicScanOutcome, func(res ScanResult, err error) {
		assert.NoError(t, err)
		outcomes = append(outcomes, res.Outcome)
	}))

	// Resolution runs on the bus's async worker; wait it out before the next
	// detection so the clock never advances under a live handler.
	detect := func(raw string) {
		clock.Advance(2 * time.Second)
		bus.Publish(TopicScanDetected, Detection{Symbology: "ean13", RawText: raw, At: clock.Now()})
		bus.WaitAsync()
	}

	detect("111")
	detect("999")
	detect("111")

	assert.Equal(t, []ScanOutcome{OutcomeAdded, OutcomeNotFound, OutcomeIncremented}, outcomes)
	assert.Equal(t, 2, cart.ItemCount())
}

func TestSessionStaysSilentOnDroppedDetections(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]domain.Product{
		"111": {ID: "A", Name: "Widget", Barcode: "111",
			Price: decimal.NewFromInt(10), Quantity: 5},
	}}
	clock := newFakeClock()
	cart := NewCart(catalog, newTestGate(clock))
	bus := EventBus.New()
	session := NewSession(bus, cart, NewCommitter(nil, nil))
	require.NoError(t, session.Attach())
	defer func() { _ = session.Detach() }()

	published := 0
	require.NoError(t, bus.Subscribe(TopicScanOutcome, func(ScanResult, error) {
		published++
	}))

	clock.Advance(2 * time.Second)
	// Camera double-fire: same barcode with no time in between.
	bus.Publish(TopicScanDetected, Detection{RawText: "111", At: clock.Now()})
	bus.Publish(TopicScanDetected, Detection{RawText: "111", At: clock.Now()})
	bus.WaitAsync()

	assert.Equal(t, 1, published)
	assert.Equal(t, 1, cart.ItemCount())
}
