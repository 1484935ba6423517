package pos

import (
	"sync"
	"time"
)

// gatePhase encodes the scanner admission state machine:
// Idle -> Resolving -> Cooldown(until) -> Idle.
type gatePhase int

const (
	phaseIdle gatePhase = iota
	phaseResolving
	phaseCooldown
)

const (
	// DefaultDebounce suppresses repeats of the identical barcode after an
	// accepted scan; camera sensors double-fire at frame rate.
	DefaultDebounce = 1500 * time.Millisecond
	// DefaultCooldown is the minimum gap between any two accepted scans,
	// covering the moment right after a resolution finishes.
	DefaultCooldown = 500 * time.Millisecond
)

// ScanGate admits at most one in-flight scan resolution and debounces
// repeated detections. Detections refused here are dropped silently; no
// outcome is emitted for them.
type ScanGate struct {
	mu            sync.Mutex
	phase         gatePhase
	cooldownUntil time.Time
	lastBarcode   string
	lastAccepted  time.Time
	debounce      time.Duration
	cooldown      time.Duration
	nowFunc       func() time.Time
}

// NewScanGate builds a gate with the given windows. Non-positive values fall
// back to the defaults.
func NewScanGate(debounce, cooldown time.Duration) *ScanGate {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &ScanGate{
		debounce: debounce,
		cooldown: cooldown,
		nowFunc:  time.Now,
	}
}

// TryAcquire attempts to admit a detection of barcode. A refusal means the
// gate was resolving another detection, still cooling down, or the same
// barcode repeated within the debounce window. On success the caller must
// call Release once resolution finishes.
func (g *ScanGate) TryAcquire(barcode string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.nowFunc()
	switch g.phase {
	case phaseResolving:
		return false
	case phaseCooldown:
		if now.Before(g.cooldownUntil) {
			return false
		}
		g.phase = phaseIdle
	}
	if g.lastBarcode == barcode && !g.lastAccepted.IsZero() &&
		now.Sub(g.lastAccepted) < g.debounce {
		return false
	}

	g.phase = phaseResolving
	g.lastBarcode = barcode
	g.lastAccepted = now
	return true
}

// Release ends the in-flight resolution and starts the cooldown.
func (g *ScanGate) Release() {
	g.mu.Lock()
	g.phase = phaseCooldown
	g.cooldownUntil = g.nowFunc().Add(g.cooldown)
	g.mu.Unlock()
}
