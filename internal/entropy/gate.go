// Package entropy tracks cumulative randomness consumption and gates
// sensitive operations on a quality threshold.
package entropy

import (
	"fmt"
	"sync/atomic"

	pqerrors "github.com/systmms/pqops/internal/errors"
	"github.com/systmms/pqops/pkg/primitives"
)

// DefaultQualityThreshold is the cumulative number of CSPRNG bytes that
// must have been drawn before the gate reports healthy.
const DefaultQualityThreshold = 256

// Gate accounts every byte drawn from the primitives provider's CSPRNG.
// The counter is monotonic for the process lifetime; it never resets.
type Gate struct {
	prim      primitives.Provider
	threshold uint64
	consumed  atomic.Uint64
}

// NewGate creates a gate over prim. A zero threshold selects the default.
func NewGate(prim primitives.Provider, threshold uint64) *Gate {
	if threshold == 0 {
		threshold = DefaultQualityThreshold
	}
	return &Gate{prim: prim, threshold: threshold}
}

// Draw pulls n one-time bytes from the provider CSPRNG and adds n to the
// consumed counter. It refuses to draw from a source that reports
// unhealthy; the provider's refusal is surfaced, never papered over with
// low-quality bytes. Drawn bytes are never discarded back into a pool or
// reused.
func (g *Gate) Draw(n int) ([]byte, error) {
	if !g.prim.RandomSourceHealthy() {
		return nil, fmt.Errorf("%w: random source reports unhealthy", pqerrors.ErrEntropy)
	}
	b, err := g.prim.RandomBytes(n)
	if err != nil {
		return nil, fmt.Errorf("%w: draw of %d bytes refused: %v", pqerrors.ErrEntropy, n, err)
	}
	g.consumed.Add(uint64(n))
	return b, nil
}

// Healthy reports whether cumulative consumption has reached the quality
// threshold. Read-only: it never blocks and never fails.
func (g *Gate) Healthy() bool {
	return g.consumed.Load() >= g.threshold
}

// Consumed returns the total bytes drawn over the process lifetime.
func (g *Gate) Consumed() uint64 {
	return g.consumed.Load()
}

// Threshold returns the quality threshold in bytes.
func (g *Gate) Threshold() uint64 {
	return g.threshold
}
