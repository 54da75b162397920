// Package gas sizes transaction gas limits by simulating against a live node
// and padding the result.
package gas

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultAdjustment is the multiplier applied to simulated gas usage.
var DefaultAdjustment = math.LegacyNewDecWithPrec(13, 1) // 1.3

// Simulator runs a transaction against a node without committing it and
// reports the gas it consumed.
type Simulator interface {
	Simulate(ctx context.Context, msgs ...sdk.Msg) (gasUsed uint64, err error)
}

// Estimator computes padded gas limits from simulation results.
type Estimator struct {
	sim        Simulator
	adjustment math.LegacyDec
}

// NewEstimator creates an Estimator using the default adjustment.
func NewEstimator(sim Simulator) *Estimator {
	return &Estimator{sim: sim, adjustment: DefaultAdjustment}
}

// NewEstimatorWithAdjustment creates an Estimator with a custom multiplier.
// Non-positive adjustments fall back to the default.
func NewEstimatorWithAdjustment(sim Simulator, adjustment math.LegacyDec) *Estimator {
	if adjustment.IsNil() || !adjustment.IsPositive() {
		adjustment = DefaultAdjustment
	}
	return &Estimator{sim: sim, adjustment: adjustment}
}

// Estimate simulates msgs and returns ceil(gasUsed * adjustment). The
// arithmetic is exact decimal so padding never loses a unit to binary float
// rounding.
func (e *Estimator) Estimate(ctx context.Context, msgs ...sdk.Msg) (uint64, error) {
	gasUsed, err := e.sim.Simulate(ctx, msgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to simulate transaction: %w", err)
	}
	return e.pad(gasUsed), nil
}

func (e *Estimator) pad(gasUsed uint64) uint64 {
	padded := e.adjustment.MulInt(math.NewIntFromUint64(gasUsed)).Ceil().TruncateInt()
	return padded.Uint64()
}
