package gas

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

type stubSimulator struct {
	gasUsed uint64
	err     error
	calls   int
}

func (s *stubSimulator) Simulate(_ context.Context, _ ...sdk.Msg) (uint64, error) {
	s.calls++
	return s.gasUsed, s.err
}

func TestEstimatePadsAndRoundsUp(t *testing.T) {
	tests := []struct {
		gasUsed uint64
		want    uint64
	}{
		{0, 0},
		{1, 2},       // 1.3 rounds up
		{10, 13},     // exact multiple
		{1000, 1300}, // must not drift to 1301
		{99999, 129999},
		{100001, 130002}, // 130001.3 rounds up
	}
	for _, tc := range tests {
		sim := &stubSimulator{gasUsed: tc.gasUsed}
		got, err := NewEstimator(sim).Estimate(context.Background())
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "gasUsed=%d", tc.gasUsed)
	}
}

func TestEstimateCustomAdjustment(t *testing.T) {
	sim := &stubSimulator{gasUsed: 1000}
	est := NewEstimatorWithAdjustment(sim, math.LegacyNewDecWithPrec(15, 1))
	got, err := est.Estimate(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1500), got)

	// Non-positive adjustment falls back to the default.
	est = NewEstimatorWithAdjustment(sim, math.LegacyZeroDec())
	got, err = est.Estimate(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1300), got)
}

func TestEstimateSurfacesSimulationError(t *testing.T) {
	wantErr := errors.New("account xyz does not exist on chain")
	sim := &stubSimulator{err: wantErr}

	_, err := NewEstimator(sim).Estimate(context.Background())
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 1, sim.calls)
}
