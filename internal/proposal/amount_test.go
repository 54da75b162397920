package proposal

import (
	"testing"

	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

func TestParseDeposit(t *testing.T) {
	tests := []struct {
		deposit string
		want    sdk.Coins
	}{
		{"50", sdk.NewCoins(sdk.NewInt64Coin("ubld", 50_000_000))},
		{"0.000001", sdk.NewCoins(sdk.NewInt64Coin("ubld", 1))},
		{"1.5", sdk.NewCoins(sdk.NewInt64Coin("ubld", 1_500_000))},
		{"", nil},
		{"abc", nil},
		{"0", nil},
		{"-10", nil},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, parseDeposit(tc.deposit, "ubld"), "deposit %q", tc.deposit)
	}
}

func TestParseAmount(t *testing.T) {
	coins, err := parseAmount("2", "uist")
	require.NoError(t, err)
	require.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("uist", 2_000_000)), coins)

	// Sub-minimal precision truncates toward zero.
	coins, err = parseAmount("0.0000019", "uist")
	require.NoError(t, err)
	require.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("uist", 1)), coins)

	_, err = parseAmount("", "uist")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = parseAmount("many", "uist")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = parseAmount("0", "uist")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = parseAmount("-1", "uist")
	require.ErrorIs(t, err, ErrInvalidInput)
}
