package proposal

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// unitScale converts display units into the chain's minimal denomination
// (six decimal places for both BLD and IST).
const unitScale = 1_000_000

// parseDeposit converts a display-unit deposit string into coins in the
// minimal bond denomination. Non-numeric or non-positive input means "no
// deposit", not an error.
func parseDeposit(deposit, denom string) sdk.Coins {
	amt, err := scaleAmount(deposit)
	if err != nil || !amt.IsPositive() {
		return nil
	}
	return sdk.NewCoins(sdk.NewCoin(denom, amt))
}

// parseAmount converts a display-unit amount string into coins in the given
// minimal denomination. Unlike deposits, a missing or non-positive amount is
// an input error.
func parseAmount(amount, denom string) (sdk.Coins, error) {
	amt, err := scaleAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q is not numeric", ErrInvalidInput, amount)
	}
	if !amt.IsPositive() {
		return nil, fmt.Errorf("%w: amount %q must be positive", ErrInvalidInput, amount)
	}
	return sdk.NewCoins(sdk.NewCoin(denom, amt)), nil
}

func scaleAmount(s string) (math.Int, error) {
	dec, err := math.LegacyNewDecFromStr(strings.TrimSpace(s))
	if err != nil {
		return math.Int{}, err
	}
	return dec.MulInt64(unitScale).TruncateInt(), nil
}
