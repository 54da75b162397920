// Package chain provides the link to an Agoric node: account queries,
// transaction simulation, and signing plus broadcast over gRPC.
package chain

import (
	"context"
	"errors"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	// ErrNotConnected reports an operation attempted without an established
	// chain connection.
	ErrNotConnected = errors.New("not connected to chain")
	// ErrUserRejected reports that the user declined to sign the
	// transaction.
	ErrUserRejected = errors.New("transaction rejected by user")
)

// Fee carries the gas limit and fee coins for a transaction. A zero Amount
// with GasPrice configured on the connection means the fee is derived from
// the gas limit.
type Fee struct {
	Gas    uint64
	Amount sdk.Coins
}

// AutoFee returns a Fee with only the gas limit set; the fee amount is
// computed from the connection's configured gas price.
func AutoFee(gas uint64) Fee {
	return Fee{Gas: gas}
}

// ManualFee returns a Fee with an explicit amount.
func ManualFee(gas uint64, amount sdk.Coins) Fee {
	return Fee{Gas: gas, Amount: amount}
}

// TxResult is the outcome of a broadcast transaction after inclusion in a
// block.
type TxResult struct {
	TxHash string
	Code   uint32
	RawLog string
	Height int64
	Events []abci.Event
}

// Err returns a non-nil error when the transaction was included but failed
// execution.
func (r *TxResult) Err() error {
	if r.Code == 0 {
		return nil
	}
	return fmt.Errorf("transaction failed with code %d: %s", r.Code, r.RawLog)
}

// Connection is the node-facing surface the submission pipeline depends on.
type Connection interface {
	// AccountExists reports whether the address has ever been seen by the
	// chain.
	AccountExists(ctx context.Context, address string) (bool, error)
	// Simulate dry-runs msgs and returns the gas consumed.
	Simulate(ctx context.Context, msgs ...sdk.Msg) (uint64, error)
	// SignAndBroadcast signs msgs with the connection's key, broadcasts
	// the transaction, and waits for block inclusion. A declined signing
	// approval returns ErrUserRejected.
	SignAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee Fee) (*TxResult, error)
}

// Approver is consulted before signing. It stands between message
// construction and the key so the holder confirms what is about to be signed.
type Approver interface {
	Approve(summary string) (bool, error)
}

// ApproveAll signs everything without asking. Useful for tests and for
// non-interactive use behind an explicit flag.
type ApproveAll struct{}

func (ApproveAll) Approve(string) (bool, error) { return true, nil }
