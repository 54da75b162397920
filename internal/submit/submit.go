// Package submit sequences a governance submission end to end: estimate gas,
// sign, broadcast, wait for inclusion, and report the outcome through a
// single notification.
package submit

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/google/uuid"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/agoric-labs/govtx/internal/chain"
	"github.com/agoric-labs/govtx/internal/classify"
	"github.com/agoric-labs/govtx/internal/gas"
	"github.com/agoric-labs/govtx/internal/notify"
)

// State tracks one submission through its lifecycle.
type State int

const (
	StateIdle State = iota
	StateEstimating
	StateSigning
	StateBroadcasting
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEstimating:
		return "estimating"
	case StateSigning:
		return "signing"
	case StateBroadcasting:
		return "broadcasting"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// StageError reports which stage a submission failed in.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("submission failed while %s: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Receipt is the outcome of a confirmed submission.
type Receipt struct {
	// CorrelationID keys the submission's notification.
	CorrelationID string
	TxHash        string
	Height        int64
	// GasLimit is the padded limit the transaction carried.
	GasLimit uint64
	// ProposalID is set when the transaction emitted a submit_proposal
	// event; zero otherwise (e.g. fund-pool and bundle installs).
	ProposalID uint64
}

// Config holds submission tunables.
type Config struct {
	// GasAdjustment multiplies simulated gas. Zero means the default 1.3.
	GasAdjustment math.LegacyDec
}

// Orchestrator drives submissions against one chain connection. Independent
// submissions may run concurrently; each carries its own correlation id and
// its own notification.
type Orchestrator struct {
	conn      chain.Connection
	estimator *gas.Estimator
	notifier  notify.Notifier
	logger    log.Logger
}

// NewOrchestrator creates an Orchestrator. A nil conn is allowed; Submit
// then fails with chain.ErrNotConnected before touching the notifier.
func NewOrchestrator(conn chain.Connection, notifier notify.Notifier, cfg Config, logger log.Logger) *Orchestrator {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	o := &Orchestrator{
		conn:     conn,
		notifier: notifier,
		logger:   logger.With("component", "submit"),
	}
	if conn != nil {
		o.estimator = gas.NewEstimatorWithAdjustment(conn, cfg.GasAdjustment)
	}
	return o
}

// Submit runs the full pipeline for msgs. Failures are classified into a
// user-facing notification and returned as a *StageError naming the stage
// that failed. No stage is retried; resubmission is a fresh Submit call.
func (o *Orchestrator) Submit(ctx context.Context, msgs []sdk.Msg) (*Receipt, error) {
	if o.conn == nil {
		return nil, chain.ErrNotConnected
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("no messages to submit")
	}

	id := uuid.NewString()
	o.logger.Debug("starting submission", "correlation_id", id, "msgs", len(msgs))

	o.notifier.Loading(id, "Estimating transaction fees...")
	gasLimit, err := o.estimator.Estimate(ctx, msgs...)
	if err != nil {
		return nil, o.fail(id, StateEstimating, err)
	}

	o.notifier.Loading(id, "Awaiting signature and broadcasting...")
	result, err := o.conn.SignAndBroadcast(ctx, msgs, chain.AutoFee(gasLimit))
	if err != nil {
		if errors.Is(err, chain.ErrUserRejected) {
			return nil, o.fail(id, StateSigning, err)
		}
		return nil, o.fail(id, StateBroadcasting, err)
	}
	if result == nil {
		return nil, o.fail(id, StateBroadcasting, fmt.Errorf("broadcast returned no result"))
	}
	if execErr := result.Err(); execErr != nil {
		return nil, o.fail(id, StateBroadcasting, execErr)
	}

	receipt := &Receipt{
		CorrelationID: id,
		TxHash:        result.TxHash,
		Height:        result.Height,
		GasLimit:      gasLimit,
	}
	if proposalID, ok := proposalIDFromEvents(result.Events); ok {
		receipt.ProposalID = proposalID
		o.notifier.Success(id, fmt.Sprintf("Proposal %d submitted", proposalID))
	} else {
		o.notifier.Success(id, fmt.Sprintf("Transaction %s confirmed", result.TxHash))
	}

	o.logger.Info("submission confirmed",
		"correlation_id", id,
		"tx_hash", receipt.TxHash,
		"height", receipt.Height,
		"proposal_id", receipt.ProposalID,
	)
	return receipt, nil
}

func (o *Orchestrator) fail(id string, state State, err error) error {
	o.logger.Error("submission failed", "correlation_id", id, "state", state.String(), "error", err)
	o.notifier.Error(id, classify.Classify(err).UserMessage())
	return &StageError{State: state, Err: err}
}
