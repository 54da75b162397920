package proposal

import (
	"fmt"
	"strings"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/gogoproto/proto"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	paramsproposal "github.com/cosmos/cosmos-sdk/x/params/types/proposal"

	"github.com/agoric-labs/govtx/internal/swingset"
)

// Default chain parameters for the Agoric mainnet.
const (
	DefaultPrefix     = "agoric"
	DefaultBondDenom  = "ubld"
	DefaultSpendDenom = "uist"
)

// Builder turns proposals into signable messages. Chain parameters are
// explicit configuration rather than process-global state so independent
// builders can target different chains.
type Builder struct {
	// Prefix is the bech32 account prefix proposer and recipient
	// addresses must carry.
	Prefix string
	// BondDenom is the minimal denomination for proposal deposits.
	BondDenom string
	// SpendDenom is the minimal denomination for community pool amounts.
	SpendDenom string
}

// NewBuilder creates a Builder with the default chain parameters.
func NewBuilder() Builder {
	return Builder{
		Prefix:     DefaultPrefix,
		BondDenom:  DefaultBondDenom,
		SpendDenom: DefaultSpendDenom,
	}
}

// Build maps a proposal plus proposer address and optional deposit into the
// messages to sign. The deposit is a display-unit string; empty, non-numeric
// or non-positive values mean no deposit.
func (b Builder) Build(p Proposal, proposer, deposit string) ([]sdk.Msg, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := b.checkAddress(proposer); err != nil {
		return nil, fmt.Errorf("%w: proposer %v", ErrValidation, err)
	}
	initialDeposit := parseDeposit(deposit, b.BondDenom)

	switch p.Kind {
	case KindText:
		return b.buildText(*p.Text, proposer, initialDeposit)
	case KindParameterChange:
		return b.buildParameterChange(*p.ParameterChange, proposer, initialDeposit)
	case KindCoreEval:
		return b.buildCoreEval(*p.CoreEval, proposer, initialDeposit)
	case KindInstallBundle:
		return b.buildInstallBundle(*p.InstallBundle, proposer)
	case KindCommunityPoolSpend:
		return b.buildCommunityPoolSpend(*p.CommunityPoolSpend, proposer, initialDeposit)
	case KindFundCommunityPool:
		return b.buildFundCommunityPool(*p.FundCommunityPool, proposer)
	default:
		return nil, fmt.Errorf("%w: unsupported proposal kind %s", ErrInvalidInput, p.Kind)
	}
}

func (b Builder) buildText(in TextInput, proposer string, deposit sdk.Coins) ([]sdk.Msg, error) {
	if err := requireTitle(in.Title, in.Description); err != nil {
		return nil, err
	}
	content := govv1beta1.NewTextProposal(in.Title, in.Description)
	return b.submitProposalMsg(content, proposer, deposit)
}

func (b Builder) buildParameterChange(in ParameterChangeInput, proposer string, deposit sdk.Coins) ([]sdk.Msg, error) {
	if err := requireTitle(in.Title, in.Description); err != nil {
		return nil, err
	}
	if len(in.Changes) == 0 {
		return nil, fmt.Errorf("%w: parameter change proposal requires at least one change entry", ErrInvalidInput)
	}
	changes := make([]paramsproposal.ParamChange, 0, len(in.Changes))
	for i, c := range in.Changes {
		if strings.TrimSpace(c.Subspace) == "" || strings.TrimSpace(c.Key) == "" {
			return nil, fmt.Errorf("%w: change %d requires subspace and key", ErrInvalidInput, i)
		}
		changes = append(changes, paramsproposal.NewParamChange(c.Subspace, c.Key, c.Value))
	}
	content := paramsproposal.NewParameterChangeProposal(in.Title, in.Description, changes)
	return b.submitProposalMsg(content, proposer, deposit)
}

func (b Builder) buildCoreEval(in CoreEvalInput, proposer string, deposit sdk.Coins) ([]sdk.Msg, error) {
	if err := requireTitle(in.Title, in.Description); err != nil {
		return nil, err
	}
	if len(in.Evals) == 0 {
		return nil, fmt.Errorf("%w: core eval proposal requires at least one permit/code pair", ErrInvalidInput)
	}
	content := swingset.NewCoreEvalProposal(in.Title, in.Description, in.Evals)
	if err := content.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return b.submitProposalMsg(content, proposer, deposit)
}

func (b Builder) buildInstallBundle(in InstallBundleInput, submitter string) ([]sdk.Msg, error) {
	if len(in.CompressedBundle) == 0 {
		return nil, fmt.Errorf("%w: bundle payload is empty", ErrInvalidInput)
	}
	if in.UncompressedSize <= 0 {
		return nil, fmt.Errorf("%w: uncompressed bundle size must be positive", ErrInvalidInput)
	}
	msg := swingset.NewMsgInstallBundle(submitter, in.CompressedBundle, in.UncompressedSize)
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return []sdk.Msg{msg}, nil
}

func (b Builder) buildCommunityPoolSpend(in CommunityPoolSpendInput, proposer string, deposit sdk.Coins) ([]sdk.Msg, error) {
	if err := requireTitle(in.Title, in.Description); err != nil {
		return nil, err
	}
	if err := b.checkAddress(in.Recipient); err != nil {
		return nil, fmt.Errorf("%w: recipient %v", ErrValidation, err)
	}
	amount, err := parseAmount(in.Amount, b.SpendDenom)
	if err != nil {
		return nil, err
	}
	content := &distrtypes.CommunityPoolSpendProposal{ //nolint:staticcheck // legacy gov route is what the chain accepts
		Title:       in.Title,
		Description: in.Description,
		Recipient:   in.Recipient,
		Amount:      amount,
	}
	return b.submitProposalMsg(content, proposer, deposit)
}

func (b Builder) buildFundCommunityPool(in FundCommunityPoolInput, depositor string) ([]sdk.Msg, error) {
	amount, err := parseAmount(in.Amount, b.SpendDenom)
	if err != nil {
		return nil, err
	}
	msg := &distrtypes.MsgFundCommunityPool{ //nolint:staticcheck // x/distribution route, not x/protocolpool
		Amount:    amount,
		Depositor: depositor,
	}
	return []sdk.Msg{msg}, nil
}

// submitProposalMsg wraps content into a gov v1beta1 submit message. The
// proposer string is carried verbatim to stay independent of the SDK's
// process-global bech32 configuration.
func (b Builder) submitProposalMsg(content govv1beta1.Content, proposer string, deposit sdk.Coins) ([]sdk.Msg, error) {
	contentMsg, ok := content.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("failed to pack proposal content: %T does not implement proto.Message", content)
	}
	anyContent, err := codectypes.NewAnyWithValue(contentMsg)
	if err != nil {
		return nil, fmt.Errorf("failed to pack proposal content: %w", err)
	}
	msg := &govv1beta1.MsgSubmitProposal{
		Content:        anyContent,
		InitialDeposit: deposit,
		Proposer:       proposer,
	}
	return []sdk.Msg{msg}, nil
}

func (b Builder) checkAddress(addr string) error {
	hrp, _, err := bech32.DecodeAndConvert(addr)
	if err != nil {
		return fmt.Errorf("address %q: %v", addr, err)
	}
	if hrp != b.Prefix {
		return fmt.Errorf("address %q has prefix %q, want %q", addr, hrp, b.Prefix)
	}
	return nil
}

func requireTitle(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	return nil
}
