package proposal

import (
	"testing"

	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	paramsproposal "github.com/cosmos/cosmos-sdk/x/params/types/proposal"

	"github.com/agoric-labs/govtx/internal/swingset"
)

func testAddress(t *testing.T, prefix string, seed byte) string {
	t.Helper()
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = seed
	}
	addr, err := bech32.ConvertAndEncode(prefix, raw)
	require.NoError(t, err)
	return addr
}

func submitMsg(t *testing.T, msgs []sdk.Msg) *govv1beta1.MsgSubmitProposal {
	t.Helper()
	require.Len(t, msgs, 1)
	msg, ok := msgs[0].(*govv1beta1.MsgSubmitProposal)
	require.True(t, ok, "expected MsgSubmitProposal, got %T", msgs[0])
	return msg
}

func TestBuildText(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 1)

	msgs, err := b.Build(NewText("Adjust voting period", "Lower it to 3 days."), proposer, "50")
	require.NoError(t, err)

	msg := submitMsg(t, msgs)
	require.Equal(t, proposer, msg.Proposer)
	require.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("ubld", 50_000_000)), msg.InitialDeposit)

	content, ok := msg.Content.GetCachedValue().(*govv1beta1.TextProposal)
	require.True(t, ok)
	require.Equal(t, "Adjust voting period", content.Title)
	require.Equal(t, "Lower it to 3 days.", content.Description)
}

func TestBuildTextNoDeposit(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 1)

	for _, deposit := range []string{"", "abc", "0", "-3"} {
		msgs, err := b.Build(NewText("T", "D"), proposer, deposit)
		require.NoError(t, err, "deposit %q", deposit)
		require.Empty(t, submitMsg(t, msgs).InitialDeposit, "deposit %q", deposit)
	}
}

func TestBuildTextMissingFields(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 1)

	_, err := b.Build(NewText("", "D"), proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = b.Build(NewText("T", "  "), proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildRejectsBadProposer(t *testing.T) {
	b := NewBuilder()

	_, err := b.Build(NewText("T", "D"), "not-bech32", "")
	require.ErrorIs(t, err, ErrValidation)

	// Valid bech32, wrong prefix.
	_, err = b.Build(NewText("T", "D"), testAddress(t, "cosmos", 1), "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestBuildParameterChange(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 2)

	p := NewParameterChange("Raise block size", "More room.", []ParamChange{
		{Subspace: "baseapp", Key: "BlockParams", Value: `{"max_bytes":"4194304"}`},
	})
	msgs, err := b.Build(p, proposer, "1")
	require.NoError(t, err)

	content, ok := submitMsg(t, msgs).Content.GetCachedValue().(*paramsproposal.ParameterChangeProposal)
	require.True(t, ok)
	require.Len(t, content.Changes, 1)
	require.Equal(t, "baseapp", content.Changes[0].Subspace)
	require.Equal(t, "BlockParams", content.Changes[0].Key)
}

func TestBuildParameterChangeRequiresChanges(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 2)

	_, err := b.Build(NewParameterChange("T", "D", nil), proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = b.Build(NewParameterChange("T", "D", []ParamChange{{Key: "K", Value: "V"}}), proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildCoreEval(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 3)

	p := NewCoreEval("Start PSM", "Launch the parity stability module.", []swingset.CoreEval{
		{JSONPermits: `{"consume":{"zoe":true}}`, JSCode: "harden(() => {})"},
	})
	msgs, err := b.Build(p, proposer, "25")
	require.NoError(t, err)

	content, ok := submitMsg(t, msgs).Content.GetCachedValue().(*swingset.CoreEvalProposal)
	require.True(t, ok)
	require.Equal(t, "Start PSM", content.Title)
	require.Len(t, content.Evals, 1)
}

func TestBuildCoreEvalIncomplete(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 3)

	_, err := b.Build(NewCoreEval("T", "D", nil), proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = b.Build(NewCoreEval("T", "D", []swingset.CoreEval{{JSCode: "() => {}"}}), proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildInstallBundle(t *testing.T) {
	b := NewBuilder()
	submitter := testAddress(t, "agoric", 4)

	msgs, err := b.Build(NewInstallBundle([]byte{0x1f, 0x8b}, 2048), submitter, "")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	msg, ok := msgs[0].(*swingset.MsgInstallBundle)
	require.True(t, ok)
	require.Equal(t, submitter, msg.Submitter)
	require.Equal(t, int64(2048), msg.UncompressedSize)
}

func TestBuildInstallBundleRejectsEmpty(t *testing.T) {
	b := NewBuilder()
	submitter := testAddress(t, "agoric", 4)

	_, err := b.Build(NewInstallBundle(nil, 2048), submitter, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = b.Build(NewInstallBundle([]byte{0x1f}, 0), submitter, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildCommunityPoolSpend(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 5)
	recipient := testAddress(t, "agoric", 6)

	p := NewCommunityPoolSpend("Fund audits", "Pay the auditors.", recipient, "1500.5")
	msgs, err := b.Build(p, proposer, "10")
	require.NoError(t, err)

	content, ok := submitMsg(t, msgs).Content.GetCachedValue().(*distrtypes.CommunityPoolSpendProposal)
	require.True(t, ok)
	require.Equal(t, recipient, content.Recipient)
	require.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("uist", 1_500_500_000)), content.Amount)
}

func TestBuildCommunityPoolSpendBadInput(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 5)
	recipient := testAddress(t, "agoric", 6)

	_, err := b.Build(NewCommunityPoolSpend("T", "D", "bogus", "10"), proposer, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = b.Build(NewCommunityPoolSpend("T", "D", recipient, "ten"), proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = b.Build(NewCommunityPoolSpend("T", "D", recipient, "0"), proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildFundCommunityPool(t *testing.T) {
	b := NewBuilder()
	depositor := testAddress(t, "agoric", 7)

	msgs, err := b.Build(NewFundCommunityPool("0.25"), depositor, "")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	msg, ok := msgs[0].(*distrtypes.MsgFundCommunityPool)
	require.True(t, ok)
	require.Equal(t, depositor, msg.Depositor)
	require.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("uist", 250_000)), msg.Amount)
}

func TestBuildRejectsMismatchedVariant(t *testing.T) {
	b := NewBuilder()
	proposer := testAddress(t, "agoric", 1)

	// Kind says text but the parameter change variant is populated.
	p := Proposal{Kind: KindText, ParameterChange: &ParameterChangeInput{Title: "T", Description: "D"}}
	_, err := b.Build(p, proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	// Two variants populated.
	p = NewText("T", "D")
	p.FundCommunityPool = &FundCommunityPoolInput{Amount: "1"}
	_, err = b.Build(p, proposer, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}
