// Package proposal maps validated governance form input into chain-encodable
// messages. Builders are pure: no network or keyring access, deterministic
// output for a given input.
package proposal

import (
	"errors"
	"fmt"

	"github.com/agoric-labs/govtx/internal/swingset"
)

var (
	// ErrValidation reports a malformed proposer or recipient address.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidInput reports missing or malformed proposal fields.
	ErrInvalidInput = errors.New("invalid proposal input")
)

// Kind discriminates the supported proposal variants.
type Kind int

const (
	KindUnspecified Kind = iota
	KindText
	KindParameterChange
	KindCoreEval
	KindInstallBundle
	KindCommunityPoolSpend
	KindFundCommunityPool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindParameterChange:
		return "parameter-change"
	case KindCoreEval:
		return "core-eval"
	case KindInstallBundle:
		return "install-bundle"
	case KindCommunityPoolSpend:
		return "community-pool-spend"
	case KindFundCommunityPool:
		return "fund-community-pool"
	default:
		return "unspecified"
	}
}

// TextInput is the payload for a plain text proposal.
type TextInput struct {
	Title       string
	Description string
}

// ParamChange is a single subspace/key/value change entry.
type ParamChange struct {
	Subspace string
	Key      string
	Value    string
}

// ParameterChangeInput is the payload for a parameter change proposal.
type ParameterChangeInput struct {
	Title       string
	Description string
	Changes     []ParamChange
}

// CoreEvalInput is the payload for a core eval proposal.
type CoreEvalInput struct {
	Title       string
	Description string
	Evals       []swingset.CoreEval
}

// InstallBundleInput is the payload for a bundle installation.
type InstallBundleInput struct {
	CompressedBundle []byte
	UncompressedSize int64
}

// CommunityPoolSpendInput is the payload for a community pool spend proposal.
// Amount is in display units and is scaled into the minimal denomination.
type CommunityPoolSpendInput struct {
	Title       string
	Description string
	Recipient   string
	Amount      string
}

// FundCommunityPoolInput is the payload for a direct community pool deposit.
type FundCommunityPoolInput struct {
	Amount string
}

// Proposal is a tagged union over the supported proposal variants. Exactly
// one variant matching Kind must be populated; Validate enforces this.
type Proposal struct {
	Kind Kind

	Text               *TextInput
	ParameterChange    *ParameterChangeInput
	CoreEval           *CoreEvalInput
	InstallBundle      *InstallBundleInput
	CommunityPoolSpend *CommunityPoolSpendInput
	FundCommunityPool  *FundCommunityPoolInput
}

// Validate checks that exactly one variant is populated and that it matches
// the discriminant.
func (p Proposal) Validate() error {
	populated := 0
	var match bool
	for _, v := range []struct {
		kind Kind
		set  bool
	}{
		{KindText, p.Text != nil},
		{KindParameterChange, p.ParameterChange != nil},
		{KindCoreEval, p.CoreEval != nil},
		{KindInstallBundle, p.InstallBundle != nil},
		{KindCommunityPoolSpend, p.CommunityPoolSpend != nil},
		{KindFundCommunityPool, p.FundCommunityPool != nil},
	} {
		if v.set {
			populated++
			if v.kind == p.Kind {
				match = true
			}
		}
	}
	if populated != 1 {
		return fmt.Errorf("%w: expected exactly one populated variant, got %d", ErrInvalidInput, populated)
	}
	if !match {
		return fmt.Errorf("%w: populated variant does not match kind %s", ErrInvalidInput, p.Kind)
	}
	return nil
}

// NewText creates a text proposal.
func NewText(title, description string) Proposal {
	return Proposal{Kind: KindText, Text: &TextInput{Title: title, Description: description}}
}

// NewParameterChange creates a parameter change proposal.
func NewParameterChange(title, description string, changes []ParamChange) Proposal {
	return Proposal{Kind: KindParameterChange, ParameterChange: &ParameterChangeInput{
		Title:       title,
		Description: description,
		Changes:     changes,
	}}
}

// NewCoreEval creates a core eval proposal.
func NewCoreEval(title, description string, evals []swingset.CoreEval) Proposal {
	return Proposal{Kind: KindCoreEval, CoreEval: &CoreEvalInput{
		Title:       title,
		Description: description,
		Evals:       evals,
	}}
}

// NewInstallBundle creates a bundle installation.
func NewInstallBundle(compressedBundle []byte, uncompressedSize int64) Proposal {
	return Proposal{Kind: KindInstallBundle, InstallBundle: &InstallBundleInput{
		CompressedBundle: compressedBundle,
		UncompressedSize: uncompressedSize,
	}}
}

// NewCommunityPoolSpend creates a community pool spend proposal.
func NewCommunityPoolSpend(title, description, recipient, amount string) Proposal {
	return Proposal{Kind: KindCommunityPoolSpend, CommunityPoolSpend: &CommunityPoolSpendInput{
		Title:       title,
		Description: description,
		Recipient:   recipient,
		Amount:      amount,
	}}
}

// NewFundCommunityPool creates a direct community pool deposit.
func NewFundCommunityPool(amount string) Proposal {
	return Proposal{Kind: KindFundCommunityPool, FundCommunityPool: &FundCommunityPoolInput{Amount: amount}}
}
