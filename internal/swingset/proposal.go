// Package swingset defines the chain-side message types for core eval
// governance proposals and bundle installation. The types are wire-compatible
// with the swingset module's protobuf definitions so they can be packed into
// Any values and submitted through the standard gov message route.
package swingset

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/gogoproto/proto"

	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
)

const (
	// RouterKey routes core eval proposals to the swingset gov handler.
	RouterKey = ModuleName

	// ProposalTypeCoreEval is the gov proposal type for core evals.
	ProposalTypeCoreEval = "CoreEval"
)

// CoreEval is a single permit/code pair evaluated in the chain's core
// compartment when the enclosing proposal passes.
type CoreEval struct {
	// JSONPermits grants the capabilities the code may exercise.
	JSONPermits string `protobuf:"bytes,1,opt,name=json_permits,json=jsonPermits,proto3" json:"json_permits,omitempty" yaml:"json_permits"`
	// JSCode is the script to evaluate.
	JSCode string `protobuf:"bytes,2,opt,name=js_code,json=jsCode,proto3" json:"js_code,omitempty" yaml:"js_code"`
}

func (ce *CoreEval) Reset()         { *ce = CoreEval{} }
func (ce *CoreEval) String() string { return proto.CompactTextString(ce) }
func (*CoreEval) ProtoMessage()     {}

// CoreEvalProposal is a gov proposal content carrying one or more core evals.
type CoreEvalProposal struct {
	Title       string     `protobuf:"bytes,1,opt,name=title,proto3" json:"title,omitempty"`
	Description string     `protobuf:"bytes,2,opt,name=description,proto3" json:"description,omitempty"`
	Evals       []CoreEval `protobuf:"bytes,3,rep,name=evals,proto3" json:"evals"`
}

var _ govv1beta1.Content = &CoreEvalProposal{}

// NewCoreEvalProposal creates a core eval proposal content.
func NewCoreEvalProposal(title, description string, evals []CoreEval) *CoreEvalProposal {
	return &CoreEvalProposal{
		Title:       title,
		Description: description,
		Evals:       evals,
	}
}

func (p *CoreEvalProposal) Reset()         { *p = CoreEvalProposal{} }
func (p *CoreEvalProposal) String() string { return proto.CompactTextString(p) }
func (*CoreEvalProposal) ProtoMessage()    {}

func (p *CoreEvalProposal) GetTitle() string       { return p.Title }
func (p *CoreEvalProposal) GetDescription() string { return p.Description }
func (*CoreEvalProposal) ProposalRoute() string    { return RouterKey }
func (*CoreEvalProposal) ProposalType() string     { return ProposalTypeCoreEval }

// ValidateBasic checks the proposal carries at least one complete eval.
func (p *CoreEvalProposal) ValidateBasic() error {
	if err := govv1beta1.ValidateAbstract(p); err != nil {
		return err
	}
	if len(p.Evals) == 0 {
		return ErrNoEvals
	}
	for i, ev := range p.Evals {
		if strings.TrimSpace(ev.JSONPermits) == "" {
			return errorsmod.Wrap(ErrIncompleteEval, fmt.Sprintf("eval %d is missing permits", i))
		}
		if strings.TrimSpace(ev.JSCode) == "" {
			return errorsmod.Wrap(ErrIncompleteEval, fmt.Sprintf("eval %d is missing code", i))
		}
	}
	return nil
}
