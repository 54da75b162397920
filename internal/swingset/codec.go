package swingset

import (
	"github.com/cosmos/gogoproto/proto"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
)

func init() {
	proto.RegisterType((*CoreEval)(nil), "agoric.swingset.CoreEval")
	proto.RegisterType((*CoreEvalProposal)(nil), "agoric.swingset.CoreEvalProposal")
	proto.RegisterType((*MsgInstallBundle)(nil), "agoric.swingset.MsgInstallBundle")
}

// RegisterInterfaces registers the swingset message types with the interface
// registry so they can be packed into and unpacked from Any values.
func RegisterInterfaces(registry codectypes.InterfaceRegistry) {
	registry.RegisterImplementations(
		(*sdk.Msg)(nil),
		&MsgInstallBundle{},
	)
	registry.RegisterImplementations(
		(*govv1beta1.Content)(nil),
		&CoreEvalProposal{},
	)
}
