package swingset

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/gogoproto/proto"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// TypeMsgInstallBundle is the legacy amino route for MsgInstallBundle.
const TypeMsgInstallBundle = "install_bundle"

// MsgInstallBundle carries a compressed code bundle to be installed by the
// chain's execution layer. Installation completes asynchronously after the
// transaction is included; callers confirm completion separately by watching
// the bundle feed for the matching content hash.
type MsgInstallBundle struct {
	Submitter        string `protobuf:"bytes,1,opt,name=submitter,proto3" json:"submitter,omitempty"`
	CompressedBundle []byte `protobuf:"bytes,2,opt,name=compressed_bundle,json=compressedBundle,proto3" json:"compressed_bundle,omitempty"`
	UncompressedSize int64  `protobuf:"varint,3,opt,name=uncompressed_size,json=uncompressedSize,proto3" json:"uncompressed_size,omitempty"`
}

var _ sdk.Msg = &MsgInstallBundle{}

// NewMsgInstallBundle creates an install-bundle message.
func NewMsgInstallBundle(submitter string, compressedBundle []byte, uncompressedSize int64) *MsgInstallBundle {
	return &MsgInstallBundle{
		Submitter:        submitter,
		CompressedBundle: compressedBundle,
		UncompressedSize: uncompressedSize,
	}
}

func (msg *MsgInstallBundle) Reset()         { *msg = MsgInstallBundle{} }
func (msg *MsgInstallBundle) String() string { return proto.CompactTextString(msg) }
func (*MsgInstallBundle) ProtoMessage()      {}

// ValidateBasic performs stateless checks on the message.
func (msg *MsgInstallBundle) ValidateBasic() error {
	if _, _, err := bech32.DecodeAndConvert(msg.Submitter); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid submitter address %q: %v", msg.Submitter, err)
	}
	if len(msg.CompressedBundle) == 0 {
		return ErrEmptyBundle
	}
	if msg.UncompressedSize <= 0 {
		return ErrInvalidSize
	}
	return nil
}
