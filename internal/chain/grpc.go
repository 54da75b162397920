package chain

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/client"
	clienttx "github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	paramsproposal "github.com/cosmos/cosmos-sdk/x/params/types/proposal"

	"github.com/agoric-labs/govtx/internal/swingset"
)

// GRPCConfig describes how to reach a node and which key signs.
type GRPCConfig struct {
	// Endpoint is the node's gRPC address, host:port.
	Endpoint string
	// Insecure disables TLS on the gRPC connection.
	Insecure bool
	// ChainID is the chain identity signed into every transaction.
	ChainID string
	// Prefix is the bech32 account prefix for this chain.
	Prefix string
	// KeyringBackend selects the keyring implementation (os, file, test).
	KeyringBackend string
	// KeyringDir is the keyring's on-disk location.
	KeyringDir string
	// KeyName names the signing key within the keyring.
	KeyName string
	// GasPrice, when set, derives the fee from the gas limit, e.g.
	// "0.025ubld".
	GasPrice string
	// Input feeds keyring passphrase prompts. Defaults to no input.
	Input io.Reader
}

// GRPCConnection talks to a node over gRPC and signs with a local keyring.
type GRPCConnection struct {
	cfg      GRPCConfig
	conn     *grpc.ClientConn
	cdc      codec.Codec
	txConfig client.TxConfig
	kr       keyring.Keyring
	gasPrice *sdk.DecCoin
	approver Approver
	logger   log.Logger
}

// DialGRPC establishes a connection to the node and opens the keyring.
func DialGRPC(cfg GRPCConfig, approver Approver, logger log.Logger) (*GRPCConnection, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: no gRPC endpoint configured", ErrNotConnected)
	}
	if approver == nil {
		approver = ApproveAll{}
	}

	creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	}
	conn, err := grpc.NewClient(cfg.Endpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.Endpoint, err)
	}

	cdc := newCodec()
	txConfig := authtx.NewTxConfig(cdc, authtx.DefaultSignModes)

	input := cfg.Input
	if input == nil {
		input = strings.NewReader("")
	}
	kr, err := keyring.New("govtx", cfg.KeyringBackend, cfg.KeyringDir, input, cdc)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	var gasPrice *sdk.DecCoin
	if cfg.GasPrice != "" {
		price, err := sdk.ParseDecCoin(cfg.GasPrice)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to parse gas price %q: %w", cfg.GasPrice, err)
		}
		gasPrice = &price
	}

	return &GRPCConnection{
		cfg:      cfg,
		conn:     conn,
		cdc:      cdc,
		txConfig: txConfig,
		kr:       kr,
		gasPrice: gasPrice,
		approver: approver,
		logger:   logger.With("component", "chain"),
	}, nil
}

// newCodec builds the proto codec with every message type the pipeline can
// emit registered.
func newCodec() codec.Codec {
	registry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	govv1beta1.RegisterInterfaces(registry)
	distrtypes.RegisterInterfaces(registry)
	swingset.RegisterInterfaces(registry)
	registry.RegisterImplementations(
		(*govv1beta1.Content)(nil),
		&paramsproposal.ParameterChangeProposal{},
	)
	return codec.NewProtoCodec(registry)
}

// Close releases the gRPC connection.
func (c *GRPCConnection) Close() error {
	return c.conn.Close()
}

// Address resolves the configured key name to its bech32 address under the
// chain's prefix.
func (c *GRPCConnection) Address() (string, error) {
	record, err := c.kr.Key(c.cfg.KeyName)
	if err != nil {
		return "", fmt.Errorf("failed to load key %q: %w", c.cfg.KeyName, err)
	}
	addr, err := record.GetAddress()
	if err != nil {
		return "", fmt.Errorf("failed to derive address for key %q: %w", c.cfg.KeyName, err)
	}
	return bech32.ConvertAndEncode(c.cfg.Prefix, addr)
}

// AccountExists implements Connection.
func (c *GRPCConnection) AccountExists(ctx context.Context, address string) (bool, error) {
	_, _, err := c.accountInfo(ctx, address)
	switch {
	case err == nil:
		return true, nil
	case status.Code(err) == codes.NotFound,
		strings.Contains(err.Error(), "not found"),
		strings.Contains(err.Error(), "does not exist"):
		return false, nil
	default:
		return false, err
	}
}

// Simulate implements Connection.
func (c *GRPCConnection) Simulate(ctx context.Context, msgs ...sdk.Msg) (uint64, error) {
	txf, err := c.factory(ctx)
	if err != nil {
		return 0, err
	}
	txBytes, err := txf.BuildSimTx(msgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to build simulation transaction: %w", err)
	}
	res, err := txtypes.NewServiceClient(c.conn).Simulate(ctx, &txtypes.SimulateRequest{TxBytes: txBytes})
	if err != nil {
		return 0, fmt.Errorf("failed to simulate transaction: %w", err)
	}
	return res.GasInfo.GasUsed, nil
}

// SignAndBroadcast implements Connection.
func (c *GRPCConnection) SignAndBroadcast(ctx context.Context, msgs []sdk.Msg, fee Fee) (*TxResult, error) {
	txf, err := c.factory(ctx)
	if err != nil {
		return nil, err
	}

	builder, err := txf.BuildUnsignedTx(msgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	builder.SetGasLimit(fee.Gas)

	amount := fee.Amount
	if amount.IsZero() && c.gasPrice != nil {
		amount = c.feeFromPrice(fee.Gas)
	}
	builder.SetFeeAmount(amount)

	ok, err := c.approver.Approve(summarize(msgs, fee.Gas, amount))
	if err != nil {
		return nil, fmt.Errorf("failed to confirm signing: %w", err)
	}
	if !ok {
		return nil, ErrUserRejected
	}

	if err := clienttx.Sign(ctx, txf, c.cfg.KeyName, builder, true); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	txBytes, err := c.txConfig.TxEncoder()(builder.GetTx())
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	svc := txtypes.NewServiceClient(c.conn)
	res, err := svc.BroadcastTx(ctx, &txtypes.BroadcastTxRequest{
		TxBytes: txBytes,
		Mode:    txtypes.BroadcastMode_BROADCAST_MODE_SYNC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast transaction: %w", err)
	}
	resp := res.TxResponse
	if resp.Code != 0 {
		// Rejected during CheckTx; never entered a block.
		return &TxResult{TxHash: resp.TxHash, Code: resp.Code, RawLog: resp.RawLog}, nil
	}

	c.logger.Debug("transaction accepted by mempool", "tx_hash", resp.TxHash)
	return c.waitInclusion(ctx, svc, resp.TxHash)
}

// waitInclusion polls the node until the transaction lands in a block.
func (c *GRPCConnection) waitInclusion(ctx context.Context, svc txtypes.ServiceClient, txHash string) (*TxResult, error) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("transaction %s not included before deadline: %w", txHash, ctx.Err())
		case <-ticker.C:
		}

		res, err := svc.GetTx(ctx, &txtypes.GetTxRequest{Hash: txHash})
		if err != nil {
			if status.Code(err) == codes.NotFound || strings.Contains(err.Error(), "not found") {
				continue
			}
			return nil, fmt.Errorf("failed to query transaction %s: %w", txHash, err)
		}

		resp := res.TxResponse
		return &TxResult{
			TxHash: resp.TxHash,
			Code:   resp.Code,
			RawLog: resp.RawLog,
			Height: resp.Height,
			Events: resp.Events,
		}, nil
	}
}

func (c *GRPCConnection) factory(ctx context.Context) (clienttx.Factory, error) {
	address, err := c.Address()
	if err != nil {
		return clienttx.Factory{}, err
	}
	accNum, seq, err := c.accountInfo(ctx, address)
	if err != nil {
		return clienttx.Factory{}, err
	}
	txf := clienttx.Factory{}.
		WithChainID(c.cfg.ChainID).
		WithTxConfig(c.txConfig).
		WithKeybase(c.kr).
		WithFromName(c.cfg.KeyName).
		WithAccountNumber(accNum).
		WithSequence(seq).
		WithSignMode(signing.SignMode_SIGN_MODE_DIRECT)
	return txf, nil
}

func (c *GRPCConnection) accountInfo(ctx context.Context, address string) (accNum, seq uint64, err error) {
	res, err := authtypes.NewQueryClient(c.conn).Account(ctx, &authtypes.QueryAccountRequest{Address: address})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query account %s: %w", address, err)
	}
	var account sdk.AccountI
	if err := c.cdc.UnpackAny(res.Account, &account); err != nil {
		return 0, 0, fmt.Errorf("failed to decode account %s: %w", address, err)
	}
	return account.GetAccountNumber(), account.GetSequence(), nil
}

// feeFromPrice computes ceil(gas * price) in the price's denom.
func (c *GRPCConnection) feeFromPrice(gas uint64) sdk.Coins {
	amount := c.gasPrice.Amount.MulInt(math.NewIntFromUint64(gas)).Ceil().TruncateInt()
	return sdk.NewCoins(sdk.NewCoin(c.gasPrice.Denom, amount))
}

func summarize(msgs []sdk.Msg, gas uint64, fee sdk.Coins) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sign transaction with %d message(s):\n", len(msgs))
	for _, msg := range msgs {
		fmt.Fprintf(&b, "  %s\n", sdk.MsgTypeURL(msg))
	}
	fmt.Fprintf(&b, "Gas limit: %d, fee: %s", gas, fee)
	return b.String()
}
