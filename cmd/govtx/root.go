// Package main implements the govtx CLI: build, sign, and broadcast Agoric
// governance transactions from the command line.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/agoric-labs/govtx/internal/chain"
	"github.com/agoric-labs/govtx/internal/config"
	"github.com/agoric-labs/govtx/internal/proposal"
	"github.com/agoric-labs/govtx/internal/version"
)

// Local variables for flag binding (Cobra requires pointers to local vars)
var (
	homeDir       string
	configPath    string
	chainID       string
	grpcEndpoint  string
	grpcInsecure  bool
	restEndpoint  string
	keyName       string
	gasAdjustment string
	gasPrice      string
	depositFlag   string
	yes           bool
	verbose       bool
)

// DefaultHomeDir returns the default home directory for govtx data.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".govtx"
	}
	return filepath.Join(home, ".govtx")
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "govtx",
		Short: "Submit Agoric governance proposals from the command line",
		Long: `govtx builds, signs, and broadcasts Agoric governance transactions.

It covers the proposal types the chain's governance module accepts:
  - Plain text proposals
  - Parameter change proposals
  - SwingSet core eval proposals (JS code plus capability permits)
  - Code bundle installation, with asynchronous install confirmation
  - Community pool spends and deposits

Examples:
  # Submit a text proposal with a 50 BLD deposit
  govtx submit text --title "Upgrade vault" --description "..." --deposit 50

  # Submit a core eval
  govtx submit core-eval --title "Start PSM" --description "..." \
    --eval permits.json:proposal.js

  # Install a bundle and wait for the chain to activate it
  govtx install-bundle bundle.json --watch`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&homeDir, "home", DefaultHomeDir(), "Home directory for keyring and config")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: govtx.toml in home or current directory)")
	cmd.PersistentFlags().StringVar(&chainID, "chain-id", "", "Chain ID (overrides config)")
	cmd.PersistentFlags().StringVar(&grpcEndpoint, "grpc", "", "Node gRPC endpoint (overrides config)")
	cmd.PersistentFlags().BoolVar(&grpcInsecure, "grpc-insecure", false, "Disable TLS on the gRPC connection")
	cmd.PersistentFlags().StringVar(&restEndpoint, "rest", "", "Node REST endpoint (overrides config)")
	cmd.PersistentFlags().StringVar(&keyName, "from", "", "Name of the signing key in the keyring")
	cmd.PersistentFlags().StringVar(&gasAdjustment, "gas-adjustment", "", "Multiplier applied to simulated gas (overrides config)")
	cmd.PersistentFlags().StringVar(&gasPrice, "gas-price", "", "Gas price used to derive the fee, e.g. 0.025ubld (overrides config)")
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "Sign without asking for confirmation")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newSubmitCmd())
	cmd.AddCommand(newInstallBundleCmd())
	cmd.AddCommand(newWatchBundleCmd())
	cmd.AddCommand(version.NewVersionCmd())

	return cmd
}

// newLogger builds the diagnostic logger. User-facing progress goes through
// the notifier, not here.
func newLogger() log.Logger {
	opts := []log.Option{}
	if !verbose {
		opts = append(opts, log.FilterOption(func(key, level string) bool {
			return level == "debug"
		}))
	}
	return log.NewLogger(os.Stderr, opts...)
}

// loadConfig merges config sources and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.NewLoader(homeDir, configPath).Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("chain-id") {
		cfg.Chain.ID = chainID
	}
	if cmd.Flags().Changed("grpc") {
		cfg.Chain.GRPC = grpcEndpoint
	}
	if cmd.Flags().Changed("grpc-insecure") {
		cfg.Chain.GRPCInsecure = grpcInsecure
	}
	if cmd.Flags().Changed("rest") {
		cfg.Chain.REST = restEndpoint
	}
	if cmd.Flags().Changed("gas-adjustment") {
		cfg.Gas.Adjustment = gasAdjustment
	}
	if cmd.Flags().Changed("gas-price") {
		cfg.Gas.Price = gasPrice
	}
	return cfg, nil
}

// dial opens the chain connection for the configured key.
func dial(cmd *cobra.Command, cfg config.Config, logger log.Logger) (*chain.GRPCConnection, error) {
	if keyName == "" {
		return nil, fmt.Errorf("no signing key selected, use --from")
	}
	keyringDir := cfg.Keyring.Dir
	if keyringDir == "" {
		keyringDir = homeDir
	}
	var approver chain.Approver = newPromptApprover(cmd.OutOrStdout())
	if yes {
		approver = chain.ApproveAll{}
	}
	return chain.DialGRPC(chain.GRPCConfig{
		Endpoint:       cfg.Chain.GRPC,
		Insecure:       cfg.Chain.GRPCInsecure,
		ChainID:        cfg.Chain.ID,
		Prefix:         cfg.Chain.Prefix,
		KeyringBackend: cfg.Keyring.Backend,
		KeyringDir:     keyringDir,
		KeyName:        keyName,
		GasPrice:       cfg.Gas.Price,
		Input:          cmd.InOrStdin(),
	}, approver, logger)
}

// builderFor derives the message builder from chain config.
func builderFor(cfg config.Config) proposal.Builder {
	return proposal.Builder{
		Prefix:     cfg.Chain.Prefix,
		BondDenom:  cfg.Chain.BondDenom,
		SpendDenom: cfg.Chain.SpendDenom,
	}
}
