// Package config loads tool configuration. Values merge in priority order:
// built-in defaults, then govtx.toml (home directory, then current directory,
// then an explicit --config path), then GOVTX_* environment variables.
package config

import "fmt"

// Config is the effective configuration after merging all sources.
type Config struct {
	Chain   ChainConfig   `toml:"chain"`
	Keyring KeyringConfig `toml:"keyring"`
	Gas     GasConfig     `toml:"gas"`
}

// ChainConfig locates the target chain.
type ChainConfig struct {
	// ID is the chain id signed into transactions.
	ID string `toml:"id"`
	// GRPC is the node's gRPC endpoint, host:port.
	GRPC string `toml:"grpc"`
	// GRPCInsecure disables TLS on the gRPC connection.
	GRPCInsecure bool `toml:"grpc_insecure"`
	// REST is the node's REST API base URL.
	REST string `toml:"rest"`
	// Prefix is the bech32 account prefix.
	Prefix string `toml:"prefix"`
	// BondDenom is the minimal denomination for deposits.
	BondDenom string `toml:"bond_denom"`
	// SpendDenom is the minimal denomination for community pool amounts.
	SpendDenom string `toml:"spend_denom"`
}

// KeyringConfig locates the signing key.
type KeyringConfig struct {
	// Backend selects the keyring implementation (os, file, test).
	Backend string `toml:"backend"`
	// Dir is the keyring's on-disk location. Empty means the home
	// directory.
	Dir string `toml:"dir"`
}

// GasConfig tunes fee computation.
type GasConfig struct {
	// Adjustment multiplies simulated gas, as a decimal string.
	Adjustment string `toml:"adjustment"`
	// Price derives fees from the gas limit, e.g. "0.025ubld". Empty
	// means zero fee.
	Price string `toml:"price"`
}

// DefaultConfig targets a local Agoric node.
func DefaultConfig() Config {
	return Config{
		Chain: ChainConfig{
			ID:           "agoric-3",
			GRPC:         "localhost:9090",
			GRPCInsecure: true,
			REST:         "http://localhost:1317",
			Prefix:       "agoric",
			BondDenom:    "ubld",
			SpendDenom:   "uist",
		},
		Keyring: KeyringConfig{
			Backend: "test",
		},
		Gas: GasConfig{
			Adjustment: "1.3",
		},
	}
}

// Validate checks the merged configuration.
func (c Config) Validate() error {
	if c.Chain.ID == "" {
		return fmt.Errorf("chain id must not be empty")
	}
	if c.Chain.GRPC == "" {
		return fmt.Errorf("chain gRPC endpoint must not be empty")
	}
	if c.Chain.Prefix == "" {
		return fmt.Errorf("bech32 prefix must not be empty")
	}
	if c.Chain.BondDenom == "" || c.Chain.SpendDenom == "" {
		return fmt.Errorf("bond and spend denominations must not be empty")
	}
	switch c.Keyring.Backend {
	case "os", "file", "test", "kwallet", "pass", "memory":
	default:
		return fmt.Errorf("invalid keyring backend: %s", c.Keyring.Backend)
	}
	return nil
}
