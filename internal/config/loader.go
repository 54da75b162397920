package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the per-user and per-directory config file name.
const ConfigFileName = "govtx.toml"

// Loader merges configuration sources.
type Loader struct {
	homeDir    string
	configPath string // explicit --config path
}

// NewLoader creates a Loader. homeDir is the tool's home directory;
// configPath, when non-empty, is an explicit config file that must exist.
func NewLoader(homeDir, configPath string) *Loader {
	return &Loader{homeDir: homeDir, configPath: configPath}
}

// Load returns the merged configuration.
func (l *Loader) Load() (Config, error) {
	cfg := DefaultConfig()

	for _, path := range l.configFiles() {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return Config{}, fmt.Errorf("config file not found: %s", l.configPath)
		}
		if err := mergeFile(&cfg, l.configPath); err != nil {
			return Config{}, err
		}
	}

	mergeEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// configFiles lists implicit config files in increasing priority order.
func (l *Loader) configFiles() []string {
	var files []string
	if l.homeDir != "" {
		homePath := filepath.Join(l.homeDir, ConfigFileName)
		if _, err := os.Stat(homePath); err == nil {
			files = append(files, homePath)
		}
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		abs, _ := filepath.Abs(ConfigFileName)
		if l.homeDir == "" || abs != filepath.Join(l.homeDir, ConfigFileName) {
			files = append(files, ConfigFileName)
		}
	}
	return files
}

// mergeFile overlays path's values onto cfg. TOML decoding into the existing
// struct leaves absent keys untouched, which is the merge behavior we rely
// on.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// mergeEnv overlays GOVTX_* environment variables, the highest priority
// source.
func mergeEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	set("GOVTX_CHAIN_ID", &cfg.Chain.ID)
	set("GOVTX_GRPC", &cfg.Chain.GRPC)
	set("GOVTX_REST", &cfg.Chain.REST)
	set("GOVTX_PREFIX", &cfg.Chain.Prefix)
	set("GOVTX_BOND_DENOM", &cfg.Chain.BondDenom)
	set("GOVTX_SPEND_DENOM", &cfg.Chain.SpendDenom)
	set("GOVTX_KEYRING_BACKEND", &cfg.Keyring.Backend)
	set("GOVTX_KEYRING_DIR", &cfg.Keyring.Dir)
	set("GOVTX_GAS_ADJUSTMENT", &cfg.Gas.Adjustment)
	set("GOVTX_GAS_PRICE", &cfg.Gas.Price)
	if v, ok := os.LookupEnv("GOVTX_GRPC_INSECURE"); ok {
		cfg.Chain.GRPCInsecure = v == "1" || v == "true"
	}
}
