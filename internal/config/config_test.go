package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	loader := NewLoader(t.TempDir(), "")
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMergesHomeFile(t *testing.T) {
	home := t.TempDir()
	content := `
[chain]
id = "agoricdev-23"
grpc = "devnet.agoric.net:9090"

[gas]
adjustment = "1.5"
`
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName), []byte(content), 0o600))

	cfg, err := NewLoader(home, "").Load()
	require.NoError(t, err)
	require.Equal(t, "agoricdev-23", cfg.Chain.ID)
	require.Equal(t, "devnet.agoric.net:9090", cfg.Chain.GRPC)
	require.Equal(t, "1.5", cfg.Gas.Adjustment)
	// Untouched keys keep their defaults.
	require.Equal(t, "agoric", cfg.Chain.Prefix)
	require.Equal(t, "ubld", cfg.Chain.BondDenom)
}

func TestLoadExplicitFileOverridesHome(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName),
		[]byte("[chain]\nid = \"from-home\"\n"), 0o600))

	explicit := filepath.Join(t.TempDir(), "override.toml")
	require.NoError(t, os.WriteFile(explicit,
		[]byte("[chain]\nid = \"from-explicit\"\n"), 0o600))

	cfg, err := NewLoader(home, explicit).Load()
	require.NoError(t, err)
	require.Equal(t, "from-explicit", cfg.Chain.ID)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	_, err := NewLoader(t.TempDir(), filepath.Join(t.TempDir(), "missing.toml")).Load()
	require.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName),
		[]byte("[chain]\nid = \"from-file\"\n"), 0o600))

	t.Setenv("GOVTX_CHAIN_ID", "from-env")
	t.Setenv("GOVTX_KEYRING_BACKEND", "file")
	t.Setenv("GOVTX_GRPC_INSECURE", "false")

	cfg, err := NewLoader(home, "").Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Chain.ID)
	require.Equal(t, "file", cfg.Keyring.Backend)
	require.False(t, cfg.Chain.GRPCInsecure)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chain.ID = ""
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Keyring.Backend = "vault"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Chain.GRPC = ""
	require.Error(t, cfg.Validate())
}

func TestLoadInvalidTOML(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName),
		[]byte("not valid toml ["), 0o600))

	_, err := NewLoader(home, "").Load()
	require.Error(t, err)
}
