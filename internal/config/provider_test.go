package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newViper(projectRoot string) *viper.Viper {
	v := viper.New()
	v.Set("project_root", projectRoot)
	return v
}

func TestProvider_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Provider(newViper(root))
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, ".catapult"), cfg.DataDir)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, filepath.Join(root, "output/precompile.abi"), cfg.Artifacts.ABI)
	assert.Equal(t, filepath.Join(root, "output/precompile.bin"), cfg.Artifacts.Bin)
	assert.Empty(t, cfg.Artifacts.Artifact)
	assert.Equal(t, "http://127.0.0.1:8545", cfg.Network.RPCURL)
	assert.Equal(t, "local", cfg.Network.Name)
	assert.Equal(t, domain.SenderTypeUnlocked, cfg.Sender.Type)
	assert.Equal(t, 2*time.Minute, cfg.Deploy.ConfirmTimeout)
	assert.Equal(t, time.Second, cfg.Deploy.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, "8545", cfg.Node.Port)
}

func TestProvider_FileConfig(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TEST_SEPOLIA_RPC", "https://sepolia.example.org")
	writeFile(t, root, ConfigFileName, `
[artifacts]
abi = "build/Token.abi"
bin = "build/Token.bin"

[networks]
local = "http://localhost:9545"
sepolia = "${TEST_SEPOLIA_RPC}"

[sender]
type = "private_key"
private_key = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

[deploy]
confirm_timeout = "30s"
poll_interval = "250ms"
gas_limit = 3000000
`)

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := Provider(newViper(root))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(root, ConfigFileName), cfg.ConfigFile)
		assert.Equal(t, filepath.Join(root, "build/Token.abi"), cfg.Artifacts.ABI)
		assert.Equal(t, "http://localhost:9545", cfg.Network.RPCURL)
		assert.Equal(t, "https://sepolia.example.org", cfg.Networks["sepolia"])
		assert.Equal(t, domain.SenderTypePrivateKey, cfg.Sender.Type)
		assert.Equal(t, 30*time.Second, cfg.Deploy.ConfirmTimeout)
		assert.Equal(t, 250*time.Millisecond, cfg.Deploy.PollInterval)
		assert.Equal(t, uint64(3000000), cfg.Deploy.GasLimit)
	})

	t.Run("flags override file", func(t *testing.T) {
		v := newViper(root)
		v.Set("abi", "/abs/Other.abi")
		v.Set("network", "sepolia")
		v.Set("confirm-timeout", "0")

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, "/abs/Other.abi", cfg.Artifacts.ABI)
		assert.Equal(t, "sepolia", cfg.Network.Name)
		assert.Equal(t, "https://sepolia.example.org", cfg.Network.RPCURL)
		assert.Equal(t, time.Duration(0), cfg.Deploy.ConfirmTimeout)
	})
}

func TestProvider_CommandTimeout(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name     string
		set      map[string]any
		expected time.Duration
	}{
		{name: "default", expected: 10 * time.Minute},
		{name: "explicit", set: map[string]any{"timeout": "30s"}, expected: 30 * time.Second},
		{name: "unbounded receipt wait lifts the default", set: map[string]any{"confirm-timeout": "0"}, expected: 0},
		{name: "explicit wins over unbounded receipt wait", set: map[string]any{"confirm-timeout": "0", "timeout": "1h"}, expected: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(root)
			for k, val := range tt.set {
				v.Set(k, val)
			}

			cfg, err := Provider(v)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Timeout)
		})
	}
}

func TestProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr error
		errText string
	}{
		{
			name:    "unknown network",
			set:     map[string]any{"network": "mainnet"},
			wantErr: domain.ErrUnknownNetwork,
		},
		{
			name:    "private key sender without key",
			set:     map[string]any{"sender": "private_key"},
			wantErr: domain.ErrInvalidSender,
		},
		{
			name:    "unsupported sender",
			set:     map[string]any{"sender": "ledger"},
			wantErr: domain.ErrInvalidSender,
		},
		{
			name:    "bad format",
			set:     map[string]any{"format": "xml"},
			errText: "unknown output format",
		},
		{
			name:    "bad duration",
			set:     map[string]any{"confirm-timeout": "soon"},
			errText: "invalid confirm-timeout",
		},
		{
			name:    "zero poll interval",
			set:     map[string]any{"poll-interval": "0s"},
			errText: "poll-interval must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t.TempDir())
			for k, val := range tt.set {
				v.Set(k, val)
			}

			_, err := Provider(v)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestResolveNetwork(t *testing.T) {
	networks := map[string]string{
		"local":   "http://localhost:9545",
		"sepolia": "https://sepolia.example.org",
		"broken":  "",
	}

	t.Run("explicit rpc url wins", func(t *testing.T) {
		n, err := ResolveNetwork("sepolia", "http://10.0.0.1:8545", networks)
		require.NoError(t, err)
		assert.Equal(t, "sepolia", n.Name)
		assert.Equal(t, "http://10.0.0.1:8545", n.RPCURL)
	})

	t.Run("rpc url without name", func(t *testing.T) {
		n, err := ResolveNetwork("", "http://10.0.0.1:8545", nil)
		require.NoError(t, err)
		assert.Equal(t, "custom", n.Name)
	})

	t.Run("named network", func(t *testing.T) {
		n, err := ResolveNetwork("sepolia", "", networks)
		require.NoError(t, err)
		assert.Equal(t, "https://sepolia.example.org", n.RPCURL)
	})

	t.Run("configured local entry", func(t *testing.T) {
		n, err := ResolveNetwork("", "", networks)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9545", n.RPCURL)
	})

	t.Run("built-in default", func(t *testing.T) {
		n, err := ResolveNetwork("", "", nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultRPCURL, n.RPCURL)
	})

	t.Run("empty url", func(t *testing.T) {
		_, err := ResolveNetwork("broken", "", networks)
		assert.ErrorContains(t, err, "empty rpc url")
	})
}

func TestNetworkResolver_GetNetworksSorted(t *testing.T) {
	r := NewNetworkResolver(&config.RuntimeConfig{Networks: map[string]string{
		"sepolia": "a", "base": "b", "local": "c",
	}})
	assert.Equal(t, []string{"base", "local", "sepolia"}, r.GetNetworks(t.Context()))
}
