package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// Built-in defaults. They reproduce the layout of a plain `solc --abi --bin -o output` run
// deployed against a local dev node.
const (
	DataDirName           = ".catapult"
	DefaultABIPath        = "output/precompile.abi"
	DefaultBinPath        = "output/precompile.bin"
	DefaultRPCURL         = "http://127.0.0.1:8545"
	DefaultNetworkName    = "local"
	DefaultConfirmTimeout = 2 * time.Minute
	DefaultPollInterval   = time.Second
	DefaultNodePort       = "8545"
	DefaultCommandTimeout = 10 * time.Minute
)

// Provider creates RuntimeConfig for Wire dependency injection.
// Precedence: flags > CATAPULT_* env > catapult.toml > built-in defaults.
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, _, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	fileCfg, found, err := LoadFileConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	format, err := parseFormat(v.GetString("format"))
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Networks:       fileCfg.Networks,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non-interactive"),
		Format:         format,
		LogLevel:       v.GetString("log-level"),
		LogFile:        v.GetString("log-file"),
		DryRun:         v.GetBool("dry-run"),
		Yes:            v.GetBool("yes"),
		NoRecord:       v.GetBool("no-record"),
	}
	if found {
		cfg.ConfigFile = filepath.Join(projectRoot, ConfigFileName)
	}

	cfg.Artifacts = config.ArtifactsConfig{
		ABI:      resolvePath(projectRoot, layered(v, "abi", fileCfg.Artifacts.ABI, DefaultABIPath)),
		Bin:      resolvePath(projectRoot, layered(v, "bin", fileCfg.Artifacts.Bin, DefaultBinPath)),
		Artifact: resolvePath(projectRoot, layered(v, "artifact", fileCfg.Artifacts.Artifact, "")),
	}

	cfg.Sender = domain.Sender{
		Type:       domain.SenderType(layered(v, "sender", fileCfg.Sender.Type, string(domain.SenderTypeUnlocked))),
		Address:    layered(v, "sender-address", fileCfg.Sender.Address, ""),
		PrivateKey: layered(v, "private-key", fileCfg.Sender.PrivateKey, ""),
	}
	if err := validateSender(cfg.Sender); err != nil {
		return nil, err
	}

	confirmTimeout, err := layeredDuration(v, "confirm-timeout", fileCfg.Deploy.ConfirmTimeout, DefaultConfirmTimeout)
	if err != nil {
		return nil, err
	}
	pollInterval, err := layeredDuration(v, "poll-interval", fileCfg.Deploy.PollInterval, DefaultPollInterval)
	if err != nil {
		return nil, err
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll-interval must be positive, got %s", pollInterval)
	}
	gasLimit := v.GetUint64("gas-limit")
	if gasLimit == 0 {
		gasLimit = fileCfg.Deploy.GasLimit
	}
	cfg.Deploy = config.DeployConfig{
		ConfirmTimeout: confirmTimeout,
		PollInterval:   pollInterval,
		GasLimit:       gasLimit,
	}
	cfg.Timeout = commandTimeout(v.GetDuration("timeout"), confirmTimeout)

	cfg.Node = config.NodeConfig{
		Port:    layered(v, "node-port", fileCfg.Node.Port, DefaultNodePort),
		ChainID: layered(v, "node-chain-id", fileCfg.Node.ChainID, ""),
	}

	network, err := ResolveNetwork(v.GetString("network"), v.GetString("rpc-url"), cfg.Networks)
	if err != nil {
		return nil, err
	}
	cfg.Network = network

	return cfg, nil
}

// FindProjectRoot walks up from the current directory looking for catapult.toml.
// Without one the current directory is the project root.
func FindProjectRoot() (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, false, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("CATAPULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("format", string(config.FormatText))
	v.SetDefault("debug", false)
	v.SetDefault("non-interactive", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})

	return v
}

// ResolveNetwork picks the RPC endpoint. An explicit rpc URL always wins; otherwise the named
// network is looked up, falling back to a configured "local" entry and then the built-in default.
func ResolveNetwork(name, rpcURL string, networks map[string]string) (*domain.Network, error) {
	if rpcURL != "" {
		if name == "" {
			name = "custom"
		}
		return &domain.Network{Name: name, RPCURL: rpcURL}, nil
	}

	if name != "" {
		url, ok := networks[name]
		if !ok {
			return nil, fmt.Errorf("%w: '%s' is not configured in %s [networks]", domain.ErrUnknownNetwork, name, ConfigFileName)
		}
		if url == "" {
			return nil, fmt.Errorf("network '%s' has an empty rpc url (unset environment variable?)", name)
		}
		return &domain.Network{Name: name, RPCURL: url}, nil
	}

	if url, ok := networks[DefaultNetworkName]; ok && url != "" {
		return &domain.Network{Name: DefaultNetworkName, RPCURL: url}, nil
	}

	return &domain.Network{Name: DefaultNetworkName, RPCURL: DefaultRPCURL}, nil
}

// commandTimeout bounds the whole command. An explicit timeout wins; otherwise a zero
// confirm timeout leaves the command unbounded so the receipt wait can run forever.
func commandTimeout(explicit, confirmTimeout time.Duration) time.Duration {
	if explicit > 0 {
		return explicit
	}
	if confirmTimeout == 0 {
		return 0
	}
	return DefaultCommandTimeout
}

// layered returns the flag/env value for key, else the file value, else the fallback
func layered(v *viper.Viper, key, fileValue, fallback string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return fallback
}

func layeredDuration(v *viper.Viper, key, fileValue string, fallback time.Duration) (time.Duration, error) {
	raw := layered(v, key, fileValue, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func resolvePath(projectRoot, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

func parseFormat(raw string) (config.OutputFormat, error) {
	switch config.OutputFormat(strings.ToLower(raw)) {
	case "", config.FormatText:
		return config.FormatText, nil
	case config.FormatJSON:
		return config.FormatJSON, nil
	case config.FormatYAML:
		return config.FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", raw)
	}
}

func validateSender(sender domain.Sender) error {
	switch sender.Type {
	case domain.SenderTypeUnlocked:
		return nil
	case domain.SenderTypePrivateKey:
		if sender.PrivateKey == "" {
			return fmt.Errorf("%w: private_key sender requires a private key (set CATAPULT_PRIVATE_KEY)", domain.ErrInvalidSender)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported sender type %q", domain.ErrInvalidSender, sender.Type)
	}
}
