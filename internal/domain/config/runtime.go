package config

import (
	"time"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	ConfigFile  string // empty when no catapult.toml was found

	// Context settings
	Network  *domain.Network
	Networks map[string]string // name -> rpc url, from catapult.toml

	// Execution settings
	Debug          bool
	NonInteractive bool
	Format         OutputFormat
	Timeout        time.Duration
	LogLevel       string
	LogFile        string

	// Command-specific settings (only populated for relevant commands)
	DryRun   bool
	Yes      bool
	NoRecord bool

	Artifacts ArtifactsConfig
	Sender    domain.Sender
	Deploy    DeployConfig
	Node      NodeConfig
}

// OutputFormat selects how command results are printed
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ArtifactsConfig locates the compiled contract on disk
type ArtifactsConfig struct {
	ABI      string
	Bin      string
	Artifact string
}

// DeployConfig tunes submission and confirmation
type DeployConfig struct {
	ConfirmTimeout time.Duration // 0 waits forever
	PollInterval   time.Duration
	GasLimit       uint64 // 0 estimates
}

// NodeConfig configures the local anvil node
type NodeConfig struct {
	Port    string
	ChainID string
}

// Interactive reports whether prompts may be shown
func (c *RuntimeConfig) Interactive() bool {
	return !c.NonInteractive && c.Format == FormatText
}
