package config

// FileConfig represents the raw catapult.toml structure
type FileConfig struct {
	Artifacts FileArtifacts     `toml:"artifacts"`
	Networks  map[string]string `toml:"networks"`
	Sender    FileSender        `toml:"sender"`
	Deploy    FileDeploy        `toml:"deploy"`
	Node      FileNode          `toml:"node"`
}

// FileArtifacts is the [artifacts] section
type FileArtifacts struct {
	ABI      string `toml:"abi,omitempty"`
	Bin      string `toml:"bin,omitempty"`
	Artifact string `toml:"artifact,omitempty"`
}

// FileSender is the [sender] section
type FileSender struct {
	Type       string `toml:"type,omitempty"`
	Address    string `toml:"address,omitempty"`
	PrivateKey string `toml:"private_key,omitempty"`
}

// FileDeploy is the [deploy] section. Durations are kept as strings
// so they can be handed to viper unparsed.
type FileDeploy struct {
	ConfirmTimeout string `toml:"confirm_timeout,omitempty"`
	PollInterval   string `toml:"poll_interval,omitempty"`
	GasLimit       uint64 `toml:"gas_limit,omitempty"`
}

// FileNode is the [node] section
type FileNode struct {
	Port    string `toml:"port,omitempty"`
	ChainID string `toml:"chain_id,omitempty"`
}
