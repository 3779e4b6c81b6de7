package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// ConfigFileName is the project configuration file looked up from the working directory
const ConfigFileName = "catapult.toml"

// loadDotEnv loads .env files from the project root so ${VAR} references can expand.
// Variables already present in the environment win.
func loadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadFileConfig loads catapult.toml from the project root.
// A missing file is not an error and yields an empty config.
func LoadFileConfig(projectRoot string) (*config.FileConfig, bool, error) {
	loadDotEnv(projectRoot)

	cfg := &config.FileConfig{Networks: make(map[string]string)}

	path := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, false, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	if cfg.Networks == nil {
		cfg.Networks = make(map[string]string)
	}
	for name, url := range cfg.Networks {
		cfg.Networks[name] = os.ExpandEnv(url)
	}
	cfg.Sender.Address = os.ExpandEnv(cfg.Sender.Address)
	cfg.Sender.PrivateKey = os.ExpandEnv(cfg.Sender.PrivateKey)

	return cfg, true, nil
}
