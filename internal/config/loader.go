package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config.yaml"

// Load reads the configuration from the YAML file named by CONFIG_PATH
// (default ./config.yaml) and the environment, ENV taking precedence.
// A missing default file falls back to ENV and defaults; a missing explicit
// file is an error. A relative linking.policy_path is resolved against the
// directory of the YAML file it came from.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = defaultConfigPath
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if os.Getenv("LINKING_POLICY_PATH") == "" {
			cfg.Linking.PolicyPath = resolvePolicyPath(path, cfg.Linking.PolicyPath)
		}
	case explicitPath:
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func resolvePolicyPath(configPath, policyPath string) string {
	if policyPath == "" || filepath.IsAbs(policyPath) {
		return policyPath
	}
	return filepath.Join(filepath.Dir(configPath), policyPath)
}
