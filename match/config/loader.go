package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads and validates configuration from a YAML file.
func LoadConfig(path string) (*MatchConfig, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Configuration file not found: %s", path),
		}
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Error reading configuration file: %v", err),
		}
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates configuration from YAML bytes.
func ParseConfig(data []byte) (*MatchConfig, error) {
	// Parse into a raw map first so a bare numeric version can be normalized
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Error parsing YAML file: %v", err),
		}
	}

	if version, ok := raw["version"]; ok {
		raw["version"] = fmt.Sprintf("%v", version)
	} else {
		raw["version"] = "1"
	}

	yamlData, err := yaml.Marshal(raw)
	if err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Error converting config data: %v", err),
		}
	}

	var cfg MatchConfig
	if err := yaml.Unmarshal(yamlData, &cfg); err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Invalid configuration: %v", err),
		}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
