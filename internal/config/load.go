package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRuntimePath   = "config/runtime.yaml"
	DefaultScenariosPath = "config/scenarios.yaml"
)

// LoadRuntime loads and validates runtime.yaml. A .env file next to the
// config is loaded into the environment first, so provider API keys can
// live beside the config instead of the shell profile.
func LoadRuntime(path string) (*RuntimeConfig, error) {
	if path == "" {
		path = DefaultRuntimePath
	}
	loadDotEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read runtime config: %w", err)
	}

	var cfg RuntimeConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse runtime config: %w", err)
	}

	applyRuntimeDefaults(&cfg)
	if err := validateRuntime(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadScenarios loads and validates scenarios.yaml.
func LoadScenarios(path string) (*ScenariosConfig, error) {
	if path == "" {
		path = DefaultScenariosPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios config: %w", err)
	}

	var cfg ScenariosConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse scenarios config: %w", err)
	}

	cfg.Preamble = strings.TrimSpace(cfg.Preamble)
	for i := range cfg.Followups {
		cfg.Followups[i].Prompt = strings.TrimSpace(cfg.Followups[i].Prompt)
	}
	for i := range cfg.Scenarios {
		cfg.Scenarios[i].Subject = strings.TrimSpace(cfg.Scenarios[i].Subject)
		cfg.Scenarios[i].Body = strings.TrimSpace(cfg.Scenarios[i].Body)
	}

	if err := validateScenarios(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(configPath string) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(envPath); err == nil {
		// Missing keys may already be set in the environment, so a load
		// failure here is not fatal.
		_ = godotenv.Load(envPath)
	}
}
