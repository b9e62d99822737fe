package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration in layers:
//  1. built-in defaults
//  2. <configDir>/base.yaml
//  3. <configDir>/<env>.yaml
//  4. .env (if present) and the process environment
//
// Missing files are skipped; malformed files are an error.
func Load(env, configDir string) (Config, error) {
	if configDir == "" {
		configDir = "config"
	}
	if env == "" {
		env = GetConfigEnv()
	}

	cfg := Default()
	cfg.Env = env

	if err := mergeYAMLFile(&cfg, filepath.Join(configDir, "base.yaml")); err != nil {
		return Config{}, err
	}
	if env != "base" {
		if err := mergeYAMLFile(&cfg, filepath.Join(configDir, env+".yaml")); err != nil {
			return Config{}, err
		}
	}

	// .env is optional, the real environment always wins over it
	_ = godotenv.Load()

	overrideFromEnv(&cfg)
	resolveTransport(&cfg.Mail)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeYAMLFile decodes path over cfg so only keys present in the file change
func mergeYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// GetEnv returns the environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigEnv returns the config environment (CONFIG_ENV, default local)
func GetConfigEnv() string {
	return GetEnv("CONFIG_ENV", "local")
}
