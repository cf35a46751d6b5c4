package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vcmd/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/vcmd"
	configFileName = "config.yaml"

	envPrefix = "VCMD_"
)

// GetDefaultConfigPath returns ~/.config/vcmd, or "" when the home directory
// is unknown.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads config.yaml from configPath on top of the defaults, then
// applies VCMD_* environment overrides. A missing file is not an error.
func LoadConfig(configPath string) (Config, error) {
	config := GetDefaultConfig()

	if configPath != "" {
		configFilePath := filepath.Join(configPath, configFileName)
		data, err := os.ReadFile(configFilePath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
		case err != nil:
			return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
			}
			logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
		}
	}

	if err := applyEnv(&config, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := Validate(config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// applyEnv overrides config fields from VCMD_* variables.
func applyEnv(config *Config, lookup func(string) (string, bool)) error {
	var errs ValidationErrors

	get := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("SCHEME"); ok {
		config.Server.Scheme = strings.ToLower(v)
	}
	if v, ok := get("HOST"); ok {
		config.Server.Host = v
	}
	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs.Add(envPrefix+"PORT", "must be an integer", v)
		} else {
			config.Server.Port = port
		}
	}
	if v, ok := get("REQUEST_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err != nil {
			errs.Add(envPrefix+"REQUEST_TIMEOUT", "must be a duration such as 10s", v)
		} else {
			config.Session.RequestTimeout = d
		}
	}
	if v, ok := get("REFRESH_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err != nil {
			errs.Add(envPrefix+"REFRESH_INTERVAL", "must be a duration such as 50s", v)
		} else {
			config.Session.RefreshInterval = d
		}
	}
	if v, ok := get("HISTORY_FILE"); ok {
		config.Shell.HistoryFile = v
	}
	if v, ok := get("COLOR"); ok {
		if b, err := strconv.ParseBool(v); err != nil {
			errs.Add(envPrefix+"COLOR", "must be a boolean", v)
		} else {
			config.Shell.Color = &b
		}
	}
	if v, ok := get("VERBOSE"); ok {
		if b, err := strconv.ParseBool(v); err != nil {
			errs.Add(envPrefix+"VERBOSE", "must be a boolean", v)
		} else {
			config.Shell.Verbose = b
		}
	}
	if v, ok := get("METRICS_ADDRESS"); ok {
		config.Metrics.ListenAddress = v
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
