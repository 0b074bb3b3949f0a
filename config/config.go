package config

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
	yaml "gopkg.in/yaml.v2"
)

// Config is a structured representation of a Relay config file. Environment
// variables override file values.
type Config struct {
	// Address is the base URL of the Relay backend.
	Address string `yaml:"address" env:"RELAY_ADDR"`

	// UserToken is the bearer credential for the current session.
	UserToken string `yaml:"user_token" env:"RELAY_TOKEN"`

	// DefaultOrg is the organization used when no selection is persisted.
	DefaultOrg string `yaml:"default_org" env:"RELAY_DEFAULT_ORG"`

	// LogLevel is the minimum log level: trace, debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"RELAY_LOG_LEVEL"`
}

const (
	configPathKey   = "RELAY_CONFIG_FILE"
	defaultAddress  = "https://api.relaygate.dev"
	relayConfigFile = "config.yml"
	relayStateFile  = "state.json"
)

var relayConfigDir = filepath.Join(os.Getenv("HOME"), ".relay")

// New reads configuration files and the environment and returns the resulting
// Relay configuration.
func New() (*Config, error) {
	// Set up defaults before doing anything.
	config := Config{
		Address: defaultAddress,
	}

	r, err := findConfig()
	if err != nil {
		return nil, err
	}
	if r != nil {
		defer r.Close()

		d := yaml.NewDecoder(r)
		if err := d.Decode(&config); err != nil {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	// Environment wins over file values.
	if err := envconfig.Process(context.Background(), &config); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}
	return &config, nil
}

// GetFilePath returns the active config file location.
func GetFilePath() string {
	if override, ok := os.LookupEnv(configPathKey); ok {
		return override
	}
	return filepath.Join(relayConfigDir, relayConfigFile)
}

// StatePath returns the location of the durable client-side state file.
func StatePath() string {
	return filepath.Join(relayConfigDir, relayStateFile)
}

// ReadConfigFromFile reads a config file without applying defaults or
// environment overrides. Used by the config subcommands, which edit the file
// as written.
func ReadConfigFromFile(path string) (*Config, error) {
	r, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	defer r.Close()

	config := Config{}
	d := yaml.NewDecoder(r)
	if err := d.Decode(&config); err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	return &config, nil
}

// WriteConfig persists a config to the given path, creating directories as
// needed.
func WriteConfig(config *Config, filePath string) error {
	bytes, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	dirPath, _ := filepath.Split(filePath)
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return errors.WithStack(err)
	}

	return os.WriteFile(filePath, bytes, 0o600)
}

func findConfig() (io.ReadCloser, error) {
	// Check the override first.
	if override, ok := os.LookupEnv(configPathKey); ok {
		return os.Open(override)
	}

	configPaths := []string{
		relayConfigDir,
		"/etc/relay",
	}

	for _, p := range configPaths {
		r, err := os.Open(filepath.Join(p, relayConfigFile))
		if os.IsNotExist(err) {
			continue
		}
		return r, errors.WithStack(err)
	}

	// No config file found; we'll just use defaults.
	return nil, nil
}
