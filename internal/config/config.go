package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete client configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/license-client.log"`
}

// PathsConfig contains the file system locations the tools operate on.
type PathsConfig struct {
	WorkDir    string `yaml:"work_dir" envconfig:"WORK_DIR"`
	InstallDir string `yaml:"install_dir" envconfig:"INSTALL_DIR" default:"/etc/autodrive"`
}

// Load loads configuration from environment variables (prefix AUTODRIVE).
// A non-empty configFile must name a readable YAML file, which is merged in
// underneath the environment values. An empty configFile means environment
// plus defaults.
func Load(configFile string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("AUTODRIVE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config with env config; env takes precedence,
// file values fill whatever the environment left at its default or empty.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if fileConfig.Logging.Level != "" && !isSet("AUTODRIVE_LOGGING_LEVEL") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && !isSet("AUTODRIVE_LOGGING_FORMAT") {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" && !isSet("AUTODRIVE_LOGGING_OUTPUT") {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && !isSet("AUTODRIVE_LOGGING_FILE_PATH") {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if fileConfig.Paths.WorkDir != "" && !isSet("AUTODRIVE_PATHS_WORK_DIR") {
		envConfig.Paths.WorkDir = fileConfig.Paths.WorkDir
	}
	if fileConfig.Paths.InstallDir != "" && !isSet("AUTODRIVE_PATHS_INSTALL_DIR") {
		envConfig.Paths.InstallDir = fileConfig.Paths.InstallDir
	}
	return envConfig
}

func isSet(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// validate checks configuration values that have a bounded set of choices.
func (c *Config) validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}
	if c.Paths.InstallDir == "" {
		return fmt.Errorf("paths.install_dir must not be empty")
	}
	return nil
}
