package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/yaml2json/internal/parser"
)

// MaxIndent caps the indentation accepted from configuration.
const MaxIndent = 16

// Config represents the complete configuration for yaml2json
type Config struct {
	Indent   int    `yaml:"indent" env:"YAML2JSON_INDENT"`
	Scalars  string `yaml:"scalars" env:"YAML2JSON_SCALARS"`
	LogLevel string `yaml:"log_level" env:"YAML2JSON_LOG_LEVEL"`
	MaxNodes int    `yaml:"max_nodes" env:"YAML2JSON_MAX_NODES"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Indent:   4,
		Scalars:  string(parser.ModeYAML11),
		LogLevel: "warn",
		MaxNodes: parser.DefaultMaxNodes,
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".yaml2json.yml", ".yaml2json.yaml", "yaml2json.yml", "yaml2json.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// ApplyEnv overrides fields whose environment variables are set
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	if c.Indent < 0 || c.Indent > MaxIndent {
		return fmt.Errorf("indent must be between 0 and %d, got %d", MaxIndent, c.Indent)
	}
	if _, err := parser.ParseMode(c.Scalars); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.MaxNodes <= 0 {
		return fmt.Errorf("max_nodes must be positive, got %d", c.MaxNodes)
	}
	return nil
}

// ParserOptions returns the decode options described by the config
func (c *Config) ParserOptions() parser.Options {
	mode, err := parser.ParseMode(c.Scalars)
	if err != nil {
		mode = parser.ModeYAML11
	}
	return parser.Options{
		Scalars:  mode,
		MaxNodes: c.MaxNodes,
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > environment > config file > defaults.
// An empty configPath falls back to FindConfigFile.
func LoadConfigWithCLI(configPath string, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if cliDebug {
		cfg.LogLevel = "debug"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
