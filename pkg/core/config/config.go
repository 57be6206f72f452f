package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
)

// EnvPrefix prefixes every environment override, e.g. CMDCORE_LOG_LEVEL.
const EnvPrefix = "CMDCORE_"

// Config holds the complete application configuration
type Config struct {
	Engine   EngineConfig   `toml:"engine" yaml:"engine" envPrefix:"ENGINE_"`
	Log      LogConfig      `toml:"log" yaml:"log" envPrefix:"LOG_"`
	Messages MessagesConfig `toml:"messages" yaml:"messages" envPrefix:"MESSAGES_"`
	Gateway  GatewayConfig  `toml:"gateway" yaml:"gateway" envPrefix:"GATEWAY_"`
	Audit    AuditConfig    `toml:"audit" yaml:"audit" envPrefix:"AUDIT_"`
	Console  ConsoleConfig  `toml:"console" yaml:"console" envPrefix:"CONSOLE_"`
}

// EngineConfig holds dispatch engine settings
type EngineConfig struct {
	CaseInsensitive bool `toml:"case_insensitive" yaml:"case_insensitive" env:"CASE_INSENSITIVE"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level        string `toml:"level" yaml:"level" env:"LEVEL"`
	Format       string `toml:"format" yaml:"format" env:"FORMAT"`
	Output       string `toml:"output" yaml:"output" env:"OUTPUT"`
	EnableCaller bool   `toml:"enable_caller" yaml:"enable_caller" env:"ENABLE_CALLER"`
}

// MessagesConfig points at the message template file
type MessagesConfig struct {
	File  string `toml:"file" yaml:"file" env:"FILE"`
	Watch bool   `toml:"watch" yaml:"watch" env:"WATCH"`
}

// GatewayConfig holds WebSocket gateway settings
type GatewayConfig struct {
	Host           string   `toml:"host" yaml:"host" env:"HOST"`
	Port           int      `toml:"port" yaml:"port" env:"PORT"`
	RatePerSecond  float64  `toml:"rate_per_second" yaml:"rate_per_second" env:"RATE_PER_SECOND"`
	Burst          int      `toml:"burst" yaml:"burst" env:"BURST"`
	MaxMessageSize int64    `toml:"max_message_size" yaml:"max_message_size" env:"MAX_MESSAGE_SIZE"`
	WriteTimeout   Duration `toml:"write_timeout" yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	PongTimeout    Duration `toml:"pong_timeout" yaml:"pong_timeout" env:"PONG_TIMEOUT"`
	CompletionTTL  Duration `toml:"completion_ttl" yaml:"completion_ttl" env:"COMPLETION_TTL"`
	CompletionSize int      `toml:"completion_cache_size" yaml:"completion_cache_size" env:"COMPLETION_CACHE_SIZE"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// AuditConfig holds dispatch audit store settings
type AuditConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled" env:"ENABLED"`
	Path      string   `toml:"path" yaml:"path" env:"PATH"`
	Retention Duration `toml:"retention" yaml:"retention" env:"RETENTION"`
}

// ConsoleConfig holds interactive console settings
type ConsoleConfig struct {
	Prompt      string `toml:"prompt" yaml:"prompt" env:"PROMPT"`
	Sender      string `toml:"sender" yaml:"sender" env:"SENDER"`
	HistorySize int    `toml:"history_size" yaml:"history_size" env:"HISTORY_SIZE"`
}

// Duration wraps time.Duration for TOML, YAML and environment parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration that works without any file
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, then applies
// environment overrides from .env and the process environment.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "config file not readable").
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return nil, mdwerror.Newf("unsupported config format %q", filepath.Ext(path)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	return finish(&cfg)
}

// LoadFromEnv loads the file named by CMDCORE_CONFIG, else the first of the
// default locations that exists, else the defaults. Environment overrides
// apply in every case.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPrefix + "CONFIG")
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		return Load(path)
	}
	return finish(&Config{})
}

// DefaultPaths lists the locations LoadFromEnv probes
func DefaultPaths() []string {
	paths := []string{
		"./configs/cmdcore.toml",
		"./configs/cmdcore.yaml",
		"./cmdcore.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "cmdcore", "cmdcore.toml"))
	}
	return paths
}

func finish(cfg *Config) (*Config, error) {
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads a .env file from the working directory if present and
// overrides cfg from CMDCORE_* variables.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return mdwerror.Wrap(err, "failed to read .env").
			WithCode(mdwerror.CodeEnvironmentError).
			WithOperation("config.ApplyEnv")
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return mdwerror.Wrap(err, "invalid environment override").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.ApplyEnv")
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}

	// Gateway
	if c.Gateway.Host == "" {
		c.Gateway.Host = "127.0.0.1"
	}
	if c.Gateway.Port == 0 {
		c.Gateway.Port = 8095
	}
	if c.Gateway.RatePerSecond == 0 {
		c.Gateway.RatePerSecond = 10
	}
	if c.Gateway.Burst == 0 {
		c.Gateway.Burst = 20
	}
	if c.Gateway.MaxMessageSize == 0 {
		c.Gateway.MaxMessageSize = 4096
	}
	if c.Gateway.WriteTimeout.Duration == 0 {
		c.Gateway.WriteTimeout.Duration = 10 * time.Second
	}
	if c.Gateway.PongTimeout.Duration == 0 {
		c.Gateway.PongTimeout.Duration = 60 * time.Second
	}
	if c.Gateway.CompletionTTL.Duration == 0 {
		c.Gateway.CompletionTTL.Duration = 30 * time.Second
	}
	if c.Gateway.CompletionSize == 0 {
		c.Gateway.CompletionSize = 1000
	}

	// Audit
	if c.Audit.Path == "" {
		c.Audit.Path = "./data/audit.db"
	}
	if c.Audit.Retention.Duration == 0 {
		c.Audit.Retention.Duration = 30 * 24 * time.Hour
	}

	// Console
	if c.Console.Prompt == "" {
		c.Console.Prompt = "> "
	}
	if c.Console.Sender == "" {
		c.Console.Sender = "console"
	}
	if c.Console.HistorySize == 0 {
		c.Console.HistorySize = 100
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Messages.File = os.ExpandEnv(c.Messages.File)
	c.Audit.Path = os.ExpandEnv(c.Audit.Path)
	if c.Log.Output != "stdout" && c.Log.Output != "stderr" {
		c.Log.Output = os.ExpandEnv(c.Log.Output)
	}
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if _, err := mdwlog.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, err.Error())
	}
	if _, err := mdwlog.ParseFormat(c.Log.Format); err != nil {
		return invalid("log.format", c.Log.Format, err.Error())
	}
	if c.Gateway.Port < 1 || c.Gateway.Port > 65535 {
		return invalid("gateway.port", c.Gateway.Port, "port out of range")
	}
	if c.Gateway.RatePerSecond < 0 {
		return invalid("gateway.rate_per_second", c.Gateway.RatePerSecond, "must not be negative")
	}
	if c.Gateway.Burst < 1 {
		return invalid("gateway.burst", c.Gateway.Burst, "must be at least 1")
	}
	if c.Audit.Enabled && c.Audit.Path == "" {
		return invalid("audit.path", c.Audit.Path, "required when audit is enabled")
	}
	return nil
}

func invalid(key string, value interface{}, reason string) error {
	return mdwerror.Newf("invalid configuration %s: %s", key, reason).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.Validate").
		WithDetail("key", key).
		WithDetail("value", value)
}

// GatewayAddress returns the host:port the gateway listens on
func (c *Config) GatewayAddress() string {
	return fmt.Sprintf("%s:%d", c.Gateway.Host, c.Gateway.Port)
}
