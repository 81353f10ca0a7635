// Package config loads railroad settings from defaults, an optional
// railroad.yaml, RAILROAD_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hammamikhairi/railroad/internal/engine"
	"github.com/hammamikhairi/railroad/internal/logger"
	"github.com/hammamikhairi/railroad/internal/storage"
)

// EnvPrefix namespaces environment overrides, e.g. RAILROAD_SERVER_ADDR
// for server.addr.
const EnvPrefix = "RAILROAD"

// Generator modes.
const (
	GeneratorOpenAI    = "openai"
	GeneratorSimulated = "simulated"
)

// Config is the complete railroad configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Client    ClientConfig    `mapstructure:"client"`
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls the lesson service.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// AllowedOrigins lists browser origins for CORS; "*" allows any.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ImageDir holds generated illustrations, served at /images.
	ImageDir string `mapstructure:"image_dir"`
	// Seed creates the demo teacher and sample lessons on an empty database.
	Seed bool `mapstructure:"seed"`
}

// DatabaseConfig selects the lesson repository.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// GeneratorConfig controls step and image generation.
type GeneratorConfig struct {
	// Mode is "openai" or "simulated". An openai mode without an API key
	// falls back to simulated.
	Mode       string `mapstructure:"mode"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	ImageModel string `mapstructure:"image_model"`
	// Temperature and MaxTokens tune step generation.
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	// Images turns on one illustration per step.
	Images         bool          `mapstructure:"images"`
	SimulatedDelay time.Duration `mapstructure:"simulated_delay"`
}

// ClientConfig controls how the app reaches the lesson service.
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ViewerConfig controls lesson navigation.
type ViewerConfig struct {
	// NavPolicy is "clamp" (stop at the ends) or "wrap".
	NavPolicy string `mapstructure:"nav_policy"`
}

// LoggingConfig controls the app logger.
type LoggingConfig struct {
	// Level is "off", "normal" or "verbose".
	Level string `mapstructure:"level"`
	// File receives log lines; "stderr" logs to the console.
	File string `mapstructure:"file"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.image_dir", "generated_images")
	v.SetDefault("server.seed", true)

	v.SetDefault("database.driver", storage.DriverSQLite)
	v.SetDefault("database.dsn", "railroad.db")

	v.SetDefault("generator.mode", GeneratorOpenAI)
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.base_url", "")
	v.SetDefault("generator.model", "gpt-4o-mini")
	v.SetDefault("generator.image_model", "gpt-image-1")
	v.SetDefault("generator.temperature", 0.7)
	v.SetDefault("generator.max_tokens", 1200)
	v.SetDefault("generator.images", false)
	v.SetDefault("generator.simulated_delay", "3s")

	v.SetDefault("client.base_url", "http://localhost:5000")
	v.SetDefault("client.timeout", "2m")

	v.SetDefault("viewer.nav_policy", engine.PolicyClamp.String())

	v.SetDefault("logging.level", "normal")
	v.SetDefault("logging.file", ".railroad-logs/railroad.log")
}

// Setup prepares v: defaults, config file search paths and environment
// binding. cfgFile, when set, replaces the search.
func Setup(v *viper.Viper, cfgFile string) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("railroad")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/railroad")
	}

	v.SetEnvPrefix(EnvPrefix)
	// RAILROAD_GENERATOR_API_KEY for generator.api_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("generator.api_key", EnvPrefix+"_GENERATOR_API_KEY", "OPENAI_API_KEY")
}

// Load reads the config file if any and decodes v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := c.NavPolicy(); err != nil {
		return fmt.Errorf("viewer.nav_policy: %w", err)
	}
	switch strings.ToLower(c.Database.Driver) {
	case storage.DriverSQLite, storage.DriverPostgres:
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	switch strings.ToLower(c.Generator.Mode) {
	case GeneratorOpenAI, GeneratorSimulated:
	default:
		return fmt.Errorf("generator.mode: unknown mode %q", c.Generator.Mode)
	}
	return nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (logger.Level, error) {
	return logger.ParseLevel(c.Logging.Level)
}

// NavPolicy parses viewer.nav_policy.
func (c *Config) NavPolicy() (engine.NavPolicy, error) {
	return engine.ParseNavPolicy(c.Viewer.NavPolicy)
}

// UseSimulatedGenerator reports whether lesson steps are simulated.
func (c *Config) UseSimulatedGenerator() bool {
	return strings.EqualFold(c.Generator.Mode, GeneratorSimulated) || c.Generator.APIKey == ""
}
