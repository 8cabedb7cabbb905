// Package config holds the application configuration, loaded through viper
// from defaults, an optional config file and JOBSWIPE_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // console or json
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the driven browser session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	ExecPath          string        `mapstructure:"exec_path" yaml:"exec_path"`
	DisableGPU        bool          `mapstructure:"disable_gpu" yaml:"disable_gpu"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	StabilizeWait     time.Duration `mapstructure:"stabilize_wait" yaml:"stabilize_wait"`
}

// FillConfig controls the fill engine.
type FillConfig struct {
	TypingDelay time.Duration `mapstructure:"typing_delay" yaml:"typing_delay"`
	MarkerAttr  string        `mapstructure:"marker_attr" yaml:"marker_attr"`
	OptionCap   int           `mapstructure:"option_cap" yaml:"option_cap"`
}

// PlannerConfig configures the AI planner. An empty API key disables the AI
// path; the deterministic autofill still works without it.
type PlannerConfig struct {
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	Model             string        `mapstructure:"model" yaml:"model"`
	Endpoint          string        `mapstructure:"endpoint" yaml:"endpoint"`
	Temperature       float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	APITimeout        time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// StoreConfig locates the local profile database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// BoundaryConfig controls the messaging boundary.
type BoundaryConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// Config is the root of the application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Fill     FillConfig     `mapstructure:"fill" yaml:"fill"`
	Planner  PlannerConfig  `mapstructure:"planner" yaml:"planner"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Boundary BoundaryConfig `mapstructure:"boundary" yaml:"boundary"`
}

// SetDefaults initializes default values for every configuration parameter.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "jobswipe")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.disable_gpu", true)
	v.SetDefault("browser.navigation_timeout", "90s")
	v.SetDefault("browser.stabilize_wait", "1500ms")

	// -- Fill --
	v.SetDefault("fill.typing_delay", "50ms")
	v.SetDefault("fill.marker_attr", "data-jsa-id")
	v.SetDefault("fill.option_cap", 50)

	// -- Planner --
	v.SetDefault("planner.model", "gemini-3-flash-preview")
	v.SetDefault("planner.temperature", 0.2)
	v.SetDefault("planner.max_tokens", 8192)
	v.SetDefault("planner.api_timeout", "60s")
	v.SetDefault("planner.requests_per_minute", 10)

	// -- Store --
	v.SetDefault("store.path", "jobswipe.db")

	// -- Boundary --
	v.SetDefault("boundary.allowed_origins", []string{"https://app.jobswipe.dev"})
}

// NewDefaultConfig creates a configuration populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper builds and validates a configuration from a prepared
// viper instance.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("JOBSWIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The API key is sensitive and normally arrives via the environment.
	v.BindEnv("planner.api_key", "JOBSWIPE_GEMINI_API_KEY", "GEMINI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks required fields and sane values.
func (c *Config) Validate() error {
	if c.Fill.OptionCap <= 0 {
		return fmt.Errorf("fill.option_cap must be a positive integer")
	}
	if c.Fill.TypingDelay < 0 {
		return fmt.Errorf("fill.typing_delay must not be negative")
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Planner.APIKey != "" && c.Planner.Model == "" {
		return fmt.Errorf("planner.model is required when a planner API key is set")
	}
	return nil
}
