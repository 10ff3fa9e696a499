// Package config loads token-inspector settings from defaults, an optional
// config file, TOKEN_INSPECTOR_* environment variables and bound flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hellenic-development/token-inspector/pkg/acquire"
	"github.com/hellenic-development/token-inspector/pkg/token"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TOKEN_INSPECTOR_RENDER_ENGINE for render.engine.
const EnvPrefix = "TOKEN_INSPECTOR"

// Render engines.
const (
	EngineStatic  = "static"
	EngineBrowser = "browser"
)

// Config is the complete configuration.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	Acquisition AcquisitionConfig `mapstructure:"acquisition"`
	Extraction  ExtractionConfig  `mapstructure:"extraction"`
	Render      RenderConfig      `mapstructure:"render"`
	Assets      AssetsConfig      `mapstructure:"assets"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // pretty, console or json
	LogFile    string `mapstructure:"log_file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

type AcquisitionConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	Proxies      []string      `mapstructure:"proxies"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxPageBytes int64         `mapstructure:"max_page_bytes"`
	Favicon      bool          `mapstructure:"favicon"`
}

type ExtractionConfig struct {
	MaxElements int      `mapstructure:"max_elements"`
	Categories  []string `mapstructure:"categories"`
	TextStyles  bool     `mapstructure:"text_styles"`
}

type RenderConfig struct {
	Engine          string        `mapstructure:"engine"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	Headless        bool          `mapstructure:"headless"`
	ExecPath        string        `mapstructure:"exec_path"`
	ViewportWidth   int           `mapstructure:"viewport_width"`
	ViewportHeight  int           `mapstructure:"viewport_height"`
	StylesheetCache int           `mapstructure:"stylesheet_cache"`
}

type AssetsConfig struct {
	Dir         string        `mapstructure:"dir"`
	Concurrency int           `mapstructure:"concurrency"`
	Interval    time.Duration `mapstructure:"interval"`
}

// SetDefaults registers every key with its default value. Keys unknown to
// viper are not read from the environment, so every setting needs one.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "pretty")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)

	// -- Acquisition --
	v.SetDefault("acquisition.timeout", acquire.DefaultTimeout)
	v.SetDefault("acquisition.proxies", acquire.DefaultProxies)
	v.SetDefault("acquisition.user_agent", acquire.DefaultUserAgent)
	v.SetDefault("acquisition.max_page_bytes", acquire.DefaultMaxBytes)
	v.SetDefault("acquisition.favicon", true)

	// -- Extraction --
	v.SetDefault("extraction.max_elements", 1000)
	v.SetDefault("extraction.categories", []string{"all"})
	v.SetDefault("extraction.text_styles", true)

	// -- Render --
	v.SetDefault("render.engine", EngineStatic)
	v.SetDefault("render.settle_delay", "500ms")
	v.SetDefault("render.headless", true)
	v.SetDefault("render.exec_path", "")
	v.SetDefault("render.viewport_width", 1280)
	v.SetDefault("render.viewport_height", 1024)
	v.SetDefault("render.stylesheet_cache", 64)

	// -- Assets --
	v.SetDefault("assets.dir", "assets")
	v.SetDefault("assets.concurrency", 4)
	v.SetDefault("assets.interval", "300ms")
}

// Load reads the configuration. file may be empty; a file that is named
// but cannot be read is an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the defaults overlaid with TOKEN_INSPECTOR_* environment
// variables. It fails when the environment holds an invalid value.
func Default() (*Config, error) {
	return Load(viper.New(), "")
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "pretty", "console", "json":
	default:
		return fmt.Errorf("logger.format must be pretty, console or json, got %q", c.Logger.Format)
	}
	if c.Acquisition.Timeout <= 0 {
		return fmt.Errorf("acquisition.timeout must be positive")
	}
	if c.Acquisition.MaxPageBytes <= 0 {
		return fmt.Errorf("acquisition.max_page_bytes must be positive")
	}
	if c.Extraction.MaxElements <= 0 {
		return fmt.Errorf("extraction.max_elements must be a positive integer")
	}
	if _, err := c.Categories(); err != nil {
		return fmt.Errorf("extraction.categories: %w", err)
	}
	switch c.Render.Engine {
	case EngineStatic, EngineBrowser:
	default:
		return fmt.Errorf("render.engine must be %s or %s, got %q", EngineStatic, EngineBrowser, c.Render.Engine)
	}
	if c.Render.ViewportWidth <= 0 || c.Render.ViewportHeight <= 0 {
		return fmt.Errorf("render viewport must be positive")
	}
	if c.Assets.Concurrency <= 0 {
		return fmt.Errorf("assets.concurrency must be a positive integer")
	}
	return nil
}

// Categories parses extraction.categories.
func (c *Config) Categories() ([]token.Category, error) {
	return token.ParseCategories(strings.Join(c.Extraction.Categories, ","))
}
