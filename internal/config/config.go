// Package config loads vax-slots settings from defaults, an optional YAML file,
// VAXSLOTS_* environment variables, and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pfrederiksen/vax-slots/internal/filter"
	"github.com/pfrederiksen/vax-slots/internal/logger"
	"github.com/pfrederiksen/vax-slots/internal/scraper"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "VAXSLOTS"
	ConfigName = ".vax-slots"

	DefaultMinInterval = 50 * time.Second
	DefaultMaxInterval = 120 * time.Second
)

// Keys shared by viper, the config file, and the flag set
const (
	KeyConfig      = "config"
	KeyURL         = "url"
	KeyRegions     = "regions"
	KeyMinInterval = "min_interval"
	KeyMaxInterval = "max_interval"
	KeyTimeout     = "timeout"
	KeyUserAgent   = "user_agent"
	KeyAction      = "action"
	KeyFormat      = "format"
	KeyLogFormat   = "log_format"
	KeyLogLevel    = "log_level"
	KeyDebug       = "debug"
	KeyOnce        = "once"
	KeyNoColor     = "no_color"
)

// Config holds the resolved settings for one run
type Config struct {
	URL         string        `mapstructure:"url" validate:"required,url"`
	Regions     []string      `mapstructure:"regions" validate:"min=1,dive,required"`
	MinInterval time.Duration `mapstructure:"min_interval" validate:"gt=0"`
	MaxInterval time.Duration `mapstructure:"max_interval" validate:"gtefield=MinInterval"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent   string        `mapstructure:"user_agent" validate:"required"`
	Action      string        `mapstructure:"action" validate:"oneof=browser twitter telegram dry-run none"`
	Format      string        `mapstructure:"format" validate:"oneof=text json"`
	LogFormat   string        `mapstructure:"log_format" validate:"oneof=text json"`
	LogLevel    string        `mapstructure:"log_level"`
	Debug       bool          `mapstructure:"debug"`
	Once        bool          `mapstructure:"once"`
	NoColor     bool          `mapstructure:"no_color"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyURL, scraper.BookableTimesURL)
	v.SetDefault(KeyRegions, filter.DefaultRegions)
	v.SetDefault(KeyMinInterval, DefaultMinInterval)
	v.SetDefault(KeyMaxInterval, DefaultMaxInterval)
	v.SetDefault(KeyTimeout, scraper.Timeout)
	v.SetDefault(KeyUserAgent, scraper.UserAgent)
	v.SetDefault(KeyAction, "browser")
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyOnce, false)
	v.SetDefault(KeyNoColor, false)
}

// BindFlags binds each flag in fs to the viper key of the same name with
// dashes replaced by underscores ("min-interval" -> "min_interval").
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("binding flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Load reads the config file and environment into v and returns the validated result.
// A missing config file is not an error unless one was named explicitly.
func Load(v *viper.Viper) (*Config, error) {
	if cfgFile := v.GetString(KeyConfig); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

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

// Validate checks the config against its field constraints
func (c *Config) Validate() error {
	var msgs []string

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		for _, e := range verrs {
			msgs = append(msgs, formatValidationError(e))
		}
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		msgs = append(msgs, fmt.Sprintf("LogLevel must be one of [debug info warn error], got %q", c.LogLevel))
	}

	if len(msgs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Level returns the configured log level. Debug forces LevelDebug.
func (c *Config) Level() logger.Level {
	if c.Debug {
		return logger.LevelDebug
	}
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

func formatValidationError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", field, e.Value())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, e.Tag())
	}
}

// AllowList returns the configured regions as an allow-list
func (c *Config) AllowList() *filter.AllowList {
	return filter.NewAllowList(c.Regions...)
}

// ScraperOptions returns the fetch settings for the scraper
func (c *Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		URL:       c.URL,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
	}
}
