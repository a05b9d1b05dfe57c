// Package config loads contrastcheck settings from defaults, an optional
// config file, a .env file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CONTRASTCHECK_LOG_LEVEL.
const EnvPrefix = "CONTRASTCHECK"

// Name is the config file name searched for, without extension.
const Name = "contrastcheck"

// Config holds all settings.
type Config struct {
	// Policy is "standard" or "strict".
	Policy   string         `mapstructure:"policy" yaml:"policy" validate:"oneof=standard strict"`
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Watch    WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Document DocumentConfig `mapstructure:"document" yaml:"document"`
}

// EngineConfig bounds colour resolution.
type EngineConfig struct {
	MaxDepth          int `mapstructure:"max_depth" yaml:"max_depth" validate:"min=1,max=64"`
	ShortCircuitDepth int `mapstructure:"short_circuit_depth" yaml:"short_circuit_depth" validate:"min=0,ltefield=MaxDepth"`
	TextLimit         int `mapstructure:"text_limit" yaml:"text_limit" validate:"min=1"`
}

// LogConfig configures logging. Rotation settings only apply when File is set.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error off"`
	JSON       bool   `mapstructure:"json" yaml:"json"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age" validate:"min=0"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// WatchConfig configures the document watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" validate:"gte=0"`
}

// DocumentConfig limits document loading.
type DocumentConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" yaml:"max_bytes" validate:"min=1"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("policy", "standard")

	v.SetDefault("engine.max_depth", 10)
	v.SetDefault("engine.short_circuit_depth", 2)
	v.SetDefault("engine.text_limit", 100)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("watch.debounce", 250*time.Millisecond)

	v.SetDefault("document.max_bytes", int64(64*1024*1024))
}

// Default returns a Config populated with default values.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewViper returns a viper instance with defaults and environment binding set up.
// If cfgFile is empty, contrastcheck.yaml is looked up in the working directory
// and the user config directory; a missing file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Policy = strings.ToLower(strings.TrimSpace(cfg.Policy))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads environment variables from the given files, or .env in the
// working directory when none are given. Missing files are skipped and
// variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their config key rather than their Go name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, snake(fe.Param()))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
