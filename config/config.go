// Package config loads SDK configuration from layered sources: built-in
// defaults, an optional zendra.yaml file, an optional .env file, and
// process environment variables with the ZENDRA_ prefix, in ascending
// priority.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ZENDRA_"

// Config holds the SDK configuration.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Log     LogConfig     `koanf:"log"`
	Retry   RetryConfig   `koanf:"retry"`
	Rate    RateConfig    `koanf:"rate"`
	Timeout time.Duration `koanf:"timeout"`
	Debug   bool          `koanf:"debug"`
}

// APIConfig identifies the platform endpoint and credentials.
type APIConfig struct {
	URL string `koanf:"url" validate:"required,url"`
	Key string `koanf:"key" validate:"required"`
}

// LogConfig controls SDK logging output.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty"`
}

// RetryConfig mirrors the core retry knobs. Durations accept Go syntax
// ("1s", "500ms").
type RetryConfig struct {
	MaxRetries     int           `koanf:"maxretries" validate:"min=0"`
	Statuses       []int         `koanf:"statuses"`
	OnNetworkError bool          `koanf:"onnetworkerror"`
	OnTimeout      bool          `koanf:"ontimeout"`
	OnCancel       bool          `koanf:"oncancel"`
	InitialDelay   time.Duration `koanf:"initialdelay" validate:"min=0"`
	MaxDelay       time.Duration `koanf:"maxdelay" validate:"min=0"`
	Multiplier     float64       `koanf:"multiplier" validate:"min=0"`
	Jitter         float64       `koanf:"jitter" validate:"min=0,max=1"`
}

// RateConfig configures the optional client-side throttle. Zero disables it.
type RateConfig struct {
	RequestsPerSecond float64 `koanf:"requestspersecond" validate:"min=0"`
	Burst             int     `koanf:"burst" validate:"min=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads configuration with priority:
// 1. Environment variables (highest)
// 2. .env file entries
// 3. zendra.yaml
// 4. Default values (lowest)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	// zendra.yaml is optional, but a present-and-malformed file is an error,
	// not a silent fallback to defaults.
	if err := k.Load(file.Provider("zendra.yaml"), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, newInvalidError("", "could not load zendra.yaml", err.Error())
	}

	// .env entries become process env vars so the env provider sees them;
	// godotenv never overrides variables that are already set.
	_ = godotenv.Load()

	if err := loadEnv(k); err != nil {
		return nil, err
	}

	return finish(k)
}

// LoadBytes loads configuration from in-memory YAML over the defaults,
// then applies environment variables. Intended for tests and embedded
// configuration.
func LoadBytes(b []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}
	if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
		return nil, newInvalidError("", "could not parse configuration bytes", err.Error())
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	return finish(k)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"api.url": "https://api.zendra.io/v1",

		"timeout": "30s",
		"debug":   false,

		"log.level":  "info",
		"log.pretty": false,

		"retry.maxretries":     3,
		"retry.statuses":       []int{429, 500, 502, 503, 504},
		"retry.onnetworkerror": true,
		"retry.ontimeout":      true,
		"retry.oncancel":       true,
		"retry.initialdelay":   "1s",
		"retry.maxdelay":       "30s",
		"retry.multiplier":     2.0,
		"retry.jitter":         0.25,

		"rate.requestspersecond": 0.0,
		"rate.burst":             0,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return newInvalidError("", "could not load default configuration", err.Error())
	}
	return nil
}

func loadEnv(k *koanf.Koanf) error {
	err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// ZENDRA_API_KEY -> api.key
			key = strings.TrimPrefix(key, envPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil)
	if err != nil {
		return newInvalidError("", "could not load environment variables", err.Error())
	}
	return nil
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, newInvalidError("", "could not unmarshal configuration", err.Error())
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration, returning a *ConfigError naming the
// first offending field.
func Validate(cfg *Config) error {
	if cfg.API.Key == "" {
		return newMissingError("api.key", "API key is not configured",
			"set ZENDRA_API_KEY or api.key in zendra.yaml")
	}
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return newInvalidError(strings.ToLower(fe.Namespace()),
				"failed validation on '"+fe.Tag()+"'", "")
		}
		return newInvalidError("", "configuration is invalid", err.Error())
	}
	return nil
}
