// Package config loads the runtime settings of the toolchainctl and configd
// binaries. The toolchain configuration itself lives in configloader.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/mcuadros/go-defaults"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"toolchain_config/internal/pkg/logger"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TOOLCHAIN"

// Settings holds the runtime configuration of the binaries.
type Settings struct {
	Log        LogSettings       `mapstructure:"log"`
	Server     ServerSettings    `mapstructure:"server"`
	Preflight  PreflightSettings `mapstructure:"preflight"`
	Sourcify   SourcifySettings  `mapstructure:"sourcify"`
	DotenvPath string            `mapstructure:"dotenvPath" default:".env"`

	// Source is the settings file that was merged, empty when none was.
	Source string `mapstructure:"-"`
}

// LogSettings selects the logging backend.
type LogSettings struct {
	Level   string `mapstructure:"level" default:"INFO"`
	Backend string `mapstructure:"backend" default:"zap" validate:"oneof=zap slogzap logrus"`
	Format  string `mapstructure:"format" default:"json" validate:"oneof=json console"`
}

// ServerSettings holds the HTTP server configuration of configd.
type ServerSettings struct {
	ListenAddr     string        `mapstructure:"listenAddr" default:":8080" validate:"required"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout" default:"10s"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout" default:"60s"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout" default:"120s"`
	AllowedOrigins []string      `mapstructure:"allowedOrigins"`
}

// PreflightSettings tunes the preflight service and its RPC clients.
type PreflightSettings struct {
	Timeout           time.Duration `mapstructure:"timeout" default:"30s" validate:"gt=0"`
	Concurrency       int           `mapstructure:"concurrency" default:"4" validate:"gt=0"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond" default:"5" validate:"gt=0"`
	Burst             int           `mapstructure:"burst" default:"4" validate:"gt=0"`
	CacheTTL          time.Duration `mapstructure:"cacheTTL" default:"1m"`
	ConnectionTimeout time.Duration `mapstructure:"connectionTimeout" default:"10s" validate:"gt=0"`
	CallTimeout       time.Duration `mapstructure:"callTimeout" default:"10s" validate:"gt=0"`
}

// SourcifySettings points at the source-verification mirror.
type SourcifySettings struct {
	URL     string        `mapstructure:"url" default:"https://sourcify.dev/server" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" default:"10s" validate:"gt=0"`
}

// envOverrides lists the variables that override the settings file.
// Unset variables leave the corresponding pointer nil.
type envOverrides struct {
	SettingsFile         *string        `envconfig:"SETTINGS_FILE"`
	LogLevel             *string        `envconfig:"LOG_LEVEL"`
	LogBackend           *string        `envconfig:"LOG_BACKEND"`
	LogFormat            *string        `envconfig:"LOG_FORMAT"`
	ListenAddr           *string        `envconfig:"LISTEN_ADDR"`
	DotenvPath           *string        `envconfig:"DOTENV_PATH"`
	PreflightTimeout     *time.Duration `envconfig:"PREFLIGHT_TIMEOUT"`
	PreflightConcurrency *int           `envconfig:"PREFLIGHT_CONCURRENCY"`
	PreflightRPS         *float64       `envconfig:"PREFLIGHT_RPS"`
	PreflightCacheTTL    *time.Duration `envconfig:"PREFLIGHT_CACHE_TTL"`
	SourcifyURL          *string        `envconfig:"SOURCIFY_URL"`
}

// Default returns the settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	defaults.SetDefaults(s)
	return s
}

// Load builds the settings in three layers: struct defaults, then the optional
// settings file (path, or TOOLCHAIN_SETTINGS_FILE when path is empty), then
// TOOLCHAIN_* environment variables.
func Load(path string) (*Settings, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to parse %s_* environment: %w", EnvPrefix, err)
	}
	if path == "" && env.SettingsFile != nil {
		path = *env.SettingsFile
	}

	s := Default()
	if path != "" {
		if err := s.mergeFile(path); err != nil {
			return nil, err
		}
	}
	env.apply(s)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) mergeFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(s, hook); err != nil {
		return fmt.Errorf("failed to decode settings file %s: %w", path, err)
	}
	s.Source = path
	return nil
}

func (e envOverrides) apply(s *Settings) {
	if e.LogLevel != nil {
		s.Log.Level = *e.LogLevel
	}
	if e.LogBackend != nil {
		s.Log.Backend = *e.LogBackend
	}
	if e.LogFormat != nil {
		s.Log.Format = *e.LogFormat
	}
	if e.ListenAddr != nil {
		s.Server.ListenAddr = *e.ListenAddr
	}
	if e.DotenvPath != nil {
		s.DotenvPath = *e.DotenvPath
	}
	if e.PreflightTimeout != nil {
		s.Preflight.Timeout = *e.PreflightTimeout
	}
	if e.PreflightConcurrency != nil {
		s.Preflight.Concurrency = *e.PreflightConcurrency
	}
	if e.PreflightRPS != nil {
		s.Preflight.RequestsPerSecond = *e.PreflightRPS
	}
	if e.PreflightCacheTTL != nil {
		s.Preflight.CacheTTL = *e.PreflightCacheTTL
	}
	if e.SourcifyURL != nil {
		s.Sourcify.URL = *e.SourcifyURL
	}
}

// Validate checks the settings after all layers are applied.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// LoggerOptions maps the log settings onto logger.Options.
func (s *Settings) LoggerOptions() logger.Options {
	return logger.Options{Level: s.Log.Level, Backend: s.Log.Backend, Format: s.Log.Format}
}
