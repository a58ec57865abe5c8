// Package config loads the settings of a leaf scope tree and the ambient
// services around it (logging, tracing) from a file and the environment.
package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	leaf "github.com/toutaio/toutago-leaf"
)

// Config is the root configuration.
type Config struct {
	CycleDetection leaf.CycleDetection `mapstructure:"cycle_detection"`
	Log            LogConfig           `mapstructure:"log"`
	Telemetry      TelemetryConfig     `mapstructure:"telemetry"`
}

// LogConfig configures the zap logger built by NewLogger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	Encoding    string `mapstructure:"encoding"` // json or console
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Tracing     bool   `mapstructure:"tracing"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		CycleDetection: leaf.CycleStrict,
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "leaf",
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CycleDetection, validation.Required, validation.In(leaf.CycleStrict, leaf.CycleNarrow)),
		validation.Field(&c.Log),
		validation.Field(&c.Telemetry),
	)
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Encoding, validation.Required, validation.In("json", "console")),
	)
}

func (c TelemetryConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ServiceName, validation.When(c.Tracing, validation.Required)),
	)
}

// Options converts the configuration into factory options. A nil logger
// keeps the factory default.
func (c Config) Options(logger *zap.Logger) []leaf.Option {
	opts := []leaf.Option{
		leaf.WithConfig(leaf.Config{CycleDetection: c.CycleDetection}),
	}
	if logger != nil {
		opts = append(opts, leaf.WithLogger(logger))
	}
	return opts
}
