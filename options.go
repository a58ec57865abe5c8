package leaf

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option is a function that configures a Factory.
type Option func(*Factory) error

// Config holds the settings that can be loaded from configuration files.
// See the config package for a viper-backed loader.
type Config struct {
	CycleDetection CycleDetection `mapstructure:"cycle_detection"`
}

// WithConfig applies a loaded Config. Empty fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(f *Factory) error {
		if cfg.CycleDetection != "" {
			return WithCycleDetection(cfg.CycleDetection)(f)
		}
		return nil
	}
}

// WithLogger sets the logger scopes write debug records to.
// The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		f.logger = logger
		return nil
	}
}

// WithCatalog sets the constructor catalog shared by the scope tree.
func WithCatalog(catalog *Catalog) Option {
	return func(f *Factory) error {
		if catalog == nil {
			return fmt.Errorf("catalog cannot be nil")
		}
		f.catalog = catalog
		return nil
	}
}

// WithTracerProvider enables one span per resolve call.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(f *Factory) error {
		if tp == nil {
			return fmt.Errorf("tracer provider cannot be nil")
		}
		f.tracerProvider = tp
		return nil
	}
}

// WithMeterProvider enables the resolution, construction and provider counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(f *Factory) error {
		if mp == nil {
			return fmt.Errorf("meter provider cannot be nil")
		}
		f.meterProvider = mp
		return nil
	}
}

// WithCycleDetection selects the cycle detection mode. CycleStrict is the default.
func WithCycleDetection(mode CycleDetection) Option {
	return func(f *Factory) error {
		switch mode {
		case CycleStrict, CycleNarrow:
			f.cycles = mode
			return nil
		default:
			return fmt.Errorf("unknown cycle detection mode %q", mode)
		}
	}
}
