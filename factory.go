package leaf

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// environment is the configuration shared by every scope of a tree.
type environment struct {
	catalog   *Catalog
	logger    *zap.Logger
	telemetry *telemetry
	cycles    CycleDetection
}

// Factory creates root scopes and child scopes.
//
// Example:
//
//	factory := leaf.NewFactory(leaf.WithLogger(logger))
//	root := factory.NewRoot()
//	request := factory.NewChild(root)
type Factory struct {
	catalog        *Catalog
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	cycles         CycleDetection

	env *environment
}

// NewFactory creates a factory. Options configure the environment every scope
// created by it shares.
// Panics if an option fails, mirroring a misconfiguration at startup.
func NewFactory(options ...Option) *Factory {
	f := &Factory{
		catalog:        NewCatalog(),
		logger:         zap.NewNop(),
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
		cycles:         CycleStrict,
	}

	for _, opt := range options {
		if err := opt(f); err != nil {
			panic(fmt.Sprintf("failed to apply option: %v", err))
		}
	}

	tel, err := newTelemetry(f.tracerProvider, f.meterProvider)
	if err != nil {
		panic(fmt.Sprintf("failed to create instruments: %v", err))
	}

	f.env = &environment{
		catalog:   f.catalog,
		logger:    f.logger.Named("leaf"),
		telemetry: tel,
		cycles:    f.cycles,
	}

	return f
}

// New creates a root scope with a fresh factory.
//
// Example:
//
//	scope := leaf.New()
//	svc, err := leaf.Resolve[*UserService](scope)
func New(options ...Option) *Scope {
	return NewFactory(options...).NewRoot()
}

// Catalog returns the constructor catalog shared by the factory's scopes.
func (f *Factory) Catalog() *Catalog {
	return f.catalog
}

// NewRoot creates a scope without a parent.
func (f *Factory) NewRoot() *Scope {
	s := newScope(f.env, nil)
	s.env.logger.Debug("root scope created", zap.String("scope_id", s.id))
	return s
}

// NewChild creates a scope whose parent is parent. See Scope.NewChild.
func (f *Factory) NewChild(parent *Scope) *Scope {
	if parent == nil {
		panic("leaf: parent scope cannot be nil")
	}
	return parent.NewChild()
}
