// Package dobridge connects a leaf scope to a samber/do injector.
//
// Services owned by the injector can be exposed to the scope as providers,
// and scope resolutions can be exposed to the injector as lazy services, so
// both containers can coexist in one application.
package dobridge

import (
	"github.com/samber/do/v2"

	leaf "github.com/toutaio/toutago-leaf"
)

// Bridge links a scope and an injector.
type Bridge struct {
	scope    *leaf.Scope
	injector do.Injector
}

// New creates a bridge. Panics if scope or injector is nil.
func New(scope *leaf.Scope, injector do.Injector) *Bridge {
	if scope == nil {
		panic("dobridge: scope cannot be nil")
	}
	if injector == nil {
		panic("dobridge: injector cannot be nil")
	}
	return &Bridge{scope: scope, injector: injector}
}

// Scope returns the bridged scope.
func (b *Bridge) Scope() *leaf.Scope {
	return b.scope
}

// Injector returns the bridged injector.
func (b *Bridge) Injector() do.Injector {
	return b.injector
}

// ProvideFromInjector registers a provider for the type key of T on the
// scope. Each resolution invokes T from the injector, which builds it once
// and caches it on its side.
//
// Example:
//
//	do.Provide(injector, NewMetricsClient)
//	dobridge.ProvideFromInjector[*MetricsClient](bridge)
//	client, err := leaf.Resolve[*MetricsClient](bridge.Scope())
func ProvideFromInjector[T any](b *Bridge) {
	leaf.Provide(b.scope, func() (T, error) {
		return do.Invoke[T](b.injector)
	})
}

// ProvideNamedFromInjector registers a provider under key that invokes the
// service called name from the injector.
func ProvideNamedFromInjector[T any](b *Bridge, key leaf.Key, name string) {
	leaf.ProvideKey(b.scope, key, func() (T, error) {
		return do.InvokeNamed[T](b.injector, name)
	})
}

// ProvideToInjector declares T in the injector, built by resolving the type
// key of T from the scope on first invocation.
func ProvideToInjector[T any](b *Bridge) {
	do.Provide(b.injector, func(do.Injector) (T, error) {
		return leaf.Resolve[T](b.scope)
	})
}

// ProvideKeyToInjector declares the service called name in the injector,
// built by resolving key from the scope on first invocation.
func ProvideKeyToInjector[T any](b *Bridge, key leaf.Key, name string) {
	do.ProvideNamed(b.injector, name, func(do.Injector) (T, error) {
		return leaf.ResolveKey[T](b.scope, key)
	})
}

// Invoke resolves T from the injector.
func Invoke[T any](b *Bridge) (T, error) {
	return do.Invoke[T](b.injector)
}

// InvokeNamed resolves the service called name from the injector.
func InvokeNamed[T any](b *Bridge, name string) (T, error) {
	return do.InvokeNamed[T](b.injector, name)
}
