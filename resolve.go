package leaf

import (
	"context"
	"fmt"
	"reflect"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Resolve returns the instance registered or constructible under key.
// expected, when non-nil, is the type the result must be assignable to.
//
// Lookup walks from the root of the scope chain down to s. At every scope it
// checks, in order, the instance cache, the scoped classes (built and cached at
// that scope on first use) and the class mappings (the chain is searched again
// under the mapped key). If no scope yields a value, s itself falls back to its
// providers, then its mappings, then to constructing the key's type from the
// catalog, resolving every constructor parameter through s.
//
// Every failure is returned as a *ResolutionError.
func (s *Scope) Resolve(key Key, expected reflect.Type) (any, error) {
	return s.ResolveContext(context.Background(), key, expected)
}

// ResolveContext is like Resolve. Spans of the resolution are children of the
// span in ctx; ctx does not cancel anything.
func (s *Scope) ResolveContext(ctx context.Context, key Key, expected reflect.Type) (any, error) {
	if key.IsZero() {
		return nil, &ResolutionError{Key: key, Cause: fmt.Errorf("%w: zero key", ErrUnknownKey)}
	}

	res := newResolution(ctx, s.env.cycles)
	instance, err := s.resolve(res, key, expected)
	if err != nil {
		s.logger.Debug("resolution failed", zap.Stringer("key", key), zap.Error(err))
		return nil, err
	}
	return instance, nil
}

// resolve is the boundary every nested resolution re-enters through.
func (s *Scope) resolve(res *resolution, key Key, expected reflect.Type) (instance any, err error) {
	ctx, span := s.env.telemetry.startResolve(res.ctx, s.id, key)
	outer := res.ctx
	res.ctx = ctx

	defer func() {
		res.ctx = outer
		if err != nil {
			instance = nil
			err = &ResolutionError{Key: key, Cause: err}
		}
		s.env.telemetry.endResolve(ctx, span, err)
	}()

	instance, found, err := s.lookup(res, key)
	if err != nil {
		return nil, err
	}

	if !found {
		instance, err = s.instantiate(res, key)
		if err != nil {
			return nil, err
		}
	}

	if err := checkAssignable(instance, expected); err != nil {
		return nil, err
	}
	return instance, nil
}

// lookup searches the ancestors of s first, then s itself.
func (s *Scope) lookup(res *resolution, key Key) (any, bool, error) {
	if s.parent != nil {
		instance, found, err := s.parent.lookup(res, key)
		if err != nil || found {
			return instance, found, err
		}
	}

	if instance, ok := s.instances.Get(key); ok {
		return instance, true, nil
	}

	if class, ok := s.scopedClasses.Get(key); ok {
		instance, err := s.materialize(res, key, class)
		if err != nil {
			return nil, false, err
		}
		return instance, true, nil
	}

	if target, ok := s.mappings.Get(key); ok {
		leave, err := res.enter(s, stepLookupMapping, key)
		if err != nil {
			return nil, false, err
		}
		defer leave()

		return s.lookup(res, target)
	}

	return nil, false, nil
}

// materialize builds the scoped class registered under key in s and caches it
// in s. Providers, mappings and constructor parameters are resolved through s.
func (s *Scope) materialize(res *resolution, key Key, class reflect.Type) (any, error) {
	leave, err := res.enter(s, stepMaterialize, key)
	if err != nil {
		return nil, err
	}
	defer leave()

	instance, err := s.instantiate(res, KeyOf(class))
	if err != nil {
		return nil, err
	}

	if s.instances.Has(key) {
		return nil, &CircularDependencyError{Key: key}
	}

	s.instances.Put(key, instance)
	s.logger.Debug("scoped class materialized",
		zap.Stringer("key", key),
		zap.Stringer("class", class))

	return instance, nil
}

// instantiate builds key from the registries of s alone.
func (s *Scope) instantiate(res *resolution, key Key) (any, error) {
	if provider, ok := s.providers.Get(key); ok {
		return s.callProvider(res, key, provider)
	}

	if target, ok := s.mappings.Get(key); ok {
		leave, err := res.enter(s, stepInstantiateMapping, key)
		if err != nil {
			return nil, err
		}
		defer leave()

		return s.instantiate(res, target)
	}

	if key.IsType() {
		return s.construct(res, key.Type())
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

func (s *Scope) callProvider(res *resolution, key Key, provider Provider) (instance any, err error) {
	s.env.telemetry.providerCalls.Add(res.ctx, 1,
		metric.WithAttributes(attribute.String("leaf.key", key.String())))
	s.logger.Debug("invoking provider", zap.Stringer("key", key))

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("%w: %s panicked: %v", ErrProviderFailed, key, r)
		}
	}()

	instance, err = provider()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProviderFailed, key, err)
	}
	return instance, nil
}

// construct builds t with the constructor the catalog selects for it.
func (s *Scope) construct(res *resolution, t reflect.Type) (any, error) {
	ctor, err := s.env.catalog.constructorFor(t)
	if err != nil {
		return nil, err
	}

	leave, err := res.enter(s, stepConstruct, KeyOf(t))
	if err != nil {
		return nil, err
	}
	defer leave()

	args := make([]any, len(ctor.params))
	for i, param := range ctor.params {
		arg, err := s.resolve(res, param.Key, param.expected())
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	s.env.telemetry.constructions.Add(res.ctx, 1,
		metric.WithAttributes(attribute.String("leaf.type", t.String())))
	s.logger.Debug("constructing",
		zap.Stringer("type", t),
		zap.Stringer("constructor", ctor))

	return ctor.invoke(args)
}

func checkAssignable(instance any, expected reflect.Type) error {
	if expected == nil {
		return nil
	}
	if instance == nil {
		if !nillable(expected) {
			return fmt.Errorf("%w: nil is not assignable to %v", ErrTypeMismatch, expected)
		}
		return nil
	}

	actual := reflect.TypeOf(instance)
	if !actual.AssignableTo(expected) {
		return fmt.Errorf("%w: %v is not assignable to %v", ErrTypeMismatch, actual, expected)
	}
	return nil
}

// nillable reports whether t can hold nil.
func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

type step uint8

const (
	stepConstruct step = iota + 1
	stepMaterialize
	stepLookupMapping
	stepInstantiateMapping
)

type mark struct {
	scope *Scope
	step  step
	key   Key
}

// resolution carries the state of one top-level Resolve call.
type resolution struct {
	ctx    context.Context
	strict bool
	active map[mark]bool
	trail  []mark
}

func newResolution(ctx context.Context, mode CycleDetection) *resolution {
	return &resolution{
		ctx:    ctx,
		strict: mode != CycleNarrow,
		active: make(map[mark]bool),
	}
}

func noop() {}

// enter marks a step as in progress. In strict mode, entering a step that is
// already in progress fails with a *CircularDependencyError.
func (r *resolution) enter(s *Scope, st step, key Key) (func(), error) {
	if !r.strict {
		return noop, nil
	}

	m := mark{scope: s, step: st, key: key}
	if r.active[m] {
		return nil, &CircularDependencyError{Key: key, Path: r.cycle(m)}
	}

	r.active[m] = true
	r.trail = append(r.trail, m)

	return func() {
		delete(r.active, m)
		r.trail = r.trail[:len(r.trail)-1]
	}, nil
}

// cycle returns the keys from the first occurrence of m up to its re-entry.
func (r *resolution) cycle(m mark) []Key {
	for i, entry := range r.trail {
		if entry != m {
			continue
		}
		path := make([]Key, 0, len(r.trail)-i+1)
		for _, e := range r.trail[i:] {
			path = append(path, e.key)
		}
		return append(path, m.key)
	}
	return []Key{m.key}
}
