package leaf

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/toutaio/toutago-leaf/registry"
)

// Scope is a node in a tree of resolution contexts. It owns four registries
// and references its parent, never its children.
//
// Lookups give precedence to the outermost ancestor: when the same key is
// registered in a scope and in one of its ancestors, the ancestor's
// registration wins.
//
// A Scope is not safe for concurrent use. Registrations and resolutions
// against the same scope tree must be serialized by the caller.
//
// Example:
//
//	root := leaf.New()
//	root.PutScopedClassOf(reflect.TypeFor[*Database]())
//
//	request := root.NewChild()
//	request.PutInstance(leaf.Named("request.id"), "42")
//	handler, err := leaf.Resolve[*Handler](request)
type Scope struct {
	id     string
	parent *Scope
	env    *environment
	logger *zap.Logger

	instances     *registry.Table[Key, any]
	scopedClasses *registry.Table[Key, reflect.Type]
	mappings      *registry.Table[Key, Key]
	providers     *registry.Table[Key, Provider]
}

func newScope(env *environment, parent *Scope) *Scope {
	id := uuid.NewString()
	return &Scope{
		id:            id,
		parent:        parent,
		env:           env,
		logger:        env.logger.With(zap.String("scope_id", id)),
		instances:     registry.New[Key, any](KindInstance.String()),
		scopedClasses: registry.New[Key, reflect.Type](KindScopedClass.String()),
		mappings:      registry.New[Key, Key](KindMapping.String()),
		providers:     registry.New[Key, Provider](KindProvider.String()),
	}
}

// NewChild creates a scope whose parent is s. The child shares the
// environment (catalog, logger, telemetry, cycle detection) of s.
func (s *Scope) NewChild() *Scope {
	child := newScope(s.env, s)
	s.logger.Debug("child scope created", zap.String("child_id", child.id))
	return child
}

// ID returns the random identifier assigned at creation.
func (s *Scope) ID() string {
	return s.id
}

// Parent returns the parent scope, nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Root returns the outermost ancestor of s, s itself for a root scope.
func (s *Scope) Root() *Scope {
	root := s
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Depth returns the number of ancestors of s.
func (s *Scope) Depth() int {
	depth := 0
	for p := s.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Catalog returns the constructor catalog of the scope tree.
func (s *Scope) Catalog() *Catalog {
	return s.env.catalog
}

// PutInstance registers an already-built instance under key.
// Panics if key is the zero Key or instance is nil.
func (s *Scope) PutInstance(key Key, instance any) {
	mustBeValid(key)
	if instance == nil {
		panic(fmt.Sprintf("leaf: instance for %s cannot be nil", key))
	}
	s.instances.Put(key, instance)
}

// PutInstanceOf registers an instance under the key of its runtime type.
func (s *Scope) PutInstanceOf(instance any) {
	if instance == nil {
		panic("leaf: instance cannot be nil")
	}
	s.PutInstance(KeyOf(reflect.TypeOf(instance)), instance)
}

// PutScopedClass registers class under key. The first resolution of key that
// reaches this scope builds one instance of class and caches it here.
func (s *Scope) PutScopedClass(key Key, class reflect.Type) {
	mustBeValid(key)
	if class == nil {
		panic(fmt.Sprintf("leaf: scoped class for %s cannot be nil", key))
	}
	s.scopedClasses.Put(key, class)
}

// PutScopedClassOf registers class as a scoped class under its own type key.
func (s *Scope) PutScopedClassOf(class reflect.Type) {
	s.PutScopedClass(KeyOf(class), class)
}

// PutClassMapping redirects key to target: resolving key yields what
// resolving target would.
func (s *Scope) PutClassMapping(key, target Key) {
	mustBeValid(key)
	mustBeValid(target)
	s.mappings.Put(key, target)
}

// PutProvider registers a factory invoked on every resolution of key.
func (s *Scope) PutProvider(key Key, provider Provider) {
	mustBeValid(key)
	if provider == nil {
		panic(fmt.Sprintf("leaf: provider for %s cannot be nil", key))
	}
	s.providers.Put(key, provider)
}

// Has reports whether the registry of the given kind in s, ancestors
// excluded, holds key.
func (s *Scope) Has(kind Kind, key Key) bool {
	switch kind {
	case KindInstance:
		return s.instances.Has(key)
	case KindScopedClass:
		return s.scopedClasses.Has(key)
	case KindMapping:
		return s.mappings.Has(key)
	case KindProvider:
		return s.providers.Has(key)
	default:
		return false
	}
}

// Keys returns the keys held by the registry of the given kind in s.
func (s *Scope) Keys(kind Kind) []Key {
	switch kind {
	case KindInstance:
		return s.instances.Keys()
	case KindScopedClass:
		return s.scopedClasses.Keys()
	case KindMapping:
		return s.mappings.Keys()
	case KindProvider:
		return s.providers.Keys()
	default:
		return nil
	}
}

// Validate checks, without building anything, that every scoped class
// registered in s and its ancestors has a usable constructor.
func (s *Scope) Validate() error {
	var errs []error
	for scope := s; scope != nil; scope = scope.parent {
		for _, key := range scope.scopedClasses.Keys() {
			class, _ := scope.scopedClasses.Get(key)
			if scope.providers.Has(KeyOf(class)) || scope.mappings.Has(KeyOf(class)) {
				continue
			}
			if _, err := s.env.catalog.constructorFor(class); err != nil {
				errs = append(errs, fmt.Errorf("scoped class %s in scope %s: %w", key, scope.id, err))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func mustBeValid(key Key) {
	if key.IsZero() {
		panic("leaf: key cannot be the zero Key")
	}
}
