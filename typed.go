package leaf

import (
	"context"
	"fmt"
	"reflect"
)

// Resolve resolves the type key of T from s.
//
// Example:
//
//	svc, err := leaf.Resolve[*UserService](scope)
func Resolve[T any](s *Scope) (T, error) {
	return ResolveKeyContext[T](context.Background(), s, TypeKey[T]())
}

// ResolveContext is like Resolve with a parent context for tracing.
func ResolveContext[T any](ctx context.Context, s *Scope) (T, error) {
	return ResolveKeyContext[T](ctx, s, TypeKey[T]())
}

// ResolveKey resolves key from s and checks the result against T.
//
// Example:
//
//	db, err := leaf.ResolveKey[*sql.DB](scope, leaf.Qualifier[PrimaryDB]())
func ResolveKey[T any](s *Scope, key Key) (T, error) {
	return ResolveKeyContext[T](context.Background(), s, key)
}

// ResolveKeyContext is like ResolveKey with a parent context for tracing.
func ResolveKeyContext[T any](ctx context.Context, s *Scope, key Key) (T, error) {
	var zero T

	instance, err := s.ResolveContext(ctx, key, reflect.TypeFor[T]())
	if err != nil || instance == nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, &ResolutionError{
			Key:   key,
			Cause: fmt.Errorf("%w: %T is not %v", ErrTypeMismatch, instance, reflect.TypeFor[T]()),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
// Use this only during initialization when failure should crash the program.
func MustResolve[T any](s *Scope) T {
	instance, err := Resolve[T](s)
	if err != nil {
		panic(err)
	}
	return instance
}

// Instance registers instance under the type key of T.
//
// Example:
//
//	leaf.Instance[Clock](scope, systemClock{})
func Instance[T any](s *Scope, instance T) {
	s.PutInstance(TypeKey[T](), instance)
}

// ScopedClass registers T as a scoped class under its own type key.
func ScopedClass[T any](s *Scope) {
	s.PutScopedClassOf(reflect.TypeFor[T]())
}

// ScopedClassAs registers the class T as a scoped class under the type key of K.
//
// Example:
//
//	leaf.ScopedClassAs[Repository, *PostgresRepository](root)
func ScopedClassAs[K, T any](s *Scope) {
	s.PutScopedClass(TypeKey[K](), reflect.TypeFor[T]())
}

// Map registers a class mapping from the type key of K to the type key of T.
func Map[K, T any](s *Scope) {
	s.PutClassMapping(TypeKey[K](), TypeKey[T]())
}

// Provide registers fn as the provider of the type key of T.
//
// Example:
//
//	leaf.Provide(scope, func() (*Connection, error) {
//	    return pool.Acquire()
//	})
func Provide[T any](s *Scope, fn func() (T, error)) {
	ProvideKey(s, TypeKey[T](), fn)
}

// ProvideKey registers fn as the provider of key.
func ProvideKey[T any](s *Scope, key Key, fn func() (T, error)) {
	if fn == nil {
		panic(fmt.Sprintf("leaf: provider for %s cannot be nil", key))
	}
	s.PutProvider(key, func() (any, error) {
		instance, err := fn()
		if err != nil {
			return nil, err
		}
		return instance, nil
	})
}
