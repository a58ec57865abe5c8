package leaf

import (
	"reflect"
	"strconv"
)

type keyKind uint8

const (
	typeKey keyKind = iota + 1
	qualifierKey
	nameKey
)

// Key identifies a dependency. A key is one of three forms that share the same
// registries: a type key, a qualifier key or a name key. Keys are comparable
// values, so two keys built from the same type or name are equal.
//
// The zero Key is invalid and is rejected by every registration method.
type Key struct {
	kind keyKind
	typ  reflect.Type
	name string
}

// TypeKey returns the key for the static type T.
//
// Example:
//
//	scope.PutClassMapping(leaf.TypeKey[Logger](), leaf.TypeKey[*ConsoleLogger]())
func TypeKey[T any]() Key {
	return KeyOf(reflect.TypeFor[T]())
}

// KeyOf returns the type key for t. It panics if t is nil.
func KeyOf(t reflect.Type) Key {
	if t == nil {
		panic("leaf: cannot build a key for a nil type")
	}
	return Key{kind: typeKey, typ: t}
}

// Qualifier returns the qualifier key identified by the marker type Q.
// Marker types are usually empty structs declared for this purpose only:
//
//	type PrimaryDB struct{}
//
//	scope.PutInstance(leaf.Qualifier[PrimaryDB](), db)
//
// A qualifier key never equals the type key of the same type.
func Qualifier[Q any]() Key {
	return Key{kind: qualifierKey, typ: reflect.TypeFor[Q]()}
}

// Named returns the key for a plain string name.
func Named(name string) Key {
	return Key{kind: nameKey, name: name}
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.kind == 0
}

// IsType reports whether k is a type key, the only form that can be
// constructed directly.
func (k Key) IsType() bool {
	return k.kind == typeKey
}

// IsQualifier reports whether k is a qualifier key.
func (k Key) IsQualifier() bool {
	return k.kind == qualifierKey
}

// IsName reports whether k is a name key.
func (k Key) IsName() bool {
	return k.kind == nameKey
}

// Type returns the type behind a type or qualifier key, nil for name keys.
func (k Key) Type() reflect.Type {
	return k.typ
}

// Name returns the name of a name key, "" otherwise.
func (k Key) Name() string {
	return k.name
}

// String renders type keys as the type, qualifier keys with a leading "@" and
// name keys quoted.
func (k Key) String() string {
	switch k.kind {
	case typeKey:
		return k.typ.String()
	case qualifierKey:
		return "@" + k.typ.String()
	case nameKey:
		return strconv.Quote(k.name)
	default:
		return "<invalid key>"
	}
}
