package leaf

import (
	"fmt"
	"reflect"
	"sync"
)

// Catalog holds the constructors types are built with when resolution falls
// back to construction. Every scope tree shares one catalog through its
// factory. A catalog is safe for concurrent use, so it may be shared by scope
// trees resolved on different goroutines.
//
// Example:
//
//	catalog := leaf.NewCatalog()
//	catalog.MustRegister(NewUserService)
//	catalog.MustRegister(NewCachedUserService, leaf.Inject())
//	scope := leaf.New(leaf.WithCatalog(catalog))
type Catalog struct {
	mu           sync.RWMutex
	constructors map[reflect.Type][]*Constructor

	// selected caches the plan chosen per type, including implicit ones.
	selected map[reflect.Type]*Constructor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		constructors: make(map[reflect.Type][]*Constructor),
		selected:     make(map[reflect.Type]*Constructor),
	}
}

// Register adds fn as a constructor of its first return type.
// Returns an *InvalidConstructorError if fn has an unsupported shape.
func (c *Catalog) Register(fn any, opts ...ConstructorOption) error {
	ctor, err := NewConstructor(fn, opts...)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.constructors[ctor.out] = append(c.constructors[ctor.out], ctor)
	delete(c.selected, ctor.out)
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(fn any, opts ...ConstructorOption) {
	if err := c.Register(fn, opts...); err != nil {
		panic(fmt.Sprintf("leaf: %v", err))
	}
}

// Constructors returns the constructors registered for t.
func (c *Catalog) Constructors(t reflect.Type) []*Constructor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctors := c.constructors[t]
	out := make([]*Constructor, len(ctors))
	copy(out, ctors)
	return out
}

// constructorFor selects the constructor used to build t:
//   - a single registered constructor is used as-is;
//   - among several, exactly one must be marked with Inject;
//   - without registered constructors, struct and pointer to struct types are
//     built from their zero value.
func (c *Catalog) constructorFor(t reflect.Type) (*Constructor, error) {
	c.mu.RLock()
	ctor, ok := c.selected[t]
	c.mu.RUnlock()
	if ok {
		return ctor, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ctor, ok := c.selected[t]; ok {
		return ctor, nil
	}

	ctor, err := c.selectConstructor(t)
	if err != nil {
		return nil, err
	}

	c.selected[t] = ctor
	return ctor, nil
}

func (c *Catalog) selectConstructor(t reflect.Type) (*Constructor, error) {
	ctors := c.constructors[t]

	switch len(ctors) {
	case 0:
		if t.Kind() == reflect.Struct || (t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct) {
			return implicitConstructor(t), nil
		}
		return nil, fmt.Errorf("%w: no constructors found for %v", ErrNoConstructor, t)
	case 1:
		return ctors[0], nil
	}

	var marked *Constructor
	for _, ctor := range ctors {
		if !ctor.inject {
			continue
		}
		if marked != nil {
			return nil, fmt.Errorf("%w: more than one constructor marked with Inject for %v", ErrNoConstructor, t)
		}
		marked = ctor
	}

	if marked == nil {
		return nil, fmt.Errorf("%w: %d constructors and none marked with Inject for %v", ErrNoConstructor, len(ctors), t)
	}
	return marked, nil
}
