package leaf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Direct circular: chicken -> egg -> chicken
type chicken struct{ egg *egg }

type egg struct{ chicken *chicken }

func newChicken(e *egg) *chicken { return &chicken{egg: e} }

func newEgg(c *chicken) *egg { return &egg{chicken: c} }

// reentrant registers an instance for its own key while being built.
type reentrant struct{}

func TestCycle_StrictDetectsConstructorCycle(t *testing.T) {
	s := newTestScope(t, func(c *Catalog) {
		c.MustRegister(newChicken)
		c.MustRegister(newEgg)
	})

	_, err := Resolve[*chicken](s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircularDependency)

	var cycle *CircularDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []Key{TypeKey[*chicken](), TypeKey[*egg](), TypeKey[*chicken]()}, cycle.Path)
	assert.Contains(t, err.Error(), "*leaf.chicken -> *leaf.egg -> *leaf.chicken")
}

func TestCycle_StrictDetectsScopedClassCycle(t *testing.T) {
	s := newTestScope(t, func(c *Catalog) {
		c.MustRegister(newChicken)
		c.MustRegister(newEgg)
	})
	ScopedClass[*chicken](s)
	ScopedClass[*egg](s)

	_, err := Resolve[*egg](s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircularDependency)
	assert.False(t, s.Has(KindInstance, TypeKey[*chicken]()))
	assert.False(t, s.Has(KindInstance, TypeKey[*egg]()))
}

func TestCycle_StrictDetectsMappingLoop(t *testing.T) {
	tests := []struct {
		name  string
		setup func(root, child *Scope)
	}{
		{
			name: "in ancestor",
			setup: func(root, _ *Scope) {
				root.PutClassMapping(Named("a"), Named("b"))
				root.PutClassMapping(Named("b"), Named("a"))
			},
		},
		{
			name: "in origin",
			setup: func(_, child *Scope) {
				child.PutClassMapping(Named("a"), Named("b"))
				child.PutClassMapping(Named("b"), Named("a"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New()
			child := root.NewChild()
			tt.setup(root, child)

			_, err := child.Resolve(Named("a"), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCircularDependency)
		})
	}
}

func TestCycle_SelfMappingTerminates(t *testing.T) {
	s := New()
	s.PutClassMapping(Named("self"), Named("self"))

	_, err := s.Resolve(Named("self"), nil)
	assert.ErrorIs(t, err, ErrCircularDependency)
}

func TestCycle_ReentrantRegistration(t *testing.T) {
	for _, mode := range []CycleDetection{CycleStrict, CycleNarrow} {
		t.Run(mode.String(), func(t *testing.T) {
			catalog := NewCatalog()
			s := New(WithCatalog(catalog), WithCycleDetection(mode))
			intruder := &reentrant{}
			catalog.MustRegister(func() *reentrant {
				s.PutInstance(TypeKey[*reentrant](), intruder)
				return &reentrant{}
			})
			ScopedClass[*reentrant](s)

			_, err := Resolve[*reentrant](s)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCircularDependency)

			var cycle *CircularDependencyError
			require.ErrorAs(t, err, &cycle)
			assert.Equal(t, TypeKey[*reentrant](), cycle.Key)
		})
	}
}

func TestCycle_NarrowAllowsAcyclicGraphs(t *testing.T) {
	s := newTestScope(t, func(c *Catalog) {
		c.MustRegister(newCar)
	}, WithCycleDetection(CycleNarrow))
	ScopedClass[*engine](s)

	c, err := Resolve[*car](s)
	require.NoError(t, err)
	assert.NotNil(t, c.Engine)
}

func TestCycle_RepeatedDependencyIsNotACycle(t *testing.T) {
	type pair struct{ left, right *engine }
	s := newTestScope(t, func(c *Catalog) {
		c.MustRegister(func(l, r *engine) *pair { return &pair{left: l, right: r} })
	})

	p, err := Resolve[*pair](s)
	require.NoError(t, err)
	assert.NotSame(t, p.left, p.right)
}
