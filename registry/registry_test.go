package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testInterface interface {
	DoSomething()
}

type testImplementation struct{}

func (t *testImplementation) DoSomething() {}

func TestNew(t *testing.T) {
	table := New[string, int]("numbers")

	require.NotNil(t, table)
	assert.Equal(t, "numbers", table.Name())
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Keys())
}

func TestPut_Get(t *testing.T) {
	table := New[reflect.Type, any]("instances")
	interfaceType := reflect.TypeOf((*testInterface)(nil)).Elem()
	impl := &testImplementation{}

	table.Put(interfaceType, impl)

	got, ok := table.Get(interfaceType)
	require.True(t, ok)
	assert.Same(t, impl, got)
	assert.True(t, table.Has(interfaceType))
}

func TestGet_Missing(t *testing.T) {
	table := New[string, *testImplementation]("instances")

	got, ok := table.Get("missing")

	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, table.Has("missing"))
}

func TestPut_Replaces(t *testing.T) {
	table := New[string, int]("numbers")

	table.Put("a", 1)
	table.Put("a", 2)

	got, ok := table.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, table.Len())
}

func TestPut_ZeroValueIsPresent(t *testing.T) {
	table := New[string, any]("instances")

	table.Put("nil", nil)

	got, ok := table.Get("nil")
	assert.True(t, ok)
	assert.Nil(t, got)
}

func TestKeys_Sorted(t *testing.T) {
	table := New[string, int]("numbers")
	table.Put("charlie", 3)
	table.Put("alpha", 1)
	table.Put("bravo", 2)

	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, table.Keys())
}
