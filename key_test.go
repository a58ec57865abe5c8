package leaf

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Forms(t *testing.T) {
	tests := []struct {
		name      string
		key       Key
		str       string
		isType    bool
		qualifier bool
		named     bool
	}{
		{"type", TypeKey[*engine](), "*leaf.engine", true, false, false},
		{"interface type", TypeKey[Greeter](), "leaf.Greeter", true, false, false},
		{"qualifier", Qualifier[primaryDB](), "@leaf.primaryDB", false, true, false},
		{"name", Named("smtp.host"), `"smtp.host"`, false, false, true},
		{"zero", Key{}, "<invalid key>", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.key.String())
			assert.Equal(t, tt.isType, tt.key.IsType())
			assert.Equal(t, tt.qualifier, tt.key.IsQualifier())
			assert.Equal(t, tt.named, tt.key.IsName())
		})
	}
}

func TestKey_Equality(t *testing.T) {
	assert.Equal(t, TypeKey[*engine](), KeyOf(reflect.TypeFor[*engine]()))
	assert.Equal(t, Named("a"), Named("a"))
	assert.NotEqual(t, Named("a"), Named("b"))
	assert.NotEqual(t, TypeKey[primaryDB](), Qualifier[primaryDB]())
	assert.NotEqual(t, TypeKey[engine](), TypeKey[*engine]())

	m := map[Key]int{TypeKey[*engine](): 1, Qualifier[primaryDB](): 2, Named("a"): 3}
	assert.Equal(t, 1, m[KeyOf(reflect.TypeOf(&engine{}))])
	assert.Equal(t, 2, m[Qualifier[primaryDB]()])
	assert.Equal(t, 3, m[Named("a")])
}

func TestKey_Accessors(t *testing.T) {
	assert.Equal(t, reflect.TypeFor[*engine](), TypeKey[*engine]().Type())
	assert.Equal(t, reflect.TypeFor[primaryDB](), Qualifier[primaryDB]().Type())
	assert.Nil(t, Named("a").Type())
	assert.Equal(t, "a", Named("a").Name())
	assert.Empty(t, TypeKey[*engine]().Name())
	assert.True(t, Key{}.IsZero())
	assert.False(t, Named("").IsZero())
}

func TestKeyOf_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { KeyOf(nil) })
}
