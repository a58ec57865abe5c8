package leaf

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// chain builds a root scope and depth descendants, outermost first.
func chain(depth int) []*Scope {
	scopes := []*Scope{New()}
	for i := 0; i < depth; i++ {
		scopes = append(scopes, scopes[i].NewChild())
	}
	return scopes
}

// TestProperty_AncestorPrecedence registers the same key in a random subset
// of a scope chain and checks every scope sees the outermost registration
// among itself and its ancestors.
func TestProperty_AncestorPrecedence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		depth := rapid.IntRange(0, 6).Draw(rt, "depth")
		scopes := chain(depth)

		owner := -1
		for i, s := range scopes {
			if !rapid.Bool().Draw(rt, fmt.Sprintf("register%d", i)) {
				continue
			}
			if rapid.Bool().Draw(rt, fmt.Sprintf("scoped%d", i)) {
				s.PutScopedClass(Named("k"), reflect.TypeFor[*engine]())
			} else {
				s.PutInstance(Named("k"), &engine{serial: i})
			}
			if owner < 0 {
				owner = i
			}
		}

		var want any
		for i, s := range scopes {
			got, err := s.Resolve(Named("k"), nil)
			if owner < 0 || i < owner {
				require.ErrorIs(rt, err, ErrUnknownKey)
				continue
			}
			require.NoError(rt, err)
			if want == nil {
				want = got
			}
			require.Same(rt, want, got, "scope %d", i)
			require.True(rt, scopes[owner].Has(KindInstance, Named("k")))
		}
	})
}

// TestProperty_ProviderFreshness checks a provider runs once per resolution
// and its results are never shared.
func TestProperty_ProviderFreshness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		scopes := chain(rapid.IntRange(0, 4).Draw(rt, "depth"))
		origin := scopes[rapid.IntRange(0, len(scopes)-1).Draw(rt, "origin")]
		n := rapid.IntRange(1, 20).Draw(rt, "resolutions")

		calls := 0
		Provide(origin, func() (*engine, error) {
			calls++
			return &engine{serial: calls}, nil
		})

		seen := make(map[*engine]bool)
		for i := 0; i < n; i++ {
			e, err := Resolve[*engine](origin)
			require.NoError(rt, err)
			require.False(rt, seen[e], "provider result reused")
			seen[e] = true
		}
		require.Equal(rt, n, calls)
	})
}
