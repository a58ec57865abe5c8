package leaf

// Kind names one of the four registries every scope owns.
type Kind string

const (
	// KindInstance holds already-built instances. They are returned as-is forever.
	KindInstance Kind = "instance"

	// KindScopedClass holds types that are built once, on first resolution, at
	// the scope owning the registration and then cached in its instance cache.
	KindScopedClass Kind = "scoped-class"

	// KindMapping redirects one key to another.
	KindMapping Kind = "mapping"

	// KindProvider holds factories invoked on every resolution. Their results
	// are never cached.
	KindProvider Kind = "provider"
)

// Kinds lists every registry kind in lookup order.
var Kinds = []Kind{KindInstance, KindScopedClass, KindMapping, KindProvider}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Provider is a zero-argument factory. It is invoked on every resolution of
// the key it is registered under. A nil result is accepted only where the
// expected type can hold nil; otherwise resolution fails with ErrTypeMismatch.
//
// Example:
//
//	scope.PutProvider(leaf.Named("now"), func() (any, error) {
//	    return time.Now(), nil
//	})
type Provider func() (any, error)

// CycleDetection selects how resolution guards against dependency cycles.
type CycleDetection string

const (
	// CycleStrict marks every construction, scoped-class materialization and
	// mapping hop as in progress for the duration of a resolution and fails as
	// soon as one is re-entered.
	//
	// Tracking is per Resolve call. A provider that calls Resolve on a scope
	// starts a new resolution, so a cycle closed through such a provider is not
	// detected and recurses until the goroutine stack is exhausted.
	CycleStrict CycleDetection = "strict"

	// CycleNarrow only checks, after a scoped class was built, whether the
	// instance cache received an entry for the same key in the meantime. Any
	// other cycle recurses until the goroutine stack is exhausted, which is a
	// fatal runtime error.
	CycleNarrow CycleDetection = "narrow"
)

// String returns the string representation of the mode.
func (c CycleDetection) String() string {
	return string(c)
}
