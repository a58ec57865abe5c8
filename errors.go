package leaf

import (
	"errors"
	"fmt"
	"strings"
)

// Failure reasons. Every error returned by Resolve is a *ResolutionError whose
// cause chain contains one of these; test for them with errors.Is.
var (
	// ErrUnknownKey is reported when fallback instantiation reaches a key that
	// is neither a provider, a mapping nor a constructible type.
	ErrUnknownKey = errors.New("unknown key")

	// ErrNoConstructor is reported when a type has no usable constructor:
	// none at all, or several without exactly one marked with Inject.
	ErrNoConstructor = errors.New("no usable constructor")

	// ErrConstructorFailed is reported when the chosen constructor returned an
	// error or panicked.
	ErrConstructorFailed = errors.New("constructor failed")

	// ErrProviderFailed is reported when a provider returned an error or panicked.
	ErrProviderFailed = errors.New("provider failed")

	// ErrCircularDependency is reported when a dependency cycle is detected.
	ErrCircularDependency = errors.New("circular dependency detected")

	// ErrTypeMismatch is reported when a resolved value is not assignable to
	// the expected type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ResolutionError is returned by every Resolve boundary. Nested resolutions
// wrap each other, so the message names every key from the outermost request
// down to the root cause:
//
//	resolving failed: *app.Handler: resolving failed: *app.Repo: unknown key: "dsn"
type ResolutionError struct {
	Key   Key
	Cause error
}

func (e *ResolutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("resolving failed: %s", e.Key)
	}
	return fmt.Sprintf("resolving failed: %s: %v", e.Key, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Path returns the keys of all nested resolution errors, outermost first.
func (e *ResolutionError) Path() []Key {
	var path []Key
	var err error = e
	for {
		var re *ResolutionError
		if !errors.As(err, &re) {
			return path
		}
		path = append(path, re.Key)
		err = re.Cause
	}
}

// CircularDependencyError indicates a circular dependency was detected.
// Path holds the chain of keys that closed the cycle, when it is known.
type CircularDependencyError struct {
	Key  Key
	Path []Key
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%v: %s", ErrCircularDependency, e.Key)
	}

	parts := make([]string, len(e.Path))
	for i, key := range e.Path {
		parts[i] = key.String()
	}
	return fmt.Sprintf("%v: %s", ErrCircularDependency, strings.Join(parts, " -> "))
}

// Unwrap makes errors.Is(err, ErrCircularDependency) hold.
func (e *CircularDependencyError) Unwrap() error {
	return ErrCircularDependency
}

// InvalidConstructorError is returned when a function cannot be registered as
// a constructor.
type InvalidConstructorError struct {
	Reason string
}

func (e *InvalidConstructorError) Error() string {
	return fmt.Sprintf("invalid constructor: %s", e.Reason)
}

// ValidationError collects the problems found by Scope.Validate.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %v", e.Errors[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %v\n", i+1, err)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() []error {
	return e.Errors
}
