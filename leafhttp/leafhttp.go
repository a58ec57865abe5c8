// Package leafhttp creates one child scope per HTTP request.
//
// The request scope is a child of a long-lived parent scope, so singletons
// registered there are shared by every request while request-level values
// stay local to one request.
//
// Scopes are not safe for concurrent use, and the first resolution of a
// scoped class writes into the shared parent. Resolve and ResolveKey
// therefore hold one lock per scope tree, keyed by its root, for the
// duration of a resolution. Code that resolves from a request scope directly
// must hold Locker(scope) the same way.
//
//	root := leaf.New(leaf.WithCatalog(catalog))
//	router := chi.NewRouter()
//	router.Use(leafhttp.Middleware(root))
//	router.Get("/users", func(w http.ResponseWriter, r *http.Request) {
//	    handler, err := leafhttp.Resolve[*UserHandler](r)
//	    ...
//	})
package leafhttp

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	leaf "github.com/toutaio/toutago-leaf"
)

// RequestKey is the key the current *http.Request is registered under in
// every request scope.
var RequestKey = leaf.TypeKey[*http.Request]()

// GinKey is the gin context key the request scope is stored under.
const GinKey = "leaf.scope"

// ErrNoScope is returned when a request carries no request scope.
var ErrNoScope = errors.New("no request scope in context")

type contextKey struct{}

// locks maps a root scope to the mutex serializing resolutions in its tree.
var locks sync.Map

// Locker returns the lock shared by every scope of the tree scope belongs to.
func Locker(scope *leaf.Scope) sync.Locker {
	mu, _ := locks.LoadOrStore(scope.Root(), new(sync.Mutex))
	return mu.(*sync.Mutex)
}

// Setup registers request-level values on a fresh request scope. It runs
// without the tree lock and must only register into scope.
type Setup func(scope *leaf.Scope, r *http.Request)

// WithScope returns a copy of ctx carrying scope.
func WithScope(ctx context.Context, scope *leaf.Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, scope)
}

// FromContext returns the scope stored by WithScope.
func FromContext(ctx context.Context) (*leaf.Scope, bool) {
	scope, ok := ctx.Value(contextKey{}).(*leaf.Scope)
	return scope, ok && scope != nil
}

// RequestScope creates a child of parent for r, registers r under RequestKey
// and runs the setup functions in order.
func RequestScope(parent *leaf.Scope, r *http.Request, setup ...Setup) *leaf.Scope {
	scope := parent.NewChild()
	populate(scope, r, setup)
	return scope
}

// Middleware returns net/http middleware that attaches a request scope to
// the context of every request. Requests may be served concurrently; resolve
// through Resolve or ResolveKey, which serialize on the tree lock.
func Middleware(parent *leaf.Scope, setup ...Setup) func(http.Handler) http.Handler {
	if parent == nil {
		panic("leafhttp: parent scope cannot be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, attach(parent, r, setup))
		})
	}
}

// Gin returns gin middleware equivalent to Middleware. The scope is also
// stored in the gin context under GinKey.
func Gin(parent *leaf.Scope, setup ...Setup) gin.HandlerFunc {
	if parent == nil {
		panic("leafhttp: parent scope cannot be nil")
	}

	return func(c *gin.Context) {
		c.Request = attach(parent, c.Request, setup)
		scope, _ := FromContext(c.Request.Context())
		c.Set(GinKey, scope)
		c.Next()
	}
}

// attach creates the request scope. The registered *http.Request is the one
// handlers receive, context included.
func attach(parent *leaf.Scope, r *http.Request, setup []Setup) *http.Request {
	scope := parent.NewChild()
	r = r.WithContext(WithScope(r.Context(), scope))
	populate(scope, r, setup)
	return r
}

func populate(scope *leaf.Scope, r *http.Request, setup []Setup) {
	scope.PutInstance(RequestKey, r)
	for _, fn := range setup {
		fn(scope, r)
	}
}

// Resolve resolves the type key of T from the request scope of r. Spans of
// the resolution are children of the span in the request context.
func Resolve[T any](r *http.Request) (T, error) {
	return ResolveKey[T](r, leaf.TypeKey[T]())
}

// ResolveKey resolves key from the request scope of r.
func ResolveKey[T any](r *http.Request, key leaf.Key) (T, error) {
	scope, ok := FromContext(r.Context())
	if !ok {
		var zero T
		return zero, ErrNoScope
	}

	lock := Locker(scope)
	lock.Lock()
	defer lock.Unlock()

	return leaf.ResolveKeyContext[T](r.Context(), scope, key)
}

// FromGin returns the request scope stored by Gin. Resolve from it through
// Resolve(c.Request) or while holding Locker(scope).
func FromGin(c *gin.Context) (*leaf.Scope, bool) {
	value, ok := c.Get(GinKey)
	if !ok {
		return nil, false
	}
	scope, ok := value.(*leaf.Scope)
	return scope, ok && scope != nil
}
