// Package leaf resolves dependencies through a tree of scopes.
//
// A Scope owns four registries: already-built instances, scoped classes (types
// built once and cached where they are registered), class mappings (one key
// redirected to another) and providers (factories invoked on every
// resolution). Scopes form a tree: every scope may have a parent, and lookups
// give precedence to the outermost ancestor. When nothing is registered, the
// requested type is built from the constructors of a Catalog and its
// parameters are resolved recursively.
//
// # Quick Start
//
//	catalog := leaf.NewCatalog()
//	catalog.MustRegister(NewUserService)
//
//	root := leaf.New(leaf.WithCatalog(catalog))
//	leaf.ScopedClassAs[Repository, *PostgresRepository](root)
//
//	svc, err := leaf.Resolve[*UserService](root)
//
// # Keys
//
// Dependencies are identified by a Key in one of three forms:
//
//	leaf.TypeKey[*Database]()      // the type itself
//	leaf.Qualifier[PrimaryDB]()    // a marker type, distinct from its type key
//	leaf.Named("smtp.host")        // a plain name
//
// # Scopes
//
// Child scopes see every registration of their ancestors, but an ancestor's
// registration always wins over a child's registration of the same key:
//
//	root := leaf.New()
//	root.PutInstance(leaf.Named("env"), "prod")
//
//	request := root.NewChild()
//	request.PutInstance(leaf.Named("env"), "test")
//	env, _ := request.Resolve(leaf.Named("env"), nil) // "prod"
//
// A scoped class is built on first use at the scope that registered it. Its
// dependencies are resolved through that scope, and the instance is then
// shared by all descendants.
//
// # Constructors
//
// A type with exactly one registered constructor is built with it. When a type
// has several, exactly one must be marked with Inject. Struct types and
// pointers to struct types without registered constructors are built from
// their zero value.
//
//	catalog.MustRegister(NewMailer, leaf.Qualify(0, leaf.Named("smtp.host")))
//	catalog.MustRegister(NewCachedRepo, leaf.Inject())
//
// # Errors
//
// Every failed resolution returns a *ResolutionError. Nested failures wrap each
// other, so the message and Path name every key down to the cause. The cause
// can be tested with errors.Is against ErrUnknownKey, ErrNoConstructor,
// ErrConstructorFailed, ErrProviderFailed, ErrCircularDependency and
// ErrTypeMismatch.
//
// # Thread Safety
//
// Scopes do no locking. Registrations and resolutions against one scope tree
// must not run concurrently. A Catalog is safe to share between trees. The
// leafhttp package serializes request resolutions with one lock per tree.
package leaf
