package leaf_test

import (
	"errors"
	"fmt"

	leaf "github.com/toutaio/toutago-leaf"
)

type Store interface {
	Name() string
}

type MemoryStore struct{}

func (s *MemoryStore) Name() string { return "memory" }

type Service struct {
	Store Store
	Owner string
}

func NewService(store Store, owner string) *Service {
	return &Service{Store: store, Owner: owner}
}

func ExampleNew() {
	scope := leaf.New()
	fmt.Printf("Scope created: %v, depth %d\n", scope != nil, scope.Depth())
	// Output: Scope created: true, depth 0
}

func ExampleResolve() {
	catalog := leaf.NewCatalog()
	catalog.MustRegister(NewService, leaf.Qualify(1, leaf.Named("owner")))

	root := leaf.New(leaf.WithCatalog(catalog))
	leaf.ScopedClassAs[Store, *MemoryStore](root)
	root.PutInstance(leaf.Named("owner"), "ops")

	svc, err := leaf.Resolve[*Service](root)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(svc.Store.Name(), svc.Owner)
	// Output: memory ops
}

func ExampleScope_NewChild() {
	root := leaf.New()
	root.PutInstance(leaf.Named("env"), "prod")

	request := root.NewChild()
	request.PutInstance(leaf.Named("env"), "test")
	request.PutInstance(leaf.Named("request.id"), "42")

	env, _ := request.Resolve(leaf.Named("env"), nil)
	id, _ := request.Resolve(leaf.Named("request.id"), nil)
	fmt.Println(env, id)
	// Output: prod 42
}

func ExampleProvide() {
	scope := leaf.New()
	counter := 0
	leaf.Provide(scope, func() (int, error) {
		counter++
		return counter, nil
	})

	first, _ := leaf.Resolve[int](scope)
	second, _ := leaf.Resolve[int](scope)
	fmt.Println(first, second)
	// Output: 1 2
}

func ExampleResolutionError() {
	scope := leaf.New()

	_, err := scope.Resolve(leaf.Named("dsn"), nil)

	var re *leaf.ResolutionError
	if errors.As(err, &re) {
		fmt.Println(re.Key, errors.Is(err, leaf.ErrUnknownKey))
	}
	fmt.Println(err)
	// Output:
	// "dsn" true
	// resolving failed: "dsn": unknown key: "dsn"
}
