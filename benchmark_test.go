package leaf

import (
	"testing"
)

// BenchmarkInstanceResolution benchmarks cached instance retrieval.
func BenchmarkInstanceResolution(b *testing.B) {
	s := New()
	Instance(s, &engine{})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Resolve[*engine](s)
	}
}

// BenchmarkScopedClassFromDeepChild benchmarks a cached scoped class looked up
// through several ancestors.
func BenchmarkScopedClassFromDeepChild(b *testing.B) {
	root := New()
	ScopedClass[*engine](root)
	s := root
	for i := 0; i < 5; i++ {
		s = s.NewChild()
	}
	_, _ = Resolve[*engine](s)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Resolve[*engine](s)
	}
}

// BenchmarkConstructorResolution benchmarks construction with one dependency.
func BenchmarkConstructorResolution(b *testing.B) {
	catalog := NewCatalog()
	catalog.MustRegister(newCar)
	s := New(WithCatalog(catalog))
	Instance(s, &engine{})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Resolve[*car](s)
	}
}

// BenchmarkProviderResolution benchmarks provider invocation.
func BenchmarkProviderResolution(b *testing.B) {
	s := New()
	Provide(s, func() (*engine, error) { return &engine{}, nil })

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Resolve[*engine](s)
	}
}

// BenchmarkNarrowCycleDetection benchmarks construction without in-progress marks.
func BenchmarkNarrowCycleDetection(b *testing.B) {
	catalog := NewCatalog()
	catalog.MustRegister(newCar)
	s := New(WithCatalog(catalog), WithCycleDetection(CycleNarrow))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Resolve[*car](s)
	}
}
