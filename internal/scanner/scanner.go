package scanner

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"ReviewScraper/internal/domain"
)

// Extractor turns fetched markup into Records.
//
// Extract returns a single-use sequence in order of appearance on the page.
// A *domain.ParseError in the sequence marks one unusable entry and is not fatal:
// iteration may continue with the next entry. A page without the expected
// structure at all yields a single ParseError.
type Extractor interface {
	Name() string
	Extract(page domain.PageContent) iter.Seq2[domain.Record, error]
}

// Factory builds an extractor from per-site options.
type Factory func(options map[string]string) (Extractor, error)

// Registry keeps a mapping from extractor names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds or replaces an extractor factory.
func (r *Registry) Register(name string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[name] = factory
}

// Resolve builds the named extractor or returns an error if it is absent.
func (r *Registry) Resolve(name string, options map[string]string) (Extractor, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("extractor %q is not registered (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	return factory(options)
}

// Names lists registered extractors in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
