package scanner

import (
	"iter"
	"strings"
	"testing"

	"ReviewScraper/internal/domain"
)

type stubExtractor struct{ prefix string }

func (s stubExtractor) Name() string { return "stub" }

func (s stubExtractor) Extract(page domain.PageContent) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		yield(domain.Record{ID: s.prefix + page.URL}, nil)
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("stub", func(opts map[string]string) (Extractor, error) {
		return stubExtractor{prefix: opts["prefix"]}, nil
	})

	ex, err := reg.Resolve("stub", map[string]string{"prefix": "p-"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for rec, err := range ex.Extract(domain.PageContent{URL: "1"}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.ID != "p-1" {
			t.Fatalf("unexpected id %s", rec.ID)
		}
	}

	if _, err := reg.Resolve("missing", nil); err == nil {
		t.Fatalf("expected error for unregistered extractor")
	}

	var zero Registry
	zero.Register("b", nil)
	zero.Register("a", nil)
	if names := zero.Names(); len(names) != 2 || names[0] != "a" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestResolveUnknownListsKnownExtractors(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("table", nil)
	reg.Register("miccai", nil)

	_, err := reg.Resolve("mica", nil)
	if err == nil {
		t.Fatal("expected error for unregistered extractor")
	}
	if !strings.Contains(err.Error(), `"mica"`) || !strings.Contains(err.Error(), "known: miccai, table") {
		t.Fatalf("unexpected error message: %v", err)
	}
}
