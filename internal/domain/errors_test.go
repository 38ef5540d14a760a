package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorsMatchThroughWrapping(t *testing.T) {
	t.Parallel()

	netErr := fmt.Errorf("site demo: %w", &NetworkError{URL: "http://x", Err: context.DeadlineExceeded})
	var ne *NetworkError
	if !errors.As(netErr, &ne) {
		t.Fatalf("expected NetworkError in chain")
	}
	if !errors.Is(netErr, context.DeadlineExceeded) {
		t.Fatalf("expected deadline to unwrap")
	}

	statusErr := &NetworkError{URL: "http://x/p", StatusCode: 404}
	if got := statusErr.Error(); got != "fetch http://x/p: unexpected status 404 Not Found" {
		t.Fatalf("unexpected message: %s", got)
	}

	ioErr := fmt.Errorf("write: %w", &IOError{Path: "/nope/out.csv", Op: "create", Err: errors.New("denied")})
	var ie *IOError
	if !errors.As(ioErr, &ie) || ie.Op != "create" {
		t.Fatalf("expected IOError with op create, got %v", ioErr)
	}

	pe := &ParseError{URL: "http://x", Reason: "no paper table"}
	if pe.Error() != "parse http://x: no paper table" {
		t.Fatalf("unexpected message: %s", pe.Error())
	}
}

func TestReviewLookup(t *testing.T) {
	t.Parallel()

	r := Review{Fields: []Field{{Key: "Strengths", Value: "clear"}, {Key: "Overall score", Value: "4"}}}
	v, ok := r.Lookup(func(k string) bool { return k == "Overall score" })
	if !ok || v != "4" {
		t.Fatalf("lookup returned %q %v", v, ok)
	}
	if _, ok := r.Lookup(func(string) bool { return false }); ok {
		t.Fatalf("expected miss")
	}
}
