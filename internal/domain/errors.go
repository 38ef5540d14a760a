package domain

import (
	"fmt"
	"net/http"
)

// NetworkError reports a failed fetch: transport failure, timeout or a non-success status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports that a page lacks the structure an extractor expects.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return "parse: " + e.Reason
	}
	return fmt.Sprintf("parse %s: %s", e.URL, e.Reason)
}

// IOError reports that the output destination could not be written.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
