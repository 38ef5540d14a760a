package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ReviewScraper/internal/domain"
	"ReviewScraper/internal/ports"
)

// encoder serializes records in one output format.
type encoder interface {
	begin() error
	write(rec domain.Record) error
	end() error
}

// FileWriter streams records into a temporary file next to the destination
// and renames it over the destination on Commit. Abort leaves the destination untouched.
type FileWriter struct {
	path  string
	tmp   *os.File
	enc   encoder
	count int
	done  bool
}

var _ ports.RecordWriter = (*FileWriter)(nil)

// Create opens a staging file for path. Any existing file at path is replaced on Commit.
func Create(path, format string, columns []domain.Column) (*FileWriter, error) {
	if len(columns) == 0 {
		columns = domain.DefaultColumns
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.IOError{Path: path, Op: "create", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, &domain.IOError{Path: path, Op: "create", Err: err}
	}

	enc, err := newEncoder(format, tmp, columns)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}

	w := &FileWriter{path: path, tmp: tmp, enc: enc}
	if err := enc.begin(); err != nil {
		_ = w.Abort()
		return nil, &domain.IOError{Path: path, Op: "write", Err: err}
	}
	return w, nil
}

func newEncoder(format string, out io.Writer, columns []domain.Column) (encoder, error) {
	switch format {
	case "", "csv":
		return newCSVEncoder(out, columns), nil
	case "json":
		return newJSONEncoder(out, columns), nil
	case "markdown":
		return newMarkdownEncoder(out, columns), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// Path is the final destination.
func (w *FileWriter) Path() string {
	return w.path
}

// Count is the number of records written so far.
func (w *FileWriter) Count() int {
	return w.count
}

// Write appends one record to the staging file.
func (w *FileWriter) Write(rec domain.Record) error {
	if w.done {
		return &domain.IOError{Path: w.path, Op: "write", Err: os.ErrClosed}
	}
	if err := w.enc.write(rec); err != nil {
		return &domain.IOError{Path: w.path, Op: "write", Err: err}
	}
	w.count++
	return nil
}

// Commit finishes the output and moves it over the destination.
func (w *FileWriter) Commit() error {
	if w.done {
		return &domain.IOError{Path: w.path, Op: "commit", Err: os.ErrClosed}
	}
	w.done = true

	if err := w.enc.end(); err != nil {
		w.discard()
		return &domain.IOError{Path: w.path, Op: "write", Err: err}
	}
	if err := w.tmp.Close(); err != nil {
		_ = os.Remove(w.tmp.Name())
		return &domain.IOError{Path: w.path, Op: "close", Err: err}
	}
	if err := os.Chmod(w.tmp.Name(), 0o644); err != nil {
		_ = os.Remove(w.tmp.Name())
		return &domain.IOError{Path: w.path, Op: "chmod", Err: err}
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		_ = os.Remove(w.tmp.Name())
		return &domain.IOError{Path: w.path, Op: "rename", Err: err}
	}
	return nil
}

// Abort drops the staging file. It is a no-op after Commit.
func (w *FileWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.discard()
}

func (w *FileWriter) discard() error {
	_ = w.tmp.Close()
	if err := os.Remove(w.tmp.Name()); err != nil && !os.IsNotExist(err) {
		return &domain.IOError{Path: w.tmp.Name(), Op: "remove", Err: err}
	}
	return nil
}
