package writer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"ReviewScraper/internal/domain"
)

type csvEncoder struct {
	w       *csv.Writer
	columns []domain.Column
}

func newCSVEncoder(out io.Writer, columns []domain.Column) *csvEncoder {
	return &csvEncoder{w: csv.NewWriter(out), columns: columns}
}

func (e *csvEncoder) begin() error {
	header := make([]string, len(e.columns))
	for i, c := range e.columns {
		header[i] = string(c)
	}
	return e.w.Write(header)
}

func (e *csvEncoder) write(rec domain.Record) error {
	row := make([]string, len(e.columns))
	for i, c := range e.columns {
		row[i] = cellValue(rec, c)
	}
	if err := e.w.Write(row); err != nil {
		return err
	}
	e.w.Flush()
	return e.w.Error()
}

func (e *csvEncoder) end() error {
	e.w.Flush()
	return e.w.Error()
}

// ReadCSV loads a table produced by the csv writer back into records.
// The header row determines which fields are populated.
func ReadCSV(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.IOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: empty file", path)
		}
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}

	columns := make([]domain.Column, len(header))
	for i, h := range header {
		columns[i] = domain.Column(h)
		if !columns[i].Known() {
			return nil, fmt.Errorf("read %s: unknown column %q", path, h)
		}
	}

	var records []domain.Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", path, line, err)
		}

		var rec domain.Record
		for i, value := range row {
			if err := setCell(&rec, columns[i], value); err != nil {
				return nil, fmt.Errorf("read %s line %d: %w", path, line, err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
