package writer

import (
	"bytes"
	"encoding/json"
	"io"

	"ReviewScraper/internal/domain"
)

// jsonEncoder writes a JSON array of objects whose keys follow the column order.
type jsonEncoder struct {
	out     io.Writer
	columns []domain.Column
	count   int
}

func newJSONEncoder(out io.Writer, columns []domain.Column) *jsonEncoder {
	return &jsonEncoder{out: out, columns: columns}
}

func (e *jsonEncoder) begin() error {
	_, err := io.WriteString(e.out, "[")
	return err
}

func (e *jsonEncoder) write(rec domain.Record) error {
	var obj bytes.Buffer
	obj.WriteByte('{')
	for i, c := range e.columns {
		if i > 0 {
			obj.WriteByte(',')
		}
		key, err := json.Marshal(string(c))
		if err != nil {
			return err
		}
		value, err := json.Marshal(jsonValue(rec, c))
		if err != nil {
			return err
		}
		obj.Write(key)
		obj.WriteByte(':')
		obj.Write(value)
	}
	obj.WriteByte('}')

	var indented bytes.Buffer
	if err := json.Indent(&indented, obj.Bytes(), "  ", "  "); err != nil {
		return err
	}

	sep := "\n  "
	if e.count > 0 {
		sep = ",\n  "
	}
	if _, err := io.WriteString(e.out, sep); err != nil {
		return err
	}
	if _, err := e.out.Write(indented.Bytes()); err != nil {
		return err
	}
	e.count++
	return nil
}

func (e *jsonEncoder) end() error {
	closing := "\n]\n"
	if e.count == 0 {
		closing = "]\n"
	}
	_, err := io.WriteString(e.out, closing)
	return err
}
