package writer

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"ReviewScraper/internal/domain"
)

// markdownEncoder renders a reading digest: one section per paper with its
// selected fields in a table and the abstract, if selected, as a paragraph.
// The document is built in memory and written on end.
type markdownEncoder struct {
	out     io.Writer
	columns []domain.Column
	records []domain.Record
}

func newMarkdownEncoder(out io.Writer, columns []domain.Column) *markdownEncoder {
	return &markdownEncoder{out: out, columns: columns}
}

func (e *markdownEncoder) begin() error { return nil }

func (e *markdownEncoder) write(rec domain.Record) error {
	e.records = append(e.records, rec)
	return nil
}

func (e *markdownEncoder) end() error {
	md := markdown.NewMarkdown(e.out)
	md.H1("Review digest")
	md.PlainText("")

	for _, rec := range e.records {
		title := rec.Title
		if title == "" {
			title = rec.ID
		}
		md.H2(title)
		md.PlainText("")

		var (
			rows     [][]string
			abstract bool
		)
		for _, c := range e.columns {
			switch c {
			case domain.ColumnTitle:
				continue
			case domain.ColumnAbstract:
				abstract = true
				continue
			}
			rows = append(rows, []string{string(c), tableCell(displayValue(rec, c))})
		}
		if len(rows) > 0 {
			md.Table(markdown.TableSet{
				Header: []string{"Field", "Value"},
				Rows:   rows,
			})
			md.PlainText("")
		}
		if abstract && rec.Abstract != "" {
			md.PlainText(rec.Abstract)
			md.PlainText("")
		}
		md.HorizontalRule()
		md.PlainText("")
	}

	return md.Build()
}

// displayValue is cellValue with lists joined for reading rather than parsing.
func displayValue(rec domain.Record, col domain.Column) string {
	switch col {
	case domain.ColumnAuthors:
		return strings.Join(rec.Authors, ", ")
	case domain.ColumnTopics:
		return strings.Join(rec.Topics, ", ")
	}
	return cellValue(rec, col)
}

func tableCell(value string) string {
	value = strings.ReplaceAll(value, "|", `\|`)
	return strings.ReplaceAll(value, "\n", "<br>")
}
