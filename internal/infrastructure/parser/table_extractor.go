package parser

import (
	"bytes"
	"iter"

	"github.com/PuerkitoBio/goquery"

	"ReviewScraper/internal/domain"
	"ReviewScraper/internal/scanner"
)

// TableExtractorName identifies the listing-table extractor inside the registry.
const TableExtractorName = "table"

// TableExtractor reads listing pages that carry one table row per paper.
type TableExtractor struct {
	rowSelector      string
	idSelector       string
	titleSelector    string
	scoresSelector   string
	commentsSelector string
	decisionSelector string
}

var _ scanner.Extractor = (*TableExtractor)(nil)

// NewTableExtractor applies option overrides on top of the default selectors.
func NewTableExtractor(options map[string]string) *TableExtractor {
	t := &TableExtractor{
		rowSelector:      "table.papers tbody tr",
		idSelector:       "td.paper-id",
		titleSelector:    "td.title",
		scoresSelector:   "td.scores",
		commentsSelector: "td.comments",
		decisionSelector: "td.decision",
	}
	override := func(key string, dst *string) {
		if v := options[key]; v != "" {
			*dst = v
		}
	}
	override("rowSelector", &t.rowSelector)
	override("idSelector", &t.idSelector)
	override("titleSelector", &t.titleSelector)
	override("scoresSelector", &t.scoresSelector)
	override("commentsSelector", &t.commentsSelector)
	override("decisionSelector", &t.decisionSelector)
	return t
}

// TableFactory adapts NewTableExtractor to scanner.Factory.
func TableFactory(options map[string]string) (scanner.Extractor, error) {
	return NewTableExtractor(options), nil
}

// Name identifies the strategy inside the registry.
func (t *TableExtractor) Name() string {
	return TableExtractorName
}

// Extract yields one Record per row. Rows without an identifier or with
// missing or non-numeric scores yield a ParseError and are skipped.
func (t *TableExtractor) Extract(page domain.PageContent) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
		if err != nil {
			yield(domain.Record{}, parseError(page, "parse document: %v", err))
			return
		}

		rows := doc.Find(t.rowSelector)
		if rows.Length() == 0 {
			yield(domain.Record{}, parseError(page, "no rows match %q", t.rowSelector))
			return
		}

		for i := range rows.Nodes {
			rec, err := t.parseRow(page, rows.Eq(i), i)
			if !yield(rec, err) {
				return
			}
		}
	}
}

func (t *TableExtractor) parseRow(page domain.PageContent, row *goquery.Selection, index int) (domain.Record, error) {
	id := selectionText(row.Find(t.idSelector).First())
	if id == "" {
		return domain.Record{}, parseError(page, "row %d: missing paper identifier", index+1)
	}

	scoresText := selectionText(row.Find(t.scoresSelector).First())
	scores, ok := parseScoreList(scoresText)
	if !ok {
		return domain.Record{}, parseError(page, "paper %s: missing or malformed scores %q", id, scoresText)
	}

	titleCell := row.Find(t.titleSelector).First()
	rec := domain.Record{
		ID:       id,
		Title:    selectionText(titleCell),
		Scores:   scores,
		Comments: selectionText(row.Find(t.commentsSelector).First()),
		Decision: selectionText(row.Find(t.decisionSelector).First()),
	}
	if href, ok := titleCell.Find("a[href]").First().Attr("href"); ok {
		rec.URL = resolveURL(page.URL, href)
	}
	return rec, nil
}
