package domain

// Column names a field of Record that the writer can serialize.
type Column string

const (
	ColumnPaperID        Column = "paper_id"
	ColumnTitle          Column = "title"
	ColumnScores         Column = "scores"
	ColumnComments       Column = "comments"
	ColumnDecision       Column = "decision"
	ColumnURL            Column = "url"
	ColumnAuthors        Column = "authors"
	ColumnAbstract       Column = "abstract"
	ColumnTopics         Column = "topics"
	ColumnPDFURL         Column = "pdf_url"
	ColumnBibTeX         Column = "bibtex"
	ColumnAuthorFeedback Column = "author_feedback"
	ColumnCodeRepository Column = "code_repository"
	ColumnDataset        Column = "dataset"
)

// DefaultColumns is the header written when no column list is configured.
var DefaultColumns = []Column{ColumnPaperID, ColumnTitle, ColumnScores, ColumnComments}

var knownColumns = map[Column]struct{}{
	ColumnPaperID: {}, ColumnTitle: {}, ColumnScores: {}, ColumnComments: {},
	ColumnDecision: {}, ColumnURL: {}, ColumnAuthors: {}, ColumnAbstract: {},
	ColumnTopics: {}, ColumnPDFURL: {}, ColumnBibTeX: {}, ColumnAuthorFeedback: {},
	ColumnCodeRepository: {}, ColumnDataset: {},
}

// Known reports whether c is a column the writer understands.
func (c Column) Known() bool {
	_, ok := knownColumns[c]
	return ok
}
