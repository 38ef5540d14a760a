package domain

// Record is one paper's review metadata extracted from a conference page.
type Record struct {
	ID       string
	Title    string
	Scores   []float64
	Comments string

	URL            string
	Authors        []string
	Abstract       string
	Topics         []string
	PDFURL         string
	BibTeX         string
	Reviews        []Review
	MetaReviews    []Review
	Decision       string
	AuthorFeedback string
	CodeRepository string
	Dataset        string
	Source         string
}

// Review is an ordered list of question/answer pairs written by one reviewer.
type Review struct {
	Title  string
	Fields []Field
}

// Field is a single question and the reviewer's answer.
type Field struct {
	Key   string
	Value string
}

// Lookup returns the first value whose key satisfies match.
func (r Review) Lookup(match func(key string) bool) (string, bool) {
	for _, f := range r.Fields {
		if match(f.Key) {
			return f.Value, true
		}
	}
	return "", false
}

// PageContent is the raw markup fetched from one URL.
type PageContent struct {
	URL  string
	Body []byte
}
