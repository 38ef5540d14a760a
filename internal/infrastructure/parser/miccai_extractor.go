package parser

import (
	"bytes"
	"fmt"
	"iter"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"ReviewScraper/internal/domain"
	"ReviewScraper/internal/scanner"
)

// MiccaiExtractorName identifies the per-paper MICCAI extractor inside the registry.
const MiccaiExtractorName = "miccai"

const (
	defaultScorePattern    = `(?i)overall score|overall rating`
	defaultCommentPattern  = `(?i)weakness|comment`
	defaultDecisionPattern = `(?i)decision|recommendation`
)

// MiccaiExtractor parses a single paper page of the MICCAI open-review site
// (2023 and 2024 layouts) into one Record.
type MiccaiExtractor struct {
	scorePattern    *regexp.Regexp
	commentPattern  *regexp.Regexp
	decisionPattern *regexp.Regexp
}

var _ scanner.Extractor = (*MiccaiExtractor)(nil)

// NewMiccaiExtractor compiles the field patterns; options may override
// scorePattern, commentPattern and decisionPattern.
func NewMiccaiExtractor(options map[string]string) (*MiccaiExtractor, error) {
	compile := func(key, fallback string) (*regexp.Regexp, error) {
		expr := options[key]
		if expr == "" {
			expr = fallback
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", key, err)
		}
		return re, nil
	}

	score, err := compile("scorePattern", defaultScorePattern)
	if err != nil {
		return nil, err
	}
	comment, err := compile("commentPattern", defaultCommentPattern)
	if err != nil {
		return nil, err
	}
	decision, err := compile("decisionPattern", defaultDecisionPattern)
	if err != nil {
		return nil, err
	}

	return &MiccaiExtractor{scorePattern: score, commentPattern: comment, decisionPattern: decision}, nil
}

// MiccaiFactory adapts NewMiccaiExtractor to scanner.Factory.
func MiccaiFactory(options map[string]string) (scanner.Extractor, error) {
	return NewMiccaiExtractor(options)
}

// Name identifies the strategy inside the registry.
func (m *MiccaiExtractor) Name() string {
	return MiccaiExtractorName
}

// Extract yields the page's paper, or a ParseError when the title or the review scores are absent.
func (m *MiccaiExtractor) Extract(page domain.PageContent) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		rec, err := m.parsePaper(page)
		yield(rec, err)
	}
}

func (m *MiccaiExtractor) parsePaper(page domain.PageContent) (domain.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return domain.Record{}, parseError(page, "parse document: %v", err)
	}

	id := paperID(page.URL)
	if id == "" {
		return domain.Record{}, parseError(page, "cannot derive paper identifier from url")
	}

	title := selectionText(doc.Find("h1.post-title").First())
	if title == "" {
		title = selectionText(doc.Find("title").First())
	}
	if title == "" {
		return domain.Record{}, parseError(page, "paper %s: missing title", id)
	}

	rec := domain.Record{
		ID:             id,
		Title:          title,
		URL:            page.URL,
		Authors:        authors(doc),
		Abstract:       abstract(doc),
		PDFURL:         pdfLink(doc, page.URL),
		BibTeX:         rawTextAfter(doc, "h1#bibtex-id", "code"),
		Topics:         topics(doc),
		Reviews:        reviews(doc),
		MetaReviews:    metaReviews(doc),
		AuthorFeedback: textAfter(doc, "h1#authorFeedback-id", "blockquote"),
		CodeRepository: textAfter(doc, "h1#code-id", "p"),
		Dataset:        textAfter(doc, "h1#dataset-id", "p"),
	}

	var comments []string
	for _, review := range rec.Reviews {
		if score, ok := m.reviewScore(review); ok {
			rec.Scores = append(rec.Scores, score)
		}
		for _, f := range review.Fields {
			if m.commentPattern.MatchString(f.Key) && f.Value != "" {
				comments = append(comments, f.Value)
			}
		}
	}
	if len(rec.Scores) == 0 {
		return domain.Record{}, parseError(page, "paper %s: no review scores found", id)
	}
	rec.Comments = strings.Join(comments, "\n\n")

	for _, meta := range rec.MetaReviews {
		if value, ok := meta.Lookup(m.decisionPattern.MatchString); ok {
			rec.Decision = value
			break
		}
	}

	return rec, nil
}

// reviewScore picks the score among the fields whose key matches the score
// pattern. A parenthesised number ("Accept (5)") beats a bare number, which
// beats a number found inside prose; the first field wins within a rank.
func (m *MiccaiExtractor) reviewScore(review domain.Review) (float64, bool) {
	var (
		best     float64
		bestRank int
	)
	for _, f := range review.Fields {
		if !m.scorePattern.MatchString(f.Key) {
			continue
		}
		score, rank := rankScore(f.Value)
		if rank > bestRank {
			best, bestRank = score, rank
		}
	}
	return best, bestRank > 0
}

// paperID is the last path segment of the paper URL without its .html suffix.
func paperID(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, ".html")
}

func authors(doc *goquery.Document) []string {
	var names []string
	doc.Find("div.post-tags a.post-category").Each(func(_ int, a *goquery.Selection) {
		names = append(names, selectionText(a))
	})
	if len(names) > 0 {
		return uniqueStrings(names)
	}

	line := textAfter(doc, "h1#author-id", "p")
	for _, name := range strings.Split(line, ",") {
		names = append(names, strings.TrimSpace(name))
	}
	return uniqueStrings(names)
}

func abstract(doc *goquery.Document) string {
	if text := textAfter(doc, "h1#abstract-id", "p"); text != "" {
		return text
	}
	heading := doc.Find("h1").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return selectionText(h) == "Abstract"
	}).First()
	if heading.Length() == 0 {
		return ""
	}
	return nodeText(findNext(heading.Nodes[0], isTag("p")))
}

func pdfLink(doc *goquery.Document, pageURL string) string {
	heading := doc.Find("h1#link-id").First()
	if heading.Length() == 0 {
		return ""
	}
	a := findNext(heading.Nodes[0], func(n *html.Node) bool {
		return n.Data == "a" && strings.HasSuffix(strings.ToLower(attr(n, "href")), ".pdf")
	})
	if a == nil {
		return ""
	}
	return resolveURL(pageURL, attr(a, "href"))
}

func topics(doc *goquery.Document) []string {
	var out []string
	doc.Find("div.post-categories a.post-category").Each(func(_ int, a *goquery.Selection) {
		out = append(out, selectionText(a))
	})
	return uniqueStrings(out)
}

func reviews(doc *goquery.Document) []domain.Review {
	var out []domain.Review
	doc.Find("h3").Each(func(_ int, h *goquery.Selection) {
		title := selectionText(h)
		if !strings.Contains(title, "Review #") {
			return
		}
		out = append(out, domain.Review{Title: title, Fields: collectFields(h.Nodes[0])})
	})
	if len(out) > 0 {
		return out
	}

	doc.Find(`h3[id^="review-"]`).Each(func(_ int, h *goquery.Selection) {
		out = append(out, domain.Review{
			Title:  selectionText(h),
			Fields: listFields(doc, findNext(h.Nodes[0], isTag("ul"))),
		})
	})
	return out
}

func metaReviews(doc *goquery.Document) []domain.Review {
	var out []domain.Review
	doc.Find("h2").Each(func(_ int, h *goquery.Selection) {
		title := selectionText(h)
		if !strings.Contains(title, "Meta-review #") {
			return
		}
		out = append(out, domain.Review{Title: title, Fields: collectFields(h.Nodes[0])})
	})
	if len(out) > 0 {
		return out
	}

	doc.Find(`h1#metareview-id, h2[id^="meta-review"]`).Each(func(_ int, h *goquery.Selection) {
		out = append(out, domain.Review{
			Title:  selectionText(h),
			Fields: listFields(doc, findNext(h.Nodes[0], isTag("ul"))),
		})
	})
	return out
}

// collectFields pairs every <strong> question after the heading with the
// <blockquote> answer that follows it, up to the next section heading.
func collectFields(heading *html.Node) []domain.Field {
	var (
		fields     []domain.Field
		pendingKey string
	)

	cur := nextNode(heading)
	for cur != nil {
		if cur.Type != html.ElementNode {
			cur = nextNode(cur)
			continue
		}
		if isSectionBoundary(cur) {
			break
		}

		switch cur.Data {
		case "strong":
			pendingKey = strings.TrimSpace(strings.TrimSuffix(nodeText(cur), ":"))
			cur = nextAfter(cur)
		case "blockquote":
			if pendingKey != "" {
				fields = append(fields, domain.Field{Key: pendingKey, Value: nodeText(cur)})
				pendingKey = ""
			}
			cur = nextAfter(cur)
		default:
			cur = nextNode(cur)
		}
	}

	return fields
}

func isSectionBoundary(n *html.Node) bool {
	switch n.Data {
	case "h1", "h2":
		return true
	case "h3":
		return strings.Contains(nodeText(n), "Review #")
	}
	return false
}

// listFields reads the 2023 layout where each answer is an <li>, optionally led by a <strong> question.
func listFields(doc *goquery.Document, ul *html.Node) []domain.Field {
	if ul == nil {
		return nil
	}
	var fields []domain.Field
	doc.FindNodes(ul).Children().Filter("li").Each(func(_ int, li *goquery.Selection) {
		text := selectionText(li)
		key := selectionText(li.Find("strong").First())
		if key == "" {
			fields = append(fields, domain.Field{Value: text})
			return
		}
		value := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(text, key), ":"))
		fields = append(fields, domain.Field{Key: strings.TrimSuffix(key, ":"), Value: value})
	})
	return fields
}

func textAfter(doc *goquery.Document, headingSelector, tag string) string {
	heading := doc.Find(headingSelector).First()
	if heading.Length() == 0 {
		return ""
	}
	return nodeText(findNext(heading.Nodes[0], isTag(tag)))
}

// rawTextAfter keeps line breaks, for BibTeX blocks.
func rawTextAfter(doc *goquery.Document, headingSelector, tag string) string {
	heading := doc.Find(headingSelector).First()
	if heading.Length() == 0 {
		return ""
	}
	n := findNext(heading.Nodes[0], isTag(tag))
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	collectText(n, &buf)
	return strings.TrimSpace(buf.String())
}
