package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"ReviewScraper/internal/domain"
)

var (
	innerWhitespace = regexp.MustCompile(`\s+`)
	parenNumber     = regexp.MustCompile(`\((-?\d+(?:\.\d+)?)\)`)
	anyNumber       = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	scoreSeparators = regexp.MustCompile(`[,;\s]+`)
)

// cleanText normalizes to NFC, drops non-printable runes and collapses whitespace.
func cleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

func selectionText(sel *goquery.Selection) string {
	return cleanText(sel.Text())
}

func nodeText(n *html.Node) string {
	var buf bytes.Buffer
	collectText(n, &buf)
	return cleanText(buf.String())
}

func collectText(n *html.Node, buf *bytes.Buffer) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, buf)
	}
}

// nextNode steps through the tree in document order, descending into children first.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return nextAfter(n)
}

// nextAfter returns the node following n's subtree in document order.
func nextAfter(n *html.Node) *html.Node {
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// findNext returns the first element after n in document order that satisfies match.
func findNext(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	for cur := nextNode(n); cur != nil; cur = nextNode(cur) {
		if cur.Type == html.ElementNode && match(cur) {
			return cur
		}
	}
	return nil
}

func isTag(tags ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, t := range tags {
			if n.Data == t {
				return true
			}
		}
		return false
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// parseScore reads a reviewer score from free text such as "Weak Accept (4)".
// The last parenthesised number wins, otherwise the first number in the text.
func parseScore(text string) (float64, bool) {
	if m := parenNumber.FindAllStringSubmatch(text, -1); len(m) > 0 {
		if v, err := strconv.ParseFloat(m[len(m)-1][1], 64); err == nil {
			return v, true
		}
	}
	if m := anyNumber.FindString(text); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// rankScore is parseScore with a confidence rank: 3 for a parenthesised
// number, 2 for a value that is only a number, 1 for a number inside text,
// 0 when there is none.
func rankScore(text string) (float64, int) {
	score, ok := parseScore(text)
	switch {
	case !ok:
		return 0, 0
	case parenNumber.MatchString(text):
		return score, 3
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
		return score, 2
	}
	return score, 1
}

// parseScoreList reads "3, 4" or "3;4" or "3 4". Any non-numeric token rejects the whole list.
func parseScoreList(text string) ([]float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	tokens := scoreSeparators.Split(text, -1)
	scores := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, false
		}
		scores = append(scores, v)
	}
	return scores, len(scores) > 0
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseError(page domain.PageContent, format string, args ...any) *domain.ParseError {
	return &domain.ParseError{URL: page.URL, Reason: fmt.Sprintf(format, args...)}
}
