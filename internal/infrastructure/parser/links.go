package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"

	"ReviewScraper/internal/domain"
)

const linkNormalization = purell.FlagsSafe |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveFragment

// ExtractLinks collects the hrefs matched by selector on a listing page,
// resolved against the page URL and normalized, de-duplicated in order of appearance.
// The first skip links are dropped.
func ExtractLinks(page domain.PageContent, selector string, skip int) ([]string, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("empty link selector")
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %s: %w", page.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, parseError(page, "parse document: %v", err)
	}

	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return nil, parseError(page, "no links match %q", selector)
	}

	var links []string
	sel.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, purell.NormalizeURL(base.ResolveReference(ref), linkNormalization))
	})

	links = uniqueStrings(links)
	if skip > 0 {
		if skip >= len(links) {
			return nil, nil
		}
		links = links[skip:]
	}
	return links, nil
}

func resolveURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
