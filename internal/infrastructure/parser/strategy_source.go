package parser

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"ReviewScraper/internal/config"
	"ReviewScraper/internal/domain"
	"ReviewScraper/internal/ports"
	"ReviewScraper/internal/scanner"
)

// StrategySource implements ports.RecordSource via registered extractors.
type StrategySource struct {
	registry *scanner.Registry
	fetcher  ports.PageFetcher
	sites    []config.SiteConfig
	logger   *slog.Logger
	skipped  int
}

var _ ports.RecordSource = (*StrategySource)(nil)

// NewStrategySource wires the extractor registry and fetcher with config-defined sites.
func NewStrategySource(reg *scanner.Registry, fetcher ports.PageFetcher, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		fetcher:  fetcher,
		sites:    sites,
		logger:   log,
	}
}

// Skipped is the number of pages or papers dropped because of parse errors so far.
func (s *StrategySource) Skipped() int {
	return s.skipped
}

// Records walks the configured sites in order and yields their records.
// Parse errors are logged and skipped; any other error is yielded once and ends the sequence.
func (s *StrategySource) Records(ctx context.Context) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		if s.registry == nil || s.fetcher == nil {
			yield(domain.Record{}, fmt.Errorf("record source is not configured"))
			return
		}

		s.debug("scrape sites", "sites", len(s.sites))
		for _, site := range s.sites {
			if err := ctx.Err(); err != nil {
				yield(domain.Record{}, err)
				return
			}
			if !s.scanSite(ctx, site, yield) {
				return
			}
		}
		s.debug("strategy source done", "skipped", s.skipped)
	}
}

func (s *StrategySource) scanSite(ctx context.Context, site config.SiteConfig, yield func(domain.Record, error) bool) bool {
	s.debug("process site", "site", site.Name, "extractor", site.Extractor, "mode", site.Mode)

	extractor, err := s.registry.Resolve(site.Extractor, site.Options)
	if err != nil {
		yield(domain.Record{}, fmt.Errorf("site %s: %w", site.Name, err))
		return false
	}

	listing, err := s.fetcher.Fetch(ctx, site.URL)
	if err != nil {
		yield(domain.Record{}, fmt.Errorf("site %s: %w", site.Name, err))
		return false
	}

	if site.Mode != config.ModePapers {
		return s.emit(site, extractor, listing, yield)
	}

	links, err := ExtractLinks(listing, site.LinkSelector, site.SkipLinks)
	if err != nil {
		var pe *domain.ParseError
		if errors.As(err, &pe) {
			s.skip(site, pe)
			return true
		}
		yield(domain.Record{}, fmt.Errorf("site %s: %w", site.Name, err))
		return false
	}
	s.debug("paper links discovered", "site", site.Name, "count", len(links))

	for _, link := range links {
		page, err := s.fetcher.Fetch(ctx, link)
		if err != nil {
			yield(domain.Record{}, fmt.Errorf("site %s: %w", site.Name, err))
			return false
		}
		if !s.emit(site, extractor, page, yield) {
			return false
		}
	}
	return true
}

func (s *StrategySource) emit(site config.SiteConfig, extractor scanner.Extractor, page domain.PageContent, yield func(domain.Record, error) bool) bool {
	for rec, err := range extractor.Extract(page) {
		if err != nil {
			var pe *domain.ParseError
			if errors.As(err, &pe) {
				s.skip(site, pe)
				continue
			}
			yield(domain.Record{}, fmt.Errorf("site %s: %w", site.Name, err))
			return false
		}
		if rec.ID == "" {
			s.skip(site, &domain.ParseError{URL: page.URL, Reason: "record without identifier"})
			continue
		}
		if rec.Source == "" {
			rec.Source = site.Name
		}
		if !yield(rec, nil) {
			return false
		}
	}
	return true
}

func (s *StrategySource) skip(site config.SiteConfig, err *domain.ParseError) {
	s.skipped++
	if s.logger != nil {
		s.logger.Warn("skipped unparseable entry", "site", site.Name, "url", err.URL, "reason", err.Reason)
	}
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
