package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"ReviewScraper/internal/config"
	"ReviewScraper/internal/domain"
	"ReviewScraper/internal/ports"
)

// HTTPFetcher performs single-attempt GET requests with an optional politeness delay between them.
type HTTPFetcher struct {
	client       *resty.Client
	limiter      *rate.Limiter
	maxBodyBytes int64
	logger       *slog.Logger
}

var _ ports.PageFetcher = (*HTTPFetcher)(nil)

// New builds a fetcher from the HTTP settings. A zero delay disables rate limiting.
func New(cfg config.HTTPConfig, logger *slog.Logger) *HTTPFetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetDoNotParseResponse(true)

	var limiter *rate.Limiter
	if cfg.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}

	return &HTTPFetcher{
		client:       client,
		limiter:      limiter,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
	}
}

// Fetch returns the page body, or a *domain.NetworkError when the request
// fails, times out or answers with a non-2xx status.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (domain.PageContent, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return domain.PageContent{}, &domain.NetworkError{URL: url, Err: err}
		}
	}

	started := time.Now()
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return domain.PageContent{}, &domain.NetworkError{URL: url, Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return domain.PageContent{}, &domain.NetworkError{URL: url, StatusCode: resp.StatusCode()}
	}

	reader := io.Reader(body)
	if f.maxBodyBytes > 0 {
		reader = io.LimitReader(body, f.maxBodyBytes+1)
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return domain.PageContent{}, &domain.NetworkError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if f.maxBodyBytes > 0 && int64(len(payload)) > f.maxBodyBytes {
		return domain.PageContent{}, &domain.NetworkError{URL: url, Err: errors.New("response body exceeds size limit")}
	}

	f.debug("page fetched", "url", url, "bytes", len(payload), "elapsed", time.Since(started))
	return domain.PageContent{URL: url, Body: payload}, nil
}

func (f *HTTPFetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
