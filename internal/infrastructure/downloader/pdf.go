package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"ReviewScraper/internal/config"
	"ReviewScraper/internal/domain"
	"ReviewScraper/internal/infrastructure/writer"
)

const defaultConcurrency = 10

// ErrNoPDFLinks is returned when a results file carries no pdf_url values.
var ErrNoPDFLinks = errors.New("no pdf links found")

// Result counts the outcome of one download batch.
type Result struct {
	Downloaded int
	Existing   int
	Failed     int
}

// PDFDownloader fetches paper PDFs into a directory with bounded concurrency.
type PDFDownloader struct {
	client      *resty.Client
	dir         string
	concurrency int
	logger      *slog.Logger
}

// New builds a downloader sharing the scrape HTTP settings.
func New(httpCfg config.HTTPConfig, cfg config.DownloadConfig, logger *slog.Logger) *PDFDownloader {
	client := resty.New().
		SetTimeout(httpCfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", httpCfg.UserAgent).
		SetDoNotParseResponse(true)

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &PDFDownloader{client: client, dir: cfg.Dir, concurrency: concurrency, logger: logger}
}

// LinksFromCSV reads the pdf_url column of a scrape result, de-duplicated in file order.
func LinksFromCSV(path string) ([]string, error) {
	records, err := writer.ReadCSV(path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(records))
	var links []string
	for _, rec := range records {
		if rec.PDFURL == "" {
			continue
		}
		if _, ok := seen[rec.PDFURL]; ok {
			continue
		}
		seen[rec.PDFURL] = struct{}{}
		links = append(links, rec.PDFURL)
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPDFLinks)
	}
	return links, nil
}

// Download fetches every link into the target directory. Files that already
// exist are left alone. A failed download is logged and counted; only
// context cancellation or an unusable target directory stop the batch.
func (d *PDFDownloader) Download(ctx context.Context, links []string) (Result, error) {
	var result Result
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return result, &domain.IOError{Path: d.dir, Op: "mkdir", Err: err}
	}

	var mu sync.Mutex
	count := func(field *int) {
		mu.Lock()
		*field++
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	links, names := targetNames(links)
	for _, link := range links {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			target := filepath.Join(d.dir, names[link])
			if _, err := os.Stat(target); err == nil {
				d.debug("pdf exists", "path", target)
				count(&result.Existing)
				return nil
			}

			if err := d.fetch(gctx, link, target); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				d.warn("pdf download failed", "url", link, "error", err)
				count(&result.Failed)
				return nil
			}
			d.debug("pdf downloaded", "url", link, "path", target)
			count(&result.Downloaded)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func (d *PDFDownloader) fetch(ctx context.Context, link, target string) error {
	resp, err := d.client.R().SetContext(ctx).Get(link)
	if err != nil {
		return &domain.NetworkError{URL: link, Err: err}
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return &domain.NetworkError{URL: link, StatusCode: resp.StatusCode()}
	}

	tmp, err := os.CreateTemp(d.dir, "."+filepath.Base(target)+".*.part")
	if err != nil {
		return &domain.IOError{Path: target, Op: "create", Err: err}
	}
	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return &domain.NetworkError{URL: link, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return &domain.IOError{Path: target, Op: "close", Err: err}
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return &domain.IOError{Path: target, Op: "rename", Err: err}
	}
	return nil
}

// targetNames drops repeated links and gives every remaining link its own
// file name. The first link keeps its plain file name; a later link whose
// name is taken is prefixed with its parent directories, then numbered.
func targetNames(links []string) ([]string, map[string]string) {
	names := make(map[string]string, len(links))
	taken := make(map[string]bool, len(links))
	unique := make([]string, 0, len(links))

	for _, link := range links {
		if _, ok := names[link]; ok {
			continue
		}
		unique = append(unique, link)

		name := fileName(link)
		dirs := parentDirs(link)
		for i := len(dirs) - 1; taken[name] && i >= 0; i-- {
			name = dirs[i] + "_" + name
		}
		if taken[name] {
			base := strings.TrimSuffix(name, ".pdf")
			for n := 2; taken[name]; n++ {
				name = fmt.Sprintf("%s-%d.pdf", base, n)
			}
		}

		taken[name] = true
		names[link] = name
	}
	return unique, names
}

func parentDirs(link string) []string {
	u, err := url.Parse(link)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, seg := range strings.Split(path.Dir(u.Path), "/") {
		if seg != "" && seg != "." {
			dirs = append(dirs, seg)
		}
	}
	return dirs
}

// fileName is the last path segment of the link, with a .pdf suffix ensured.
func fileName(link string) string {
	name := ""
	if u, err := url.Parse(link); err == nil {
		name = path.Base(u.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = strings.NewReplacer("/", "_", ":", "_", "?", "_").Replace(link)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

func (d *PDFDownloader) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

func (d *PDFDownloader) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
