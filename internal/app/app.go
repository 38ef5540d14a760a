package app

import (
	"context"
	"fmt"
	"log/slog"

	"ReviewScraper/internal/config"
	"ReviewScraper/internal/infrastructure/downloader"
	"ReviewScraper/internal/infrastructure/fetcher"
	"ReviewScraper/internal/infrastructure/parser"
	"ReviewScraper/internal/infrastructure/storage"
	"ReviewScraper/internal/infrastructure/writer"
	"ReviewScraper/internal/logging"
	"ReviewScraper/internal/ports"
	"ReviewScraper/internal/scanner"
	"ReviewScraper/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// NewRegistry returns the registry of every built-in extractor.
func NewRegistry() *scanner.Registry {
	registry := scanner.NewRegistry()
	registry.Register(parser.TableExtractorName, parser.TableFactory)
	registry.Register(parser.MiccaiExtractorName, parser.MiccaiFactory)
	return registry
}

// Scrape runs one full pass over the configured sites and writes the output file.
func (a *Application) Scrape(ctx context.Context) (usecase.Stats, error) {
	httpFetcher := fetcher.New(a.cfg.HTTP, a.logger.With("component", "fetcher"))
	source := parser.NewStrategySource(NewRegistry(), httpFetcher, a.cfg.Sites, a.logger.With("component", "source"))

	var repository ports.RecordRepository
	if a.cfg.Store.Enabled {
		repo, err := storage.Open(a.storePath())
		if err != nil {
			return usecase.Stats{}, fmt.Errorf("open history store: %w", err)
		}
		defer repo.Close()
		repository = repo
	}

	output := a.cfg.Output
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source: source,
		OpenWriter: func() (ports.RecordWriter, error) {
			return writer.Create(output.Path, output.Format, output.ColumnList())
		},
		Repository: repository,
		Logger:     a.logger.With("component", "pipeline"),
	})

	a.logger.Info("scrape started", "sites", len(a.cfg.Sites), "output", output.Path, "format", output.Format)
	return pipeline.Run(ctx)
}

// Download fetches the PDFs listed in the pdf_url column of a csv result.
func (a *Application) Download(ctx context.Context, from string) (downloader.Result, error) {
	links, err := downloader.LinksFromCSV(from)
	if err != nil {
		return downloader.Result{}, err
	}

	d := downloader.New(a.cfg.HTTP, a.cfg.Download, a.logger.With("component", "downloader"))
	a.logger.Info("download started", "links", len(links), "dir", a.cfg.Download.Dir)
	result, err := d.Download(ctx, links)
	if err != nil {
		return result, err
	}
	a.logger.Info("download finished", "downloaded", result.Downloaded, "existing", result.Existing, "failed", result.Failed)
	return result, nil
}

// History lists records saved by previous scrape runs.
func (a *Application) History(ctx context.Context, site string, limit int) ([]storage.StoredRecord, error) {
	repo, err := storage.Open(a.storePath())
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	defer repo.Close()

	return repo.ListRecords(ctx, site, limit)
}

func (a *Application) storePath() string {
	if a.cfg.Store.Path != "" {
		return a.cfg.Store.Path
	}
	return config.DefaultStorePath()
}
