package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ReviewScraper/internal/ports"
)

// WriterOpener creates the record writer for one run.
type WriterOpener func() (ports.RecordWriter, error)

// PipelineDeps wires all driven adapters into the scrape pipeline.
type PipelineDeps struct {
	Source     ports.RecordSource
	OpenWriter WriterOpener
	Repository ports.RecordRepository
	Logger     *slog.Logger
}

// Stats summarizes one pipeline run.
type Stats struct {
	Written int
	Skipped int
	New     int
}

// Pipeline implements the fetch, extract and write workflow.
type Pipeline struct {
	source     ports.RecordSource
	openWriter WriterOpener
	repository ports.RecordRepository
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		openWriter: deps.OpenWriter,
		repository: deps.Repository,
		logger:     deps.Logger,
	}
}

// Run streams every record from the source into a freshly opened writer.
// Any error from the source, the writer or the history store aborts the
// writer, so the destination is only replaced by a complete output.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	if p.source == nil || p.openWriter == nil {
		return stats, fmt.Errorf("pipeline is not configured")
	}

	w, err := p.openWriter()
	if err != nil {
		return stats, fmt.Errorf("open writer: %w", err)
	}

	fail := func(err error) (Stats, error) {
		if abortErr := w.Abort(); abortErr != nil {
			p.warn("abort writer", "error", abortErr)
		}
		stats.Skipped = p.source.Skipped()
		return stats, err
	}

	for rec, err := range p.source.Records(ctx) {
		if err != nil {
			return fail(err)
		}

		if err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("write record %s: %w", rec.ID, err))
		}
		stats.Written++

		if p.repository != nil {
			known, err := p.repository.AlreadyStored(ctx, rec.Source, []string{rec.ID})
			if err != nil {
				return fail(fmt.Errorf("load stored: %w", err))
			}
			if !known[rec.ID] {
				stats.New++
			}
			if err := p.repository.SaveRecord(ctx, rec); err != nil {
				return fail(fmt.Errorf("persist record %s: %w", rec.ID, err))
			}
		}
	}

	if err := w.Commit(); err != nil {
		return fail(fmt.Errorf("commit output: %w", err))
	}

	stats.Skipped = p.source.Skipped()
	if p.logger != nil {
		p.logger.Info("scrape finished", "written", stats.Written, "skipped", stats.Skipped, "new", stats.New)
	}
	return stats, nil
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
