package ports

import (
	"context"
	"iter"

	"ReviewScraper/internal/domain"
)

// PageFetcher retrieves raw markup for one URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (domain.PageContent, error)
}

// RecordSource yields extracted records for all configured sites.
type RecordSource interface {
	Records(ctx context.Context) iter.Seq2[domain.Record, error]
	Skipped() int
}

// RecordWriter stages records into the output destination.
// Nothing is visible at the destination until Commit succeeds.
type RecordWriter interface {
	Write(record domain.Record) error
	Commit() error
	Abort() error
}

// RecordRepository keeps a history of extracted records.
type RecordRepository interface {
	SaveRecord(ctx context.Context, record domain.Record) error
	AlreadyStored(ctx context.Context, source string, ids []string) (map[string]bool, error)
}
