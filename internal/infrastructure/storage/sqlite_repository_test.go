package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ReviewScraper/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	repo.now = func() time.Time { return time.Date(2024, time.October, 6, 12, 0, 0, 0, time.UTC) }
	return repo
}

func TestSaveAndList(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	rec := domain.Record{
		ID:      "0042_paper",
		Title:   "Paper A",
		Scores:  []float64{3, 4},
		Source:  "miccai-2024",
		Reviews: []domain.Review{{Title: "Review #1", Fields: []domain.Field{{Key: "Overall", Value: "Accept (4)"}}}},
	}
	require.NoError(t, repo.SaveRecord(ctx, rec))
	require.NoError(t, repo.SaveRecord(ctx, domain.Record{ID: "x", Title: "Other", Source: "demo"}))

	rec.Title = "Paper A (revised)"
	require.NoError(t, repo.SaveRecord(ctx, rec))

	all, err := repo.ListRecords(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "demo", all[0].Record.Source)

	miccai, err := repo.ListRecords(ctx, "miccai-2024", 10)
	require.NoError(t, err)
	require.Len(t, miccai, 1)
	require.Equal(t, "Paper A (revised)", miccai[0].Record.Title)
	require.Equal(t, []float64{3, 4}, miccai[0].Record.Scores)
	require.Equal(t, rec.Reviews, miccai[0].Record.Reviews)
	require.True(t, miccai[0].UpdatedAt.Equal(repo.now()))
}

func TestAlreadyStored(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveRecord(ctx, domain.Record{ID: "a", Title: "A", Source: "s1"}))
	require.NoError(t, repo.SaveRecord(ctx, domain.Record{ID: "b", Title: "B", Source: "s2"}))

	known, err := repo.AlreadyStored(ctx, "s1", []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"a": true}, known)

	empty, err := repo.AlreadyStored(ctx, "s1", nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}
