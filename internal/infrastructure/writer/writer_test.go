package writer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"ReviewScraper/internal/domain"
)

func sampleRecords() []domain.Record {
	return []domain.Record{
		{ID: "A1", Title: "Paper A", Scores: []float64{3, 4}, Comments: "solid"},
		{ID: "B2", Title: "Paper B", Scores: []float64{5, 2}, Comments: "needs work, \"more\" data\n\nsecond reviewer: fine"},
	}
}

func writeAll(t *testing.T, path, format string, columns []domain.Column, records []domain.Record) {
	t.Helper()
	w, err := Create(path, format, columns)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Write(rec))
	}
	require.Equal(t, len(records), w.Count())
	require.NoError(t, w.Commit())
}

func TestCSVRowsFollowRecordOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.csv")
	writeAll(t, path, "csv", nil, sampleRecords()[:1])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "paper_id,title,scores,comments\nA1,Paper A,3;4,solid\n", string(raw))
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.csv")
	columns := []domain.Column{
		domain.ColumnPaperID, domain.ColumnTitle, domain.ColumnScores, domain.ColumnComments,
		domain.ColumnAuthors, domain.ColumnTopics, domain.ColumnDecision,
	}
	records := sampleRecords()
	records[0].Authors = []string{"Ada Lovelace", "Alan Turing"}
	records[0].Topics = []string{"Segmentation"}
	records[1].Decision = "Accept"
	records[1].Scores = []float64{2.5, 4}

	writeAll(t, path, "csv", columns, records)

	got, err := ReadCSV(path)
	require.NoError(t, err)
	if diff := cmp.Diff(records, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, format := range []string{"csv", "json", "markdown"} {
		path := filepath.Join(dir, "out."+format)
		writeAll(t, path, format, nil, sampleRecords())
		first, err := os.ReadFile(path)
		require.NoError(t, err)

		writeAll(t, path, format, nil, sampleRecords())
		second, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, first, second, "format %s", format)
	}
}

func TestAbortLeavesDestinationUntouched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	w, err := Create(path, "csv", nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecords()[0]))
	require.NoError(t, w.Abort())
	require.NoError(t, w.Abort())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "previous run\n", string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "staging file left behind")

	var ioErr *domain.IOError
	require.True(t, errors.As(w.Write(sampleRecords()[1]), &ioErr))
}

func TestCreateFailsWithIOError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := Create(filepath.Join(blocker, "out.csv"), "csv", nil)
	var ioErr *domain.IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	require.Equal(t, "create", ioErr.Op)
}

func TestCreateRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Create(filepath.Join(dir, "out.xlsx"), "xlsx", nil)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestJSONOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.json")
	writeAll(t, path, "json", []domain.Column{domain.ColumnPaperID, domain.ColumnScores, domain.ColumnAuthors}, sampleRecords())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "[\n  {\n    \"paper_id\": \"A1\""), string(raw))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, []any{5.0, 2.0}, decoded[1]["scores"])
	require.Equal(t, []any{}, decoded[0]["authors"])
}

func TestJSONEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.json")
	writeAll(t, path, "json", nil, nil)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(raw))
}

func TestMarkdownDigest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "digest.md")
	records := sampleRecords()
	records[0].Abstract = "We segment things."
	writeAll(t, path, "markdown", []domain.Column{domain.ColumnTitle, domain.ColumnScores, domain.ColumnAbstract}, records)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	require.Contains(t, out, "# Review digest")
	require.Contains(t, out, "## Paper A")
	require.Contains(t, out, "## Paper B")
	require.Contains(t, out, "We segment things.")
	require.Contains(t, out, "3;4")
	require.Less(t, strings.Index(out, "Paper A"), strings.Index(out, "Paper B"))
}

func TestReadCSVRejectsUnknownHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("paper_id,mood\nA,happy\n"), 0o644))

	_, err := ReadCSV(path)
	require.ErrorContains(t, err, "unknown column")
}

func TestCSVRoundTripListsWithSeparator(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.csv")
	columns := []domain.Column{domain.ColumnPaperID, domain.ColumnAuthors, domain.ColumnTopics}
	records := []domain.Record{
		{ID: "A1", Authors: []string{"Smith | Jones Lab", `C:\data`, "trailing "}, Topics: []string{"x|y"}},
		{ID: "B2"},
	}

	writeAll(t, path, "csv", columns, records)

	got, err := ReadCSV(path)
	require.NoError(t, err)
	if diff := cmp.Diff(records, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitListInvertsJoinList(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"a"},
		{"a", "b"},
		{"a | b", "c"},
		{`back\slash`, `pipe\|`},
		{"", "b"},
	}
	for _, items := range cases {
		require.Equal(t, items, splitList(joinList(items)), "items %q", items)
	}
	require.Nil(t, splitList(""))
}
