package writer

import (
	"fmt"
	"strconv"
	"strings"

	"ReviewScraper/internal/domain"
)

const (
	scoreSeparator = ";"
	listSeparator  = " | "
)

func formatScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.FormatFloat(s, 'f', -1, 64)
	}
	return strings.Join(parts, scoreSeparator)
}

func parseScores(text string) ([]float64, error) {
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, scoreSeparator)
	scores := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", p, err)
		}
		scores = append(scores, v)
	}
	return scores, nil
}

// joinList joins list items with listSeparator. Backslashes and pipes inside
// an item are escaped with a backslash so splitList can undo the join.
func joinList(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = listEscaper.Replace(v)
	}
	return strings.Join(escaped, listSeparator)
}

var listEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// splitList is the inverse of joinList: an unescaped pipe together with the
// single spaces around it separates two items.
func splitList(text string) []string {
	if text == "" {
		return nil
	}

	var (
		items []string
		cur   strings.Builder
	)
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\\' && i+1 < len(text):
			i++
			cur.WriteByte(text[i])
		case c == '|':
			item := cur.String()
			items = append(items, strings.TrimSuffix(item, " "))
			cur.Reset()
			if i+1 < len(text) && text[i+1] == ' ' {
				i++
			}
		default:
			cur.WriteByte(c)
		}
	}
	return append(items, cur.String())
}

// cellValue renders one column of a record as flat text.
func cellValue(rec domain.Record, col domain.Column) string {
	switch col {
	case domain.ColumnPaperID:
		return rec.ID
	case domain.ColumnTitle:
		return rec.Title
	case domain.ColumnScores:
		return formatScores(rec.Scores)
	case domain.ColumnComments:
		return rec.Comments
	case domain.ColumnDecision:
		return rec.Decision
	case domain.ColumnURL:
		return rec.URL
	case domain.ColumnAuthors:
		return joinList(rec.Authors)
	case domain.ColumnAbstract:
		return rec.Abstract
	case domain.ColumnTopics:
		return joinList(rec.Topics)
	case domain.ColumnPDFURL:
		return rec.PDFURL
	case domain.ColumnBibTeX:
		return rec.BibTeX
	case domain.ColumnAuthorFeedback:
		return rec.AuthorFeedback
	case domain.ColumnCodeRepository:
		return rec.CodeRepository
	case domain.ColumnDataset:
		return rec.Dataset
	}
	return ""
}

// jsonValue is cellValue with list-valued columns kept as arrays.
func jsonValue(rec domain.Record, col domain.Column) any {
	switch col {
	case domain.ColumnScores:
		if rec.Scores == nil {
			return []float64{}
		}
		return rec.Scores
	case domain.ColumnAuthors:
		if rec.Authors == nil {
			return []string{}
		}
		return rec.Authors
	case domain.ColumnTopics:
		if rec.Topics == nil {
			return []string{}
		}
		return rec.Topics
	}
	return cellValue(rec, col)
}

// setCell is the inverse of cellValue.
func setCell(rec *domain.Record, col domain.Column, value string) error {
	switch col {
	case domain.ColumnPaperID:
		rec.ID = value
	case domain.ColumnTitle:
		rec.Title = value
	case domain.ColumnScores:
		scores, err := parseScores(value)
		if err != nil {
			return err
		}
		rec.Scores = scores
	case domain.ColumnComments:
		rec.Comments = value
	case domain.ColumnDecision:
		rec.Decision = value
	case domain.ColumnURL:
		rec.URL = value
	case domain.ColumnAuthors:
		rec.Authors = splitList(value)
	case domain.ColumnAbstract:
		rec.Abstract = value
	case domain.ColumnTopics:
		rec.Topics = splitList(value)
	case domain.ColumnPDFURL:
		rec.PDFURL = value
	case domain.ColumnBibTeX:
		rec.BibTeX = value
	case domain.ColumnAuthorFeedback:
		rec.AuthorFeedback = value
	case domain.ColumnCodeRepository:
		rec.CodeRepository = value
	case domain.ColumnDataset:
		rec.Dataset = value
	default:
		return fmt.Errorf("unknown column %q", col)
	}
	return nil
}
