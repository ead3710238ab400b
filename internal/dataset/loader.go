package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pibdash/internal/models"
)

// Required column names, matched case-insensitively against the header row
const (
	ColumnDate     = "date"
	ColumnMinistry = "ministry"
	ColumnTitle    = "title"
	ColumnURL      = "url"
)

var requiredColumns = []string{ColumnDate, ColumnMinistry, ColumnTitle, ColumnURL}

// dateLayouts are tried in order; the first that parses wins. Slash dates
// are day first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02-01-2006",
	"2/1/2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

// Loader reads the press release file into a Dataset
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads every row of the delimited file at path. Tab is the delimiter for
// .tsv files, comma otherwise. Rows with unparsable dates are dropped, logged
// and recorded on the returned dataset; any other problem is a *DataLoadError.
func (l *Loader) Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		r.Comma = '\t'
	}

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataLoadError{Path: path, Reason: "file is empty"}
	}
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "cannot read header", Err: err}
	}

	columns, err := locateColumns(header)
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "malformed header", Err: err}
	}

	width := 0
	for _, col := range requiredColumns {
		width = max(width, columns[col]+1)
	}

	var rows []models.PressRelease
	var skipped []*DateParseError

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: path, Reason: "malformed row", Err: err}
		}

		line, _ := r.FieldPos(0)
		if len(record) < width {
			return nil, &DataLoadError{
				Path:   path,
				Reason: fmt.Sprintf("line %d has %d fields, want at least %d", line, len(record), width),
			}
		}

		rawDate := strings.TrimSpace(record[columns[ColumnDate]])
		date, ok := parseDate(rawDate)
		if !ok {
			perr := &DateParseError{Line: line, Value: rawDate}
			l.logger.Warn("dropping row with unparsable date", "path", path, "line", line, "value", rawDate)
			skipped = append(skipped, perr)
			continue
		}

		rows = append(rows, models.NewPressRelease(
			date,
			strings.TrimSpace(record[columns[ColumnMinistry]]),
			strings.TrimSpace(record[columns[ColumnTitle]]),
			strings.TrimSpace(record[columns[ColumnURL]]),
		))
	}

	l.logger.Info("dataset loaded", "path", path, "rows", len(rows), "skipped", len(skipped))
	return newDataset(rows, skipped), nil
}

func locateColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.TruncateDay(t), true
		}
	}
	return time.Time{}, false
}
