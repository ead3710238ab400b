package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pibdash/internal/logger"
	"pibdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,ministry,title,url
2023-01-05,A,Lithium Mining Update,https://pib.gov.in/1
2023-02-10,A,Cabinet approves scheme,https://pib.gov.in/2
2024-03-01,B,Rail budget announced,https://pib.gov.in/3
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeFile(t, "press.csv", sampleCSV)

	ds, err := NewLoader(logger.Discard()).Load(path)
	require.NoError(t, err)

	rows := ds.Rows()
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), first.Month)
	assert.Equal(t, "A", first.Ministry)
	assert.Equal(t, "Lithium Mining Update", first.Title)
	assert.Equal(t, "https://pib.gov.in/1", first.URL)

	assert.Equal(t, []int{2023, 2024}, ds.AvailableYears())
	assert.Equal(t, []string{"A", "B"}, ds.AvailableMinistries())
	assert.Empty(t, ds.Skipped())
}

func TestLoader_LoadIsDeterministic(t *testing.T) {
	path := writeFile(t, "press.csv", sampleCSV)
	loader := NewLoader(logger.Discard())

	first, err := loader.Load(path)
	require.NoError(t, err)
	second, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, first.Rows(), second.Rows())
}

func TestLoader_HeaderIsCaseInsensitiveAndOrderFree(t *testing.T) {
	content := "\ufeffURL, Title ,Extra,Ministry,Date\n" +
		"https://pib.gov.in/9,Solar parks,ignored,Ministry of Power,2022-12-31\n"
	path := writeFile(t, "press.csv", content)

	ds, err := NewLoader(logger.Discard()).Load(path)
	require.NoError(t, err)

	rows := ds.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Solar parks", rows[0].Title)
	assert.Equal(t, "Ministry of Power", rows[0].Ministry)
	assert.Equal(t, "https://pib.gov.in/9", rows[0].URL)
	assert.Equal(t, 2022, rows[0].Year)
}

func TestLoader_TabSeparated(t *testing.T) {
	content := "date\tministry\ttitle\turl\n05 Jan 2023\tA\tTitle, with comma\thttps://pib.gov.in/1\n"
	path := writeFile(t, "press.tsv", content)

	ds, err := NewLoader(logger.Discard()).Load(path)
	require.NoError(t, err)

	rows := ds.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Title, with comma", rows[0].Title)
	assert.Equal(t, time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC), rows[0].Date)
}

func TestLoader_DateFormats(t *testing.T) {
	want := time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC)
	for _, value := range []string{
		"2023-03-07",
		"2023-03-07 14:30:00",
		"2023-03-07T14:30:00+05:30",
		"07-03-2023",
		"07/03/2023",
		"07 Mar 2023",
		"07 MAR 2023",
		"March 7, 2023",
		"7 March 2023",
		"2023-03-07T00:00:00",
		"7 Mar 2023",
		"7/3/2023",
		"Mar 7, 2023",
		"07-Mar-2023",
	} {
		t.Run(value, func(t *testing.T) {
			got, ok := parseDate(value)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoader_DropsRowsWithBadDates(t *testing.T) {
	content := `date,ministry,title,url
2023-01-05,A,Good row,https://pib.gov.in/1
not-a-date,A,Bad row,https://pib.gov.in/2
,B,Empty date,https://pib.gov.in/3
2023-02-10,B,Another good row,https://pib.gov.in/4
`
	path := writeFile(t, "press.csv", content)

	ds, err := NewLoader(logger.Discard()).Load(path)
	require.NoError(t, err)

	rows := ds.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Good row", rows[0].Title)
	assert.Equal(t, "Another good row", rows[1].Title)

	skipped := ds.Skipped()
	require.Len(t, skipped, 2)
	assert.Equal(t, 3, skipped[0].Line)
	assert.Equal(t, "not-a-date", skipped[0].Value)
	assert.Equal(t, 4, skipped[1].Line)
	assert.Contains(t, skipped[0].Error(), "not-a-date")
}

func TestLoader_DataLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			wantErr: "cannot open file",
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeFile(t, "empty.csv", "") },
			wantErr: "file is empty",
		},
		{
			name: "missing column",
			path: func(t *testing.T) string {
				return writeFile(t, "press.csv", "date,ministry,title\n2023-01-05,A,T\n")
			},
			wantErr: "missing required column(s): url",
		},
		{
			name: "short row",
			path: func(t *testing.T) string {
				return writeFile(t, "press.csv", "date,ministry,title,url\n2023-01-05,A\n")
			},
			wantErr: "line 2 has 2 fields",
		},
		{
			name: "bad quoting",
			path: func(t *testing.T) string {
				return writeFile(t, "press.csv", "date,ministry,title,url\n2023-01-05,A,\"unterminated,x\n")
			},
			wantErr: "malformed row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(logger.Discard()).Load(tt.path(t))
			require.Error(t, err)

			var loadErr *DataLoadError
			require.True(t, errors.As(err, &loadErr), "expected *DataLoadError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_MissingFileUnwrapsToNotExist(t *testing.T) {
	_, err := NewLoader(logger.Discard()).Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_HeaderOnly(t *testing.T) {
	path := writeFile(t, "press.csv", "date,ministry,title,url\n")

	ds, err := NewLoader(logger.Discard()).Load(path)
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
	assert.False(t, ds.DefaultFilterState().Ready())
	assert.Equal(t, models.Monthly, ds.DefaultFilterState().Aggregation)
}
