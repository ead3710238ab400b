// Package views derives the read-only projections the dashboard renders from a
// filtered subset of press releases.
package views

import (
	"fmt"
	"html"

	"pibdash/internal/aggregator"
	"pibdash/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summarize counts the rows, distinct years and distinct ministries.
func Summarize(rows []models.PressRelease) models.Summary {
	years := make(map[int]struct{})
	ministries := make(map[string]struct{})
	for _, row := range rows {
		years[row.Year] = struct{}{}
		ministries[row.Ministry] = struct{}{}
	}

	return models.Summary{
		TotalCount:        len(rows),
		YearsCovered:      len(years),
		MinistriesCovered: len(ministries),
	}
}

var supportedLanguages = language.NewMatcher([]language.Tag{
	language.English,
	language.Hindi,
	language.German,
	language.French,
})

// MatchLanguage picks the display language for an Accept-Language header,
// falling back to English.
func MatchLanguage(acceptLanguage string) language.Tag {
	tag, _ := language.MatchStrings(supportedLanguages, acceptLanguage)
	return tag
}

// Cards labels the summary values and formats them for the given language,
// e.g. 12345 renders as "12,345" in English.
func Cards(summary models.Summary, tag language.Tag) []models.SummaryCard {
	p := message.NewPrinter(tag)
	card := func(label, icon string, value int) models.SummaryCard {
		return models.SummaryCard{
			Label:   label,
			Icon:    icon,
			Value:   value,
			Display: p.Sprintf("%d", value),
		}
	}

	return []models.SummaryCard{
		card("Total Press Releases", "newspaper", summary.TotalCount),
		card("Years Covered", "calendar", summary.YearsCovered),
		card("Ministries Covered", "building-columns", summary.MinistriesCovered),
	}
}

// Series is the trend series at the requested granularity.
func Series(rows []models.PressRelease, granularity models.Granularity) []models.AggregatedBucket {
	return aggregator.Aggregate(rows, granularity)
}

// Table projects rows for display, adding a clickable link for each URL.
// The rows themselves are not modified.
func Table(rows []models.PressRelease) []models.TableRow {
	table := make([]models.TableRow, len(rows))
	for i, row := range rows {
		table[i] = models.TableRow{
			Date:     row.Date.Format("2006-01-02"),
			Ministry: row.Ministry,
			Title:    row.Title,
			URL:      row.URL,
			Link:     Link(row.URL),
		}
	}
	return table
}

// Link renders url as an anchor whose href and text are both the url. The
// target opens in a new tab without access to the opener.
func Link(url string) string {
	escaped := html.EscapeString(url)
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, escaped, escaped)
}
