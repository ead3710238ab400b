package pipeline

import (
	"slices"
	"strings"

	"pibdash/internal/models"

	"golang.org/x/text/cases"
)

// Apply narrows rows to those matching state, preserving source order.
//
// Predicates run in sequence: year (always), ministry (only when at least one
// ministry is selected; an empty selection lets every ministry through) and
// keyword (only when non-blank; case-insensitive substring of the title,
// surrounding whitespace included).
// Callers are expected to check state.Ready() first: with no years selected
// the year predicate keeps nothing.
func Apply(rows []models.PressRelease, state models.FilterState) []models.PressRelease {
	filtered := filterByYear(rows, state.Years)
	filtered = filterByMinistry(filtered, state.Ministries)
	filtered = filterByKeyword(filtered, state.Keyword)
	return filtered
}

func filterByYear(rows []models.PressRelease, years []int) []models.PressRelease {
	selected := make(map[int]struct{}, len(years))
	for _, y := range years {
		selected[y] = struct{}{}
	}

	result := make([]models.PressRelease, 0, len(rows))
	for _, row := range rows {
		if _, ok := selected[row.Year]; ok {
			result = append(result, row)
		}
	}
	return result
}

func filterByMinistry(rows []models.PressRelease, ministries []string) []models.PressRelease {
	if len(ministries) == 0 {
		return rows
	}

	selected := make(map[string]struct{}, len(ministries))
	for _, m := range ministries {
		selected[m] = struct{}{}
	}

	return slices.DeleteFunc(rows, func(row models.PressRelease) bool {
		_, ok := selected[row.Ministry]
		return !ok
	})
}

func filterByKeyword(rows []models.PressRelease, keyword string) []models.PressRelease {
	if strings.TrimSpace(keyword) == "" {
		return rows
	}

	// Casers are stateful and must not be shared across goroutines.
	fold := cases.Fold()
	needle := fold.String(keyword)

	return slices.DeleteFunc(rows, func(row models.PressRelease) bool {
		return !strings.Contains(fold.String(row.Title), needle)
	})
}
