package views

import (
	"fmt"
	"slices"
	"strings"

	"pibdash/internal/models"
	"pibdash/internal/odata"
)

// QueryTable is the server side of the table widget: global search, column
// filter, ordering and paging over an already filtered table projection.
func QueryTable(rows []models.TableRow, query *models.TableQuery) (models.TablePage, error) {
	page := models.TablePage{TotalRecords: len(rows)}
	if query == nil {
		query = &models.TableQuery{}
	}

	result := slices.Clone(rows)

	if terms := nonBlank(query.Search); len(terms) > 0 {
		result = slices.DeleteFunc(result, func(row models.TableRow) bool {
			return !rowContainsAny(row, terms)
		})
	}

	if query.Filter != "" {
		parser := odata.NewFilterParser()
		expr, err := parser.Parse(query.Filter)
		if err != nil {
			return models.TablePage{}, fmt.Errorf("invalid filter expression: %w", err)
		}

		var evalErr error
		result = slices.DeleteFunc(result, func(row models.TableRow) bool {
			if evalErr != nil {
				return false
			}
			matches, err := parser.Evaluate(expr, row)
			if err != nil {
				evalErr = err
			}
			return !matches
		})
		if evalErr != nil {
			return models.TablePage{}, fmt.Errorf("filter evaluation error: %w", evalErr)
		}
	}

	if query.OrderBy != "" {
		clauses, err := odata.ParseOrderBy(query.OrderBy)
		if err != nil {
			return models.TablePage{}, fmt.Errorf("invalid orderby: %w", err)
		}
		slices.SortStableFunc(result, func(a, b models.TableRow) int {
			return odata.CompareRows(a, b, clauses)
		})
	}

	page.FilteredRecords = len(result)

	if query.Skip > 0 {
		if query.Skip >= len(result) {
			result = result[:0]
		} else {
			result = result[query.Skip:]
		}
	}

	if query.Top > 0 && query.Top < len(result) {
		result = result[:query.Top]
	}

	if result == nil {
		result = []models.TableRow{}
	}
	page.Rows = result
	return page, nil
}

func nonBlank(terms []string) []string {
	var out []string
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			out = append(out, strings.ToLower(term))
		}
	}
	return out
}

// rowContainsAny reports whether any column contains any of the lower-cased
// terms (OR logic).
func rowContainsAny(row models.TableRow, terms []string) bool {
	fields := []string{
		strings.ToLower(row.Date),
		strings.ToLower(row.Ministry),
		strings.ToLower(row.Title),
		strings.ToLower(row.URL),
	}

	for _, term := range terms {
		for _, field := range fields {
			if strings.Contains(field, term) {
				return true
			}
		}
	}
	return false
}
