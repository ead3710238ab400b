package odata

import (
	"fmt"
	"strings"

	"pibdash/internal/models"
)

// OrderClause is one "column [asc|desc]" term of an $orderby parameter
type OrderClause struct {
	Field      string
	Descending bool
}

// ParseOrderBy parses a comma-separated $orderby such as "date desc, title".
// Direction defaults to ascending.
func ParseOrderBy(orderBy string) ([]OrderClause, error) {
	var clauses []OrderClause
	for _, part := range strings.Split(orderBy, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 2 {
			return nil, fmt.Errorf("invalid $orderby term %q", strings.TrimSpace(part))
		}

		field := strings.ToLower(fields[0])
		if err := checkField(field); err != nil {
			return nil, err
		}

		clause := OrderClause{Field: field}
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "asc":
			case "desc":
				clause.Descending = true
			default:
				return nil, fmt.Errorf("invalid sort direction %q: expected asc or desc", fields[1])
			}
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

// CompareRows orders two rows by the given clauses, first clause first.
func CompareRows(a, b models.TableRow, clauses []OrderClause) int {
	for _, c := range clauses {
		cmp := CompareValues(FieldValue(c.Field, a), FieldValue(c.Field, b))
		if c.Descending {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}
