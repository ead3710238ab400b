package odata

import (
	"fmt"
	"strings"
	"time"

	"pibdash/internal/models"
)

// Columns that table filters and ordering can reference
var Columns = []string{"date", "ministry", "title", "url"}

type FilterParser struct{}

type FilterExpression struct {
	Operator string
	Field    string
	Value    string
	Left     *FilterExpression
	Right    *FilterExpression
	Function string
}

func NewFilterParser() *FilterParser {
	return &FilterParser{}
}

// Parse turns a $filter string such as
// "contains(title, 'mining') and date ge '2023-01-01'" into an expression tree.
// An empty filter parses to nil, which matches every row.
func (p *FilterParser) Parse(filter string) (*FilterExpression, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}
	return p.parseExpression(filter)
}

func (p *FilterParser) parseExpression(expr string) (*FilterExpression, error) {
	expr = strings.TrimSpace(expr)

	// "or" binds looser than "and", so split on it first
	for _, op := range []string{"or", "and"} {
		if idx := indexOutsideQuotes(expr, " "+op+" "); idx != -1 {
			return p.parseLogicalOperator(expr, idx, op)
		}
	}

	for _, fn := range []string{"startswith", "endswith", "contains"} {
		if strings.HasPrefix(strings.ToLower(expr), fn+"(") {
			return p.parseFunction(expr, fn)
		}
	}

	for _, op := range []string{"eq", "ne", "gt", "ge", "lt", "le"} {
		if idx := indexOutsideQuotes(expr, " "+op+" "); idx != -1 {
			return p.parseComparison(expr, idx, op)
		}
	}

	return nil, fmt.Errorf("unable to parse expression: %s", expr)
}

func (p *FilterParser) parseLogicalOperator(expr string, idx int, op string) (*FilterExpression, error) {
	left, err := p.parseExpression(expr[:idx])
	if err != nil {
		return nil, err
	}

	right, err := p.parseExpression(expr[idx+len(op)+2:])
	if err != nil {
		return nil, err
	}

	return &FilterExpression{
		Operator: op,
		Left:     left,
		Right:    right,
	}, nil
}

func (p *FilterParser) parseComparison(expr string, idx int, op string) (*FilterExpression, error) {
	field := strings.ToLower(strings.TrimSpace(expr[:idx]))
	value := strings.TrimSpace(expr[idx+len(op)+2:])

	if err := checkField(field); err != nil {
		return nil, err
	}

	return &FilterExpression{
		Operator: op,
		Field:    field,
		Value:    unquote(value),
	}, nil
}

func (p *FilterParser) parseFunction(expr string, funcName string) (*FilterExpression, error) {
	// e.g. startswith(title, 'Cabinet') -> title, 'Cabinet'
	argsStart := strings.Index(expr, "(")
	argsEnd := strings.LastIndex(expr, ")")
	if argsStart == -1 || argsEnd < argsStart {
		return nil, fmt.Errorf("invalid function call: %s", expr)
	}

	args := parseFunctionArguments(expr[argsStart+1 : argsEnd])
	if len(args) != 2 {
		return nil, fmt.Errorf("function %s expects 2 arguments, got %d", funcName, len(args))
	}

	field := strings.ToLower(args[0])
	if err := checkField(field); err != nil {
		return nil, err
	}

	return &FilterExpression{
		Function: funcName,
		Field:    field,
		Value:    args[1],
	}, nil
}

// parseFunctionArguments splits on commas outside quotes and strips the quotes.
func parseFunctionArguments(argsStr string) []string {
	var args []string
	var currentArg strings.Builder
	var inQuotes bool
	var quoteChar byte

	for i := 0; i < len(argsStr); i++ {
		char := argsStr[i]

		if !inQuotes && (char == '\'' || char == '"') {
			inQuotes = true
			quoteChar = char
			continue
		}

		if inQuotes && char == quoteChar {
			inQuotes = false
			continue
		}

		if !inQuotes && char == ',' {
			args = append(args, strings.TrimSpace(currentArg.String()))
			currentArg.Reset()
			continue
		}

		currentArg.WriteByte(char)
	}

	if currentArg.Len() > 0 {
		args = append(args, strings.TrimSpace(currentArg.String()))
	}

	return args
}

// Evaluate reports whether row satisfies expr. A nil expression matches.
func (p *FilterParser) Evaluate(expr *FilterExpression, row models.TableRow) (bool, error) {
	if expr == nil {
		return true, nil
	}

	switch {
	case expr.Operator == "and":
		left, err := p.Evaluate(expr.Left, row)
		if err != nil || !left {
			return false, err
		}
		return p.Evaluate(expr.Right, row)

	case expr.Operator == "or":
		left, err := p.Evaluate(expr.Left, row)
		if err != nil || left {
			return left, err
		}
		return p.Evaluate(expr.Right, row)

	case expr.Function != "":
		return p.evaluateFunction(expr, row)

	case expr.Operator != "" && expr.Field != "":
		return p.evaluateComparison(expr, row)
	}

	return false, fmt.Errorf("invalid filter expression")
}

func (p *FilterParser) evaluateComparison(expr *FilterExpression, row models.TableRow) (bool, error) {
	cmp := CompareValues(FieldValue(expr.Field, row), expr.Value)

	switch expr.Operator {
	case "eq":
		return cmp == 0, nil
	case "ne":
		return cmp != 0, nil
	case "gt":
		return cmp > 0, nil
	case "ge":
		return cmp >= 0, nil
	case "lt":
		return cmp < 0, nil
	case "le":
		return cmp <= 0, nil
	default:
		return false, fmt.Errorf("unsupported comparison operator: %s", expr.Operator)
	}
}

func (p *FilterParser) evaluateFunction(expr *FilterExpression, row models.TableRow) (bool, error) {
	fieldValue := strings.ToLower(FieldValue(expr.Field, row))
	searchValue := strings.ToLower(expr.Value)

	switch expr.Function {
	case "startswith":
		return strings.HasPrefix(fieldValue, searchValue), nil
	case "endswith":
		return strings.HasSuffix(fieldValue, searchValue), nil
	case "contains":
		return strings.Contains(fieldValue, searchValue), nil
	default:
		return false, fmt.Errorf("unsupported function: %s", expr.Function)
	}
}

// FieldValue returns the named column of a table row. Unknown names yield "".
func FieldValue(field string, row models.TableRow) string {
	switch strings.ToLower(field) {
	case "date":
		return row.Date
	case "ministry":
		return row.Ministry
	case "title":
		return row.Title
	case "url":
		return row.URL
	default:
		return ""
	}
}

// CompareValues compares two column values, as calendar dates when both parse
// as YYYY-MM-DD and as case-insensitive strings otherwise.
func CompareValues(a, b string) int {
	timeA, errA := time.Parse("2006-01-02", a)
	timeB, errB := time.Parse("2006-01-02", b)
	if errA == nil && errB == nil {
		return timeA.Compare(timeB)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func checkField(field string) error {
	for _, c := range Columns {
		if c == field {
			return nil
		}
	}
	return fmt.Errorf("unknown column %q: expected one of %s", field, strings.Join(Columns, ", "))
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' || first == '"') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// indexOutsideQuotes finds the first case-insensitive occurrence of sep that is
// not inside a quoted literal.
func indexOutsideQuotes(s, sep string) int {
	var quote byte
	for i := 0; i+len(sep) <= len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			continue
		}
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}
