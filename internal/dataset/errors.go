package dataset

import "fmt"

// DataLoadError reports a dataset file that is missing, unreadable or does not
// have the expected shape. It is fatal at startup.
type DataLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load dataset %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load dataset %s: %s", e.Path, e.Reason)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// DateParseError reports a row whose date column could not be parsed.
// Such rows are dropped from the dataset.
type DateParseError struct {
	Line  int
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("line %d: unparsable date %q", e.Line, e.Value)
}
