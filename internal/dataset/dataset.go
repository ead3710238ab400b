package dataset

import (
	"slices"

	"pibdash/internal/models"
)

// Dataset is the immutable, process-wide press release table. It is safe for
// concurrent use because nothing mutates it after construction and every
// accessor hands out copies.
type Dataset struct {
	rows       []models.PressRelease
	years      []int
	ministries []string
	skipped    []*DateParseError
}

// New builds a dataset from rows, computing the available filter choices once.
func New(rows []models.PressRelease) *Dataset {
	return newDataset(slices.Clone(rows), nil)
}

func newDataset(rows []models.PressRelease, skipped []*DateParseError) *Dataset {
	yearSet := make(map[int]struct{})
	ministrySet := make(map[string]struct{})
	for _, row := range rows {
		yearSet[row.Year] = struct{}{}
		ministrySet[row.Ministry] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	slices.Sort(years)

	ministries := make([]string, 0, len(ministrySet))
	for m := range ministrySet {
		ministries = append(ministries, m)
	}
	slices.Sort(ministries)

	return &Dataset{
		rows:       rows,
		years:      years,
		ministries: ministries,
		skipped:    skipped,
	}
}

// Rows returns a copy of every row in source order.
func (d *Dataset) Rows() []models.PressRelease {
	return slices.Clone(d.rows)
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

// AvailableYears returns the distinct years of the full dataset, ascending.
func (d *Dataset) AvailableYears() []int {
	return slices.Clone(d.years)
}

// AvailableMinistries returns the distinct ministries of the full dataset, sorted.
func (d *Dataset) AvailableMinistries() []string {
	return slices.Clone(d.ministries)
}

// Skipped lists the rows dropped at load time because of bad dates.
func (d *Dataset) Skipped() []*DateParseError {
	return slices.Clone(d.skipped)
}

// DefaultFilterState selects the most recent year and every ministry.
func (d *Dataset) DefaultFilterState() models.FilterState {
	state := models.FilterState{
		Years:       []int{},
		Ministries:  d.AvailableMinistries(),
		Aggregation: models.Monthly,
	}
	if len(d.years) > 0 {
		state.Years = []int{d.years[len(d.years)-1]}
	}
	return state
}
