package dashboard

import (
	"errors"

	"pibdash/internal/dataset"
	"pibdash/internal/models"
	"pibdash/internal/pipeline"
	"pibdash/internal/views"

	"golang.org/x/text/language"
)

// ErrFiltersNotReady is returned while no year is selected.
var ErrFiltersNotReady = errors.New("filters not ready: select at least one year")

// Dashboard recomputes every projection from the shared dataset on demand.
// It holds no per-session state and is safe for concurrent use.
type Dashboard struct {
	data *dataset.Dataset
}

func New(data *dataset.Dataset) *Dashboard {
	return &Dashboard{data: data}
}

// Dataset exposes the loaded dataset read-only.
func (d *Dashboard) Dataset() *dataset.Dataset {
	return d.data
}

// Choices lists the selectable filter values of the full dataset.
func (d *Dashboard) Choices() models.Choices {
	return models.Choices{
		Years:         d.data.AvailableYears(),
		Ministries:    d.data.AvailableMinistries(),
		Granularities: models.Granularities(),
	}
}

// DefaultState is the filter state a new session starts with.
func (d *Dashboard) DefaultState() models.FilterState {
	return d.data.DefaultFilterState()
}

// Filtered runs the filter pipeline for state.
func (d *Dashboard) Filtered(state models.FilterState) ([]models.PressRelease, error) {
	if !state.Ready() {
		return nil, ErrFiltersNotReady
	}
	return pipeline.Apply(d.data.Rows(), state), nil
}

// Render computes summary, series and table from a single filtered snapshot,
// so the three views always agree with each other.
func (d *Dashboard) Render(state models.FilterState, tag language.Tag) (*models.DashboardView, error) {
	rows, err := d.Filtered(state)
	if err != nil {
		return nil, err
	}

	summary := views.Summarize(rows)
	return &models.DashboardView{
		Filters: state.Clone(),
		Summary: summary,
		Cards:   views.Cards(summary, tag),
		Series:  views.Series(rows, state.Aggregation),
		Table:   views.Table(rows),
	}, nil
}
