package stats

import (
	"context"

	"github.com/wchung1209/climbing-log/internal/model"
)

// ClimbLister supplies a snapshot of every stored climb.
type ClimbLister interface {
	ListClimbs(ctx context.Context) ([]model.Climb, error)
}

// Report contains precomputed data for rendering one view of the log.
type Report struct {
	Selection model.FilterSelection
	Summary   model.SummaryStats
	Filtered  []model.Climb
	Trend     []model.DailyAggregate
	Page      model.Page[model.Climb]
	Rejected  []model.Rejected
}

// NoMatches reports whether a filter is applied and nothing matched it.
func (r Report) NoMatches() bool {
	return len(r.Filtered) == 0 && !r.Selection.IsZero()
}

// BuildReport runs the full pass over one snapshot of climbs: malformed
// records are set aside, the summary covers every valid climb, and the trend
// and page cover the filtered subset.
func BuildReport(records []model.Climb, sel model.FilterSelection, page, pageSize int) Report {
	valid, rejected := Partition(records)
	filtered := ApplyFilter(valid, sel)
	return Report{
		Selection: sel,
		Summary:   ComputeSummary(valid),
		Filtered:  filtered,
		Trend:     ComputeTrend(filtered),
		Page:      Paginate(filtered, page, pageSize),
		Rejected:  rejected,
	}
}

// LoadReport fetches climbs from src and builds a report over them.
func LoadReport(ctx context.Context, src ClimbLister, sel model.FilterSelection, page, pageSize int) (Report, error) {
	records, err := src.ListClimbs(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(records, sel, page, pageSize), nil
}
