package stats

import (
	"github.com/wchung1209/climbing-log/internal/dates"
	"github.com/wchung1209/climbing-log/internal/model"
)

// ComputeSummary derives collection-wide stats. It ignores any filter and
// does not depend on the order of records.
func ComputeSummary(records []model.Climb) model.SummaryStats {
	if len(records) == 0 {
		return model.SummaryStats{
			LatestSessionDate: model.NoSession,
			TrendSeries:       []model.DailyAggregate{},
		}
	}
	sessions := map[string]struct{}{}
	sends := 0
	latest := ""
	for _, c := range records {
		sessions[c.Date] = struct{}{}
		if c.IsSent {
			sends++
		}
		if c.Date > latest {
			latest = c.Date
		}
	}
	return model.SummaryStats{
		TotalSessions:     len(sessions),
		SendRate:          SendRate(sends, len(records)),
		LatestSessionDate: latest,
		TrendSeries:       ComputeTrend(records),
	}
}

// LatestSessionLabel renders the latest session date as M/D/YYYY, or N/A.
func LatestSessionLabel(s model.SummaryStats) string {
	if s.LatestSessionDate == "" || s.LatestSessionDate == model.NoSession {
		return model.NoSession
	}
	return dates.DisplayKey(s.LatestSessionDate)
}

// Partition splits climbs into those whose date parses and those that do not.
// Rejected climbs are left out of every aggregate.
func Partition(records []model.Climb) ([]model.Climb, []model.Rejected) {
	valid := make([]model.Climb, 0, len(records))
	var rejected []model.Rejected
	for _, c := range records {
		d, err := dates.Parse(c.Date)
		if err != nil {
			rejected = append(rejected, model.Rejected{Climb: c, Err: err})
			continue
		}
		c.Date = d.Key()
		valid = append(valid, c)
	}
	return valid, rejected
}
