package stats

import (
	"sort"

	"github.com/wchung1209/climbing-log/internal/model"
)

// SendRate returns round(100*sends/total), or 0 when total is 0.
func SendRate(sends, total int) int {
	if total <= 0 {
		return 0
	}
	// Integer half-up rounding; both operands are non-negative.
	return (200*sends + total) / (2 * total)
}

// ComputeTrend groups climbs by date and returns one aggregate per distinct
// date, oldest first. Dates with no climbs are not emitted.
func ComputeTrend(records []model.Climb) []model.DailyAggregate {
	groups := map[string]*model.SampleSize{}
	for _, c := range records {
		sample, ok := groups[c.Date]
		if !ok {
			sample = &model.SampleSize{}
			groups[c.Date] = sample
		}
		sample.Total++
		if c.IsSent {
			sample.Sends++
		}
	}

	keys := make([]string, 0, len(groups))
	for date := range groups {
		keys = append(keys, date)
	}
	sort.Strings(keys)

	out := make([]model.DailyAggregate, 0, len(keys))
	for _, date := range keys {
		sample := *groups[date]
		out = append(out, model.DailyAggregate{
			Date:     date,
			SendRate: SendRate(sample.Sends, sample.Total),
			Sample:   sample,
		})
	}
	return out
}

// Rates extracts the send-rate values of a trend series for plotting.
func Rates(series []model.DailyAggregate) []float64 {
	out := make([]float64, len(series))
	for i, day := range series {
		out[i] = float64(day.SendRate)
	}
	return out
}
