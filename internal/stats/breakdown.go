package stats

import (
	"sort"

	"github.com/wchung1209/climbing-log/internal/grade"
	"github.com/wchung1209/climbing-log/internal/model"
)

// StyleStat aggregates climbs carrying one style tag.
type StyleStat struct {
	Style    string
	Sample   model.SampleSize
	SendRate int
}

// BucketStat aggregates climbs falling in one grade bucket.
type BucketStat struct {
	Bucket   grade.Bucket
	Sample   model.SampleSize
	SendRate int
}

// StylesByFrequency returns per-style stats, most climbed first.
// Styles that were never used are omitted.
func StylesByFrequency(records []model.Climb) []StyleStat {
	counts := map[string]*model.SampleSize{}
	for _, c := range records {
		for _, tag := range c.Tags {
			sample, ok := counts[tag]
			if !ok {
				sample = &model.SampleSize{}
				counts[tag] = sample
			}
			sample.Total++
			if c.IsSent {
				sample.Sends++
			}
		}
	}
	items := make([]StyleStat, 0, len(counts))
	for style, sample := range counts {
		items = append(items, StyleStat{
			Style:    style,
			Sample:   *sample,
			SendRate: SendRate(sample.Sends, sample.Total),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Sample.Total == items[j].Sample.Total {
			return items[i].Style < items[j].Style
		}
		return items[i].Sample.Total > items[j].Sample.Total
	})
	return items
}

// WeakestStyles returns up to n styles with the lowest send rate.
func WeakestStyles(records []model.Climb, n int) []StyleStat {
	candidates := StylesByFrequency(records)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SendRate < candidates[j].SendRate
	})
	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// ByBucket returns one entry per colour bucket, easiest first, followed by
// Unclassified when any custom grades are present.
func ByBucket(records []model.Climb) []BucketStat {
	samples := map[grade.Bucket]*model.SampleSize{}
	for _, c := range records {
		b := grade.Classify(c.Grade)
		sample, ok := samples[b]
		if !ok {
			sample = &model.SampleSize{}
			samples[b] = sample
		}
		sample.Total++
		if c.IsSent {
			sample.Sends++
		}
	}
	order := append(grade.Ordered(), grade.Unclassified)
	out := make([]BucketStat, 0, len(order))
	for _, b := range order {
		sample, ok := samples[b]
		if !ok {
			if b == grade.Unclassified {
				continue
			}
			sample = &model.SampleSize{}
		}
		out = append(out, BucketStat{
			Bucket:   b,
			Sample:   *sample,
			SendRate: SendRate(sample.Sends, sample.Total),
		})
	}
	return out
}
