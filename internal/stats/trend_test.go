package stats

import (
	"testing"

	"github.com/wchung1209/climbing-log/internal/model"
)

func TestSendRateRounding(t *testing.T) {
	cases := []struct {
		sends, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 2, 50},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{1, 200, 1},
		{1, 201, 0},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := SendRate(tc.sends, tc.total); got != tc.want {
			t.Fatalf("SendRate(%d, %d) = %d, want %d", tc.sends, tc.total, got, tc.want)
		}
	}
}

func TestComputeTrendEmpty(t *testing.T) {
	got := ComputeTrend(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil trend, got %#v", got)
	}
}

func TestComputeTrendGroupsAndSorts(t *testing.T) {
	records := []model.Climb{
		climb("a", "2024-02-10", "V1", true),
		climb("b", "2024-01-01", "V1", false),
		climb("c", "2024-02-09", "V1", true),
		climb("d", "2024-01-01", "V1", true),
		climb("e", "2024-02-10", "V1", false),
		climb("f", "2024-02-10", "V1", false),
	}
	got := ComputeTrend(records)
	want := []model.DailyAggregate{
		{Date: "2024-01-01", SendRate: 50, Sample: model.SampleSize{Sends: 1, Total: 2}},
		{Date: "2024-02-09", SendRate: 100, Sample: model.SampleSize{Sends: 1, Total: 1}},
		{Date: "2024-02-10", SendRate: 33, Sample: model.SampleSize{Sends: 1, Total: 3}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestComputeTrendDatesStrictlyIncreasing(t *testing.T) {
	records := []model.Climb{
		climb("a", "2023-12-31", "V1", true),
		climb("b", "2024-10-01", "V1", true),
		climb("c", "2024-09-30", "V1", false),
		climb("d", "2023-12-31", "V1", false),
		climb("e", "2024-01-15", "V1", true),
	}
	got := ComputeTrend(records)
	for i := 1; i < len(got); i++ {
		if got[i-1].Date >= got[i].Date {
			t.Fatalf("dates not strictly increasing: %s then %s", got[i-1].Date, got[i].Date)
		}
	}
	if len(got) != 4 {
		t.Fatalf("expected one entry per distinct date, got %d", len(got))
	}
}

func TestRates(t *testing.T) {
	series := []model.DailyAggregate{{SendRate: 50}, {SendRate: 100}}
	got := Rates(series)
	if len(got) != 2 || got[0] != 50 || got[1] != 100 {
		t.Fatalf("unexpected rates: %v", got)
	}
}
