package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wchung1209/climbing-log/internal/model"
)

func TestPlotTrend(t *testing.T) {
	var buf bytes.Buffer
	series := []model.DailyAggregate{
		{Date: "2024-01-01", SendRate: 50},
		{Date: "2024-01-02", SendRate: 100},
		{Date: "2024-01-05", SendRate: 0},
	}
	if err := PlotTrend(&buf, "Send Rate Trend", series, 12, 4); err != nil {
		t.Fatalf("PlotTrend failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour codes for a buffer writer")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected title, 4 plot rows and a date axis, got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "Send Rate Trend" {
		t.Fatalf("unexpected title line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "100%") || !strings.HasPrefix(lines[4], "  0%") {
		t.Fatalf("expected fixed percentage axis, got %q and %q", lines[1], lines[4])
	}
	if !strings.Contains(lines[5], "1/1/2024") || !strings.HasSuffix(lines[5], "1/5/2024") {
		t.Fatalf("unexpected date axis %q", lines[5])
	}
}

func TestPlotTrendEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotTrend(&buf, "", nil, 20, 4); err != nil {
		t.Fatalf("PlotTrend failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != EmptyTrendMessage {
		t.Fatalf("expected empty-state message, got %q", buf.String())
	}
}

func TestPlotTrendForcedColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	series := []model.DailyAggregate{{Date: "2024-01-01", SendRate: 40}}
	if err := PlotTrendWithColor(&buf, "", series, 10, 3, true); err != nil {
		t.Fatalf("PlotTrendWithColor failed: %v", err)
	}
	if !strings.Contains(buf.String(), sendColor) {
		t.Fatalf("expected colour codes when forced")
	}
}

func TestRateToDotRow(t *testing.T) {
	if got := rateToDotRow(100, 16); got != 0 {
		t.Fatalf("expected top row for 100%%, got %d", got)
	}
	if got := rateToDotRow(0, 16); got != 15 {
		t.Fatalf("expected bottom row for 0%%, got %d", got)
	}
	if got := rateToDotRow(150, 16); got != 0 {
		t.Fatalf("expected clamp above 100%%, got %d", got)
	}
}

func TestResample(t *testing.T) {
	up := resample([]float64{0, 100}, 3)
	if len(up) != 3 || up[0] != 0 || up[1] != 50 || up[2] != 100 {
		t.Fatalf("unexpected upsample: %v", up)
	}
	down := resample([]float64{0, 100, 50, 50}, 2)
	if len(down) != 2 || down[0] != 50 || down[1] != 50 {
		t.Fatalf("unexpected downsample: %v", down)
	}
	flat := resample([]float64{30}, 4)
	for _, v := range flat {
		if v != 30 {
			t.Fatalf("unexpected single-point resample: %v", flat)
		}
	}
}
