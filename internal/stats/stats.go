package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wchung1209/climbing-log/internal/dates"
	"github.com/wchung1209/climbing-log/internal/grade"
	"github.com/wchung1209/climbing-log/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	top := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(top)))
		idx = max(0, min(idx, top))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the collection-wide stats.
func RenderSummary(w io.Writer, summary model.SummaryStats) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", summary.TotalSessions),
		fmt.Sprintf("Send Rate: %d%%  %s", summary.SendRate, Sparkline(Rates(summary.TrendSeries))),
		fmt.Sprintf("Latest Session: %s", LatestSessionLabel(summary)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrendDetails prints one line per session date with its sample size.
func RenderTrendDetails(w io.Writer, series []model.DailyAggregate) error {
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, EmptyTrendMessage)
		return err
	}
	headers := []string{"Date", "Send Rate", "Sends", "Climbs"}
	rows := make([][]string, 0, len(series))
	for _, day := range series {
		label := day.Date
		if d, err := dates.Parse(day.Date); err == nil {
			label = d.Long()
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%d%%", day.SendRate),
			strconv.Itoa(day.Sample.Sends),
			strconv.Itoa(day.Sample.Total),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}))
}

// RenderClimbTable prints one page of climbs with a page indicator.
func RenderClimbTable(w io.Writer, page model.Page[model.Climb], filtered bool) error {
	if len(page.Items) == 0 {
		msg := "No climbs logged yet."
		if filtered {
			msg = "No climbs match this filter."
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}
	headers := []string{"Date", "Grade", "Bucket", "Attempts", "Sent", "Style", "ID"}
	rows := make([][]string, 0, len(page.Items))
	for _, c := range page.Items {
		sent := ""
		if c.IsSent {
			sent = "✓"
		}
		rows = append(rows, []string{
			dates.DisplayKey(c.Date),
			c.Grade,
			grade.Classify(c.Grade).String(),
			strconv.Itoa(c.Attempts),
			sent,
			strings.Join(c.Tags, ", "),
			c.ID,
		})
	}
	lines := formatTable(headers, rows, map[int]bool{3: true})
	lines = append(lines, fmt.Sprintf("Page %d / %d", page.Page, page.TotalPages))
	return writeLines(w, lines)
}

// RenderStyleTable prints per-style send rates.
func RenderStyleTable(w io.Writer, styles []StyleStat) error {
	if len(styles) == 0 {
		_, err := fmt.Fprintln(w, "No style tags recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "By Style"); err != nil {
		return err
	}
	headers := []string{"Style", "Send Rate", "Sends", "Climbs"}
	rows := make([][]string, 0, len(styles))
	for _, s := range styles {
		rows = append(rows, []string{
			s.Style,
			fmt.Sprintf("%d%%", s.SendRate),
			strconv.Itoa(s.Sample.Sends),
			strconv.Itoa(s.Sample.Total),
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
