package dashboard

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wchung1209/climbing-log/internal/grade"
	"github.com/wchung1209/climbing-log/internal/stats"
)

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	sparkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
)

func renderOverview(report stats.Report, width, plotHeight int) string {
	cards := renderSummaryCards(report, width)
	buckets := renderBucketStrip(report)
	trend := renderTrend(report, width, plotHeight)
	return strings.TrimRight(cards+"\n\n"+buckets+"\n\n"+trend, "\n")
}

// renderSummaryCards always describes the whole collection, whatever the filter.
func renderSummaryCards(report stats.Report, width int) string {
	summary := report.Summary
	rate := fmt.Sprintf("%d%%", summary.SendRate)
	if spark := stats.Sparkline(stats.Rates(summary.TrendSeries)); spark != "" {
		rate += " " + sparkStyle.Render(spark)
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", summary.TotalSessions)),
		metricCard("Send Rate", rate),
		metricCard("Latest Session", stats.LatestSessionLabel(summary)),
	}
	if width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// renderBucketStrip shows per-bucket send rates of the filtered climbs.
func renderBucketStrip(report stats.Report) string {
	parts := make([]string, 0, 6)
	for _, b := range stats.ByBucket(report.Filtered) {
		chip := bucketStyle(b.Bucket).Render(b.Bucket.String())
		if b.Sample.Total == 0 {
			parts = append(parts, chip+headerStyle.Render(" -"))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d%% (%d/%d)", chip, b.SendRate, b.Sample.Sends, b.Sample.Total))
	}
	return strings.Join(parts, "  ")
}

func renderTrend(report stats.Report, width, plotHeight int) string {
	var buf bytes.Buffer
	title := cardTitleStyle.Render("Send Rate Trend")
	if err := stats.PlotTrendWithColor(&buf, title, report.Trend, stats.PlotWidthFor(width), plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render trend: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func bucketStyle(b grade.Bucket) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color())).Bold(true)
}
