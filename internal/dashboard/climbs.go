package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wchung1209/climbing-log/internal/dates"
	"github.com/wchung1209/climbing-log/internal/grade"
	"github.com/wchung1209/climbing-log/internal/model"
)

// Lines under the table: blank, page indicator, detail, notes.
const climbFooterLines = 4

var tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))

func climbColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Grade", Width: 10},
		{Title: "Bucket", Width: 12},
		{Title: "Tries", Width: 5},
		{Title: "Sent", Width: 4},
		{Title: "Style", Width: 28},
	}
}

func newClimbTable() table.Model {
	t := table.New(
		table.WithColumns(climbColumns()),
		table.WithHeight(1),
	)
	t.SetStyles(climbTableStyles())
	return t
}

func climbTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func climbRows(climbs []model.Climb) []table.Row {
	rows := make([]table.Row, 0, len(climbs))
	for _, c := range climbs {
		sent := ""
		if c.IsSent {
			sent = "✓"
		}
		rows = append(rows, table.Row{
			dates.DisplayKey(c.Date),
			c.Grade,
			grade.Classify(c.Grade).String(),
			strconv.Itoa(c.Attempts),
			sent,
			strings.Join(c.Tags, ", "),
		})
	}
	return rows
}

func (m *Model) setTableSize(width, bodyHeight int) {
	m.climbTable.SetWidth(width)
	// Header and its border take two lines.
	m.climbTable.SetHeight(maxInt(1, bodyHeight-climbFooterLines-2))
}

func (m *Model) selectedClimb() (model.Climb, bool) {
	items := m.report.Page.Items
	idx := m.climbTable.Cursor()
	if idx < 0 || idx >= len(items) {
		return model.Climb{}, false
	}
	return items[idx], true
}

func (m *Model) updateClimbs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "]", "n", "pgdown":
		m.gotoPage(m.page + 1)
		return m, nil
	case "[", "p", "pgup":
		m.gotoPage(m.page - 1)
		return m, nil
	case "enter":
		m.showNotes = !m.showNotes
		return m, nil
	case "d", "delete":
		if c, ok := m.selectedClimb(); ok {
			m.confirmDelete = true
			m.pending = c
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.climbTable, cmd = m.climbTable.Update(msg)
	return m, cmd
}

func (m *Model) gotoPage(page int) {
	if page < 1 || page > m.report.Page.TotalPages || page == m.page {
		return
	}
	m.page = page
	m.climbTable.SetCursor(0)
	m.refreshReport()
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.pending.ID
		m.confirmDelete = false
		m.pending = model.Climb{}
		if err := m.store.DeleteClimb(context.Background(), id); err != nil {
			m.logger.Error("failed to delete climb", zap.String("id", id), zap.Error(err))
			m.errMsg = fmt.Sprintf("Failed to delete climb: %v", err)
			return m, nil
		}
		m.logger.Info("deleted climb", zap.String("id", id))
		m.refreshReport()
		return m, nil
	case "n", "N", "esc":
		m.confirmDelete = false
		m.pending = model.Climb{}
		return m, nil
	}
	return m, nil
}

func (m *Model) renderClimbs() string {
	if len(m.report.Page.Items) == 0 {
		if m.report.NoMatches() {
			return "No climbs match this filter."
		}
		return "No climbs logged yet."
	}
	lines := []string{
		tableMutedStyle.Render(m.climbTable.View()),
		"",
		headerStyle.Render(fmt.Sprintf("Page %d / %d  (%d climbs)", m.report.Page.Page, m.report.Page.TotalPages, len(m.report.Filtered))),
	}
	c, ok := m.selectedClimb()
	if !ok {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, renderClimbDetail(c))
	if m.showNotes {
		notes := c.Notes
		if strings.TrimSpace(notes) == "" {
			notes = "No notes."
		}
		lines = append(lines, wrapText(notes, maxInt(10, m.width-2))...)
	}
	return strings.Join(lines, "\n")
}

func renderClimbDetail(c model.Climb) string {
	b := grade.Classify(c.Grade)
	badge := bucketStyle(b).Render(c.Grade)
	status := "Attempt"
	if c.IsSent {
		status = "Send"
	}
	detail := fmt.Sprintf("%s  %s  %s  %s", dates.DisplayKey(c.Date), badge, b.Label(), status)
	if c.Notes != "" {
		detail += headerStyle.Render("  (enter: notes)")
	}
	return detail
}

func (m *Model) renderConfirmModal() string {
	c := m.pending
	body := []string{
		cardValueStyle.Render("Delete climb?"),
		fmt.Sprintf("%s on %s", c.Grade, dates.DisplayKey(c.Date)),
		headerStyle.Render("y: delete / n: cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
