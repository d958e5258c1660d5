package dashboard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wchung1209/climbing-log/internal/grade"
	"github.com/wchung1209/climbing-log/internal/model"
	"github.com/wchung1209/climbing-log/internal/stats"
)

type filterKind int

const (
	filterGrade filterKind = iota
	filterStyle
)

type filterItem struct {
	kind  filterKind
	value string
}

var (
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
)

// buildFilterItems lists grade chips first, then style tags.
func buildFilterItems() []filterItem {
	grades := grade.FilterOptions()
	items := make([]filterItem, 0, len(grades)+len(model.Styles))
	for _, g := range grades {
		items = append(items, filterItem{kind: filterGrade, value: g})
	}
	for _, s := range model.Styles {
		items = append(items, filterItem{kind: filterStyle, value: s})
	}
	return items
}

func (m *Model) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveFilterCursor(-1)
	case "down", "j":
		m.moveFilterCursor(1)
	case " ", "space", "enter", "x":
		m.toggleFilterItem()
	case "g":
		m.setSelection(stats.ClearGrades(m.sel))
	}
	return m, nil
}

func (m *Model) moveFilterCursor(delta int) {
	count := len(m.filterItems)
	if count == 0 {
		return
	}
	next := m.filterCursor + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.filterCursor = next
}

func (m *Model) toggleFilterItem() {
	if m.filterCursor < 0 || m.filterCursor >= len(m.filterItems) {
		return
	}
	item := m.filterItems[m.filterCursor]
	switch item.kind {
	case filterGrade:
		m.setSelection(stats.ToggleGrade(m.sel, item.value))
	case filterStyle:
		m.setSelection(stats.ToggleTag(m.sel, item.value))
	}
}

func (m *Model) renderFilters() string {
	var lines []string
	if m.report.NoMatches() {
		lines = append(lines, warnStyle.Render("No climbs match this filter."), "")
	}
	lines = append(lines, sectionStyle.Render("Grades (any of)"))
	wroteStyles := false
	for i, item := range m.filterItems {
		if item.kind == filterStyle && !wroteStyles {
			lines = append(lines, "", sectionStyle.Render("Style (one at a time)"))
			wroteStyles = true
		}
		lines = append(lines, m.renderFilterItem(i, item))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFilterItem(idx int, item filterItem) string {
	pointer := "  "
	if idx == m.filterCursor {
		pointer = cursorStyle.Render("> ")
	}
	switch item.kind {
	case filterGrade:
		mark := "[ ]"
		if m.sel.HasGrade(item.value) {
			mark = "[x]"
		}
		return pointer + mark + " " + bucketStyle(grade.Classify(item.value)).Render(item.value)
	default:
		mark := "( )"
		if m.sel.ActiveTag == item.value {
			mark = "(•)"
		}
		return pointer + mark + " " + item.value
	}
}
