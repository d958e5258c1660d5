// Package dashboard provides the Bubble Tea climb log dashboard.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wchung1209/climbing-log/internal/greeting"
	"github.com/wchung1209/climbing-log/internal/model"
	"github.com/wchung1209/climbing-log/internal/stats"
)

const (
	tabOverview = iota
	tabClimbs
	tabFilters
)

const defaultPlotHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4ADE80"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	greetingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15"))
	modalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#F87171")).
			Padding(1, 2)
)

// Store is what the dashboard reads climbs from and deletes them through.
type Store interface {
	stats.ClimbLister
	DeleteClimb(ctx context.Context, id string) error
}

// Options configures the initial dashboard state.
type Options struct {
	Selection  model.FilterSelection
	PageSize   int
	PlotHeight int
	Name       string
	Greeting   string
	Logger     *zap.Logger
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	store  Store
	opts   Options
	logger *zap.Logger

	sel    model.FilterSelection
	page   int
	report stats.Report
	errMsg string

	tabs       []string
	activeTab  int
	overview   viewport.Model
	climbTable table.Model

	filterItems  []filterItem
	filterCursor int

	showNotes     bool
	confirmDelete bool
	pending       model.Climb

	width  int
	height int
}

// New constructs a dashboard and loads the first report.
func New(st Store, opts Options) *Model {
	if opts.PageSize <= 0 {
		opts.PageSize = stats.DefaultPageSize
	}
	if opts.PlotHeight <= 0 {
		opts.PlotHeight = defaultPlotHeight
	}
	if opts.Greeting == "" {
		opts.Greeting = greeting.New().Pick()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		store:       st,
		opts:        opts,
		logger:      logger,
		sel:         model.FilterSelection{ActiveTag: opts.Selection.ActiveTag, SelectedGrades: append([]string(nil), opts.Selection.SelectedGrades...)},
		page:        1,
		tabs:        []string{"Overview", "Climbs", "Filters"},
		overview:    viewport.New(0, 0),
		climbTable:  newClimbTable(),
		filterItems: buildFilterItems(),
	}
	m.refreshReport()
	return m
}

// Selection returns the active filter.
func (m *Model) Selection() model.FilterSelection {
	return m.sel
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "c":
			m.setSelection(model.FilterSelection{})
			return m, nil
		}
		switch m.activeTab {
		case tabClimbs:
			return m.updateClimbs(msg)
		case tabFilters:
			return m.updateFilters(msg)
		default:
			switch msg.String() {
			case "g", "home":
				m.overview.GotoTop()
				return m, nil
			case "G", "end":
				m.overview.GotoBottom()
				return m, nil
			}
			var cmd tea.Cmd
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmDelete {
		return fitLines(m.renderConfirmModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	// title, tabs, filter line
	headerHeight = 1 + tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.setTableSize(m.width, bodyHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabClimbs {
		m.climbTable.Focus()
	} else {
		m.climbTable.Blur()
	}
}

func (m *Model) setSelection(sel model.FilterSelection) {
	m.sel = sel
	m.page = 1
	m.showNotes = false
	m.refreshReport()
}

func (m *Model) refreshReport() {
	report, err := stats.LoadReport(context.Background(), m.store, m.sel, m.page, m.opts.PageSize)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load climbs: %v", err)
		m.logger.Error("failed to load climbs", zap.Error(err))
		m.overview.SetContent("Failed to load climbs.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.page = report.Page.Page
	m.climbTable.SetRows(climbRows(report.Page.Items))
	switch n, cur := len(report.Page.Items), m.climbTable.Cursor(); {
	case n > 0 && cur >= n:
		m.climbTable.SetCursor(n - 1)
	case n > 0 && cur < 0:
		m.climbTable.SetCursor(0)
	}
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width, m.opts.PlotHeight))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	welcome := greeting.Welcome(m.opts.Name)
	title := titleStyle.Render(truncateLine(welcome, m.width))
	if len([]rune(welcome))+2+len([]rune(m.opts.Greeting)) <= m.width {
		title += "  " + greetingStyle.Render(m.opts.Greeting)
	}
	tabs := padLines(m.renderTabs(), m.width)
	return title + "\n" + tabs + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	summary := "Filter: " + describeSelection(m.sel)
	line := headerStyle.Render(truncateLine(summary, m.width))
	if n := len(m.report.Rejected); n > 0 {
		line += "  " + warnStyle.Render(fmt.Sprintf("%d malformed record(s) skipped", n))
	}
	return line
}

func describeSelection(sel model.FilterSelection) string {
	if sel.IsZero() {
		return "all climbs"
	}
	parts := make([]string, 0, 2)
	if sel.ActiveTag != "" {
		parts = append(parts, "style="+sel.ActiveTag)
	}
	if len(sel.SelectedGrades) > 0 {
		parts = append(parts, "grades="+strings.Join(sel.SelectedGrades, ","))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderHelp() string {
	var help string
	switch m.activeTab {
	case tabClimbs:
		help = "Nav: left/right  Rows: up/down  Page: [/]  Notes: enter  Delete: d  Clear filter: c  Quit: q"
	case tabFilters:
		help = "Nav: left/right  Move: up/down  Toggle: space/enter  Clear grades: g  Clear filter: c  Quit: q"
	default:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Clear filter: c  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	switch m.activeTab {
	case tabClimbs:
		return fitLines(m.renderClimbs(), m.width, height)
	case tabFilters:
		return fitLines(m.renderFilters(), m.width, height)
	default:
		return fitLines(m.overview.View(), m.width, height)
	}
}
