package dashboard

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wchung1209/climbing-log/internal/grade"
	"github.com/wchung1209/climbing-log/internal/model"
	"github.com/wchung1209/climbing-log/internal/store"
)

type fakeStore struct {
	climbs  []model.Climb
	deleted []string
}

func (f *fakeStore) ListClimbs(context.Context) ([]model.Climb, error) {
	return append([]model.Climb(nil), f.climbs...), nil
}

func (f *fakeStore) DeleteClimb(_ context.Context, id string) error {
	for i, c := range f.climbs {
		if c.ID == id {
			f.climbs = append(f.climbs[:i], f.climbs[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return store.ErrNotFound
}

func climbOn(id, date, g string, sent bool, tags ...string) model.Climb {
	return model.Climb{ID: id, Date: date, Grade: g, GradeSystem: grade.SystemVScale, Attempts: 1, IsSent: sent, Tags: tags}
}

func newSizedModel(t *testing.T, st Store, opts Options) *Model {
	t.Helper()
	if opts.Greeting == "" {
		opts.Greeting = "Send it!"
	}
	m := New(st, opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestEmptyDashboard(t *testing.T) {
	m := newSizedModel(t, &fakeStore{}, Options{})
	view := m.View()
	for _, want := range []string{"Welcome, Climber", "Send it!", "Sessions", "N/A", "No active session data for this filter."} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}

	press(m, "right")
	if m.activeTab != tabClimbs {
		t.Fatalf("expected climbs tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "No climbs logged yet.") {
		t.Fatalf("expected empty climbs message:\n%s", m.View())
	}
}

func TestViewBeforeSizeIsEmpty(t *testing.T) {
	m := New(&fakeStore{}, Options{Greeting: "x"})
	if m.View() != "" {
		t.Fatalf("expected empty view before the first resize")
	}
}

func TestFilterTogglesSelection(t *testing.T) {
	st := &fakeStore{climbs: []model.Climb{
		climbOn("a", "2024-01-01", "V0", true, "Crimp"),
		climbOn("b", "2024-01-02", "V1", false),
	}}
	m := newSizedModel(t, st, Options{})
	press(m, "left")
	if m.activeTab != tabFilters {
		t.Fatalf("expected filters tab, got %d", m.activeTab)
	}

	press(m, "x")
	if sel := m.Selection(); len(sel.SelectedGrades) != 1 || sel.SelectedGrades[0] != "V0" {
		t.Fatalf("expected V0 selected, got %+v", sel)
	}
	press(m, "down", "x")
	if sel := m.Selection(); len(sel.SelectedGrades) != 2 || !sel.HasGrade("V1") {
		t.Fatalf("expected V0 and V1 selected, got %+v", sel)
	}
	press(m, "x")
	if sel := m.Selection(); len(sel.SelectedGrades) != 1 || sel.HasGrade("V1") {
		t.Fatalf("expected V1 toggled off, got %+v", sel)
	}

	m.filterCursor = len(grade.FilterOptions())
	press(m, "x")
	if sel := m.Selection(); sel.ActiveTag != model.Styles[0] {
		t.Fatalf("expected %q active, got %+v", model.Styles[0], sel)
	}
	if !m.report.NoMatches() {
		t.Fatalf("expected no matches for V0 + %s", model.Styles[0])
	}
	if !strings.Contains(m.View(), "No climbs match this filter.") {
		t.Fatalf("expected no-match message:\n%s", m.View())
	}

	press(m, "g")
	if sel := m.Selection(); len(sel.SelectedGrades) != 0 || sel.ActiveTag != model.Styles[0] {
		t.Fatalf("expected only grades cleared, got %+v", sel)
	}

	press(m, "c")
	if !m.Selection().IsZero() {
		t.Fatalf("expected cleared selection, got %+v", m.Selection())
	}
	if len(m.report.Filtered) != 2 {
		t.Fatalf("expected all climbs after clear, got %d", len(m.report.Filtered))
	}
}

func TestSummaryIgnoresFilter(t *testing.T) {
	st := &fakeStore{climbs: []model.Climb{
		climbOn("a", "2024-01-01", "V0", true),
		climbOn("b", "2024-01-02", "V5", false),
	}}
	m := newSizedModel(t, st, Options{Selection: model.FilterSelection{SelectedGrades: []string{"V5"}}})
	if m.report.Summary.TotalSessions != 2 {
		t.Fatalf("expected 2 sessions in summary, got %d", m.report.Summary.TotalSessions)
	}
	if len(m.report.Trend) != 1 || m.report.Trend[0].Date != "2024-01-02" {
		t.Fatalf("expected filtered trend, got %+v", m.report.Trend)
	}
}

func TestPagination(t *testing.T) {
	st := &fakeStore{}
	for i := 0; i < 25; i++ {
		st.climbs = append(st.climbs, climbOn(fmt.Sprintf("c%02d", i), "2024-02-01", "V2", i%2 == 0))
	}
	m := newSizedModel(t, st, Options{PageSize: 10})
	press(m, "right")

	if m.page != 1 || m.report.Page.TotalPages != 3 {
		t.Fatalf("expected page 1 of 3, got %d of %d", m.page, m.report.Page.TotalPages)
	}
	press(m, "]", "]")
	if m.page != 3 || len(m.report.Page.Items) != 5 {
		t.Fatalf("expected last page with 5 items, got page %d with %d", m.page, len(m.report.Page.Items))
	}
	press(m, "]")
	if m.page != 3 {
		t.Fatalf("expected to stay on last page, got %d", m.page)
	}
	press(m, "[")
	if m.page != 2 {
		t.Fatalf("expected page 2, got %d", m.page)
	}
	if !strings.Contains(m.View(), "Page 2 / 3") {
		t.Fatalf("expected page indicator:\n%s", m.View())
	}
}

func TestDeleteClampsPage(t *testing.T) {
	st := &fakeStore{}
	for i := 0; i < 11; i++ {
		st.climbs = append(st.climbs, climbOn(fmt.Sprintf("c%02d", i), "2024-02-01", "V2", true))
	}
	m := newSizedModel(t, st, Options{PageSize: 10})
	press(m, "right", "]")
	if m.page != 2 || len(m.report.Page.Items) != 1 {
		t.Fatalf("expected single climb on page 2, got page %d with %d", m.page, len(m.report.Page.Items))
	}

	press(m, "d")
	if !m.confirmDelete {
		t.Fatalf("expected delete confirmation")
	}
	if !strings.Contains(m.View(), "Delete climb?") {
		t.Fatalf("expected confirmation modal:\n%s", m.View())
	}
	press(m, "n")
	if m.confirmDelete || len(st.deleted) != 0 {
		t.Fatalf("expected cancel to keep the climb")
	}

	press(m, "d", "y")
	if len(st.deleted) != 1 || st.deleted[0] != "c10" {
		t.Fatalf("expected c10 deleted, got %v", st.deleted)
	}
	if m.page != 1 || m.report.Page.TotalPages != 1 {
		t.Fatalf("expected page clamped to 1 of 1, got %d of %d", m.page, m.report.Page.TotalPages)
	}
}

func TestNotesToggle(t *testing.T) {
	c := climbOn("a", "2024-03-05", "V4", true, "Slab")
	c.Notes = "Flagged left foot on the crux"
	m := newSizedModel(t, &fakeStore{climbs: []model.Climb{c}}, Options{})
	press(m, "right")
	if strings.Contains(m.View(), "Flagged left foot") {
		t.Fatalf("notes should be hidden until toggled")
	}
	press(m, "enter")
	view := m.View()
	if !strings.Contains(view, "Flagged left foot") || !strings.Contains(view, "3/5/2024") {
		t.Fatalf("expected notes and date in view:\n%s", view)
	}
}

func TestMalformedRecordsReported(t *testing.T) {
	st := &fakeStore{climbs: []model.Climb{
		climbOn("a", "2024-01-01", "V0", true),
		climbOn("bad", "01/02/2024", "V0", true),
	}}
	m := newSizedModel(t, st, Options{})
	if len(m.report.Rejected) != 1 {
		t.Fatalf("expected one rejected record, got %d", len(m.report.Rejected))
	}
	if !strings.Contains(m.View(), "1 malformed record(s) skipped") {
		t.Fatalf("expected rejection notice:\n%s", m.View())
	}
}
