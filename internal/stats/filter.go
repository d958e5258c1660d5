// Package stats contains the climb analytics: filtering, trends, summaries and reporting.
package stats

import "github.com/wchung1209/climbing-log/internal/model"

// ApplyFilter returns the climbs matching sel, preserving input order.
// Grades are matched by exact label; a set tag must be present on the climb.
func ApplyFilter(records []model.Climb, sel model.FilterSelection) []model.Climb {
	out := make([]model.Climb, 0, len(records))
	for _, c := range records {
		if len(sel.SelectedGrades) > 0 && !sel.HasGrade(c.Grade) {
			continue
		}
		if sel.ActiveTag != "" && !c.HasTag(sel.ActiveTag) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ToggleTag selects tag, or clears the tag filter when tag is already active.
func ToggleTag(sel model.FilterSelection, tag string) model.FilterSelection {
	next := model.FilterSelection{
		SelectedGrades: append([]string(nil), sel.SelectedGrades...),
	}
	if sel.ActiveTag != tag {
		next.ActiveTag = tag
	}
	return next
}

// ToggleGrade adds g to the grade set, or removes it when present.
func ToggleGrade(sel model.FilterSelection, g string) model.FilterSelection {
	next := model.FilterSelection{ActiveTag: sel.ActiveTag}
	found := false
	for _, existing := range sel.SelectedGrades {
		if existing == g {
			found = true
			continue
		}
		next.SelectedGrades = append(next.SelectedGrades, existing)
	}
	if !found {
		next.SelectedGrades = append(next.SelectedGrades, g)
	}
	return next
}

// ClearGrades drops the grade filter and keeps the tag.
func ClearGrades(sel model.FilterSelection) model.FilterSelection {
	return model.FilterSelection{ActiveTag: sel.ActiveTag}
}
