// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wchung1209/climbing-log/internal/dates"
	"github.com/wchung1209/climbing-log/internal/grade"
)

// MaxNotesLen is the longest note accepted on a climb, in characters.
const MaxNotesLen = 500

// NoSession is shown in place of a latest session date when there are no climbs.
const NoSession = "N/A"

// Styles is the fixed style vocabulary a climb may be tagged with.
var Styles = []string{
	"Arete/Corner", "Balance", "Coordination", "Crimp", "Dyno",
	"Gaston", "Jam", "Jug", "Kneebar",
	"Lunge", "Overhang", "Pinch", "Pocket", "Slab", "Sloper",
}

// Climb is a single logged attempt.
type Climb struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Grade       string    `json:"grade"`
	GradeSystem string    `json:"gradeSystem"`
	Attempts    int       `json:"attempts"`
	IsSent      bool      `json:"isSent"`
	Tags        []string  `json:"tags"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasTag reports whether the climb is tagged with tag.
func (c Climb) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ValidationError describes why a climb cannot be stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks a climb before it is written.
func (c Climb) Validate() error {
	if _, err := dates.Parse(c.Date); err != nil {
		return &ValidationError{Field: "date", Reason: err.Error()}
	}
	if strings.TrimSpace(c.Grade) == "" {
		return &ValidationError{Field: "grade", Reason: "must not be empty"}
	}
	switch c.GradeSystem {
	case grade.SystemVScale:
		if !grade.IsVScale(c.Grade) {
			return &ValidationError{Field: "grade", Reason: fmt.Sprintf("%q is not a V-scale grade", c.Grade)}
		}
	case grade.SystemCustom:
	default:
		return &ValidationError{Field: "grade system", Reason: fmt.Sprintf("unknown system %q", c.GradeSystem)}
	}
	if c.Attempts < 1 {
		return &ValidationError{Field: "attempts", Reason: "must be >= 1"}
	}
	if utf8.RuneCountInString(c.Notes) > MaxNotesLen {
		return &ValidationError{Field: "notes", Reason: fmt.Sprintf("must be at most %d characters", MaxNotesLen)}
	}
	seen := map[string]struct{}{}
	for _, tag := range c.Tags {
		if !IsStyle(tag) {
			return &ValidationError{Field: "tags", Reason: fmt.Sprintf("unknown style %q", tag)}
		}
		if _, ok := seen[tag]; ok {
			return &ValidationError{Field: "tags", Reason: fmt.Sprintf("duplicate style %q", tag)}
		}
		seen[tag] = struct{}{}
	}
	return nil
}

// IsStyle reports whether tag belongs to the style vocabulary.
func IsStyle(tag string) bool {
	for _, s := range Styles {
		if s == tag {
			return true
		}
	}
	return false
}

// FilterSelection holds the active tag (single-select) and grade set (multi-select).
type FilterSelection struct {
	ActiveTag      string   `json:"activeTag,omitempty"`
	SelectedGrades []string `json:"selectedGrades,omitempty"`
}

// IsZero reports whether no filter is applied.
func (s FilterSelection) IsZero() bool {
	return s.ActiveTag == "" && len(s.SelectedGrades) == 0
}

// HasGrade reports whether g is in the selected grade set.
func (s FilterSelection) HasGrade(g string) bool {
	for _, sel := range s.SelectedGrades {
		if sel == g {
			return true
		}
	}
	return false
}

// SampleSize is the raw count behind a send rate.
type SampleSize struct {
	Sends int `json:"sends"`
	Total int `json:"total"`
}

// DailyAggregate is the send rate for one session date.
type DailyAggregate struct {
	Date     string     `json:"date"`
	SendRate int        `json:"rate"`
	Sample   SampleSize `json:"details"`
}

// SummaryStats describes the whole, unfiltered collection.
type SummaryStats struct {
	TotalSessions     int              `json:"totalSessions"`
	SendRate          int              `json:"sendRate"`
	LatestSessionDate string           `json:"latestActiveDate"`
	TrendSeries       []DailyAggregate `json:"trendData"`
}

// Page is one window of a paginated collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// Rejected is a stored climb excluded from aggregation, with the reason.
type Rejected struct {
	Climb Climb
	Err   error
}
