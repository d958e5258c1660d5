package stats

import "github.com/wchung1209/climbing-log/internal/model"

func climb(id, date, grade string, sent bool, tags ...string) model.Climb {
	return model.Climb{
		ID:          id,
		Date:        date,
		Grade:       grade,
		GradeSystem: "V-scale",
		Attempts:    1,
		IsSent:      sent,
		Tags:        tags,
	}
}

func ids(records []model.Climb) []string {
	out := make([]string, len(records))
	for i, c := range records {
		out[i] = c.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
