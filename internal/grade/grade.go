// Package grade maps grade labels onto colour-coded difficulty buckets.
package grade

import "strconv"

// Bucket is an ordinal difficulty tier. The zero value is Unclassified.
type Bucket int

// Buckets in ascending difficulty.
const (
	Unclassified Bucket = iota
	Yellow
	Green
	Blue
	Red
	Purple
)

// Grade systems recorded alongside a climb.
const (
	SystemVScale = "V-scale"
	SystemCustom = "Custom"
)

// MaxVGrade is the hardest V-scale label offered when logging.
const MaxVGrade = 17

type bucketInfo struct {
	name  string
	chip  string
	color string
	lo    int
	hi    int
}

var buckets = map[Bucket]bucketInfo{
	Unclassified: {name: "Unclassified", chip: "Custom", color: "#E2E8F0", lo: -1, hi: -1},
	Yellow:       {name: "Yellow", chip: "Yellow (V0-V1)", color: "#FACC15", lo: 0, hi: 1},
	Green:        {name: "Green", chip: "Green (V2-V4)", color: "#4ADE80", lo: 2, hi: 4},
	Blue:         {name: "Blue", chip: "Blue (V5-V7)", color: "#60A5FA", lo: 5, hi: 7},
	Red:          {name: "Red", chip: "Red (V8-V10)", color: "#F87171", lo: 8, hi: 10},
	Purple:       {name: "Purple", chip: "Purple (V11+)", color: "#C084FC", lo: 11, hi: MaxVGrade},
}

// Classify returns the bucket for a grade label. Unknown labels are Unclassified.
func Classify(label string) Bucket {
	if label == "V11+" {
		return Purple
	}
	n, ok := vNumber(label)
	if !ok {
		return Unclassified
	}
	for _, b := range Ordered() {
		info := buckets[b]
		if n >= info.lo && n <= info.hi {
			return b
		}
	}
	return Unclassified
}

// Ordered lists the classified buckets from easiest to hardest.
func Ordered() []Bucket {
	return []Bucket{Yellow, Green, Blue, Red, Purple}
}

// String returns the bucket name.
func (b Bucket) String() string {
	if info, ok := buckets[b]; ok {
		return info.name
	}
	return buckets[Unclassified].name
}

// Color returns the hex colour used to render the bucket.
func (b Bucket) Color() string {
	if info, ok := buckets[b]; ok {
		return info.color
	}
	return buckets[Unclassified].color
}

// Label returns the filter-chip label, e.g. "Green (V2-V4)".
func (b Bucket) Label() string {
	if info, ok := buckets[b]; ok {
		return info.chip
	}
	return buckets[Unclassified].chip
}

// Classified reports whether b is one of the colour buckets.
func (b Bucket) Classified() bool {
	return b >= Yellow && b <= Purple
}

// LogOptions returns V0..V17, the grades offered when logging a climb.
func LogOptions() []string {
	out := make([]string, 0, MaxVGrade+1)
	for i := 0; i <= MaxVGrade; i++ {
		out = append(out, "V"+strconv.Itoa(i))
	}
	return out
}

// FilterOptions returns the grade chips offered by the filter panel.
func FilterOptions() []string {
	out := make([]string, 0, 12)
	for i := 0; i <= 10; i++ {
		out = append(out, "V"+strconv.Itoa(i))
	}
	return append(out, "V11+")
}

// IsVScale reports whether label is one of the V-scale labels.
func IsVScale(label string) bool {
	if label == "V11+" {
		return true
	}
	n, ok := vNumber(label)
	return ok && n <= MaxVGrade
}

func vNumber(label string) (int, bool) {
	if len(label) < 2 || label[0] != 'V' {
		return 0, false
	}
	rest := label[1:]
	if len(rest) > 1 && rest[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
