// Package greeting picks the dashboard header line.
package greeting

import (
	"math/rand"
	"strings"
	"time"
)

// DefaultName is used when no display name is configured.
const DefaultName = "Climber"

// Lines is the pool a greeting is drawn from.
var Lines = []string{
	"Keep it crushing!",
	"Gravity is a myth!",
	"Send it!",
	"Chalk up and go!",
	"Another day, another send.",
	"You got this!",
}

// Picker draws greetings at random.
type Picker struct {
	rnd *rand.Rand
}

// New returns a Picker seeded with the current time.
func New() *Picker {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Picker with a fixed seed.
func NewWithSeed(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns one line from Lines.
func (p *Picker) Pick() string {
	return Lines[p.rnd.Intn(len(Lines))]
}

// Welcome builds the header title for name.
func Welcome(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	return "Welcome, " + name
}
