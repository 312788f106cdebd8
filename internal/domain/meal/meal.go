package meal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Type string

const (
	Breakfast Type = "Desayuno"
	Lunch     Type = "Almuerzo"
)

// Plural is the label used by dashboard counters and the chart legend.
func (t Type) Plural() string {
	return string(t) + "s"
}

func (t Type) Valid() bool {
	return t == Breakfast || t == Lunch
}

var ErrInvalidClock = errors.New("invalid clock value, expected HH:MM or HH:MM:SS")

// Clock is a wall-clock time of day with second precision.
type Clock int

func NewClock(h, m, s int) Clock {
	return Clock(h*3600 + m*60 + s)
}

func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	limits := []int{23, 59, 59}
	values := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		values[i] = v
	}

	return NewClock(values[0], values[1], values[2]), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// Window is an inclusive service window.
type Window struct {
	Meal  Type
	Start Clock
	End   Clock
}

func (w Window) Contains(c Clock) bool {
	return c >= w.Start && c <= w.End
}

func DefaultWindows() []Window {
	return []Window{
		{Meal: Breakfast, Start: NewClock(8, 0, 0), End: NewClock(10, 0, 0)},
		{Meal: Lunch, Start: NewClock(11, 0, 0), End: NewClock(23, 50, 0)},
	}
}

// Schedule evaluates meal windows and calendar days in one time zone.
type Schedule struct {
	loc     *time.Location
	windows []Window
}

func NewSchedule(loc *time.Location, windows ...Window) *Schedule {
	if loc == nil {
		loc = time.Local
	}
	if len(windows) == 0 {
		windows = DefaultWindows()
	}

	return &Schedule{loc: loc, windows: windows}
}

func (s *Schedule) Location() *time.Location {
	return s.loc
}

func (s *Schedule) Windows() []Window {
	out := make([]Window, len(s.windows))
	copy(out, s.windows)
	return out
}

// Classify returns the meal served at t, first matching window wins.
func (s *Schedule) Classify(t time.Time) (Type, bool) {
	c := ClockOf(t.In(s.loc))
	for _, w := range s.windows {
		if w.Contains(c) {
			return w.Meal, true
		}
	}
	return "", false
}

// Day is the local calendar date of t as YYYY-MM-DD.
func (s *Schedule) Day(t time.Time) string {
	return t.In(s.loc).Format(time.DateOnly)
}

// FormatClock renders t as "h:mm AM".
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}
