package availability

import (
	"strings"
	"time"
)

// LabelLayout renders a start time as a slot label, e.g. "9:00AM".
const LabelLayout = "3:04PM"

// LabelOf derives the slot label of a start time in the clinic location.
func LabelOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LabelLayout)
}

// Normalize folds case and surrounding space so "9:00am" and "9:00AM "
// name the same slot. Labels that parse as a start time are re-rendered in
// LabelLayout, so "09:00AM" and "9:00AM" compare equal too.
func Normalize(label string) string {
	n := strings.ToUpper(strings.TrimSpace(label))
	if t, err := time.Parse(LabelLayout, n); err == nil {
		return t.Format(LabelLayout)
	}
	return n
}

// Canonical returns label in the form LabelOf produces, or false when it
// is not a start time.
func Canonical(label string) (string, bool) {
	t, err := time.Parse(LabelLayout, strings.ToUpper(strings.TrimSpace(label)))
	if err != nil {
		return "", false
	}
	return t.Format(LabelLayout), true
}

func SameSlot(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

func Contains(slots []string, label string) bool {
	n := Normalize(label)
	for _, s := range slots {
		if Normalize(s) == n {
			return true
		}
	}
	return false
}

// DayWindow returns [midnight, next midnight) of date's calendar day in loc.
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}

// ParseDate reads a "2006-01-02" calendar date in loc.
func ParseDate(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(v), loc)
}

// HasMeridiem reports whether label ends in the given AM/PM marker.
func HasMeridiem(label, marker string) bool {
	return strings.HasSuffix(Normalize(label), Normalize(marker))
}

// ValidLabel reports whether label reads as a start time in LabelLayout,
// ignoring case and surrounding space.
func ValidLabel(label string) bool {
	_, ok := Canonical(label)
	return ok
}
