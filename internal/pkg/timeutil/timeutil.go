package timeutil

import "time"

// Reference is the business timezone all calendar-day comparisons use
// (due dates, promise buckets, "today's collection"). Collections run in
// IST regardless of where the service is deployed.
var Reference *time.Location

func init() {
	var err error
	Reference, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		Reference = time.FixedZone("IST", 5*60*60+30*60)
	}
}

const DateLayout = "2006-01-02"

// Now returns the current time in the reference timezone.
func Now() time.Time {
	return time.Now().In(Reference)
}

// StartOfDay truncates t to midnight in the reference timezone.
func StartOfDay(t time.Time) time.Time {
	ref := t.In(Reference)
	return time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, Reference)
}

// SameDay reports whether a and b fall on the same calendar day in the
// reference timezone. Time of day is ignored.
func SameDay(a, b time.Time) bool {
	ar, br := a.In(Reference), b.In(Reference)
	return ar.Year() == br.Year() && ar.YearDay() == br.YearDay()
}

// BeforeDay reports whether a falls on an earlier calendar day than b.
func BeforeDay(a, b time.Time) bool {
	return StartOfDay(a).Before(StartOfDay(b))
}

// ParseDate parses a YYYY-MM-DD string in the reference timezone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Reference)
}
