package util

import (
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/moneyflow/moneyflow-backend/internal/domain"
)

const (
	// ReportTimeLayout is the layout of report start/end dates, always in UTC
	ReportTimeLayout = "2006-01-02 15:04:05"
	// DayLayout is the layout of a day bucket key
	DayLayout = "2006-01-02"
)

// ParseReportTime parses a "Y-m-d H:i:s" string as a UTC instant
func ParseReportTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(ReportTimeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, value)
	}
	return t, nil
}

// ResolveLocation returns the named IANA location, or UTC when name is empty
func ResolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, name)
	}
	return loc, nil
}

// EndOfDayUTC returns 23:59:59 UTC of the day t falls on in UTC
func EndOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 0, time.UTC)
}

// StartOfDay returns the first instant of t's calendar day in loc. Where
// midnight is skipped by a DST change that is the first instant after the gap.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if dy, dm, dd := day.Date(); dy != y || dm != m || dd != d {
		// Normalised back into the previous day; move forward to the next midnight
		h, mi, sec := day.Clock()
		day = day.Add(24*time.Hour - time.Duration(h)*time.Hour - time.Duration(mi)*time.Minute - time.Duration(sec)*time.Second)
	}
	return day
}

// DayKey returns the day bucket of t in loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// calendarDay is the date of t in loc as a UTC midnight, so stepping it never
// meets a local clock change
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaySpan is the number of calendar days from start to end inclusive, both
// taken in loc, or 0 when start falls on a later day than end
func DaySpan(start, end time.Time, loc *time.Location) int {
	first, last := calendarDay(start, loc), calendarDay(end, loc)
	if first.After(last) {
		return 0
	}
	return int(last.Sub(first)/(24*time.Hour)) + 1
}

// DayKeys returns one key per calendar day from start to end inclusive, both
// taken in loc. It returns nil when start falls on a later day than end.
func DayKeys(start, end time.Time, loc *time.Location) []string {
	last := calendarDay(end, loc)

	var keys []string
	for day := calendarDay(start, loc); !day.After(last); day = day.AddDate(0, 0, 1) {
		keys = append(keys, day.Format(DayLayout))
	}
	return keys
}

// FormatAmount renders a float sum in plain decimal form ("0", "12.5", "-3")
func FormatAmount(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
