// Package dates turns free-text travel dates into calendar dates.
//
// Dates whose year the user left implicit are pushed to the next occurrence
// of that month and day, so "March 3rd" asked in October means March of the
// following year. Dates with an explicit year are kept as written and
// reported as past when they have already gone by.
package dates

import (
	"regexp"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

// Status describes the outcome of normalization
type Status string

const (
	StatusOK           Status = "ok"
	StatusUnrecognized Status = "unrecognized"
	StatusPast         Status = "past"
)

// Layout is the calendar date format used by the travel provider
const Layout = "2006-01-02"

const (
	thisYear = "this year"
	nextYear = "next year"
)

// NormalizedDate is the result of Normalize. Date is only set when Status is StatusOK.
type NormalizedDate struct {
	Date   time.Time
	Status Status
}

// OK reports whether the date resolved to a usable calendar date
func (d NormalizedDate) OK() bool {
	return d.Status == StatusOK
}

// String formats the date as YYYY-MM-DD, or returns "" when unresolved
func (d NormalizedDate) String() string {
	if !d.OK() {
		return ""
	}
	return d.Date.Format(Layout)
}

var (
	// four-digit years such as 2026 or 1999
	fullYearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	// numeric dates with a two-digit year such as 3/4/27
	shortYearPattern = regexp.MustCompile(`\b\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2}\b`)
)

// Normalize resolves raw against now.
//
// "this year" and "next year" resolve to January 1 of the respective year.
// Anything else goes through the natural-language parser; when the input
// carries no explicit year, the year is the current one if the month and day
// are still ahead (or today), otherwise the next one. Relative expressions
// such as "tomorrow" or "in 2 years" keep the date the parser computed. A
// resolved date strictly before today yields StatusPast.
func Normalize(raw string, now time.Time) NormalizedDate {
	if offset, ok := YearLiteral(raw); ok {
		return NormalizedDate{Date: dateOf(now.Year()+offset, time.January, 1, now.Location()), Status: StatusOK}
	}

	parsed, ok := parse(raw, now)
	if !ok {
		return NormalizedDate{Status: StatusUnrecognized}
	}

	if !HasExplicitYear(raw) && yearDefaulted(raw, parsed, now) {
		parsed = dateOf(inferYear(parsed, now), parsed.Month(), parsed.Day(), now.Location())
	}

	return checkFuture(parsed, now)
}

// ResolveWithYear re-resolves a previously rejected date in the year named by
// literal ("this year" or "next year"). The month and day come from pending;
// the year from the literal. It returns StatusUnrecognized when literal is not
// a year literal or pending does not parse.
func ResolveWithYear(pending, literal string, now time.Time) NormalizedDate {
	offset, ok := YearLiteral(literal)
	if !ok {
		return NormalizedDate{Status: StatusUnrecognized}
	}

	parsed, ok := parse(pending, now)
	if !ok {
		return NormalizedDate{Status: StatusUnrecognized}
	}

	return checkFuture(dateOf(now.Year()+offset, parsed.Month(), parsed.Day(), now.Location()), now)
}

// YearLiteral reports whether raw is exactly "this year" or "next year"
// (case-insensitive) and returns the year offset it denotes.
func YearLiteral(raw string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case thisYear:
		return 0, true
	case nextYear:
		return 1, true
	}
	return 0, false
}

// HasExplicitYear reports whether raw spells out a year
func HasExplicitYear(raw string) bool {
	return fullYearPattern.MatchString(raw) || shortYearPattern.MatchString(raw)
}

func parse(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	cfg := &dps.Configuration{
		CurrentTime:         now,
		PreferredDayOfMonth: dps.First,
		PreferredDateSource: dps.Future,
	}

	dt, err := dps.Parse(cfg, raw)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, false
	}

	t := dt.Time
	return dateOf(t.Year(), t.Month(), t.Day(), now.Location()), true
}

// yearDefaulted reports whether the parser filled in the year of parsed
// itself. Parsing again a year and a day later moves only the year of an
// absolute month/day, while a relative expression lands on another day.
func yearDefaulted(raw string, parsed, now time.Time) bool {
	shifted, ok := parse(raw, now.AddDate(1, 0, 1))
	return ok && shifted.Month() == parsed.Month() && shifted.Day() == parsed.Day()
}

// inferYear picks the year of the next occurrence of d's month and day
func inferYear(d, now time.Time) int {
	if d.Month() < now.Month() || (d.Month() == now.Month() && d.Day() < now.Day()) {
		return now.Year() + 1
	}
	return now.Year()
}

func checkFuture(d, now time.Time) NormalizedDate {
	today := dateOf(now.Year(), now.Month(), now.Day(), now.Location())
	if d.Before(today) {
		return NormalizedDate{Status: StatusPast}
	}
	return NormalizedDate{Date: d, Status: StatusOK}
}

func dateOf(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
