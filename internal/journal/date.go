package journal

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DateLayout is the canonical storage form of a Date.
const DateLayout = "2006-01-02"

// legacyLayouts are accepted when reading stored values and user input.
var legacyLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
}

// Date is a calendar day kept as its stored text, so that values written by
// older clients survive a read/write round trip even when they don't parse.
type Date string

// NewDate returns the Date for the calendar day of t in t's location.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates user input and returns it in canonical form.
func ParseDate(s string) (Date, error) {
	d := Date(strings.TrimSpace(s))
	t, ok := d.Time()
	if !ok {
		return "", &ValidationError{Field: "createdAt", Message: fmt.Sprintf("invalid date %q", s)}
	}
	return NewDate(t), nil
}

// Time returns midnight UTC of the day, and false when the text is not a date.
func (d Date) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	for _, layout := range legacyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Timestamps are reduced to the day they name in their own offset.
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Valid reports whether the date parses.
func (d Date) Valid() bool {
	_, ok := d.Time()
	return ok
}

// Week returns the ISO 8601 week number (weeks start on Monday).
func (d Date) Week() (int, bool) {
	t, ok := d.Time()
	if !ok {
		return 0, false
	}
	_, week := t.ISOWeek()
	return week, true
}

// Canonical returns the DateLayout form, or the raw text for invalid dates.
func (d Date) Canonical() string {
	if t, ok := d.Time(); ok {
		return t.Format(DateLayout)
	}
	return string(d)
}

// WeekRange returns Monday and Sunday of ISO week number week in year.
func WeekRange(week, year int) (time.Time, time.Time) {
	// January 4th is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(week-1)*7)
	return monday, monday.AddDate(0, 0, 6)
}

var monthNames = map[language.Base][12]string{
	danish: {
		"januar", "februar", "marts", "april", "maj", "juni",
		"juli", "august", "september", "oktober", "november", "december",
	},
	english: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

var unscheduledLabels = map[language.Base]string{
	danish:  "Uden gyldig dato",
	english: "No valid date",
}

func baseOf(lang language.Tag) language.Base {
	b, _ := lang.Base()
	if _, ok := monthNames[b]; ok {
		return b
	}
	return english
}

// MonthName returns the localized month name, falling back to English.
func MonthName(m time.Month, lang language.Tag) string {
	return monthNames[baseOf(lang)][m-1]
}

// FormatDay renders a date like "8. januar 2024". Invalid dates render as
// their raw text.
func FormatDay(d Date, lang language.Tag) string {
	t, ok := d.Time()
	if !ok {
		return string(d)
	}
	return fmt.Sprintf("%d. %s %d", t.Day(), MonthName(t.Month(), lang), t.Year())
}

// WeekLabel renders the Monday to Sunday span of an ISO week, for example
// "8. januar - 14. januar".
func WeekLabel(week, year int, lang language.Tag) string {
	monday, sunday := WeekRange(week, year)
	return fmt.Sprintf("%d. %s - %d. %s",
		monday.Day(), MonthName(monday.Month(), lang),
		sunday.Day(), MonthName(sunday.Month(), lang))
}

// UnscheduledLabel names the group of entries without a usable date.
func UnscheduledLabel(lang language.Tag) string {
	return unscheduledLabels[baseOf(lang)]
}
