package timetable

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Weekday enumerates the teaching days rendered on the grid.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// DaysPerWeek is the number of column groups in every view.
const DaysPerWeek = 5

// Weekdays lists the teaching days in display order.
var Weekdays = [DaysPerWeek]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = [DaysPerWeek]string{"LUNES", "MARTES", "MIERCOLES", "JUEVES", "VIERNES"}

var weekdayAliases = map[string]Weekday{
	"LUNES":     Monday,
	"MARTES":    Tuesday,
	"MIERCOLES": Wednesday,
	"JUEVES":    Thursday,
	"VIERNES":   Friday,
	"MONDAY":    Monday,
	"TUESDAY":   Tuesday,
	"WEDNESDAY": Wednesday,
	"THURSDAY":  Thursday,
	"FRIDAY":    Friday,
}

// ParseWeekday normalises free text (case, surrounding space and accents) to a
// Weekday. Weekend days and anything else yield ErrUnrecognizedWeekday.
func ParseWeekday(raw string) (Weekday, error) {
	key := foldAccents(strings.ToUpper(strings.TrimSpace(raw)))
	if day, ok := weekdayAliases[key]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedWeekday, raw)
}

// Valid reports whether d is one of the five teaching days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

// String returns the canonical (upper-case, unaccented) day header.
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// MarshalText encodes the canonical header so views serialise with readable keys.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnrecognizedWeekday, int(d))
	}
	return []byte(weekdayNames[d]), nil
}

// UnmarshalText accepts anything ParseWeekday does.
func (d *Weekday) UnmarshalText(text []byte) error {
	day, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
