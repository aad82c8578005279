package timetable

import (
	"fmt"
	"strings"
	"time"
)

// ClockTime is a time of day expressed in minutes since midnight.
type ClockTime int

// Clock builds a ClockTime from hours and minutes.
func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseClock parses "HH:MM" (seconds are accepted and truncated).
func ParseClock(raw string) (ClockTime, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return Clock(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
}

// Add shifts the clock by d, truncated to whole minutes.
func (c ClockTime) Add(d time.Duration) ClockTime {
	return c + ClockTime(d/time.Minute)
}

func (c ClockTime) String() string {
	minutes := int(c) % (24 * 60)
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
