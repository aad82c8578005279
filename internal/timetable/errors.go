package timetable

import "errors"

var (
	// ErrConfiguration reports an unusable slot grid configuration.
	ErrConfiguration = errors.New("invalid grid configuration")
	// ErrUnrecognizedWeekday is returned when a day name does not map to a teaching weekday.
	ErrUnrecognizedWeekday = errors.New("unrecognized weekday")
	// ErrInvalidTime is returned for unparsable or inverted times of day.
	ErrInvalidTime = errors.New("invalid time of day")
)

// DiagnosticKind classifies a recoverable anomaly found while building a view.
type DiagnosticKind string

const (
	DiagnosticUnrecognizedWeekday     DiagnosticKind = "unrecognized_weekday"
	DiagnosticInvalidTime             DiagnosticKind = "invalid_time"
	DiagnosticAllocationInconsistency DiagnosticKind = "allocation_inconsistency"
)

// Diagnostic records a skipped session or a widened day. Row is the zero-based
// position of the offending input record, or -1 when it does not apply.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Row     int            `json:"row"`
	Message string         `json:"message"`
}
