package models

import (
	"strings"
	"time"
)

// SessionRecord is one row of the session source: a course occurrence exactly
// as stored, before weekday and time parsing.
type SessionRecord struct {
	ID         string    `db:"id" json:"id,omitempty"`
	Position   int       `db:"position" json:"position"`
	Cycle      string    `db:"cycle" json:"cycle"`
	DayOfWeek  string    `db:"day_of_week" json:"day_of_week"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	Subject    string    `db:"subject_name" json:"subject"`
	Instructor string    `db:"instructor_name" json:"instructor"`
	Group      string    `db:"group_name" json:"group"`
	Room       string    `db:"room_name" json:"room"`
	CreatedAt  time.Time `db:"created_at" json:"created_at,omitempty"`
}

// LabelSeparator joins the label parts of a session.
const LabelSeparator = " - "

// Label builds "subject - instructor - group - room", leaving out blank parts.
func (r SessionRecord) Label() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{r.Subject, r.Instructor, r.Group, r.Room} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, LabelSeparator)
}
