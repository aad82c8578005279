package timetable

// Session is one scheduled course occurrence. Label is opaque display text;
// Subject is what exporters colour by.
type Session struct {
	Day     Weekday   `json:"day"`
	Start   ClockTime `json:"start"`
	End     ClockTime `json:"end"`
	Subject string    `json:"subject"`
	Label   string    `json:"label"`
}

// Cell is one subcolumn position of a slot row. A nil Session means empty.
type Cell struct {
	Session *Session
}

// Empty reports whether no session occupies the cell.
func (c Cell) Empty() bool {
	return c.Session == nil
}

// Label returns the session label, or "" for an empty cell.
func (c Cell) Label() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.Label
}

// Subject returns the session subject, or "" for an empty cell.
func (c Cell) Subject() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.Subject
}
