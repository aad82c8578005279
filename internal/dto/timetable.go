package dto

import "time"

// TimetableView is the JSON rendering of one cycle for the interactive viewer.
type TimetableView struct {
	Cycle       string           `json:"cycle"`
	Title       string           `json:"title"`
	Days        []DayColumn      `json:"days"`
	Slots       []SlotRow        `json:"slots"`
	Diagnostics []DiagnosticView `json:"diagnostics,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// DayColumn describes one weekday header and its subcolumn count.
type DayColumn struct {
	Day   string `json:"day"`
	Width int    `json:"width"`
}

// SlotRow is one active time slot. Cells is indexed by day then subcolumn and
// holds null for an empty position.
type SlotRow struct {
	Index int           `json:"index"`
	Start string        `json:"start"`
	End   string        `json:"end"`
	Label string        `json:"label"`
	Cells [][]*CellView `json:"cells"`
}

// CellView is an occupied grid position.
type CellView struct {
	Label   string `json:"label"`
	Subject string `json:"subject"`
	Color   string `json:"color"`
}

// DiagnosticView exposes a skipped session or widened day.
type DiagnosticView struct {
	Kind    string `json:"kind"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// CycleSummary is one entry of the viewer's cycle navigation.
type CycleSummary struct {
	Cycle    string `json:"cycle"`
	Position int    `json:"position"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// ExportRequest captures the query of GET /cycles/:cycle/export.
type ExportRequest struct {
	Format string `form:"format" json:"format" validate:"required,oneof=pdf xlsx csv"`
}

// BatchExportRequest captures POST /exports. Empty lists mean every configured
// cycle and both formats.
type BatchExportRequest struct {
	Cycles   []string `json:"cycles" validate:"omitempty,dive,required"`
	Formats  []string `json:"formats" validate:"omitempty,dive,oneof=pdf xlsx csv"`
	Combined bool     `json:"combined"`
}

// ExportFile describes one written export.
type ExportFile struct {
	Cycle  string `json:"cycle,omitempty"`
	Format string `json:"format"`
	Name   string `json:"name"`
	Path   string `json:"path"`
}

// ExportFailure describes an export that could not be written.
type ExportFailure struct {
	Cycle  string `json:"cycle"`
	Format string `json:"format"`
	Error  string `json:"error"`
}

// BatchExportResponse lists the outcome of a batch export.
type BatchExportResponse struct {
	Files  []ExportFile    `json:"files"`
	Failed []ExportFailure `json:"failed,omitempty"`
}
