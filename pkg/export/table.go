package export

import (
	"crypto/md5"
	"fmt"

	"github.com/noah-isme/sma-timetable-grid/internal/timetable"
)

// SlotHeader is the caption of the time column.
const SlotHeader = "HORARIO"

// HeaderCell is one day caption spanning Span subcolumns.
type HeaderCell struct {
	Label string
	Span  int
}

// Cell is one rendered subcolumn. Subject is empty for blank cells.
type Cell struct {
	Text    string
	Subject string
}

// Row is one active slot of the table.
type Row struct {
	Slot  string
	Cells []Cell
}

// Table is the renderer-neutral projection of a schedule view: day captions
// with their widths and one row per active slot.
type Table struct {
	Cycle  string
	Title  string
	Header []HeaderCell
	Rows   []Row
}

// NewTable flattens a view into rows ordered by slot, then weekday, then subcolumn.
func NewTable(view *timetable.ScheduleView) Table {
	table := Table{
		Cycle:  view.Cycle,
		Title:  CycleTitle(view.Cycle),
		Header: make([]HeaderCell, 0, timetable.DaysPerWeek),
		Rows:   make([]Row, 0, len(view.ActiveSlots)),
	}
	for _, day := range view.Days {
		table.Header = append(table.Header, HeaderCell{Label: day.Day.String(), Span: day.Width})
	}
	for _, slot := range view.ActiveTimeSlots() {
		row := Row{Slot: slot.Label(), Cells: make([]Cell, 0, view.TotalWidth())}
		for _, day := range timetable.Weekdays {
			for _, cell := range view.Cells(day, slot.Index) {
				row.Cells = append(row.Cells, Cell{Text: cell.Label(), Subject: cell.Subject()})
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Columns returns the number of subcolumns across all days.
func (t Table) Columns() int {
	total := 0
	for _, h := range t.Header {
		total += h.Span
	}
	return total
}

// CycleTitle is the heading used for a cycle in every export.
func CycleTitle(cycle string) string {
	return fmt.Sprintf("CICLO %s - Horario Académico", cycle)
}

// PastelColor derives a stable light colour ("rrggbb") from a subject name, so
// the same subject has the same colour in every export and viewer.
func PastelColor(subject string) string {
	sum := md5.Sum([]byte(subject))
	channel := func(b byte) int {
		v := int(float64(b)*0.5 + 100)
		if v < 140 {
			v = 140
		}
		if v > 220 {
			v = 220
		}
		return v
	}
	return fmt.Sprintf("%02x%02x%02x", channel(sum[0]), channel(sum[1]), channel(sum[2]))
}

func hexRGB(hex string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 255, 255, 255
	}
	return r, g, b
}
