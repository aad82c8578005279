package timetable

// DayView is the padded grid of one weekday: Rows[slot] always has Width cells.
type DayView struct {
	Day   Weekday
	Width int
	Rows  [][]Cell
}

// ScheduleView is everything renderers need for one cycle. It owns its rows;
// nothing mutates it once Materialize returns.
type ScheduleView struct {
	Cycle       string
	Grid        *Grid
	Days        [DaysPerWeek]DayView
	ActiveSlots []int
	Diagnostics []Diagnostic
}

// Materialize pads the per-day allocations into a ScheduleView and derives the
// active slots, the grid positions holding at least one session on any day.
func Materialize(grid *Grid, allocs [DaysPerWeek]DayAllocation) *ScheduleView {
	view := &ScheduleView{Grid: grid, ActiveSlots: []int{}}
	for i, alloc := range allocs {
		width := alloc.Width
		if width < 1 {
			width = 1
		}
		day := DayView{Day: Weekdays[i], Width: width, Rows: make([][]Cell, grid.Len())}
		for slot := range day.Rows {
			row := make([]Cell, width)
			if slot < len(alloc.Rows) {
				for col, session := range alloc.Rows[slot] {
					if col < width {
						row[col] = Cell{Session: session}
					}
				}
			}
			day.Rows[slot] = row
		}
		view.Days[i] = day
	}

	for slot := 0; slot < grid.Len(); slot++ {
		if view.slotActive(slot) {
			view.ActiveSlots = append(view.ActiveSlots, slot)
		}
	}
	return view
}

func (v *ScheduleView) slotActive(slot int) bool {
	for _, day := range v.Days {
		for _, cell := range day.Rows[slot] {
			if !cell.Empty() {
				return true
			}
		}
	}
	return false
}

// Width returns the number of subcolumns of day.
func (v *ScheduleView) Width(day Weekday) int {
	return v.Days[day].Width
}

// Widths returns the subcolumn count per weekday.
func (v *ScheduleView) Widths() map[Weekday]int {
	out := make(map[Weekday]int, DaysPerWeek)
	for _, day := range v.Days {
		out[day.Day] = day.Width
	}
	return out
}

// TotalWidth is the sum of all day widths, the number of data columns of a
// rendered table.
func (v *ScheduleView) TotalWidth() int {
	total := 0
	for _, day := range v.Days {
		total += day.Width
	}
	return total
}

// Cells returns the padded row of day at grid slot index slot.
func (v *ScheduleView) Cells(day Weekday, slot int) []Cell {
	return v.Days[day].Rows[slot]
}

// ActiveTimeSlots resolves ActiveSlots against the grid.
func (v *ScheduleView) ActiveTimeSlots() []TimeSlot {
	out := make([]TimeSlot, 0, len(v.ActiveSlots))
	for _, idx := range v.ActiveSlots {
		out = append(out, v.Grid.Slot(idx))
	}
	return out
}
