package timetable

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Assignment records the subcolumn chosen for one session and the slots it spans.
type Assignment struct {
	Session   *Session
	Subcolumn int
	Slots     []int
}

// DayAllocation is the placement of one day's sessions. Rows is indexed by grid
// slot and holds the session reserving each subcolumn, nil where free; rows are
// not padded, Materialize does that.
type DayAllocation struct {
	Day         Weekday
	Width       int
	Assignments []Assignment
	Rows        [][]*Session
	Diagnostics []Diagnostic
}

// Allocator places sessions into subcolumns with a first-fit policy.
type Allocator struct {
	grid   *Grid
	logger *zap.Logger
}

// NewAllocator binds an allocator to a grid.
func NewAllocator(grid *Grid, logger *zap.Logger) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{grid: grid, logger: logger}
}

// Allocate assigns every session of a single day one subcolumn, the same on
// every slot it occupies. Sessions are visited by ascending start time with
// ties kept in input order; each takes the lowest index that is free on all of
// its slots and keeps it for the rest of the run. If nothing below width fits
// the day is widened instead of dropping the session, and the mismatch with
// the collision count is logged and recorded as a diagnostic.
func (a *Allocator) Allocate(day Weekday, sessions []*Session, width int) DayAllocation {
	if width < 1 {
		width = 1
	}
	alloc := DayAllocation{
		Day:         day,
		Width:       width,
		Assignments: make([]Assignment, 0, len(sessions)),
		Rows:        make([][]*Session, a.grid.Len()),
	}

	order := make([]*Session, len(sessions))
	copy(order, sessions)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Start < order[j].Start
	})

	for _, session := range order {
		slots := a.grid.Occupied(session.Start, session.End)
		col := firstFit(alloc.Rows, slots, 0, width)
		if col < 0 {
			col = firstFit(alloc.Rows, slots, width, -1)
			a.logger.Warn("allocation inconsistency: widening day beyond collision count",
				zap.Stringer("day", day),
				zap.Int("width", width),
				zap.Int("subcolumn", col),
				zap.String("session", session.Label),
			)
			alloc.Diagnostics = append(alloc.Diagnostics, Diagnostic{
				Kind:    DiagnosticAllocationInconsistency,
				Row:     -1,
				Message: fmt.Sprintf("%s: %q needed subcolumn %d but collision count was %d", day, session.Label, col, width),
			})
			if col+1 > alloc.Width {
				alloc.Width = col + 1
			}
		}
		for _, slot := range slots {
			row := alloc.Rows[slot]
			for len(row) <= col {
				row = append(row, nil)
			}
			row[col] = session
			alloc.Rows[slot] = row
		}
		alloc.Assignments = append(alloc.Assignments, Assignment{Session: session, Subcolumn: col, Slots: slots})
	}
	return alloc
}

// firstFit returns the lowest index in [from, limit) free on every slot, or -1.
// A negative limit searches without bound, which always succeeds.
func firstFit(rows [][]*Session, slots []int, from, limit int) int {
	for col := from; limit < 0 || col < limit; col++ {
		if isFree(rows, slots, col) {
			return col
		}
	}
	return -1
}

func isFree(rows [][]*Session, slots []int, col int) bool {
	for _, slot := range slots {
		row := rows[slot]
		if col < len(row) && row[col] != nil {
			return false
		}
	}
	return true
}
