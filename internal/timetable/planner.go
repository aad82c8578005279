package timetable

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Planner runs the whole pipeline for one cycle against a shared grid.
type Planner struct {
	grid      *Grid
	allocator *Allocator
	logger    *zap.Logger
}

// NewPlanner builds a planner; the grid is shared read-only across runs.
func NewPlanner(grid *Grid, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{grid: grid, allocator: NewAllocator(grid, logger), logger: logger}
}

// Build allocates every day of a cycle and materializes the result. Sessions
// are copied, so the caller's slice is never referenced by the view. Days are
// allocated concurrently; they share no state and are merged in weekday order.
func (p *Planner) Build(cycle string, sessions []Session) *ScheduleView {
	owned := make([]Session, len(sessions))
	copy(owned, sessions)

	var diagnostics []Diagnostic
	var byDay [DaysPerWeek][]*Session
	for i := range owned {
		session := &owned[i]
		if !session.Day.Valid() {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticUnrecognizedWeekday,
				Row:     i,
				Message: fmt.Sprintf("%q has day %d outside the teaching week", session.Label, int(session.Day)),
			})
			continue
		}
		byDay[session.Day] = append(byDay[session.Day], session)
	}

	var allocs [DaysPerWeek]DayAllocation
	var wg sync.WaitGroup
	for _, day := range Weekdays {
		wg.Add(1)
		go func(day Weekday) {
			defer wg.Done()
			allocs[day] = p.AllocateDay(day, byDay[day])
		}(day)
	}
	wg.Wait()

	view := Materialize(p.grid, allocs)
	view.Cycle = cycle
	for _, alloc := range allocs {
		diagnostics = append(diagnostics, alloc.Diagnostics...)
	}
	view.Diagnostics = diagnostics

	p.logger.Debug("timetable built",
		zap.String("cycle", cycle),
		zap.Int("sessions", len(sessions)),
		zap.Int("active_slots", len(view.ActiveSlots)),
		zap.Int("total_width", view.TotalWidth()),
	)
	return view
}

// AllocateDay counts collisions for one day's sessions and allocates them.
func (p *Planner) AllocateDay(day Weekday, sessions []*Session) DayAllocation {
	flat := make([]Session, len(sessions))
	for i, s := range sessions {
		flat[i] = *s
	}
	width, _ := CountCollisions(p.grid, flat)
	return p.allocator.Allocate(day, sessions, width)
}
