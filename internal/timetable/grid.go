package timetable

import (
	"fmt"
	"time"
)

// GridConfig describes the daily window and the fixed slot width.
type GridConfig struct {
	Start        ClockTime
	End          ClockTime
	SlotDuration time.Duration
}

// DefaultGridConfig covers 08:00–22:15 in 45 minute slots.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Start:        Clock(8, 0),
		End:          Clock(22, 15),
		SlotDuration: 45 * time.Minute,
	}
}

// Validate checks the window and duration without building the grid.
func (c GridConfig) Validate() error {
	if c.Start >= c.End {
		return fmt.Errorf("%w: start %s must be before end %s", ErrConfiguration, c.Start, c.End)
	}
	if c.SlotDuration <= 0 {
		return fmt.Errorf("%w: slot duration must be positive, got %s", ErrConfiguration, c.SlotDuration)
	}
	if c.SlotDuration%time.Minute != 0 {
		return fmt.Errorf("%w: slot duration must be whole minutes, got %s", ErrConfiguration, c.SlotDuration)
	}
	return nil
}

// TimeSlot is the half-open interval [Start, End) at position Index of a grid.
type TimeSlot struct {
	Index int       `json:"index"`
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// Label renders the slot the way headers and exports show it.
func (s TimeSlot) Label() string {
	return s.Start.String() + " - " + s.End.String()
}

// Overlaps applies the strict overlap rule: touching endpoints do not overlap.
func (s TimeSlot) Overlaps(start, end ClockTime) bool {
	return start < s.End && end > s.Start
}

// Grid is the immutable ordered slot sequence shared by every run.
type Grid struct {
	slots []TimeSlot
}

// NewGrid generates slots from Start while the slot start is before End. The
// last slot is not clipped and may run past End.
func NewGrid(cfg GridConfig) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var slots []TimeSlot
	for start := cfg.Start; start < cfg.End; start = start.Add(cfg.SlotDuration) {
		slots = append(slots, TimeSlot{
			Index: len(slots),
			Start: start,
			End:   start.Add(cfg.SlotDuration),
		})
	}
	return &Grid{slots: slots}, nil
}

// Len returns the number of slots.
func (g *Grid) Len() int {
	return len(g.slots)
}

// Slot returns the slot at index i.
func (g *Grid) Slot(i int) TimeSlot {
	return g.slots[i]
}

// Slots returns a copy of the slot sequence.
func (g *Grid) Slots() []TimeSlot {
	out := make([]TimeSlot, len(g.slots))
	copy(out, g.slots)
	return out
}

// Occupied returns, in ascending order, the indices of the slots that the
// interval [start, end) overlaps. Zero-length and inverted intervals, as well
// as intervals outside the window, occupy nothing.
func (g *Grid) Occupied(start, end ClockTime) []int {
	if end <= start {
		return nil
	}
	var out []int
	for _, slot := range g.slots {
		if slot.Overlaps(start, end) {
			out = append(out, slot.Index)
		}
	}
	return out
}
