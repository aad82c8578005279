package timetable

// CountCollisions counts, for every slot of the grid, how many of the given
// sessions overlap it. The returned width is the busiest slot's count, and
// never less than 1 so that an empty day still renders a column. Sessions are
// expected to belong to a single day.
func CountCollisions(g *Grid, sessions []Session) (int, []int) {
	perSlot := make([]int, g.Len())
	for i := range sessions {
		for _, slot := range g.Occupied(sessions[i].Start, sessions[i].End) {
			perSlot[slot]++
		}
	}
	width := 1
	for _, count := range perSlot {
		if count > width {
			width = count
		}
	}
	return width, perSlot
}
