package main

// handlePan nudges the view. Arrow keys move the plan the way the arrow
// points, by panStep cells per press.
func (m *model) handlePan(key string, speed int) {
	dx, dy := 0.0, 0.0
	step := float64(panStep * speed)
	switch key {
	case "left", "shift+left":
		dx = -step * cellWidth
	case "right", "shift+right":
		dx = step * cellWidth
	case "up", "shift+up":
		dy = -step * cellHeight
	case "down", "shift+down":
		dy = step * cellHeight
	}
	m.editor.Viewport().Nudge(dx, dy)
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// cycleLocation moves to the next or previous zone across all floors.
func (m *model) cycleLocation(delta int) {
	locs := m.locations()
	if len(locs) == 0 {
		return
	}
	cur := 0
	for i, l := range locs {
		if l == m.editor.Location() {
			cur = i
			break
		}
	}
	next := locs[(cur+delta+len(locs))%len(locs)]
	if !m.editor.SetLocation(next) {
		m.errorMessage = "Finish the current gesture first"
		return
	}
	m.editor.Viewport().ResetView()
}
