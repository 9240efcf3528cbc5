package interact

// Mode is the current interaction of an Editor.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeDrawing
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeDragging:
		return "DRAG"
	case ModeDrawing:
		return "DRAW"
	case ModePanning:
		return "PAN"
	}
	return "UNKNOWN"
}

// modeGuard is shared by the drag and draw controllers of one editor so
// that at most one of them holds the canvas at a time.
type modeGuard struct {
	mode Mode
}

// acquire enters m if the guard is idle or already in m.
func (g *modeGuard) acquire(m Mode) bool {
	if g.mode == m {
		return true
	}
	if g.mode != ModeIdle {
		return false
	}
	g.mode = m
	return true
}

// release leaves m; releasing a mode that is not held is a no-op.
func (g *modeGuard) release(m Mode) {
	if g.mode == m {
		g.mode = ModeIdle
	}
}

func (g *modeGuard) current() Mode {
	return g.mode
}
