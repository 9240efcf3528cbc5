package main

import (
	"go.uber.org/zap"

	"floorplan/internal/config"
	"floorplan/internal/geom"
	"floorplan/internal/interact"
	"floorplan/internal/plan"
	"floorplan/internal/store"
)

type model struct {
	config *config.Config
	store  *store.Store
	editor *interact.Editor
	screen *screen
	log    *zap.Logger

	mode          Mode
	inputAction   InputAction
	confirmAction ConfirmAction
	help          bool
	helpScroll    int

	// text and file input
	inputText string

	// entity picked for ConfirmImportEntity, the path is in inputText
	pendingEntity store.Entity

	// canvas-local position of the last pointer sample
	pointer      geom.Point
	deviceCursor int

	errorMessage   string
	successMessage string
}

// screen is the terminal size, shared with the editor as its geometry
// provider.
type screen struct {
	width  int
	height int
}

// Bounds reports the canvas area below the header and above the status
// line, in screen pixels.
func (s *screen) Bounds() (geom.Rect, error) {
	cols, rows := s.canvasSize()
	if cols <= 0 || rows <= 0 {
		return geom.Rect{}, interact.ErrNoGeometry
	}
	return geom.Rect{
		Origin: geom.Pt(0, headerRows*cellHeight),
		Size:   geom.Sz(float64(cols)*cellWidth, float64(rows)*cellHeight),
	}, nil
}

func (s *screen) canvasSize() (cols, rows int) {
	return s.width, s.height - headerRows - statusRows
}

// statusMsg reports the outcome of a background file operation.
type statusMsg struct {
	text string
	err  error
}

// importedMsg follows a successful backup import.
type importedMsg struct {
	statusMsg
}

// placeable is an object the add keys drop into the view.
type placeable struct {
	room   plan.RoomType
	device bool
}
