package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"floorplan/internal/geom"
	"floorplan/internal/interact"
	"floorplan/internal/plan"
)

var errEmptyName = errors.New("name must not be empty")

// cellCenter maps a terminal cell to the screen pixel at its centre.
func cellCenter(x, y int) geom.Point {
	return geom.Pt(float64(x)*cellWidth+cellWidth/2, float64(y)*cellHeight+cellHeight/2)
}

// pointerEvent translates a terminal mouse report. Reports with no
// pointer meaning come back false.
func pointerEvent(msg tea.MouseMsg) (interact.PointerEvent, bool) {
	ev := interact.PointerEvent{
		Pos:   cellCenter(msg.X, msg.Y),
		Shift: msg.Shift,
		Alt:   msg.Alt,
		Ctrl:  msg.Ctrl,
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress {
			return ev, false
		}
		ev.Kind = interact.PointerWheel
		ev.Wheel = 1
		if msg.Button == tea.MouseButtonWheelDown {
			ev.Wheel = -1
		}
		return ev, true
	case tea.MouseButtonLeft:
		ev.Button = interact.ButtonPrimary
	case tea.MouseButtonMiddle:
		ev.Button = interact.ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = interact.ButtonSecondary
	}
	switch msg.Action {
	case tea.MouseActionPress:
		ev.Kind = interact.PointerDown
	case tea.MouseActionRelease:
		ev.Kind = interact.PointerUp
	case tea.MouseActionMotion:
		ev.Kind = interact.PointerMove
	default:
		return ev, false
	}
	return ev, true
}

func (m *model) locations() []plan.Location {
	return plan.Locations(m.store.Floors())
}

// ensureLocation moves the editor to the first zone when its current one
// no longer exists.
func (m *model) ensureLocation() {
	locs := m.locations()
	for _, l := range locs {
		if l == m.editor.Location() {
			return
		}
	}
	if len(locs) > 0 {
		m.editor.SetLocation(locs[0])
	}
}

func (m *model) locationName() string {
	loc := m.editor.Location()
	f, err := m.store.Floor(loc.Floor)
	if err != nil {
		return loc.Floor + " / " + loc.Zone
	}
	if z, ok := f.Zone(loc.Zone); ok {
		return f.Name + " / " + z.Name
	}
	return f.Name + " / " + loc.Zone
}

// viewCenter returns the canvas-local top-left that centres an object of
// size in the visible canvas.
func (m *model) viewCenter(size geom.Size) geom.Point {
	bounds, err := m.screen.Bounds()
	if err != nil {
		return geom.Point{}
	}
	t := m.editor.Viewport().Transform()
	mid := bounds.Origin.Add(geom.Pt(bounds.Size.Width/2, bounds.Size.Height/2))
	local := geom.ToCanvasLocal(mid, bounds.Origin, t)
	p := local.Sub(geom.Pt(size.Width/2, size.Height/2))
	return geom.Pt(max(p.X, 0), max(p.Y, 0))
}

func (m *model) place(p placeable) (plan.Object, error) {
	loc := m.editor.Location()
	if p.device {
		t := plan.DeviceTypes[m.deviceCursor%len(plan.DeviceTypes)]
		m.deviceCursor++
		return m.store.AddDevice(t, "", loc, m.viewCenter(plan.DefaultObjectSize))
	}
	return m.store.AddRoomObject(p.room, loc, m.viewCenter(p.room.Info().DefaultSize))
}

func (m *model) renameSelected(name string) error {
	o, ok := m.editor.Selected()
	if !ok {
		return interact.ErrNothingSelected
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errEmptyName
	}
	_, err := m.store.UpdateObject(o.ID, func(obj *plan.Object) {
		obj.Name = name
	})
	return err
}

var statusCycle = []plan.Status{plan.StatusActive, plan.StatusInactive, plan.StatusMaintenance, plan.StatusError}

// cycleStatus advances the selected device to the next status.
func (m *model) cycleStatus() (plan.Status, error) {
	o, ok := m.editor.Selected()
	if !ok {
		return "", interact.ErrNothingSelected
	}
	if o.Device == nil {
		return "", fmt.Errorf("%s is not a device", o.Name)
	}
	next := statusCycle[0]
	for i, s := range statusCycle {
		if s == o.Device.Status {
			next = statusCycle[(i+1)%len(statusCycle)]
		}
	}
	_, err := m.store.UpdateObject(o.ID, func(obj *plan.Object) {
		d := *obj.Device
		d.Status = next
		obj.Device = &d
	})
	return next, err
}

func (m *model) copySelected() error {
	o, ok := m.editor.Selected()
	if !ok {
		return interact.ErrNothingSelected
	}
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return clipboard.WriteAll(string(b))
}

// pasteObject creates a copy of the object on the clipboard in the current
// zone, offset from the original by one grid step.
func (m *model) pasteObject() (plan.Object, error) {
	text, err := readClipboardText()
	if err != nil {
		return plan.Object{}, err
	}
	var o plan.Object
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &o); err != nil {
		return plan.Object{}, fmt.Errorf("clipboard holds no plan object: %w", err)
	}
	loc := m.editor.Location()
	o.ID = ""
	o.Floor, o.Zone = loc.Floor, loc.Zone
	o = o.Moved(o.Position.Add(geom.Pt(2*cellWidth, cellHeight)))
	return m.store.CreateObject(o)
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}
