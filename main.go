package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gregoryv/cmdline"
	"go.uber.org/zap"

	"floorplan/internal/config"
	"floorplan/internal/geom"
	"floorplan/internal/interact"
	"floorplan/internal/logger"
	"floorplan/internal/plan"
	"floorplan/internal/store"
)

func main() {
	cfg := config.Load()

	var (
		cli        = cmdline.NewBasicParser()
		dataDir    = cli.Option("-d, --data-dir").String(cfg.DataDir)
		backend    = cli.Option("-s, --store").String(cfg.Store)
		logFile    = cli.Option("-l, --log-file").String(cfg.LogFile)
		debug      = cli.Flag("--debug")
		importPath = cli.Option("    --import").String("")
		exportPath = cli.Option("    --export").String("")
	)
	u := cli.Usage()
	u.Preface("Terminal floor plan editor for office device inventories")
	cli.Parse()

	cfg.DataDir = dataDir
	cfg.Store = backend
	cfg.LogFile = logFile
	if debug {
		cfg.LogLevel = "debug"
	}

	zlog, err := logger.New(cfg.LogLevel, "json", cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	st, err := cfg.OpenStore(zlog)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	switch {
	case importPath != "":
		if err := importBackup(st, importPath); err != nil {
			log.Fatal(err)
		}
		fmt.Println("imported", importPath)
		return
	case exportPath != "":
		if err := exportBackup(st, exportPath); err != nil {
			log.Fatal(err)
		}
		fmt.Println("exported", exportPath)
		return
	}

	p := tea.NewProgram(
		initialModel(cfg, st, zlog),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		zlog.Error("program exited", zap.Error(err))
		log.Fatal(err)
	}
}

func initialModel(cfg *config.Config, st *store.Store, zlog *zap.Logger) model {
	scr := &screen{}
	opts := cfg.EditorOptions()
	opts.Logger = zlog.Named("editor")
	if locs := plan.Locations(st.Floors()); len(locs) > 0 {
		opts.Location = locs[0]
	}
	return model{
		config: cfg,
		store:  st,
		editor: interact.NewEditor(st, scr, opts),
		screen: scr,
		log:    zlog,
		mode:   ModeNormal,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.screen.width = msg.Width
		m.screen.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if m.mode != ModeNormal || m.help {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case importedMsg:
		m.ensureLocation()
		m.editor.ClearSelection()
		m.successMessage = msg.text
		return m, nil

	case statusMsg:
		if msg.err != nil {
			m.log.Warn("file operation failed", zap.Error(msg.err))
			m.errorMessage = msg.err.Error()
			m.successMessage = ""
		} else {
			m.successMessage = msg.text
			m.errorMessage = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg.String())
		}
		switch m.mode {
		case ModeTextInput, ModeFileInput:
			return m.handleInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg.String())
		}
		return m.handleNormalKey(msg.String())
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	ev, ok := pointerEvent(msg)
	if !ok {
		return
	}
	if bounds, err := m.screen.Bounds(); err == nil {
		m.pointer = geom.ToCanvasLocal(ev.Pos, bounds.Origin, m.editor.Viewport().Transform())
	}
	m.editor.HandlePointer(ev)
}

func (m model) handleHelpKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "?", "q":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		m.helpScroll++
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

var placeKeys = map[string]placeable{
	"a": {device: true},
	"w": {room: plan.RoomWallHorizontal},
	"W": {room: plan.RoomWallVertical},
	"v": {room: plan.RoomWallDiagonal},
	"V": {room: plan.RoomWallDiagonalReverse},
	"b": {room: plan.RoomRectangle},
	"o": {room: plan.RoomDoor},
	"t": {room: plan.RoomText},
}

func (m model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	if p, ok := placeKeys[key]; ok {
		obj, err := m.place(p)
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.editor.Select(obj.ID)
		m.successMessage = "Added " + obj.Name
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.editor.CancelGesture()
		m.help = true
		m.helpScroll = 0
	case "esc":
		m.editor.HandleKey(interact.KeyEscape)
	case "+", "=":
		m.editor.HandleKey(interact.KeyZoomIn)
	case "-":
		m.editor.HandleKey(interact.KeyZoomOut)
	case "0":
		m.editor.HandleKey(interact.KeyResetView)
	case "left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(key, m.getMoveSpeed(key))
	case "l":
		m.toggleTool(interact.ToolLine)
	case "r":
		m.toggleTool(interact.ToolRect)
	case "x":
		draw := m.editor.Draw()
		draw.SetAxisLock(!draw.AxisLock())
	case "[":
		m.cycleLocation(-1)
	case "]":
		m.cycleLocation(1)
	case "n":
		o, ok := m.editor.Selected()
		if !ok {
			m.errorMessage = interact.ErrNothingSelected.Error()
			return m, nil
		}
		m.prompt(InputRename, o.Name)
	case "m":
		status, err := m.cycleStatus()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.successMessage = "Status: " + status.Info().Name
	case "d", "delete":
		if _, ok := m.editor.Selected(); !ok {
			m.errorMessage = interact.ErrNothingSelected.Error()
			return m, nil
		}
		m.confirmAction = ConfirmDelete
		m.enterMode(ModeConfirm)
	case "c":
		if err := m.copySelected(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.successMessage = "Copied to clipboard"
	case "p":
		obj, err := m.pasteObject()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.editor.Select(obj.ID)
		m.successMessage = "Pasted " + obj.Name
	case "s":
		return m, m.exportPNGCmd()
	case "i":
		return m, m.exportInventoryCmd()
	case "e":
		return m, m.exportBackupCmd()
	case "E":
		m.inputText = m.config.GetExportPath(store.BackupFileName(time.Now()))
		m.enterMode(ModeFileInput)
	case "X":
		m.confirmAction = ConfirmClear
		m.enterMode(ModeConfirm)
	case "F":
		m.prompt(InputAddFloor, "")
	case "f":
		f, err := m.currentFloor()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.prompt(InputRenameFloor, f.Name)
	case "Z":
		m.prompt(InputAddZone, "")
	case "z":
		z, err := m.currentZone()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.prompt(InputRenameZone, z.Name)
	case "D":
		if err := m.zoneDeletable(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.confirmAction = ConfirmDeleteZone
		m.enterMode(ModeConfirm)
	case "ctrl+d":
		if err := m.floorDeletable(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.confirmAction = ConfirmDeleteFloor
		m.enterMode(ModeConfirm)
	case "g":
		m.prompt(InputExportEntity, string(store.EntityDevices))
	case "G":
		path := m.config.GetExportPath(store.EntityFileName(store.EntityDevices, time.Now()))
		m.prompt(InputImportEntity, string(store.EntityDevices)+" "+path)
	}
	return m, nil
}

func (m *model) prompt(action InputAction, text string) {
	m.inputAction = action
	m.inputText = text
	m.enterMode(ModeTextInput)
}

// enterMode leaves ModeNormal. Mouse reports are dropped until the prompt
// closes, so a running gesture would never see its release.
func (m *model) enterMode(mode Mode) {
	if m.editor.CancelGesture() {
		m.log.Debug("gesture cancelled", zap.Int("mode", int(mode)))
	}
	m.mode = mode
}

func (m *model) toggleTool(t interact.Tool) {
	if m.editor.Draw().Tool() == t {
		t = interact.ToolNone
	}
	if !m.editor.SelectTool(t) {
		m.errorMessage = fmt.Sprintf("Cannot pick the %s tool during %s", t, m.editor.Mode())
	}
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.inputText = ""
	case tea.KeyEnter:
		text := m.inputText
		m.inputText = ""
		if m.mode == ModeFileInput {
			m.inputText = text
			m.confirmAction = ConfirmImport
			m.mode = ModeConfirm
			return m, nil
		}
		m.mode = ModeNormal
		return m.submitInput(text)
	case tea.KeyBackspace:
		if r := []rune(m.inputText); len(r) > 0 {
			m.inputText = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.inputText += " "
	case tea.KeyRunes:
		m.inputText += string(msg.Runes)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

// submitInput applies the text of a closed ModeTextInput prompt.
func (m model) submitInput(text string) (tea.Model, tea.Cmd) {
	var err error
	switch m.inputAction {
	case InputRename:
		err = m.renameSelected(text)
	case InputAddFloor:
		err = m.addFloor(text)
	case InputRenameFloor:
		err = m.renameFloor(text)
	case InputAddZone:
		err = m.addZone(text)
	case InputRenameZone:
		err = m.renameZone(text)
	case InputExportEntity:
		var e store.Entity
		if e, err = store.ParseEntity(strings.TrimSpace(text)); err == nil {
			return m, m.exportEntityCmd(e)
		}
	case InputImportEntity:
		name, path, _ := strings.Cut(strings.TrimSpace(text), " ")
		var e store.Entity
		if e, err = store.ParseEntity(name); err == nil {
			path = strings.TrimSpace(path)
			if path == "" {
				path = m.config.GetExportPath(store.EntityFileName(e, time.Now()))
			}
			m.pendingEntity = e
			m.inputText = path
			m.confirmAction = ConfirmImportEntity
			m.mode = ModeConfirm
		}
	}
	if err != nil {
		m.errorMessage = err.Error()
	}
	return m, nil
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	if key != "y" && key != "Y" {
		m.mode = ModeNormal
		m.inputText = ""
		return m, nil
	}
	m.mode = ModeNormal
	switch m.confirmAction {
	case ConfirmDelete:
		if err := m.editor.DeleteSelected(); err != nil {
			m.errorMessage = err.Error()
		}
	case ConfirmImport:
		path := m.inputText
		m.inputText = ""
		return m, m.importBackupCmd(path)
	case ConfirmClear:
		if err := m.store.ClearAll(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.editor.ClearSelection()
		m.ensureLocation()
		m.successMessage = "All data cleared"
	case ConfirmDeleteZone:
		if err := m.deleteZone(); err != nil {
			m.errorMessage = err.Error()
		}
	case ConfirmDeleteFloor:
		if err := m.deleteFloor(); err != nil {
			m.errorMessage = err.Error()
		}
	case ConfirmImportEntity:
		path := m.inputText
		m.inputText = ""
		return m, m.importEntityCmd(m.pendingEntity, path)
	}
	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#f9fafb")).
			Background(lipgloss.Color("#1f2937"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d1d5db")).
			Background(lipgloss.Color("#374151"))
	errorStyle = statusStyle.Copy().Foreground(lipgloss.Color("#fca5a5"))
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	cols, rows := m.screen.canvasSize()
	if cols <= 0 || rows <= 0 {
		return ""
	}

	canvas := NewCanvas(cols, rows, m.editor.Viewport().Transform())
	lines := canvas.Render(m.editor.Objects(), m.editor)

	var result strings.Builder
	result.WriteString(headerStyle.Width(cols).Render(fit(m.headerLine(), cols)))
	result.WriteString("\n")
	result.WriteString(strings.Join(lines, "\n"))
	result.WriteString("\n")
	style := statusStyle
	if m.errorMessage != "" {
		style = errorStyle
	}
	result.WriteString(style.Width(cols).Render(fit(m.statusLine(), cols)))
	return result.String()
}

// fit truncates s to width cells so styled bars never wrap.
func fit(s string, width int) string {
	if r := []rune(s); len(r) > width {
		return string(r[:width])
	}
	return s
}

func (m model) headerLine() string {
	t := m.editor.Viewport().Transform()
	header := fmt.Sprintf(" floorplan | %s | zoom %.0f%%", m.locationName(), t.Zoom*100)
	if tool := m.editor.Draw().Tool(); tool != interact.ToolNone {
		header += " | tool: " + tool.String()
	}
	if m.editor.Draw().AxisLock() {
		header += " | axis lock"
	}
	return header
}

func (m model) modeString() string {
	switch m.mode {
	case ModeTextInput:
		return "TEXT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	}
	return m.editor.Mode().String()
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeTextInput:
		return fmt.Sprintf("Mode: TEXT | %s: %s█ | Enter to save, Esc to cancel", inputLabels[m.inputAction], m.inputText)
	case ModeFileInput:
		return fmt.Sprintf("Mode: FILE | Import from: %s█ | Enter to continue, Esc to cancel", m.inputText)
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDelete:
			o, _ := m.editor.Selected()
			message = fmt.Sprintf("Delete %s? (y/n)", o.Name)
		case ConfirmImport:
			message = fmt.Sprintf("Replace all data with %s? (y/n)", m.inputText)
		case ConfirmClear:
			message = "Delete all floors, devices and room objects? (y/n)"
		case ConfirmDeleteZone:
			z, _ := m.currentZone()
			message = fmt.Sprintf("Delete zone %s and its objects? (y/n)", z.Name)
		case ConfirmDeleteFloor:
			f, _ := m.currentFloor()
			message = fmt.Sprintf("Delete floor %s with all its zones? (y/n)", f.Name)
		case ConfirmImportEntity:
			message = fmt.Sprintf("Replace %s with %s? (y/n)", m.pendingEntity, m.inputText)
		}
		return "Mode: CONFIRM | " + message
	}

	status := fmt.Sprintf("Mode: %s | Pointer: (%.0f,%.0f)", m.modeString(), m.pointer.X, m.pointer.Y)
	if o, ok := m.editor.Selected(); ok {
		status += fmt.Sprintf(" | Selected: %s (%s)", o.Name, o.TypeName())
		if o.Device != nil {
			status += " " + o.Device.Status.Info().Name
		}
	}
	if m.successMessage != "" {
		status += " | " + m.successMessage
	}
	if m.errorMessage != "" {
		status += " | ERROR: " + m.errorMessage
	} else if m.successMessage == "" {
		status += " | ? for help | q to quit"
	}
	return status
}

var inputLabels = map[InputAction]string{
	InputRename:       "Name",
	InputAddFloor:     "New floor",
	InputRenameFloor:  "Floor name",
	InputAddZone:      "New zone",
	InputRenameZone:   "Zone name",
	InputExportEntity: "Export entity",
	InputImportEntity: "Import entity and path",
}

var helpLines = []string{
	"Floor Plan Help",
	"===============",
	"",
	"Mouse:",
	"------",
	"  Left drag        Move the device or room object under the pointer",
	"  Left click       Select the object under the pointer",
	"  Right/Middle     Drag to pan the view (or Alt/Ctrl + left drag)",
	"  Wheel            Zoom around the pointer",
	"  Shift            Keep a drawn line horizontal or vertical",
	"",
	"View:",
	"-----",
	"  ←/↓/↑/→          Pan the view",
	"  Shift+arrows     Pan 2x faster",
	"  +/-              Zoom in/out",
	"  0                Reset zoom and pan",
	"  [ / ]            Previous/next zone",
	"",
	"Floors and zones:",
	"-----------------",
	"  F / f            Add a floor / rename the current floor",
	"  Z / z            Add a zone / rename the current zone",
	"  D                Delete the current zone and its objects",
	"  Ctrl+D           Delete the current floor with all its zones",
	"",
	"Drawing:",
	"--------",
	"  l                Line tool (toggle)",
	"  r                Rectangle tool (toggle)",
	"  x                Latch the line axis lock",
	"  Esc              Cancel the gesture, then the tool, then the selection",
	"",
	"Objects:",
	"--------",
	"  a                Add a device (cycles through device types)",
	"  w/W              Add a horizontal/vertical wall",
	"  v/V              Add a diagonal/reverse diagonal wall",
	"  b                Add a rectangle",
	"  o                Add a door",
	"  t                Add a text label",
	"  n                Rename the selection",
	"  m                Cycle the device status",
	"  d                Delete the selection",
	"  c/p              Copy/paste the selection through the clipboard",
	"",
	"Files:",
	"------",
	"  s                Export the zone as PNG",
	"  i                Export the device inventory as XLSX",
	"  e                Write a full JSON backup",
	"  E                Import a JSON backup, replacing all data",
	"  g                Export one entity (floors, devices, roomObjects)",
	"  G                Import one entity from a JSON array file",
	"  X                Clear all data",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	visibleHeight := m.screen.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = max(len(helpLines)-visibleHeight, 0)
	}
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result
}
