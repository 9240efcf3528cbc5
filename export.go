package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"floorplan/internal/export"
	"floorplan/internal/store"
)

// File work runs off the update loop; each command reports back with a
// statusMsg.

func (m *model) exportPNGCmd() tea.Cmd {
	loc := m.editor.Location()
	objs := m.editor.Objects()
	path := m.config.GetExportPath(fmt.Sprintf("floorplan-%s-%s.png", loc.Floor, loc.Zone))
	return func() tea.Msg {
		if err := export.PNG(path, objs, export.DefaultOptions()); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Saved " + path}
	}
}

func (m *model) exportInventoryCmd() tea.Cmd {
	devices := m.store.Devices()
	floors := m.store.Floors()
	path := m.config.GetExportPath(fmt.Sprintf("inventario-%s.xlsx", time.Now().Format("2006-01-02")))
	return func() tea.Msg {
		if err := export.Inventory(path, devices, floors); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: fmt.Sprintf("Exported %d devices to %s", len(devices), path)}
	}
}

func (m *model) exportBackupCmd() tea.Cmd {
	s := m.store
	path := m.config.GetExportPath(store.BackupFileName(time.Now()))
	return func() tea.Msg {
		if err := exportBackup(s, path); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Backup written to " + path}
	}
}

func (m *model) importBackupCmd(path string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if err := importBackup(s, path); err != nil {
			return statusMsg{err: err}
		}
		return importedMsg{statusMsg{text: "Imported " + path}}
	}
}

func (m *model) exportEntityCmd(e store.Entity) tea.Cmd {
	s := m.store
	path := m.config.GetExportPath(store.EntityFileName(e, time.Now()))
	return func() tea.Msg {
		if err := exportEntity(s, e, path); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: fmt.Sprintf("Exported %s to %s", e, path)}
	}
}

func (m *model) importEntityCmd(e store.Entity, path string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if err := importEntity(s, e, path); err != nil {
			return statusMsg{err: err}
		}
		return importedMsg{statusMsg{text: fmt.Sprintf("Imported %s from %s", e, path)}}
	}
}

func exportBackup(s *store.Store, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.ExportAll(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func importBackup(s *store.Store, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ImportAll(file)
}

func exportEntity(s *store.Store, e store.Entity, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.ExportEntity(e, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func importEntity(s *store.Store, e store.Entity, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ImportEntity(e, file)
}
