package main

import (
	"fmt"
	"strings"

	"floorplan/internal/plan"
)

func (m *model) currentFloor() (plan.Floor, error) {
	return m.store.Floor(m.editor.Location().Floor)
}

func (m *model) currentZone() (plan.Zone, error) {
	f, err := m.currentFloor()
	if err != nil {
		return plan.Zone{}, err
	}
	z, ok := f.Zone(m.editor.Location().Zone)
	if !ok {
		return plan.Zone{}, fmt.Errorf("zone %s not on %s", m.editor.Location().Zone, f.Name)
	}
	return z, nil
}

// addFloor creates a floor with the default zone and shows it.
func (m *model) addFloor(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errEmptyName
	}
	f, err := m.store.AddFloor(name, nil)
	if err != nil {
		return err
	}
	m.editor.SetLocation(plan.Location{Floor: f.ID, Zone: f.Zones[0].ID})
	m.successMessage = "Added floor " + f.Name
	return nil
}

func (m *model) renameFloor(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errEmptyName
	}
	if err := m.store.UpdateFloor(m.editor.Location().Floor, name); err != nil {
		return err
	}
	m.successMessage = "Floor renamed to " + name
	return nil
}

// addZone creates a zone on the current floor and shows it.
func (m *model) addZone(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errEmptyName
	}
	floor := m.editor.Location().Floor
	z, err := m.store.AddZone(floor, name)
	if err != nil {
		return err
	}
	m.editor.SetLocation(plan.Location{Floor: floor, Zone: z.ID})
	m.successMessage = "Added zone " + z.Name
	return nil
}

func (m *model) renameZone(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errEmptyName
	}
	loc := m.editor.Location()
	if err := m.store.RenameZone(loc.Floor, loc.Zone, name); err != nil {
		return err
	}
	m.successMessage = "Zone renamed to " + name
	return nil
}

// zoneDeletable refuses to empty a floor of zones; the floor itself has
// to go instead.
func (m *model) zoneDeletable() error {
	f, err := m.currentFloor()
	if err != nil {
		return err
	}
	if len(f.Zones) < 2 {
		return fmt.Errorf("%s has only one zone, delete the floor instead", f.Name)
	}
	return nil
}

// deleteZone removes the current zone with its objects and moves to the
// next zone of the same floor.
func (m *model) deleteZone() error {
	if err := m.zoneDeletable(); err != nil {
		return err
	}
	f, _ := m.currentFloor()
	loc := m.editor.Location()
	if err := m.store.DeleteZone(loc.Floor, loc.Zone); err != nil {
		return err
	}
	for _, z := range f.Zones {
		if z.ID != loc.Zone {
			m.editor.SetLocation(plan.Location{Floor: f.ID, Zone: z.ID})
			break
		}
	}
	m.successMessage = "Zone deleted"
	return nil
}

func (m *model) floorDeletable() error {
	if len(m.store.Floors()) < 2 {
		return fmt.Errorf("cannot delete the only floor")
	}
	return nil
}

// deleteFloor removes the current floor with its zones and objects.
func (m *model) deleteFloor() error {
	if err := m.floorDeletable(); err != nil {
		return err
	}
	if err := m.store.DeleteFloor(m.editor.Location().Floor); err != nil {
		return err
	}
	m.ensureLocation()
	m.successMessage = "Floor deleted"
	return nil
}
