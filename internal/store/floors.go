package store

import (
	"fmt"

	"go.uber.org/zap"

	"floorplan/internal/plan"
)

func cloneFloors(floors []plan.Floor) []plan.Floor {
	out := make([]plan.Floor, len(floors))
	for i, f := range floors {
		f.Zones = append([]plan.Zone(nil), f.Zones...)
		out[i] = f
	}
	return out
}

func (s *Store) Floors() []plan.Floor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneFloors(s.floors)
}

func (s *Store) floorIndex(id string) int {
	for i, f := range s.floors {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Floor(id string) (plan.Floor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.floorIndex(id)
	if i < 0 {
		return plan.Floor{}, fmt.Errorf("floor %s: %w", id, ErrNotFound)
	}
	return cloneFloors(s.floors[i : i+1])[0], nil
}

// updateFloors applies fn to a copy of the floors and saves the result.
func (s *Store) updateFloors(fn func(floors []plan.Floor) ([]plan.Floor, error)) error {
	old := s.floors
	floors, err := fn(cloneFloors(old))
	if err != nil {
		return err
	}
	s.floors = floors
	if err := s.save(EntityFloors); err != nil {
		s.floors = old
		return err
	}
	return nil
}

// AddFloor creates a floor. Zones without an id get one; a floor without
// zones gets plan.DefaultZone.
func (s *Store) AddFloor(name string, zones []plan.Zone) (plan.Floor, error) {
	if name == "" {
		return plan.Floor{}, fmt.Errorf("floor name is empty")
	}
	f := plan.Floor{ID: newID("planta"), Name: name}
	for _, z := range zones {
		if z.ID == "" {
			z.ID = newID("zona")
		}
		f.Zones = append(f.Zones, z)
	}
	if len(f.Zones) == 0 {
		f.Zones = []plan.Zone{plan.DefaultZone}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.updateFloors(func(floors []plan.Floor) ([]plan.Floor, error) {
		return append(floors, f), nil
	})
	if err != nil {
		return plan.Floor{}, err
	}
	s.log.Info("floor added", zap.String("id", f.ID), zap.String("name", name))
	return cloneFloors([]plan.Floor{f})[0], nil
}

func (s *Store) UpdateFloor(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateFloors(func(floors []plan.Floor) ([]plan.Floor, error) {
		i := s.floorIndex(id)
		if i < 0 {
			return nil, fmt.Errorf("floor %s: %w", id, ErrNotFound)
		}
		floors[i].Name = name
		return floors, nil
	})
}

// DeleteFloor removes the floor and every object placed on it.
func (s *Store) DeleteFloor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.updateFloors(func(floors []plan.Floor) ([]plan.Floor, error) {
		i := s.floorIndex(id)
		if i < 0 {
			return nil, fmt.Errorf("floor %s: %w", id, ErrNotFound)
		}
		return append(floors[:i], floors[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	return s.dropObjects(func(o plan.Object) bool { return o.Floor == id })
}

func (s *Store) AddZone(floorID, name string) (plan.Zone, error) {
	if name == "" {
		return plan.Zone{}, fmt.Errorf("zone name is empty")
	}
	z := plan.Zone{ID: newID("zona"), Name: name}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.updateFloors(func(floors []plan.Floor) ([]plan.Floor, error) {
		i := s.floorIndex(floorID)
		if i < 0 {
			return nil, fmt.Errorf("floor %s: %w", floorID, ErrNotFound)
		}
		floors[i].Zones = append(floors[i].Zones, z)
		return floors, nil
	})
	if err != nil {
		return plan.Zone{}, err
	}
	return z, nil
}

func (s *Store) RenameZone(floorID, zoneID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateFloors(func(floors []plan.Floor) ([]plan.Floor, error) {
		i := s.floorIndex(floorID)
		if i < 0 {
			return nil, fmt.Errorf("floor %s: %w", floorID, ErrNotFound)
		}
		for j := range floors[i].Zones {
			if floors[i].Zones[j].ID == zoneID {
				floors[i].Zones[j].Name = name
				return floors, nil
			}
		}
		return nil, fmt.Errorf("zone %s/%s: %w", floorID, zoneID, ErrNotFound)
	})
}

// DeleteZone removes the zone and every object placed in it.
func (s *Store) DeleteZone(floorID, zoneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.updateFloors(func(floors []plan.Floor) ([]plan.Floor, error) {
		i := s.floorIndex(floorID)
		if i < 0 {
			return nil, fmt.Errorf("floor %s: %w", floorID, ErrNotFound)
		}
		zones := floors[i].Zones[:0]
		for _, z := range floors[i].Zones {
			if z.ID != zoneID {
				zones = append(zones, z)
			}
		}
		if len(zones) == len(floors[i].Zones) {
			return nil, fmt.Errorf("zone %s/%s: %w", floorID, zoneID, ErrNotFound)
		}
		floors[i].Zones = zones
		return floors, nil
	})
	if err != nil {
		return err
	}
	return s.dropObjects(func(o plan.Object) bool {
		return o.Floor == floorID && o.Zone == zoneID
	})
}

// dropObjects removes every object matching drop and saves the lists that
// changed.
func (s *Store) dropObjects(drop func(plan.Object) bool) error {
	for _, k := range []plan.Kind{plan.KindDevice, plan.KindRoomObject} {
		l := s.list(k)
		var kept []plan.Object
		for _, o := range *l {
			if !drop(o) {
				kept = append(kept, o)
			}
		}
		if len(kept) == len(*l) {
			continue
		}
		removed := len(*l) - len(kept)
		*l = kept
		if err := s.save(entityOf(k)); err != nil {
			return err
		}
		s.log.Debug("objects dropped", zap.Stringer("kind", k), zap.Int("count", removed))
	}
	return nil
}
