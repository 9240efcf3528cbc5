package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"floorplan/internal/plan"
)

var ErrInvalidBackup = errors.New("invalid backup")

// Backup is the document written by ExportAll.
type Backup struct {
	Floors      []plan.Floor  `json:"floors"`
	Devices     []plan.Object `json:"devices"`
	RoomObjects []plan.Object `json:"roomObjects"`
	ExportDate  time.Time     `json:"exportDate"`
	Version     string        `json:"version"`
}

// BackupFileName is the default file name of a full backup taken at t.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("floorplan-backup-%s.json", t.Format("2006-01-02"))
}

// EntityFileName is the default file name of a single entity export.
func EntityFileName(e Entity, t time.Time) string {
	return fmt.Sprintf("%s-%s.json", e, t.Format("2006-01-02"))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExportAll writes every entity as one backup document.
func (s *Store) ExportAll(w io.Writer) error {
	s.mu.Lock()
	b := Backup{
		Floors:      nonNil(cloneFloors(s.floors)),
		Devices:     nonNil(cloneObjects(s.devices)),
		RoomObjects: nonNil(cloneObjects(s.rooms)),
		ExportDate:  s.now().UTC(),
		Version:     Version,
	}
	s.mu.Unlock()
	return writeJSON(w, b)
}

// ImportAll replaces every entity with the contents of a backup document.
// Entities missing from the document become empty. Nothing changes when
// the document is invalid.
func (s *Store) ImportAll(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return fmt.Errorf("%w: not a JSON object", ErrInvalidBackup)
	}

	next := &Store{log: s.log}
	for _, e := range Entities {
		data, ok := doc[string(e)]
		if !ok {
			continue
		}
		if !isArray(data) {
			return fmt.Errorf("%w: %s must be an array", ErrInvalidBackup, e)
		}
		if err := next.decode(e, data); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidBackup, e, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	floors, devices, rooms := s.floors, s.devices, s.rooms
	s.floors, s.devices, s.rooms = next.floors, next.devices, next.rooms
	if len(s.floors) == 0 {
		s.floors = cloneFloors(SeedFloors)
	}
	for _, e := range Entities {
		if err := s.save(e); err != nil {
			s.floors, s.devices, s.rooms = floors, devices, rooms
			return err
		}
	}
	s.log.Info("backup imported",
		zap.Int("floors", len(s.floors)),
		zap.Int("devices", len(s.devices)),
		zap.Int("roomObjects", len(s.rooms)),
	)
	return nil
}

func isArray(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}

// ExportEntity writes one entity as a bare JSON array.
func (s *Store) ExportEntity(e Entity, w io.Writer) error {
	if !e.valid() {
		return fmt.Errorf("unknown entity %q", e)
	}
	s.mu.Lock()
	v := s.data(e)
	b, err := json.Marshal(v)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// ImportEntity replaces one entity with a JSON array read from r.
func (s *Store) ImportEntity(e Entity, r io.Reader) error {
	if !e.valid() {
		return fmt.Errorf("unknown entity %q", e)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !isArray(raw) {
		return fmt.Errorf("%w: %s must be an array", ErrInvalidBackup, e)
	}
	next := &Store{}
	if err := next.decode(e, raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidBackup, e, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	floors, devices, rooms := s.floors, s.devices, s.rooms
	switch e {
	case EntityFloors:
		s.floors = next.floors
	case EntityDevices:
		s.devices = next.devices
	case EntityRoomObjects:
		s.rooms = next.rooms
	}
	if err := s.save(e); err != nil {
		s.floors, s.devices, s.rooms = floors, devices, rooms
		return err
	}
	return nil
}

// ClearAll deletes every stored entity and starts over from the seed
// floors.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range Entities {
		if err := s.kv.Delete(string(e)); err != nil {
			return fmt.Errorf("clear %s: %w", e, err)
		}
	}
	s.floors = cloneFloors(SeedFloors)
	s.devices, s.rooms = nil, nil
	s.log.Info("store cleared")
	return s.save(EntityFloors)
}
