// Package store persists floors, devices and room objects in a KV backend,
// one JSON document per entity.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

// Version is written into every stored document and backup.
const Version = "1.0.0"

type Entity string

const (
	EntityFloors      Entity = "floors"
	EntityDevices     Entity = "devices"
	EntityRoomObjects Entity = "roomObjects"
)

var Entities = []Entity{EntityFloors, EntityDevices, EntityRoomObjects}

func (e Entity) valid() bool {
	switch e {
	case EntityFloors, EntityDevices, EntityRoomObjects:
		return true
	}
	return false
}

// ParseEntity matches s against the entity names, ignoring case.
func ParseEntity(s string) (Entity, error) {
	for _, e := range Entities {
		if strings.EqualFold(string(e), s) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown entity %q, want floors, devices or roomObjects", s)
}

// SeedFloors is stored on first run when no floors exist yet.
var SeedFloors = []plan.Floor{{
	ID:    "planta-1",
	Name:  "Planta 1",
	Zones: []plan.Zone{{ID: "contabilidad", Name: "Contabilidad"}},
}}

var ErrUnknownLocation = errors.New("unknown floor or zone")

type envelope struct {
	Data         json.RawMessage `json:"data"`
	LastModified time.Time       `json:"lastModified"`
	Version      string          `json:"version"`
}

// unwrap returns the data array of a stored document, which is either an
// envelope or a bare array.
func unwrap(b []byte) ([]byte, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var env envelope
		if err := json.Unmarshal(b, &env); err != nil {
			return nil, err
		}
		b = env.Data
	}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return []byte("[]"), nil
	}
	if b[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array")
	}
	return b, nil
}

// Store is the in-memory view of all entities, written through to the KV
// on every change. Safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	kv  KV
	log *zap.Logger
	now func() time.Time

	floors  []plan.Floor
	devices []plan.Object
	rooms   []plan.Object
}

// Open loads every entity from kv, seeding the floors on first run.
func Open(kv KV, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{kv: kv, log: log, now: time.Now}
	if err := s.load(); err != nil {
		return nil, err
	}
	if len(s.floors) == 0 {
		s.floors = cloneFloors(SeedFloors)
		if err := s.save(EntityFloors); err != nil {
			return nil, err
		}
		log.Info("seeded floors", zap.Int("floors", len(s.floors)))
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) load() error {
	for _, e := range Entities {
		b, err := s.kv.Get(string(e))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", e, err)
		}
		if err := s.decode(e, b); err != nil {
			return fmt.Errorf("load %s: %w", e, err)
		}
	}
	s.log.Debug("store loaded",
		zap.Int("floors", len(s.floors)),
		zap.Int("devices", len(s.devices)),
		zap.Int("roomObjects", len(s.rooms)),
	)
	return nil
}

// decode replaces entity e with the document b.
func (s *Store) decode(e Entity, b []byte) error {
	data, err := unwrap(b)
	if err != nil {
		return err
	}
	switch e {
	case EntityFloors:
		var floors []plan.Floor
		if err := json.Unmarshal(data, &floors); err != nil {
			return err
		}
		s.floors = floors
	case EntityDevices:
		objs, err := decodeKind(data, plan.KindDevice)
		if err != nil {
			return err
		}
		s.devices = objs
	case EntityRoomObjects:
		objs, err := decodeKind(data, plan.KindRoomObject)
		if err != nil {
			return err
		}
		s.rooms = objs
	default:
		return fmt.Errorf("unknown entity %q", e)
	}
	return nil
}

func decodeKind(data []byte, kind plan.Kind) ([]plan.Object, error) {
	objs, err := plan.DecodeObjects(data, kind)
	if err != nil {
		return nil, err
	}
	for _, o := range objs {
		if o.Kind != kind {
			return nil, fmt.Errorf("object %s: kind %s in %s list", o.ID, o.Kind, kind)
		}
	}
	return objs, nil
}

func (s *Store) data(e Entity) any {
	switch e {
	case EntityFloors:
		return nonNil(s.floors)
	case EntityDevices:
		return nonNil(s.devices)
	case EntityRoomObjects:
		return nonNil(s.rooms)
	}
	return nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func (s *Store) save(e Entity) error {
	data, err := json.Marshal(s.data(e))
	if err != nil {
		return fmt.Errorf("encode %s: %w", e, err)
	}
	b, err := json.Marshal(envelope{Data: data, LastModified: s.now().UTC(), Version: Version})
	if err != nil {
		return fmt.Errorf("encode %s: %w", e, err)
	}
	if err := s.kv.Set(string(e), b); err != nil {
		return fmt.Errorf("save %s: %w", e, err)
	}
	return nil
}

func entityOf(k plan.Kind) Entity {
	if k == plan.KindDevice {
		return EntityDevices
	}
	return EntityRoomObjects
}

func (s *Store) list(k plan.Kind) *[]plan.Object {
	if k == plan.KindDevice {
		return &s.devices
	}
	return &s.rooms
}

// find returns the list holding id and its index there.
func (s *Store) find(id string) (*[]plan.Object, int) {
	for _, l := range []*[]plan.Object{&s.devices, &s.rooms} {
		for i, o := range *l {
			if o.ID == id {
				return l, i
			}
		}
	}
	return nil, -1
}

func (s *Store) hasLocation(floor, zone string) bool {
	for _, f := range s.floors {
		if f.ID == floor {
			_, ok := f.Zone(zone)
			return ok
		}
	}
	return false
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func cloneObjects(objs []plan.Object) []plan.Object {
	out := make([]plan.Object, len(objs))
	for i, o := range objs {
		out[i] = o.Clone()
	}
	return out
}

// Objects returns copies of every object placed in floor/zone, devices
// first.
func (s *Store) Objects(floor, zone string) []plan.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []plan.Object
	for _, l := range [][]plan.Object{s.devices, s.rooms} {
		for _, o := range l {
			if o.Floor == floor && o.Zone == zone {
				out = append(out, o.Clone())
			}
		}
	}
	return out
}

// Devices returns copies of every device on every floor.
func (s *Store) Devices() []plan.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneObjects(s.devices)
}

func (s *Store) RoomObjects() []plan.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneObjects(s.rooms)
}

func (s *Store) Object(id string) (plan.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, i := s.find(id)
	if l == nil {
		return plan.Object{}, fmt.Errorf("object %s: %w", id, ErrNotFound)
	}
	return (*l)[i].Clone(), nil
}

// CommitPosition moves object id to p. Freehand points move with it.
func (s *Store) CommitPosition(id string, p geom.Point) error {
	_, err := s.UpdateObject(id, func(o *plan.Object) {
		*o = o.Moved(p)
	})
	return err
}

// CreateObject stores a new object, assigning a "<type>-<uuid>" id when it
// has none.
func (s *Store) CreateObject(o plan.Object) (plan.Object, error) {
	if err := o.Validate(); err != nil {
		return plan.Object{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasLocation(o.Floor, o.Zone) {
		return plan.Object{}, fmt.Errorf("object at %s/%s: %w", o.Floor, o.Zone, ErrUnknownLocation)
	}
	o = o.Clone()
	if o.ID == "" {
		o.ID = newID(o.TypeName())
	}
	if l, _ := s.find(o.ID); l != nil {
		return plan.Object{}, fmt.Errorf("object %s already exists", o.ID)
	}
	l := s.list(o.Kind)
	*l = append(*l, o)
	if err := s.save(entityOf(o.Kind)); err != nil {
		*l = (*l)[:len(*l)-1]
		return plan.Object{}, err
	}
	s.log.Debug("object created", zap.String("id", o.ID), zap.String("floor", o.Floor), zap.String("zone", o.Zone))
	return o.Clone(), nil
}

// UpdateObject applies fn to a copy of object id and stores the result.
// The id and kind cannot be changed.
func (s *Store) UpdateObject(id string, fn func(*plan.Object)) (plan.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, i := s.find(id)
	if l == nil {
		return plan.Object{}, fmt.Errorf("object %s: %w", id, ErrNotFound)
	}
	old := (*l)[i]
	o := old.Clone()
	fn(&o)
	o.ID, o.Kind = old.ID, old.Kind
	if err := o.Validate(); err != nil {
		return plan.Object{}, err
	}
	(*l)[i] = o
	if err := s.save(entityOf(o.Kind)); err != nil {
		(*l)[i] = old
		return plan.Object{}, err
	}
	return o.Clone(), nil
}

func (s *Store) DeleteObject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, i := s.find(id)
	if l == nil {
		return fmt.Errorf("object %s: %w", id, ErrNotFound)
	}
	old := *l
	kind := old[i].Kind
	*l = append(append([]plan.Object(nil), old[:i]...), old[i+1:]...)
	if err := s.save(entityOf(kind)); err != nil {
		*l = old
		return err
	}
	s.log.Debug("object deleted", zap.String("id", id))
	return nil
}

// AddDevice places a catalog device at position.
func (s *Store) AddDevice(t plan.DeviceType, name string, loc plan.Location, position geom.Point) (plan.Object, error) {
	if name == "" {
		name = t.Info().Name
	}
	o := plan.NewDevice(t, name, position)
	o.Floor, o.Zone = loc.Floor, loc.Zone
	return s.CreateObject(o)
}

// AddRoomObject places a catalog room object at position.
func (s *Store) AddRoomObject(t plan.RoomType, loc plan.Location, position geom.Point) (plan.Object, error) {
	o := plan.NewRoomObject(t, position)
	o.Floor, o.Zone = loc.Floor, loc.Zone
	return s.CreateObject(o)
}
