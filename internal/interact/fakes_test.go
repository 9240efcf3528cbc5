package interact

import (
	"errors"
	"fmt"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

type fakeGeometry struct {
	bounds geom.Rect
	err    error
}

func (g *fakeGeometry) Bounds() (geom.Rect, error) {
	if g.err != nil {
		return geom.Rect{}, g.err
	}
	return g.bounds, nil
}

func newGeometry(x, y, w, h float64) *fakeGeometry {
	return &fakeGeometry{bounds: geom.Rect{Origin: geom.Pt(x, y), Size: geom.Sz(w, h)}}
}

type fixedTransform geom.Transform

func (f fixedTransform) Transform() geom.Transform { return geom.Transform(f) }

var errStoreDown = errors.New("store down")

// fakeStore keeps objects in insertion order and records writes.
type fakeStore struct {
	objects []plan.Object
	commits []commit
	created []plan.Object
	nextID  int
	failing bool
}

type commit struct {
	id string
	p  geom.Point
}

func (s *fakeStore) add(o plan.Object) plan.Object {
	if o.ID == "" {
		s.nextID++
		o.ID = fmt.Sprintf("%s-%d", o.TypeName(), s.nextID)
	}
	s.objects = append(s.objects, o)
	return o
}

func (s *fakeStore) get(id string) (plan.Object, bool) {
	for _, o := range s.objects {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return plan.Object{}, false
}

func (s *fakeStore) Objects(floor, zone string) []plan.Object {
	var out []plan.Object
	for _, o := range s.objects {
		if o.Floor == floor && o.Zone == zone {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (s *fakeStore) CommitPosition(id string, p geom.Point) error {
	if s.failing {
		return errStoreDown
	}
	for i, o := range s.objects {
		if o.ID == id {
			s.objects[i] = o.Moved(p)
			s.commits = append(s.commits, commit{id: id, p: p})
			return nil
		}
	}
	return fmt.Errorf("object %s: not found", id)
}

func (s *fakeStore) CreateObject(o plan.Object) (plan.Object, error) {
	if s.failing {
		return plan.Object{}, errStoreDown
	}
	o = s.add(o)
	s.created = append(s.created, o)
	return o, nil
}

func (s *fakeStore) DeleteObject(id string) error {
	for i, o := range s.objects {
		if o.ID == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("object %s: not found", id)
}

func down(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerDown, Pos: geom.Pt(x, y), Button: ButtonPrimary}
}

func move(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMove, Pos: geom.Pt(x, y), Button: ButtonPrimary}
}

func up(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerUp, Pos: geom.Pt(x, y), Button: ButtonPrimary}
}
