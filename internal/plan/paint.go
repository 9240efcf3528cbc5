package plan

import (
	"fmt"
	"sort"

	"floorplan/internal/geom"
)

// WallAxis tells which way a catalog wall runs inside its bounding box.
type WallAxis int

const (
	WallHorizontal WallAxis = iota
	WallVertical
	// bottom-left to top-right
	WallDiagonal
	// top-left to bottom-right
	WallDiagonalReverse
)

// Painter is a rendering strategy with one method per object variant.
// Renderers implement it and hand objects to Paint.
type Painter interface {
	Device(o Object, d Device)
	Wall(o Object, axis WallAxis)
	Door(o Object)
	Label(o Object, props Properties)
	Box(o Object, props Properties)
	Segment(o Object, a, b geom.Point, props Properties)
}

// Paint dispatches o to the matching Painter method.
func Paint(p Painter, o Object) error {
	switch o.Kind {
	case KindDevice:
		if o.Device == nil {
			return fmt.Errorf("paint %s: missing device attributes", o.ID)
		}
		p.Device(o, *o.Device)
		return nil
	case KindRoomObject:
		if o.Room == nil {
			return fmt.Errorf("paint %s: missing room attributes", o.ID)
		}
		return paintRoom(p, o, o.Room)
	}
	return fmt.Errorf("paint %s: unknown kind %d", o.ID, int(o.Kind))
}

func paintRoom(p Painter, o Object, r *Room) error {
	switch r.Type {
	case RoomWallHorizontal:
		p.Wall(o, WallHorizontal)
	case RoomWallVertical:
		p.Wall(o, WallVertical)
	case RoomWallDiagonal:
		p.Wall(o, WallDiagonal)
	case RoomWallDiagonalReverse:
		p.Wall(o, WallDiagonalReverse)
	case RoomDoor:
		p.Door(o)
	case RoomText:
		p.Label(o, r.Properties)
	case RoomRectangle, RoomRect:
		p.Box(o, r.Properties)
	case RoomLine:
		a, b := lineEnds(o)
		p.Segment(o, a, b, r.Properties)
	default:
		return fmt.Errorf("paint %s: unknown room type %q", o.ID, r.Type)
	}
	return nil
}

// lineEnds falls back to the bounding box diagonal for lines stored
// without points.
func lineEnds(o Object) (geom.Point, geom.Point) {
	if len(o.Room.Points) >= 2 {
		return o.Room.Points[0], o.Room.Points[len(o.Room.Points)-1]
	}
	return o.Position, o.Bounds().Max()
}

// SortByLayer orders objects bottom to top, keeping insertion order within
// a layer.
func SortByLayer(objs []Object) {
	sort.SliceStable(objs, func(i, j int) bool {
		return objs[i].Layer() < objs[j].Layer()
	})
}
