// Package plan describes what is placed on a floor plan: devices and room
// objects, the floors and zones they belong to, and the static catalogs
// behind their types.
package plan

import (
	"encoding/json"
	"fmt"

	"floorplan/internal/geom"
)

// Kind is the discriminant of a placed object.
type Kind int

const (
	KindDevice Kind = iota
	KindRoomObject
)

func (k Kind) String() string {
	switch k {
	case KindDevice:
		return "device"
	case KindRoomObject:
		return "roomObject"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindDevice, KindRoomObject:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown kind %d", int(k))
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "device":
		*k = KindDevice
	case "roomObject":
		*k = KindRoomObject
	default:
		return fmt.Errorf("unknown kind %q", b)
	}
	return nil
}

// DefaultObjectSize is used for hit testing and clamping when an object
// carries no size of its own.
var DefaultObjectSize = geom.Sz(32, 32)

// Object is something placed on the canvas. Exactly one of Device and Room
// is set, matching Kind.
type Object struct {
	ID       string     `json:"id"`
	Kind     Kind       `json:"kind"`
	Name     string     `json:"name,omitempty"`
	Position geom.Point `json:"position"`
	Size     geom.Size  `json:"size"`
	Floor    string     `json:"floor"`
	Zone     string     `json:"zone"`

	Device *Device `json:"-"`
	Room   *Room   `json:"-"`
}

type Device struct {
	Type   DeviceType        `json:"type"`
	Status Status            `json:"status"`
	Specs  map[string]string `json:"specs,omitempty"`
}

type Room struct {
	Type       RoomType     `json:"type"`
	Properties Properties   `json:"properties,omitempty"`
	Points     []geom.Point `json:"points,omitempty"`
}

// Properties are the visual attributes of a room object. Only the ones
// relevant for the room type are set.
type Properties struct {
	Color           string  `json:"color,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
	BorderStyle     string  `json:"borderStyle,omitempty"`
	BorderRadius    float64 `json:"borderRadius,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty"`
	FontWeight      string  `json:"fontWeight,omitempty"`
	TextAlign       string  `json:"textAlign,omitempty"`
	Padding         float64 `json:"padding,omitempty"`
}

// BoxSize returns the object size. Each axis without a positive extent
// falls back to DefaultObjectSize on its own.
func (o Object) BoxSize() geom.Size {
	s := o.Size
	if s.Width <= 0 {
		s.Width = DefaultObjectSize.Width
	}
	if s.Height <= 0 {
		s.Height = DefaultObjectSize.Height
	}
	return s
}

// Bounds returns the canvas-local bounding box of the object.
func (o Object) Bounds() geom.Rect {
	return geom.Rect{Origin: o.Position, Size: o.BoxSize()}
}

// Layer orders objects for painting and hit testing; higher is on top.
func (o Object) Layer() int {
	switch o.Kind {
	case KindDevice:
		return deviceLayer
	case KindRoomObject:
		if o.Room != nil {
			return o.Room.Type.Info().Layer
		}
	}
	return defaultLayer
}

// TypeName returns the catalog type tag, used as id prefix.
func (o Object) TypeName() string {
	switch o.Kind {
	case KindDevice:
		if o.Device != nil {
			return string(o.Device.Type)
		}
		return "device"
	case KindRoomObject:
		if o.Room != nil {
			return string(o.Room.Type)
		}
	}
	return "object"
}

// Moved returns a copy of o placed at p. Freehand points travel with the
// bounding box.
func (o Object) Moved(p geom.Point) Object {
	delta := p.Sub(o.Position)
	o.Position = p
	if o.Room != nil && len(o.Room.Points) > 0 {
		room := *o.Room
		room.Points = make([]geom.Point, len(o.Room.Points))
		for i, pt := range o.Room.Points {
			room.Points[i] = pt.Add(delta)
		}
		o.Room = &room
	}
	return o
}

// Clone returns a deep copy.
func (o Object) Clone() Object {
	if o.Device != nil {
		d := *o.Device
		if o.Device.Specs != nil {
			d.Specs = make(map[string]string, len(o.Device.Specs))
			for k, v := range o.Device.Specs {
				d.Specs[k] = v
			}
		}
		o.Device = &d
	}
	if o.Room != nil {
		r := *o.Room
		r.Points = append([]geom.Point(nil), o.Room.Points...)
		o.Room = &r
	}
	return o
}

// Validate checks that the variant payload matches Kind.
func (o Object) Validate() error {
	switch o.Kind {
	case KindDevice:
		if o.Device == nil || o.Room != nil {
			return fmt.Errorf("object %s: device kind needs device attributes only", o.ID)
		}
		if _, ok := deviceCatalog[o.Device.Type]; !ok {
			return fmt.Errorf("object %s: unknown device type %q", o.ID, o.Device.Type)
		}
	case KindRoomObject:
		if o.Room == nil || o.Device != nil {
			return fmt.Errorf("object %s: room object kind needs room attributes only", o.ID)
		}
		if _, ok := roomCatalog[o.Room.Type]; !ok {
			return fmt.Errorf("object %s: unknown room type %q", o.ID, o.Room.Type)
		}
	default:
		return fmt.Errorf("object %s: unknown kind %d", o.ID, int(o.Kind))
	}
	return nil
}

// wire is the flat JSON shape, variant fields inlined next to the common
// ones.
type wire struct {
	ID       string     `json:"id"`
	Kind     *Kind      `json:"kind,omitempty"`
	Name     string     `json:"name,omitempty"`
	Position geom.Point `json:"position"`
	Size     geom.Size  `json:"size"`
	Floor    string     `json:"floor"`
	Zone     string     `json:"zone"`

	Type       string            `json:"type"`
	Status     Status            `json:"status,omitempty"`
	Specs      map[string]string `json:"specs,omitempty"`
	Properties *Properties       `json:"properties,omitempty"`
	Points     []geom.Point      `json:"points,omitempty"`
}

func (o Object) MarshalJSON() ([]byte, error) {
	kind := o.Kind
	w := wire{
		ID: o.ID, Kind: &kind, Name: o.Name, Position: o.Position,
		Size: o.Size, Floor: o.Floor, Zone: o.Zone,
	}
	switch o.Kind {
	case KindDevice:
		if o.Device != nil {
			w.Type = string(o.Device.Type)
			w.Status = o.Device.Status
			w.Specs = o.Device.Specs
		}
	case KindRoomObject:
		if o.Room != nil {
			w.Type = string(o.Room.Type)
			props := o.Room.Properties
			w.Properties = &props
			w.Points = o.Room.Points
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat shape. Documents without a "kind" field
// keep the Kind o already holds, see DecodeObjects.
func (o *Object) UnmarshalJSON(b []byte) error {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	kind := o.Kind
	if w.Kind != nil {
		kind = *w.Kind
	}
	*o = Object{
		ID: w.ID, Kind: kind, Name: w.Name, Position: w.Position,
		Size: w.Size, Floor: w.Floor, Zone: w.Zone,
	}
	switch kind {
	case KindDevice:
		o.Device = &Device{Type: DeviceType(w.Type), Status: w.Status, Specs: w.Specs}
	case KindRoomObject:
		o.Room = &Room{Type: RoomType(w.Type), Points: w.Points}
		if w.Properties != nil {
			o.Room.Properties = *w.Properties
		}
	}
	return nil
}

// DecodeObjects decodes a JSON array of objects. Entries without an explicit
// kind get fallback, which is how the per-entity lists written by older
// versions are read.
func DecodeObjects(b []byte, fallback Kind) ([]Object, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	objs := make([]Object, len(raw))
	for i, r := range raw {
		objs[i].Kind = fallback
		if err := json.Unmarshal(r, &objs[i]); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}
	return objs, nil
}
