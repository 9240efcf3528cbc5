package plan

import (
	"sort"

	"floorplan/internal/geom"
)

type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceLaptop  DeviceType = "laptop"
	DeviceNetwork DeviceType = "network"
	DevicePrinter DeviceType = "printer"
	DeviceOthers  DeviceType = "others"
)

// DeviceTypes lists the device catalog in menu order.
var DeviceTypes = []DeviceType{DeviceDesktop, DeviceLaptop, DeviceNetwork, DevicePrinter, DeviceOthers}

type DeviceInfo struct {
	Name   string
	Symbol rune
}

var deviceCatalog = map[DeviceType]DeviceInfo{
	DeviceDesktop: {Name: "PC Escritorio", Symbol: 'D'},
	DeviceLaptop:  {Name: "Laptop", Symbol: 'L'},
	DeviceNetwork: {Name: "Red", Symbol: 'N'},
	DevicePrinter: {Name: "Impresora", Symbol: 'P'},
	DeviceOthers:  {Name: "Otros Dispositivos", Symbol: 'O'},
}

func (t DeviceType) Info() DeviceInfo {
	if info, ok := deviceCatalog[t]; ok {
		return info
	}
	return DeviceInfo{Name: string(t), Symbol: '?'}
}

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
	StatusError       Status = "error"
)

type StatusInfo struct {
	Name  string
	Color string
}

var statusCatalog = map[Status]StatusInfo{
	StatusActive:      {Name: "Activo", Color: "#22c55e"},
	StatusInactive:    {Name: "Inactivo", Color: "#000000"},
	StatusMaintenance: {Name: "Mantenimiento", Color: "#fbbf24"},
	StatusError:       {Name: "Error", Color: "#ef4444"},
}

func (s Status) Info() StatusInfo {
	if info, ok := statusCatalog[s]; ok {
		return info
	}
	return StatusInfo{Name: string(s), Color: "#6b7280"}
}

type RoomType string

const (
	RoomWallHorizontal      RoomType = "wall-horizontal"
	RoomWallVertical        RoomType = "wall-vertical"
	RoomWallDiagonal        RoomType = "wall-diagonal"
	RoomWallDiagonalReverse RoomType = "wall-diagonal-reverse"
	RoomRectangle           RoomType = "rectangle"
	RoomDoor                RoomType = "door"
	RoomText                RoomType = "text"

	// drawn with the line and rect tools
	RoomLine RoomType = "line"
	RoomRect RoomType = "rect"
)

const (
	rectLayer    = 0
	lineLayer    = 5
	wallLayer    = 10
	defaultLayer = 25
	deviceLayer  = 50
	doorLayer    = 50
	textLayer    = 100
)

type RoomInfo struct {
	Name        string
	DefaultSize geom.Size
	Editable    bool
	Layer       int
}

var roomCatalog = map[RoomType]RoomInfo{
	RoomWallHorizontal:      {Name: "Pared Horizontal", DefaultSize: geom.Sz(200, 8), Layer: wallLayer},
	RoomWallVertical:        {Name: "Pared Vertical", DefaultSize: geom.Sz(8, 200), Layer: wallLayer},
	RoomWallDiagonal:        {Name: "Pared Diagonal", DefaultSize: geom.Sz(150, 150), Layer: wallLayer},
	RoomWallDiagonalReverse: {Name: "Pared Diagonal Inversa", DefaultSize: geom.Sz(150, 150), Layer: wallLayer},
	RoomRectangle:           {Name: "Cuadrado/Rectángulo", DefaultSize: geom.Sz(200, 150), Layer: rectLayer},
	RoomDoor:                {Name: "Puerta", DefaultSize: geom.Sz(40, 40), Layer: doorLayer},
	RoomText:                {Name: "Etiqueta de Texto", DefaultSize: geom.Sz(120, 40), Editable: true, Layer: textLayer},
	RoomLine:                {Name: "Línea", Layer: lineLayer},
	RoomRect:                {Name: "Rectángulo", Layer: rectLayer},
}

func (t RoomType) Info() RoomInfo {
	if info, ok := roomCatalog[t]; ok {
		return info
	}
	return RoomInfo{Name: string(t), DefaultSize: DefaultObjectSize, Layer: defaultLayer}
}

// DefaultProperties returns the visual attributes a freshly created room
// object of type t starts with.
func (t RoomType) DefaultProperties() Properties {
	switch t {
	case RoomRectangle:
		return Properties{BorderWidth: 8, BorderStyle: "solid", BackgroundColor: "transparent"}
	case RoomRect:
		return Properties{Color: "#374151", BorderWidth: 2, BackgroundColor: "transparent"}
	case RoomText:
		return Properties{
			FontSize: 16, FontWeight: "normal", TextAlign: "center",
			Color: "#000000", BackgroundColor: "transparent", Padding: 4,
		}
	case RoomLine:
		return Properties{Color: "#374151", BorderWidth: 4}
	}
	return Properties{Color: "#374151"}
}

// RoomTypes returns every catalogued room type, sorted.
func RoomTypes() []RoomType {
	types := make([]RoomType, 0, len(roomCatalog))
	for t := range roomCatalog {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// NewRoomObject builds a catalog room object at position. The id is left
// for the store to assign.
func NewRoomObject(t RoomType, position geom.Point) Object {
	info := t.Info()
	return Object{
		Kind:     KindRoomObject,
		Name:     info.Name,
		Position: position,
		Size:     info.DefaultSize,
		Room:     &Room{Type: t, Properties: t.DefaultProperties()},
	}
}

// NewDevice builds an active device of type t at position.
func NewDevice(t DeviceType, name string, position geom.Point) Object {
	return Object{
		Kind:     KindDevice,
		Name:     name,
		Position: position,
		Size:     DefaultObjectSize,
		Device:   &Device{Type: t, Status: StatusActive, Specs: map[string]string{}},
	}
}
