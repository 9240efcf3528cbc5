package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

func TestFloors_addWithDefaultZone(t *testing.T) {
	s := openStore(t, newMemKV())

	f, err := s.AddFloor("Planta 2", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.ID, "planta-"), f.ID)
	assert.Equal(t, []plan.Zone{plan.DefaultZone}, f.Zones)

	g, err := s.AddFloor("Sótano", []plan.Zone{{Name: "Archivo"}, {ID: "rack", Name: "Rack"}})
	require.NoError(t, err)
	require.Len(t, g.Zones, 2)
	assert.True(t, strings.HasPrefix(g.Zones[0].ID, "zona-"))
	assert.Equal(t, "rack", g.Zones[1].ID)

	assert.Len(t, s.Floors(), 3)
	_, err = s.AddFloor("", nil)
	assert.Error(t, err)
}

func TestFloors_renameFloorAndZone(t *testing.T) {
	s := openStore(t, newMemKV())

	require.NoError(t, s.UpdateFloor("planta-1", "Planta Baja"))
	require.NoError(t, s.RenameZone("planta-1", "contabilidad", "Finanzas"))

	f, err := s.Floor("planta-1")
	require.NoError(t, err)
	assert.Equal(t, "Planta Baja", f.Name)
	assert.Equal(t, "Finanzas", f.Zones[0].Name)

	assert.ErrorIs(t, s.UpdateFloor("planta-9", "x"), ErrNotFound)
	assert.ErrorIs(t, s.RenameZone("planta-1", "nope", "x"), ErrNotFound)
}

func TestFloors_deleteZoneDropsItsObjects(t *testing.T) {
	s := openStore(t, newMemKV())
	z, err := s.AddZone("planta-1", "Ventas")
	require.NoError(t, err)
	ventas := plan.Location{Floor: "planta-1", Zone: z.ID}

	_, err = s.AddDevice(plan.DeviceDesktop, "PC", office, geom.Pt(0, 0))
	require.NoError(t, err)
	_, err = s.AddDevice(plan.DeviceLaptop, "L", ventas, geom.Pt(0, 0))
	require.NoError(t, err)
	_, err = s.AddRoomObject(plan.RoomDoor, ventas, geom.Pt(0, 0))
	require.NoError(t, err)

	require.NoError(t, s.DeleteZone("planta-1", z.ID))
	assert.Empty(t, s.Objects(ventas.Floor, ventas.Zone))
	assert.Len(t, s.Objects(office.Floor, office.Zone), 1)
	f, _ := s.Floor("planta-1")
	assert.Len(t, f.Zones, 1)

	assert.ErrorIs(t, s.DeleteZone("planta-1", z.ID), ErrNotFound)
}

func TestFloors_deleteFloorDropsItsObjects(t *testing.T) {
	s := openStore(t, newMemKV())
	f, err := s.AddFloor("Planta 2", nil)
	require.NoError(t, err)
	loc := plan.Location{Floor: f.ID, Zone: plan.DefaultZone.ID}

	_, err = s.AddRoomObject(plan.RoomWallVertical, loc, geom.Pt(0, 0))
	require.NoError(t, err)
	_, err = s.AddDevice(plan.DeviceDesktop, "PC", office, geom.Pt(0, 0))
	require.NoError(t, err)

	require.NoError(t, s.DeleteFloor(f.ID))
	_, err = s.Floor(f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.RoomObjects())
	assert.Len(t, s.Devices(), 1)
}

func TestFloors_returnsCopies(t *testing.T) {
	s := openStore(t, newMemKV())
	floors := s.Floors()
	floors[0].Zones[0].Name = "mutated"

	f, err := s.Floor("planta-1")
	require.NoError(t, err)
	assert.Equal(t, "Contabilidad", f.Zones[0].Name)
}
