package store

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

func TestBackup_roundTrip(t *testing.T) {
	src := openStore(t, newMemKV())
	_, err := src.AddFloor("Planta 2", nil)
	require.NoError(t, err)
	dev, err := src.AddDevice(plan.DevicePrinter, "HP", office, geom.Pt(32, 64))
	require.NoError(t, err)
	wall, err := src.AddRoomObject(plan.RoomWallDiagonal, office, geom.Pt(100, 100))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.ExportAll(&buf))

	var doc Backup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, Version, doc.Version)
	assert.True(t, doc.ExportDate.Equal(time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)))

	dst := openStore(t, newMemKV())
	require.NoError(t, dst.ImportAll(&buf))
	assert.Equal(t, src.Floors(), dst.Floors())
	got, err := dst.Object(dev.ID)
	require.NoError(t, err)
	assert.Equal(t, dev.Position, got.Position)
	assert.Equal(t, plan.DevicePrinter, got.Device.Type)
	assert.Equal(t, plan.StatusActive, got.Device.Status)
	got, err = dst.Object(wall.ID)
	require.NoError(t, err)
	assert.Equal(t, wall.Room.Type, got.Room.Type)
	assert.Equal(t, wall.Size, got.Size)
	assert.Equal(t, wall.Room.Properties, got.Room.Properties)
}

func TestBackup_missingEntitiesBecomeEmpty(t *testing.T) {
	s := openStore(t, newMemKV())
	_, err := s.AddDevice(plan.DeviceDesktop, "PC", office, geom.Pt(0, 0))
	require.NoError(t, err)

	require.NoError(t, s.ImportAll(strings.NewReader(`{"roomObjects":[]}`)))
	assert.Empty(t, s.Devices())
	assert.Equal(t, SeedFloors, s.Floors())
}

func TestBackup_rejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"not json":          `{{`,
		"array":             `[]`,
		"floors not array":  `{"floors":{"id":"x"}}`,
		"devices null":      `{"devices":null}`,
		"bad device entry":  `{"devices":[42]}`,
		"wrong kind inside": `{"devices":[{"id":"d","kind":"roomObject","type":"door"}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			s := openStore(t, newMemKV())
			dev, err := s.AddDevice(plan.DeviceDesktop, "PC", office, geom.Pt(0, 0))
			require.NoError(t, err)

			err = s.ImportAll(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidBackup)
			_, err = s.Object(dev.ID)
			assert.NoError(t, err, "store unchanged")
		})
	}
}

func TestBackup_entity(t *testing.T) {
	s := openStore(t, newMemKV())
	_, err := s.AddDevice(plan.DeviceLaptop, "L", office, geom.Pt(0, 0))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportEntity(EntityDevices, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "["))

	other := openStore(t, newMemKV())
	require.NoError(t, other.ImportEntity(EntityDevices, &buf))
	assert.Len(t, other.Devices(), 1)

	err = other.ImportEntity(EntityDevices, strings.NewReader(`{"data":[]}`))
	assert.ErrorIs(t, err, ErrInvalidBackup)
	assert.Error(t, other.ExportEntity("users", &buf))
}

func TestBackup_clearAll(t *testing.T) {
	kv := newMemKV()
	s := openStore(t, kv)
	_, err := s.AddDevice(plan.DeviceDesktop, "PC", office, geom.Pt(0, 0))
	require.NoError(t, err)
	_, err = s.AddFloor("Planta 2", nil)
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())
	assert.Empty(t, s.Devices())
	assert.Equal(t, SeedFloors, s.Floors())
	assert.NotContains(t, kv.data, "devices")
}

func TestBackup_fileNames(t *testing.T) {
	day := time.Date(2024, 5, 17, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "floorplan-backup-2024-05-17.json", BackupFileName(day))
	assert.Equal(t, "roomObjects-2024-05-17.json", EntityFileName(EntityRoomObjects, day))
}

func TestParseEntity(t *testing.T) {
	e, err := ParseEntity("roomobjects")
	require.NoError(t, err)
	assert.Equal(t, EntityRoomObjects, e)

	_, err = ParseEntity("zones")
	assert.Error(t, err)
}
