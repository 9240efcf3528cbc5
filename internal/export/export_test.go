package export

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

func zone() []plan.Object {
	dev := plan.NewDevice(plan.DeviceDesktop, "PC Ana", geom.Pt(100, 100))
	dev.ID, dev.Floor, dev.Zone = "desktop-1", "planta-1", "contabilidad"
	dev.Device.Specs["ram"] = "16GB"
	dev.Device.Specs["cpu"] = "i5"

	wall := plan.NewRoomObject(plan.RoomWallHorizontal, geom.Pt(0, 0))
	wall.ID = "wall-1"
	label := plan.NewRoomObject(plan.RoomText, geom.Pt(200, 20))
	label.ID, label.Name = "text-1", "Contabilidad"
	line := plan.Object{
		ID: "line-1", Kind: plan.KindRoomObject,
		Position: geom.Pt(0, 300), Size: geom.Sz(300, 4),
		Room: &plan.Room{
			Type:       plan.RoomLine,
			Properties: plan.RoomLine.DefaultProperties(),
			Points:     []geom.Point{geom.Pt(0, 300), geom.Pt(300, 300)},
		},
	}
	return []plan.Object{dev, wall, label, line}
}

func TestRender_emptyZone(t *testing.T) {
	_, err := Render(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmpty)
	assert.ErrorIs(t, PNG(filepath.Join(t.TempDir(), "x.png"), nil, DefaultOptions()), ErrEmpty)
}

func TestRender_sizedToContent(t *testing.T) {
	opts := Options{Padding: 10, Scale: 2, FontSize: 12}
	img, err := Render(zone(), opts)
	require.NoError(t, err)

	// content spans (0,0)..(320,304) plus padding on both sides
	b := img.Bounds()
	assert.Equal(t, 2*(320+20), b.Dx())
	assert.Equal(t, 2*(304+20), b.Dy())

	// device body is painted in its status colour, the margin stays white
	r, g, bl, _ := img.At(2*(10+102), 2*(10+102)).RGBA()
	assert.NotEqual(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, bl})
	assert.Equal(t, color.RGBAModel.Convert(color.White), color.RGBAModel.Convert(img.At(1, 1)))
}

func TestPNG_writesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone.png")
	require.NoError(t, PNG(path, zone(), DefaultOptions()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(b[:4]))
}

func TestInventory_rows(t *testing.T) {
	floors := []plan.Floor{{
		ID: "planta-1", Name: "Planta 1",
		Zones: []plan.Zone{{ID: "contabilidad", Name: "Contabilidad"}},
	}}
	orphan := plan.NewDevice(plan.DevicePrinter, "HP", geom.Pt(5, 6))
	orphan.ID, orphan.Floor, orphan.Zone = "printer-1", "planta-9", "x"

	var buf bytes.Buffer
	objs := append(zone(), orphan)
	require.NoError(t, WriteInventory(&buf, objs, floors))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(inventorySheet)
	require.NoError(t, err)

	require.Len(t, rows, 3, "header plus two devices")
	assert.Equal(t, inventoryHeader, rows[0])
	assert.Equal(t, []string{
		"desktop-1", "PC Ana", "PC Escritorio", "Activo", "Planta 1", "Contabilidad", "100", "100", "cpu: i5; ram: 16GB",
	}, rows[1])
	assert.Equal(t, "planta-9", rows[2][4])
}

func TestInventory_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventario.xlsx")
	require.NoError(t, Inventory(path, zone(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{inventorySheet}, f.GetSheetList())
}
