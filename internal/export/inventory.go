package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"floorplan/internal/plan"
)

const inventorySheet = "Inventario"

var inventoryHeader = []string{"ID", "Name", "Type", "Status", "Floor", "Zone", "X", "Y", "Specs"}

var inventoryWidths = []float64{44, 24, 20, 16, 18, 18, 8, 8, 40}

// Inventory writes the device list as an XLSX workbook to path.
func Inventory(path string, devices []plan.Object, floors []plan.Floor) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteInventory(f, devices, floors); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteInventory writes the device list as an XLSX workbook to w, one row
// per device with floor and zone names resolved.
func WriteInventory(w io.Writer, devices []plan.Object, floors []plan.Floor) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), inventorySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	for col, header := range inventoryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(inventorySheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(inventorySheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(inventorySheet, name, name, inventoryWidths[col]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	names := locationNames(floors)
	row := 2
	for _, o := range devices {
		if o.Kind != plan.KindDevice || o.Device == nil {
			continue
		}
		loc := names[plan.Location{Floor: o.Floor, Zone: o.Zone}]
		if loc.floor == "" {
			loc = locName{floor: o.Floor, zone: o.Zone}
		}
		values := []any{
			o.ID,
			o.Name,
			o.Device.Type.Info().Name,
			o.Device.Status.Info().Name,
			loc.floor,
			loc.zone,
			o.Position.X,
			o.Position.Y,
			formatSpecs(o.Device.Specs),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(inventorySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	if err := f.SetPanes(inventorySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type locName struct {
	floor, zone string
}

func locationNames(floors []plan.Floor) map[plan.Location]locName {
	names := make(map[plan.Location]locName)
	for _, f := range floors {
		for _, z := range f.Zones {
			names[plan.Location{Floor: f.ID, Zone: z.ID}] = locName{floor: f.Name, zone: z.Name}
		}
	}
	return names
}

// formatSpecs renders specs as "key: value" pairs sorted by key.
func formatSpecs(specs map[string]string) string {
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + specs[k]
	}
	return strings.Join(parts, "; ")
}
