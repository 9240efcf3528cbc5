// Package export writes a zone as a PNG image and the device inventory as a
// spreadsheet.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"floorplan/internal/geom"
	"floorplan/internal/plan"
)

var ErrEmpty = errors.New("nothing to export")

type Options struct {
	// canvas units around the drawing
	Padding float64
	// pixels per canvas unit
	Scale    float64
	FontSize float64
}

func DefaultOptions() Options {
	return Options{Padding: 16, Scale: 1, FontSize: 12}
}

// PNG renders objs to a PNG file at path.
func PNG(path string, objs []plan.Object, opts Options) error {
	dc, err := render(objs, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

// Render draws objs bottom to top into an image sized to their bounds.
func Render(objs []plan.Object, opts Options) (image.Image, error) {
	dc, err := render(objs, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func render(objs []plan.Object, opts Options) (*gg.Context, error) {
	if len(objs) == 0 {
		return nil, ErrEmpty
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultOptions().FontSize
	}

	area := extent(objs)
	area.Origin = area.Origin.Sub(geom.Pt(opts.Padding, opts.Padding))
	area.Size.Width += 2 * opts.Padding
	area.Size.Height += 2 * opts.Padding

	w := int(math.Ceil(area.Size.Width * opts.Scale))
	h := int(math.Ceil(area.Size.Height * opts.Scale))
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize * opts.Scale,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(-area.Origin.X, -area.Origin.Y)

	sorted := append([]plan.Object(nil), objs...)
	plan.SortByLayer(sorted)
	p := &pngPainter{dc: dc}
	for _, o := range sorted {
		if err := plan.Paint(p, o); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// extent is the union of every object box and freehand point.
func extent(objs []plan.Object) geom.Rect {
	lo := objs[0].Position
	hi := objs[0].Bounds().Max()
	grow := func(p geom.Point) {
		lo = geom.Pt(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y))
		hi = geom.Pt(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y))
	}
	for _, o := range objs {
		grow(o.Position)
		grow(o.Bounds().Max())
		if o.Room != nil {
			for _, pt := range o.Room.Points {
				grow(pt)
			}
		}
	}
	return geom.Normalize(lo, hi)
}

type pngPainter struct {
	dc *gg.Context
}

func (p *pngPainter) color(hex, fallback string) {
	if hex == "" || hex == "transparent" {
		hex = fallback
	}
	p.dc.SetHexColor(hex)
}

func (p *pngPainter) Device(o plan.Object, d plan.Device) {
	r := o.Bounds()
	p.color(d.Status.Info().Color, "#6b7280")
	p.dc.DrawRoundedRectangle(r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height, 4)
	p.dc.Fill()

	p.dc.SetColor(color.White)
	cx, cy := r.Origin.X+r.Size.Width/2, r.Origin.Y+r.Size.Height/2
	p.dc.DrawStringAnchored(string(d.Type.Info().Symbol), cx, cy, 0.5, 0.5)

	p.dc.SetColor(color.Black)
	p.dc.DrawStringAnchored(o.Name, cx, r.Max().Y+2, 0.5, 1)
}

func (p *pngPainter) Wall(o plan.Object, axis plan.WallAxis) {
	r := o.Bounds()
	p.color(roomColor(o), "#374151")
	switch axis {
	case plan.WallHorizontal, plan.WallVertical:
		p.dc.DrawRectangle(r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
		p.dc.Fill()
	case plan.WallDiagonal:
		p.dc.SetLineWidth(8)
		p.dc.DrawLine(r.Origin.X, r.Max().Y, r.Max().X, r.Origin.Y)
		p.dc.Stroke()
	case plan.WallDiagonalReverse:
		p.dc.SetLineWidth(8)
		p.dc.DrawLine(r.Origin.X, r.Origin.Y, r.Max().X, r.Max().Y)
		p.dc.Stroke()
	}
}

// Door draws the leaf and its swing arc, hinged at the bottom-left corner.
func (p *pngPainter) Door(o plan.Object) {
	r := o.Bounds()
	radius := math.Min(r.Size.Width, r.Size.Height)
	hx, hy := r.Origin.X, r.Max().Y
	p.color(roomColor(o), "#8b5a2b")
	p.dc.SetLineWidth(2)
	p.dc.DrawLine(hx, hy, hx, hy-radius)
	p.dc.Stroke()
	p.dc.DrawArc(hx, hy, radius, -math.Pi/2, 0)
	p.dc.Stroke()
}

func (p *pngPainter) Label(o plan.Object, props plan.Properties) {
	r := o.Bounds()
	if bg := props.BackgroundColor; bg != "" && bg != "transparent" {
		p.dc.SetHexColor(bg)
		p.dc.DrawRectangle(r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
		p.dc.Fill()
	}
	p.color(props.Color, "#000000")
	ax, x := 0.5, r.Origin.X+r.Size.Width/2
	switch props.TextAlign {
	case "left":
		ax, x = 0, r.Origin.X+props.Padding
	case "right":
		ax, x = 1, r.Max().X-props.Padding
	}
	p.dc.DrawStringAnchored(o.Name, x, r.Origin.Y+r.Size.Height/2, ax, 0.5)
}

func (p *pngPainter) Box(o plan.Object, props plan.Properties) {
	r := o.Bounds()
	if bg := props.BackgroundColor; bg != "" && bg != "transparent" {
		p.dc.SetHexColor(bg)
		p.dc.DrawRectangle(r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
		p.dc.Fill()
	}
	width := props.BorderWidth
	if width <= 0 {
		width = 1
	}
	p.color(props.Color, "#374151")
	p.dc.SetLineWidth(width)
	if props.BorderStyle == "dashed" {
		p.dc.SetDash(6, 4)
		defer p.dc.SetDash()
	}
	if props.BorderRadius > 0 {
		p.dc.DrawRoundedRectangle(r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height, props.BorderRadius)
	} else {
		p.dc.DrawRectangle(r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
	}
	p.dc.Stroke()
}

func (p *pngPainter) Segment(o plan.Object, a, b geom.Point, props plan.Properties) {
	width := props.BorderWidth
	if width <= 0 {
		width = 2
	}
	p.color(props.Color, "#374151")
	p.dc.SetLineWidth(width)
	p.dc.SetLineCap(gg.LineCapRound)
	p.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	p.dc.Stroke()
}

func roomColor(o plan.Object) string {
	if o.Room == nil {
		return ""
	}
	return o.Room.Properties.Color
}
