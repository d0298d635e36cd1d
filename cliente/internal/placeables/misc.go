package placeables

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"TabletopVision/shared/docs"
	"TabletopVision/shared/tint"
)

// Drawing materializa um desenho à mão livre ou forma.
type Drawing struct {
	Base
}

func newDrawing(world *World, doc *docs.PlaceableDoc) *Drawing {
	return &Drawing{Base: Base{doc: doc, world: world}}
}

// UpdateSource é nulo: desenhos não emitem fontes.
func (p *Drawing) UpdateSource(SourceOptions) {}

func (p *Drawing) Refresh() {}

func (p *Drawing) Draw() error {
	return guardDraw(p, func() error {
		if !rl.IsWindowReady() || p.doc.Drawing == nil {
			return nil
		}
		d := p.doc.Drawing
		x, y := float32(p.doc.X), float32(p.doc.Y)
		w, h := float32(d.Width), float32(d.Height)

		if d.FillColor != "" {
			if c, ok := tint.FromHex(d.FillColor); ok {
				rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: w, Y: h}, rlColor(c, 120))
			}
		}
		stroke := rl.RayWhite
		if c, ok := tint.FromHex(d.StrokeColor); ok {
			stroke = rlColor(c, 255)
		}
		thickness := float32(d.StrokeWidth)
		if thickness <= 0 {
			thickness = 2
		}
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, thickness, stroke)
		if d.Text != "" {
			rl.DrawText(d.Text, int32(x)+6, int32(y)+6, 18, stroke)
		}
		return nil
	})
}

func (p *Drawing) Destroy() { p.destroyed = true }

// Template materializa um gabarito de medição.
type Template struct {
	Base
}

func newTemplate(world *World, doc *docs.PlaceableDoc) *Template {
	return &Template{Base: Base{doc: doc, world: world}}
}

// UpdateSource é nulo: gabaritos não emitem fontes.
func (p *Template) UpdateSource(SourceOptions) {}

func (p *Template) Refresh() {}

func (p *Template) Draw() error {
	return guardDraw(p, func() error {
		if !rl.IsWindowReady() || p.doc.Template == nil {
			return nil
		}
		t := p.doc.Template
		ppu := p.world.PixelsPerUnit()
		x, y := float32(p.doc.X), float32(p.doc.Y)
		radius := float32(t.Distance * ppu)

		fill := rl.Color{R: 160, G: 60, B: 60, A: 70}
		if c, ok := tint.FromHex(t.FillColor); ok {
			fill = rlColor(c, 70)
		}
		line := rl.Color{R: fill.R, G: fill.G, B: fill.B, A: 220}

		switch t.Shape {
		case "circle":
			rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, fill)
			rl.DrawCircleLines(int32(x), int32(y), radius, line)
		case "cone":
			start := float32(t.Direction - t.Angle/2)
			end := float32(t.Direction + t.Angle/2)
			rl.DrawCircleSector(rl.Vector2{X: x, Y: y}, radius, start, end, 24, fill)
		case "ray":
			rad := t.Direction * math.Pi / 180
			ex := x + radius*float32(math.Cos(rad))
			ey := y + radius*float32(math.Sin(rad))
			width := float32(t.Width * ppu)
			if width <= 0 {
				width = 5
			}
			rl.DrawLineEx(rl.Vector2{X: x, Y: y}, rl.Vector2{X: ex, Y: ey}, width, fill)
		case "rect":
			w := radius
			h := float32(t.Width * ppu)
			if h <= 0 {
				h = w
			}
			rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: w, Y: h}, fill)
			rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, 2, line)
		}
		return nil
	})
}

func (p *Template) Destroy() { p.destroyed = true }

// Note materializa um marcador de anotação.
type Note struct {
	Base
}

func newNote(world *World, doc *docs.PlaceableDoc) *Note {
	return &Note{Base: Base{doc: doc, world: world}}
}

// UpdateSource é nulo: notas não emitem fontes.
func (p *Note) UpdateSource(SourceOptions) {}

func (p *Note) Refresh() {}

func (p *Note) Draw() error {
	return guardDraw(p, func() error {
		if !rl.IsWindowReady() || p.doc.Note == nil {
			return nil
		}
		x, y := int32(p.doc.X), int32(p.doc.Y)
		rl.DrawCircle(x, y, 14, rl.Color{R: 240, G: 220, B: 120, A: 230})
		rl.DrawCircleLines(x, y, 14, rl.Black)
		if p.hover && p.doc.Note.Text != "" {
			rl.DrawText(p.doc.Note.Text, x+18, y-8, 16, rl.RayWhite)
		}
		return nil
	})
}

func (p *Note) Destroy() { p.destroyed = true }

// rlColor converte um tint.Color em cor raylib com alpha dado.
func rlColor(c tint.Color, alpha uint8) rl.Color {
	f := c.Floats()
	return rl.Color{
		R: uint8(f[0] * 255),
		G: uint8(f[1] * 255),
		B: uint8(f[2] * 255),
		A: alpha,
	}
}
