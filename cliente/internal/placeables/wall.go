package placeables

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"TabletopVision/cliente/internal/perception"
	"TabletopVision/shared/docs"
)

// Wall materializa um segmento de parede ou porta. Paredes não têm
// fonte própria, mas qualquer mudança de geometria invalida todos os
// polígonos restritos da cena.
type Wall struct {
	Base
}

func newWall(world *World, doc *docs.PlaceableDoc) *Wall {
	return &Wall{Base: Base{doc: doc, world: world}}
}

// UpdateSource re-inicializa toda a percepção: os polígonos de luz,
// visão e som dependem do conjunto de paredes.
func (p *Wall) UpdateSource(opts SourceOptions) {
	flags := perception.Flags{
		InitializeLighting: true, RefreshLighting: true,
		InitializeVision: true, RefreshVision: true,
		InitializeSounds: true, RefreshSounds: true,
	}
	if !opts.Defer {
		p.world.Schedule(flags)
	}
}

// Refresh agenda a re-inicialização da percepção.
func (p *Wall) Refresh() {
	p.UpdateSource(SourceOptions{})
}

// ToggleDoor alterna o estado da porta e propaga a mutação.
// Portas trancadas não alternam.
func (p *Wall) ToggleDoor() error {
	wall := p.doc.Wall
	if wall == nil || wall.Door == 0 || wall.DoorState == 2 {
		return nil
	}
	next := *p.doc
	nextWall := *wall
	if nextWall.DoorState == 1 {
		nextWall.DoorState = 0
	} else {
		nextWall.DoorState = 1
	}
	next.Wall = &nextWall
	return p.world.View.UpdateDocument(docs.KindWall, p.doc.ID, &next)
}

// Draw desenha o segmento para o modo de edição de paredes.
func (p *Wall) Draw() error {
	return guardDraw(p, func() error {
		if !rl.IsWindowReady() || p.doc.Wall == nil {
			return nil
		}
		w := p.doc.Wall
		color := rl.Color{R: 200, G: 200, B: 60, A: 255}
		switch {
		case w.Door > 0 && w.DoorState == 1:
			color = rl.Color{R: 80, G: 200, B: 80, A: 255}
		case w.Door > 0:
			color = rl.Color{R: 200, G: 120, B: 40, A: 255}
		case !w.BlocksSight:
			color = rl.Color{R: 90, G: 160, B: 220, A: 255}
		}
		start := rl.Vector2{X: float32(w.X1), Y: float32(w.Y1)}
		end := rl.Vector2{X: float32(w.X2), Y: float32(w.Y2)}
		rl.DrawLineEx(start, end, 3, color)
		rl.DrawCircleV(start, 4, color)
		rl.DrawCircleV(end, 4, color)
		return nil
	})
}

// Destroy libera o segmento e agenda a re-inicialização.
func (p *Wall) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.UpdateSource(SourceOptions{Deleted: true})
}
