package placeables

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/docs"
)

// AmbientSound materializa uma fonte de som ambiente.
type AmbientSound struct {
	Base
}

func newAmbientSound(world *World, doc *docs.PlaceableDoc) *AmbientSound {
	return &AmbientSound{Base: Base{doc: doc, world: world}}
}

// soundSourceData deriva a fonte de som. Sons ocultos, sem arquivo,
// com raio nulo ou fora da janela de escuridão ficam mudos.
func soundSourceData(doc *docs.PlaceableDoc, darkness, ppu float64) (sources.Data, bool) {
	snd := doc.Sound
	if snd == nil || doc.Hidden || snd.Path == "" {
		return sources.Data{}, false
	}
	radius := snd.Radius * ppu
	if radius <= 0 {
		return sources.Data{}, false
	}
	if darkness < snd.DarknessMin || darkness > snd.DarknessMax {
		return sources.Data{}, false
	}
	return sources.Data{
		X: doc.X, Y: doc.Y,
		Radius: radius,
		Bright: radius,
		Angle:  360,

		WallsConstrain: snd.Walls,
	}, true
}

// UpdateSource registra ou remove a fonte de som derivada.
func (p *AmbientSound) UpdateSource(opts SourceOptions) {
	id := p.world.View.SourceID(p.doc)
	data, active := soundSourceData(p.doc, p.world.DarknessLevel(), p.world.PixelsPerUnit())

	flags := perception.Flags{RefreshSounds: true}
	if opts.Deleted || !active {
		if p.world.Sounds.Get(id) != nil {
			p.world.Sounds.Delete(id)
			flags.InitializeSounds = true
		}
	} else {
		src := p.world.Sounds.GetOrCreate(id, sources.KindSound)
		src.Initialize(data, p.world)
	}
	if !opts.Defer {
		p.world.Schedule(flags)
	}
}

// Refresh re-registra a fonte de som.
func (p *AmbientSound) Refresh() {
	p.UpdateSource(SourceOptions{})
}

// Draw desenha o gizmo do emissor quando em destaque.
func (p *AmbientSound) Draw() error {
	return guardDraw(p, func() error {
		if !rl.IsWindowReady() || (!p.hover && !p.controlled) {
			return nil
		}
		x, y := int32(p.doc.X), int32(p.doc.Y)
		rl.DrawCircleLines(x, y, 16, rl.SkyBlue)
		rl.DrawCircleLines(x, y, 8, rl.SkyBlue)
		return nil
	})
}

// Destroy remove a fonte derivada e libera o emissor.
func (p *AmbientSound) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.UpdateSource(SourceOptions{Deleted: true})
}
