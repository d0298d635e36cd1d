package placeables

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/docs"
	"TabletopVision/shared/tint"
)

// AmbientLight materializa um documento de luz (ou escuridão).
type AmbientLight struct {
	Base
}

func newAmbientLight(world *World, doc *docs.PlaceableDoc) *AmbientLight {
	return &AmbientLight{Base: Base{doc: doc, world: world}}
}

// lightSourceData traduz o payload de luz de um documento em dados de
// fonte, decidindo a supressão: documento oculto, raio nulo ou nível
// de escuridão fora da janela [DarknessMin, DarknessMax] (inclusiva).
func lightSourceData(doc *docs.PlaceableDoc, light *docs.LightData, darkness, ppu float64) (sources.Data, bool) {
	if light == nil || doc.Hidden {
		return sources.Data{}, false
	}
	radius := math.Max(light.Dim, light.Bright) * ppu
	if radius <= 0 {
		return sources.Data{}, false
	}
	if darkness < light.DarknessMin || darkness > light.DarknessMax {
		return sources.Data{}, false
	}

	color := tint.Color(0xFFFFFF)
	if c, ok := tint.FromHex(light.Color); ok {
		color = c
	}
	alpha := light.Alpha
	if alpha <= 0 {
		alpha = 0.5
	}
	return sources.Data{
		X: doc.X, Y: doc.Y,
		Radius:    radius,
		Bright:    light.Bright * ppu,
		Angle:     light.Angle,
		Rotation:  light.Rotation,
		Elevation: doc.Elevation,

		WallsConstrain: light.Walls,
		Luminosity:     light.Luminosity,
		Color:          color,
		Alpha:          alpha,
		Attenuation:    light.Attenuation,
		Contrast:       light.Contrast,
		Saturation:     light.Saturation,
		Shadows:        light.Shadows,

		AnimationType:      light.AnimationType,
		AnimationSpeed:     light.AnimationSpeed,
		AnimationIntensity: light.AnimationIntensity,
		AnimationReverse:   light.AnimationReverse,
		AnimationSeed:      light.AnimationSeed,
	}, true
}

// UpdateSource registra ou remove a fonte de luz derivada.
func (p *AmbientLight) UpdateSource(opts SourceOptions) {
	id := p.world.View.SourceID(p.doc)
	data, active := lightSourceData(p.doc, p.doc.Light, p.world.DarknessLevel(), p.world.PixelsPerUnit())

	flags := perception.Flags{RefreshLighting: true, RefreshVision: true}
	if opts.Deleted || !active {
		if p.world.Lights.Get(id) != nil {
			p.world.Lights.Delete(id)
			flags.InitializeLighting = true
		}
	} else {
		src := p.world.Lights.GetOrCreate(id, sources.KindLight)
		src.Initialize(data, p.world)
	}
	if !opts.Defer {
		p.world.Schedule(flags)
	}
}

// Refresh re-registra a fonte (posição ou payload mudaram).
func (p *AmbientLight) Refresh() {
	p.UpdateSource(SourceOptions{})
}

// Draw desenha o gizmo de controle da luz; o efeito luminoso em si é
// responsabilidade do pipeline de iluminação.
func (p *AmbientLight) Draw() error {
	return guardDraw(p, func() error {
		if !rl.IsWindowReady() || (!p.hover && !p.controlled) {
			return nil
		}
		x, y := float32(p.doc.X), float32(p.doc.Y)
		color := rl.Gold
		if p.doc.Light != nil && p.doc.Light.Luminosity < 0 {
			color = rl.DarkPurple
		}
		rl.DrawCircleLines(int32(x), int32(y), 20, color)
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 4, color)
		return nil
	})
}

// Destroy remove a fonte derivada e libera o objeto.
func (p *AmbientLight) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.UpdateSource(SourceOptions{Deleted: true})
}
