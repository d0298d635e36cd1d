package placeables

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/docs"
)

// Token materializa um token de criatura: textura, fonte de visão e a
// luz que o próprio token emite.
type Token struct {
	Base
}

func newToken(world *World, doc *docs.PlaceableDoc) *Token {
	return &Token{Base: Base{doc: doc, world: world}}
}

// visionSourceData deriva a fonte de visão do token. Tokens ocultos,
// sem visão habilitada ou com alcance nulo não enxergam.
func visionSourceData(doc *docs.PlaceableDoc, scene *docs.SceneDoc, ppu float64) (sources.Data, bool) {
	tok := doc.Token
	if tok == nil || doc.Hidden || !tok.Vision || !scene.TokenVision {
		return sources.Data{}, false
	}
	radius := max(tok.DimSight, tok.BrightSight) * ppu
	if radius <= 0 {
		return sources.Data{}, false
	}
	if radius > scene.MaxR() && scene.MaxR() > 0 {
		radius = scene.MaxR()
	}
	angle := tok.SightAngle
	if angle <= 0 {
		angle = 360
	}
	return sources.Data{
		X: doc.X, Y: doc.Y,
		Radius:    radius,
		Bright:    tok.BrightSight * ppu,
		Angle:     angle,
		Rotation:  tok.Rotation,
		Elevation: doc.Elevation,

		WallsConstrain: true,
		VisionMode:     tok.VisionMode,
	}, true
}

// UpdateSource registra ou remove as fontes de visão e de luz do token.
func (p *Token) UpdateSource(opts SourceOptions) {
	visionID := p.world.View.SourceID(p.doc)
	lightID := visionID + ".light"
	scene := p.world.View.Scene()
	ppu := p.world.PixelsPerUnit()

	flags := perception.Flags{RefreshLighting: true, RefreshVision: true}

	visionData, visionOK := visionSourceData(p.doc, scene, ppu)
	if opts.Deleted || !visionOK {
		if p.world.Visions.Get(visionID) != nil {
			p.world.Visions.Delete(visionID)
			flags.InitializeVision = true
		}
	} else {
		// A fonte do token controlado é a candidata a modo de visão
		// preferido do composite.
		visionData.Preferred = p.controlled
		src := p.world.Visions.GetOrCreate(visionID, sources.KindVision)
		src.Initialize(visionData, p.world)
	}

	var lightData sources.Data
	lightOK := false
	if p.doc.Token != nil {
		lightData, lightOK = lightSourceData(p.doc, p.doc.Token.Light, p.world.DarknessLevel(), ppu)
	}
	if opts.Deleted || !lightOK {
		if p.world.Lights.Get(lightID) != nil {
			p.world.Lights.Delete(lightID)
			flags.InitializeLighting = true
		}
	} else {
		src := p.world.Lights.GetOrCreate(lightID, sources.KindLight)
		src.Initialize(lightData, p.world)
	}

	if !opts.Defer {
		p.world.Schedule(flags)
	}
}

// Refresh re-registra as fontes do token.
func (p *Token) Refresh() {
	p.UpdateSource(SourceOptions{})
}

// Draw desenha a textura do token (ou um disco de reserva) e os anéis
// de estado de hover/controle.
func (p *Token) Draw() error {
	return guardDraw(p, func() error {
		if !rl.IsWindowReady() {
			return nil
		}
		scene := p.world.View.Scene()
		size := scene.Size
		if size <= 0 {
			size = 100
		}
		tok := p.doc.Token
		w, h := size, size
		if tok != nil {
			if tok.Width > 0 {
				w = tok.Width * size
			}
			if tok.Height > 0 {
				h = tok.Height * size
			}
		}
		x, y := float32(p.doc.X), float32(p.doc.Y)

		drawn := false
		if tok != nil && tok.Texture != "" && p.world.Assets != nil {
			if tex, ok := p.world.Assets.Get(tok.Texture); ok {
				src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
				dst := rl.Rectangle{X: x, Y: y, Width: float32(w), Height: float32(h)}
				origin := rl.Vector2{X: float32(w) / 2, Y: float32(h) / 2}
				rot := float32(0)
				if tok != nil {
					rot = float32(tok.Rotation)
				}
				alpha := uint8(255)
				if p.preview {
					alpha = 160
				}
				rl.DrawTexturePro(tex, src, dst, origin, rot, rl.Color{R: 255, G: 255, B: 255, A: alpha})
				drawn = true
			}
		}
		if !drawn {
			rl.DrawCircleV(rl.Vector2{X: x, Y: y}, float32(w)/2, rl.Color{R: 120, G: 120, B: 140, A: 200})
		}

		if p.controlled {
			rl.DrawCircleLines(int32(x), int32(y), float32(w)/2+4, rl.Orange)
		} else if p.hover {
			rl.DrawCircleLines(int32(x), int32(y), float32(w)/2+4, rl.RayWhite)
		}
		return nil
	})
}

// Destroy remove as fontes derivadas e libera o token.
func (p *Token) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.UpdateSource(SourceOptions{Deleted: true})
}
