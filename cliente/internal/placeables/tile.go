package placeables

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"TabletopVision/cliente/internal/perception"
	"TabletopVision/shared/docs"
)

// fadeAlpha é a opacidade de um tile ocluído no modo FADE.
const fadeAlpha = 0.15

// Tile materializa um tile de sobreposição (piso, telhado).
type Tile struct {
	Base

	// occluded marca que um token controlado está sob o tile neste
	// quadro; o modo de oclusão decide como reagir.
	occluded bool
}

func newTile(world *World, doc *docs.PlaceableDoc) *Tile {
	return &Tile{Base: Base{doc: doc, world: world}}
}

// SetOccluded atualiza o estado de oclusão calculado pelo canvas.
func (p *Tile) SetOccluded(on bool) { p.occluded = on }

// Occluded informa o estado de oclusão corrente.
func (p *Tile) Occluded() bool { return p.occluded }

// MaskOccluded informa se o tile sai do passe primário para ser
// recomposto através da máscara de oclusão (modos RADIAL e VISION).
func (p *Tile) MaskOccluded() bool {
	if !p.occluded {
		return false
	}
	mode := p.EffectiveOcclusion()
	return mode == docs.OcclusionRadial || mode == docs.OcclusionVision
}

// EffectiveOcclusion resolve o modo de oclusão aplicável: o modo
// VISION sem nenhuma fonte de visão ativa rebaixa para FADE.
func (p *Tile) EffectiveOcclusion() docs.OcclusionMode {
	if p.doc.Tile == nil {
		return docs.OcclusionNone
	}
	mode := p.doc.Tile.Occlusion
	if mode == docs.OcclusionVision && p.world.Visions.Len() == 0 {
		return docs.OcclusionFade
	}
	return mode
}

// UpdateSource agenda a reavaliação de oclusão dos tiles.
func (p *Tile) UpdateSource(opts SourceOptions) {
	if !opts.Defer {
		p.world.Schedule(perception.Flags{RefreshTiles: true})
	}
}

// Refresh agenda a reavaliação de oclusão.
func (p *Tile) Refresh() {
	p.UpdateSource(SourceOptions{})
}

// alpha resolve a opacidade de desenho do tile neste quadro.
func (p *Tile) alpha() float64 {
	base := 1.0
	if p.doc.Tile != nil && p.doc.Tile.Alpha > 0 {
		base = p.doc.Tile.Alpha
	}
	if !p.occluded {
		return base
	}
	switch p.EffectiveOcclusion() {
	case docs.OcclusionFade:
		return base * fadeAlpha
	case docs.OcclusionRadial, docs.OcclusionVision:
		// Recorte por máscara no composite; o tile desenha pleno aqui
		return base
	}
	return base
}

// Draw desenha a textura do tile com a opacidade de oclusão resolvida.
func (p *Tile) Draw() error {
	return guardDraw(p, func() error {
		if !rl.IsWindowReady() || p.doc.Tile == nil {
			return nil
		}
		tile := p.doc.Tile
		a := uint8(p.alpha() * 255)
		x, y := float32(p.doc.X), float32(p.doc.Y)

		if tile.Texture != "" && p.world.Assets != nil {
			if tex, ok := p.world.Assets.Get(tile.Texture); ok {
				src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
				dst := rl.Rectangle{X: x, Y: y, Width: float32(tile.Width), Height: float32(tile.Height)}
				origin := rl.Vector2{X: float32(tile.Width) / 2, Y: float32(tile.Height) / 2}
				rl.DrawTexturePro(tex, src, dst, origin, float32(tile.Rotation),
					rl.Color{R: 255, G: 255, B: 255, A: a})
				return nil
			}
		}
		rl.DrawRectangleV(
			rl.Vector2{X: x - float32(tile.Width)/2, Y: y - float32(tile.Height)/2},
			rl.Vector2{X: float32(tile.Width), Y: float32(tile.Height)},
			rl.Color{R: 70, G: 70, B: 80, A: a})
		return nil
	})
}

// Destroy libera o tile.
func (p *Tile) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.UpdateSource(SourceOptions{Deleted: true})
}
