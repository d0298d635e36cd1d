package canvas

import (
	"math"

	"TabletopVision/cliente/internal/placeables"
	"TabletopVision/shared/docs"
	"TabletopVision/shared/geom"
)

// TileOccludes decide se um tile deve reagir à presença de um token:
// o token está sob o retângulo do tile e abaixo dele em elevação, e o
// tile tem um modo de oclusão configurado.
func TileOccludes(tile, token *docs.PlaceableDoc) bool {
	if tile.Tile == nil || tile.Tile.Occlusion == docs.OcclusionNone {
		return false
	}
	if token.Elevation >= tile.Elevation {
		return false
	}
	r := geom.Rect{
		X:      tile.X - tile.Tile.Width/2,
		Y:      tile.Y - tile.Tile.Height/2,
		Width:  tile.Tile.Width,
		Height: tile.Tile.Height,
	}
	if tile.Tile.Rotation != 0 {
		r = r.RotatedBounds(tile.Tile.Rotation * degToRad)
	}
	return r.Contains(token.X, token.Y)
}

const degToRad = math.Pi / 180

// observedTokens escolhe os tokens que dirigem a oclusão: os
// controlados pelo usuário; na ausência deles, os com visão própria.
func observedTokens(tokens *placeables.Layer) []*docs.PlaceableDoc {
	var controlled, sighted []*docs.PlaceableDoc
	tokens.ForEach(func(p placeables.Placeable) {
		doc := p.Doc()
		if t, ok := p.(*placeables.Token); ok && t.Controlled() {
			controlled = append(controlled, doc)
		}
		if doc.Token != nil && doc.Token.Vision {
			sighted = append(sighted, doc)
		}
	})
	if len(controlled) > 0 {
		return controlled
	}
	return sighted
}

// RefreshTileOcclusion reavalia a flag de oclusão de cada tile contra
// os tokens observados. Retorna quantos tiles mudaram de estado.
func RefreshTileOcclusion(tiles, tokens *placeables.Layer) int {
	observed := observedTokens(tokens)
	changed := 0
	tiles.ForEach(func(p placeables.Placeable) {
		tile, ok := p.(*placeables.Tile)
		if !ok {
			return
		}
		occluded := false
		for _, tok := range observed {
			if TileOccludes(tile.Doc(), tok) {
				occluded = true
				break
			}
		}
		if occluded != tile.Occluded() {
			tile.SetOccluded(occluded)
			changed++
		}
	})
	return changed
}
