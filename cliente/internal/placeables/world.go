// Package placeables materializa os documentos de cena como objetos
// renderizáveis com ciclo de vida próprio (draw, refresh, clear,
// destroy) e mantém as fontes pontuais derivadas deles registradas nas
// coleções de percepção.
package placeables

import (
	"TabletopVision/cliente/internal/assets"
	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/docs"
	"TabletopVision/shared/geom"
)

// World agrega o que todo posicionável precisa alcançar: a visão de
// documentos, as coleções de fontes, o agendador de percepção e o
// cache de texturas. Também é o Environment das fontes.
type World struct {
	View      docs.View
	Lights    *sources.Collection
	Visions   *sources.Collection
	Sounds    *sources.Collection
	Scheduler *perception.Scheduler
	Assets    *assets.Loader

	// Photosensitive suprime modulação de animação nas fontes.
	Photosensitive bool
}

// NewWorld cria o mundo com coleções vazias.
func NewWorld(view docs.View, loader *assets.Loader) *World {
	return &World{
		View:    view,
		Lights:  sources.NewCollection(),
		Visions: sources.NewCollection(),
		Sounds:  sources.NewCollection(),
		Assets:  loader,
	}
}

// Walls devolve os segmentos que restringem fontes do tipo dado.
// Portas abertas nunca bloqueiam.
func (w *World) Walls(kind sources.Kind) []sources.Segment {
	var out []sources.Segment
	for _, doc := range w.View.Placeables(docs.KindWall) {
		wall := doc.Wall
		if wall == nil || wall.IsOpenDoor() {
			continue
		}
		blocks := false
		switch kind {
		case sources.KindLight, sources.KindVision:
			blocks = wall.BlocksSight
		case sources.KindSound:
			blocks = wall.BlocksSound
		case sources.KindMove:
			blocks = wall.BlocksMove
		}
		if blocks {
			out = append(out, sources.Segment{X1: wall.X1, Y1: wall.Y1, X2: wall.X2, Y2: wall.Y2})
		}
	}
	return out
}

// SceneRect devolve o retângulo jogável da cena ativa.
func (w *World) SceneRect() geom.Rect {
	x, y, width, height := w.View.Scene().Rect()
	return geom.Rect{X: x, Y: y, Width: width, Height: height}
}

// DarknessLevel devolve o nível de escuridão corrente da cena.
func (w *World) DarknessLevel() float64 {
	return w.View.Scene().DarknessLevel
}

// Schedule encaminha flags de percepção ao agendador, se houver um.
func (w *World) Schedule(flags perception.Flags) {
	if w.Scheduler != nil {
		w.Scheduler.Update(flags, false)
	}
}

// PixelsPerUnit converte unidades de jogo em pixels da cena.
// Cena sem métrica definida usa os valores como pixels diretos.
func (w *World) PixelsPerUnit() float64 {
	scene := w.View.Scene()
	if scene.Distance <= 0 || scene.Size <= 0 {
		return 1
	}
	return scene.Size / scene.Distance
}
