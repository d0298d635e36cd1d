package canvas

import (
	"math"
	"sort"

	"TabletopVision/cliente/internal/placeables"
	"TabletopVision/shared/docs"
)

// Limites da transparência por elevação: objetos muito acima ou muito
// abaixo do plano de interesse nunca somem por completo.
const (
	elevationAlphaMin = 0.19
	elevationAlphaMax = 1.0
)

// typePriority desempata objetos na mesma elevação: tokens acima de
// desenhos, desenhos acima do resto.
func typePriority(kind docs.Kind) int {
	switch kind {
	case docs.KindToken:
		return 2
	case docs.KindDrawing:
		return 1
	}
	return 0
}

// PrimaryOrder ordena os posicionáveis do grupo primário para desenho:
// elevação, prioridade de tipo, Sort explícito e, por fim, a ordem de
// inserção (estável).
func PrimaryOrder(items []placeables.Placeable) []placeables.Placeable {
	out := make([]placeables.Placeable, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Doc(), out[j].Doc()
		if a.Elevation != b.Elevation {
			return a.Elevation < b.Elevation
		}
		pa, pb := typePriority(a.Kind), typePriority(b.Kind)
		if pa != pb {
			return pa < pb
		}
		return a.Sort < b.Sort
	})
	return out
}

// ElevationRange agrega o intervalo de elevações finitas do grupo
// primário. Elevações infinitas (luz global) ficam de fora.
func ElevationRange(items []placeables.Placeable) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range items {
		e := p.Doc().Elevation
		if math.IsInf(e, 0) {
			continue
		}
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// ElevationAlpha mapeia a distância de elevação entre um objeto e o
// plano de observação para uma opacidade em [0.19, 1]: no plano o
// objeto é pleno, e decai linearmente até o piso no extremo da faixa.
func ElevationAlpha(elevation, observed, lo, hi float64) float64 {
	if math.IsInf(elevation, 0) {
		return elevationAlphaMax
	}
	span := math.Max(observed-lo, hi-observed)
	if span <= 0 {
		return elevationAlphaMax
	}
	dist := math.Abs(elevation-observed) / span
	if dist > 1 {
		dist = 1
	}
	return elevationAlphaMax - dist*(elevationAlphaMax-elevationAlphaMin)
}
