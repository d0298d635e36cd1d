package geom

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// ClipOp identifica a operação booleana de recorte.
type ClipOp int

const (
	ClipIntersect ClipOp = iota
	ClipUnion
	ClipDifference
)

// Clip executa a operação booleana entre dois polígonos.
// O fator de escala controla o arredondamento: as coordenadas são
// multiplicadas por scale e arredondadas para inteiros antes do recorte
// e divididas de volta depois, limitando o erro absoluto a 1/scale.
// Um recorte sem solução retorna polígono vazio, nunca nil.
func Clip(subject, clip *Polygon, op ClipOp, scale float64) *Polygon {
	if scale <= 0 {
		scale = 1
	}
	if subject == nil || clip == nil || subject.IsEmpty() || clip.IsEmpty() {
		if op == ClipUnion {
			if subject != nil && !subject.IsEmpty() {
				return subject.Clone()
			}
			if clip != nil && !clip.IsEmpty() {
				return clip.Clone()
			}
		}
		if op == ClipDifference && subject != nil && !subject.IsEmpty() {
			return subject.Clone()
		}
		return &Polygon{}
	}

	var pcOp polyclip.Op
	switch op {
	case ClipUnion:
		pcOp = polyclip.UNION
	case ClipDifference:
		pcOp = polyclip.DIFFERENCE
	default:
		pcOp = polyclip.INTERSECTION
	}

	result := toPolyclip(subject, scale).Construct(pcOp, toPolyclip(clip, scale))
	return fromPolyclip(result, scale)
}

// ClipRect recorta o polígono contra um retângulo.
func ClipRect(subject *Polygon, r Rect, op ClipOp, scale float64) *Polygon {
	return Clip(subject, r.ToPolygon(), op, scale)
}

// toPolyclip converte para o formato da biblioteca com escala inteira.
func toPolyclip(p *Polygon, scale float64) polyclip.Polygon {
	contour := make(polyclip.Contour, 0, p.VertexCount())
	pts := p.Points
	n := len(pts)
	// Ignora o vértice de fechamento duplicado
	if n >= 4 && pts[0] == pts[n-2] && pts[1] == pts[n-1] {
		n -= 2
	}
	for i := 0; i+1 < n; i += 2 {
		contour = append(contour, polyclip.Point{
			X: math.Round(pts[i] * scale),
			Y: math.Round(pts[i+1] * scale),
		})
	}
	return polyclip.Polygon{contour}
}

// fromPolyclip converte o resultado de volta, mantendo apenas o maior
// contorno por área (as fontes de luz nunca produzem buracos úteis).
func fromPolyclip(pc polyclip.Polygon, scale float64) *Polygon {
	if len(pc) == 0 {
		return &Polygon{}
	}
	best := 0
	if len(pc) > 1 {
		bestArea := math.Inf(-1)
		for i, contour := range pc {
			var area float64
			j := len(contour) - 1
			for k := range contour {
				area += (contour[j].X + contour[k].X) * (contour[j].Y - contour[k].Y)
				j = k
			}
			area = math.Abs(area / 2)
			if area > bestArea {
				bestArea = area
				best = i
			}
		}
	}

	out := &Polygon{Points: make([]float64, 0, len(pc[best])*2+2)}
	for _, pt := range pc[best] {
		out.AddPoint(pt.X/scale, pt.Y/scale)
	}
	out.Close()
	return out
}
