package geom

import "math"

// ApproximateVertexDensity retorna o número de vértices necessário para
// aproximar um círculo de raio r com desvio radial máximo eps:
// ceil(π / √(2·eps/r)).
func ApproximateVertexDensity(r, eps float64) int {
	if r <= 0 || eps <= 0 {
		return 0
	}
	return int(math.Ceil(math.Pi / math.Sqrt(2*eps/r)))
}

// CircleToPolygon aproxima um círculo por um polígono fechado.
// Raio zero (ou densidade insuficiente) retorna polígono vazio.
func CircleToPolygon(cx, cy, r, eps float64) *Polygon {
	n := ApproximateVertexDensity(r, eps)
	if n < 3 {
		return &Polygon{}
	}
	p := &Polygon{Points: make([]float64, 0, n*2+2)}
	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		a := float64(i) * step
		p.AddPoint(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	p.Close()
	return p
}

// WedgeToPolygon aproxima um setor circular (ângulo em graus, centrado na
// direção rotation em graus). angle >= 360 degenera para o círculo completo.
func WedgeToPolygon(cx, cy, r, eps, angle, rotation float64) *Polygon {
	if angle >= 360 || angle <= 0 {
		return CircleToPolygon(cx, cy, r, eps)
	}
	n := ApproximateVertexDensity(r, eps)
	if n < 3 {
		return &Polygon{}
	}
	arc := angle * math.Pi / 180
	start := rotation*math.Pi/180 - arc/2
	segs := int(math.Ceil(float64(n) * angle / 360))
	if segs < 1 {
		segs = 1
	}
	p := &Polygon{Points: make([]float64, 0, (segs+3)*2)}
	p.AddPoint(cx, cy)
	for i := 0; i <= segs; i++ {
		a := start + arc*float64(i)/float64(segs)
		p.AddPoint(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	p.Close()
	return p
}
