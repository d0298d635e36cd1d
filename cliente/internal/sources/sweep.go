package sources

import (
	"math"
	"sort"

	"TabletopVision/shared/geom"
)

// anglePad é o deslocamento angular aplicado em torno de cada
// extremidade de parede para que o varrimento capture tanto a face da
// parede quanto a sombra projetada atrás dela.
const anglePad = 1e-6

// Sweep computa o polígono de linha-de-visada de uma fonte restrita
// por paredes: lança raios do centro em direção às extremidades das
// paredes (com ±anglePad) e aos vértices do círculo limite, e recorta
// cada raio na parede mais próxima.
//
// O resultado é sempre um polígono fechado; raio não positivo retorna
// um polígono vazio.
func Sweep(ox, oy, radius, angle, rotation float64, walls []Segment, eps float64) *geom.Polygon {
	if radius <= 0 {
		return &geom.Polygon{}
	}

	// Só paredes que tocam o retângulo envolvente do círculo importam
	bounds := geom.Rect{X: ox - radius, Y: oy - radius, Width: 2 * radius, Height: 2 * radius}
	relevant := walls[:0:0]
	for _, w := range walls {
		if bounds.LineSegmentIntersects(w.X1, w.Y1, w.X2, w.Y2, true) {
			relevant = append(relevant, w)
		}
	}

	if len(relevant) == 0 {
		// Sem obstrução o varrimento degenera no círculo/cunha puro
		return geom.WedgeToPolygon(ox, oy, radius, eps, angle, rotation)
	}

	n := geom.ApproximateVertexDensity(radius, eps)
	if n < 3 {
		n = 3
	}

	angles := make([]float64, 0, 3*len(relevant)*2+n)
	for _, w := range relevant {
		for _, pt := range [2][2]float64{{w.X1, w.Y1}, {w.X2, w.Y2}} {
			theta := math.Atan2(pt[1]-oy, pt[0]-ox)
			angles = append(angles, theta-anglePad, theta, theta+anglePad)
		}
	}
	for k := 0; k < n; k++ {
		angles = append(angles, -math.Pi+float64(k)*2*math.Pi/float64(n))
	}
	sort.SliceStable(angles, func(i, j int) bool { return angles[i] < angles[j] })

	poly := &geom.Polygon{Points: make([]float64, 0, 2*len(angles)+2)}
	for _, theta := range angles {
		px, py := castRay(ox, oy, theta, radius, relevant)
		poly.AddPoint(px, py)
	}
	poly.Close()

	if angle > 0 && angle < 360 {
		wedge := geom.WedgeToPolygon(ox, oy, radius*1.01, eps, angle, rotation)
		return geom.Clip(poly, wedge, geom.ClipIntersect, 100)
	}
	return poly
}

// castRay lança um raio do centro na direção theta e devolve o ponto
// onde ele é interrompido: a parede mais próxima ou o círculo limite.
func castRay(ox, oy, theta, radius float64, walls []Segment) (float64, float64) {
	ex := ox + radius*math.Cos(theta)
	ey := oy + radius*math.Sin(theta)

	best := math.Inf(1)
	bx, by := ex, ey
	for _, w := range walls {
		px, py, ok := geom.SegmentIntersection(ox, oy, ex, ey, w.X1, w.Y1, w.X2, w.Y2)
		if !ok {
			continue
		}
		d := (px-ox)*(px-ox) + (py-oy)*(py-oy)
		if d < best {
			best = d
			bx, by = px, py
		}
	}
	return bx, by
}
