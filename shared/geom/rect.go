package geom

import "math"

// Rect é um retângulo alinhado aos eixos.
type Rect struct {
	X, Y, Width, Height float64
}

// Códigos de zona Cohen-Sutherland.
const (
	ZoneInside = 0x0
	ZoneLeft   = 0x1
	ZoneRight  = 0x2
	ZoneBottom = 0x4
	ZoneTop    = 0x8
)

// Right retorna a borda direita do retângulo.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom retorna a borda inferior do retângulo.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains testa se o ponto está dentro do retângulo (bordas inclusivas).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// ZoneCode calcula o código de zona Cohen-Sutherland de um ponto em
// relação ao retângulo. Pontos na borda contam como dentro.
func (r Rect) ZoneCode(x, y float64) int {
	code := ZoneInside
	if x < r.X {
		code |= ZoneLeft
	} else if x > r.Right() {
		code |= ZoneRight
	}
	if y < r.Y {
		code |= ZoneTop
	} else if y > r.Bottom() {
		code |= ZoneBottom
	}
	return code
}

// LineSegmentIntersects verifica se o segmento AB cruza o retângulo.
// Com inside=true, um segmento totalmente contido também conta.
// Pré-teste por zonas: zonas iguais e não-nulas nunca cruzam;
// zonas opostas em eixos distintos exigem teste por aresta.
func (r Rect) LineSegmentIntersects(ax, ay, bx, by float64, inside bool) bool {
	zoneA := r.ZoneCode(ax, ay)
	zoneB := r.ZoneCode(bx, by)

	if zoneA == ZoneInside && zoneB == ZoneInside {
		return inside
	}
	if zoneA&zoneB != 0 {
		return false // mesmo semiplano externo
	}
	if zoneA == ZoneInside || zoneB == ZoneInside {
		return true // um extremo dentro, outro fora
	}

	// Ambos fora em zonas compatíveis: testa contra as 4 arestas
	x1, y1 := r.X, r.Y
	x2, y2 := r.Right(), r.Bottom()
	return segmentsCross(ax, ay, bx, by, x1, y1, x2, y1) ||
		segmentsCross(ax, ay, bx, by, x2, y1, x2, y2) ||
		segmentsCross(ax, ay, bx, by, x2, y2, x1, y2) ||
		segmentsCross(ax, ay, bx, by, x1, y2, x1, y1)
}

// segmentsCross testa interseção própria ou imprópria de dois segmentos.
func segmentsCross(ax, ay, bx, by, cx, cy, dx, dy float64) bool {
	d1 := orient(cx, cy, dx, dy, ax, ay)
	d2 := orient(cx, cy, dx, dy, bx, by)
	d3 := orient(ax, ay, bx, by, cx, cy)
	d4 := orient(ax, ay, bx, by, dx, dy)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(cx, cy, dx, dy, ax, ay) {
		return true
	}
	if d2 == 0 && onSegment(cx, cy, dx, dy, bx, by) {
		return true
	}
	if d3 == 0 && onSegment(ax, ay, bx, by, cx, cy) {
		return true
	}
	if d4 == 0 && onSegment(ax, ay, bx, by, dx, dy) {
		return true
	}
	return false
}

// orient retorna o produto vetorial (B-A)x(P-A).
func orient(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// onSegment assume colinearidade e verifica se P está dentro do segmento AB.
func onSegment(ax, ay, bx, by, px, py float64) bool {
	return math.Min(ax, bx) <= px && px <= math.Max(ax, bx) &&
		math.Min(ay, by) <= py && py <= math.Max(ay, by)
}

// SegmentIntersection calcula o ponto de interseção de dois segmentos.
// Retorna ok=false para segmentos paralelos ou interseção fora dos limites.
func SegmentIntersection(ax, ay, bx, by, cx, cy, dx, dy float64) (x, y float64, ok bool) {
	rX, rY := bx-ax, by-ay
	sX, sY := dx-cx, dy-cy
	denom := rX*sY - rY*sX
	if denom == 0 {
		return 0, 0, false
	}
	t := ((cx-ax)*sY - (cy-ay)*sX) / denom
	u := ((cx-ax)*rY - (cy-ay)*rX) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, 0, false
	}
	return ax + t*rX, ay + t*rY, true
}

// RotatedBounds retorna o retângulo alinhado aos eixos que envolve este
// retângulo girado por angle (radianos) em torno do próprio centro.
func (r Rect) RotatedBounds(angle float64) Rect {
	if angle == 0 {
		return r
	}
	cx := r.X + r.Width/2
	cy := r.Y + r.Height/2
	cos := math.Abs(math.Cos(angle))
	sin := math.Abs(math.Sin(angle))
	w := r.Width*cos + r.Height*sin
	h := r.Width*sin + r.Height*cos
	return Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

// ToPolygon converte o retângulo em um polígono fechado (anti-horário).
func (r Rect) ToPolygon() *Polygon {
	p := NewPolygon(
		r.X, r.Y,
		r.X, r.Bottom(),
		r.Right(), r.Bottom(),
		r.Right(), r.Y,
	)
	p.Close()
	return p
}
