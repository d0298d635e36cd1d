// Package geom implementa o núcleo geométrico do TabletopVision:
// polígonos planos, recortes booleanos, aproximação de círculos e
// testes de zona para retângulos.
package geom

import "math"

// Polygon é um polígono armazenado como sequência plana [x0,y0,x1,y1,...].
// O formato plano evita alocações por vértice e é o mesmo consumido
// pelas malhas de iluminação.
type Polygon struct {
	Points []float64
}

// NewPolygon cria um polígono a partir de uma lista plana de coordenadas.
// Um número ímpar de valores descarta o último (coordenada órfã).
func NewPolygon(points ...float64) *Polygon {
	if len(points)%2 != 0 {
		points = points[:len(points)-1]
	}
	p := &Polygon{Points: make([]float64, 0, len(points))}
	for i := 0; i+1 < len(points); i += 2 {
		p.AddPoint(points[i], points[i+1])
	}
	return p
}

// AddPoint adiciona um vértice, ignorando duplicata do último ponto.
func (p *Polygon) AddPoint(x, y float64) {
	n := len(p.Points)
	if n >= 2 && p.Points[n-2] == x && p.Points[n-1] == y {
		return
	}
	p.Points = append(p.Points, x, y)
}

// VertexCount retorna o número de vértices.
func (p *Polygon) VertexCount() int {
	return len(p.Points) / 2
}

// IsEmpty retorna true se o polígono não tem vértices suficientes para área.
func (p *Polygon) IsEmpty() bool {
	return len(p.Points) < 6
}

// IsClosed verifica se o primeiro e o último vértice coincidem.
func (p *Polygon) IsClosed() bool {
	n := len(p.Points)
	if n < 4 {
		return false
	}
	return p.Points[0] == p.Points[n-2] && p.Points[1] == p.Points[n-1]
}

// Close fecha o polígono repetindo o primeiro vértice, se necessário.
func (p *Polygon) Close() {
	if len(p.Points) >= 4 && !p.IsClosed() {
		p.Points = append(p.Points, p.Points[0], p.Points[1])
	}
}

// Bounds calcula o retângulo delimitador do polígono.
func (p *Polygon) Bounds() Rect {
	if len(p.Points) < 2 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i+1 < len(p.Points); i += 2 {
		x, y := p.Points[i], p.Points[i+1]
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains testa se um ponto está dentro do polígono (ray casting par/ímpar).
// Pontos exatamente sobre uma aresta contam como dentro.
func (p *Polygon) Contains(x, y float64) bool {
	n := p.VertexCount()
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := p.Points[2*i], p.Points[2*i+1]
		xj, yj := p.Points[2*j], p.Points[2*j+1]

		// Aresta horizontal coincidente ou vértice exato
		if xi == x && yi == y {
			return true
		}
		if (yi > y) != (yj > y) {
			slope := (x-xi)*(yj-yi) - (xj-xi)*(y-yi)
			if slope == 0 {
				return true // sobre a aresta
			}
			if (slope < 0) != (yj < yi) {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SignedArea retorna a área com sinal (positiva = anti-horário).
func (p *Polygon) SignedArea() float64 {
	n := p.VertexCount()
	if n < 3 {
		return 0
	}
	var sum float64
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := p.Points[2*i], p.Points[2*i+1]
		xj, yj := p.Points[2*j], p.Points[2*j+1]
		sum += xj*yi - xi*yj
		j = i
	}
	return sum / 2
}

// Clone devolve uma cópia independente do polígono.
func (p *Polygon) Clone() *Polygon {
	cp := &Polygon{Points: make([]float64, len(p.Points))}
	copy(cp.Points, p.Points)
	return cp
}
