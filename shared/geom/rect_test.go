package geom

import (
	"math"
	"testing"
)

func TestZoneCode(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		x, y float64
		want int
	}{
		{50, 50, ZoneInside},
		{0, 0, ZoneInside}, // borda conta como dentro
		{-1, 50, ZoneLeft},
		{101, 50, ZoneRight},
		{50, -1, ZoneTop},
		{50, 101, ZoneBottom},
		{-1, -1, ZoneLeft | ZoneTop},
		{101, 101, ZoneRight | ZoneBottom},
	}

	for _, tt := range tests {
		if got := r.ZoneCode(tt.x, tt.y); got != tt.want {
			t.Errorf("ZoneCode(%v, %v) = %#x, esperado %#x", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestLineSegmentIntersects(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		name           string
		ax, ay, bx, by float64
		inside         bool
		want           bool
	}{
		{"atravessa horizontal", -10, 50, 110, 50, false, true},
		{"totalmente à esquerda", -20, 0, -10, 100, false, false},
		{"mesma zona externa", 110, -10, 120, -20, false, false},
		{"um extremo dentro", 50, 50, 200, 200, false, true},
		{"interno sem flag", 10, 10, 90, 90, false, false},
		{"interno com flag", 10, 10, 90, 90, true, true},
		{"diagonal cantos opostos", -10, -10, 110, 110, false, true},
		{"tangente ao canto", -10, 10, 10, -10, false, true},
		{"passa por fora da diagonal", -10, 5, 5, -10, false, false},
	}

	for _, tt := range tests {
		got := r.LineSegmentIntersects(tt.ax, tt.ay, tt.bx, tt.by, tt.inside)
		if got != tt.want {
			t.Errorf("%s: LineSegmentIntersects = %v, esperado %v", tt.name, got, tt.want)
		}
	}
}

func TestSegmentIntersection(t *testing.T) {
	x, y, ok := SegmentIntersection(0, 0, 10, 10, 0, 10, 10, 0)
	if !ok || x != 5 || y != 5 {
		t.Fatalf("interseção = (%v, %v, %v), esperado (5, 5, true)", x, y, ok)
	}

	if _, _, ok := SegmentIntersection(0, 0, 10, 0, 0, 5, 10, 5); ok {
		t.Fatal("segmentos paralelos não deveriam se cruzar")
	}

	if _, _, ok := SegmentIntersection(0, 0, 1, 1, 5, 0, 5, 10); ok {
		t.Fatal("interseção fora do intervalo paramétrico deveria falhar")
	}
}

func TestRotatedBounds(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 50}

	// Rotação de 90 graus troca largura e altura, mantendo o centro
	b := r.RotatedBounds(math.Pi / 2)
	if math.Abs(b.Width-50) > 1e-9 || math.Abs(b.Height-100) > 1e-9 {
		t.Errorf("bounds 90°: %+v", b)
	}
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	if math.Abs(cx-50) > 1e-9 || math.Abs(cy-25) > 1e-9 {
		t.Errorf("centro deslocado: (%v, %v)", cx, cy)
	}

	// Rotação nula é identidade
	if got := r.RotatedBounds(0); got != r {
		t.Errorf("bounds 0°: %+v", got)
	}
}
