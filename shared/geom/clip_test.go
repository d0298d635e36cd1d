package geom

import (
	"math"
	"testing"
)

func square(x, y, size float64) *Polygon {
	p := NewPolygon(x, y, x+size, y, x+size, y+size, x, y+size)
	p.Close()
	return p
}

func TestClipIntersect(t *testing.T) {
	a := square(0, 0, 100)
	b := square(50, 50, 100)

	got := Clip(a, b, ClipIntersect, 1)
	if got.IsEmpty() {
		t.Fatal("interseção não deveria ser vazia")
	}
	bounds := got.Bounds()
	if math.Abs(bounds.X-50) > 1 || math.Abs(bounds.Y-50) > 1 ||
		math.Abs(bounds.Width-50) > 1 || math.Abs(bounds.Height-50) > 1 {
		t.Fatalf("bounds da interseção: %+v", bounds)
	}
	if !got.IsClosed() {
		t.Fatal("resultado do recorte deve ser fechado")
	}
}

func TestClipSemSolucao(t *testing.T) {
	a := square(0, 0, 10)
	b := square(100, 100, 10)

	got := Clip(a, b, ClipIntersect, 1)
	if got == nil {
		t.Fatal("recorte nunca deve retornar nil")
	}
	if !got.IsEmpty() {
		t.Fatalf("interseção disjunta deveria ser vazia: %d vértices", got.VertexCount())
	}
}

func TestClipIdempotente(t *testing.T) {
	// clip(clip(P,Q), Q) == clip(P,Q) a menos do arredondamento de escala
	a := square(0, 0, 100)
	b := square(30, 30, 100)

	once := Clip(a, b, ClipIntersect, 100)
	twice := Clip(once, b, ClipIntersect, 100)

	ba, bb := once.Bounds(), twice.Bounds()
	tol := 2.0 / 100.0 // 2x o erro de escala
	if math.Abs(ba.X-bb.X) > tol || math.Abs(ba.Y-bb.Y) > tol ||
		math.Abs(ba.Width-bb.Width) > tol || math.Abs(ba.Height-bb.Height) > tol {
		t.Fatalf("recorte não idempotente: %+v vs %+v", ba, bb)
	}
}

func TestClipUnionEDifference(t *testing.T) {
	a := square(0, 0, 100)
	b := square(50, 0, 100)

	union := Clip(a, b, ClipUnion, 1)
	ub := union.Bounds()
	if math.Abs(ub.Width-150) > 1 || math.Abs(ub.Height-100) > 1 {
		t.Errorf("bounds da união: %+v", ub)
	}

	diff := Clip(a, b, ClipDifference, 1)
	db := diff.Bounds()
	if math.Abs(db.Width-50) > 1 || math.Abs(db.Height-100) > 1 {
		t.Errorf("bounds da diferença: %+v", db)
	}
}

func TestClipRect(t *testing.T) {
	a := square(0, 0, 100)
	got := ClipRect(a, Rect{X: 25, Y: 25, Width: 200, Height: 200}, ClipIntersect, 1)
	b := got.Bounds()
	if math.Abs(b.X-25) > 1 || math.Abs(b.Width-75) > 1 {
		t.Fatalf("bounds: %+v", b)
	}
}
