package sources

import (
	"math"
	"testing"

	"TabletopVision/shared/geom"
)

type fakeEnv struct {
	walls    []Segment
	rect     geom.Rect
	darkness float64
}

func (e *fakeEnv) Walls(Kind) []Segment      { return e.walls }
func (e *fakeEnv) SceneRect() geom.Rect      { return e.rect }
func (e *fakeEnv) DarknessLevel() float64    { return e.darkness }

func TestSweepSemParedesViraCirculo(t *testing.T) {
	poly := Sweep(0, 0, 200, 360, 0, nil, 1)
	if poly.IsEmpty() || !poly.IsClosed() {
		t.Fatal("varrimento sem paredes deveria ser o círculo fechado")
	}
	want := geom.ApproximateVertexDensity(200, 1) + 1
	if poly.VertexCount() != want {
		t.Fatalf("vértices = %d, esperado %d", poly.VertexCount(), want)
	}
}

func TestSweepParedeBloqueiaSombra(t *testing.T) {
	// Parede horizontal abaixo da fonte
	walls := []Segment{{X1: 400, Y1: 500, X2: 600, Y2: 500}}
	poly := Sweep(500, 400, 300, 360, 0, walls, 1)
	if poly.IsEmpty() || !poly.IsClosed() {
		t.Fatal("polígono inválido")
	}

	// Todo vértice na faixa angular da parede (45°..135°) fica na parede
	lo, hi := math.Pi/4+1e-4, 3*math.Pi/4-1e-4
	for i := 0; i+1 < len(poly.Points); i += 2 {
		x, y := poly.Points[i], poly.Points[i+1]
		theta := math.Atan2(y-400, x-500)
		if theta > lo && theta < hi && y > 500+1e-3 {
			t.Fatalf("vértice (%.3f, %.3f) atravessou a parede", x, y)
		}
	}

	if !poly.Contains(500, 450) {
		t.Error("ponto entre a fonte e a parede deveria estar no LOS")
	}
	if poly.Contains(500, 550) {
		t.Error("ponto atrás da parede não deveria estar no LOS")
	}
	// Fora da faixa da parede o raio alcança o círculo normalmente
	if !poly.Contains(700, 400) {
		t.Error("ponto lateral livre deveria estar no LOS")
	}
}

func TestSweepRaioNulo(t *testing.T) {
	if poly := Sweep(0, 0, 0, 360, 0, nil, 1); !poly.IsEmpty() {
		t.Fatal("raio nulo deveria produzir polígono vazio")
	}
}

func TestInitializeDerivados(t *testing.T) {
	env := &fakeEnv{rect: geom.Rect{Width: 1000, Height: 1000}}
	s := NewSource("light.a", KindLight)
	s.Initialize(Data{X: 100, Y: 100, Radius: 200, Bright: 100, Angle: 360, Luminosity: -0.5}, env)

	if !s.IsDarkness {
		t.Error("luminosidade negativa deveria marcar fonte de escuridão")
	}
	if s.Ratio != 0.5 {
		t.Errorf("ratio = %v, esperado 0.5", s.Ratio)
	}
	if s.LOS.IsEmpty() {
		t.Error("LOS não deveria ser vazio")
	}
	if !s.Reset.Background || !s.Reset.Illumination || !s.Reset.Coloration {
		t.Error("Initialize deveria invalidar os três canais")
	}
}

func TestInitializePreservaSeed(t *testing.T) {
	env := &fakeEnv{}
	s := NewSource("light.b", KindLight)
	s.Initialize(Data{Radius: 100, AnimationType: AnimFlame, AnimationSeed: 42}, env)
	s.Initialize(Data{Radius: 150, AnimationType: AnimFlame}, env)
	if s.Data.AnimationSeed != 42 {
		t.Fatalf("seed = %d, deveria preservar 42", s.Data.AnimationSeed)
	}
}

func TestFonteUniversal(t *testing.T) {
	env := &fakeEnv{rect: geom.Rect{X: 0, Y: 0, Width: 2000, Height: 1500}}
	s := NewSource("scene.global", KindUniversal)
	s.Initialize(Data{}, env)

	if s.Disabled() {
		t.Fatal("fonte universal nunca é desabilitada por raio")
	}
	if !math.IsInf(s.Data.Elevation, 1) {
		t.Error("fonte universal deveria ter elevação infinita")
	}
	if !s.ContainsPoint(1000, 750) {
		t.Error("centro da cena deveria estar no LOS global")
	}
	if s.ContainsPoint(2500, 750) {
		t.Error("ponto fora da cena não deveria estar no LOS global")
	}
}

func TestDestroyIdempotente(t *testing.T) {
	s := NewSource("light.c", KindLight)
	s.Initialize(Data{Radius: 100}, &fakeEnv{})

	calls := 0
	s.OnDestroy = func() { calls++ }
	s.Destroy()
	s.Destroy()
	if calls != 1 {
		t.Fatalf("OnDestroy chamado %d vezes", calls)
	}
	if !s.Disabled() || s.ContainsPoint(0, 0) {
		t.Error("fonte destruída deveria estar desabilitada e sem LOS")
	}
}

func TestAnimacaoDeterministica(t *testing.T) {
	env := &fakeEnv{}
	mk := func() *Source {
		s := NewSource("x", KindLight)
		s.Initialize(Data{Radius: 100, Bright: 50, AnimationType: AnimFlame,
			AnimationSeed: 7, AnimationSpeed: 5, AnimationIntensity: 5}, env)
		return s
	}
	a, b := mk(), mk()
	for i := 0; i < 10; i++ {
		a.Animate(0.016, false)
		b.Animate(0.016, false)
	}
	if a.BrightnessPulse != b.BrightnessPulse {
		t.Fatalf("mesma seed deveria dar o mesmo pulso: %v != %v", a.BrightnessPulse, b.BrightnessPulse)
	}
	if a.BrightnessPulse <= 0 {
		t.Error("pulso deveria ser positivo")
	}
}

func TestAnimacaoFotossensivel(t *testing.T) {
	s := NewSource("x", KindLight)
	s.Initialize(Data{Radius: 100, Bright: 50, AnimationType: AnimPulse,
		AnimationSpeed: 10, AnimationIntensity: 10}, &fakeEnv{})
	for i := 0; i < 30; i++ {
		s.Animate(0.016, true)
	}
	if s.BrightnessPulse != 1 || s.RatioPulse != s.Ratio {
		t.Fatal("modo fotossensível deveria suprimir a modulação")
	}
}

func TestCollectionOrdenada(t *testing.T) {
	c := NewCollection()
	for _, id := range []string{"light.c", "light.a", "token.b"} {
		s := c.GetOrCreate(id, KindLight)
		s.Initialize(Data{Radius: 10}, &fakeEnv{})
	}

	var order []string
	c.ForEach(func(s *Source) { order = append(order, s.ID) })
	want := []string{"light.a", "light.c", "token.b"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ordem = %v, esperado %v", order, want)
		}
	}

	c.Delete("light.a")
	if c.Len() != 2 || c.Get("light.a") != nil {
		t.Fatal("Delete não removeu a fonte")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatal("Clear deveria esvaziar a coleção")
	}
}

func TestActivePulaDesabilitadas(t *testing.T) {
	c := NewCollection()
	on := c.GetOrCreate("a", KindLight)
	on.Initialize(Data{Radius: 100}, &fakeEnv{})
	off := c.GetOrCreate("b", KindLight)
	off.Initialize(Data{Radius: 0}, &fakeEnv{})

	count := 0
	c.Active(func(*Source) { count++ })
	if count != 1 {
		t.Fatalf("Active visitou %d fontes, esperado 1", count)
	}
}
