// Package sources implementa as fontes pontuais derivadas dos
// posicionáveis: luz, visão, som e movimento. Cada fonte possui um
// polígono de linha-de-visada (LOS) recalculado contra as paredes da
// cena e flags de uniforms por canal de renderização.
package sources

import (
	"math"

	"TabletopVision/shared/geom"
	"TabletopVision/shared/tint"
)

// Kind classifica a fonte pontual.
type Kind string

const (
	KindLight     Kind = "light"
	KindVision    Kind = "vision"
	KindSound     Kind = "sound"
	KindMove      Kind = "move"
	KindUniversal Kind = "universal" // luz global da cena
)

// Segment é um trecho de parede relevante para um tipo de restrição.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Environment fornece à fonte a geometria da cena no momento do cálculo.
type Environment interface {
	// Walls retorna os segmentos que bloqueiam o tipo de fonte dado.
	Walls(kind Kind) []Segment
	// SceneRect é o retângulo jogável da cena.
	SceneRect() geom.Rect
	// DarknessLevel é o nível de escuridão corrente da cena em [0,1].
	DarknessLevel() float64
}

// Data é a configuração de entrada de uma fonte; Initialize substitui
// a configuração anterior por inteiro.
type Data struct {
	X, Y      float64
	Radius    float64 // raio total (dim)
	Bright    float64 // raio do anel forte; Ratio = Bright/Radius
	Angle     float64 // abertura em graus; >= 360 é omnidirecional
	Rotation  float64
	Elevation float64

	WallsConstrain bool
	Luminosity     float64 // negativo = fonte de escuridão
	Color          tint.Color
	Alpha          float64
	Attenuation    float64
	Contrast       float64
	Saturation     float64
	Shadows        float64

	AnimationType      string
	AnimationSpeed     float64
	AnimationIntensity float64
	AnimationReverse   bool
	AnimationSeed      int64

	// Preferred marca a fonte de visão cujo modo assume o composite;
	// VisionMode é o id do modo configurado no token de origem.
	Preferred  bool
	VisionMode string
}

// ResetUniforms são os bits de sujeira por canal: um canal re-envia
// seus uniforms sem invalidar o quadro corrente dos outros.
type ResetUniforms struct {
	Background   bool
	Illumination bool
	Coloration   bool
}

// Source é uma fonte pontual com LOS computado.
type Source struct {
	ID   string
	Kind Kind
	Data Data

	// Derivados
	IsDarkness bool
	Ratio      float64 // bright/radius em [0,1]

	// Polígono de linha-de-visada; sempre fechado quando não vazio
	LOS *geom.Polygon

	// Estado de animação (seed persistida para estabilidade entre quadros)
	animTime        float64
	BrightnessPulse float64
	RatioPulse      float64
	noise           *smoothNoise

	Reset     ResetUniforms
	destroyed bool

	// OnDestroy libera recursos de renderização presos à fonte (malhas).
	OnDestroy func()
}

// NewSource cria uma fonte vazia de um tipo; Initialize a torna útil.
func NewSource(id string, kind Kind) *Source {
	return &Source{ID: id, Kind: kind, LOS: &geom.Polygon{}}
}

// losEpsilon é a tolerância de aproximação radial dos polígonos.
const losEpsilon = 1.0

// Initialize substitui a configuração da fonte e recalcula o LOS.
// A seed de animação existente é preservada para não "pular" o fogo.
func (s *Source) Initialize(data Data, env Environment) {
	if data.AnimationSeed == 0 && s.Data.AnimationSeed != 0 {
		data.AnimationSeed = s.Data.AnimationSeed
	}
	if data.AnimationSeed == 0 {
		data.AnimationSeed = defaultSeed(s.ID)
	}
	animChanged := data.AnimationType != s.Data.AnimationType ||
		data.AnimationSeed != s.Data.AnimationSeed

	s.Data = data
	s.IsDarkness = data.Luminosity < 0
	if data.Radius > 0 {
		s.Ratio = clamp01(data.Bright / data.Radius)
	} else {
		s.Ratio = 0
	}
	s.destroyed = false

	s.computeLOS(env)

	if animChanged || s.noise == nil {
		s.noise = newSmoothNoise(data.AnimationSeed)
	}
	s.BrightnessPulse = 1
	s.RatioPulse = s.Ratio

	// Toda inicialização invalida os três canais
	s.Reset = ResetUniforms{Background: true, Illumination: true, Coloration: true}
}

// computeLOS escolhe a estratégia do polígono de visada.
func (s *Source) computeLOS(env Environment) {
	switch {
	case s.Kind == KindUniversal:
		// Luz global: o retângulo da cena é o LOS, elevação infinita
		if env != nil {
			s.LOS = env.SceneRect().ToPolygon()
		}
		s.Data.Elevation = math.Inf(1)
	case s.Data.Radius <= 0:
		s.LOS = &geom.Polygon{}
	case s.Data.WallsConstrain && env != nil:
		s.LOS = Sweep(s.Data.X, s.Data.Y, s.Data.Radius, s.Data.Angle, s.Data.Rotation,
			env.Walls(s.Kind), losEpsilon)
	default:
		s.LOS = geom.WedgeToPolygon(s.Data.X, s.Data.Y, s.Data.Radius, losEpsilon,
			s.Data.Angle, s.Data.Rotation)
	}
}

// RefreshSource re-envia os uniforms sem regenerar o polígono.
func (s *Source) RefreshSource() {
	s.Reset = ResetUniforms{Background: true, Illumination: true, Coloration: true}
}

// Destroy libera o polígono e os recursos de renderização.
func (s *Source) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.LOS = &geom.Polygon{}
	if s.OnDestroy != nil {
		s.OnDestroy()
		s.OnDestroy = nil
	}
}

// Destroyed informa se a fonte já foi liberada.
func (s *Source) Destroyed() bool { return s.destroyed }

// Disabled indica que a fonte não contribui (raio zero ou destruída).
func (s *Source) Disabled() bool {
	return s.destroyed || (s.Kind != KindUniversal && s.Data.Radius <= 0)
}

// ContainsPoint testa um ponto contra o LOS da fonte.
// Fontes desabilitadas nunca contêm nada.
func (s *Source) ContainsPoint(x, y float64) bool {
	if s.Disabled() || s.LOS == nil || s.LOS.IsEmpty() {
		return false
	}
	return s.LOS.Contains(x, y)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// defaultSeed deriva uma seed estável do id da fonte (FNV-1a).
func defaultSeed(id string) int64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= 1099511628211
	}
	seed := int64(h & 0x7FFFFFFF)
	if seed == 0 {
		seed = 1
	}
	return seed
}
