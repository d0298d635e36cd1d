package sources

import (
	"math"
	"math/rand"
)

// smoothNoise gera ruído de valor suavizado e determinístico por seed.
// É a base das animações de chama: alvos aleatórios interpolados por
// cosseno, sem saltos visíveis entre quadros.
type smoothNoise struct {
	rng      *rand.Rand
	prev     float64
	next     float64
	progress float64
}

func newSmoothNoise(seed int64) *smoothNoise {
	rng := rand.New(rand.NewSource(seed))
	n := &smoothNoise{rng: rng}
	n.prev = rng.Float64()
	n.next = rng.Float64()
	return n
}

// Step avança o ruído e retorna um valor em [0,1].
func (n *smoothNoise) Step(dt float64) float64 {
	n.progress += dt
	for n.progress >= 1 {
		n.progress -= 1
		n.prev = n.next
		n.next = n.rng.Float64()
	}
	// Interpolação cossenoidal entre os dois alvos correntes
	t := (1 - math.Cos(n.progress*math.Pi)) / 2
	return n.prev + (n.next-n.prev)*t
}

// Tipos de animação reconhecidos. Tipos desconhecidos ficam estáticos.
const (
	AnimFlame = "flame"
	AnimTorch = "torch"
	AnimPulse = "pulse"
	AnimTime  = "time"
)

// Animate avança o estado temporal da fonte em dt segundos, modulando
// BrightnessPulse e RatioPulse conforme o tipo configurado.
// Com photosensitive=true toda modulação é suprimida.
func (s *Source) Animate(dt float64, photosensitive bool) {
	if s.Disabled() || s.Data.AnimationType == "" {
		return
	}
	speed := s.Data.AnimationSpeed
	if speed <= 0 {
		speed = 5
	}
	intensity := s.Data.AnimationIntensity
	if intensity <= 0 {
		intensity = 5
	}
	if s.Data.AnimationReverse {
		dt = -dt
	}
	s.animTime += dt * speed

	if photosensitive {
		s.BrightnessPulse = 1
		s.RatioPulse = s.Ratio
		return
	}

	amp := intensity / 10 * 0.4 // intensidade 10 = ±40%
	switch s.Data.AnimationType {
	case AnimFlame, AnimTorch:
		v := s.noise.Step(math.Abs(dt) * speed)
		s.BrightnessPulse = 1 - amp/2 + v*amp
		s.RatioPulse = clamp01(s.Ratio * s.BrightnessPulse)
	case AnimPulse:
		v := (math.Cos(s.animTime) + 1) / 2
		s.BrightnessPulse = 1 - amp + v*amp
		s.RatioPulse = clamp01(s.Ratio * s.BrightnessPulse)
	case AnimTime:
		// Só a fase temporal avança; os shaders leem AnimTime
		s.BrightnessPulse = 1
		s.RatioPulse = s.Ratio
	default:
		s.BrightnessPulse = 1
		s.RatioPulse = s.Ratio
	}
}

// AnimTime expõe a fase temporal corrente para os uniforms dos shaders.
func (s *Source) AnimTime() float64 { return s.animTime }
