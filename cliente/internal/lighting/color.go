// Package lighting implementa o pipeline de iluminação multi-pass:
// três malhas por fonte (background, illumination, coloration) com
// shaders e blends próprios, a seleção de cores por nível de
// iluminação e a animação do nível de escuridão da cena.
package lighting

import (
	"math"

	"TabletopVision/shared/tint"
)

// Attenuation mapeia o controle do usuário em [0,1] para o peso de
// decaimento suave consumido pelos shaders.
func Attenuation(u float64) float64 {
	return (math.Cos(math.Pi*math.Pow(u, 1.5)) - 1) / -2
}

// Exposure deriva a exposição do canal de fundo da luminosidade.
func Exposure(luminosity float64) float64 {
	switch {
	case luminosity < 0:
		return luminosity + 1
	case luminosity < 0.5:
		return luminosity - 0.5
	default:
		return (luminosity - 0.5) * 2
	}
}

// LightingLevel é um nível discreto de iluminação percebida.
type LightingLevel int

const (
	LevelDarkness LightingLevel = iota
	LevelHalfdark
	LevelDim
	LevelBright
	LevelBrightest
)

// VisionMode remapeia níveis de iluminação: o que a fonte de visão
// ativa percebe em cada nível físico.
type VisionMode struct {
	ID     string
	Levels map[LightingLevel]LightingLevel
}

// Remap devolve o nível percebido; níveis fora da tabela passam direto.
func (m *VisionMode) Remap(level LightingLevel) LightingLevel {
	if m == nil || m.Levels == nil {
		return level
	}
	if mapped, ok := m.Levels[level]; ok {
		return mapped
	}
	return level
}

// Modos de visão embutidos.
var (
	// ModeBasic percebe os níveis como são.
	ModeBasic = &VisionMode{ID: "basic"}

	// ModeDarkvision enxerga penumbra como claridade plena e
	// escuridão como penumbra.
	ModeDarkvision = &VisionMode{ID: "darkvision", Levels: map[LightingLevel]LightingLevel{
		LevelDim:      LevelBright,
		LevelHalfdark: LevelDim,
		LevelDarkness: LevelHalfdark,
	}}

	// ModeMonochromatic aplana tudo que é visível em penumbra.
	ModeMonochromatic = &VisionMode{ID: "monochromatic", Levels: map[LightingLevel]LightingLevel{
		LevelBright:    LevelDim,
		LevelBrightest: LevelDim,
	}}
)

// ModeByID resolve um modo de visão pelo id; ids desconhecidos (ou
// vazios) caem no modo básico.
func ModeByID(id string) *VisionMode {
	switch id {
	case ModeDarkvision.ID:
		return ModeDarkvision
	case ModeMonochromatic.ID:
		return ModeMonochromatic
	}
	return ModeBasic
}

// Palette são as cores ambiente da cena usadas na seleção de cor.
type Palette struct {
	Background tint.Color // cor ambiente do fundo iluminado
	Bright     tint.Color // claridade plena
	Brightest  tint.Color // claridade máxima (luz global diurna)
	Mid        tint.Color // meio-tom da penumbra escura
	Black      tint.Color // escuridão total
}

// DefaultPalette reproduz os tons ambiente padrão do motor.
func DefaultPalette() Palette {
	return Palette{
		Background: tint.Color(0x999999),
		Bright:     tint.Color(0xFFFFFF),
		Brightest:  tint.Color(0xFFFFFF),
		Mid:        tint.Color(0x242448),
		Black:      tint.Color(0x0F0F1F),
	}
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

// IlluminationColors resolve as cores dim/bright do canal de
// iluminação de uma fonte.
//
// Fonte de escuridão: meio-tom e preto são misturados por uma curva de
// potência sobre |luminosidade| e a consulta ao modo de visão é feita
// em HALFDARK/DARKNESS. Fonte de luz: o bright mistura claridade plena
// e máxima por clamp(2·lum−1, 0, 1), o dim pesa o bright contra o
// fundo, e a consulta é feita em DIM/BRIGHT.
func IlluminationColors(color tint.Color, luminosity float64, p Palette, mode *VisionMode) (dim, bright tint.Color) {
	if luminosity < 0 {
		strength := math.Pow(math.Abs(luminosity), 0.5)
		mid := p.Mid.Mix(p.Black, strength)
		black := p.Black.Mix(mid, 0.25)
		resolve := func(level LightingLevel) tint.Color {
			switch level {
			case LevelDarkness:
				return black
			case LevelHalfdark:
				return mid
			case LevelDim:
				return p.Background
			case LevelBright:
				return p.Bright
			default:
				return p.Brightest
			}
		}
		return resolve(mode.Remap(LevelHalfdark)), resolve(mode.Remap(LevelDarkness))
	}

	brightC := p.Bright.Mix(p.Brightest, clamp01(2*luminosity-1)).Multiply(color)
	dimC := brightC.Mix(p.Background, 0.5)
	resolve := func(level LightingLevel) tint.Color {
		switch level {
		case LevelDarkness:
			return p.Black
		case LevelHalfdark:
			return p.Mid
		case LevelDim:
			return dimC
		case LevelBright:
			return brightC
		default:
			return p.Brightest
		}
	}
	return resolve(mode.Remap(LevelDim)), resolve(mode.Remap(LevelBright))
}
