// Package tint implementa a cor de 24 bits usada pelos canais de
// iluminação e as conversões entre Hex, RGB e HSV.
package tint

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color é uma cor RGB empacotada em 24 bits (0xRRGGBB).
type Color uint32

// Cores de referência do ambiente de iluminação.
const (
	White Color = 0xFFFFFF
	Black Color = 0x000000
)

// R retorna o canal vermelho em [0,1].
func (c Color) R() float64 { return float64(c>>16&0xFF) / 255 }

// G retorna o canal verde em [0,1].
func (c Color) G() float64 { return float64(c>>8&0xFF) / 255 }

// B retorna o canal azul em [0,1].
func (c Color) B() float64 { return float64(c&0xFF) / 255 }

// Floats retorna os três canais em [0,1], na ordem r, g, b.
func (c Color) Floats() [3]float64 {
	return [3]float64{c.R(), c.G(), c.B()}
}

// Hex formata a cor como "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c&0xFFFFFF))
}

// FromHex interpreta uma string "#rrggbb". Strings inválidas retornam
// preto e ok=false.
func FromHex(s string) (Color, bool) {
	parsed, err := colorful.Hex(s)
	if err != nil {
		return Black, false
	}
	return FromRGB(parsed.R, parsed.G, parsed.B), true
}

// FromRGB monta uma cor a partir de canais em [0,1], com clamp.
func FromRGB(r, g, b float64) Color {
	return Color(channelByte(r))<<16 | Color(channelByte(g))<<8 | Color(channelByte(b))
}

// FromHSV monta uma cor a partir de matiz (graus), saturação e valor.
func FromHSV(h, s, v float64) Color {
	c := colorful.Hsv(h, clamp01(s), clamp01(v))
	return FromRGB(c.R, c.G, c.B)
}

// HSV converte a cor para matiz (graus), saturação e valor.
func (c Color) HSV() (h, s, v float64) {
	return colorful.Color{R: c.R(), G: c.G(), B: c.B()}.Hsv()
}

// Mix interpola canal a canal em direção a other pelo peso w em [0,1].
func (c Color) Mix(other Color, w float64) Color {
	w = clamp01(w)
	return FromRGB(
		c.R()+(other.R()-c.R())*w,
		c.G()+(other.G()-c.G())*w,
		c.B()+(other.B()-c.B())*w,
	)
}

// Multiply multiplica canal a canal.
func (c Color) Multiply(other Color) Color {
	return FromRGB(c.R()*other.R(), c.G()*other.G(), c.B()*other.B())
}

// Add soma canal a canal com clamp em 1.
func (c Color) Add(other Color) Color {
	return FromRGB(c.R()+other.R(), c.G()+other.G(), c.B()+other.B())
}

// Subtract subtrai canal a canal com clamp em 0.
func (c Color) Subtract(other Color) Color {
	return FromRGB(c.R()-other.R(), c.G()-other.G(), c.B()-other.B())
}

// Minimize mantém o menor valor de cada canal.
func (c Color) Minimize(other Color) Color {
	return FromRGB(
		min(c.R(), other.R()),
		min(c.G(), other.G()),
		min(c.B(), other.B()),
	)
}

// Maximize mantém o maior valor de cada canal.
func (c Color) Maximize(other Color) Color {
	return FromRGB(
		max(c.R(), other.R()),
		max(c.G(), other.G()),
		max(c.B(), other.B()),
	)
}

// channelByte converte um canal [0,1] para byte com clamp e arredondamento.
func channelByte(v float64) uint8 {
	v = clamp01(v)
	return uint8(v*255 + 0.5)
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
