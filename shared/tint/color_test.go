package tint

import (
	"math"
	"testing"
)

func TestHexRoundTrip(t *testing.T) {
	tests := []string{"#ffffff", "#000000", "#ff8040", "#123456"}

	for _, hex := range tests {
		c, ok := FromHex(hex)
		if !ok {
			t.Fatalf("FromHex(%q) falhou", hex)
		}
		if got := c.Hex(); got != hex {
			t.Errorf("round-trip hex: %q -> %q", hex, got)
		}
	}

	if _, ok := FromHex("não-é-cor"); ok {
		t.Fatal("string inválida deveria falhar")
	}
}

func TestRGBRoundTrip(t *testing.T) {
	// Canais quantizados em 1/255 sobrevivem ao round-trip exato
	for _, v := range []float64{0, 64.0 / 255, 128.0 / 255, 1} {
		c := FromRGB(v, v, v)
		if math.Abs(c.R()-v) > 1.0/510 {
			t.Errorf("canal R: %v -> %v", v, c.R())
		}
	}
}

func TestHSVRoundTrip(t *testing.T) {
	c, _ := FromHex("#ff8040")
	h, s, v := c.HSV()
	back := FromHSV(h, s, v)
	// Tolerância de 1 passo de quantização por canal
	if math.Abs(back.R()-c.R()) > 1.0/255 ||
		math.Abs(back.G()-c.G()) > 1.0/255 ||
		math.Abs(back.B()-c.B()) > 1.0/255 {
		t.Fatalf("round-trip HSV: %s -> %s", c.Hex(), back.Hex())
	}
}

func TestOperacoesComClamp(t *testing.T) {
	a := FromRGB(0.8, 0.8, 0.8)
	b := FromRGB(0.5, 0.5, 0.5)

	if got := a.Add(b); got != White {
		t.Errorf("Add com clamp = %s, esperado #ffffff", got.Hex())
	}
	if got := b.Subtract(a); got != Black {
		t.Errorf("Subtract com clamp = %s, esperado #000000", got.Hex())
	}
	if got := a.Minimize(b); math.Abs(got.R()-0.5) > 1.0/255 {
		t.Errorf("Minimize = %s", got.Hex())
	}
	if got := b.Maximize(a); math.Abs(got.R()-0.8) > 1.0/255 {
		t.Errorf("Maximize = %s", got.Hex())
	}
}

func TestMix(t *testing.T) {
	got := Black.Mix(White, 0.5)
	if math.Abs(got.R()-0.5) > 1.0/255 {
		t.Errorf("Mix(0.5) = %v", got.R())
	}
	if Black.Mix(White, 0) != Black {
		t.Error("Mix(0) deveria manter a cor original")
	}
	if Black.Mix(White, 1) != White {
		t.Error("Mix(1) deveria chegar na cor alvo")
	}
}

func TestMultiply(t *testing.T) {
	half := FromRGB(0.5, 0.5, 0.5)
	got := White.Multiply(half)
	if math.Abs(got.G()-0.5) > 1.0/255 {
		t.Errorf("Multiply = %s", got.Hex())
	}
	if got := Black.Multiply(White); got != Black {
		t.Errorf("Multiply por preto = %s", got.Hex())
	}
}

func TestFloats(t *testing.T) {
	c, _ := FromHex("#ff0080")
	f := c.Floats()
	if f[0] != 1 || f[1] != 0 || math.Abs(f[2]-128.0/255) > 1e-12 {
		t.Fatalf("Floats = %v", f)
	}
}
