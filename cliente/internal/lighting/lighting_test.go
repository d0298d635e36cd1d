package lighting

import (
	"math"
	"testing"

	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/tint"
)

func TestAttenuationExtremos(t *testing.T) {
	if a := Attenuation(0); a != 0 {
		t.Errorf("Attenuation(0) = %v", a)
	}
	if a := Attenuation(1); math.Abs(a-1) > 1e-12 {
		t.Errorf("Attenuation(1) = %v", a)
	}
	mid := Attenuation(0.5)
	if mid <= 0 || mid >= 1 {
		t.Errorf("Attenuation(0.5) fora de (0,1): %v", mid)
	}
	// Monótona crescente
	prev := 0.0
	for u := 0.1; u <= 1.0; u += 0.1 {
		v := Attenuation(u)
		if v < prev {
			t.Fatalf("Attenuation não monótona em %v", u)
		}
		prev = v
	}
}

func TestExposurePorPartes(t *testing.T) {
	tests := []struct{ lum, want float64 }{
		{-1, 0},
		{-0.5, 0.5},
		{0, -0.5},
		{0.25, -0.25},
		{0.5, 0},
		{0.8, 0.6},
		{1, 1},
	}
	for _, tt := range tests {
		if got := Exposure(tt.lum); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Exposure(%v) = %v, esperado %v", tt.lum, got, tt.want)
		}
	}
}

func TestIlluminationColorsLuz(t *testing.T) {
	p := DefaultPalette()

	// Luminosidade máxima: bright chega na claridade máxima
	_, bright := IlluminationColors(tint.Color(0xFFFFFF), 1, p, ModeBasic)
	if bright != p.Brightest {
		t.Errorf("bright = %s, esperado %s", bright.Hex(), p.Brightest.Hex())
	}

	// Luminosidade média: clamp(2·0.5−1)=0 mantém o bright pleno
	_, bright = IlluminationColors(tint.Color(0xFFFFFF), 0.5, p, ModeBasic)
	if bright != p.Bright {
		t.Errorf("bright em lum 0.5 = %s, esperado %s", bright.Hex(), p.Bright.Hex())
	}

	// Dim fica entre bright e o fundo
	dim, _ := IlluminationColors(tint.Color(0xFFFFFF), 0.5, p, ModeBasic)
	if dim == p.Bright || dim == p.Background {
		t.Errorf("dim deveria ser mistura, veio %s", dim.Hex())
	}
}

func TestIlluminationColorsEscuridao(t *testing.T) {
	p := DefaultPalette()
	dim, bright := IlluminationColors(tint.Color(0xFFFFFF), -0.8, p, ModeBasic)

	// Escuridão: dim (HALFDARK) deve ser mais claro que bright (DARKNESS)
	if dim.Floats()[0] < bright.Floats()[0] {
		t.Errorf("meio-tom %s deveria ser mais claro que o centro %s", dim.Hex(), bright.Hex())
	}
	// Ambos mais escuros que o fundo ambiente
	if dim.Floats()[0] >= p.Background.Floats()[0] {
		t.Errorf("escuridão não pode clarear o fundo: %s", dim.Hex())
	}
}

func TestDarkvisionRemapeiaDim(t *testing.T) {
	p := DefaultPalette()
	basicDim, _ := IlluminationColors(tint.Color(0xFFFFFF), 0.5, p, ModeBasic)
	darkDim, _ := IlluminationColors(tint.Color(0xFFFFFF), 0.5, p, ModeDarkvision)

	// Darkvision enxerga a penumbra como claridade plena
	if darkDim == basicDim {
		t.Error("darkvision deveria remapear o nível DIM")
	}
	if darkDim != p.Bright {
		t.Errorf("darkvision em DIM = %s, esperado %s", darkDim.Hex(), p.Bright.Hex())
	}
}

func TestModoPorID(t *testing.T) {
	if ModeByID("darkvision") != ModeDarkvision {
		t.Error("darkvision deveria resolver pelo id")
	}
	if ModeByID("monochromatic") != ModeMonochromatic {
		t.Error("monochromatic deveria resolver pelo id")
	}
	if ModeByID("") != ModeBasic || ModeByID("xray") != ModeBasic {
		t.Error("id vazio ou desconhecido cai no modo básico")
	}
}

func TestTrocaDeModoInvalidaUniforms(t *testing.T) {
	p := NewPipeline()
	lights := sources.NewCollection()
	s := lights.GetOrCreate("light.l1", sources.KindLight)
	s.Initialize(sources.Data{Radius: 100, Angle: 360}, nil)
	s.Reset = sources.ResetUniforms{}

	p.SetVisionMode(ModeDarkvision, lights)
	if !s.Reset.Illumination || !s.Reset.Coloration || !s.Reset.Background {
		t.Fatal("troca de modo deveria re-enviar os uniforms de todas as fontes")
	}

	// Repetir o mesmo modo não invalida de novo
	s.Reset = sources.ResetUniforms{}
	p.SetVisionMode(ModeDarkvision, lights)
	if s.Reset.Illumination {
		t.Fatal("modo repetido não deveria invalidar")
	}

	// nil volta ao básico
	p.SetVisionMode(nil, lights)
	if !s.Reset.Illumination {
		t.Fatal("voltar ao básico deveria invalidar")
	}
}

func TestRemapPassaDireto(t *testing.T) {
	if ModeBasic.Remap(LevelDim) != LevelDim {
		t.Error("modo básico não remapeia")
	}
	if ModeDarkvision.Remap(LevelBright) != LevelBright {
		t.Error("nível fora da tabela passa direto")
	}
}

func TestBlendPorCanal(t *testing.T) {
	if b := blendFor(ChannelBackground, false); b.eqRGB != glMax {
		t.Error("background sempre acumula por MAX")
	}
	if b := blendFor(ChannelIllumination, false); b.eqRGB != glMax {
		t.Error("iluminação de luz usa MAX")
	}
	if b := blendFor(ChannelIllumination, true); b.eqRGB != glMin {
		t.Error("iluminação de escuridão usa MIN")
	}
	if b := blendFor(ChannelColoration, false); b.eqRGB != glFuncAdd || b.dstRGB != glOneMinusSrcColor {
		t.Error("coloração de luz usa SCREEN")
	}
	if b := blendFor(ChannelColoration, true); b.srcRGB != glDstColor || b.dstRGB != glZero {
		t.Error("coloração de escuridão usa MULTIPLY")
	}
}

func TestAnimacaoDeEscuridao(t *testing.T) {
	d := NewDarknessAnimation(0)

	// Duração zero aplica imediatamente
	d.Animate(0.6, 0)
	if level, animating := d.Advance(0); level != 0.6 || animating {
		t.Fatalf("aplicação imediata: level=%v animating=%v", level, animating)
	}

	// Transição monótona decrescente
	d.Animate(0.1, 1.0)
	prev := d.Level()
	for i := 0; i < 9; i++ {
		level, _ := d.Advance(0.1)
		if level > prev {
			t.Fatalf("transição deveria ser monótona: %v > %v", level, prev)
		}
		prev = level
	}
	level, animating := d.Advance(0.5)
	if level != 0.1 || animating {
		t.Fatalf("transição deveria ter terminado em 0.1: level=%v", level)
	}
}

func TestAnimacaoSubstituida(t *testing.T) {
	d := NewDarknessAnimation(0)
	d.Animate(1.0, 10)
	d.Advance(1) // ~0.1

	// Novo alvo cancela o anterior e parte do nível corrente
	d.Animate(0, 1)
	for i := 0; i < 20; i++ {
		d.Advance(0.1)
	}
	if d.Level() != 0 || d.Animating() {
		t.Fatalf("novo alvo deveria valer: level=%v", d.Level())
	}
}

func TestOnChangeNotifica(t *testing.T) {
	d := NewDarknessAnimation(0)
	var got []float64
	d.OnChange = func(level float64) { got = append(got, level) }

	d.Animate(1, 0)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("OnChange imediato: %v", got)
	}
}

func TestTecnicaDeColoracao(t *testing.T) {
	if technique("pulse") != 1 || technique("flame") != 2 || technique("torch") != 2 || technique("") != 0 {
		t.Fatal("mapeamento de técnica incorreto")
	}
}

func TestClampPaleta(t *testing.T) {
	// Fonte colorida tinge o bright
	p := DefaultPalette()
	_, bright := IlluminationColors(tint.Color(0xFF0000), 1, p, ModeBasic)
	f := bright.Floats()
	if f[1] != 0 || f[2] != 0 {
		t.Errorf("luz vermelha deveria zerar G/B: %s", bright.Hex())
	}
}
