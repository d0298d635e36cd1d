package lighting

import (
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/geom"
)

// meshEntry é a geometria compartilhada pelos três canais de uma
// fonte: o leque de triângulos do LOS, convertido uma única vez.
type meshEntry struct {
	los   *geom.Polygon // identidade do polígono de origem
	verts []rl.Vector2
}

// Pipeline desenha as fontes de luz em três texturas de canal e as
// entrega ao composite.
type Pipeline struct {
	W, H int32

	Background   rl.RenderTexture2D
	Illumination rl.RenderTexture2D
	Coloration   rl.RenderTexture2D

	shBackground   rl.Shader
	shIllumination rl.Shader
	shColoration   rl.Shader

	palette    Palette
	visionMode *VisionMode
	Darkness   *DarknessAnimation

	meshes      map[string]*meshEntry
	shutdown    bool
	initialized bool
}

// NewPipeline cria o pipeline parado com a paleta padrão.
func NewPipeline() *Pipeline {
	return &Pipeline{
		palette:    DefaultPalette(),
		visionMode: ModeBasic,
		Darkness:   NewDarknessAnimation(0),
		meshes:     make(map[string]*meshEntry),
	}
}

// SetVisionMode troca o modo de visão ativo (da fonte preferida) e
// invalida os uniforms de cor de todas as fontes.
func (p *Pipeline) SetVisionMode(mode *VisionMode, lights *sources.Collection) {
	if mode == nil {
		mode = ModeBasic
	}
	if mode == p.visionMode {
		return
	}
	p.visionMode = mode
	lights.ForEach(func(s *sources.Source) { s.RefreshSource() })
}

// Palette expõe a paleta ambiente corrente.
func (p *Pipeline) Palette() Palette { return p.palette }

// Initialize carrega os shaders e aloca as texturas de canal.
func (p *Pipeline) Initialize(w, h int32) error {
	p.W, p.H = w, h
	if !rl.IsWindowReady() {
		return nil
	}
	p.teardownGPU()

	p.shBackground = rl.LoadShaderFromMemory(vertexShader, backgroundShader)
	p.shIllumination = rl.LoadShaderFromMemory(vertexShader, illuminationShader)
	p.shColoration = rl.LoadShaderFromMemory(vertexShader, colorationShader)
	if p.shIllumination.ID == 0 {
		return fmt.Errorf("falha ao compilar shaders de iluminação")
	}

	p.Background = rl.LoadRenderTexture(w, h)
	p.Illumination = rl.LoadRenderTexture(w, h)
	p.Coloration = rl.LoadRenderTexture(w, h)
	p.initialized = true
	log.Printf("[Lighting] Pipeline inicializado (%dx%d)", w, h)
	return nil
}

// NotifyBlendChange suprime o próximo quadro: a troca de equação de
// blend no meio de um acúmulo produz um quadro corrompido.
func (p *Pipeline) NotifyBlendChange() { p.shutdown = true }

// meshFor devolve (e atualiza) o leque de vértices da fonte.
func (p *Pipeline) meshFor(s *sources.Source) []rl.Vector2 {
	m, ok := p.meshes[s.ID]
	if ok && m.los == s.LOS {
		return m.verts
	}
	n := s.LOS.VertexCount()
	if n < 3 {
		delete(p.meshes, s.ID)
		return nil
	}
	verts := make([]rl.Vector2, 0, n+1)
	verts = append(verts, rl.Vector2{X: float32(s.Data.X), Y: float32(s.Data.Y)})
	for i := 0; i < n; i++ {
		verts = append(verts, rl.Vector2{
			X: float32(s.LOS.Points[2*i]),
			Y: float32(s.LOS.Points[2*i+1]),
		})
	}
	p.meshes[s.ID] = &meshEntry{los: s.LOS, verts: verts}

	if s.OnDestroy == nil {
		id := s.ID
		s.OnDestroy = func() { delete(p.meshes, id) }
	}
	return verts
}

// technique deriva o seletor de técnica de coloração da animação.
func technique(animationType string) float64 {
	switch animationType {
	case sources.AnimPulse:
		return 1
	case sources.AnimFlame, sources.AnimTorch:
		return 2
	}
	return 0
}

// Render desenha todas as fontes ativas nos três canais.
// backgroundTex é a textura do grupo primário já composto.
func (p *Pipeline) Render(lights *sources.Collection, backgroundTex rl.Texture2D) {
	if !p.initialized || !rl.IsWindowReady() {
		return
	}
	if p.shutdown {
		// Quadro sacrificado após mudança de blend
		p.shutdown = false
		return
	}

	p.renderChannel(ChannelBackground, p.Background, lights, func(s *sources.Source) {
		p.pushCommon(p.shBackground, s)
		rl.SetShaderValueTexture(p.shBackground, rl.GetShaderLocation(p.shBackground, "texture0"), backgroundTex)
		p.setFloat(p.shBackground, "exposure", Exposure(s.Data.Luminosity))
		p.setFloat(p.shBackground, "contrast", s.Data.Contrast)
		p.setFloat(p.shBackground, "saturation", s.Data.Saturation)
		p.setFloat(p.shBackground, "shadows", s.Data.Shadows)
		p.setVec2(p.shBackground, "screenDimensions", float32(p.W), float32(p.H))
		s.Reset.Background = false
	})

	p.renderChannel(ChannelIllumination, p.Illumination, lights, func(s *sources.Source) {
		p.pushCommon(p.shIllumination, s)
		dim, bright := IlluminationColors(s.Data.Color, s.Data.Luminosity, p.palette, p.visionMode)
		p.setVec3(p.shIllumination, "colorDim", dim)
		p.setVec3(p.shIllumination, "colorBright", bright)
		s.Reset.Illumination = false
	})

	p.renderChannel(ChannelColoration, p.Coloration, lights, func(s *sources.Source) {
		p.pushCommon(p.shColoration, s)
		p.setVec3(p.shColoration, "tintColor", s.Data.Color)
		p.setFloat(p.shColoration, "colorAlpha", s.Data.Alpha*s.BrightnessPulse)
		p.setFloat(p.shColoration, "technique", technique(s.Data.AnimationType))
		p.setFloat(p.shColoration, "time", s.AnimTime())
		p.setFloat(p.shColoration, "intensity", s.Data.AnimationIntensity)
		s.Reset.Coloration = false
	})
}

// renderChannel acumula todas as fontes em uma textura de canal com o
// blend próprio de cada fonte (luz e escuridão usam equações opostas).
func (p *Pipeline) renderChannel(ch Channel, target rl.RenderTexture2D, lights *sources.Collection, push func(*sources.Source)) {
	shader := p.shaderFor(ch)
	var clear rl.Color
	switch ch {
	case ChannelBackground:
		clear = rl.Blank
	case ChannelIllumination:
		// A área sem fonte fica na cor ambiente, escurecida pelo nível
		// da cena. MAX clareia (luz) e MIN escurece (escuridão) a
		// partir desse piso.
		amb := p.palette.Background.Mix(p.palette.Black, p.Darkness.Level())
		f := amb.Floats()
		clear = rl.NewColor(uint8(f[0]*255), uint8(f[1]*255), uint8(f[2]*255), 255)
	default:
		// SCREEN acumula a partir do preto
		clear = rl.Black
	}

	rl.BeginTextureMode(target)
	rl.ClearBackground(clear)
	lights.Active(func(s *sources.Source) {
		verts := p.meshFor(s)
		if verts == nil {
			return
		}
		blendFor(ch, s.IsDarkness).apply()
		rl.BeginShaderMode(shader)
		push(s)
		rl.DrawTriangleFan(verts, rl.White)
		rl.EndShaderMode()
		rl.EndBlendMode()
	})
	rl.EndTextureMode()
}

func (p *Pipeline) shaderFor(ch Channel) rl.Shader {
	switch ch {
	case ChannelBackground:
		return p.shBackground
	case ChannelIllumination:
		return p.shIllumination
	default:
		return p.shColoration
	}
}

// pushCommon envia os uniforms compartilhados pelos três canais.
func (p *Pipeline) pushCommon(shader rl.Shader, s *sources.Source) {
	p.setVec2(shader, "center", float32(s.Data.X), float32(s.Data.Y))
	p.setFloat(shader, "radius", s.Data.Radius)
	p.setFloat(shader, "ratio", s.RatioPulse)
	p.setFloat(shader, "attenuation", Attenuation(s.Data.Attenuation))
}

func (p *Pipeline) setFloat(shader rl.Shader, name string, v float64) {
	loc := rl.GetShaderLocation(shader, name)
	rl.SetShaderValue(shader, loc, []float32{float32(v)}, rl.ShaderUniformFloat)
}

func (p *Pipeline) setVec2(shader rl.Shader, name string, x, y float32) {
	loc := rl.GetShaderLocation(shader, name)
	rl.SetShaderValue(shader, loc, []float32{x, y}, rl.ShaderUniformVec2)
}

func (p *Pipeline) setVec3(shader rl.Shader, name string, c interface{ Floats() [3]float64 }) {
	f := c.Floats()
	loc := rl.GetShaderLocation(shader, name)
	rl.SetShaderValue(shader, loc,
		[]float32{float32(f[0]), float32(f[1]), float32(f[2])}, rl.ShaderUniformVec3)
}

// Animate avança as animações das fontes e da escuridão.
func (p *Pipeline) Animate(lights *sources.Collection, dt float64, lightAnimation, photosensitive bool) (darkness float64, animating bool) {
	if lightAnimation {
		lights.Active(func(s *sources.Source) { s.Animate(dt, photosensitive) })
	}
	return p.Darkness.Advance(dt)
}

// TearDown libera os recursos de GPU e as malhas em cache.
func (p *Pipeline) TearDown() {
	p.teardownGPU()
	p.meshes = make(map[string]*meshEntry)
	p.initialized = false
}

func (p *Pipeline) teardownGPU() {
	if !rl.IsWindowReady() {
		return
	}
	for _, t := range []rl.RenderTexture2D{p.Background, p.Illumination, p.Coloration} {
		if t.ID != 0 {
			rl.UnloadRenderTexture(t)
		}
	}
	for _, sh := range []rl.Shader{p.shBackground, p.shIllumination, p.shColoration} {
		if sh.ID != 0 {
			rl.UnloadShader(sh)
		}
	}
	p.Background, p.Illumination, p.Coloration = rl.RenderTexture2D{}, rl.RenderTexture2D{}, rl.RenderTexture2D{}
	p.shBackground, p.shIllumination, p.shColoration = rl.Shader{}, rl.Shader{}, rl.Shader{}
}
