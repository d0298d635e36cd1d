package canvas

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"TabletopVision/cliente/internal/placeables"
	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/docs"
	"TabletopVision/shared/geom"
)

// Masks mantém as texturas de máscara do composite:
//
//   - Vision: branco onde algum observador enxerga (LOS de visão e
//     áreas iluminadas), preto no resto.
//   - Occlusion: R sempre 1; G carrega a opacidade por elevação do
//     modo radial; B a do modo por visão.
//   - Depth: elevação normalizada dos tiles de telhado, para a
//     discriminação de profundidade do shader de recorte.
//   - Overlay: os tiles ocluídos RADIAL/VISION redesenhados através do
//     shader de recorte, compostos por cima do fog.
type Masks struct {
	Vision    rl.RenderTexture2D
	Occlusion rl.RenderTexture2D
	Depth     rl.RenderTexture2D
	Overlay   rl.RenderTexture2D

	sampler rl.Shader

	W, H int32
}

// maskVertexShader é o vertex shader do passe de recorte.
const maskVertexShader = `
#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec4 vertexColor;
uniform mat4 mvp;
out vec2 fragTexCoord;
out vec4 fragColor;
void main() {
    fragTexCoord = vertexTexCoord;
    fragColor = vertexColor;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

// occlusionSamplerShader recorta o fragmento do tile pela máscara de
// oclusão: canal 1 lê o recorte radial (G), canal 2 o recorte por
// visão (B), este último apenas onde a máscara de visibilidade enxerga.
// A máscara de profundidade garante que só o telhado registrado no
// pixel seja recortado.
const occlusionSamplerShader = `
#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
out vec4 finalColor;

uniform sampler2D texture0;
uniform sampler2D occlusionTex;
uniform sampler2D visionTex;
uniform sampler2D depthTex;
uniform vec2 sceneDimensions;
uniform float channel;   // 1 = radial (G), 2 = visão (B)
uniform float tileDepth; // elevação normalizada deste tile

void main() {
    vec4 texel = texture(texture0, fragTexCoord) * fragColor;
    vec2 uv = gl_FragCoord.xy / sceneDimensions;

    float recorded = texture(depthTex, uv).r;
    float occ = channel < 1.5
        ? texture(occlusionTex, uv).g
        : texture(occlusionTex, uv).b;

    float reveal = 1.0;
    if (recorded <= tileDepth + 0.004 && occ > 0.0) {
        if (channel < 1.5) {
            reveal = occ;
        } else {
            float seen = texture(visionTex, uv).r;
            reveal = seen > 0.5 ? occ : 1.0;
        }
    }
    finalColor = vec4(texel.rgb, texel.a * reveal);
}
`

// NewMasks cria o conjunto sem alocar GPU; Resize aloca sob demanda.
func NewMasks() *Masks { return &Masks{} }

// Resize (re)aloca as texturas para o tamanho do viewport.
func (m *Masks) Resize(w, h int32) {
	if !rl.IsWindowReady() || (w == m.W && h == m.H && m.Vision.ID != 0) {
		m.W, m.H = w, h
		return
	}
	m.TearDown()
	m.Vision = rl.LoadRenderTexture(w, h)
	m.Occlusion = rl.LoadRenderTexture(w, h)
	m.Depth = rl.LoadRenderTexture(w, h)
	m.Overlay = rl.LoadRenderTexture(w, h)
	m.sampler = rl.LoadShaderFromMemory(maskVertexShader, occlusionSamplerShader)
	m.W, m.H = w, h
}

// TearDown libera as texturas de máscara e o shader de recorte.
func (m *Masks) TearDown() {
	if !rl.IsWindowReady() {
		return
	}
	for _, t := range []rl.RenderTexture2D{m.Vision, m.Occlusion, m.Depth, m.Overlay} {
		if t.ID != 0 {
			rl.UnloadRenderTexture(t)
		}
	}
	if m.sampler.ID != 0 {
		rl.UnloadShader(m.sampler)
	}
	m.Vision, m.Occlusion, m.Depth, m.Overlay =
		rl.RenderTexture2D{}, rl.RenderTexture2D{}, rl.RenderTexture2D{}, rl.RenderTexture2D{}
	m.sampler = rl.Shader{}
}

// drawPolygonFan rasteriza um polígono estrelado em torno da origem da
// fonte como um leque de triângulos.
func drawPolygonFan(poly *geom.Polygon, ox, oy float64, color rl.Color) {
	n := poly.VertexCount()
	if n < 3 {
		return
	}
	center := rl.Vector2{X: float32(ox), Y: float32(oy)}
	for i := 0; i+1 < n; i++ {
		a := rl.Vector2{X: float32(poly.Points[2*i]), Y: float32(poly.Points[2*i+1])}
		b := rl.Vector2{X: float32(poly.Points[2*i+2]), Y: float32(poly.Points[2*i+3])}
		rl.DrawTriangle(center, b, a, color)
	}
}

// RenderVision redesenha a máscara de visibilidade: LOS das fontes de
// visão e das luzes ativas (área iluminada é visível). Sem visão de
// token a máscara fica toda branca.
func (m *Masks) RenderVision(tokenVision bool, visions, lights *sources.Collection) {
	if !rl.IsWindowReady() || m.Vision.ID == 0 {
		return
	}
	rl.BeginTextureMode(m.Vision)
	if !tokenVision {
		rl.ClearBackground(rl.White)
		rl.EndTextureMode()
		return
	}
	rl.ClearBackground(rl.Black)
	visions.Active(func(s *sources.Source) {
		drawPolygonFan(s.LOS, s.Data.X, s.Data.Y, rl.White)
	})
	lights.Active(func(s *sources.Source) {
		if !s.IsDarkness {
			drawPolygonFan(s.LOS, s.Data.X, s.Data.Y, rl.White)
		}
	})
	rl.EndTextureMode()
}

// RenderOcclusion redesenha a máscara de oclusão dos tiles: o canal
// verde guarda o recorte radial em torno dos tokens observados e o
// azul o recorte do modo por visão, ambos na opacidade por elevação
// do tile.
func (m *Masks) RenderOcclusion(tiles []*placeables.Tile, observed []*docs.PlaceableDoc, observedElev, lo, hi, cell float64) {
	if !rl.IsWindowReady() || m.Occlusion.ID == 0 {
		return
	}
	rl.BeginTextureMode(m.Occlusion)
	rl.ClearBackground(rl.Color{R: 255, A: 255})
	for _, t := range tiles {
		doc := t.Doc()
		if doc.Tile == nil || !t.Occluded() {
			continue
		}
		alpha := uint8(ElevationAlpha(doc.Elevation, observedElev, lo, hi) * 255)
		switch t.EffectiveOcclusion() {
		case docs.OcclusionRadial:
			// Recorte circular em torno de cada token sob o tile
			for _, tok := range observed {
				if !TileOccludes(doc, tok) {
					continue
				}
				rl.DrawCircleV(rl.Vector2{X: float32(tok.X), Y: float32(tok.Y)},
					float32(radialReveal(tok, cell)), rl.Color{R: 255, G: alpha, A: 255})
			}
		case docs.OcclusionVision:
			bounds := tileBounds(doc.X, doc.Y, doc.Tile.Width, doc.Tile.Height, doc.Tile.Rotation)
			rl.DrawRectangleRec(bounds, rl.Color{R: 255, B: alpha, A: 255})
		}
	}
	rl.EndTextureMode()
}

// RenderDepth redesenha a máscara de profundidade dos telhados.
func (m *Masks) RenderDepth(tiles []*placeables.Tile, lo, hi float64) {
	if !rl.IsWindowReady() || m.Depth.ID == 0 {
		return
	}
	rl.BeginTextureMode(m.Depth)
	rl.ClearBackground(rl.Black)
	for _, t := range tiles {
		doc := t.Doc()
		if doc.Tile == nil || !doc.Tile.Roof {
			continue
		}
		v := uint8(normDepth(doc.Elevation, lo, hi) * 255)
		bounds := tileBounds(doc.X, doc.Y, doc.Tile.Width, doc.Tile.Height, doc.Tile.Rotation)
		rl.DrawRectangleRec(bounds, rl.Color{R: v, G: v, B: v, A: 255})
	}
	rl.EndTextureMode()
}

// RenderOverlay redesenha os tiles ocluídos através do shader de
// recorte, em espaço de cena. O resultado fica opaco onde as máscaras
// não revelam e recortado na opacidade registrada onde revelam.
func (m *Masks) RenderOverlay(tiles []*placeables.Tile, lo, hi float64, draw func(*placeables.Tile)) {
	if !rl.IsWindowReady() || m.Overlay.ID == 0 {
		return
	}
	rl.BeginTextureMode(m.Overlay)
	rl.ClearBackground(rl.Blank)
	if m.sampler.ID != 0 {
		for _, t := range tiles {
			channel := float32(1)
			if t.EffectiveOcclusion() == docs.OcclusionVision {
				channel = 2
			}
			rl.BeginShaderMode(m.sampler)
			rl.SetShaderValueTexture(m.sampler, rl.GetShaderLocation(m.sampler, "occlusionTex"), m.Occlusion.Texture)
			rl.SetShaderValueTexture(m.sampler, rl.GetShaderLocation(m.sampler, "visionTex"), m.Vision.Texture)
			rl.SetShaderValueTexture(m.sampler, rl.GetShaderLocation(m.sampler, "depthTex"), m.Depth.Texture)
			rl.SetShaderValue(m.sampler, rl.GetShaderLocation(m.sampler, "sceneDimensions"),
				[]float32{float32(m.W), float32(m.H)}, rl.ShaderUniformVec2)
			rl.SetShaderValue(m.sampler, rl.GetShaderLocation(m.sampler, "channel"),
				[]float32{channel}, rl.ShaderUniformFloat)
			rl.SetShaderValue(m.sampler, rl.GetShaderLocation(m.sampler, "tileDepth"),
				[]float32{float32(normDepth(t.Doc().Elevation, lo, hi))}, rl.ShaderUniformFloat)
			draw(t)
			rl.EndShaderMode()
		}
	}
	rl.EndTextureMode()
}

// radialReveal é o raio do recorte radial em torno do token observado.
func radialReveal(tok *docs.PlaceableDoc, cell float64) float64 {
	if cell <= 0 {
		cell = 100
	}
	w := 1.0
	if tok.Token != nil && tok.Token.Width > w {
		w = tok.Token.Width
	}
	return cell * w * 1.5
}

// normDepth normaliza a elevação de um tile para [0,1] na faixa da cena.
func normDepth(elev, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 {
		return 1
	}
	return clampUnit((elev - lo) / span)
}

// tileBounds devolve o retângulo envolvente do tile (com rotação).
func tileBounds(x, y, w, h, rotationDeg float64) rl.Rectangle {
	r := geom.Rect{X: x - w/2, Y: y - h/2, Width: w, Height: h}
	if rotationDeg != 0 {
		r = r.RotatedBounds(rotationDeg * degToRad)
	}
	return rl.Rectangle{X: float32(r.X), Y: float32(r.Y), Width: float32(r.Width), Height: float32(r.Height)}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
