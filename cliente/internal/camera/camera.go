// Package camera controla a câmera 2D sobre a cena: pan suave, zoom no
// cursor e conversão tela↔mundo para o picking de posicionáveis.
package camera

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController gerencia a movimentação da câmera sobre a cena.
// Movimento suave, com velocidade de pan proporcional ao zoom.
type CameraController struct {
	RLCamera rl.Camera2D

	MinZoom      float32
	MaxZoom      float32
	PanSpeed     float32
	ZoomSpeed    float32
	SmoothFactor float32 // 0..1; quanto menor, mais suave

	// Estado alvo (para interpolação)
	TargetPos  mgl32.Vec2 // ponto do mundo no centro da tela
	TargetZoom float32

	// Estado corrente (interpolado)
	currentPos  mgl32.Vec2
	currentZoom float32
}

// New cria o controlador centrado na origem.
func New() *CameraController {
	c := &CameraController{
		MinZoom:      0.1,
		MaxZoom:      4.0,
		PanSpeed:     600.0,
		ZoomSpeed:    0.1,
		SmoothFactor: 0.25,

		TargetZoom: 1.0,
	}
	c.currentPos = c.TargetPos
	c.currentZoom = c.TargetZoom
	c.RLCamera = rl.Camera2D{Zoom: 1.0}
	c.sync()
	return c
}

// FocusOn centraliza a câmera em um ponto da cena imediatamente.
func (c *CameraController) FocusOn(x, y float64) {
	c.TargetPos = mgl32.Vec2{float32(x), float32(y)}
	c.currentPos = c.TargetPos
	c.sync()
}

// Update interpola a câmera em direção ao alvo. Chamado a cada frame.
func (c *CameraController) Update(dt float32) {
	factor := c.SmoothFactor * 60.0 * dt
	if factor > 1.0 {
		factor = 1.0
	}

	c.currentPos = c.currentPos.Add(c.TargetPos.Sub(c.currentPos).Mul(factor))
	c.currentZoom += (c.TargetZoom - c.currentZoom) * factor
	c.sync()
}

// sync projeta o estado interpolado na câmera do raylib. O offset fica
// no centro da tela para que Target seja o ponto focal.
func (c *CameraController) sync() {
	c.RLCamera.Target = rl.Vector2{X: c.currentPos.X(), Y: c.currentPos.Y()}
	c.RLCamera.Offset = rl.Vector2{
		X: float32(rl.GetScreenWidth()) / 2,
		Y: float32(rl.GetScreenHeight()) / 2,
	}
	c.RLCamera.Zoom = c.currentZoom
}

// ScreenToWorld converte uma posição de tela em coordenadas da cena.
func (c *CameraController) ScreenToWorld(pos rl.Vector2) (float64, float64) {
	world := rl.GetScreenToWorld2D(pos, c.RLCamera)
	return float64(world.X), float64(world.Y)
}

// HandleInput processa pan (WASD e arrasto com o botão do meio) e zoom
// com a roda. Retorna true se houve movimento manual.
func (c *CameraController) HandleInput(dt float32) bool {
	moved := false

	// Zoom com a roda, ancorado no cursor
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		moved = true
		before := rl.GetScreenToWorld2D(rl.GetMousePosition(), c.RLCamera)

		c.TargetZoom += wheel * c.ZoomSpeed * c.TargetZoom * 2
		if c.TargetZoom < c.MinZoom {
			c.TargetZoom = c.MinZoom
		}
		if c.TargetZoom > c.MaxZoom {
			c.TargetZoom = c.MaxZoom
		}

		// Mantém o ponto sob o cursor parado durante o zoom
		anchor := mgl32.Vec2{before.X, before.Y}
		c.TargetPos = c.TargetPos.Add(anchor.Sub(c.TargetPos).Mul(wheel * c.ZoomSpeed))
	}

	// Pan por arrasto com o botão do meio
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			moved = true
			c.TargetPos = c.TargetPos.Sub(mgl32.Vec2{delta.X, delta.Y}.Mul(1.0 / c.currentZoom))
		}
	}

	// Pan com WASD, mais rápido quanto mais afastado o zoom
	pan := mgl32.Vec2{}
	if rl.IsKeyDown(rl.KeyW) {
		pan = pan.Add(mgl32.Vec2{0, -1})
	}
	if rl.IsKeyDown(rl.KeyS) {
		pan = pan.Add(mgl32.Vec2{0, 1})
	}
	if rl.IsKeyDown(rl.KeyA) {
		pan = pan.Add(mgl32.Vec2{-1, 0})
	}
	if rl.IsKeyDown(rl.KeyD) {
		pan = pan.Add(mgl32.Vec2{1, 0})
	}
	if pan.Len() > 0 {
		moved = true
		speed := c.PanSpeed / c.currentZoom * dt
		c.TargetPos = c.TargetPos.Add(pan.Normalize().Mul(speed))
	}

	return moved
}
