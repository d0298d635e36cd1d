package app

import (
	"log"
	"math"

	"TabletopVision/cliente/internal/controls"
	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/placeables"
	"TabletopVision/shared/docs"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateCamera processa pan/zoom e interpola a câmera.
func (a *App) updateCamera() {
	dt := rl.GetFrameTime()
	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)
}

// updateInput processa entradas gerais de teclado e mouse.
func (a *App) updateInput() {
	// Toggle debug info
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	// Toggle grid
	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// ESC: alternar pausa
	if rl.IsKeyPressed(rl.KeyEscape) {
		if a.State == StateViewing {
			a.State = StatePaused
			log.Println("[App] Pausado")
		} else if a.State == StatePaused {
			a.State = StateViewing
			log.Println("[App] Retomando")
		}
	}

	if a.State != StateViewing || !a.Canvas.Ready() {
		return
	}

	a.updateControlKeys()
	a.updatePointer()
}

// updateControlKeys troca o conjunto de controles ativo pelas teclas
// numéricas, na ordem dos conjuntos visíveis.
func (a *App) updateControlKeys() {
	sets := a.Controls.Sets()
	keys := []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive,
		rl.KeySix, rl.KeySeven, rl.KeyEight, rl.KeyNine}
	for i, key := range keys {
		if i >= len(sets) {
			break
		}
		if rl.IsKeyPressed(key) {
			a.Controls.Initialize(controls.InitOptions{Control: sets[i].Name})
		}
	}
}

// updatePointer trata hover e cliques sobre a cena.
func (a *App) updatePointer() {
	wx, wy := a.Cam.ScreenToWorld(rl.GetMousePosition())

	// Hover de tokens
	tokens := a.Canvas.Layer(docs.KindToken)
	var under placeables.Placeable
	tokens.ForEach(func(p placeables.Placeable) {
		t, ok := p.(*placeables.Token)
		if !ok {
			return
		}
		t.SetHover(false)
		if tokenContains(t.Doc(), a.View.Scene(), wx, wy) {
			under = p
		}
	})
	if t, ok := under.(*placeables.Token); ok {
		t.SetHover(true)
	}

	// Clique esquerdo: seleção de token
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		tokens.ForEach(func(p placeables.Placeable) {
			if t, ok := p.(*placeables.Token); ok {
				t.SetControlled(false)
			}
		})
		if t, ok := under.(*placeables.Token); ok {
			t.SetControlled(true)
			log.Printf("[App] Token controlado: %s", t.ID())
		}
		// O plano de observação mudou: as fontes de visão re-registram
		// (a preferência segue o token controlado) e luz e oclusão
		// re-avaliam
		a.World.Schedule(perception.Flags{
			InitializeVision: true, RefreshLighting: true,
			RefreshVision: true, RefreshTiles: true,
		})
	}

	// Clique direito: interação com portas próximas
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		a.toggleNearestDoor(wx, wy)
	}
}

// toggleNearestDoor abre/fecha a porta mais próxima do ponto clicado.
func (a *App) toggleNearestDoor(wx, wy float64) {
	const reach = 40.0 // pixels de cena

	var nearest *placeables.Wall
	best := reach
	a.Canvas.Layer(docs.KindWall).ForEach(func(p placeables.Placeable) {
		w, ok := p.(*placeables.Wall)
		if !ok || w.Doc().Wall == nil || w.Doc().Wall.Door == 0 {
			return
		}
		if d := segmentDistance(w.Doc().Wall.X1, w.Doc().Wall.Y1, w.Doc().Wall.X2, w.Doc().Wall.Y2, wx, wy); d < best {
			best = d
			nearest = w
		}
	})
	if nearest == nil {
		return
	}
	if err := nearest.ToggleDoor(); err != nil {
		log.Printf("[App] Falha ao alternar porta %s: %v", nearest.ID(), err)
	}
}

// tokenContains verifica se um ponto da cena cai na caixa do token.
func tokenContains(doc *docs.PlaceableDoc, scene *docs.SceneDoc, x, y float64) bool {
	if doc.Token == nil {
		return false
	}
	cell := scene.Size
	if cell <= 0 {
		cell = 100
	}
	halfW := doc.Token.Width * cell / 2
	halfH := doc.Token.Height * cell / 2
	if halfW <= 0 {
		halfW = cell / 2
	}
	if halfH <= 0 {
		halfH = cell / 2
	}
	return x >= doc.X-halfW && x <= doc.X+halfW && y >= doc.Y-halfH && y <= doc.Y+halfH
}

// segmentDistance é a distância de um ponto a um segmento.
func segmentDistance(x1, y1, x2, y2, px, py float64) float64 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((px-x1)*dx + (py-y1)*dy) / lenSq
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
	}
	cx, cy := x1+t*dx, y1+t*dy
	ex, ey := px-cx, py-cy
	return math.Sqrt(ex*ex + ey*ey)
}
