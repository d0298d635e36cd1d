package app

import (
	"fmt"
	"log"

	"TabletopVision/cliente/internal/controls"
	"TabletopVision/cliente/internal/hooks"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza o frame.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(24, 24, 32, 255))

	if a.Loading || !a.Canvas.Ready() {
		a.drawLoadingScreen()
	} else {
		a.drawScene()
		a.drawControlsBar()
		a.drawHUD()

		if a.State == StatePaused {
			a.drawPauseMenu()
		}
	}

	rl.EndDrawing()
}

// ensureSceneTargets aloca (ou realoca) os alvos na resolução da cena.
// O composite trabalha em espaço de cena: coordenada do mundo == pixel.
func (a *App) ensureSceneTargets() (int32, int32) {
	scene := a.View.Scene()
	_, _, sw, sh := scene.Rect()
	w, h := int32(sw), int32(sh)
	if w <= 0 || h <= 0 {
		w, h = int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	}

	if a.sceneRT.ID == 0 || a.sceneW != w || a.sceneH != h {
		if !rl.IsWindowReady() {
			return w, h
		}
		if a.sceneRT.ID != 0 {
			rl.UnloadRenderTexture(a.sceneRT)
		}
		a.sceneRT = rl.LoadRenderTexture(w, h)
		a.sceneW, a.sceneH = w, h

		if err := a.Pipeline.Initialize(w, h); err != nil {
			log.Printf("[App] Falha ao inicializar pipeline de luz: %v", err)
		} else {
			a.Hooks.Call(hooks.InitializeLightShaders, a.Pipeline)
		}
		a.Canvas.Masks.Resize(w, h)
	}
	return w, h
}

// drawScene compõe o frame: passe base, canais de luz e composite.
func (a *App) drawScene() {
	w, h := a.ensureSceneTargets()
	if !rl.IsWindowReady() || a.sceneRT.ID == 0 {
		return
	}
	scene := a.View.Scene()

	// Passe base: fundo + grupo primário, em espaço de cena
	rl.BeginTextureMode(a.sceneRT)
	rl.ClearBackground(rl.Black)
	if tex, ok := a.Assets.Get(scene.Background); ok {
		src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
		dst := rl.Rectangle{Width: float32(w), Height: float32(h)}
		rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
	}
	if a.Config.ShowGrid && scene.Size > 0 {
		a.drawGrid(w, h, float32(scene.Size))
	}
	a.Canvas.DrawPrimary()
	rl.EndTextureMode()

	// Canais de luz acumulados sobre a textura base
	a.Pipeline.Render(a.World.Lights, a.sceneRT.Texture)

	// Telhados ocluídos recortados pela máscara, em espaço de cena
	a.Canvas.DrawOccludedTiles()

	// Composite na tela, sob a câmera
	rl.BeginMode2D(a.Cam.RLCamera)

	drawFlipped(a.sceneRT.Texture, rl.White)

	// Iluminação multiplica o nível de luz sobre a cena
	rl.BeginBlendMode(rl.BlendMultiplied)
	drawFlipped(a.Pipeline.Illumination.Texture, rl.White)
	rl.EndBlendMode()

	// Canal de fundo re-ilumina a textura base dentro do LOS das fontes
	drawFlipped(a.Pipeline.Background.Texture, rl.White)

	// Coloração soma o tingimento das fontes
	rl.BeginBlendMode(rl.BlendAdditive)
	drawFlipped(a.Pipeline.Coloration.Texture, rl.White)
	rl.EndBlendMode()

	// Fog: fora do LOS dos tokens com visão, tudo escurece
	if scene.TokenVision {
		rl.BeginBlendMode(rl.BlendMultiplied)
		drawFlipped(a.Canvas.Masks.Vision.Texture, rl.White)
		rl.EndBlendMode()
	}

	// Telhados ocluídos por cima do fog: opacos fora da visão,
	// recortados pela máscara onde o observador enxerga por baixo
	drawFlipped(a.Canvas.Masks.Overlay.Texture, rl.White)

	// Grupo de efeitos (clima, extensões) sobre a cena iluminada
	a.Canvas.Stage.Effects.Render(w, h)
	a.Hooks.Call(hooks.DrawEffectsCanvasGroup, a.Canvas.Stage.Effects)

	a.Canvas.DrawInterface()

	rl.EndMode2D()
}

// drawFlipped estampa uma render texture na origem da cena (render
// textures são invertidas verticalmente no OpenGL).
func drawFlipped(tex rl.Texture2D, tint rl.Color) {
	src := rl.Rectangle{Width: float32(tex.Width), Height: -float32(tex.Height)}
	dst := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, tint)
}

// drawGrid desenha as linhas do grid da cena.
func (a *App) drawGrid(w, h int32, cell float32) {
	color := rl.NewColor(255, 255, 255, 30)
	for x := float32(0); x <= float32(w); x += cell {
		rl.DrawLineV(rl.Vector2{X: x}, rl.Vector2{X: x, Y: float32(h)}, color)
	}
	for y := float32(0); y <= float32(h); y += cell {
		rl.DrawLineV(rl.Vector2{Y: y}, rl.Vector2{X: float32(w), Y: y}, color)
	}
}

// drawControlsBar desenha a barra de conjuntos de ferramentas à
// esquerda e as ferramentas do conjunto ativo.
func (a *App) drawControlsBar() {
	const size = int32(40)
	const pad = int32(6)
	x := int32(10)
	y := int32(10)

	active := a.Controls.Active()
	for _, set := range a.Controls.Sets() {
		selected := active != nil && set.Name == active.Name
		color := rl.Gray
		if selected {
			color = rl.Gold
		}
		if a.drawButton(x, y, size, size, shortLabel(set.Title), color) {
			a.Controls.Initialize(controls.InitOptions{Control: set.Name})
		}
		y += size + pad
	}

	if active == nil {
		return
	}
	// Ferramentas do conjunto ativo, na coluna seguinte
	ty := int32(10)
	tx := x + size + pad
	for _, tool := range a.Controls.VisibleTools(active) {
		color := rl.LightGray
		if tool.Name == active.ActiveTool {
			color = rl.Green
		}
		if a.drawButton(tx, ty, int32(120), int32(28), tool.Title, color) {
			a.Controls.Click(tool.Name)
		}
		ty += 28 + pad
	}
}

// drawHUD desenha o painel de debug sobreposto.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}
	scene := a.View.Scene()

	width := int32(300)
	height := int32(170)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	syncStatus := "Offline"
	syncColor := rl.Red
	if a.netClient != nil && a.netClient.IsConnected() {
		syncStatus = "Conectado"
		syncColor = rl.Green
	}
	rl.DrawText(syncStatus, x+200, y+10, 18, syncColor)

	rl.DrawLine(x+10, y+38, x+width-10, y+38, rl.NewColor(100, 100, 100, 100))

	rl.DrawText(fmt.Sprintf("Cena: %s", scene.Name), x+10, y+48, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Escuridão: %.0f%%", a.Pipeline.Darkness.Level()*100), x+10, y+68, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Luzes: %d | Visões: %d | Sons: %d",
		a.World.Lights.Len(), a.World.Visions.Len(), a.World.Sounds.Len()), x+10, y+88, 14, rl.LightGray)

	rl.DrawLine(x+10, y+110, x+width-10, y+110, rl.NewColor(100, 100, 100, 100))

	rl.DrawText("CONTROLES", x+10, y+120, 12, rl.Gray)
	rl.DrawText("WASD/Meio: Mover | Scroll: Zoom", x+10, y+135, 14, rl.LightGray)
	rl.DrawText("F3: HUD | G: Grid | F11: Tela Cheia", x+10, y+150, 14, rl.SkyBlue)
}

// drawPauseMenu desenha o menu de escape centralizado.
func (a *App) drawPauseMenu() {
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.NewColor(0, 0, 0, 150))

	panelWidth := int32(400)
	panelHeight := int32(240)
	panelX := (screenWidth - panelWidth) / 2
	panelY := (screenHeight - panelHeight) / 2

	rl.DrawRectangle(panelX, panelY, panelWidth, panelHeight, rl.NewColor(30, 30, 35, 255))
	rl.DrawRectangleLines(panelX, panelY, panelWidth, panelHeight, rl.White)

	menuTitle := "MENU DE PAUSA"
	titleWidth := rl.MeasureText(menuTitle, 24)
	rl.DrawText(menuTitle, panelX+(panelWidth-titleWidth)/2, panelY+30, 24, rl.Gold)

	buttonX := panelX + 50
	buttonWidth := panelWidth - 100
	buttonHeight := int32(40)

	if a.drawButton(buttonX, panelY+90, buttonWidth, buttonHeight, "RETOMAR (ESC)", rl.Green) {
		a.State = StateViewing
	}
	if a.drawButton(buttonX, panelY+150, buttonWidth, buttonHeight, "SAIR", rl.Red) {
		log.Println("[App] Encerrando pela interface")
		a.shutdown()
		rl.CloseWindow()
	}
}

// drawButton desenha um botão genérico com hover e retorna true se clicado.
func (a *App) drawButton(x, y, w, h int32, text string, color rl.Color) bool {
	mousePos := rl.GetMousePosition()
	isHover := mousePos.X >= float32(x) && mousePos.X <= float32(x+w) &&
		mousePos.Y >= float32(y) && mousePos.Y <= float32(y+h)

	drawColor := color
	if isHover {
		drawColor.R += 30
		drawColor.G += 30
		drawColor.B += 30
	}

	rl.DrawRectangle(x, y, w, h, rl.NewColor(50, 50, 50, 255))
	rl.DrawRectangleLines(x, y, w, h, drawColor)

	fontSize := int32(16)
	textWidth := rl.MeasureText(text, fontSize)
	rl.DrawText(text, x+(w-textWidth)/2, y+(h-fontSize)/2, fontSize, rl.White)

	return isHover && rl.IsMouseButtonPressed(rl.MouseLeftButton)
}

func (a *App) drawLoadingScreen() {
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.NewColor(20, 20, 25, 255))

	title := "TABLETOPVISION"
	titleWidth := rl.MeasureText(title, 40)
	rl.DrawText(title, (screenWidth-titleWidth)/2, screenHeight/2-60, 40, rl.Gold)

	barWidth := int32(400)
	barHeight := int32(30)
	barX := (screenWidth - barWidth) / 2
	barY := screenHeight/2 + 20

	rl.DrawRectangle(barX, barY, barWidth, barHeight, rl.DarkGray)
	rl.DrawRectangle(barX, barY, int32(float32(barWidth)*a.LoadingProgress), barHeight, rl.Orange)
	rl.DrawRectangleLines(barX, barY, barWidth, barHeight, rl.White)

	statusWidth := rl.MeasureText(a.LoadingStatus, 18)
	rl.DrawText(a.LoadingStatus, (screenWidth-statusWidth)/2, barY+45, 18, rl.LightGray)
}

// shortLabel reduz um título a duas letras para o ícone da barra.
func shortLabel(title string) string {
	runes := []rune(title)
	if len(runes) <= 2 {
		return title
	}
	return string(runes[:2])
}
