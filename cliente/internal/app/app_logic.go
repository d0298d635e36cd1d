package app

import (
	"log"
	"time"

	"TabletopVision/cliente/internal/lighting"
	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/sources"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleAutoSave persiste o snapshot da cena periodicamente.
func (a *App) handleAutoSave() {
	currentTime := rl.GetTime()
	if currentTime-a.lastSnapshot < 60.0 {
		return
	}
	a.lastSnapshot = currentTime

	if a.Settings == nil || !a.Canvas.Ready() {
		return
	}
	if err := a.Settings.SaveSnapshot(a.View); err != nil {
		log.Printf("[App] Falha no auto-save do snapshot: %v", err)
	}
}

// processAssetQueue carrega texturas pendentes com fatiamento de tempo
// rígido: uploads ficam na thread principal (contexto GL) sem travar o
// frame. Durante o loading o orçamento é generoso.
func (a *App) processAssetQueue() {
	if len(a.assetQueue) == 0 {
		return
	}
	timeBudget := 0.004 // 4ms por frame em jogo
	if a.Loading {
		timeBudget = 0.250
	}
	start := rl.GetTime()

	for len(a.assetQueue) > 0 {
		if rl.GetTime()-start > timeBudget {
			break
		}
		src := a.assetQueue[0]
		a.assetQueue = a.assetQueue[1:]
		if err := a.Assets.LoadTexture(src); err != nil {
			log.Printf("[App] Falha ao carregar textura %s: %v", src, err)
		}
	}

	if a.assetTotal > 0 {
		done := a.assetTotal - len(a.assetQueue)
		a.LoadingProgress = float32(done) / float32(a.assetTotal)
	}
	if len(a.assetQueue) == 0 {
		a.assetTotal = 0
		a.Loading = false
		a.Canvas.Stage.Primary.Invalidate()
	}
}

// refreshVisionMode deriva o modo de visão do composite: ele só vale
// quando exatamente uma fonte de visão preferida está ativa; qualquer
// outra combinação volta ao modo básico.
func (a *App) refreshVisionMode() {
	var preferred *sources.Source
	count := 0
	a.World.Visions.Active(func(s *sources.Source) {
		if s.Data.Preferred {
			count++
			preferred = s
		}
	})

	mode := lighting.ModeBasic
	if count == 1 {
		mode = lighting.ModeByID(preferred.Data.VisionMode)
	}
	a.Pipeline.SetVisionMode(mode, a.World.Lights)
}

// updatePerception roda o trabalho acumulado do frame: flush do
// agendador, animações de fonte e a transição de escuridão.
func (a *App) updatePerception() {
	if !a.Canvas.Ready() {
		return
	}

	if a.Settings != nil {
		a.World.Photosensitive = a.Settings.PhotosensitiveMode()
	}

	a.Scheduler.Flush()
	a.refreshVisionMode()

	dt := float64(rl.GetFrameTime())
	lightAnimation := a.Settings == nil || a.Settings.LightAnimation()
	darkness, _ := a.Pipeline.Animate(a.World.Lights, dt, lightAnimation, a.World.Photosensitive)

	// A janela de ativação das fontes depende do nível de escuridão;
	// cada passo da transição re-avalia a supressão.
	if darkness != a.lastDarkness {
		a.lastDarkness = darkness
		a.View.Scene().DarknessLevel = darkness
		a.World.Schedule(perception.Flags{
			InitializeLighting: true, RefreshLighting: true, RefreshVision: true,
		})
	}

	// Keepalive do transporte
	if a.frameCount%300 == 0 && a.netClient != nil && a.netClient.IsConnected() {
		if err := a.netClient.Ping(); err != nil {
			log.Printf("[App] Falha no keepalive: %v", err)
		}
	}

	// Limpeza periódica de texturas não usadas (TTL)
	if a.frameCount%600 == 0 {
		if n := a.Assets.Sweep(time.Now()); n > 0 {
			log.Printf("[App] %d texturas expiradas liberadas", n)
		}
	}
}
