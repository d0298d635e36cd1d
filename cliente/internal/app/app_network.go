package app

import (
	"log"

	"TabletopVision/cliente/internal/client"
	"TabletopVision/cliente/internal/controls"
	"TabletopVision/cliente/internal/hooks"
	"TabletopVision/cliente/internal/perception"
	"TabletopVision/shared/docs"
	"TabletopVision/shared/vtnet"
)

// darknessTransitionSec é a duração da transição animada do nível de
// escuridão da cena.
const darknessTransitionSec = 2.0

// connectServer conecta ao servidor de mesa e instala os callbacks do
// transporte. Sem servidor, restaura o último snapshot local.
func (a *App) connectServer() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectServer: %v", r)
		}
	}()

	a.netClient = client.NewNetworkClient(serverHost(a.Config.ServerURL))

	a.netClient.OnSceneActivate = func(scene *docs.SceneDoc) {
		a.enqueue(func() { a.activateScene(scene) })
	}

	a.netClient.OnSceneUpdate = func(scene *docs.SceneDoc) {
		a.enqueue(func() { a.applySceneUpdate(scene) })
	}

	a.netClient.OnDocument = func(kind docs.Kind, action docs.Action, id string, doc *docs.PlaceableDoc) {
		a.enqueue(func() { a.View.Apply(kind, action, id, doc) })
	}

	a.netClient.OnPerception = func(hint vtnet.PerceptionHint) {
		a.enqueue(func() {
			a.World.Schedule(perception.Flags{
				RefreshLighting: hint.Lighting,
				RefreshVision:   hint.Vision,
				RefreshSounds:   hint.Sounds,
				RefreshTiles:    hint.Tiles,
			})
		})
	}

	a.netClient.OnStatus = func(message string, connected bool) {
		a.enqueue(func() {
			if a.Loading {
				a.LoadingStatus = message
			}
		})
	}

	a.netClient.OnDisconnect = func() {
		a.enqueue(func() {
			a.Offline = true
			if a.Settings != nil && a.Canvas.Ready() {
				if err := a.Settings.SaveSnapshot(a.View); err != nil {
					log.Printf("[App] Falha ao salvar snapshot na queda: %v", err)
				}
			}
			log.Printf("[App] Transporte caiu; seguindo em modo offline")
		})
	}

	if err := a.netClient.Connect(); err != nil {
		log.Printf("[Server] Erro ao conectar: %v", err)
		a.enqueue(func() { a.restoreOffline() })
		return
	}

	a.enqueue(func() {
		a.Offline = false
		a.LoadingStatus = "Aguardando ativação de cena..."
	})
}

// restoreOffline renderiza a partir do último snapshot salvo.
func (a *App) restoreOffline() {
	a.Offline = true
	if a.Settings == nil {
		a.LoadingStatus = "Servidor indisponível e sem cache local."
		return
	}
	sceneID, ok := a.Settings.LatestSceneID()
	if !ok {
		a.LoadingStatus = "Servidor indisponível e sem cena em cache."
		return
	}

	restored, err := a.Settings.LoadSnapshot(sceneID, a.View)
	if err != nil || !restored {
		log.Printf("[App] Snapshot da cena %s indisponível: %v", sceneID, err)
		a.LoadingStatus = "Servidor indisponível e cache corrompido."
		return
	}
	a.buildScene()
	log.Printf("[App] Modo offline: cena %s restaurada do cache", sceneID)
}

// activateScene troca a cena ativa vinda do transporte.
func (a *App) activateScene(scene *docs.SceneDoc) {
	if a.Canvas.Ready() {
		a.Scheduler.Deactivate()
		a.Canvas.TearDown()
	}
	a.View.ActivateScene(scene)
	a.buildScene()
}

// buildScene materializa a cena corrente da visão local: canvas,
// pipeline de luz, câmera e pré-carga de texturas.
func (a *App) buildScene() {
	scene := a.View.Scene()

	a.Pipeline.Darkness.Animate(scene.DarknessLevel, 0)
	a.lastDarkness = scene.DarknessLevel

	a.Scheduler.Activate()
	a.Canvas.Build()

	// Extensões podem criar grupos de efeitos próprios
	a.Hooks.Call(hooks.CreateEffectsCanvasGroup, a.Canvas.Stage.Effects)

	x, y, w, h := scene.Rect()
	a.Cam.FocusOn(x+w/2, y+h/2)

	a.preloadTextures(scene)

	a.Controls.Initialize(controls.InitOptions{Control: controls.SetToken})

	a.Loading = false
	a.State = StateViewing
}

// preloadTextures enfileira as texturas da cena para carga fatiada na
// thread principal (upload de textura exige o contexto GL).
func (a *App) preloadTextures(scene *docs.SceneDoc) {
	var srcs []string
	add := func(src string) {
		if src != "" && !a.Assets.Has(src) {
			srcs = append(srcs, src)
		}
	}
	add(scene.Background)
	add(scene.Foreground)
	for _, doc := range a.View.Placeables(docs.KindToken) {
		if doc.Token != nil {
			add(doc.Token.Texture)
		}
	}
	for _, doc := range a.View.Placeables(docs.KindTile) {
		if doc.Tile != nil {
			add(doc.Tile.Texture)
		}
	}
	if len(srcs) == 0 {
		return
	}

	a.assetQueue = append(a.assetQueue, srcs...)
	a.assetTotal = len(a.assetQueue)
	a.Loading = true
	a.LoadingStatus = "Carregando texturas da cena..."
}

// applySceneUpdate aplica campos mutáveis da cena e converte o delta em
// trabalho de percepção.
func (a *App) applySceneUpdate(scene *docs.SceneDoc) {
	change := a.View.UpdateScene(scene)

	if scene.DarknessLevel != a.Pipeline.Darkness.Level() {
		// Transição animada do nível de escuridão ambiente
		a.Pipeline.Darkness.Animate(scene.DarknessLevel, darknessTransitionSec)
	}
	if change&docs.ChangeSource != 0 {
		a.World.Schedule(perception.Flags{RefreshLighting: true, RefreshVision: true, RefreshSounds: true})
	}
	if change&docs.ChangeAppearance != 0 {
		a.preloadTextures(a.View.Scene())
		a.Canvas.Stage.Primary.Invalidate()
	}
}

// serverHost extrai host:porta de uma URL ws:// configurada.
func serverHost(url string) string {
	host := url
	for _, prefix := range []string{"ws://", "wss://", "http://", "https://"} {
		if len(host) > len(prefix) && host[:len(prefix)] == prefix {
			host = host[len(prefix):]
			break
		}
	}
	for i := 0; i < len(host); i++ {
		if host[i] == '/' {
			return host[:i]
		}
	}
	return host
}
