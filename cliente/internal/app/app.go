package app

import (
	"log"
	"sync"
	"time"

	"TabletopVision/cliente/internal/camera"
	"TabletopVision/cliente/internal/canvas"
	"TabletopVision/cliente/internal/client"
	"TabletopVision/cliente/internal/controls"
	"TabletopVision/cliente/internal/hooks"
	"TabletopVision/cliente/internal/lighting"
	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/placeables"

	"TabletopVision/cliente/internal/assets"
	"TabletopVision/shared/config"
	"TabletopVision/shared/docs"
	"TabletopVision/shared/settings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateLoading AppState = iota // Aguardando cena do servidor
	StateViewing                 // Cena ativa em renderização
	StatePaused                  // Menu de pausa
)

// App é a aplicação principal do cliente TabletopVision.
type App struct {
	Config   *config.Config
	Settings *settings.Store
	State    AppState

	// Controlador de câmera 2D
	Cam *camera.CameraController

	// Núcleo da cena
	Hooks     *hooks.Bus
	Assets    *assets.Loader
	View      *docs.LocalView
	World     *placeables.World
	Canvas    *canvas.Canvas
	Scheduler *perception.Scheduler
	Pipeline  *lighting.Pipeline
	Controls  *controls.Controls

	netClient *client.NetworkClient

	// Eventos de rede são enfileirados e aplicados na thread principal;
	// nenhum callback do transporte toca estado de GPU diretamente.
	queueMu sync.Mutex
	queue   []func()

	// Cena composta em resolução da cena (mundo == pixel da textura)
	sceneRT rl.RenderTexture2D
	sceneW  int32
	sceneH  int32

	frameCount   int
	lastDarkness float64
	lastSnapshot float64

	// Fila de texturas pendentes, carregada fatiada por frame
	assetQueue []string
	assetTotal int

	// Estado da tela de carregamento
	Loading         bool
	LoadingStatus   string
	LoadingProgress float32
	Offline         bool
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config:        cfg,
		State:         StateLoading,
		Loading:       true,
		LoadingStatus: "Conectando ao servidor de mesa...",
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetExitKey(0)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	store, err := settings.Open(a.Config.DataDir)
	if err != nil {
		log.Printf("[App] Banco local indisponível, settings em memória: %v", err)
	}
	a.Settings = store
	if a.Settings != nil {
		// O modo de performance limita o teto de FPS e o blur
		fps := a.Settings.MaxFPS()
		if a.Settings.PerformanceMode() == "low" {
			if fps > 30 {
				fps = 30
			}
			a.Config.BlurEnabled = false
		}
		rl.SetTargetFPS(fps)
	} else {
		rl.SetTargetFPS(a.Config.TargetFPS)
	}

	a.Cam = camera.New()
	a.Hooks = hooks.NewBus()

	mipmap := a.Settings != nil && a.Settings.Mipmap()
	a.Assets = assets.NewLoader(
		time.Duration(a.Config.TextureTTLMin)*time.Minute,
		time.Duration(a.Config.AssetTimeoutSec)*time.Second,
		mipmap)

	user := docs.User{ID: a.Config.UserID}
	if user.ID == "" {
		user = docs.User{ID: "local", IsGM: true}
	}
	a.View = docs.NewLocalView(user, func(kind docs.Kind, id string, doc *docs.PlaceableDoc) error {
		if a.netClient == nil || !a.netClient.IsConnected() {
			return nil // offline: a mutação vale só localmente
		}
		return a.netClient.Commit(kind, id, doc)
	})

	a.World = placeables.NewWorld(a.View, a.Assets)
	a.Canvas = canvas.NewCanvas(a.World, a.Hooks)
	a.Scheduler = perception.NewScheduler(a.Canvas.Handlers())
	a.World.Scheduler = a.Scheduler
	a.Pipeline = lighting.NewPipeline()
	a.Controls = controls.New(user, a.Hooks)

	a.View.OnDocumentChange(a.Canvas.HandleChange)

	log.Printf("[App] Núcleo inicializado (%dx%d)", a.Config.WindowWidth, a.Config.WindowHeight)

	go a.connectServer()

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// enqueue agenda um evento de rede para a thread principal.
func (a *App) enqueue(fn func()) {
	a.queueMu.Lock()
	a.queue = append(a.queue, fn)
	a.queueMu.Unlock()
}

// drainQueue aplica os eventos de rede pendentes.
func (a *App) drainQueue() {
	a.queueMu.Lock()
	pending := a.queue
	a.queue = nil
	a.queueMu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++
	a.drainQueue()

	a.processAssetQueue()

	switch a.State {
	case StateViewing:
		a.updateCamera()
		a.updateInput()
		a.updatePerception()
		a.handleAutoSave()
	case StatePaused:
		a.updateInput()
	case StateLoading:
		a.updateInput()
	}
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.Settings != nil && a.Canvas.Ready() {
		if err := a.Settings.SaveSnapshot(a.View); err != nil {
			log.Printf("[App] Falha ao salvar snapshot final: %v", err)
		}
	}

	if a.netClient != nil {
		a.netClient.Close()
	}
	if a.Canvas.Ready() {
		a.Canvas.TearDown()
	}
	a.Pipeline.TearDown()
	if a.sceneRT.ID != 0 && rl.IsWindowReady() {
		rl.UnloadRenderTexture(a.sceneRT)
	}
	a.Assets.Clear()
	if a.Settings != nil {
		a.Settings.Close()
	}

	if err := a.Config.Save(); err != nil {
		log.Printf("[App] Erro ao salvar configurações: %v", err)
	}
}
