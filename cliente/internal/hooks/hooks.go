// Package hooks é o barramento de eventos nomeados do cliente: pontos
// de extensão disparados nos marcos do ciclo de vida do canvas e da
// iluminação. A entrega é melhor-esforço: um ouvinte que entra em
// pânico não derruba o quadro nem os demais ouvintes.
package hooks

import "log"

// Eventos emitidos pelo núcleo.
const (
	CanvasInit               = "canvasInit"
	CanvasReady              = "canvasReady"
	CanvasTearDown           = "canvasTearDown"
	CreateEffectsCanvasGroup = "createEffectsCanvasGroup"
	DrawEffectsCanvasGroup   = "drawEffectsCanvasGroup"
	LightingRefresh          = "lightingRefresh"
	SoundsRefresh            = "soundsRefresh"
	InitializeLightShaders   = "initializeLightSourceShaders"
	GetSceneControlButtons   = "getSceneControlButtons"
)

// Fn é um ouvinte de evento; payload depende do evento.
type Fn func(payload any)

// Bus registra e dispara ouvintes por nome de evento.
// Single-thread: usado apenas na goroutine de renderização.
type Bus struct {
	listeners map[string][]Fn
}

// NewBus cria um barramento vazio.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]Fn)}
}

// On registra um ouvinte para o evento nomeado.
func (b *Bus) On(event string, fn Fn) {
	b.listeners[event] = append(b.listeners[event], fn)
}

// Call dispara o evento para todos os ouvintes na ordem de registro.
// Os ouvintes recebem um snapshot da lista: registros feitos durante o
// disparo só valem para o próximo Call.
func (b *Bus) Call(event string, payload any) {
	snapshot := make([]Fn, len(b.listeners[event]))
	copy(snapshot, b.listeners[event])
	for _, fn := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Hooks] Ouvinte de %s em pânico: %v", event, r)
				}
			}()
			fn(payload)
		}()
	}
}

// Count informa quantos ouvintes o evento tem.
func (b *Bus) Count(event string) int { return len(b.listeners[event]) }
