// Package perception coalesce pedidos de atualização de percepção
// (iluminação, visão, sons, tiles) e os descarrega em ordem fixa uma
// vez por quadro. Também resolve a visibilidade de pontos e alvos
// contra as fontes de visão ativas.
package perception

import "log"

// Flags indica quais passos de percepção estão pendentes.
// Pedidos sucessivos são combinados por OU até o próximo Flush.
type Flags struct {
	InitializeLighting bool
	InitializeVision   bool
	InitializeSounds   bool
	RefreshLighting    bool
	RefreshVision      bool
	RefreshSounds      bool
	RefreshTiles       bool
}

// Or combina outro conjunto de flags neste.
func (f *Flags) Or(other Flags) {
	f.InitializeLighting = f.InitializeLighting || other.InitializeLighting
	f.InitializeVision = f.InitializeVision || other.InitializeVision
	f.InitializeSounds = f.InitializeSounds || other.InitializeSounds
	f.RefreshLighting = f.RefreshLighting || other.RefreshLighting
	f.RefreshVision = f.RefreshVision || other.RefreshVision
	f.RefreshSounds = f.RefreshSounds || other.RefreshSounds
	f.RefreshTiles = f.RefreshTiles || other.RefreshTiles
}

// Any informa se há algum passo pendente.
func (f Flags) Any() bool {
	return f.InitializeLighting || f.InitializeVision || f.InitializeSounds ||
		f.RefreshLighting || f.RefreshVision || f.RefreshSounds || f.RefreshTiles
}

// All retorna todos os passos marcados; usado na ativação de cena.
func All() Flags {
	return Flags{
		InitializeLighting: true, InitializeVision: true, InitializeSounds: true,
		RefreshLighting: true, RefreshVision: true, RefreshSounds: true,
		RefreshTiles: true,
	}
}

// Handlers são os passos executados pelo Flush, na ordem declarada.
// Inicializações sempre precedem os refreshes correspondentes.
type Handlers struct {
	InitializeLighting func() error
	InitializeVision   func() error
	InitializeSounds   func() error
	RefreshLighting    func() error
	RefreshVision      func() error
	RefreshSounds      func() error
	RefreshTiles       func() error
}

// Scheduler acumula flags de percepção entre quadros.
// Single-thread: todo acesso acontece na goroutine de renderização.
type Scheduler struct {
	handlers Handlers
	pending  Flags
	active   bool
}

// NewScheduler cria o agendador com os passos fornecidos.
func NewScheduler(handlers Handlers) *Scheduler {
	return &Scheduler{handlers: handlers, active: true}
}

// Update acumula os pedidos; com immediate=true descarrega na hora.
func (s *Scheduler) Update(flags Flags, immediate bool) {
	if !s.active {
		return
	}
	s.pending.Or(flags)
	if immediate {
		s.Flush()
	}
}

// Pending expõe as flags acumuladas (para inspeção e depuração).
func (s *Scheduler) Pending() Flags { return s.pending }

// Flush executa os passos pendentes em ordem fixa. Uma falha em um
// passo é registrada e não impede os seguintes. As flags são limpas
// antes da execução: um passo pode re-agendar para o próximo quadro.
func (s *Scheduler) Flush() {
	if !s.active || !s.pending.Any() {
		return
	}
	flags := s.pending
	s.pending = Flags{}

	run := func(name string, on bool, fn func() error) {
		if !on || fn == nil {
			return
		}
		if err := fn(); err != nil {
			log.Printf("[Perception] Falha em %s: %v", name, err)
		}
	}
	run("initializeLighting", flags.InitializeLighting, s.handlers.InitializeLighting)
	run("initializeVision", flags.InitializeVision, s.handlers.InitializeVision)
	run("initializeSounds", flags.InitializeSounds, s.handlers.InitializeSounds)
	run("refreshLighting", flags.RefreshLighting, s.handlers.RefreshLighting)
	run("refreshVision", flags.RefreshVision, s.handlers.RefreshVision)
	run("refreshSounds", flags.RefreshSounds, s.handlers.RefreshSounds)
	run("refreshTiles", flags.RefreshTiles, s.handlers.RefreshTiles)
}

// Deactivate descarta pedidos pendentes e ignora novos até Activate.
// Chamado no desmonte da cena para não atualizar um canvas morto.
func (s *Scheduler) Deactivate() {
	s.active = false
	s.pending = Flags{}
}

// Activate volta a aceitar pedidos após um desmonte.
func (s *Scheduler) Activate() { s.active = true }
