package canvas

import (
	"log"

	"TabletopVision/cliente/internal/hooks"
	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/placeables"
	"TabletopVision/cliente/internal/sources"
	"TabletopVision/shared/docs"
)

// Canvas é a materialização renderizável da cena ativa: a árvore de
// grupos, uma camada por tipo de documento e as máscaras do composite.
type Canvas struct {
	World *placeables.World
	Stage *Stage
	Masks *Masks
	Hooks *hooks.Bus

	layers  map[docs.Kind]*placeables.Layer
	audible map[string]bool
	ready   bool
}

// NewCanvas monta um canvas vazio sobre o mundo dado.
func NewCanvas(world *placeables.World, bus *hooks.Bus) *Canvas {
	c := &Canvas{
		World:  world,
		Stage:  NewStage(),
		Masks:  NewMasks(),
		Hooks:  bus,
		layers: make(map[docs.Kind]*placeables.Layer),
	}
	for _, kind := range docs.AllKinds {
		c.layers[kind] = placeables.NewLayer(world, kind)
	}
	return c
}

// Layer devolve a camada de um tipo.
func (c *Canvas) Layer(kind docs.Kind) *placeables.Layer { return c.layers[kind] }

// Ready informa se o canvas está montado para a cena ativa.
func (c *Canvas) Ready() bool { return c.ready }

// Build materializa todos os documentos da cena ativa. As fontes são
// registradas com Defer e a percepção inteira é agendada uma vez.
func (c *Canvas) Build() {
	if c.Hooks != nil {
		c.Hooks.Call(hooks.CanvasInit, c)
	}
	total := 0
	for _, kind := range docs.AllKinds {
		for _, doc := range c.World.View.Placeables(kind) {
			c.layers[kind].Upsert(doc, placeables.SourceOptions{Defer: true})
			total++
		}
	}
	c.World.Schedule(perception.All())
	c.ready = true
	log.Printf("[Canvas] Cena montada: %d posicionáveis", total)
	if c.Hooks != nil {
		c.Hooks.Call(hooks.CanvasReady, c)
	}
}

// TearDown desmonta o canvas inteiro: camadas, fontes, árvore de
// grupos e máscaras. O cache de texturas sobrevive (TTL cuida dele).
func (c *Canvas) TearDown() {
	if c.Hooks != nil {
		c.Hooks.Call(hooks.CanvasTearDown, c)
	}
	for _, layer := range c.layers {
		layer.TearDown()
	}
	c.Masks.TearDown()
	c.Stage.TearDownStage()
	c.audible = nil
	c.ready = false
}

// HandleChange reage a uma mutação de documento vinda da visão local:
// atualiza a camada e converte o delta em flags de percepção.
func (c *Canvas) HandleChange(kind docs.Kind, action docs.Action, id string, doc *docs.PlaceableDoc, change docs.ChangeKind) {
	if !c.ready {
		return
	}
	layer := c.layers[kind]
	if layer == nil {
		return
	}

	switch action {
	case docs.ActionCreate, docs.ActionUpdate:
		layer.Upsert(doc, placeables.SourceOptions{Defer: true})
	case docs.ActionDelete:
		layer.Remove(id)
	}
	c.Stage.Primary.Invalidate()

	var flags perception.Flags
	if change&docs.ChangeGeometry != 0 {
		flags.Or(perception.Flags{
			InitializeLighting: true, RefreshLighting: true,
			InitializeVision: true, RefreshVision: true,
			InitializeSounds: true, RefreshSounds: true,
		})
	}
	if change&docs.ChangeSource != 0 {
		switch kind {
		case docs.KindLight:
			flags.Or(perception.Flags{RefreshLighting: true, RefreshVision: true})
		case docs.KindToken:
			flags.Or(perception.Flags{RefreshLighting: true, RefreshVision: true, RefreshTiles: true})
		case docs.KindSound:
			flags.Or(perception.Flags{RefreshSounds: true})
		default:
			flags.Or(perception.Flags{RefreshLighting: true, RefreshVision: true, RefreshSounds: true})
		}
	}
	if change&(docs.ChangePosition|docs.ChangeVisibility) != 0 {
		if kind == docs.KindToken || kind == docs.KindTile {
			flags.Or(perception.Flags{RefreshTiles: true})
		}
	}
	if flags.Any() {
		c.World.Schedule(flags)
	}
}

// Handlers produz os passos de percepção deste canvas para o agendador.
func (c *Canvas) Handlers() perception.Handlers {
	reinit := func(kind docs.Kind) func() error {
		return func() error {
			// Re-registra as fontes da camada contra as paredes atuais
			c.layers[kind].ForEach(func(p placeables.Placeable) {
				p.UpdateSource(placeables.SourceOptions{Defer: true})
			})
			return nil
		}
	}
	return perception.Handlers{
		InitializeLighting: reinit(docs.KindLight),
		InitializeVision:   reinit(docs.KindToken),
		InitializeSounds:   reinit(docs.KindSound),
		RefreshLighting: func() error {
			if c.Hooks != nil {
				c.Hooks.Call(hooks.LightingRefresh, c)
			}
			return nil
		},
		RefreshVision: func() error {
			scene := c.World.View.Scene()
			c.Masks.RenderVision(scene.TokenVision, c.World.Visions, c.World.Lights)
			return nil
		},
		RefreshSounds: func() error {
			c.refreshAudibleSounds()
			return nil
		},
		RefreshTiles: func() error {
			RefreshTileOcclusion(c.layers[docs.KindTile], c.layers[docs.KindToken])
			c.refreshOcclusionMasks()
			c.Stage.Primary.Invalidate()
			return nil
		},
	}
}

// refreshAudibleSounds recalcula o conjunto de fontes de som ao
// alcance de algum token observado (o LOS do som contém o token) e
// avisa as extensões de áudio.
func (c *Canvas) refreshAudibleSounds() {
	observed := observedTokens(c.layers[docs.KindToken])
	audible := make(map[string]bool)
	c.World.Sounds.Active(func(s *sources.Source) {
		for _, tok := range observed {
			if s.ContainsPoint(tok.X, tok.Y) {
				audible[s.ID] = true
				break
			}
		}
	})
	c.audible = audible
	if c.Hooks != nil {
		c.Hooks.Call(hooks.SoundsRefresh, c)
	}
}

// Audible informa se a fonte de som alcança algum token observado.
func (c *Canvas) Audible(sourceID string) bool { return c.audible[sourceID] }

// refreshOcclusionMasks reconstrói as máscaras de oclusão e
// profundidade a partir do estado corrente dos tiles.
func (c *Canvas) refreshOcclusionMasks() {
	var tiles []*placeables.Tile
	var all []placeables.Placeable
	c.layers[docs.KindTile].ForEach(func(p placeables.Placeable) {
		if t, ok := p.(*placeables.Tile); ok {
			tiles = append(tiles, t)
		}
		all = append(all, p)
	})
	c.layers[docs.KindToken].ForEach(func(p placeables.Placeable) { all = append(all, p) })

	lo, hi, ok := ElevationRange(all)
	if !ok {
		lo, hi = 0, 0
	}
	observed := observedTokens(c.layers[docs.KindToken])
	observedElev := 0.0
	if len(observed) > 0 {
		observedElev = observed[0].Elevation
	}
	c.Masks.RenderOcclusion(tiles, observed, observedElev, lo, hi, c.World.View.Scene().Size)
	c.Masks.RenderDepth(tiles, lo, hi)
}

// primaryItems coleta os posicionáveis do grupo primário. Tiles
// recortados por máscara ficam fora: eles são recompostos no overlay
// de oclusão, por cima do fog.
func (c *Canvas) primaryItems() []placeables.Placeable {
	var items []placeables.Placeable
	for _, kind := range []docs.Kind{docs.KindTile, docs.KindDrawing, docs.KindToken} {
		c.layers[kind].ForEach(func(p placeables.Placeable) {
			if t, ok := p.(*placeables.Tile); ok && t.MaskOccluded() {
				return
			}
			items = append(items, p)
		})
	}
	return items
}

// DrawPrimary desenha o grupo primário na ordem por elevação.
func (c *Canvas) DrawPrimary() {
	for _, p := range PrimaryOrder(c.primaryItems()) {
		if err := p.Draw(); err != nil {
			log.Printf("[Canvas] Falha isolada ao desenhar %s/%s: %v", p.Kind(), p.ID(), err)
		}
	}
}

// DrawOccludedTiles redesenha os tiles recortados por máscara no
// overlay de telhados, em espaço de cena (fora da câmera).
func (c *Canvas) DrawOccludedTiles() {
	var tiles []*placeables.Tile
	var all []placeables.Placeable
	c.layers[docs.KindTile].ForEach(func(p placeables.Placeable) {
		if t, ok := p.(*placeables.Tile); ok && t.MaskOccluded() {
			tiles = append(tiles, t)
		}
		all = append(all, p)
	})
	c.layers[docs.KindToken].ForEach(func(p placeables.Placeable) { all = append(all, p) })
	lo, hi, ok := ElevationRange(all)
	if !ok {
		lo, hi = 0, 0
	}

	c.Masks.RenderOverlay(tiles, lo, hi, func(t *placeables.Tile) {
		if err := t.Draw(); err != nil {
			log.Printf("[Canvas] Falha isolada ao desenhar %s/%s: %v", t.Kind(), t.ID(), err)
		}
	})
}

// DrawInterface desenha a camada de interface: gizmos de paredes,
// luzes, sons, gabaritos e notas.
func (c *Canvas) DrawInterface() {
	for _, kind := range []docs.Kind{docs.KindTemplate, docs.KindWall, docs.KindLight, docs.KindSound, docs.KindNote} {
		c.layers[kind].Draw()
	}
}
