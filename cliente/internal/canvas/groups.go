// Package canvas organiza a cena em uma árvore fixa de grupos de
// renderização e produz as máscaras de visibilidade, oclusão e
// profundidade consumidas pelo composite.
//
// Árvore: stage → { hidden, rendered → { environment → { primary,
// effects }, interface } }. Grupos com cache desenham em uma render
// texture própria e só a recompõem quando invalidados.
package canvas

import (
	"log"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Group é um nó da árvore de renderização.
type Group struct {
	Name   string
	Hidden bool

	// Cached desenha os filhos em uma render texture própria.
	Cached     bool
	ClearColor rl.Color
	dirty      bool
	target     rl.RenderTexture2D

	// Draw é o conteúdo folha do grupo, desenhado antes dos filhos.
	Draw func()

	children []*Group
	parent   *Group
}

// NewGroup cria um grupo folha.
func NewGroup(name string) *Group {
	return &Group{Name: name, dirty: true}
}

// AddChild acopla um filho ao fim da lista de desenho.
func (g *Group) AddChild(child *Group) *Group {
	child.parent = g
	g.children = append(g.children, child)
	return child
}

// Children devolve os filhos na ordem de desenho.
func (g *Group) Children() []*Group { return g.children }

// Invalidate marca o grupo (e os ancestrais com cache) para redesenho.
func (g *Group) Invalidate() {
	for n := g; n != nil; n = n.parent {
		if n.Cached {
			n.dirty = true
		}
	}
}

// Render desenha o grupo: conteúdo próprio, depois filhos. Grupos com
// cache redesenham a própria textura apenas quando sujos e então a
// estampam no alvo corrente.
func (g *Group) Render(width, height int32) {
	if g.Hidden {
		return
	}
	if !g.Cached || !rl.IsWindowReady() {
		g.renderDirect(width, height)
		return
	}

	if g.target.ID == 0 || g.target.Texture.Width != width || g.target.Texture.Height != height {
		if g.target.ID != 0 {
			rl.UnloadRenderTexture(g.target)
		}
		g.target = rl.LoadRenderTexture(width, height)
		g.dirty = true
	}

	if g.dirty {
		rl.BeginTextureMode(g.target)
		rl.ClearBackground(g.ClearColor)
		g.renderDirect(width, height)
		rl.EndTextureMode()
		g.dirty = false
	}

	// Render textures são invertidas verticalmente no OpenGL
	src := rl.Rectangle{Width: float32(width), Height: -float32(height)}
	dst := rl.Rectangle{Width: float32(width), Height: float32(height)}
	rl.DrawTexturePro(g.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

func (g *Group) renderDirect(width, height int32) {
	if g.Draw != nil {
		g.Draw()
	}
	for _, child := range g.children {
		child.Render(width, height)
	}
}

// TearDown libera as render textures do grupo e, salvo
// preserveChildren, também as da subárvore.
func (g *Group) TearDown(preserveChildren bool) {
	if g.target.ID != 0 {
		if rl.IsWindowReady() {
			rl.UnloadRenderTexture(g.target)
		}
		g.target = rl.RenderTexture2D{}
	}
	g.dirty = true
	if preserveChildren {
		return
	}
	for _, child := range g.children {
		child.TearDown(false)
	}
}

// Find procura um grupo por nome na subárvore (busca em profundidade).
func (g *Group) Find(name string) *Group {
	if g.Name == name {
		return g
	}
	for _, child := range g.children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Stage é a árvore fixa de grupos do canvas.
type Stage struct {
	Root        *Group
	HiddenGroup *Group // objetos fora da renderização (clones, medição)
	Rendered    *Group
	Environment *Group
	Primary     *Group
	Effects     *Group
	Interface   *Group
}

// NewStage monta a árvore canônica.
func NewStage() *Stage {
	root := NewGroup("stage")
	hidden := root.AddChild(NewGroup("hidden"))
	hidden.Hidden = true
	rendered := root.AddChild(NewGroup("rendered"))
	environment := rendered.AddChild(NewGroup("environment"))
	primary := environment.AddChild(NewGroup("primary"))
	primary.Cached = true
	effects := environment.AddChild(NewGroup("effects"))
	iface := rendered.AddChild(NewGroup("interface"))

	return &Stage{
		Root:        root,
		HiddenGroup: hidden,
		Rendered:    rendered,
		Environment: environment,
		Primary:     primary,
		Effects:     effects,
		Interface:   iface,
	}
}

// InsertBefore injeta um grupo antes de um irmão nomeado; usado por
// extensões (hooks) para criar grupos de efeitos próprios.
func (g *Group) InsertBefore(child *Group, siblingName string) {
	child.parent = g
	idx := len(g.children)
	for i, c := range g.children {
		if c.Name == siblingName {
			idx = i
			break
		}
	}
	g.children = append(g.children, nil)
	copy(g.children[idx+1:], g.children[idx:])
	g.children[idx] = child
}

// SortChildren reordena os filhos por um critério estável.
func (g *Group) SortChildren(less func(a, b *Group) bool) {
	sort.SliceStable(g.children, func(i, j int) bool { return less(g.children[i], g.children[j]) })
}

// TearDownStage desmonta a árvore toda, registrando o evento.
func (s *Stage) TearDownStage() {
	s.Root.TearDown(false)
	log.Printf("[Canvas] Árvore de grupos desmontada")
}
