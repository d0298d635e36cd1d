// Package controls mantém o estado da barra de controles de cena:
// conjuntos de ferramentas por camada, a ferramenta ativa de cada
// conjunto e os toggles por ferramenta.
package controls

import (
	"log"

	"TabletopVision/cliente/internal/hooks"
	"TabletopVision/shared/docs"
)

// Nomes canônicos dos conjuntos de controle.
const (
	SetToken    = "token"
	SetMeasure  = "measure"
	SetTiles    = "tiles"
	SetDrawings = "drawings"
	SetWalls    = "walls"
	SetLighting = "lighting"
	SetSounds   = "sounds"
	SetNotes    = "notes"
	SetRegions  = "regions"
)

// ToolType define o comportamento de clique de uma ferramenta.
type ToolType int

const (
	// ToolDefault vira a ferramenta ativa do conjunto e executa OnClick.
	ToolDefault ToolType = iota
	// ToolButton só executa OnClick, sem mudar a ferramenta ativa.
	ToolButton
	// ToolToggle alterna o estado e entrega o novo valor ao OnClick.
	ToolToggle
)

// Tool é uma ferramenta de um conjunto de controles.
type Tool struct {
	Name  string
	Title string
	Icon  string
	Type  ToolType

	// Visible exclui a ferramenta da renderização quando retorna
	// false; nil é sempre visível.
	Visible func(user docs.User) bool

	// OnClick recebe o estado do toggle (sempre false para os demais).
	OnClick func(active bool)

	active bool // estado corrente de um toggle
}

// ControlSet agrupa as ferramentas de uma camada.
type ControlSet struct {
	Name       string
	Title      string
	Icon       string
	Layer      docs.Kind // camada que ativa este conjunto
	Tools      []*Tool
	ActiveTool string

	// Visible oculta o conjunto inteiro (ex.: walls só para o GM).
	Visible func(user docs.User) bool
}

// Tool busca uma ferramenta por nome.
func (cs *ControlSet) Tool(name string) *Tool {
	for _, t := range cs.Tools {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Controls é o estado corrente da barra.
type Controls struct {
	sets   []*ControlSet
	active string
	user   docs.User
	bus    *hooks.Bus
}

// InitOptions escolhe o conjunto alvo na inicialização: por nome
// explícito, senão pela camada, senão mantém o corrente.
type InitOptions struct {
	Control string
	Layer   docs.Kind
	Tool    string
}

// New monta a barra com os conjuntos padrão e dispara o gancho de
// extensão getSceneControlButtons para mutação externa.
func New(user docs.User, bus *hooks.Bus) *Controls {
	c := &Controls{user: user, bus: bus, active: SetToken}
	c.sets = defaultSets(user)
	if bus != nil {
		bus.Call(hooks.GetSceneControlButtons, &c.sets)
	}
	return c
}

// defaultSets constrói os nove conjuntos canônicos.
func defaultSets(user docs.User) []*ControlSet {
	gmOnly := func(u docs.User) bool { return u.IsGM }
	return []*ControlSet{
		{Name: SetToken, Title: "Tokens", Icon: "user", Layer: docs.KindToken,
			ActiveTool: "select", Tools: []*Tool{
				{Name: "select", Title: "Selecionar"},
				{Name: "target", Title: "Mirar"},
				{Name: "ruler", Title: "Régua"},
			}},
		{Name: SetMeasure, Title: "Medição", Icon: "ruler", Layer: docs.KindTemplate,
			ActiveTool: "circle", Tools: []*Tool{
				{Name: "circle", Title: "Círculo"},
				{Name: "cone", Title: "Cone"},
				{Name: "ray", Title: "Raio"},
				{Name: "rect", Title: "Retângulo"},
				{Name: "clear", Title: "Limpar gabaritos", Type: ToolButton, Visible: gmOnly},
			}},
		{Name: SetTiles, Title: "Tiles", Icon: "cubes", Layer: docs.KindTile,
			Visible: gmOnly, ActiveTool: "select", Tools: []*Tool{
				{Name: "select", Title: "Selecionar"},
				{Name: "tile", Title: "Colocar tile"},
				{Name: "foreground", Title: "Camada frontal", Type: ToolToggle},
			}},
		{Name: SetDrawings, Title: "Desenhos", Icon: "pencil", Layer: docs.KindDrawing,
			ActiveTool: "select", Tools: []*Tool{
				{Name: "select", Title: "Selecionar"},
				{Name: "rect", Title: "Retângulo"},
				{Name: "freehand", Title: "Mão livre"},
				{Name: "text", Title: "Texto"},
			}},
		{Name: SetWalls, Title: "Paredes", Icon: "block-brick", Layer: docs.KindWall,
			Visible: gmOnly, ActiveTool: "walls", Tools: []*Tool{
				{Name: "walls", Title: "Parede comum"},
				{Name: "invisible", Title: "Parede invisível"},
				{Name: "door", Title: "Porta"},
				{Name: "secret", Title: "Porta secreta"},
				{Name: "clone", Title: "Clonar", Type: ToolButton},
			}},
		{Name: SetLighting, Title: "Iluminação", Icon: "lightbulb", Layer: docs.KindLight,
			Visible: gmOnly, ActiveTool: "light", Tools: []*Tool{
				{Name: "light", Title: "Criar luz"},
				{Name: "day", Title: "Transição para dia", Type: ToolButton},
				{Name: "night", Title: "Transição para noite", Type: ToolButton},
				{Name: "reset", Title: "Zerar fog", Type: ToolButton},
			}},
		{Name: SetSounds, Title: "Sons", Icon: "music", Layer: docs.KindSound,
			Visible: gmOnly, ActiveTool: "sound", Tools: []*Tool{
				{Name: "sound", Title: "Criar som"},
				{Name: "preview", Title: "Pré-escuta", Type: ToolToggle},
			}},
		{Name: SetNotes, Title: "Notas", Icon: "bookmark", Layer: docs.KindNote,
			ActiveTool: "select", Tools: []*Tool{
				{Name: "select", Title: "Selecionar"},
				{Name: "journal", Title: "Criar nota", Visible: gmOnly},
				{Name: "toggle", Title: "Exibir todas", Type: ToolToggle},
			}},
		{Name: SetRegions, Title: "Regiões", Icon: "map", Layer: "",
			Visible: gmOnly, ActiveTool: "select", Tools: []*Tool{
				{Name: "select", Title: "Selecionar"},
			}},
	}
}

// Sets devolve os conjuntos visíveis para o usuário corrente.
func (c *Controls) Sets() []*ControlSet {
	out := make([]*ControlSet, 0, len(c.sets))
	for _, s := range c.sets {
		if s.Visible != nil && !s.Visible(c.user) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Set busca um conjunto por nome (visível ou não).
func (c *Controls) Set(name string) *ControlSet {
	for _, s := range c.sets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Active devolve o conjunto ativo.
func (c *Controls) Active() *ControlSet { return c.Set(c.active) }

// Initialize resolve e ativa o conjunto alvo: nome explícito primeiro,
// depois a camada, senão o corrente. Uma ferramenta pedida que não
// existe no conjunto é ignorada.
func (c *Controls) Initialize(opts InitOptions) {
	target := c.Active()
	if opts.Control != "" {
		if s := c.Set(opts.Control); s != nil {
			target = s
		}
	} else if opts.Layer != "" {
		for _, s := range c.sets {
			if s.Layer == opts.Layer {
				target = s
				break
			}
		}
	}
	if target == nil {
		return
	}
	c.active = target.Name
	if opts.Tool != "" && target.Tool(opts.Tool) != nil {
		target.ActiveTool = opts.Tool
	}
	log.Printf("[Controls] Conjunto ativo: %s (ferramenta %s)", target.Name, target.ActiveTool)
}

// VisibleTools filtra as ferramentas renderizáveis de um conjunto.
func (c *Controls) VisibleTools(set *ControlSet) []*Tool {
	out := make([]*Tool, 0, len(set.Tools))
	for _, t := range set.Tools {
		if t.Visible != nil && !t.Visible(c.user) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Click aciona uma ferramenta do conjunto ativo conforme o tipo.
func (c *Controls) Click(toolName string) {
	set := c.Active()
	if set == nil {
		return
	}
	tool := set.Tool(toolName)
	if tool == nil {
		return
	}
	switch tool.Type {
	case ToolButton:
		if tool.OnClick != nil {
			tool.OnClick(false)
		}
	case ToolToggle:
		tool.active = !tool.active
		if tool.OnClick != nil {
			tool.OnClick(tool.active)
		}
	default:
		set.ActiveTool = tool.Name
		if tool.OnClick != nil {
			tool.OnClick(false)
		}
	}
}

// ToggleState consulta o estado de um toggle do conjunto ativo.
func (c *Controls) ToggleState(toolName string) bool {
	if set := c.Active(); set != nil {
		if tool := set.Tool(toolName); tool != nil {
			return tool.active
		}
	}
	return false
}
