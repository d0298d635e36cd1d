package controls

import (
	"testing"

	"TabletopVision/cliente/internal/hooks"
	"TabletopVision/shared/docs"
)

func TestConjuntosVisiveisPorPapel(t *testing.T) {
	gm := New(docs.User{ID: "gm", IsGM: true}, nil)
	if len(gm.Sets()) != 9 {
		t.Fatalf("GM vê %d conjuntos, esperado 9", len(gm.Sets()))
	}

	player := New(docs.User{ID: "p1"}, nil)
	for _, s := range player.Sets() {
		switch s.Name {
		case SetWalls, SetLighting, SetSounds, SetTiles, SetRegions:
			t.Errorf("jogador não deveria ver o conjunto %s", s.Name)
		}
	}
}

func TestInitializeResolucao(t *testing.T) {
	c := New(docs.User{IsGM: true}, nil)

	// Nome explícito vence
	c.Initialize(InitOptions{Control: SetWalls, Layer: docs.KindLight})
	if c.Active().Name != SetWalls {
		t.Fatalf("ativo = %s, esperado walls", c.Active().Name)
	}

	// Sem nome, resolve pela camada
	c.Initialize(InitOptions{Layer: docs.KindLight})
	if c.Active().Name != SetLighting {
		t.Fatalf("ativo = %s, esperado lighting", c.Active().Name)
	}

	// Sem nada, mantém o corrente
	c.Initialize(InitOptions{})
	if c.Active().Name != SetLighting {
		t.Fatal("sem opções deveria manter o conjunto corrente")
	}

	// Ferramenta pedida que existe vira a ativa
	c.Initialize(InitOptions{Control: SetMeasure, Tool: "cone"})
	if c.Active().ActiveTool != "cone" {
		t.Fatalf("ferramenta = %s, esperado cone", c.Active().ActiveTool)
	}

	// Ferramenta inexistente é ignorada
	c.Initialize(InitOptions{Control: SetMeasure, Tool: "naoExiste"})
	if c.Active().ActiveTool != "cone" {
		t.Fatal("ferramenta inexistente não deveria mudar a ativa")
	}
}

func TestTiposDeFerramenta(t *testing.T) {
	c := New(docs.User{IsGM: true}, nil)
	c.Initialize(InitOptions{Control: SetSounds})

	// Toggle alterna e entrega o novo estado
	var got []bool
	c.Active().Tool("preview").OnClick = func(active bool) { got = append(got, active) }
	c.Click("preview")
	c.Click("preview")
	if len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("toggle: %v", got)
	}
	if c.Active().ActiveTool != "sound" {
		t.Fatal("toggle não deveria mudar a ferramenta ativa")
	}

	// Button executa sem mudar a ferramenta ativa
	c.Initialize(InitOptions{Control: SetLighting})
	ran := false
	c.Active().Tool("day").OnClick = func(bool) { ran = true }
	c.Click("day")
	if !ran || c.Active().ActiveTool != "light" {
		t.Fatal("button deveria executar sem virar a ferramenta ativa")
	}

	// Default vira a ferramenta ativa
	c.Initialize(InitOptions{Control: SetMeasure})
	c.Click("ray")
	if c.Active().ActiveTool != "ray" {
		t.Fatal("ferramenta default deveria virar a ativa")
	}
}

func TestFerramentasVisiveis(t *testing.T) {
	player := New(docs.User{ID: "p1"}, nil)
	player.Initialize(InitOptions{Control: SetMeasure})
	for _, tool := range player.VisibleTools(player.Active()) {
		if tool.Name == "clear" {
			t.Fatal("jogador não deveria ver a ferramenta clear")
		}
	}

	gm := New(docs.User{IsGM: true}, nil)
	gm.Initialize(InitOptions{Control: SetMeasure})
	found := false
	for _, tool := range gm.VisibleTools(gm.Active()) {
		if tool.Name == "clear" {
			found = true
		}
	}
	if !found {
		t.Fatal("GM deveria ver a ferramenta clear")
	}
}

func TestGanchoDeExtensao(t *testing.T) {
	bus := hooks.NewBus()
	bus.On(hooks.GetSceneControlButtons, func(payload any) {
		sets := payload.(*[]*ControlSet)
		*sets = append(*sets, &ControlSet{Name: "meuModulo", Title: "Extra",
			Tools: []*Tool{{Name: "magia"}}})
	})

	c := New(docs.User{IsGM: true}, bus)
	if c.Set("meuModulo") == nil {
		t.Fatal("gancho deveria poder adicionar conjuntos")
	}
}
