package docs

import "testing"

func newTestView() *LocalView {
	return NewLocalView(User{ID: "u1", IsGM: true}, nil)
}

func TestApplyCreateUpdateDelete(t *testing.T) {
	v := newTestView()

	var gotKind Kind
	var gotAction Action
	calls := 0
	v.OnDocumentChange(func(kind Kind, action Action, id string, doc *PlaceableDoc, change ChangeKind) {
		gotKind = kind
		gotAction = action
		calls++
	})

	doc := &PlaceableDoc{X: 100, Y: 200, Light: &LightData{Dim: 200, Bright: 100, DarknessMax: 1}}
	v.Apply(KindLight, ActionCreate, "l1", doc)

	if calls != 1 || gotKind != KindLight || gotAction != ActionCreate {
		t.Fatalf("assinante: calls=%d kind=%s action=%d", calls, gotKind, gotAction)
	}
	if got, ok := v.Get(KindLight, "l1"); !ok || got.X != 100 {
		t.Fatalf("Get após create: %+v, %v", got, ok)
	}

	moved := &PlaceableDoc{X: 150, Y: 200, Light: doc.Light}
	change := v.Apply(KindLight, ActionUpdate, "l1", moved)
	if change&ChangePosition == 0 || change&ChangeSource == 0 {
		t.Fatalf("update de posição de luz: change=%b", change)
	}

	v.Apply(KindLight, ActionDelete, "l1", nil)
	if _, ok := v.Get(KindLight, "l1"); ok {
		t.Fatal("documento ainda presente após delete")
	}
	if calls != 3 {
		t.Fatalf("assinante deveria ter sido chamado 3x, foi %d", calls)
	}
}

func TestApplyUpdateSemMudanca(t *testing.T) {
	v := newTestView()
	doc := &PlaceableDoc{X: 10, Y: 10}
	v.Apply(KindToken, ActionCreate, "t1", doc)

	same := &PlaceableDoc{X: 10, Y: 10}
	if change := v.Apply(KindToken, ActionUpdate, "t1", same); change != NoChange {
		t.Fatalf("update idêntico deveria ser NoChange, veio %b", change)
	}
}

func TestUpdateDesconhecidoViraCreate(t *testing.T) {
	v := newTestView()
	v.Apply(KindToken, ActionUpdate, "fantasma", &PlaceableDoc{X: 1})
	if _, ok := v.Get(KindToken, "fantasma"); !ok {
		t.Fatal("update de documento desconhecido deveria reparar como create")
	}
}

func TestParedeGeraChangeGeometry(t *testing.T) {
	v := newTestView()
	wall := &PlaceableDoc{Wall: &WallData{X1: 0, Y1: 0, X2: 100, Y2: 0, BlocksSight: true}}
	if change := v.Apply(KindWall, ActionCreate, "w1", wall); change&ChangeGeometry == 0 {
		t.Fatalf("criação de parede deveria marcar ChangeGeometry: %b", change)
	}

	moved := &PlaceableDoc{Wall: &WallData{X1: 0, Y1: 0, X2: 100, Y2: 50, BlocksSight: true}}
	if change := v.Apply(KindWall, ActionUpdate, "w1", moved); change&ChangeGeometry == 0 {
		t.Fatalf("parede movida deveria marcar ChangeGeometry: %b", change)
	}
}

func TestToggleHidden(t *testing.T) {
	v := newTestView()
	light := &PlaceableDoc{Light: &LightData{Dim: 200, DarknessMax: 1}}
	v.Apply(KindLight, ActionCreate, "l1", light)

	hidden := &PlaceableDoc{Hidden: true, Light: light.Light}
	change := v.Apply(KindLight, ActionUpdate, "l1", hidden)
	if change&ChangeVisibility == 0 || change&ChangeSource == 0 {
		t.Fatalf("toggle hidden: change=%b", change)
	}
}

func TestActivateSceneDescartaPlaceables(t *testing.T) {
	v := newTestView()
	v.Apply(KindToken, ActionCreate, "t1", &PlaceableDoc{})
	v.ActivateScene(&SceneDoc{ID: "s2", SceneWidth: 1000, SceneHeight: 1000})

	if len(v.Placeables(KindToken)) != 0 {
		t.Fatal("ativação de cena deveria descartar posicionáveis")
	}
	if v.Scene().ID != "s2" {
		t.Fatalf("cena ativa: %s", v.Scene().ID)
	}
}

func TestSourceID(t *testing.T) {
	v := newTestView()
	doc := &PlaceableDoc{ID: "abc", Kind: KindLight}
	if got := v.SourceID(doc); got != "light.abc" {
		t.Fatalf("SourceID = %q", got)
	}
}

func TestUserCan(t *testing.T) {
	gm := User{IsGM: true}
	if !gm.Can("qualquer") {
		t.Fatal("GM sempre pode")
	}
	player := User{Permissions: map[string]bool{"token.move": true}}
	if !player.Can("token.move") || player.Can("wall.edit") {
		t.Fatal("permissões do jogador incorretas")
	}
}
