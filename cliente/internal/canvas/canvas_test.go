package canvas

import (
	"math"
	"testing"

	"TabletopVision/cliente/internal/perception"
	"TabletopVision/cliente/internal/placeables"
	"TabletopVision/shared/docs"
)

func newTestCanvas(scene *docs.SceneDoc) (*Canvas, *docs.LocalView) {
	view := docs.NewLocalView(docs.User{ID: "u1", IsGM: true}, nil)
	view.ActivateScene(scene)
	world := placeables.NewWorld(view, nil)
	c := NewCanvas(world, nil)
	world.Scheduler = perception.NewScheduler(c.Handlers())
	return c, view
}

func TestArvoreDeGrupos(t *testing.T) {
	s := NewStage()
	if s.Root.Find("primary") != s.Primary || s.Root.Find("effects") != s.Effects {
		t.Fatal("árvore canônica incompleta")
	}
	if !s.HiddenGroup.Hidden {
		t.Fatal("grupo hidden deveria nascer oculto")
	}
	if !s.Primary.Cached {
		t.Fatal("primary deveria ter cache")
	}

	// Extensão injeta um grupo antes de effects
	custom := NewGroup("meuGrupo")
	s.Environment.InsertBefore(custom, "effects")
	kids := s.Environment.Children()
	if len(kids) != 3 || kids[1] != custom || kids[2] != s.Effects {
		t.Fatalf("InsertBefore posicionou errado: %v", kids)
	}
}

func TestInvalidateSobeParaCache(t *testing.T) {
	s := NewStage()
	s.Primary.dirty = false
	leaf := NewGroup("folha")
	s.Primary.AddChild(leaf)

	leaf.Invalidate()
	if !s.Primary.dirty {
		t.Fatal("Invalidate deveria sujar o ancestral com cache")
	}
}

func mkPlaceable(w *placeables.World, kind docs.Kind, id string, elevation float64, sortKey int) placeables.Placeable {
	doc := &docs.PlaceableDoc{ID: id, Kind: kind, Elevation: elevation, Sort: sortKey}
	switch kind {
	case docs.KindToken:
		doc.Token = &docs.TokenData{}
	case docs.KindTile:
		doc.Tile = &docs.TileData{Width: 100, Height: 100}
	case docs.KindDrawing:
		doc.Drawing = &docs.DrawingData{}
	}
	return placeables.New(w, doc)
}

func TestOrdemDoPrimario(t *testing.T) {
	c, _ := newTestCanvas(&docs.SceneDoc{ID: "s"})
	w := c.World

	items := []placeables.Placeable{
		mkPlaceable(w, docs.KindToken, "tokAlto", 10, 0),
		mkPlaceable(w, docs.KindTile, "tileChao", 0, 0),
		mkPlaceable(w, docs.KindToken, "tokChao", 0, 0),
		mkPlaceable(w, docs.KindDrawing, "desenho", 0, 0),
		mkPlaceable(w, docs.KindTile, "tileB", 0, 5),
	}

	ordered := PrimaryOrder(items)
	got := make([]string, len(ordered))
	for i, p := range ordered {
		got[i] = p.ID()
	}
	// Elevação 0 primeiro (tiles por Sort, depois desenho, depois token),
	// token elevado por último
	want := []string{"tileChao", "tileB", "desenho", "tokChao", "tokAlto"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ordem = %v, esperado %v", got, want)
		}
	}
}

func TestFaixaDeElevacaoIgnoraInfinito(t *testing.T) {
	c, _ := newTestCanvas(&docs.SceneDoc{ID: "s"})
	w := c.World
	items := []placeables.Placeable{
		mkPlaceable(w, docs.KindToken, "a", -5, 0),
		mkPlaceable(w, docs.KindToken, "b", 20, 0),
		mkPlaceable(w, docs.KindToken, "c", math.Inf(1), 0),
	}
	lo, hi, ok := ElevationRange(items)
	if !ok || lo != -5 || hi != 20 {
		t.Fatalf("faixa = [%v, %v] ok=%v", lo, hi, ok)
	}
}

func TestElevationAlphaLimites(t *testing.T) {
	// No plano de observação: opacidade plena
	if a := ElevationAlpha(10, 10, 0, 20); a != 1 {
		t.Errorf("no plano deveria ser 1, veio %v", a)
	}
	// No extremo da faixa: piso de 0.19
	if a := ElevationAlpha(0, 20, 0, 20); math.Abs(a-0.19) > 1e-9 {
		t.Errorf("no extremo deveria ser 0.19, veio %v", a)
	}
	// Elevação infinita nunca esmaece
	if a := ElevationAlpha(math.Inf(1), 0, 0, 20); a != 1 {
		t.Errorf("infinito deveria ser 1, veio %v", a)
	}
	// Meio da faixa fica entre os limites
	a := ElevationAlpha(10, 20, 0, 20)
	if a <= 0.19 || a >= 1 {
		t.Errorf("meio da faixa fora do intervalo: %v", a)
	}
}

func TestTileOccludes(t *testing.T) {
	tile := &docs.PlaceableDoc{X: 500, Y: 500, Elevation: 10,
		Tile: &docs.TileData{Width: 200, Height: 200, Occlusion: docs.OcclusionFade}}

	under := &docs.PlaceableDoc{X: 520, Y: 480, Elevation: 0}
	if !TileOccludes(tile, under) {
		t.Error("token sob o tile deveria ocluir")
	}

	outside := &docs.PlaceableDoc{X: 900, Y: 900, Elevation: 0}
	if TileOccludes(tile, outside) {
		t.Error("token fora do retângulo não oclui")
	}

	above := &docs.PlaceableDoc{X: 520, Y: 480, Elevation: 15}
	if TileOccludes(tile, above) {
		t.Error("token acima do tile não oclui")
	}

	tile.Tile.Occlusion = docs.OcclusionNone
	if TileOccludes(tile, under) {
		t.Error("modo NONE nunca oclui")
	}
}

func TestRefreshTileOcclusion(t *testing.T) {
	c, view := newTestCanvas(&docs.SceneDoc{ID: "s", SceneWidth: 2000, SceneHeight: 2000})

	view.Apply(docs.KindTile, docs.ActionCreate, "roof", &docs.PlaceableDoc{
		X: 500, Y: 500, Elevation: 10,
		Tile: &docs.TileData{Width: 300, Height: 300, Occlusion: docs.OcclusionFade, Roof: true}})
	view.Apply(docs.KindToken, docs.ActionCreate, "hero", &docs.PlaceableDoc{
		X: 100, Y: 100, Token: &docs.TokenData{Vision: true}})
	c.Build()

	tiles := c.Layer(docs.KindTile)
	tokens := c.Layer(docs.KindToken)

	if changed := RefreshTileOcclusion(tiles, tokens); changed != 0 {
		t.Fatal("token longe do tile não deveria mudar nada")
	}

	// Token anda para debaixo do telhado
	moved := &docs.PlaceableDoc{X: 500, Y: 500, Token: &docs.TokenData{Vision: true}}
	view.Apply(docs.KindToken, docs.ActionUpdate, "hero", moved)
	doc, _ := view.Get(docs.KindToken, "hero")
	tokens.Upsert(doc, placeables.SourceOptions{Defer: true})

	if changed := RefreshTileOcclusion(tiles, tokens); changed != 1 {
		t.Fatalf("telhado deveria passar a ocluir, changed = %d", changed)
	}
	p, _ := tiles.Get("roof")
	if !p.(*placeables.Tile).Occluded() {
		t.Fatal("flag de oclusão não foi marcada")
	}
}

func TestSonsAudiveis(t *testing.T) {
	c, view := newTestCanvas(&docs.SceneDoc{ID: "s", SceneWidth: 1000, SceneHeight: 1000})

	view.Apply(docs.KindSound, docs.ActionCreate, "perto", &docs.PlaceableDoc{
		X: 150, Y: 100,
		Sound: &docs.SoundData{Path: "amb/fogo.ogg", Radius: 100, DarknessMax: 1}})
	view.Apply(docs.KindSound, docs.ActionCreate, "longe", &docs.PlaceableDoc{
		X: 900, Y: 900,
		Sound: &docs.SoundData{Path: "amb/vento.ogg", Radius: 100, DarknessMax: 1}})
	view.Apply(docs.KindToken, docs.ActionCreate, "hero", &docs.PlaceableDoc{
		X: 100, Y: 100, Token: &docs.TokenData{Vision: true}})

	c.Build()
	c.World.Scheduler.Flush()

	if !c.Audible("sound.perto") {
		t.Error("som a 50px de um token observado deveria ser audível")
	}
	if c.Audible("sound.longe") {
		t.Error("som fora do raio não deveria ser audível")
	}

	// Token anda para perto do som distante
	view.Apply(docs.KindToken, docs.ActionUpdate, "hero", &docs.PlaceableDoc{
		X: 850, Y: 900, Token: &docs.TokenData{Vision: true}})
	doc, _ := view.Get(docs.KindToken, "hero")
	c.Layer(docs.KindToken).Upsert(doc, placeables.SourceOptions{Defer: true})
	c.World.Schedule(perception.Flags{RefreshSounds: true})
	c.World.Scheduler.Flush()

	if !c.Audible("sound.longe") {
		t.Error("após mover, o som distante deveria entrar no conjunto")
	}
}

func TestPrimarioExcluiTileRecortado(t *testing.T) {
	c, view := newTestCanvas(&docs.SceneDoc{ID: "s", SceneWidth: 1000, SceneHeight: 1000})

	view.Apply(docs.KindTile, docs.ActionCreate, "roof", &docs.PlaceableDoc{
		X: 500, Y: 500, Elevation: 10,
		Tile: &docs.TileData{Width: 300, Height: 300, Occlusion: docs.OcclusionRadial, Roof: true}})
	view.Apply(docs.KindToken, docs.ActionCreate, "hero", &docs.PlaceableDoc{
		X: 500, Y: 500, Token: &docs.TokenData{Vision: true}})
	c.Build()

	has := func(id string) bool {
		for _, p := range c.primaryItems() {
			if p.ID() == id {
				return true
			}
		}
		return false
	}

	if !has("roof") {
		t.Fatal("tile não ocluído pertence ao passe primário")
	}

	RefreshTileOcclusion(c.Layer(docs.KindTile), c.Layer(docs.KindToken))
	if has("roof") {
		t.Fatal("tile RADIAL ocluído deveria sair do primário (recomposto pela máscara)")
	}
	if !has("hero") {
		t.Fatal("o token continua no primário")
	}
}

func TestHandleChangeMapeiaFlags(t *testing.T) {
	c, view := newTestCanvas(&docs.SceneDoc{ID: "s", SceneWidth: 1000, SceneHeight: 1000})
	c.Build()
	c.World.Scheduler.Flush()

	// Criar uma parede re-inicializa a percepção inteira
	change := view.Apply(docs.KindWall, docs.ActionCreate, "w1", &docs.PlaceableDoc{
		Wall: &docs.WallData{X1: 0, Y1: 0, X2: 100, Y2: 0, BlocksSight: true}})
	c.HandleChange(docs.KindWall, docs.ActionCreate, "w1", mustGet(view, docs.KindWall, "w1"), change)

	pending := c.World.Scheduler.Pending()
	if !pending.InitializeLighting || !pending.InitializeVision || !pending.RefreshLighting {
		t.Fatalf("parede nova deveria re-inicializar tudo: %+v", pending)
	}
	c.World.Scheduler.Flush()

	// Luz criada registra fonte e agenda refresh de iluminação
	change = view.Apply(docs.KindLight, docs.ActionCreate, "l1", &docs.PlaceableDoc{
		X: 200, Y: 200,
		Light: &docs.LightData{Dim: 100, Angle: 360, DarknessMax: 1}})
	c.HandleChange(docs.KindLight, docs.ActionCreate, "l1", mustGet(view, docs.KindLight, "l1"), change)

	if c.World.Lights.Get("light.l1") == nil {
		t.Fatal("HandleChange deveria materializar a luz e registrar a fonte")
	}
	if !c.World.Scheduler.Pending().RefreshLighting {
		t.Fatal("luz nova deveria agendar refreshLighting")
	}
	c.World.Scheduler.Flush()

	// Deleção remove camada e fonte
	c.HandleChange(docs.KindLight, docs.ActionDelete, "l1", nil,
		view.Apply(docs.KindLight, docs.ActionDelete, "l1", nil))
	if c.World.Lights.Get("light.l1") != nil {
		t.Fatal("deleção deveria remover a fonte")
	}
}

func TestBuildETearDown(t *testing.T) {
	c, view := newTestCanvas(&docs.SceneDoc{ID: "s", SceneWidth: 1000, SceneHeight: 1000})
	view.Apply(docs.KindLight, docs.ActionCreate, "l1", &docs.PlaceableDoc{
		Light: &docs.LightData{Dim: 100, Angle: 360, DarknessMax: 1}})
	view.Apply(docs.KindToken, docs.ActionCreate, "t1", &docs.PlaceableDoc{
		Token: &docs.TokenData{}})

	c.Build()
	if !c.Ready() || c.Layer(docs.KindLight).Len() != 1 || c.Layer(docs.KindToken).Len() != 1 {
		t.Fatal("Build deveria materializar os documentos")
	}
	if !c.World.Scheduler.Pending().InitializeLighting {
		t.Fatal("Build deveria agendar a percepção inteira")
	}
	c.World.Scheduler.Flush()
	if c.World.Lights.Get("light.l1") == nil {
		t.Fatal("Flush do Build deveria registrar as fontes")
	}

	c.TearDown()
	if c.Ready() || c.Layer(docs.KindLight).Len() != 0 || c.World.Lights.Len() != 0 {
		t.Fatal("TearDown deveria limpar camadas e fontes")
	}
}

func mustGet(view *docs.LocalView, kind docs.Kind, id string) *docs.PlaceableDoc {
	doc, _ := view.Get(kind, id)
	return doc
}
