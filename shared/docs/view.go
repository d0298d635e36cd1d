package docs

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// ChangeKind resume quais entradas do motor uma mutação tocou.
// É um bitmask OR-combinável, no espírito dos flags de percepção.
type ChangeKind int

const (
	NoChange       ChangeKind = 0
	ChangePosition ChangeKind = 1 << iota
	ChangeVisibility
	ChangeSource   // raios, cor, janela de escuridão, paredes...
	ChangeGeometry // paredes movidas: invalida TODOS os polígonos
	ChangeAppearance
)

// ChangeFunc é o callback de mutação de documento entregue aos assinantes.
type ChangeFunc func(kind Kind, action Action, id string, doc *PlaceableDoc, change ChangeKind)

// View é o contrato estreito que o núcleo consome; a implementação local
// é alimentada pelo transporte e nunca acessa banco diretamente.
type View interface {
	Scene() *SceneDoc
	Placeables(kind Kind) []*PlaceableDoc
	Get(kind Kind, id string) (*PlaceableDoc, bool)
	OnDocumentChange(fn ChangeFunc)
	UpdateDocument(kind Kind, id string, doc *PlaceableDoc) error
	CurrentUser() User
	SourceID(doc *PlaceableDoc) string
}

// CommitFunc envia uma mutação local (fim de arrasto, porta aberta...)
// para o transporte. A renderização local não espera a confirmação.
type CommitFunc func(kind Kind, id string, doc *PlaceableDoc) error

// LocalView mantém a cópia renderizável dos documentos da cena ativa.
type LocalView struct {
	mu sync.RWMutex

	scene      *SceneDoc
	placeables map[Kind]map[string]*PlaceableDoc

	user        User
	subscribers []ChangeFunc
	commit      CommitFunc
}

// NewLocalView cria uma visão local vazia.
func NewLocalView(user User, commit CommitFunc) *LocalView {
	return &LocalView{
		scene:      &SceneDoc{},
		placeables: make(map[Kind]map[string]*PlaceableDoc),
		user:       user,
		commit:     commit,
	}
}

// Scene retorna a cena ativa.
func (v *LocalView) Scene() *SceneDoc {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scene
}

// ActivateScene substitui a cena ativa e descarta todos os posicionáveis.
func (v *LocalView) ActivateScene(scene *SceneDoc) {
	v.mu.Lock()
	v.scene = scene
	v.placeables = make(map[Kind]map[string]*PlaceableDoc)
	v.mu.Unlock()
	log.Printf("[Docs] Cena ativada: %s (%s)", scene.Name, scene.ID)
}

// UpdateScene aplica campos mutáveis da cena (ex: nível de escuridão).
func (v *LocalView) UpdateScene(scene *SceneDoc) ChangeKind {
	v.mu.Lock()
	defer v.mu.Unlock()
	change := NoChange
	if v.scene.DarknessLevel != scene.DarknessLevel || v.scene.GlobalLight != scene.GlobalLight {
		change |= ChangeSource
	}
	if v.scene.Background != scene.Background || v.scene.Foreground != scene.Foreground {
		change |= ChangeAppearance
	}
	v.scene = scene
	return change
}

// Placeables retorna os documentos de um tipo, ordenados por ID para
// varredura determinística.
func (v *LocalView) Placeables(kind Kind) []*PlaceableDoc {
	v.mu.RLock()
	defer v.mu.RUnlock()
	byID := v.placeables[kind]
	out := make([]*PlaceableDoc, 0, len(byID))
	for _, doc := range byID {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get busca um documento específico.
func (v *LocalView) Get(kind Kind, id string) (*PlaceableDoc, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	doc, ok := v.placeables[kind][id]
	return doc, ok
}

// OnDocumentChange registra um assinante do feed de mutações.
func (v *LocalView) OnDocumentChange(fn ChangeFunc) {
	v.mu.Lock()
	v.subscribers = append(v.subscribers, fn)
	v.mu.Unlock()
}

// CurrentUser retorna o usuário corrente.
func (v *LocalView) CurrentUser() User {
	return v.user
}

// SourceID deriva a chave estável de registro de fonte de um documento.
func (v *LocalView) SourceID(doc *PlaceableDoc) string {
	return fmt.Sprintf("%s.%s", doc.Kind, doc.ID)
}

// UpdateDocument envia a mutação para o transporte e aplica otimisticamente
// a cópia local (a confirmação do servidor re-aplica o mesmo estado).
func (v *LocalView) UpdateDocument(kind Kind, id string, doc *PlaceableDoc) error {
	if v.commit != nil {
		if err := v.commit(kind, id, doc); err != nil {
			return fmt.Errorf("falha ao enviar mutação de %s/%s: %w", kind, id, err)
		}
	}
	v.Apply(kind, ActionUpdate, id, doc)
	return nil
}

// Apply reconcilia uma mutação vinda do transporte (ou do commit local) e
// notifica os assinantes com o delta de mudança detectado.
func (v *LocalView) Apply(kind Kind, action Action, id string, doc *PlaceableDoc) ChangeKind {
	v.mu.Lock()

	byID, ok := v.placeables[kind]
	if !ok {
		byID = make(map[string]*PlaceableDoc)
		v.placeables[kind] = byID
	}

	change := NoChange
	switch action {
	case ActionCreate:
		doc.ID = id
		doc.Kind = kind
		byID[id] = doc
		change = ChangePosition | ChangeVisibility | ChangeSource | ChangeAppearance
		if kind == KindWall {
			change |= ChangeGeometry
		}
	case ActionUpdate:
		old, exists := byID[id]
		if !exists {
			// Atualização de documento desconhecido: trata como criação
			// para reparar no próximo snapshot consistente.
			log.Printf("[Docs] Update de %s/%s desconhecido; criando", kind, id)
			v.mu.Unlock()
			return v.Apply(kind, ActionCreate, id, doc)
		}
		doc.ID = id
		doc.Kind = kind
		change = diffDocs(old, doc)
		byID[id] = doc
	case ActionDelete:
		if _, exists := byID[id]; !exists {
			v.mu.Unlock()
			return NoChange
		}
		delete(byID, id)
		change = ChangePosition | ChangeVisibility | ChangeSource
		if kind == KindWall {
			change |= ChangeGeometry
		}
	}

	subs := make([]ChangeFunc, len(v.subscribers))
	copy(subs, v.subscribers)
	v.mu.Unlock()

	if change == NoChange && action == ActionUpdate {
		return NoChange
	}
	for _, fn := range subs {
		fn(kind, action, id, doc, change)
	}
	return change
}

// diffDocs compara documento antigo e novo e resume o que mudou.
// Segue o padrão de detecção campo a campo do store de chunks.
func diffDocs(old, new *PlaceableDoc) ChangeKind {
	change := NoChange

	if old.X != new.X || old.Y != new.Y || old.Elevation != new.Elevation || old.Sort != new.Sort {
		change |= ChangePosition
		if new.Kind == KindLight || new.Kind == KindSound || new.Kind == KindToken {
			change |= ChangeSource
		}
	}
	if old.Hidden != new.Hidden {
		change |= ChangeVisibility | ChangeSource
	}

	if old.Kind == KindWall && new.Wall != nil {
		if old.Wall == nil || *old.Wall != *new.Wall {
			change |= ChangeGeometry | ChangeSource
		}
	}
	if new.Light != nil && (old.Light == nil || *old.Light != *new.Light) {
		change |= ChangeSource | ChangeAppearance
	}
	if new.Token != nil && old.Token != nil {
		if old.Token.Texture != new.Token.Texture || old.Token.Name != new.Token.Name ||
			old.Token.Rotation != new.Token.Rotation {
			change |= ChangeAppearance
		}
		if old.Token.Vision != new.Token.Vision || old.Token.DimSight != new.Token.DimSight ||
			old.Token.BrightSight != new.Token.BrightSight ||
			old.Token.Invisible != new.Token.Invisible || old.Token.Flying != new.Token.Flying {
			change |= ChangeSource
		}
		lightChanged := func(a, b *LightData) bool {
			if (a == nil) != (b == nil) {
				return true
			}
			return a != nil && *a != *b
		}
		if lightChanged(old.Token.Light, new.Token.Light) {
			change |= ChangeSource
		}
	}
	if new.Tile != nil && (old.Tile == nil || *old.Tile != *new.Tile) {
		change |= ChangeAppearance
	}
	if new.Sound != nil && (old.Sound == nil || *old.Sound != *new.Sound) {
		change |= ChangeSource
	}
	if new.Drawing != nil && (old.Drawing == nil || *old.Drawing != *new.Drawing) {
		change |= ChangeAppearance
	}
	if new.Template != nil && (old.Template == nil || *old.Template != *new.Template) {
		change |= ChangeAppearance
	}
	if new.Note != nil && (old.Note == nil || *old.Note != *new.Note) {
		change |= ChangeAppearance
	}

	return change
}

// Walls retorna os dados de parede ativos (portas abertas não contam)
// para o cálculo de polígonos de visão.
func (v *LocalView) Walls() []*PlaceableDoc {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*PlaceableDoc, 0, len(v.placeables[KindWall]))
	for _, doc := range v.placeables[KindWall] {
		if doc.Wall != nil {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
