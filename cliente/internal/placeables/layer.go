package placeables

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"TabletopVision/shared/docs"
)

// New materializa o posicionável adequado para o documento.
func New(world *World, doc *docs.PlaceableDoc) Placeable {
	switch doc.Kind {
	case docs.KindToken:
		return newToken(world, doc)
	case docs.KindLight:
		return newAmbientLight(world, doc)
	case docs.KindSound:
		return newAmbientSound(world, doc)
	case docs.KindWall:
		return newWall(world, doc)
	case docs.KindTile:
		return newTile(world, doc)
	case docs.KindDrawing:
		return newDrawing(world, doc)
	case docs.KindTemplate:
		return newTemplate(world, doc)
	case docs.KindNote:
		return newNote(world, doc)
	}
	return nil
}

// Layer agrupa os posicionáveis de um tipo e o estado de interação
// (hover, seleção, pré-visualizações de arrasto).
type Layer struct {
	kind    docs.Kind
	world   *World
	objects map[string]Placeable
	preview map[string]Placeable // clones de arrasto por id do clone
}

// NewLayer cria a camada vazia de um tipo.
func NewLayer(world *World, kind docs.Kind) *Layer {
	return &Layer{
		kind:    kind,
		world:   world,
		objects: make(map[string]Placeable),
		preview: make(map[string]Placeable),
	}
}

// Kind retorna o tipo de documento da camada.
func (l *Layer) Kind() docs.Kind { return l.kind }

// Get busca um posicionável materializado.
func (l *Layer) Get(id string) (Placeable, bool) {
	p, ok := l.objects[id]
	return p, ok
}

// Len retorna o número de posicionáveis da camada.
func (l *Layer) Len() int { return len(l.objects) }

// Upsert materializa (ou re-materializa) o documento e registra suas
// fontes. Documentos já presentes são substituídos preservando o
// estado de interação.
func (l *Layer) Upsert(doc *docs.PlaceableDoc, opts SourceOptions) Placeable {
	if doc.Kind != l.kind {
		return nil
	}
	hover, controlled := false, false
	if old, ok := l.objects[doc.ID]; ok {
		if b, ok := old.(interface {
			Hover() bool
			Controlled() bool
		}); ok {
			hover, controlled = b.Hover(), b.Controlled()
		}
	}

	p := New(l.world, doc)
	if p == nil {
		return nil
	}
	if setter, ok := p.(interface {
		SetHover(bool)
		SetControlled(bool)
	}); ok {
		setter.SetHover(hover)
		setter.SetControlled(controlled)
	}
	l.objects[doc.ID] = p
	p.UpdateSource(opts)
	return p
}

// Remove destrói o posicionável (fontes incluídas) e o tira da camada.
func (l *Layer) Remove(id string) {
	if p, ok := l.objects[id]; ok {
		p.Destroy()
		delete(l.objects, id)
	}
}

// sorted devolve os posicionáveis em ordem de Sort e id.
func (l *Layer) sorted() []Placeable {
	out := make([]Placeable, 0, len(l.objects))
	for _, p := range l.objects {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Doc(), out[j].Doc()
		if a.Sort != b.Sort {
			return a.Sort < b.Sort
		}
		return a.ID < b.ID
	})
	return out
}

// Draw desenha a camada inteira. A falha de um posicionável é isolada:
// o documento é marcado inválido e os demais seguem desenhando.
func (l *Layer) Draw() {
	for _, p := range append(l.sorted(), l.previewSorted()...) {
		if err := p.Draw(); err != nil {
			if b, ok := p.(interface{ markInvalid(error) }); ok {
				b.markInvalid(err)
			}
		}
	}
}

func (l *Layer) previewSorted() []Placeable {
	out := make([]Placeable, 0, len(l.preview))
	for _, p := range l.preview {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// ForEach visita os posicionáveis em ordem estável.
func (l *Layer) ForEach(fn func(Placeable)) {
	for _, p := range l.sorted() {
		fn(p)
	}
}

// ClearInteraction zera hover e seleção de toda a camada.
func (l *Layer) ClearInteraction() {
	for _, p := range l.objects {
		p.Clear()
	}
}

// BeginDrag clona o posicionável para pré-visualização de arrasto.
// O clone ganha um id efêmero e guarda a referência ao original; suas
// fontes não são registradas (o arrasto não muda a percepção até o
// commit).
func (l *Layer) BeginDrag(id string) (Placeable, error) {
	original, ok := l.objects[id]
	if !ok {
		return nil, fmt.Errorf("posicionável %s/%s não existe", l.kind, id)
	}
	if original.Doc().Locked {
		return nil, fmt.Errorf("posicionável %s/%s está travado", l.kind, id)
	}

	cloneDoc := *original.Doc()
	cloneDoc.ID = uuid.NewString()
	clone := New(l.world, &cloneDoc)
	if b, ok := clone.(interface{ setPreview(string) }); ok {
		b.setPreview(id)
	}
	l.preview[cloneDoc.ID] = clone
	return clone, nil
}

// EndDrag descarta o clone; com commit=true a posição final do clone
// vira uma mutação do documento original.
func (l *Layer) EndDrag(cloneID string, commit bool) error {
	clone, ok := l.preview[cloneID]
	if !ok {
		return fmt.Errorf("clone %s não existe", cloneID)
	}
	delete(l.preview, cloneID)

	var originalID string
	if b, ok := clone.(interface{ OriginalID() string }); ok {
		originalID = b.OriginalID()
	}
	defer clone.Destroy()

	if !commit || originalID == "" {
		return nil
	}
	original, ok := l.objects[originalID]
	if !ok {
		return nil // original sumiu durante o arrasto
	}
	next := *original.Doc()
	next.X = clone.Doc().X
	next.Y = clone.Doc().Y
	return l.world.View.UpdateDocument(l.kind, originalID, &next)
}

// TearDown destrói todos os posicionáveis e clones da camada.
func (l *Layer) TearDown() {
	for id, p := range l.objects {
		p.Destroy()
		delete(l.objects, id)
	}
	for id, p := range l.preview {
		p.Destroy()
		delete(l.preview, id)
	}
}

// setPreview marca o posicionável como clone de arrasto.
func (b *Base) setPreview(originalID string) {
	b.preview = true
	b.originalID = originalID
}
