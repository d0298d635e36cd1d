package placeables

import (
	"fmt"
	"log"

	"TabletopVision/shared/docs"
)

// SourceOptions controla o re-registro de fontes de um posicionável.
type SourceOptions struct {
	// Defer acumula o pedido de percepção sem agendar; quem faz a
	// mutação em lote agenda uma única vez no fim.
	Defer bool
	// Deleted remove as fontes do posicionável em vez de registrá-las.
	Deleted bool
}

// Placeable é um documento de cena materializado no canvas.
type Placeable interface {
	ID() string
	Kind() docs.Kind
	Doc() *docs.PlaceableDoc

	// Draw desenha o objeto no pass corrente. Erros marcam o
	// documento como inválido sem derrubar o quadro.
	Draw() error
	// Refresh re-sincroniza o estado visual com o documento.
	Refresh()
	// Clear zera estado transitório (hover, seleção, pré-visualização).
	Clear()
	// Destroy libera o objeto e remove suas fontes.
	Destroy()
	// UpdateSource registra, atualiza ou remove as fontes derivadas.
	UpdateSource(opts SourceOptions)
}

// Base implementa o estado comum a todos os posicionáveis.
type Base struct {
	doc   *docs.PlaceableDoc
	world *World

	hover      bool
	controlled bool
	destroyed  bool
	invalid    bool

	// Pré-visualização de arrasto: aponta de volta para o original.
	preview    bool
	originalID string
}

func (b *Base) ID() string               { return b.doc.ID }
func (b *Base) Kind() docs.Kind          { return b.doc.Kind }
func (b *Base) Doc() *docs.PlaceableDoc  { return b.doc }
func (b *Base) Hover() bool              { return b.hover }
func (b *Base) SetHover(on bool)         { b.hover = on }
func (b *Base) Controlled() bool         { return b.controlled }
func (b *Base) SetControlled(on bool)    { b.controlled = on }
func (b *Base) Destroyed() bool          { return b.destroyed }
func (b *Base) IsPreview() bool          { return b.preview }
func (b *Base) OriginalID() string       { return b.originalID }

// Invalid informa se o documento falhou ao desenhar nesta sessão.
func (b *Base) Invalid() bool { return b.invalid }

// markInvalid registra a primeira falha de desenho do documento.
func (b *Base) markInvalid(err error) {
	if !b.invalid {
		b.invalid = true
		log.Printf("[Placeables] Documento %s/%s inválido: %v", b.doc.Kind, b.doc.ID, err)
	}
}

// Clear zera o estado transitório.
func (b *Base) Clear() {
	b.hover = false
	b.controlled = false
}

// guardDraw converte um pânico de desenho em erro isolado do objeto.
func guardDraw(p Placeable, draw func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pânico ao desenhar %s/%s: %v", p.Kind(), p.ID(), r)
		}
	}()
	return draw()
}
