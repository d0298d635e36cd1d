package sources

import "sort"

// Collection guarda fontes ativas chaveadas pelo id do documento de
// origem ("kind.id"). A iteração é sempre em ordem de chave para que
// os passes de renderização sejam determinísticos.
type Collection struct {
	byID map[string]*Source
}

// NewCollection cria uma coleção vazia.
func NewCollection() *Collection {
	return &Collection{byID: make(map[string]*Source)}
}

// Get retorna a fonte pelo id, ou nil.
func (c *Collection) Get(id string) *Source {
	return c.byID[id]
}

// GetOrCreate retorna a fonte existente ou registra uma nova do tipo dado.
func (c *Collection) GetOrCreate(id string, kind Kind) *Source {
	if s, ok := c.byID[id]; ok {
		return s
	}
	s := NewSource(id, kind)
	c.byID[id] = s
	return s
}

// Delete destrói e remove a fonte, se existir.
func (c *Collection) Delete(id string) {
	if s, ok := c.byID[id]; ok {
		s.Destroy()
		delete(c.byID, id)
	}
}

// Len retorna o número de fontes registradas.
func (c *Collection) Len() int { return len(c.byID) }

// ForEach visita as fontes em ordem de id.
func (c *Collection) ForEach(fn func(*Source)) {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fn(c.byID[id])
	}
}

// Active visita apenas fontes habilitadas, em ordem de id.
func (c *Collection) Active(fn func(*Source)) {
	c.ForEach(func(s *Source) {
		if !s.Disabled() {
			fn(s)
		}
	})
}

// Clear destrói todas as fontes e esvazia a coleção.
func (c *Collection) Clear() {
	for id, s := range c.byID {
		s.Destroy()
		delete(c.byID, id)
	}
}
