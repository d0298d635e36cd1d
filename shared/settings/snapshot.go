package settings

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"time"

	"TabletopVision/shared/docs"
)

// SceneSnapshotModel guarda o último estado conhecido de uma cena.
// Com o transporte fora do ar, o cliente renderiza a partir daqui.
type SceneSnapshotModel struct {
	SceneID   string `gorm:"primaryKey"`
	Data      []byte // cena + posicionáveis serializados em GOB
	UpdatedAt time.Time
}

// sceneSnapshot é o corpo GOB do snapshot.
type sceneSnapshot struct {
	Scene      *docs.SceneDoc
	Placeables map[docs.Kind][]*docs.PlaceableDoc
}

// SaveSnapshot serializa e grava o estado corrente da visão local.
func (s *Store) SaveSnapshot(view *docs.LocalView) error {
	if s.db == nil {
		return fmt.Errorf("banco de dados não inicializado")
	}
	scene := view.Scene()
	if scene.ID == "" {
		return nil // nada para salvar
	}

	snap := sceneSnapshot{
		Scene:      scene,
		Placeables: make(map[docs.Kind][]*docs.PlaceableDoc),
	}
	for _, kind := range docs.AllKinds {
		if list := view.Placeables(kind); len(list) > 0 {
			snap.Placeables[kind] = list
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return fmt.Errorf("falha no GOB do snapshot: %w", err)
	}

	model := SceneSnapshotModel{SceneID: scene.ID, Data: buf.Bytes()}
	if err := s.db.Save(&model).Error; err != nil {
		return fmt.Errorf("falha ao salvar snapshot da cena %s: %w", scene.ID, err)
	}
	return nil
}

// LoadSnapshot restaura o último estado salvo de uma cena na visão local.
// Retorna false se não houver snapshot.
func (s *Store) LoadSnapshot(sceneID string, view *docs.LocalView) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("banco de dados não inicializado")
	}

	var model SceneSnapshotModel
	if err := s.db.First(&model, "scene_id = ?", sceneID).Error; err != nil {
		return false, nil
	}

	var snap sceneSnapshot
	if err := gob.NewDecoder(bytes.NewReader(model.Data)).Decode(&snap); err != nil {
		return false, fmt.Errorf("snapshot corrompido da cena %s: %w", sceneID, err)
	}

	view.ActivateScene(snap.Scene)
	count := 0
	for kind, list := range snap.Placeables {
		for _, doc := range list {
			view.Apply(kind, docs.ActionCreate, doc.ID, doc)
			count++
		}
	}

	log.Printf("[Settings] Snapshot da cena %s restaurado (%d posicionáveis)", sceneID, count)
	return true, nil
}

// LatestSceneID retorna a cena salva mais recentemente, se houver.
func (s *Store) LatestSceneID() (string, bool) {
	if s.db == nil {
		return "", false
	}
	var model SceneSnapshotModel
	if err := s.db.Order("updated_at desc").First(&model).Error; err != nil {
		return "", false
	}
	return model.SceneID, true
}
