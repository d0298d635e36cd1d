package vtnet

import (
	"testing"

	"TabletopVision/shared/docs"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env := &Envelope{Type: TypeDocumentUpdate, Payload: []byte{1, 2, 3}}
	data := env.Marshal()

	var back Envelope
	if err := back.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Type != TypeDocumentUpdate || len(back.Payload) != 3 {
		t.Fatalf("envelope decodificado: %+v", back)
	}
}

func TestDocumentMessageRoundTrip(t *testing.T) {
	msg := &DocumentMessage{
		Kind: string(docs.KindLight),
		ID:   "l1",
		Doc: &docs.PlaceableDoc{
			ID:   "l1",
			Kind: docs.KindLight,
			X:    500, Y: 500,
			Light: &docs.LightData{Dim: 200, Bright: 100, Color: "#ffffff", Angle: 360, DarknessMax: 1},
		},
	}

	data, err := msg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back DocumentMessage
	if err := back.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Kind != "light" || back.ID != "l1" {
		t.Fatalf("metadados: %+v", back)
	}
	if back.Doc == nil || back.Doc.Light == nil || back.Doc.Light.Dim != 200 {
		t.Fatalf("corpo GOB perdido: %+v", back.Doc)
	}
}

func TestDocumentMessageDelete(t *testing.T) {
	// Deleção não carrega corpo
	msg := &DocumentMessage{Kind: "token", ID: "t9"}
	data, err := msg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back DocumentMessage
	if err := back.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Doc != nil {
		t.Fatal("deleção não deveria ter documento")
	}
}

func TestSceneMessageRoundTrip(t *testing.T) {
	msg := &SceneMessage{Scene: &docs.SceneDoc{
		ID: "s1", Name: "Cripta", SceneWidth: 1000, SceneHeight: 1000, DarknessLevel: 0.4,
	}}
	data, err := msg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back SceneMessage
	if err := back.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Scene == nil || back.Scene.Name != "Cripta" || back.Scene.DarknessLevel != 0.4 {
		t.Fatalf("cena: %+v", back.Scene)
	}
}

func TestPerceptionHintRoundTrip(t *testing.T) {
	msg := &PerceptionHint{Lighting: true, Tiles: true}
	var back PerceptionHint
	if err := back.Unmarshal(msg.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Lighting || back.Vision || back.Sounds || !back.Tiles {
		t.Fatalf("flags: %+v", back)
	}
}

func TestEnvelopeCampoDesconhecido(t *testing.T) {
	// Um campo extra de versão futura deve ser ignorado sem erro
	env := &Envelope{Type: TypePing}
	data := env.Marshal()
	data = append(data, 0x1a, 0x02, 0xAA, 0xBB) // campo 3, bytes, 2 bytes

	var back Envelope
	if err := back.Unmarshal(data); err != nil {
		t.Fatalf("campo desconhecido deveria ser pulado: %v", err)
	}
	if back.Type != TypePing {
		t.Fatalf("type: %v", back.Type)
	}
}
