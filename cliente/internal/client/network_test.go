package client

import (
	"testing"

	"TabletopVision/shared/docs"
	"TabletopVision/shared/vtnet"
)

func TestDespachoDeCena(t *testing.T) {
	nc := NewNetworkClient("localhost:8080")

	var activated, updated *docs.SceneDoc
	nc.OnSceneActivate = func(s *docs.SceneDoc) { activated = s }
	nc.OnSceneUpdate = func(s *docs.SceneDoc) { updated = s }

	payload, err := (&vtnet.SceneMessage{Scene: &docs.SceneDoc{ID: "cena1", Name: "Cripta"}}).Marshal()
	if err != nil {
		t.Fatal(err)
	}

	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypeSceneActivate, Payload: payload})
	if activated == nil || activated.ID != "cena1" {
		t.Fatalf("ativação não despachada: %+v", activated)
	}
	if updated != nil {
		t.Fatal("ativação não deveria acionar o callback de update")
	}

	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypeSceneUpdate, Payload: payload})
	if updated == nil || updated.Name != "Cripta" {
		t.Fatalf("update não despachado: %+v", updated)
	}
}

func TestDespachoDeDocumento(t *testing.T) {
	nc := NewNetworkClient("localhost:8080")

	type got struct {
		kind   docs.Kind
		action docs.Action
		id     string
		doc    *docs.PlaceableDoc
	}
	var events []got
	nc.OnDocument = func(kind docs.Kind, action docs.Action, id string, doc *docs.PlaceableDoc) {
		events = append(events, got{kind, action, id, doc})
	}

	doc := &docs.PlaceableDoc{ID: "l1", Kind: docs.KindLight, X: 100, Y: 200}
	payload, err := (&vtnet.DocumentMessage{Kind: string(docs.KindLight), ID: "l1", Doc: doc}).Marshal()
	if err != nil {
		t.Fatal(err)
	}

	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypeDocumentCreate, Payload: payload})
	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypeDocumentUpdate, Payload: payload})

	del, err := (&vtnet.DocumentMessage{Kind: string(docs.KindLight), ID: "l1"}).Marshal()
	if err != nil {
		t.Fatal(err)
	}
	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypeDocumentDelete, Payload: del})

	if len(events) != 3 {
		t.Fatalf("esperados 3 eventos, vieram %d", len(events))
	}
	wantActions := []docs.Action{docs.ActionCreate, docs.ActionUpdate, docs.ActionDelete}
	for i, want := range wantActions {
		if events[i].action != want {
			t.Errorf("evento %d: ação %v, esperada %v", i, events[i].action, want)
		}
		if events[i].kind != docs.KindLight || events[i].id != "l1" {
			t.Errorf("evento %d: %s/%s", i, events[i].kind, events[i].id)
		}
	}
	if events[0].doc == nil || events[0].doc.X != 100 {
		t.Error("corpo do documento deveria sobreviver ao transporte")
	}
	if events[2].doc != nil {
		t.Error("deleção não carrega corpo")
	}
}

func TestDespachoDePercepcao(t *testing.T) {
	nc := NewNetworkClient("localhost:8080")

	var got vtnet.PerceptionHint
	nc.OnPerception = func(hint vtnet.PerceptionHint) { got = hint }

	payload := (&vtnet.PerceptionHint{Lighting: true, Tiles: true}).Marshal()
	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypePerceptionBroadcast, Payload: payload})

	if !got.Lighting || !got.Tiles || got.Vision || got.Sounds {
		t.Fatalf("dica incorreta: %+v", got)
	}
}

func TestDespachoDeStatus(t *testing.T) {
	nc := NewNetworkClient("localhost:8080")

	var gotMsg string
	var gotConn bool
	nc.OnStatus = func(message string, connected bool) { gotMsg, gotConn = message, connected }

	payload := (&vtnet.StatusMessage{Message: "pronto", Connected: true}).Marshal()
	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypeServerStatus, Payload: payload})

	if gotMsg != "pronto" || !gotConn {
		t.Fatalf("status incorreto: %q %v", gotMsg, gotConn)
	}
}

func TestMensagensIgnoradasNaoDerrubam(t *testing.T) {
	nc := NewNetworkClient("localhost:8080")
	// Sem callbacks registrados e com payload inválido
	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypeSceneActivate, Payload: []byte{0xFF}})
	nc.handleMessage(&vtnet.Envelope{Type: vtnet.TypePong})
	nc.handleMessage(&vtnet.Envelope{Type: vtnet.MessageType(99)})
}

func TestSendDesconectado(t *testing.T) {
	nc := NewNetworkClient("localhost:8080")
	if err := nc.Send(vtnet.TypePing, nil); err == nil {
		t.Fatal("enviar sem conexão deveria falhar")
	}
	if err := nc.Commit(docs.KindToken, "t1", nil); err == nil {
		t.Fatal("commit sem conexão deveria falhar")
	}
}
