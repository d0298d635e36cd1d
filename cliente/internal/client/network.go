// Package client implementa o transporte websocket do cliente de mesa.
// O envelope binário do protocolo está em shared/vtnet; aqui fica só a
// conexão, o loop de leitura e o despacho para os callbacks do app.
package client

import (
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"TabletopVision/shared/docs"
	"TabletopVision/shared/vtnet"
)

const (
	maxRetries       = 10
	retryDelay       = 2 * time.Second
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 10 * time.Second
)

// NetworkClient mantém a conexão com o servidor de mesa e entrega as
// mensagens decodificadas aos callbacks. Os callbacks são chamados na
// goroutine do loop de leitura; o app enfileira o que precisa tocar o
// estado de renderização.
type NetworkClient struct {
	conn      *websocket.Conn
	connected bool
	mu        sync.RWMutex

	serverAddr string

	// Callbacks para o App
	OnSceneActivate func(scene *docs.SceneDoc)
	OnSceneUpdate   func(scene *docs.SceneDoc)
	OnDocument      func(kind docs.Kind, action docs.Action, id string, doc *docs.PlaceableDoc)
	OnPerception    func(hint vtnet.PerceptionHint)
	OnStatus        func(message string, connected bool)
	OnDisconnect    func()
}

// NewNetworkClient cria o cliente desconectado.
func NewNetworkClient(serverAddr string) *NetworkClient {
	return &NetworkClient{serverAddr: serverAddr}
}

// Connect tenta estabelecer a conexão com retry e, em sucesso, dispara
// o loop de leitura.
func (nc *NetworkClient) Connect() error {
	u := url.URL{Scheme: "ws", Host: nc.serverAddr, Path: "/ws"}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	var conn *websocket.Conn
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", attempt, maxRetries, u.String())
		conn, _, err = dialer.Dial(u.String(), nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		if attempt < maxRetries {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return fmt.Errorf("falha ao conectar após %d tentativas: %w", maxRetries, err)
	}

	nc.mu.Lock()
	nc.conn = conn
	nc.connected = true
	nc.mu.Unlock()

	log.Printf("[Network] Conectado ao servidor")
	go nc.readLoop()
	return nil
}

// IsConnected informa se a conexão está ativa.
func (nc *NetworkClient) IsConnected() bool {
	nc.mu.RLock()
	defer nc.mu.RUnlock()
	return nc.connected
}

// Close encerra a conexão de forma limpa.
func (nc *NetworkClient) Close() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if nc.conn != nil {
		nc.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		nc.conn.Close()
		nc.conn = nil
	}
	nc.connected = false
}

// Send embrulha o payload no envelope do protocolo e envia como frame
// binário.
func (nc *NetworkClient) Send(msgType vtnet.MessageType, payload []byte) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if !nc.connected || nc.conn == nil {
		return fmt.Errorf("não conectado ao servidor")
	}

	env := vtnet.Envelope{Type: msgType, Payload: payload}
	nc.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := nc.conn.WriteMessage(websocket.BinaryMessage, env.Marshal()); err != nil {
		return fmt.Errorf("falha ao enviar mensagem tipo %d: %w", msgType, err)
	}
	return nil
}

// Commit envia uma mutação local de documento; serve de CommitFunc da
// visão local. Documento nil vira uma deleção.
func (nc *NetworkClient) Commit(kind docs.Kind, id string, doc *docs.PlaceableDoc) error {
	msg := vtnet.DocumentMessage{Kind: string(kind), ID: id, Doc: doc}
	payload, err := msg.Marshal()
	if err != nil {
		return err
	}
	msgType := vtnet.TypeDocumentUpdate
	if doc == nil {
		msgType = vtnet.TypeDocumentDelete
	}
	return nc.Send(msgType, payload)
}

// Ping envia o keepalive do protocolo.
func (nc *NetworkClient) Ping() error {
	return nc.Send(vtnet.TypePing, nil)
}

// readLoop consome frames até a conexão cair e então notifica o app.
func (nc *NetworkClient) readLoop() {
	for {
		nc.mu.RLock()
		conn := nc.conn
		nc.mu.RUnlock()
		if conn == nil {
			return
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			nc.mu.Lock()
			nc.connected = false
			nc.conn = nil
			nc.mu.Unlock()
			if nc.OnDisconnect != nil {
				nc.OnDisconnect()
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		var env vtnet.Envelope
		if err := env.Unmarshal(data); err != nil {
			log.Printf("[Network] Envelope inválido: %v", err)
			continue
		}
		nc.handleMessage(&env)
	}
}

// handleMessage decodifica o payload conforme o tipo e despacha.
func (nc *NetworkClient) handleMessage(env *vtnet.Envelope) {
	switch env.Type {
	case vtnet.TypeSceneActivate, vtnet.TypeSceneUpdate:
		var msg vtnet.SceneMessage
		if err := msg.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Cena inválida: %v", err)
			return
		}
		if msg.Scene == nil {
			return
		}
		if env.Type == vtnet.TypeSceneActivate {
			if nc.OnSceneActivate != nil {
				nc.OnSceneActivate(msg.Scene)
			}
		} else if nc.OnSceneUpdate != nil {
			nc.OnSceneUpdate(msg.Scene)
		}

	case vtnet.TypeDocumentCreate, vtnet.TypeDocumentUpdate, vtnet.TypeDocumentDelete:
		var msg vtnet.DocumentMessage
		if err := msg.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Documento inválido: %v", err)
			return
		}
		if nc.OnDocument == nil {
			return
		}
		action := docs.ActionUpdate
		switch env.Type {
		case vtnet.TypeDocumentCreate:
			action = docs.ActionCreate
		case vtnet.TypeDocumentDelete:
			action = docs.ActionDelete
		}
		nc.OnDocument(docs.Kind(msg.Kind), action, msg.ID, msg.Doc)

	case vtnet.TypePerceptionBroadcast:
		var hint vtnet.PerceptionHint
		if err := hint.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Dica de percepção inválida: %v", err)
			return
		}
		if nc.OnPerception != nil {
			nc.OnPerception(hint)
		}

	case vtnet.TypeServerStatus:
		var msg vtnet.StatusMessage
		if err := msg.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Status inválido: %v", err)
			return
		}
		log.Printf("[Network] Status do servidor: %s", msg.Message)
		if nc.OnStatus != nil {
			nc.OnStatus(msg.Message, msg.Connected)
		}

	case vtnet.TypePong:
		// keepalive; nada a fazer

	default:
		log.Printf("[Network] Tipo de mensagem desconhecido: %d", env.Type)
	}
}
