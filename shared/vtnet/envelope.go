// Package vtnet implementa o protocolo de mensagens entre o cliente e o
// servidor de mesa. O envelope e os metadados usam o wire format do
// protobuf (codificado à mão via encoding/protowire); o corpo dos
// documentos viaja em GOB dentro do payload.
package vtnet

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// MessageType identifica o tipo de mensagem dentro do envelope.
type MessageType int32

const (
	TypeUnknown MessageType = iota
	TypePing
	TypePong
	TypeSceneActivate
	TypeSceneUpdate
	TypeDocumentCreate
	TypeDocumentUpdate
	TypeDocumentDelete
	TypePerceptionBroadcast
	TypeServerStatus
)

// Envelope embrulha qualquer mensagem do protocolo.
// Campos: 1 = type (varint), 2 = payload (bytes).
type Envelope struct {
	Type    MessageType
	Payload []byte
}

// Marshal serializa o envelope no wire format do protobuf.
func (e *Envelope) Marshal() []byte {
	b := make([]byte, 0, 8+len(e.Payload))
	if e.Type != TypeUnknown {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(e.Type))
	}
	if len(e.Payload) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, e.Payload)
	}
	return b
}

// Unmarshal decodifica o envelope, pulando campos desconhecidos.
func (e *Envelope) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("vtnet: tag inválida: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("vtnet: type truncado: %w", protowire.ParseError(n))
			}
			e.Type = MessageType(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("vtnet: payload truncado: %w", protowire.ParseError(n))
			}
			e.Payload = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("vtnet: campo %d inválido: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return nil
}
