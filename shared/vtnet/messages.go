package vtnet

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"TabletopVision/shared/docs"
)

// DocumentMessage transporta uma mutação de documento.
// Campos: 1 = kind (string), 2 = id (string), 3 = corpo GOB (bytes).
// Em deleções o corpo fica vazio.
type DocumentMessage struct {
	Kind string
	ID   string
	Doc  *docs.PlaceableDoc
}

// Marshal serializa a mensagem; o documento vai em GOB no campo 3.
func (m *DocumentMessage) Marshal() ([]byte, error) {
	b := make([]byte, 0, 64)
	if m.Kind != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Kind)
	}
	if m.ID != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, m.ID)
	}
	if m.Doc != nil {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(m.Doc); err != nil {
			return nil, fmt.Errorf("vtnet: falha no GOB do documento %s/%s: %w", m.Kind, m.ID, err)
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, buf.Bytes())
	}
	return b, nil
}

// Unmarshal decodifica a mensagem de documento.
func (m *DocumentMessage) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("vtnet: tag inválida: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Kind = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ID = v
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var doc docs.PlaceableDoc
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&doc); err != nil {
				return fmt.Errorf("vtnet: falha ao decodificar GOB do documento: %w", err)
			}
			m.Doc = &doc
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

// SceneMessage transporta a ativação ou atualização da cena.
// Campos: 1 = corpo GOB da cena (bytes).
type SceneMessage struct {
	Scene *docs.SceneDoc
}

func (m *SceneMessage) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.Scene); err != nil {
		return nil, fmt.Errorf("vtnet: falha no GOB da cena: %w", err)
	}
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, buf.Bytes())
	return b, nil
}

func (m *SceneMessage) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		if num == 1 {
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var scene docs.SceneDoc
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&scene); err != nil {
				return fmt.Errorf("vtnet: falha ao decodificar GOB da cena: %w", err)
			}
			m.Scene = &scene
			data = data[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
	}
	return nil
}

// PerceptionHint é a dica opcional de refresh após mudança de um par.
// Campos: 1..4 = flags de lighting/vision/sounds/tiles (varint bool).
type PerceptionHint struct {
	Lighting bool
	Vision   bool
	Sounds   bool
	Tiles    bool
}

func (m *PerceptionHint) Marshal() []byte {
	b := make([]byte, 0, 8)
	appendBool := func(num protowire.Number, v bool) {
		if v {
			b = protowire.AppendTag(b, num, protowire.VarintType)
			b = protowire.AppendVarint(b, 1)
		}
	}
	appendBool(1, m.Lighting)
	appendBool(2, m.Vision)
	appendBool(3, m.Sounds)
	appendBool(4, m.Tiles)
	return b
}

func (m *PerceptionHint) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		if typ == protowire.VarintType && num >= 1 && num <= 4 {
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			set := v != 0
			switch num {
			case 1:
				m.Lighting = set
			case 2:
				m.Vision = set
			case 3:
				m.Sounds = set
			case 4:
				m.Tiles = set
			}
			data = data[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
	}
	return nil
}

// StatusMessage carrega mensagens de estado do servidor.
// Campos: 1 = texto (string), 2 = conectado (varint bool).
type StatusMessage struct {
	Message   string
	Connected bool
}

func (m *StatusMessage) Marshal() []byte {
	b := make([]byte, 0, len(m.Message)+4)
	if m.Message != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Message)
	}
	if m.Connected {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b
}

func (m *StatusMessage) Unmarshal(data []byte) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Message = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Connected = v != 0
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}
