package wire

// Message is a complete header-plus-body unit as it travels the wire.
// Data holds the raw body bytes: still encrypted if Header.IsEncrypted(),
// otherwise the cleartext payload.
type Message struct {
	Header Header
	Data   []byte
}

// NewMessage builds a Message, setting Header's size from len(data).
//
// It returns ErrOversizeMessage if data is longer than MaxDataSize.
func NewMessage(id ID, data []byte) (Message, error) {
	if len(data) > MaxDataSize {
		return Message{}, ErrOversizeMessage
	}
	return Message{Header: NewHeader(id, uint16(len(data))), Data: data}, nil
}

// Encode writes the full wire representation (header + body) into dst,
// which must be at least m.Header.MessageSize() bytes.
func (m Message) Encode(dst []byte) {
	m.Header.Encode(dst[:HeaderSize])
	copy(dst[HeaderSize:], m.Data)
}

// DecodeMessage parses a complete Message from the front of buf, returning
// the number of bytes consumed.
//
// It returns ErrShortHeader if buf doesn't hold a full header yet,
// ErrOversizeMessage if the header declares a body larger than
// MaxDataSize, and ErrShortMessage if the header is complete but the body
// hasn't fully arrived yet.
func DecodeMessage(buf []byte) (Message, int, error) {
	h, err := DecodeHeader(buf)
	if err != nil {
		return Message{}, 0, err
	}
	dataSize := int(h.DataSize())
	if dataSize > MaxDataSize {
		return Message{}, 0, ErrOversizeMessage
	}
	total := HeaderSize + dataSize
	if len(buf) < total {
		return Message{}, 0, ErrShortMessage
	}
	data := make([]byte, dataSize)
	copy(data, buf[HeaderSize:total])
	return Message{Header: h, Data: data}, total, nil
}
