package wire

import "encoding/binary"

// HeaderSize is the fixed on-wire size of a Header: size(2) + id(2) +
// sequence(1) + checksum(1).
const HeaderSize = 6

// MaxMessageSize is the largest a full message (header + body) may be.
const MaxMessageSize = 4096

// MaxDataSize is the largest a message body may be: MaxMessageSize minus
// HeaderSize.
const MaxDataSize = MaxMessageSize - HeaderSize

// encryptedFlag is the MSB of the on-wire size field.
const encryptedFlag uint16 = 0x8000

// Header is the fixed 6-byte message header.
type Header struct {
	// size is the wire size field: data size in the low 15 bits, the
	// encrypted-body flag in the MSB.
	size uint16

	ID ID

	// Sequence is the per-message sequence byte, stamped by the security
	// pipeline's Encode step on send.
	Sequence uint8

	// Checksum is the per-message checksum byte, stamped by the security
	// pipeline's Encode step on send.
	Checksum uint8
}

// NewHeader builds a Header for a body of the given length, with no
// encryption flag set and zeroed sequence/checksum.
func NewHeader(id ID, dataSize uint16) Header {
	return Header{size: dataSize, ID: id}
}

// DataSize returns the body length, with the encrypted flag masked off.
func (h Header) DataSize() uint16 {
	return h.size &^ encryptedFlag
}

// MessageSize returns header + body length.
func (h Header) MessageSize() uint16 {
	return h.DataSize() + HeaderSize
}

// IsEncrypted reports whether the MSB of the wire size field is set.
func (h Header) IsEncrypted() bool {
	return h.size&encryptedFlag != 0
}

// SetEncrypted sets or clears the encrypted-body flag, preserving DataSize.
func (h Header) SetEncrypted(encrypted bool) Header {
	if encrypted {
		h.size |= encryptedFlag
	} else {
		h.size &^= encryptedFlag
	}
	return h
}

// Encode writes the 6-byte wire representation of h into dst, which must be
// at least HeaderSize bytes.
func (h Header) Encode(dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], h.size)
	binary.LittleEndian.PutUint16(dst[2:4], h.ID.Uint16())
	dst[4] = h.Sequence
	dst[5] = h.Checksum
}

// DecodeHeader parses a Header from the first HeaderSize bytes of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	return Header{
		size:     binary.LittleEndian.Uint16(buf[0:2]),
		ID:       IDFromUint16(binary.LittleEndian.Uint16(buf[2:4])),
		Sequence: buf[4],
		Checksum: buf[5],
	}, nil
}
