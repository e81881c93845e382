package wire

import "errors"

// Sentinel errors surfaced by the wire package. ErrOversizeMessage is
// fatal for the connection; ErrShortHeader and ErrShortMessage only mean
// that more bytes are needed, which is how Buffer treats them.
var (
	// ErrShortHeader is returned when fewer than HeaderSize bytes are available
	// to decode a Header.
	ErrShortHeader = errors.New("wire: short header")

	// ErrOversizeMessage is returned when a header declares a data size larger
	// than the protocol's maximum body size. This is a framing violation and
	// the caller must treat the connection as closed.
	ErrOversizeMessage = errors.New("wire: declared data size exceeds maximum")

	// ErrShortMessage is returned when fewer bytes than message_size are
	// available to decode a full Message from a contiguous buffer.
	ErrShortMessage = errors.New("wire: short message")
)
