package wire

// Kind is the 2-bit message category packed into a MessageId.
type Kind uint8

const (
	// KindNone carries no defined semantics; observed on the wire but never
	// routed to a processor on purpose.
	KindNone Kind = iota

	// KindNetEngine identifies transport-layer control messages: the
	// handshake lives here exclusively (operation 0).
	KindNetEngine

	// KindFramework identifies session services: keepalive, module
	// identification, shard listing, massive fragment carriers.
	KindFramework

	// KindGame identifies application-level gameplay messages, opaque to
	// the core.
	KindGame
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNetEngine:
		return "NetEngine"
	case KindFramework:
		return "Framework"
	case KindGame:
		return "Game"
	default:
		return "Unknown"
	}
}
