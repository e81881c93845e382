package wire

import "fmt"

const (
	operationBits   = 12
	operationOffset = 0
	operationMask   = uint16(1<<operationBits-1) << operationOffset

	kindBits   = 2
	kindOffset = operationOffset + operationBits
	kindMask   = uint16(1<<kindBits-1) << kindOffset

	directionBits   = 2
	directionOffset = kindOffset + kindBits
	directionMask   = uint16(1<<directionBits-1) << directionOffset
)

// Operation is the 12-bit opcode identifying a message within its
// (Kind, Direction) family.
type Operation = uint16

// ID is the packed 16-bit message identity:
//
//	bits 0-11  operation
//	bits 12-13 kind
//	bits 14-15 direction
//
// IDFromUint16(v).Uint16() == v for every v in [0, 0xFFFF]; this round-trip
// holds even for undecodable direction bit patterns, since packing never
// rejects input.
type ID struct {
	Direction Direction
	Kind      Kind
	Operation Operation
}

// New builds the zero ID (KindNone, NoDir, operation 0).
func New() ID {
	return ID{}
}

// WithDirection returns a copy of id with Direction replaced.
func (id ID) WithDirection(d Direction) ID {
	id.Direction = d
	return id
}

// WithKind returns a copy of id with Kind replaced.
func (id ID) WithKind(k Kind) ID {
	id.Kind = k
	return id
}

// WithOperation returns a copy of id with Operation replaced.
func (id ID) WithOperation(op Operation) ID {
	id.Operation = op
	return id
}

// IDFromUint16 unpacks the wire representation of a MessageId. It never
// fails: an out-of-range Direction bit pattern decodes to DirUnknown and
// Decodable reports false.
func IDFromUint16(v uint16) ID {
	return ID{
		Direction: Direction((v & directionMask) >> directionOffset),
		Kind:      Kind((v & kindMask) >> kindOffset),
		Operation: (v & operationMask) >> operationOffset,
	}
}

// Uint16 packs id back into its wire representation.
func (id ID) Uint16() uint16 {
	var v uint16
	v = (v &^ directionMask) | ((uint16(id.Direction) << directionOffset) & directionMask)
	v = (v &^ kindMask) | ((uint16(id.Kind) << kindOffset) & kindMask)
	v = (v &^ operationMask) | ((id.Operation << operationOffset) & operationMask)
	return v
}

// Decodable reports whether this ID carries a recognised Direction. Kind is
// always decodable since its 2 bits cover all four defined Kind values.
func (id ID) Decodable() bool {
	return id.Direction != DirUnknown
}

func (id ID) String() string {
	return fmt.Sprintf("[%s | %s], %d (0x%X)", id.Direction, id.Kind, id.Operation, id.Uint16())
}
