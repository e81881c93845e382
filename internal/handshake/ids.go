package handshake

import "github.com/gosuda/silkbridge/internal/wire"

// Operation is the single opcode the whole handshake runs under; every
// stage is disambiguated by direction instead of by opcode.
const Operation wire.Operation = 0

// ReqID and AckID are the two message identities a handshake exchanges:
// setup/challenge travel as Req, the final confirmation as Ack.
var (
	ReqID = wire.New().WithKind(wire.KindNetEngine).WithDirection(wire.Req).WithOperation(Operation)
	AckID = wire.New().WithKind(wire.KindNetEngine).WithDirection(wire.Ack).WithOperation(Operation)
)
