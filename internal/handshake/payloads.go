package handshake

import (
	"encoding/binary"

	"github.com/gosuda/silkbridge/internal/security"
)

// ErrorDetectionSeed carries the seeds the recipient should feed into its
// own Sequencer and Checksum so both sides of the connection derive the
// same per-message integrity bytes independently.
type ErrorDetectionSeed struct {
	Sequence uint32
	Checksum uint32
}

// errorDetectionSeedSize is the encoded length of an ErrorDetectionSeed.
const errorDetectionSeedSize = 8

func (e ErrorDetectionSeed) Encode() []byte {
	buf := make([]byte, errorDetectionSeedSize)
	binary.LittleEndian.PutUint32(buf[0:4], e.Sequence)
	binary.LittleEndian.PutUint32(buf[4:8], e.Checksum)
	return buf
}

func decodeErrorDetectionSeed(buf []byte) ErrorDetectionSeed {
	return ErrorDetectionSeed{
		Sequence: binary.LittleEndian.Uint32(buf[0:4]),
		Checksum: binary.LittleEndian.Uint32(buf[4:8]),
	}
}

// ExchangeSetup is the Diffie-Hellman parameters the initiator proposes:
// the seed key material both sides will transform once the shared secret
// is known, plus the generator/prime/local-public triple.
type ExchangeSetup struct {
	InitialKey security.Key
	Generator  uint32
	Prime      uint32
	Public     uint32
}

const exchangeSetupSize = 8 + 4 + 4 + 4

func (e ExchangeSetup) Encode() []byte {
	buf := make([]byte, exchangeSetupSize)
	copy(buf[0:8], e.InitialKey[:])
	binary.LittleEndian.PutUint32(buf[8:12], e.Generator)
	binary.LittleEndian.PutUint32(buf[12:16], e.Prime)
	binary.LittleEndian.PutUint32(buf[16:20], e.Public)
	return buf
}

func decodeExchangeSetup(buf []byte) ExchangeSetup {
	var setup ExchangeSetup
	copy(setup.InitialKey[:], buf[0:8])
	setup.Generator = binary.LittleEndian.Uint32(buf[8:12])
	setup.Prime = binary.LittleEndian.Uint32(buf[12:16])
	setup.Public = binary.LittleEndian.Uint32(buf[16:20])
	return setup
}

// ExchangeResponse is the responder's answer to an ExchangeSetup: its own
// public value plus a signature proving it derived the same shared secret.
type ExchangeResponse struct {
	Public    uint32
	Signature security.Signature
}

const exchangeResponseSize = 4 + 8

func (e ExchangeResponse) Encode() []byte {
	buf := make([]byte, exchangeResponseSize)
	binary.LittleEndian.PutUint32(buf[0:4], e.Public)
	copy(buf[4:12], e.Signature[:])
	return buf
}

func decodeExchangeResponse(buf []byte) ExchangeResponse {
	var resp ExchangeResponse
	resp.Public = binary.LittleEndian.Uint32(buf[0:4])
	copy(resp.Signature[:], buf[4:12])
	return resp
}
