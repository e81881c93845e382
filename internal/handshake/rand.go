package handshake

import (
	"crypto/rand"
	"encoding/binary"
)

// randomUint32 returns a cryptographically random u32, used for exchange
// privates, generator/prime proposals, and sequencer/checksum seeds.
func randomUint32() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// randomPositiveUint32 returns a random u32 with the top bit cleared, as
// the exchange's generator and prime must stay within int64 multiplication
// range during modular exponentiation.
func randomPositiveUint32() uint32 {
	return randomUint32() & 0x7FFFFFFF
}

func randomKey() (k [8]byte) {
	if _, err := rand.Read(k[:]); err != nil {
		panic(err)
	}
	return k
}
