package security

import "golang.org/x/crypto/blowfish"

// blockSize is the Blowfish block size in bytes.
const blockSize = 8

// wordSize is the size of the two words reversed within each block.
const wordSize = 4

// blowfishCompat wraps golang.org/x/crypto/blowfish.Cipher to match a
// compatibility variant seen in the wild: each 8-byte block is split into
// two little-endian 4-byte words, both of which are byte-reversed before
// encryption and reversed back after.
type blowfishCompat struct {
	inner *blowfish.Cipher
}

func newBlowfishCompat(key []byte) (*blowfishCompat, error) {
	c, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &blowfishCompat{inner: c}, nil
}

// reverseWords reverses each wordSize-byte chunk of buf in place. buf must
// be exactly blockSize bytes.
func reverseWords(buf []byte) {
	for _, chunk := range [][]byte{buf[0:wordSize], buf[wordSize:blockSize]} {
		for i, j := 0, len(chunk)-1; i < j; i, j = i+1, j-1 {
			chunk[i], chunk[j] = chunk[j], chunk[i]
		}
	}
}

// encryptBlock encrypts one blockSize-byte block in place.
func (c *blowfishCompat) encryptBlock(block []byte) {
	reverseWords(block)
	c.inner.Encrypt(block, block)
	reverseWords(block)
}

// decryptBlock decrypts one blockSize-byte block in place.
func (c *blowfishCompat) decryptBlock(block []byte) {
	reverseWords(block)
	c.inner.Decrypt(block, block)
	reverseWords(block)
}
