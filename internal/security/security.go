package security

import (
	"errors"

	"github.com/gosuda/silkbridge/internal/wire"
)

// EncryptPolicy controls how much of a message body the pipeline encrypts.
type EncryptPolicy int

const (
	// FirstBlockOnly encrypts only the first 8-byte Blowfish block of the
	// body, leaving the remainder in the clear. This matches deployments
	// where only a message's leading bytes (often a sub-opcode or short
	// fixed header) need to be hidden from casual inspection.
	FirstBlockOnly EncryptPolicy = iota

	// AllBlocks encrypts every complete 8-byte block of the body. A
	// trailing partial block (fewer than 8 bytes) is left unencrypted,
	// since Blowfish has no block to operate on there.
	AllBlocks
)

// ErrCipherNotInstalled is returned by Decrypt when a message arrives with
// its encrypted-body flag set but no Blowfish key has been installed yet,
// and by Encrypt when a caller asks to cipher a body under the same
// condition. Per spec.md §4.5/§7 the inbound case is fatal: the caller
// must close the connection rather than forward the message as if it were
// plaintext.
var ErrCipherNotInstalled = errors.New("security: no cipher installed")

// Security is the per-connection pipeline. Encrypt and Encode are
// independent steps, matching spec.md §4.5: Encrypt ciphers a body and
// sets the header's MSB on request, Encode only stamps the sequence and
// checksum bytes and never touches encryption on its own.
type Security struct {
	cipher    *blowfishCompat
	sequencer *Sequencer
	checksum  Checksum
	policy    EncryptPolicy

	// inbound and outbound mirror spec.md §4.5's
	// encoding_requirements((inbound, outbound)): whether this side's
	// received, respectively sent, traffic is expected to carry
	// sequence/checksum stamping. outbound gates Encode directly.
	// inbound documents the same requirement for received traffic; spec.md
	// §4.6 ties it to "reception will validate sequence/checksum", but the
	// checksum algorithm itself never survived distillation (see
	// Checksum's doc comment), so there is nothing yet to verify inbound
	// stamps against.
	inbound  bool
	outbound bool
}

// SecurityBuilder assembles a Security pipeline from its independently
// derived pieces: the handshake supplies the key, while sequence and
// checksum seeds may come from the handshake or from fixed configuration.
//
// WithKey is optional: a connection bootstraps a Security with only
// sequence/checksum stamping active (the key exchange itself travels this
// way) and installs the Blowfish key later via SetKey once the exchange
// finalizes.
type SecurityBuilder struct {
	key       *Key
	seqSeed   uint32
	cksumSeed uint32
	policy    EncryptPolicy
	inbound   bool
	outbound  bool
}

// NewSecurityBuilder starts a SecurityBuilder with FirstBlockOnly as the
// default encryption policy, matching the observed handshake-path
// behaviour where only the first body block is ciphered, and both
// encoding requirements on, matching a connection that stamps and expects
// stamping in both directions until a handshake role narrows it (see
// Initiator.Start, Responder.handleSetup, which call
// WithEncodingRequirements to set up spec.md §4.6's asymmetric case).
func NewSecurityBuilder() *SecurityBuilder {
	return &SecurityBuilder{policy: FirstBlockOnly, inbound: true, outbound: true}
}

func (b *SecurityBuilder) WithKey(key Key) *SecurityBuilder {
	b.key = &key
	return b
}

func (b *SecurityBuilder) WithSequenceSeed(seed uint32) *SecurityBuilder {
	b.seqSeed = seed
	return b
}

func (b *SecurityBuilder) WithChecksumSeed(seed uint32) *SecurityBuilder {
	b.cksumSeed = seed
	return b
}

func (b *SecurityBuilder) WithPolicy(policy EncryptPolicy) *SecurityBuilder {
	b.policy = policy
	return b
}

// WithEncodingRequirements sets which traffic directions this side stamps
// or expects sequence+checksum bytes on, spec.md §4.5's
// encoding_requirements((inbound, outbound)).
func (b *SecurityBuilder) WithEncodingRequirements(inbound, outbound bool) *SecurityBuilder {
	b.inbound = inbound
	b.outbound = outbound
	return b
}

// Build constructs the Security pipeline. If WithKey was never called, the
// pipeline starts with no Blowfish cipher installed; Encode still stamps
// sequence and checksum bytes but Encrypt returns ErrCipherNotInstalled
// until SetKey is called.
func (b *SecurityBuilder) Build() (*Security, error) {
	s := &Security{
		sequencer: NewSequencer(b.seqSeed),
		checksum:  NewChecksum(b.cksumSeed),
		policy:    b.policy,
		inbound:   b.inbound,
		outbound:  b.outbound,
	}
	if b.key != nil {
		if err := s.SetKey(*b.key); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetKey installs (or replaces) the Blowfish cipher used for body
// encryption, without disturbing the sequencer or checksum state.
func (s *Security) SetKey(key Key) error {
	cipher, err := newBlowfishCompat(key[:])
	if err != nil {
		return err
	}
	s.cipher = cipher
	return nil
}

// Encrypt ciphers msg's body per the configured EncryptPolicy and sets the
// header's encrypted-body flag. This is the explicit opt-in spec.md §4.5
// describes: "processors set the MSB of size (or call encrypt) when they
// want a body encrypted." Encode never encrypts on its own; a processor
// that wants a body hidden calls Encrypt before Send.
//
// Encrypt is a no-op if msg already carries the encrypted flag, so a
// caller that pre-set the flag (having enciphered the body itself) can
// call this unconditionally without double-encrypting. Otherwise, if no
// key has been installed, it returns ErrCipherNotInstalled.
func (s *Security) Encrypt(msg *wire.Message) error {
	if msg.Header.IsEncrypted() {
		return nil
	}
	if s.cipher == nil {
		return ErrCipherNotInstalled
	}
	s.encryptBody(msg.Data)
	msg.Header = msg.Header.SetEncrypted(true)
	return nil
}

// Encode prepares msg for transmission: stamps the next sequence byte,
// zeroes the checksum byte, then recomputes the checksum over the whole
// serialized message (header + body) and writes it back, per spec.md
// §4.5 steps 1-3. It never touches encryption — call Encrypt first if the
// body should be ciphered. Encode is a no-op when this side's outbound
// encoding requirement is false (see WithEncodingRequirements).
func (s *Security) Encode(msg *wire.Message) {
	if !s.outbound {
		return
	}
	msg.Header.Sequence = s.sequencer.Next()
	msg.Header.Checksum = 0

	buf := make([]byte, msg.Header.MessageSize())
	msg.Encode(buf)
	msg.Header.Checksum = s.checksum.Compute(buf)
}

// Decrypt reverses Encrypt's body transformation. It is a no-op if the
// header's encrypted flag is not set, since plaintext control messages
// (notably the handshake itself) travel unencrypted. If the flag is set
// but no key has been installed, it returns ErrCipherNotInstalled: per
// spec.md §4.5 ("If encrypted-flag is set but no cipher is present, close
// the connection and surface a fatal error") and §7, this is a fatal
// framing violation, never a silent pass-through of ciphertext as
// plaintext.
func (s *Security) Decrypt(msg *wire.Message) error {
	if !msg.Header.IsEncrypted() {
		return nil
	}
	if s.cipher == nil {
		return ErrCipherNotInstalled
	}
	s.decryptBody(msg.Data)
	msg.Header = msg.Header.SetEncrypted(false)
	return nil
}

func (s *Security) encryptBody(data []byte) {
	s.forEachBlock(data, s.cipher.encryptBlock)
}

func (s *Security) decryptBody(data []byte) {
	s.forEachBlock(data, s.cipher.decryptBlock)
}

func (s *Security) forEachBlock(data []byte, f func([]byte)) {
	blocks := len(data) / blockSize
	if s.policy == FirstBlockOnly && blocks > 1 {
		blocks = 1
	}
	for i := 0; i < blocks; i++ {
		f(data[i*blockSize : (i+1)*blockSize])
	}
}
