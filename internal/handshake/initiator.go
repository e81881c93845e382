package handshake

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/silkbridge/internal/client"
	"github.com/gosuda/silkbridge/internal/security"
	"github.com/gosuda/silkbridge/internal/wire"
)

// Initiator drives the opening side of a handshake through its three
// stages: propose a key exchange, verify the peer's response and answer
// with a challenge of its own, then wait for the peer's final
// acknowledgement before the connection is considered ready for game
// traffic.
type Initiator struct {
	pending security.PendingExchange
	ready   atomic.Bool
}

// NewInitiator builds an unstarted Initiator; call Start to send the
// opening message and Register to wire its processors into a Table.
func NewInitiator() *Initiator {
	return &Initiator{}
}

// Ready reports whether the peer has acknowledged a completed exchange.
func (h *Initiator) Ready() bool {
	return h.ready.Load()
}

// Register installs this Initiator's two processors: one for the
// responder's exchange response, one for its final acknowledgement.
func (h *Initiator) Register(table client.Table) {
	table.Register(ReqID, client.ProcessorFunc(h.handleResponse))
	table.Register(AckID, client.ProcessorFunc(h.handleAck))
}

// Start proposes a fresh key exchange with error detection seeds over an
// otherwise plaintext connection, and installs a Security pipeline on c
// that stamps sequence/checksum bytes but does not yet encrypt bodies.
func (h *Initiator) Start(c *client.Client) {
	initial := randomKey()
	generator := randomPositiveUint32()
	prime := randomPositiveUint32()
	private := randomPositiveUint32()
	h.pending = security.NewPendingExchange(initial, generator, prime, private)

	seqSeed := randomUint32()
	cksumSeed := randomUint32()
	// The seeds this side generates are for the responder to validate what
	// it receives from us, per spec.md §4.6; the responder's own replies
	// carry no matching guarantee (see Responder.handleSetup), so we
	// require outbound stamping but not inbound verification.
	sec, err := security.NewSecurityBuilder().
		WithSequenceSeed(seqSeed).
		WithChecksumSeed(cksumSeed).
		WithEncodingRequirements(false, true).
		Build()
	if err != nil {
		log.Error().Err(err).Msg("handshake: could not build security pipeline")
		return
	}
	c.SetSecurity(sec)

	options := Options(0).WithExchange(true).WithErrorDetection(true)
	seed := ErrorDetectionSeed{Sequence: seqSeed, Checksum: cksumSeed}
	setup := ExchangeSetup{
		InitialKey: initial,
		Generator:  generator,
		Prime:      prime,
		Public:     h.pending.Local(),
	}

	body := make([]byte, 0, 1+errorDetectionSeedSize+exchangeSetupSize)
	body = append(body, byte(options))
	body = append(body, seed.Encode()...)
	body = append(body, setup.Encode()...)

	msg, err := wire.NewMessage(ReqID, body)
	if err != nil {
		log.Error().Err(err).Msg("handshake: could not build setup message")
		return
	}
	log.Info().Msg("handshake: proposing key exchange")
	c.Send(msg)
}

func (h *Initiator) handleResponse(c *client.Client, m wire.Message) {
	if len(m.Data) < exchangeResponseSize {
		log.Error().Msg("handshake: truncated exchange response")
		return
	}
	resp := decodeExchangeResponse(m.Data)
	ready := h.pending.WithRemote(resp.Public)

	if err := security.VerifyChallenge(security.Initiator, ready, resp.Signature); err != nil {
		log.Error().Err(err).Msg("handshake: responder signature did not verify")
		c.Close()
		return
	}

	challenge, err := security.CreateChallenge(security.Initiator, ready)
	if err != nil {
		log.Error().Err(err).Msg("handshake: could not create challenge")
		c.Close()
		return
	}

	options := Options(0).WithChallenge(true)
	body := append([]byte{byte(options)}, challenge[:]...)
	reply, err := wire.NewMessage(ReqID, body)
	if err != nil {
		log.Error().Err(err).Msg("handshake: could not build challenge message")
		return
	}
	log.Info().Msg("handshake: sending challenge")
	c.Send(reply)

	if err := c.InstallKey(security.FinalizeKey(ready)); err != nil {
		log.Error().Err(err).Msg("handshake: could not install final key")
	}
}

func (h *Initiator) handleAck(c *client.Client, m wire.Message) {
	h.ready.Store(true)
	log.Info().Msg("handshake: completed with key exchange")
}
