package handshake

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/silkbridge/internal/client"
	"github.com/gosuda/silkbridge/internal/security"
	"github.com/gosuda/silkbridge/internal/wire"
)

// Responder drives the accepting side of a handshake: it reacts to
// whatever the initiator proposes (a bare acknowledgement, or a full key
// exchange) and, once a challenge has verified, installs the final key
// and confirms with an acknowledgement of its own.
type Responder struct {
	ready     security.ReadyExchange
	confirmed atomic.Bool
}

// NewResponder builds an unstarted Responder; call Register to wire its
// processor into a Table before traffic arrives.
func NewResponder() *Responder {
	return &Responder{}
}

// Ready reports whether the exchange has been confirmed by a verified
// challenge from the initiator.
func (h *Responder) Ready() bool {
	return h.confirmed.Load()
}

// Register installs this Responder's single processor, which handles both
// the setup and challenge stages of the Req message.
func (h *Responder) Register(table client.Table) {
	table.Register(ReqID, client.ProcessorFunc(h.handleReq))
}

func (h *Responder) handleReq(c *client.Client, m wire.Message) {
	if len(m.Data) < 1 {
		log.Error().Msg("handshake: empty handshake message")
		return
	}
	options := Options(m.Data[0])
	body := m.Data[1:]

	if options.Challenge() {
		h.handleChallenge(c, body)
	} else {
		h.handleSetup(c, options, body)
	}
}

func (h *Responder) handleSetup(c *client.Client, options Options, body []byte) {
	log.Info().Msg("handshake: setting up")
	// spec.md §4.6: "initialise Security with inbound encoding required,
	// outbound not required (i.e. reception will validate sequence/
	// checksum)" — the initiator-supplied seeds validate what we receive;
	// our own replies are not stamped against them.
	builder := security.NewSecurityBuilder().WithEncodingRequirements(true, false)
	offset := 0

	if options.Encryption() {
		if len(body) < offset+8 {
			log.Error().Msg("handshake: truncated encryption key")
			return
		}
		var key security.Key
		copy(key[:], body[offset:offset+8])
		builder = builder.WithKey(key)
		offset += 8
		log.Info().Msg("handshake: blowfish initialized")
	}

	if options.ErrorDetection() {
		if len(body) < offset+errorDetectionSeedSize {
			log.Error().Msg("handshake: truncated error detection seed")
			return
		}
		seed := decodeErrorDetectionSeed(body[offset : offset+errorDetectionSeedSize])
		builder = builder.WithSequenceSeed(seed.Sequence).WithChecksumSeed(seed.Checksum)
		offset += errorDetectionSeedSize
		log.Info().Msg("handshake: error detection initialized")
	}

	sec, err := builder.Build()
	if err != nil {
		log.Error().Err(err).Msg("handshake: could not build security pipeline")
		return
	}
	c.SetSecurity(sec)

	var reply wire.Message
	if options.Exchange() {
		if len(body) < offset+exchangeSetupSize {
			log.Error().Msg("handshake: truncated exchange setup")
			return
		}
		setup := decodeExchangeSetup(body[offset : offset+exchangeSetupSize])
		private := randomPositiveUint32()
		pending := security.NewPendingExchange(setup.InitialKey, setup.Generator, setup.Prime, private)
		h.ready = pending.WithRemote(setup.Public)

		sig, err := security.CreateChallenge(security.Responder, h.ready)
		if err != nil {
			log.Error().Err(err).Msg("handshake: could not create challenge")
			return
		}
		resp := ExchangeResponse{Public: h.ready.Local(), Signature: sig}
		reply, err = wire.NewMessage(ReqID, resp.Encode())
		if err != nil {
			log.Error().Err(err).Msg("handshake: could not build exchange response")
			return
		}
		log.Info().Msg("handshake: responded to key exchange setup")
	} else {
		var err error
		reply, err = wire.NewMessage(AckID, nil)
		if err != nil {
			log.Error().Err(err).Msg("handshake: could not build ack")
			return
		}
		log.Info().Msg("handshake: completed without key exchange")
	}

	c.Send(reply)
}

func (h *Responder) handleChallenge(c *client.Client, body []byte) {
	if len(body) < 8 {
		log.Error().Msg("handshake: truncated challenge")
		return
	}
	var sig security.Signature
	copy(sig[:], body[:8])

	if err := security.VerifyChallenge(security.Responder, h.ready, sig); err != nil {
		log.Error().Err(err).Msg("handshake: initiator signature did not verify")
		c.Close()
		return
	}

	if err := c.InstallKey(security.FinalizeKey(h.ready)); err != nil {
		log.Error().Err(err).Msg("handshake: could not install final key")
		return
	}

	h.confirmed.Store(true)
	log.Info().Msg("handshake: completed with key exchange")

	ack, err := wire.NewMessage(AckID, nil)
	if err != nil {
		log.Error().Err(err).Msg("handshake: could not build ack")
		return
	}
	c.Send(ack)
}
