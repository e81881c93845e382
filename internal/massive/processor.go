package massive

import (
	"github.com/rs/zerolog/log"

	"github.com/gosuda/silkbridge/internal/wire"
)

// Receiver accepts a fully reassembled Message for reprocessing, the same
// way a freshly decoded inbound message would be. NetClient's loopback
// queue implements this.
type Receiver interface {
	Receive(wire.Message)
}

// Processor feeds every fragment carrying the massive-reassembly operation
// into a Buffer, pushing the reassembled message back through Receiver as
// soon as the last fragment lands.
type Processor struct {
	buffer Buffer
}

// Process handles one fragment. It never returns an error: a malformed or
// out-of-order fragment is logged and dropped, since the fragment stream
// itself offers no way to ask the peer to resend.
func (p *Processor) Process(receiver Receiver, msg wire.Message) {
	if err := p.buffer.Add(msg); err != nil {
		log.Error().Err(err).Str("id", msg.Header.ID.String()).Msg("massive: dropping fragment")
		return
	}

	collected, ok, err := p.buffer.Collect()
	if err != nil {
		log.Error().Err(err).Msg("massive: reassembled message rejected")
		return
	}
	if !ok {
		return
	}

	log.Trace().Str("id", collected.Header.ID.String()).Msg("massive: collected")
	receiver.Receive(collected)
}
