package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/silkbridge/examples/processors"
	"github.com/gosuda/silkbridge/internal/client"
	"github.com/gosuda/silkbridge/internal/handshake"
	"github.com/gosuda/silkbridge/internal/wire"
)

// serverSide is the half of the proxy facing the real upstream game
// server. The upstream server initiates the handshake toward whatever
// connects to it, so this side plays handshake.Responder.
type serverSide struct {
	client    *client.Client
	responder *handshake.Responder
	table     client.Table
	forward   client.Processor

	fromClient <-chan wire.Message
}

func newServerSide(ctx context.Context, addr string, fromClient <-chan wire.Message, toClient chan<- wire.Message) (*serverSide, error) {
	c, err := client.Connect(ctx, addr)
	if err != nil {
		return nil, err
	}
	responder := handshake.NewResponder()

	table := client.Table{}
	responder.Register(table)
	table.Register(processors.ModuleIdentificationID, processors.ModuleIdentification{LocalName: "SR_PROXY"})
	table.Register(processors.KeepAliveID, processors.KeepAlive{})
	table.Register(massiveFragmentID, client.NewMassiveProcessor())

	forward := client.ProcessorFunc(func(_ *client.Client, m wire.Message) {
		select {
		case toClient <- m:
		default:
			log.Warn().Str("id", m.Header.ID.String()).Msg("serverside: forward queue full, dropping")
		}
	})

	return &serverSide{client: c, responder: responder, table: table, forward: forward, fromClient: fromClient}, nil
}

func (s *serverSide) run(ctx context.Context) {
	defer s.client.Close()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.fromClient:
			if !ok {
				return
			}
			s.client.Send(msg)
		case <-ticker.C:
			s.client.ProcessMessages(s.table, s.forward, 100)
		}
	}
}
