package main

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/silkbridge/examples/processors"
	"github.com/gosuda/silkbridge/internal/client"
	"github.com/gosuda/silkbridge/internal/handshake"
	"github.com/gosuda/silkbridge/internal/wire"
)

// massiveFragmentID is the operation carrying multi-fragment reassembly
// traffic, Framework/Req.
var massiveFragmentID = wire.New().WithKind(wire.KindFramework).WithDirection(wire.Req).WithOperation(13)

// clientSide is the half of the proxy facing a real downstream game
// client. The protocol this proxies has the server initiate the
// handshake toward a freshly connected client, so this side plays
// handshake.Initiator even though it is accepting, not dialing, the
// connection.
type clientSide struct {
	client    *client.Client
	initiator *handshake.Initiator
	table     client.Table
	forward   client.Processor

	fromServer <-chan wire.Message
}

func newClientSide(ctx context.Context, conn net.Conn, fromServer <-chan wire.Message, toServer chan<- wire.Message) *clientSide {
	c := client.Accept(ctx, conn)
	initiator := handshake.NewInitiator()

	table := client.Table{}
	initiator.Register(table)
	table.Register(processors.ModuleIdentificationID, processors.ModuleIdentification{LocalName: "SR_PROXY"})
	table.Register(processors.KeepAliveID, processors.KeepAlive{})
	table.Register(massiveFragmentID, client.NewMassiveProcessor())

	forward := client.ProcessorFunc(func(_ *client.Client, m wire.Message) {
		select {
		case toServer <- m:
		default:
			log.Warn().Str("id", m.Header.ID.String()).Msg("clientside: forward queue full, dropping")
		}
	})

	return &clientSide{client: c, initiator: initiator, table: table, forward: forward, fromServer: fromServer}
}

func (s *clientSide) run(ctx context.Context) {
	s.initiator.Start(s.client)
	defer s.client.Close()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.fromServer:
			if !ok {
				return
			}
			s.client.Send(msg)
		case <-ticker.C:
			s.client.ProcessMessages(s.table, s.forward, 100)
		}
	}
}
