package netconn

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/silkbridge/internal/wire"
)

// outboundFlushInterval is how often the outbound loop drains its queue
// onto the wire.
const outboundFlushInterval = 10 * time.Millisecond

// NetConnection owns one TCP socket and the two cooperating goroutines
// that service it: an inbound loop that turns raw reads into framed
// Messages, and an outbound loop that drains queued Messages onto the
// wire on a fixed tick. Callers never touch the socket directly; they
// exchange Messages through Take and Put.
type NetConnection struct {
	addr string
	conn net.Conn

	inbound  messageQueue
	outbound messageQueue

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Open dials addr and starts servicing the resulting connection.
func Open(ctx context.Context, addr string) (*NetConnection, error) {
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return wrap(ctx, conn, addr), nil
}

// Wrap starts servicing an already-accepted connection, such as one handed
// back by net.Listener.Accept.
func Wrap(ctx context.Context, conn net.Conn) *NetConnection {
	return wrap(ctx, conn, conn.RemoteAddr().String())
}

func wrap(parent context.Context, conn net.Conn, addr string) *NetConnection {
	ctx, cancel := context.WithCancel(parent)
	nc := &NetConnection{addr: addr, conn: conn, cancel: cancel}

	nc.wg.Add(2)
	go nc.inboundLoop(ctx)
	go nc.outboundLoop(ctx)

	return nc
}

// Addr returns the remote address this connection was opened to or
// accepted from.
func (nc *NetConnection) Addr() string {
	return nc.addr
}

// Take removes and returns the oldest message waiting in the inbound
// queue. ok is false when nothing has arrived yet; Take never blocks.
func (nc *NetConnection) Take() (wire.Message, bool) {
	return nc.inbound.pop()
}

// Put enqueues a message for transmission. It never blocks: the outbound
// loop picks it up on its next tick.
func (nc *NetConnection) Put(msg wire.Message) {
	nc.outbound.push(msg)
}

// Close stops both loops and closes the underlying socket. It is safe to
// call more than once.
func (nc *NetConnection) Close() error {
	nc.closeOnce.Do(func() {
		nc.cancel()
		nc.conn.Close()
	})
	return nil
}

func (nc *NetConnection) inboundLoop(ctx context.Context) {
	defer nc.wg.Done()

	var framer wire.Buffer
	readBuf := make([]byte, wire.MaxMessageSize)

	for ctx.Err() == nil {
		n, err := nc.conn.Read(readBuf)
		if err != nil {
			log.Debug().Err(err).Str("addr", nc.addr).Msg("netconn: inbound read ended")
			return
		}
		if n == 0 {
			return
		}

		framer.Feed(readBuf[:n])
		msgs, err := framer.Drain()
		if err != nil {
			log.Error().Err(err).Str("addr", nc.addr).Msg("netconn: framing violation, closing")
			nc.Close()
			return
		}
		for _, msg := range msgs {
			log.Trace().Str("id", msg.Header.ID.String()).Str("addr", nc.addr).Msg("netconn: in")
			nc.inbound.push(msg)
		}
	}
}

func (nc *NetConnection) outboundLoop(ctx context.Context) {
	defer nc.wg.Done()

	ticker := time.NewTicker(outboundFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, msg := range nc.outbound.drain() {
				out := make([]byte, msg.Header.MessageSize())
				msg.Encode(out)
				log.Trace().Str("id", msg.Header.ID.String()).Str("addr", nc.addr).Msg("netconn: out")
				if _, err := nc.conn.Write(out); err != nil {
					log.Debug().Err(err).Str("addr", nc.addr).Msg("netconn: outbound write failed, closing")
					nc.Close()
					return
				}
			}
		}
	}
}
