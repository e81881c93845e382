package client

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/silkbridge/internal/massive"
	"github.com/gosuda/silkbridge/internal/netconn"
	"github.com/gosuda/silkbridge/internal/security"
	"github.com/gosuda/silkbridge/internal/wire"
)

// pollInterval is how often Run drains the connection when no context
// cancellation is pending.
const pollInterval = 10 * time.Millisecond

// Client is the dispatch engine for one connection: it decrypts inbound
// Messages, routes them through a Table of Processors, and lets
// Processors answer by calling Send. A loopback queue lets a Processor
// (notably the massive-fragment reassembler) inject a Message as if it
// had just arrived on the wire.
type Client struct {
	id       uuid.UUID
	conn     *netconn.NetConnection
	security *security.Security
	name     string

	loopbackMu sync.Mutex
	loopback   []wire.Message
}

// Connect dials addr and wraps the resulting connection in a Client with
// no security configured; the handshake installs one when it starts and
// adds the Blowfish key through InstallKey once the exchange completes.
func Connect(ctx context.Context, addr string) (*Client, error) {
	conn, err := netconn.Open(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &Client{id: uuid.New(), conn: conn}, nil
}

// Accept wraps an already-established connection, such as one returned
// from net.Listener.Accept, in a Client.
func Accept(ctx context.Context, conn net.Conn) *Client {
	return &Client{id: uuid.New(), conn: netconn.Wrap(ctx, conn)}
}

// ID returns the session identifier assigned when this Client was
// created, for correlating log lines across a connection's lifetime.
func (c *Client) ID() uuid.UUID {
	return c.id
}

// SetSecurity installs the encode/decrypt pipeline, normally at the start
// of the handshake, before any session key exists (see InstallKey). Before
// this is called, Send and the inbound path both treat messages as
// plaintext.
func (c *Client) SetSecurity(s *security.Security) {
	c.security = s
}

// InstallKey installs the Blowfish key on the already-configured Security
// pipeline, the step that turns on body encryption once a key exchange
// finalizes. It is a no-op if SetSecurity was never called.
func (c *Client) InstallKey(key security.Key) error {
	if c.security == nil {
		return nil
	}
	return c.security.SetKey(key)
}

// Identify records the peer-declared module name carried by a module
// identification message.
func (c *Client) Identify(name string) {
	c.name = name
}

// Name returns whatever Identify last recorded, or "" before that.
func (c *Client) Name() string {
	return c.name
}

// Send stamps msg's sequence/checksum bytes (if security is configured)
// and queues it for transmission. It never blocks. Send never encrypts on
// its own; call Encrypt first if the body should be ciphered.
func (c *Client) Send(msg wire.Message) {
	if c.security != nil {
		c.security.Encode(&msg)
	}
	c.conn.Put(msg)
}

// Encrypt ciphers msg's body under the installed Blowfish key and sets the
// header's encrypted-body flag, the explicit "call encrypt" path spec.md
// §4.5 gives processors alongside setting the MSB directly. Call this
// before Send when a processor wants a body hidden. It returns
// security.ErrCipherNotInstalled if no Security (and therefore no key) has
// been installed yet.
func (c *Client) Encrypt(msg *wire.Message) error {
	if c.security == nil {
		return security.ErrCipherNotInstalled
	}
	return c.security.Encrypt(msg)
}

// Receive implements massive.Receiver: it injects msg into the loopback
// queue, from which it is dispatched on the next ProcessMessages call as
// if freshly decrypted off the wire.
func (c *Client) Receive(msg wire.Message) {
	c.loopbackMu.Lock()
	c.loopback = append(c.loopback, msg)
	c.loopbackMu.Unlock()
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ProcessMessages drains the loopback queue in full, then takes up to
// limit messages off the connection's inbound queue, decrypting and
// dispatching each to table or, failing a lookup, to defaultHandler.
func (c *Client) ProcessMessages(table Table, defaultHandler Processor, limit int) {
	c.loopbackMu.Lock()
	pending := c.loopback
	c.loopback = nil
	c.loopbackMu.Unlock()

	for _, msg := range pending {
		c.dispatch(table, defaultHandler, msg)
	}

	for i := 0; i < limit; i++ {
		msg, ok := c.conn.Take()
		if !ok {
			break
		}
		if c.security != nil {
			if err := c.security.Decrypt(&msg); err != nil {
				log.Error().Err(err).Str("id", msg.Header.ID.String()).Msg("client: fatal decrypt failure, closing connection")
				c.Close()
				return
			}
		}
		c.dispatch(table, defaultHandler, msg)
	}
}

func (c *Client) dispatch(table Table, defaultHandler Processor, msg wire.Message) {
	if !msg.Header.ID.Decodable() {
		if defaultHandler != nil {
			defaultHandler.Process(c, msg)
		}
		return
	}
	if p, ok := table.Lookup(msg.Header.ID); ok {
		p.Process(c, msg)
		return
	}
	if defaultHandler != nil {
		defaultHandler.Process(c, msg)
	}
}

// Run repeatedly drains and dispatches messages on a fixed poll interval
// until ctx is cancelled.
func (c *Client) Run(ctx context.Context, table Table, defaultHandler Processor, limit int) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.ProcessMessages(table, defaultHandler, limit)
		}
	}
}

// MassiveProcessor adapts a massive.Processor, which only needs a
// massive.Receiver, to the client.Processor interface.
type MassiveProcessor struct {
	*massive.Processor
}

// NewMassiveProcessor builds a MassiveProcessor ready to register in a
// Table under the fragment-reassembly operation.
func NewMassiveProcessor() MassiveProcessor {
	return MassiveProcessor{Processor: &massive.Processor{}}
}

func (p MassiveProcessor) Process(c *Client, m wire.Message) {
	p.Processor.Process(c, m)
}
