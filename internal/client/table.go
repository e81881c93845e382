package client

import "github.com/gosuda/silkbridge/internal/wire"

// Processor reacts to one inbound Message, with full access back to the
// Client that received it so it can reply, reconfigure security, or tag
// the connection with session state.
type Processor interface {
	Process(c *Client, m wire.Message)
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(c *Client, m wire.Message)

func (f ProcessorFunc) Process(c *Client, m wire.Message) {
	f(c, m)
}

// Table dispatches a Message to the Processor registered for its ID.
type Table map[wire.ID]Processor

// Register adds a Processor for id, replacing any previous registration.
func (t Table) Register(id wire.ID, p Processor) {
	t[id] = p
}

// Lookup returns the Processor registered for id, if any.
func (t Table) Lookup(id wire.ID) (Processor, bool) {
	p, ok := t[id]
	return p, ok
}
