package wire

// Buffer reassembles complete Messages out of byte chunks that arrive at
// arbitrary TCP boundaries: a single chunk may hold zero, one, or many
// messages, and a message may straddle several chunks.
//
// It is not safe for concurrent use; callers serialize access the same way
// they serialize reads off the underlying connection.
type Buffer struct {
	pending []byte
}

// Feed appends newly read bytes to the buffer. It copies data, so the
// caller's read buffer may be reused immediately.
func (b *Buffer) Feed(data []byte) {
	b.pending = append(b.pending, data...)
}

// Next extracts the first complete Message from the buffer, if one has
// fully arrived. ok is false when more bytes are needed; err is non-nil
// only for a framing violation (ErrOversizeMessage), which the caller
// should treat as fatal for the connection.
func (b *Buffer) Next() (msg Message, ok bool, err error) {
	if len(b.pending) < HeaderSize {
		return Message{}, false, nil
	}
	msg, n, err := DecodeMessage(b.pending)
	if err == ErrShortMessage {
		return Message{}, false, nil
	}
	if err != nil {
		return Message{}, false, err
	}
	b.pending = b.pending[n:]
	if len(b.pending) == 0 {
		// Release the backing array instead of holding it open indefinitely
		// through repeated reslicing.
		b.pending = nil
	}
	return msg, true, nil
}

// Drain repeatedly calls Next, collecting every complete message currently
// available.
func (b *Buffer) Drain() ([]Message, error) {
	var out []Message
	for {
		msg, ok, err := b.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, msg)
	}
}

// Len reports how many bytes are buffered but not yet resolved into a
// complete message.
func (b *Buffer) Len() int {
	return len(b.pending)
}
