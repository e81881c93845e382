package massive

import (
	"encoding/binary"

	"github.com/gosuda/silkbridge/internal/wire"
)

// headerTag and bodyTag are the leading byte of a fragment, identifying
// which of the two fragment shapes follows.
const (
	bodyTag   = 0
	headerTag = 1
)

type fragmentHeader struct {
	totalCount int
	id         wire.ID
}

// Buffer reassembles one logical Message out of a header fragment plus the
// body fragments it declares a count for. It is not safe for concurrent
// use.
type Buffer struct {
	header *fragmentHeader
	count  int
	data   []byte
}

// Add feeds one fragment (header or body) into the buffer.
func (b *Buffer) Add(msg wire.Message) error {
	if len(msg.Data) < 1 {
		return ErrFragmentTooShort
	}
	if msg.Data[0] == headerTag {
		if len(msg.Data) < 5 {
			return ErrFragmentTooShort
		}
		h := fragmentHeader{
			totalCount: int(binary.LittleEndian.Uint16(msg.Data[1:3])),
			id:         wire.IDFromUint16(binary.LittleEndian.Uint16(msg.Data[3:5])),
		}
		return b.addHeader(h)
	}
	return b.addBody(msg.Data[1:])
}

func (b *Buffer) addHeader(h fragmentHeader) error {
	if b.header != nil {
		return ErrAlreadyInitialized
	}
	b.header = &h
	return nil
}

func (b *Buffer) addBody(data []byte) error {
	if b.header == nil {
		return ErrHeaderMissing
	}
	if b.header.totalCount < b.count+1 {
		return ErrTooMany
	}
	b.count++
	b.data = append(b.data, data...)
	return nil
}

// Collect returns the reassembled Message once every declared body
// fragment has arrived, resetting the buffer for the next reassembly. ok
// is false while fragments are still outstanding.
func (b *Buffer) Collect() (msg wire.Message, ok bool, err error) {
	if b.header == nil || b.header.totalCount != b.count {
		return wire.Message{}, false, nil
	}
	id := b.header.id
	data := b.data
	b.reset()

	msg, err = wire.NewMessage(id, data)
	if err != nil {
		return wire.Message{}, false, err
	}
	return msg, true, nil
}

func (b *Buffer) reset() {
	b.header = nil
	b.count = 0
	b.data = nil
}
