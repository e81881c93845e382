package massive

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gosuda/silkbridge/internal/wire"
)

func headerFragment(t *testing.T, totalCount int, id wire.ID) wire.Message {
	t.Helper()
	body := make([]byte, 5)
	body[0] = headerTag
	binary.LittleEndian.PutUint16(body[1:3], uint16(totalCount))
	binary.LittleEndian.PutUint16(body[3:5], id.Uint16())
	msg, err := wire.NewMessage(wire.New(), body)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	return msg
}

func bodyFragment(t *testing.T, payload []byte) wire.Message {
	t.Helper()
	body := append([]byte{bodyTag}, payload...)
	msg, err := wire.NewMessage(wire.New(), body)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	return msg
}

func TestBufferReassemblesInOrder(t *testing.T) {
	id := wire.New().WithKind(wire.KindGame).WithOperation(55)
	var b Buffer

	if err := b.Add(headerFragment(t, 2, id)); err != nil {
		t.Fatalf("add header: %v", err)
	}
	if _, ok, _ := b.Collect(); ok {
		t.Fatalf("collected before all bodies arrived")
	}

	if err := b.Add(bodyFragment(t, []byte("hello "))); err != nil {
		t.Fatalf("add body 1: %v", err)
	}
	if _, ok, _ := b.Collect(); ok {
		t.Fatalf("collected after only one of two bodies")
	}

	if err := b.Add(bodyFragment(t, []byte("world"))); err != nil {
		t.Fatalf("add body 2: %v", err)
	}

	msg, ok, err := b.Collect()
	if err != nil || !ok {
		t.Fatalf("Collect() = ok=%v err=%v, want ok=true", ok, err)
	}
	if msg.Header.ID != id {
		t.Fatalf("reassembled id mismatch: got %s want %s", msg.Header.ID, id)
	}
	if !bytes.Equal(msg.Data, []byte("hello world")) {
		t.Fatalf("reassembled data mismatch: got %q", msg.Data)
	}
}

func TestBufferResetsAfterCollect(t *testing.T) {
	id := wire.New()
	var b Buffer
	b.Add(headerFragment(t, 1, id))
	b.Add(bodyFragment(t, []byte("x")))
	if _, ok, _ := b.Collect(); !ok {
		t.Fatalf("expected collect to succeed")
	}

	// A fresh reassembly must be possible immediately after.
	if err := b.Add(headerFragment(t, 1, id)); err != nil {
		t.Fatalf("add header after reset: %v", err)
	}
}

func TestBufferRejectsDuplicateHeader(t *testing.T) {
	var b Buffer
	b.Add(headerFragment(t, 3, wire.New()))
	if err := b.Add(headerFragment(t, 3, wire.New())); err != ErrAlreadyInitialized {
		t.Fatalf("got %v, want ErrAlreadyInitialized", err)
	}
}

func TestBufferRejectsOrphanBody(t *testing.T) {
	var b Buffer
	if err := b.Add(bodyFragment(t, []byte("x"))); err != ErrHeaderMissing {
		t.Fatalf("got %v, want ErrHeaderMissing", err)
	}
}

func TestBufferRejectsOverCountBody(t *testing.T) {
	var b Buffer
	b.Add(headerFragment(t, 1, wire.New()))
	b.Add(bodyFragment(t, []byte("a")))
	if err := b.Add(bodyFragment(t, []byte("b"))); err != ErrTooMany {
		t.Fatalf("got %v, want ErrTooMany", err)
	}
}
