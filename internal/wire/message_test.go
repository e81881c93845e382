package wire

import (
	"bytes"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	id := New().WithKind(KindGame).WithDirection(Ack).WithOperation(99)
	body := []byte("hello world")
	msg, err := NewMessage(id, body)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	buf := make([]byte, msg.Header.MessageSize())
	msg.Encode(buf)

	got, n, err := DecodeMessage(buf)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d bytes, want %d", n, len(buf))
	}
	if got.Header.ID != id {
		t.Fatalf("id mismatch: got %s want %s", got.Header.ID, id)
	}
	if !bytes.Equal(got.Data, body) {
		t.Fatalf("data mismatch: got %q want %q", got.Data, body)
	}
}

func TestNewMessageRejectsOversizeBody(t *testing.T) {
	_, err := NewMessage(New(), make([]byte, MaxDataSize+1))
	if err != ErrOversizeMessage {
		t.Fatalf("got %v, want ErrOversizeMessage", err)
	}
}

func TestDecodeMessageShortBody(t *testing.T) {
	id := New().WithOperation(1)
	msg, err := NewMessage(id, []byte("abcdef"))
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	full := make([]byte, msg.Header.MessageSize())
	msg.Encode(full)

	_, _, err = DecodeMessage(full[:HeaderSize+2])
	if err != ErrShortMessage {
		t.Fatalf("got %v, want ErrShortMessage", err)
	}
}

func TestDecodeMessageRejectsOversizeHeader(t *testing.T) {
	buf := make([]byte, HeaderSize)
	// Forge a size field above MaxDataSize (low 15 bits), flag bit clear.
	buf[0], buf[1] = 0xFF, 0x7F
	_, _, err := DecodeMessage(buf)
	if err != ErrOversizeMessage {
		t.Fatalf("got %v, want ErrOversizeMessage", err)
	}
}
