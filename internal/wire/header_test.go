package wire

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	id := New().WithKind(KindFramework).WithDirection(NoDir).WithOperation(7)
	h := NewHeader(id, 12).SetEncrypted(true)
	h.Sequence = 0xAB
	h.Checksum = 0xCD

	buf := make([]byte, HeaderSize)
	h.Encode(buf)

	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got.DataSize() != 12 || !got.IsEncrypted() || got.Sequence != 0xAB || got.Checksum != 0xCD {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.ID != id {
		t.Fatalf("id mismatch: got %s want %s", got.ID, id)
	}
	if got.MessageSize() != 18 {
		t.Fatalf("MessageSize() = %d, want 18", got.MessageSize())
	}
}

func TestDecodeHeaderShort(t *testing.T) {
	_, err := DecodeHeader([]byte{1, 2, 3})
	if err != ErrShortHeader {
		t.Fatalf("got %v, want ErrShortHeader", err)
	}
}

// TestEmptyFrameworkFrameWireBytes pins the wire bytes of a zero-body
// Framework/NoDir/operation-0 frame (id 0x2000), a canary across the whole
// framing stack.
func TestEmptyFrameworkFrameWireBytes(t *testing.T) {
	id := New().WithKind(KindFramework).WithDirection(NoDir).WithOperation(0)
	h := NewHeader(id, 0)
	buf := make([]byte, HeaderSize)
	h.Encode(buf)

	want := []byte{0x00, 0x00, 0x00, 0x20, 0x00, 0x00}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d: got 0x%02X want 0x%02X (full %X)", i, buf[i], want[i], buf)
		}
	}
}
