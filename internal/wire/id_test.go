package wire

import "testing"

func TestIDRoundTrip(t *testing.T) {
	for v := 0; v <= 0xFFFF; v++ {
		id := IDFromUint16(uint16(v))
		if got := id.Uint16(); got != uint16(v) {
			t.Fatalf("round trip broke for 0x%X: got 0x%X", v, got)
		}
	}
}

func TestIDKnownValues(t *testing.T) {
	cases := []struct {
		v    uint16
		kind Kind
		dir  Direction
		op   Operation
	}{
		{0x5000, KindNetEngine, Req, 0},
		{0x9000, KindNetEngine, Ack, 0},
	}
	for _, c := range cases {
		id := IDFromUint16(c.v)
		if id.Kind != c.kind || id.Direction != c.dir || id.Operation != c.op {
			t.Fatalf("0x%X: got kind=%s dir=%s op=%d, want kind=%s dir=%s op=%d",
				c.v, id.Kind, id.Direction, id.Operation, c.kind, c.dir, c.op)
		}
	}
}

func TestIDUnknownDirectionDoesNotPanic(t *testing.T) {
	id := IDFromUint16(0xC000)
	if id.Decodable() {
		t.Fatalf("expected undecodable direction for 0xC000, got %s", id)
	}
	_ = id.String()
}

func TestIDBuilders(t *testing.T) {
	id := New().WithKind(KindGame).WithDirection(Req).WithOperation(42)
	if id.Kind != KindGame || id.Direction != Req || id.Operation != 42 {
		t.Fatalf("unexpected id: %s", id)
	}
}
