package security

import "testing"

func TestGPowXModPKnownVector(t *testing.T) {
	if got := gPowXModP(10, 20, 30); got != 10 {
		t.Fatalf("gPowXModP(10,20,30) = %d, want 10", got)
	}
}

func TestGPowXModPZeroExponent(t *testing.T) {
	if got := gPowXModP(123, 0, 97); got != 1 {
		t.Fatalf("gPowXModP(g,0,p) = %d, want 1", got)
	}
}

func TestTransformKnownVector(t *testing.T) {
	buf := make([]byte, 8)
	transform(buf, 12345, uint8(12345&7))
	want := []byte{58, 49, 1, 1, 58, 49, 1, 1}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d: got %d want %d (full %v)", i, buf[i], want[i], buf)
		}
	}
}

// TestExchangeRoundTrip mirrors a full handshake: both sides derive the
// same shared secret and each can create a challenge the other verifies.
func TestExchangeRoundTrip(t *testing.T) {
	const (
		g       = 5
		p       = 0x7FFFFFFF
		privA   = 111111
		privB   = 222222
	)
	initial := Key{1, 2, 3, 4, 5, 6, 7, 8}

	initiatorPending := NewPendingExchange(initial, g, p, privA)
	responderPending := NewPendingExchange(initial, g, p, privB)

	responderReady := responderPending.WithRemote(initiatorPending.Local())
	initiatorReady := initiatorPending.WithRemote(responderPending.Local())

	if initiatorReady.Shared() != responderReady.Shared() {
		t.Fatalf("shared secrets disagree: %d vs %d", initiatorReady.Shared(), responderReady.Shared())
	}

	responderChallenge, err := CreateChallenge(Responder, responderReady)
	if err != nil {
		t.Fatalf("CreateChallenge(Responder): %v", err)
	}
	if err := VerifyChallenge(Initiator, initiatorReady, responderChallenge); err != nil {
		t.Fatalf("VerifyChallenge(Initiator): %v", err)
	}

	initiatorChallenge, err := CreateChallenge(Initiator, initiatorReady)
	if err != nil {
		t.Fatalf("CreateChallenge(Initiator): %v", err)
	}
	if err := VerifyChallenge(Responder, responderReady, initiatorChallenge); err != nil {
		t.Fatalf("VerifyChallenge(Responder): %v", err)
	}

	if FinalizeKey(initiatorReady) != FinalizeKey(responderReady) {
		t.Fatalf("finalized keys disagree")
	}
}

func TestVerifyChallengeRejectsWrongSignature(t *testing.T) {
	initial := Key{}
	a := NewPendingExchange(initial, 5, 0x7FFFFFFF, 1).WithRemote(9)
	b := NewPendingExchange(initial, 5, 0x7FFFFFFF, 2).WithRemote(3)

	var forged Signature
	if err := VerifyChallenge(Initiator, a, forged); err != ErrChallengeMismatch {
		t.Fatalf("got %v, want ErrChallengeMismatch", err)
	}
	_ = b
}
