package handshake

import "errors"

// ErrSignatureMismatch names the failure of a peer's challenge signature to
// verify against the locally computed shared secret. No function in this
// package returns it: the Initiator and Responder processors log the
// security.ErrChallengeMismatch they get from security.VerifyChallenge and
// close the connection, since a handshake cannot recover once the two
// sides disagree about the shared secret.
var ErrSignatureMismatch = errors.New("handshake: signature mismatch")
