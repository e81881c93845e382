package massive

import "errors"

var (
	// ErrAlreadyInitialized is returned when a header fragment arrives for
	// a buffer that already holds one; a reassembly in progress cannot be
	// restarted mid-stream.
	ErrAlreadyInitialized = errors.New("massive: header already set")

	// ErrHeaderMissing is returned when a body fragment arrives before any
	// header fragment has been seen.
	ErrHeaderMissing = errors.New("massive: body fragment before header")

	// ErrTooMany is returned when a body fragment arrives after the header's
	// declared fragment count has already been reached.
	ErrTooMany = errors.New("massive: more body fragments than declared")

	// ErrFragmentTooShort is returned when a fragment doesn't carry even its
	// leading tag byte, or a header fragment is missing its count/id fields.
	ErrFragmentTooShort = errors.New("massive: fragment shorter than its own framing")
)
