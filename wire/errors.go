package wire

import "errors"

// Error kinds surfaced at the package boundary (spec.md §6). Platform errors
// from the resolv.conf loader's file I/O are passed through unwrapped and are
// not sentinels of this package.
var (
	// ErrMalformed indicates truncated wire data or a reserved compression-
	// pointer bit pattern (01 or 10).
	ErrMalformed = errors.New("wire: malformed dns message")
	// ErrTooLong indicates the destination buffer was too small, or a label
	// or name exceeded its maximum length.
	ErrTooLong = errors.New("wire: name or buffer too long")
	// ErrLoop indicates a compression pointer chain exceeded MaxPointerHops.
	ErrLoop = errors.New("wire: compression pointer loop")
	// ErrNoBufs indicates the packet buffer is at capacity.
	ErrNoBufs = errors.New("wire: packet buffer full")
)
