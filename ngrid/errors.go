package ngrid

import (
	"fmt"

	"github.com/pkg/errors"
)

// usageError is panicked for programming errors the caller could have
// avoided by checking the NGrid's own state first (rank/shape
// mismatches, out-of-range axes, operating on a destroyed value).
// pkg/errors.Wrap attaches a stack trace at the panic site so a
// recovering host program gets a useful trace even though the error
// never unwinds through a normal return.
type usageError struct {
	error
}

func panicUsage(format string, args ...any) {
	panic(usageError{errors.Wrap(fmt.Errorf(format, args...), "ngrid")})
}

// Error values for recoverable conditions. The operations with an
// error result (LUDecomp, Inverse, PseudoInverse) return them; the
// operations without one panic through panicUsage when their dispatch
// fails, a timeout included.
var (
	// ErrTimeout is returned by the package's dispatch helper when the
	// wait for a commit exceeds Cfg().FenceTimeout. The GPU work may
	// still be in flight. The NGrid operations that call the helper
	// have no error result and panic with a usage error whose message
	// includes it.
	ErrTimeout = errors.New("ngrid: dispatch timed out")

	// ErrClipped names the condition of host data larger than the
	// destination's capacity being clipped. No function in this
	// package returns it: NewVectorFrom clips silently.
	ErrClipped = errors.New("ngrid: source data clipped to destination capacity")

	// ErrNotSquare is returned by Inverse when the receiver is not a
	// rank-2 grid with equal dimensions.
	ErrNotSquare = errors.New("ngrid: matrix must be square")

	// ErrPseudoInverseUnsupported is returned by PseudoInverse. General
	// non-square pseudo-inversion is left declared but unimplemented;
	// see DESIGN.md's Open Questions.
	ErrPseudoInverseUnsupported = errors.New("ngrid: pseudo-inverse of a non-square matrix is not implemented")
)
