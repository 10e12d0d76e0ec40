package sandbox

import (
	"errors"
	"fmt"

	"extcall/scale"
)

// Module is one group of privileged operations the sandbox serves.
// Implementations decode their arguments from the decoder, run, and
// either return a fresh result payload or fail.
//
// Failure contract, matching how the sandbox classifies errors:
//
//   - *Fault: the operation ran and failed; its code rides an
//     operation-class status word.
//   - ErrNoFunction: the (function, version) pair is not in this
//     module's surface; the call is unknown.
//   - any other error: the argument payload did not decode.
//
// Result payloads must not alias module state; the caller owns what it
// receives.
type Module interface {
	Index() uint8
	Name() string
	Weight(function uint8) int
	Handle(function, version uint8, args *scale.Decoder) ([]byte, error)
}

// ErrNoFunction marks a (function, version) pair outside a module's
// surface.
var ErrNoFunction = errors.New("sandbox: function not in module surface")

// Fault is an operation failure reported by a module handler. Code is
// the module-scoped status code the environment will put on the wire.
type Fault struct {
	Code uint8
}

func (f *Fault) Error() string {
	return fmt.Sprintf("sandbox: operation fault, code %d", f.Code)
}

// faultErr builds a *Fault as an error.
func faultErr(code uint8) error {
	return &Fault{Code: code}
}
