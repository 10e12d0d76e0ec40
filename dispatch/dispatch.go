// Package dispatch hands call descriptors to the extension-call
// boundary and returns raw outcomes, nothing more.
//
// The boundary primitive is synchronous: one call in, one outcome out,
// no cancellation mid-flight, no concurrent calls from one sandbox
// context. The dispatcher therefore stays deliberately thin; every
// policy that could wrap a call (logging, retries, rate limits) lives
// with the caller, outside this package.
//
//	typed args ──encode──► Descriptor ──Dispatch──► Runtime.Invoke
//	typed result ◄──translate── RawOutcome ◄─────────────┘
//
// One Dispatch performs exactly one Invoke. The outcome is returned
// byte-identical to what the boundary produced.
package dispatch

import (
	"errors"

	"extcall/call"
	"extcall/protocol"
)

// Runtime is the boundary primitive as the environment presents it:
// an identifier and a payload in, a raw outcome back. Implementations
// block until the call completes.
type Runtime interface {
	Invoke(id uint32, payload []byte) call.RawOutcome
}

// RuntimeFunc adapts a plain function to the Runtime interface.
type RuntimeFunc func(id uint32, payload []byte) call.RawOutcome

func (f RuntimeFunc) Invoke(id uint32, payload []byte) call.RawOutcome {
	return f(id, payload)
}

var ErrNilRuntime = errors.New("dispatch: nil runtime")

// Dispatcher forwards descriptors to one bound runtime. It holds no
// state between calls: no sequence numbers, no pending map, no buffers.
type Dispatcher struct {
	rt Runtime
}

// New binds a dispatcher to its runtime.
func New(rt Runtime) (*Dispatcher, error) {
	if rt == nil {
		return nil, ErrNilRuntime
	}
	return &Dispatcher{rt: rt}, nil
}

// Dispatch passes one descriptor across the boundary.
// An identifier that does not parse never crosses: the supported
// surface packs identifiers at build time, so a malformed one is a
// caller bug, not an environment decision.
func (d *Dispatcher) Dispatch(desc call.Descriptor) (call.RawOutcome, error) {
	if _, err := protocol.ParseID(desc.ID); err != nil {
		return call.RawOutcome{}, err
	}
	return d.rt.Invoke(desc.ID, desc.Payload), nil
}
