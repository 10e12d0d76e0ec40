// Package client is the typed surface over the extension-call
// boundary: one method per supported privileged operation.
//
// Every method runs the same pipeline:
//
//	encode args ──► Descriptor ──► dispatch ──► RawOutcome ──► translate ──► (T, error)
//
// The client keeps no state between calls. Each call builds a fresh
// descriptor, performs exactly one dispatch (unless installed
// middleware decides otherwise), and hands the caller a value that
// shares no memory with any later call. A client serves one sandbox
// context; concurrent contexts get their own clients.
package client

import (
	"context"

	"extcall/call"
	"extcall/dispatch"
	"extcall/middleware"
	"extcall/scale"
	"extcall/status"
)

// Client binds the typed surface to one runtime boundary.
type Client struct {
	dispatcher *Dispatcher
	mws        []middleware.Middleware
	invoke     middleware.Invoker
}

// Dispatcher is re-exported here so callers construct clients without
// importing the dispatch package for the common path.
type Dispatcher = dispatch.Dispatcher

// New binds a client to its runtime.
func New(rt dispatch.Runtime) (*Client, error) {
	d, err := dispatch.New(rt)
	if err != nil {
		return nil, err
	}
	c := &Client{dispatcher: d}
	c.rebuild()
	return c, nil
}

// Use installs caller-side middleware around the dispatch step. The
// first installed middleware is outermost. Install before issuing
// calls; the chain is not synchronized.
func (c *Client) Use(mws ...middleware.Middleware) *Client {
	c.mws = append(c.mws, mws...)
	c.rebuild()
	return c
}

func (c *Client) rebuild() {
	base := func(ctx context.Context, desc call.Descriptor) (call.RawOutcome, error) {
		return c.dispatcher.Dispatch(desc)
	}
	c.invoke = middleware.Chain(c.mws...)(base)
}

// send runs one descriptor through the installed chain. The boundary
// is synchronous and non-cancellable, so there is no caller context;
// middleware receives Background.
func (c *Client) send(desc call.Descriptor) (call.RawOutcome, error) {
	return c.invoke(context.Background(), desc)
}

// The decode helpers below finish the pipeline for each return shape.
// Translation runs first: a failure status always wins over whatever
// bytes ride along with it. On success the payload must parse as
// exactly the expected shape, trailing bytes included.

func decodeUnit(op string, version uint8, out call.RawOutcome) error {
	if err := status.Translate(op, version, out); err != nil {
		return err
	}
	if len(out.Payload) != 0 {
		return &status.DecodeError{Op: op, Err: scale.ErrTrailingBytes}
	}
	return nil
}

func decodeU32(op string, version uint8, out call.RawOutcome) (uint32, error) {
	if err := status.Translate(op, version, out); err != nil {
		return 0, err
	}
	dec := scale.NewDecoder(out.Payload)
	v, err := dec.U32()
	if err != nil {
		return 0, &status.DecodeError{Op: op, Err: err}
	}
	if err := dec.Finish(); err != nil {
		return 0, &status.DecodeError{Op: op, Err: err}
	}
	return v, nil
}

func decodeU128(op string, version uint8, out call.RawOutcome) (scale.U128, error) {
	if err := status.Translate(op, version, out); err != nil {
		return scale.U128{}, err
	}
	dec := scale.NewDecoder(out.Payload)
	v, err := dec.U128()
	if err != nil {
		return scale.U128{}, &status.DecodeError{Op: op, Err: err}
	}
	if err := dec.Finish(); err != nil {
		return scale.U128{}, &status.DecodeError{Op: op, Err: err}
	}
	return v, nil
}

func decodeBool(op string, version uint8, out call.RawOutcome) (bool, error) {
	if err := status.Translate(op, version, out); err != nil {
		return false, err
	}
	dec := scale.NewDecoder(out.Payload)
	v, err := dec.Bool()
	if err != nil {
		return false, &status.DecodeError{Op: op, Err: err}
	}
	if err := dec.Finish(); err != nil {
		return false, &status.DecodeError{Op: op, Err: err}
	}
	return v, nil
}

func decodeBytes(op string, version uint8, out call.RawOutcome) ([]byte, error) {
	if err := status.Translate(op, version, out); err != nil {
		return nil, err
	}
	dec := scale.NewDecoder(out.Payload)
	v, err := dec.Bytes()
	if err != nil {
		return nil, &status.DecodeError{Op: op, Err: err}
	}
	if err := dec.Finish(); err != nil {
		return nil, &status.DecodeError{Op: op, Err: err}
	}
	return v, nil
}
