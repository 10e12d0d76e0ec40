// Package call defines the two envelopes that cross the extension-call
// boundary: the descriptor going in and the raw outcome coming back.
//
// A Descriptor is built once per call by the encoder path and read once
// by the boundary. A RawOutcome is produced only by the boundary and
// consumed once by the decoder path. Neither is reused, pooled, or
// shared between calls.
package call

import (
	"encoding/hex"

	"extcall/protocol"
)

// Descriptor carries one extension call: the packed identifier and the
// canonically encoded argument payload.
//
//   - The identifier fixes module, function, and version at build time.
//   - The payload is owned by the descriptor; the builder hands it over
//     and never touches it again.
type Descriptor struct {
	ID      uint32 // packed call identifier (see protocol)
	Payload []byte // canonical argument bytes, may be empty
}

// NewDescriptor packs an identifier and pairs it with the payload.
func NewDescriptor(module, function, version uint8, payload []byte) Descriptor {
	return Descriptor{
		ID:      protocol.ID(module, function, version),
		Payload: payload,
	}
}

// RawOutcome is exactly what the boundary primitive returned, before
// any interpretation.
//
//   - On success: Status is zero and Payload holds the return value
//     bytes (possibly empty for unit returns).
//   - On failure: Status is the nonzero status word and Payload holds
//     optional auxiliary bytes the environment attached.
type RawOutcome struct {
	Status  uint32
	Payload []byte
}

// OkOutcome wraps a success payload.
func OkOutcome(payload []byte) RawOutcome {
	return RawOutcome{Status: protocol.StatusOK, Payload: payload}
}

// FailOutcome wraps a nonzero status word with optional auxiliary bytes.
func FailOutcome(status uint32, aux []byte) RawOutcome {
	return RawOutcome{Status: status, Payload: aux}
}

// Ok reports whether the outcome is the success word.
func (o RawOutcome) Ok() bool {
	return o.Status == protocol.StatusOK
}

// AccountID is the fixed-width account identifier used by value
// transfer operations. It is encoded raw: 32 bytes, no prefix.
type AccountID [32]byte

// AccountIDFromBytes copies b into an AccountID. b must be exactly 32
// bytes; anything else reports false.
func AccountIDFromBytes(b []byte) (AccountID, bool) {
	var id AccountID
	if len(b) != len(id) {
		return AccountID{}, false
	}
	copy(id[:], b)
	return id, true
}

// String renders the identifier as hex, abbreviated to the first and
// last four bytes the way log lines show accounts.
func (a AccountID) String() string {
	full := hex.EncodeToString(a[:])
	return full[:8] + ".." + full[56:]
}
