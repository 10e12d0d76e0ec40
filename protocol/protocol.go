// Package protocol defines the two fixed 32-bit words that cross the
// extension-call boundary: the call identifier going in and the status
// word coming back.
//
// Both words use the same discipline: fixed octet positions, one
// reserved octet that must be zero, and staged validation on the way
// in. The boundary primitive carries no other metadata, so everything
// the two sides need to route and classify a call lives in these words.
//
// Call identifier layout (little-endian octet order):
//
//	 0         1         2         3
//	┌─────────┬─────────┬─────────┬─────────┐
//	│ function│ module  │ version │ reserved│
//	│ index   │ index   │ tag     │ = 0     │
//	└─────────┴─────────┴─────────┴─────────┘
//
// Status word layout:
//
//	 0         1         2         3
//	┌─────────┬─────────┬─────────┬─────────┐
//	│ class   │ module  │ code    │ reserved│
//	│ 0/1/2   │ index   │         │ = 0     │
//	└─────────┴─────────┴─────────┴─────────┘
//
// The class octet separates the two failure planes: class 1 means the
// environment refused the call itself, class 2 means the operation ran
// and failed. Because the class is explicit, an environment code and an
// operation code may share a numeric value without ever colliding.
// A successful call is exactly the zero word.
package protocol

import "errors"

// Status classes. The class decides how the rest of the word is read.
const (
	ClassOK          uint8 = 0 // success, whole word must be zero
	ClassEnvironment uint8 = 1 // call refused before execution, module octet is zero
	ClassOperation   uint8 = 2 // operation executed and failed, module octet set
)

// Environment-level codes (class 1). These describe why a call never
// reached its operation.
const (
	EnvUnknownCall     uint8 = 1 // identifier not in the environment's surface
	EnvBadPayload      uint8 = 2 // argument payload did not decode
	EnvBudgetExhausted uint8 = 3 // execution budget spent before the call
	EnvDepthExceeded   uint8 = 4 // nested extension calls past the limit
)

// StatusOK is the complete status word for success.
const StatusOK uint32 = 0

var (
	ErrIdentifierReserved = errors.New("protocol: identifier reserved octet not zero")
	ErrStatusReserved     = errors.New("protocol: status reserved octet not zero")
	ErrStatusClass        = errors.New("protocol: status class out of range")
	ErrStatusModule       = errors.New("protocol: environment status carries a module index")
	ErrMalformedSuccess   = errors.New("protocol: success status with nonzero octets")
)

// CallID is the unpacked form of a call identifier.
type CallID struct {
	Module   uint8 // which module group the function belongs to
	Function uint8 // function index within the module
	Version  uint8 // version tag of the call shape
}

// ID packs a call identifier from its three components.
// Identifiers for the supported surface are fixed at build time; this
// is the only way one is ever formed.
func ID(module, function, version uint8) uint32 {
	return uint32(function) | uint32(module)<<8 | uint32(version)<<16
}

// Pack returns the 32-bit wire form of the identifier.
func (c CallID) Pack() uint32 {
	return ID(c.Module, c.Function, c.Version)
}

// ParseID unpacks and validates a call identifier.
func ParseID(id uint32) (CallID, error) {
	// The reserved octet distinguishes identifiers from wider future
	// layouts; nothing valid sets it today.
	if id>>24 != 0 {
		return CallID{}, ErrIdentifierReserved
	}
	return CallID{
		Function: uint8(id),
		Module:   uint8(id >> 8),
		Version:  uint8(id >> 16),
	}, nil
}

// Status is the unpacked form of a status word.
type Status struct {
	Class  uint8
	Module uint8 // zero unless Class is ClassOperation
	Code   uint8
}

// OK reports whether the status is the success word.
func (s Status) OK() bool {
	return s.Class == ClassOK
}

// Pack returns the 32-bit wire form of the status.
func (s Status) Pack() uint32 {
	return uint32(s.Class) | uint32(s.Module)<<8 | uint32(s.Code)<<16
}

// EnvStatus builds an environment-class status word.
func EnvStatus(code uint8) uint32 {
	return Status{Class: ClassEnvironment, Code: code}.Pack()
}

// OpStatus builds an operation-class status word.
func OpStatus(module, code uint8) uint32 {
	return Status{Class: ClassOperation, Module: module, Code: code}.Pack()
}

// ParseStatus unpacks and validates a status word.
// Validation is staged: reserved octet, then class range, then the
// class-dependent rules for the remaining octets.
func ParseStatus(word uint32) (Status, error) {
	// Stage 1: reserved octet must be zero.
	if word>>24 != 0 {
		return Status{}, ErrStatusReserved
	}

	s := Status{
		Class:  uint8(word),
		Module: uint8(word >> 8),
		Code:   uint8(word >> 16),
	}

	// Stage 2: the class octet must name a known class.
	if s.Class > ClassOperation {
		return Status{}, ErrStatusClass
	}

	// Stage 3: class-dependent octet rules.
	switch s.Class {
	case ClassOK:
		// Success is exactly the zero word; stray octets mean the two
		// sides disagree about the layout.
		if word != StatusOK {
			return Status{}, ErrMalformedSuccess
		}
	case ClassEnvironment:
		// Environment rejections are module-independent.
		if s.Module != 0 {
			return Status{}, ErrStatusModule
		}
	}
	return s, nil
}

// EnvReason names the known environment codes for diagnostics.
// Unknown codes render as "unrecognized"; new environment revisions may
// add codes this build has never seen.
func EnvReason(code uint8) string {
	switch code {
	case EnvUnknownCall:
		return "unknown call identifier"
	case EnvBadPayload:
		return "malformed argument payload"
	case EnvBudgetExhausted:
		return "execution budget exhausted"
	case EnvDepthExceeded:
		return "call depth exceeded"
	default:
		return "unrecognized"
	}
}
