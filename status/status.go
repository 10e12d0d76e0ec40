// Package status turns raw outcomes from the extension-call boundary
// into typed results or structured errors.
//
// Every failed call falls into exactly one of three kinds:
//
//   - DecodeError: the response bytes do not match the expected shape.
//     The call's true outcome is unknowable; nothing else can be said.
//   - EnvironmentRejected: the environment refused the call itself
//     before the operation ran (unknown identifier, malformed payload,
//     spent budget).
//   - OperationFailed: the operation executed and reported failure.
//     The numeric code is looked up in the versioned status table; a
//     known code carries its variant, an unknown one carries Unknown
//     with the code still observable.
//
// Classification is ordered: a malformed status word is a DecodeError
// before anything else, and the environment class is checked before the
// operation class. An environment built after this table was compiled
// may emit codes the table has never seen; those degrade to Unknown and
// never fail translation.
package status

import (
	"errors"
	"fmt"

	"extcall/protocol"
)

// Variant is the structured meaning of a known operation failure code.
// The zero value is Unknown: a code the active table has no entry for.
type Variant uint8

const (
	Unknown Variant = iota

	// balances module
	BelowMinimum        // transfer would leave an account under the minimum balance
	Frozen              // source account is frozen for transfers
	InsufficientBalance // source balance cannot cover the transfer
	DeadAccount         // destination account cannot be created
	TooManyHolds        // holds on the source exceed the limit

	// registry module
	EntryNotFound // no entry under the requested key
	StorageFull   // registry is at capacity
	ValueTooLarge // value exceeds the per-entry size limit
)

func (v Variant) String() string {
	switch v {
	case BelowMinimum:
		return "below_minimum"
	case Frozen:
		return "frozen"
	case InsufficientBalance:
		return "insufficient_balance"
	case DeadAccount:
		return "dead_account"
	case TooManyHolds:
		return "too_many_holds"
	case EntryNotFound:
		return "entry_not_found"
	case StorageFull:
		return "storage_full"
	case ValueTooLarge:
		return "value_too_large"
	default:
		return "unknown"
	}
}

// DecodeError reports response bytes that do not parse as the expected
// shape: a malformed status word, a truncated success payload, or
// trailing bytes after the value.
type DecodeError struct {
	Op  string // operation whose response failed, e.g. "balances.transfer"
	Err error  // the underlying decoding failure
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("status: decoding %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EnvironmentRejected reports that the call never reached its
// operation. Code is the environment-level code from the status word.
type EnvironmentRejected struct {
	Code uint8
}

func (e *EnvironmentRejected) Error() string {
	return fmt.Sprintf("status: environment rejected call: %s (code %d)", protocol.EnvReason(e.Code), e.Code)
}

// Reason names the code when this build knows it.
func (e *EnvironmentRejected) Reason() string {
	return protocol.EnvReason(e.Code)
}

// OperationFailed reports that the operation executed and failed.
// Variant is the table's entry for (Module, Code), or Unknown when the
// table has none; the numeric code stays observable either way.
type OperationFailed struct {
	Module  uint8
	Code    uint8
	Variant Variant
}

func (e *OperationFailed) Error() string {
	module := protocol.ModuleName(e.Module)
	if e.Variant == Unknown {
		return fmt.Sprintf("status: %s operation failed: unknown code %d", module, e.Code)
	}
	return fmt.Sprintf("status: %s operation failed: %s (code %d)", module, e.Variant, e.Code)
}

// Is lets errors.Is match any OperationFailed against the zero target,
// or an exact (module, code) pair against a populated one.
func (e *OperationFailed) Is(target error) bool {
	t, ok := target.(*OperationFailed)
	if !ok {
		return false
	}
	if t.Module == 0 && t.Code == 0 && t.Variant == Unknown {
		return true
	}
	return e.Module == t.Module && e.Code == t.Code
}

// IsVariant reports whether err is an OperationFailed carrying v.
func IsVariant(err error, v Variant) bool {
	var op *OperationFailed
	if !errors.As(err, &op) {
		return false
	}
	return op.Variant == v
}
