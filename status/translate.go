package status

import (
	"extcall/call"
	"extcall/protocol"
)

// Translate classifies a raw outcome for a call made at the given
// surface version. It returns nil for success, or exactly one of the
// three structured error kinds.
//
// The stages run in precedence order:
//
//  1. The status word itself must parse; otherwise the response is
//     malformed and nothing downstream can be trusted (DecodeError).
//  2. The environment class outranks the operation class. A word
//     carrying the environment class is an EnvironmentRejected even if
//     its numeric code also exists in some module's table.
//  3. Operation-class words are looked up in the version's table; a
//     miss degrades to Unknown, never to a translation failure.
func Translate(op string, version uint8, out call.RawOutcome) error {
	s, err := protocol.ParseStatus(out.Status)
	if err != nil {
		return &DecodeError{Op: op, Err: err}
	}

	switch s.Class {
	case protocol.ClassOK:
		return nil
	case protocol.ClassEnvironment:
		return &EnvironmentRejected{Code: s.Code}
	default:
		// Calls made at versions this build predates still classify;
		// their codes simply all land on Unknown.
		table, _ := TableFor(version)
		return &OperationFailed{
			Module:  s.Module,
			Code:    s.Code,
			Variant: table.Lookup(s.Module, s.Code),
		}
	}
}
