package status

import "extcall/protocol"

// Operation failure codes, per module. These are the numeric values the
// environment puts in the code octet of an operation-class status word.
const (
	// balances module
	CodeBelowMinimum        uint8 = 1
	CodeFrozen              uint8 = 2
	CodeInsufficientBalance uint8 = 3
	CodeDeadAccount         uint8 = 4
	CodeTooManyHolds        uint8 = 5 // added at surface version 1

	// registry module
	CodeEntryNotFound uint8 = 1
	CodeStorageFull   uint8 = 2
	CodeValueTooLarge uint8 = 3 // added at surface version 1
)

// Table maps (module, code) to a known variant for one surface version.
// Tables are immutable package data; a lookup never allocates.
type Table struct {
	version uint8
	entries map[uint16]Variant
}

func tableKey(module, code uint8) uint16 {
	return uint16(module)<<8 | uint16(code)
}

// Version is the surface version this table describes.
func (t *Table) Version() uint8 {
	return t.version
}

// Lookup returns the variant for (module, code), or Unknown when the
// table has no entry. It never fails: unknown codes are a supported
// answer, not an error.
func (t *Table) Lookup(module, code uint8) Variant {
	if t == nil {
		return Unknown
	}
	return t.entries[tableKey(module, code)]
}

// Has reports whether the table carries an entry for (module, code).
func (t *Table) Has(module, code uint8) bool {
	if t == nil {
		return false
	}
	_, ok := t.entries[tableKey(module, code)]
	return ok
}

// Entries returns the table's (module, code, variant) triples for
// tooling. The order is unspecified.
func (t *Table) Entries() []TableEntry {
	out := make([]TableEntry, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, TableEntry{
			Module:  uint8(k >> 8),
			Code:    uint8(k),
			Variant: v,
		})
	}
	return out
}

// TableEntry is one row of a status table, exposed for tooling.
type TableEntry struct {
	Module  uint8
	Code    uint8
	Variant Variant
}

// extend builds the next version's table from this one. A new version
// only ever adds entries: removing or renumbering one would silently
// change the meaning of status words already in the wild.
func (t *Table) extend(version uint8, added map[uint16]Variant) *Table {
	entries := make(map[uint16]Variant, len(t.entries)+len(added))
	for k, v := range t.entries {
		entries[k] = v
	}
	for k, v := range added {
		entries[k] = v
	}
	return &Table{version: version, entries: entries}
}

// tableV0 is the base surface.
var tableV0 = &Table{
	version: protocol.V0,
	entries: map[uint16]Variant{
		tableKey(protocol.ModuleBalances, CodeBelowMinimum):        BelowMinimum,
		tableKey(protocol.ModuleBalances, CodeFrozen):              Frozen,
		tableKey(protocol.ModuleBalances, CodeInsufficientBalance): InsufficientBalance,
		tableKey(protocol.ModuleBalances, CodeDeadAccount):         DeadAccount,

		tableKey(protocol.ModuleRegistry, CodeEntryNotFound): EntryNotFound,
		tableKey(protocol.ModuleRegistry, CodeStorageFull):   StorageFull,
	},
}

// tableV1 adds the codes the version 1 surface introduced.
var tableV1 = tableV0.extend(protocol.V1, map[uint16]Variant{
	tableKey(protocol.ModuleBalances, CodeTooManyHolds):  TooManyHolds,
	tableKey(protocol.ModuleRegistry, CodeValueTooLarge): ValueTooLarge,
})

// TableFor returns the table for a surface version. The second result
// is false for versions this build predates; callers translating a
// call outcome degrade to Unknown lookups rather than failing.
func TableFor(version uint8) (*Table, bool) {
	switch version {
	case protocol.V0:
		return tableV0, true
	case protocol.V1:
		return tableV1, true
	default:
		return nil, false
	}
}

// Latest returns the newest table this build carries.
func Latest() *Table {
	return tableV1
}

// Tables returns every table version this build carries, oldest first.
func Tables() []*Table {
	return []*Table{tableV0, tableV1}
}
