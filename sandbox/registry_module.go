package sandbox

import (
	"extcall/protocol"
	"extcall/scale"
	"extcall/status"
)

// registryModule is the bounded key-value store. Both bounds are fixed
// at genesis: entry count (StorageFull) and per-value size
// (ValueTooLarge, reported since surface version 1).
//
// Values are copied on the way in and encoded fresh on the way out, so
// no caller ever holds a slice into the store.
type registryModule struct {
	capacity int
	maxValue int
	store    map[string][]byte
}

func newRegistryModule(cfg Config) *registryModule {
	capacity := cfg.RegistryCap
	if capacity == 0 {
		capacity = DefaultRegistryCap
	}
	maxValue := cfg.MaxValueBytes
	if maxValue == 0 {
		maxValue = DefaultMaxValueBytes
	}
	return &registryModule{
		capacity: capacity,
		maxValue: maxValue,
		store:    make(map[string][]byte),
	}
}

func (m *registryModule) Index() uint8 {
	return protocol.ModuleRegistry
}

func (m *registryModule) Name() string {
	return "registry"
}

func (m *registryModule) Weight(function uint8) int {
	if function == protocol.RegistryFnSet {
		return 3
	}
	return 1
}

func (m *registryModule) Handle(function, version uint8, args *scale.Decoder) ([]byte, error) {
	switch {
	case function == protocol.RegistryFnGet && version == protocol.V0:
		key, err := keyArg(args)
		if err != nil {
			return nil, err
		}
		value, ok := m.store[key]
		if !ok {
			return nil, faultErr(status.CodeEntryNotFound)
		}
		enc := scale.NewEncoder(len(value) + 4)
		if err := enc.PutBytes(value); err != nil {
			return nil, err
		}
		return enc.Bytes(), nil

	// Set kept its shape at version 1; only the value-size fault is new.
	case function == protocol.RegistryFnSet && (version == protocol.V0 || version == protocol.V1):
		key, err := args.Bytes()
		if err != nil {
			return nil, err
		}
		value, err := args.Bytes()
		if err != nil {
			return nil, err
		}
		if err := args.Finish(); err != nil {
			return nil, err
		}
		if len(value) > m.maxValue {
			return nil, faultErr(status.CodeValueTooLarge)
		}
		if _, exists := m.store[string(key)]; !exists && len(m.store) >= m.capacity {
			return nil, faultErr(status.CodeStorageFull)
		}
		// The decoded slices alias the caller's payload; the store
		// keeps its own copy.
		m.store[string(key)] = append([]byte(nil), value...)
		return nil, nil

	case function == protocol.RegistryFnHas && version == protocol.V0:
		key, err := keyArg(args)
		if err != nil {
			return nil, err
		}
		_, ok := m.store[key]
		enc := scale.NewEncoder(1)
		enc.PutBool(ok)
		return enc.Bytes(), nil

	default:
		return nil, ErrNoFunction
	}
}

func keyArg(args *scale.Decoder) (string, error) {
	key, err := args.Bytes()
	if err != nil {
		return "", err
	}
	if err := args.Finish(); err != nil {
		return "", err
	}
	return string(key), nil
}
