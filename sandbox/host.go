package sandbox

import (
	"extcall/protocol"
	"extcall/scale"
)

// hostModule answers environment metadata queries. It owns no state of
// its own; the block counter lives on the sandbox.
type hostModule struct {
	apiVersion uint32
	block      *uint32
}

func newHostModule(apiVersion uint32, block *uint32) *hostModule {
	return &hostModule{apiVersion: apiVersion, block: block}
}

func (m *hostModule) Index() uint8 {
	return protocol.ModuleHost
}

func (m *hostModule) Name() string {
	return "host"
}

func (m *hostModule) Weight(function uint8) int {
	return 1
}

func (m *hostModule) Handle(function, version uint8, args *scale.Decoder) ([]byte, error) {
	if version != protocol.V0 {
		return nil, ErrNoFunction
	}

	var value uint32
	switch function {
	case protocol.HostFnAPIVersion:
		value = m.apiVersion
	case protocol.HostFnBlockNumber:
		value = *m.block
	default:
		return nil, ErrNoFunction
	}

	// Both queries take no arguments.
	if err := args.Finish(); err != nil {
		return nil, err
	}

	enc := scale.NewEncoder(4)
	enc.PutU32(value)
	return enc.Bytes(), nil
}
