package client

import (
	"fmt"

	"extcall/call"
	"extcall/protocol"
	"extcall/scale"
)

// RegistryGet returns the value stored under key. A missing key is an
// entry-not-found operation failure, not an empty value.
func (c *Client) RegistryGet(key []byte) ([]byte, error) {
	enc := scale.NewEncoder(len(key) + 4)
	if err := enc.PutBytes(key); err != nil {
		return nil, fmt.Errorf("encode registry.get args: %w", err)
	}

	desc := call.NewDescriptor(protocol.ModuleRegistry, protocol.RegistryFnGet, protocol.V0, enc.Bytes())
	out, err := c.send(desc)
	if err != nil {
		return nil, err
	}
	return decodeBytes("registry.get", protocol.V0, out)
}

// RegistrySet stores value under key, overwriting any previous value.
// The call shape is unchanged since version 0; the version 1 tag marks
// the added value-size failure mode.
func (c *Client) RegistrySet(key, value []byte) error {
	enc := scale.NewEncoder(len(key) + len(value) + 8)
	if err := enc.PutBytes(key); err != nil {
		return fmt.Errorf("encode registry.set args: %w", err)
	}
	if err := enc.PutBytes(value); err != nil {
		return fmt.Errorf("encode registry.set args: %w", err)
	}

	desc := call.NewDescriptor(protocol.ModuleRegistry, protocol.RegistryFnSet, protocol.V1, enc.Bytes())
	out, err := c.send(desc)
	if err != nil {
		return err
	}
	return decodeUnit("registry.set", protocol.V1, out)
}

// RegistryHas reports whether any value is stored under key.
func (c *Client) RegistryHas(key []byte) (bool, error) {
	enc := scale.NewEncoder(len(key) + 4)
	if err := enc.PutBytes(key); err != nil {
		return false, fmt.Errorf("encode registry.has args: %w", err)
	}

	desc := call.NewDescriptor(protocol.ModuleRegistry, protocol.RegistryFnHas, protocol.V0, enc.Bytes())
	out, err := c.send(desc)
	if err != nil {
		return false, err
	}
	return decodeBool("registry.has", protocol.V0, out)
}
