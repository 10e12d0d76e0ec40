package client

import (
	"extcall/call"
	"extcall/protocol"
)

// ApiVersion returns the environment's extension API version.
func (c *Client) ApiVersion() (uint32, error) {
	desc := call.NewDescriptor(protocol.ModuleHost, protocol.HostFnAPIVersion, protocol.V0, nil)
	out, err := c.send(desc)
	if err != nil {
		return 0, err
	}
	return decodeU32("host.api_version", protocol.V0, out)
}

// BlockNumber returns the number of the block the call executes in.
func (c *Client) BlockNumber() (uint32, error) {
	desc := call.NewDescriptor(protocol.ModuleHost, protocol.HostFnBlockNumber, protocol.V0, nil)
	out, err := c.send(desc)
	if err != nil {
		return 0, err
	}
	return decodeU32("host.block_number", protocol.V0, out)
}
