package client

import (
	"extcall/call"
	"extcall/protocol"
	"extcall/scale"
)

// transfer encodes the version 1 call shape: destination, value,
// keep-alive flag, in that order, no padding.
func (c *Client) transfer(op string, dest call.AccountID, value scale.U128, keepAlive bool) error {
	enc := scale.NewEncoder(len(dest) + 16 + 1)
	enc.PutRaw(dest[:])
	enc.PutU128(value)
	enc.PutBool(keepAlive)

	desc := call.NewDescriptor(protocol.ModuleBalances, protocol.BalancesFnTransfer, protocol.V1, enc.Bytes())
	out, err := c.send(desc)
	if err != nil {
		return err
	}
	return decodeUnit(op, protocol.V1, out)
}

// Transfer moves value from the calling context's account to dest.
// The source account may be emptied below the minimum and reaped.
func (c *Client) Transfer(dest call.AccountID, value scale.U128) error {
	return c.transfer("balances.transfer", dest, value, false)
}

// TransferKeepAlive moves value like Transfer but fails with a
// below-minimum error rather than letting the source drop under the
// minimum balance.
func (c *Client) TransferKeepAlive(dest call.AccountID, value scale.U128) error {
	return c.transfer("balances.transfer_keep_alive", dest, value, true)
}

// TransferV0 issues the version 0 transfer shape: destination and
// value only, no keep-alive flag.
//
// Deprecated: superseded by the version 1 shape. Kept while
// environments still serving surface version 0 remain deployed.
func (c *Client) TransferV0(dest call.AccountID, value scale.U128) error {
	enc := scale.NewEncoder(len(dest) + 16)
	enc.PutRaw(dest[:])
	enc.PutU128(value)

	desc := call.NewDescriptor(protocol.ModuleBalances, protocol.BalancesFnTransfer, protocol.V0, enc.Bytes())
	out, err := c.send(desc)
	if err != nil {
		return err
	}
	return decodeUnit("balances.transfer", protocol.V0, out)
}

// BalanceOf returns the free balance of an account. Accounts the
// environment has never seen report zero.
func (c *Client) BalanceOf(account call.AccountID) (scale.U128, error) {
	enc := scale.NewEncoder(len(account))
	enc.PutRaw(account[:])

	desc := call.NewDescriptor(protocol.ModuleBalances, protocol.BalancesFnBalanceOf, protocol.V0, enc.Bytes())
	out, err := c.send(desc)
	if err != nil {
		return scale.U128{}, err
	}
	return decodeU128("balances.balance_of", protocol.V0, out)
}
