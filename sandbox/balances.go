package sandbox

import (
	"extcall/call"
	"extcall/protocol"
	"extcall/scale"
	"extcall/status"
)

// balancesModule keeps the reference ledger. The total issuance is
// fixed at genesis and only ever shrinks (reaped dust leaves the
// ledger), so per-account additions can never overflow.
//
// Transfer rules, checked in order:
//
//  1. a frozen source faults with Frozen
//  2. a source short of the value faults with InsufficientBalance
//  3. keep-alive transfers that would drop the source under the
//     minimum fault with BelowMinimum
//  4. transfers that cannot create the destination (value under the
//     minimum, no existing balance) fault with DeadAccount
//
// A plain transfer may drop the source under the minimum; the account
// is then reaped and its dust leaves the ledger.
type balancesModule struct {
	caller   call.AccountID
	minimum  scale.U128
	accounts map[call.AccountID]scale.U128
	frozen   map[call.AccountID]bool
}

func newBalancesModule(cfg Config) (*balancesModule, error) {
	accounts := make(map[call.AccountID]scale.U128, len(cfg.Accounts))
	total := scale.U128{}
	for acct, bal := range cfg.Accounts {
		var over bool
		if total, over = total.Add(bal); over {
			return nil, ErrGenesisOverflow
		}
		accounts[acct] = bal
	}
	return &balancesModule{
		caller:   cfg.Caller,
		minimum:  cfg.MinimumBalance,
		accounts: accounts,
		frozen:   make(map[call.AccountID]bool),
	}, nil
}

func (m *balancesModule) Index() uint8 {
	return protocol.ModuleBalances
}

func (m *balancesModule) Name() string {
	return "balances"
}

func (m *balancesModule) Weight(function uint8) int {
	if function == protocol.BalancesFnTransfer {
		return 5
	}
	return 1
}

func (m *balancesModule) Handle(function, version uint8, args *scale.Decoder) ([]byte, error) {
	switch {
	case function == protocol.BalancesFnTransfer && version == protocol.V0:
		dest, value, err := m.transferArgs(args)
		if err != nil {
			return nil, err
		}
		if err := args.Finish(); err != nil {
			return nil, err
		}
		return nil, m.transfer(dest, value, false)

	case function == protocol.BalancesFnTransfer && version == protocol.V1:
		dest, value, err := m.transferArgs(args)
		if err != nil {
			return nil, err
		}
		keepAlive, err := args.Bool()
		if err != nil {
			return nil, err
		}
		if err := args.Finish(); err != nil {
			return nil, err
		}
		return nil, m.transfer(dest, value, keepAlive)

	case function == protocol.BalancesFnBalanceOf && version == protocol.V0:
		account, err := accountArg(args)
		if err != nil {
			return nil, err
		}
		if err := args.Finish(); err != nil {
			return nil, err
		}
		enc := scale.NewEncoder(16)
		enc.PutU128(m.balance(account))
		return enc.Bytes(), nil

	default:
		return nil, ErrNoFunction
	}
}

// transferArgs decodes the destination and value, the prefix shared by
// both transfer versions. Finish stays with Handle, which knows where
// each version's shape ends.
func (m *balancesModule) transferArgs(args *scale.Decoder) (call.AccountID, scale.U128, error) {
	dest, err := accountArg(args)
	if err != nil {
		return call.AccountID{}, scale.U128{}, err
	}
	value, err := args.U128()
	if err != nil {
		return call.AccountID{}, scale.U128{}, err
	}
	return dest, value, nil
}

func accountArg(args *scale.Decoder) (call.AccountID, error) {
	raw, err := args.Raw(32)
	if err != nil {
		return call.AccountID{}, err
	}
	account, _ := call.AccountIDFromBytes(raw)
	return account, nil
}

func (m *balancesModule) transfer(dest call.AccountID, value scale.U128, keepAlive bool) error {
	if value.IsZero() {
		return nil
	}
	if m.frozen[m.caller] {
		return faultErr(status.CodeFrozen)
	}

	source := m.balance(m.caller)
	remaining, short := source.Sub(value)
	if short {
		return faultErr(status.CodeInsufficientBalance)
	}
	// A self-transfer settles back to the starting state once the
	// checks above pass; applying it would double-count the value.
	if dest == m.caller {
		return nil
	}
	if keepAlive && remaining.Cmp(m.minimum) < 0 {
		return faultErr(status.CodeBelowMinimum)
	}

	destBal := m.balance(dest)
	if destBal.IsZero() && value.Cmp(m.minimum) < 0 {
		return faultErr(status.CodeDeadAccount)
	}

	// Apply. A source left under the minimum is reaped; the dust
	// leaves the ledger.
	if remaining.IsZero() || remaining.Cmp(m.minimum) < 0 {
		delete(m.accounts, m.caller)
	} else {
		m.accounts[m.caller] = remaining
	}
	newDest, _ := destBal.Add(value)
	m.accounts[dest] = newDest
	return nil
}

func (m *balancesModule) balance(account call.AccountID) scale.U128 {
	return m.accounts[account]
}

func (m *balancesModule) freeze(account call.AccountID) {
	m.frozen[account] = true
}
