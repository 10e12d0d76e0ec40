package client

import (
	"testing"

	"extcall/call"
	"extcall/protocol"
	"extcall/sandbox"
	"extcall/scale"
	"extcall/status"
)

func setupBenchClient(b *testing.B) *Client {
	b.Helper()
	alice := testAccount(0xAA)
	box, err := sandbox.New(sandbox.Config{
		Caller:         alice,
		MinimumBalance: scale.U128From(1),
		Accounts: map[call.AccountID]scale.U128{
			alice: scale.U128From(1 << 62),
		},
	})
	if err != nil {
		b.Fatal(err)
	}
	c, err := New(box)
	if err != nil {
		b.Fatal(err)
	}
	return c
}

// Full pipeline, one goroutine. Zero-value transfers keep the ledger
// unchanged across b.N iterations.
func BenchmarkTransferSerial(b *testing.B) {
	c := setupBenchClient(b)
	bob := testAccount(0xBB)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Transfer(bob, scale.U128{}); err != nil {
			b.Fatal(err)
		}
	}
}

// Full pipeline under contention: the environment serializes invokes,
// so this measures the boundary as callers actually share it.
func BenchmarkTransferParallel(b *testing.B) {
	c := setupBenchClient(b)
	bob := testAccount(0xBB)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := c.Transfer(bob, scale.U128{}); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// Query path: encode, dispatch, decode a 16-byte payload.
func BenchmarkBalanceOf(b *testing.B) {
	c := setupBenchClient(b)
	alice := testAccount(0xAA)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.BalanceOf(alice); err != nil {
			b.Fatal(err)
		}
	}
}

// Argument encoding alone, no boundary crossing.
func BenchmarkEncodeTransferArgs(b *testing.B) {
	dest := testAccount(0xBB)
	value := scale.U128From(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		enc := scale.NewEncoder(49)
		enc.PutRaw(dest[:])
		enc.PutU128(value)
		enc.PutBool(false)
		_ = enc.Bytes()
	}
}

// Status translation alone: parse the word, look up the table.
func BenchmarkTranslateFailure(b *testing.B) {
	out := call.FailOutcome(protocol.OpStatus(protocol.ModuleBalances, status.CodeInsufficientBalance), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := status.Translate("balances.transfer", protocol.V1, out); err == nil {
			b.Fatal("translation should fail")
		}
	}
}
