package main

import (
	"bytes"
	"strings"
	"testing"

	"extcall/protocol"
	"extcall/scale"
	"extcall/status"
)

func TestRunScriptHappyPath(t *testing.T) {
	bob := hexAccount(0xBB)
	path := writeTemp(t, "script.yaml", `
steps:
  - call: host.api_version
    want: "1"
  - call: balances.transfer
    dest: `+bob+`
    value: 250
  - call: balances.balance_of
    account: `+bob+`
    want: "250"
  - call: balances.transfer
    dest: `+bob+`
    value: 99999999
    expect: insufficient_balance
  - call: registry.set
    key: color
    data: green
  - call: registry.get
    key: color
    want: green
  - call: registry.has
    key: shape
    want: "false"
`)

	sc, err := loadScript(path)
	if err != nil {
		t.Fatalf("loadScript failed: %v", err)
	}

	var out bytes.Buffer
	if err := runScript(&out, defaultSimConfig(), sc); err != nil {
		t.Fatalf("runScript failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "7 steps, 7 passed, 0 failed") {
		t.Errorf("summary mismatch:\n%s", out.String())
	}
}

func TestRunScriptReportsFailedExpectation(t *testing.T) {
	path := writeTemp(t, "script.yaml", `
steps:
  - call: host.api_version
    want: "1"
  - call: registry.get
    key: never-set
`)

	sc, err := loadScript(path)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err = runScript(&out, defaultSimConfig(), sc)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 steps failed") {
		t.Fatalf("failure count mismatch: %v", err)
	}
	if !strings.Contains(out.String(), "FAIL") || !strings.Contains(out.String(), "entry_not_found") {
		t.Errorf("output missing failure detail:\n%s", out.String())
	}
}

func TestRunScriptFreshStatePerRun(t *testing.T) {
	bob := hexAccount(0xBB)
	path := writeTemp(t, "script.yaml", `
steps:
  - call: balances.transfer
    dest: `+bob+`
    value: 100
  - call: balances.balance_of
    account: `+bob+`
    want: "100"
`)

	sc, err := loadScript(path)
	if err != nil {
		t.Fatal(err)
	}

	// The balance assertion only holds if each run starts from genesis.
	for run := 0; run < 2; run++ {
		var out bytes.Buffer
		if err := runScript(&out, defaultSimConfig(), sc); err != nil {
			t.Fatalf("run %d failed: %v\n%s", run+1, err, out.String())
		}
	}
}

func TestRunScriptUnknownCallIsScriptError(t *testing.T) {
	path := writeTemp(t, "script.yaml", `
steps:
  - call: balances.mint
    value: 100
`)

	sc, err := loadScript(path)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err = runScript(&out, defaultSimConfig(), sc)
	if err == nil || !strings.Contains(err.Error(), "unknown call") {
		t.Errorf("unknown call error mismatch: %v", err)
	}
}

func TestLoadScriptRejectsUnknownField(t *testing.T) {
	path := writeTemp(t, "script.yaml", `
steps:
  - call: host.api_version
    timeout: 5s
`)
	if _, err := loadScript(path); err == nil {
		t.Error("unknown step field should fail to parse")
	}
}

func TestLoadScriptRejectsEmpty(t *testing.T) {
	path := writeTemp(t, "script.yaml", "steps: []\n")
	if _, err := loadScript(path); err == nil || !strings.Contains(err.Error(), "no steps") {
		t.Errorf("empty script error mismatch: %v", err)
	}
}

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{
			"known variant",
			&status.OperationFailed{Module: protocol.ModuleBalances, Code: status.CodeInsufficientBalance, Variant: status.InsufficientBalance},
			"insufficient_balance",
		},
		{
			"unknown code keeps the number",
			&status.OperationFailed{Module: protocol.ModuleBalances, Code: 200},
			"unknown(200)",
		},
		{
			"environment rejection",
			&status.EnvironmentRejected{Code: protocol.EnvBudgetExhausted},
			"budget_exhausted",
		},
		{
			"decode error",
			&status.DecodeError{Op: "host.api_version", Err: scale.ErrShortBuffer},
			"decode_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify mismatch: got %q, want %q", got, tt.want)
			}
		})
	}
}
