package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"extcall/client"
	"extcall/protocol"
	"extcall/scale"
	"extcall/status"
)

// script is an ordered call sequence with per-step expectations.
//
//	steps:
//	  - call: balances.transfer
//	    dest: bbbb...bb
//	    value: 100
//	  - call: balances.transfer
//	    dest: bbbb...bb
//	    value: 999999
//	    expect: insufficient_balance
//	  - call: balances.balance_of
//	    account: bbbb...bb
//	    want: "100"
type script struct {
	Steps []step `yaml:"steps"`
}

// step names one call. Expect is the outcome classification ("ok" when
// empty, an error label otherwise); Want pins a query's result.
type step struct {
	Call      string `yaml:"call"`
	Dest      string `yaml:"dest,omitempty"`
	Account   string `yaml:"account,omitempty"`
	Value     uint64 `yaml:"value,omitempty"`
	KeepAlive bool   `yaml:"keep_alive,omitempty"`
	Key       string `yaml:"key,omitempty"`
	Data      string `yaml:"data,omitempty"`
	Expect    string `yaml:"expect,omitempty"`
	Want      string `yaml:"want,omitempty"`
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc script
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("script %s has no steps", path)
	}
	return &sc, nil
}

// runScript replays the steps against a fresh sandbox and reports one
// line per step. The returned error counts the failed expectations.
func runScript(w io.Writer, cfg simConfig, sc *script) error {
	box, err := buildSandbox(cfg)
	if err != nil {
		return err
	}
	c, err := client.New(box)
	if err != nil {
		return err
	}

	failed := 0
	for i, st := range sc.Steps {
		got, value, err := executeStep(c, st)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Call, err)
		}

		want := st.Expect
		if want == "" {
			want = "ok"
		}
		pass := got == want && (st.Want == "" || value == st.Want)

		mark := "pass"
		if !pass {
			mark = "FAIL"
			failed++
		}
		line := fmt.Sprintf("%s %2d %-28s %s", mark, i+1, st.Call, got)
		if value != "" {
			line += " = " + value
		}
		if !pass {
			line += fmt.Sprintf("  (want %s", want)
			if st.Want != "" {
				line += " = " + st.Want
			}
			line += ")"
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "%d steps, %d passed, %d failed\n", len(sc.Steps), len(sc.Steps)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(sc.Steps))
	}
	return nil
}

// executeStep issues one call. The error return is reserved for script
// problems (unknown call name, bad account hex); call outcomes come
// back as the classification string.
func executeStep(c *client.Client, st step) (got, value string, err error) {
	switch st.Call {
	case "host.api_version":
		v, err := c.ApiVersion()
		return classify(err), renderU32(v, err), nil

	case "host.block_number":
		v, err := c.BlockNumber()
		return classify(err), renderU32(v, err), nil

	case "balances.transfer", "balances.transfer_keep_alive":
		dest, err := parseAccount(st.Dest)
		if err != nil {
			return "", "", fmt.Errorf("dest: %w", err)
		}
		var callErr error
		if st.Call == "balances.transfer_keep_alive" || st.KeepAlive {
			callErr = c.TransferKeepAlive(dest, scale.U128From(st.Value))
		} else {
			callErr = c.Transfer(dest, scale.U128From(st.Value))
		}
		return classify(callErr), "", nil

	case "balances.balance_of":
		account, err := parseAccount(st.Account)
		if err != nil {
			return "", "", fmt.Errorf("account: %w", err)
		}
		balance, callErr := c.BalanceOf(account)
		if callErr != nil {
			return classify(callErr), "", nil
		}
		return "ok", balance.String(), nil

	case "registry.get":
		data, callErr := c.RegistryGet([]byte(st.Key))
		if callErr != nil {
			return classify(callErr), "", nil
		}
		return "ok", string(data), nil

	case "registry.set":
		callErr := c.RegistrySet([]byte(st.Key), []byte(st.Data))
		return classify(callErr), "", nil

	case "registry.has":
		ok, callErr := c.RegistryHas([]byte(st.Key))
		if callErr != nil {
			return classify(callErr), "", nil
		}
		return "ok", strconv.FormatBool(ok), nil

	default:
		return "", "", fmt.Errorf("unknown call %q", st.Call)
	}
}

// classify folds a call error into the label vocabulary scripts match
// against.
func classify(err error) string {
	if err == nil {
		return "ok"
	}
	var op *status.OperationFailed
	if errors.As(err, &op) {
		if op.Variant == status.Unknown {
			return fmt.Sprintf("unknown(%d)", op.Code)
		}
		return op.Variant.String()
	}
	var env *status.EnvironmentRejected
	if errors.As(err, &env) {
		return envLabel(env.Code)
	}
	var dec *status.DecodeError
	if errors.As(err, &dec) {
		return "decode_error"
	}
	return "error"
}

func envLabel(code uint8) string {
	switch code {
	case protocol.EnvUnknownCall:
		return "unknown_call"
	case protocol.EnvBadPayload:
		return "bad_payload"
	case protocol.EnvBudgetExhausted:
		return "budget_exhausted"
	case protocol.EnvDepthExceeded:
		return "depth_exceeded"
	default:
		return fmt.Sprintf("rejected(%d)", code)
	}
}

func renderU32(v uint32, err error) string {
	if err != nil {
		return ""
	}
	return strconv.FormatUint(uint64(v), 10)
}
