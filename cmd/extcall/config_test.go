package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"extcall/protocol"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultSimConfigBuilds(t *testing.T) {
	cfg := defaultSimConfig()
	box, err := buildSandbox(cfg)
	if err != nil {
		t.Fatalf("default config should build: %v", err)
	}

	caller, err := parseAccount(cfg.Caller)
	if err != nil {
		t.Fatalf("default caller should parse: %v", err)
	}
	if got := box.Balance(caller); got.String() != "1000000" {
		t.Errorf("default caller balance mismatch: got %s", got)
	}
}

func TestLoadSimConfigOverlay(t *testing.T) {
	bob := hexAccount(0xBB)
	path := writeTemp(t, "sim.toml", `
environment = "test"
api_version = 9
minimum_balance = 25

[accounts]
`+bob+` = 4000

[budget]
refill_per_second = 2.5
burst = 10

[registry]
capacity = 3
`)

	cfg, err := loadSimConfig(path)
	if err != nil {
		t.Fatalf("loadSimConfig failed: %v", err)
	}
	if cfg.Environment != "test" || cfg.APIVersion != 9 || cfg.MinimumBalance != 25 {
		t.Errorf("scalar overlay mismatch: %+v", cfg)
	}
	// Listing accounts replaces the default ledger wholesale.
	if len(cfg.Accounts) != 1 || cfg.Accounts[bob] != 4000 {
		t.Errorf("accounts overlay mismatch: %+v", cfg.Accounts)
	}
	// Untouched fields keep their defaults.
	if cfg.Caller != defaultSimConfig().Caller {
		t.Errorf("caller should keep its default, got %s", cfg.Caller)
	}
	if cfg.Budget.Burst != 10 || cfg.Registry.Capacity != 3 {
		t.Errorf("section overlay mismatch: %+v %+v", cfg.Budget, cfg.Registry)
	}
}

func TestLoadSimConfigMissingFile(t *testing.T) {
	if _, err := loadSimConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing config file should fail")
	}
}

func TestEnvOverridesLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")

	// The env var wins over the defaults and over the file.
	cfg, err := loadSimConfig("")
	if err != nil {
		t.Fatalf("loadSimConfig failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("env override missed defaults path: got %s", cfg.LogLevel)
	}

	path := writeTemp(t, "sim.toml", `log_level = "warn"`)
	cfg, err = loadSimConfig(path)
	if err != nil {
		t.Fatalf("loadSimConfig failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("env override missed file path: got %s", cfg.LogLevel)
	}
}

func TestBuildSandboxRejectsBadAccounts(t *testing.T) {
	cfg := defaultSimConfig()
	cfg.Caller = "not-hex"
	if _, err := buildSandbox(cfg); err == nil {
		t.Error("malformed caller should fail")
	}

	cfg = defaultSimConfig()
	cfg.Accounts = map[string]uint64{"abcd": 1}
	if _, err := buildSandbox(cfg); err == nil {
		t.Error("short account id should fail")
	}
}

func TestParseAccount(t *testing.T) {
	id, err := parseAccount(hexAccount(0xCD))
	if err != nil {
		t.Fatalf("parseAccount failed: %v", err)
	}
	if id[0] != 0xCD || id[31] != 0xCD {
		t.Errorf("decoded bytes mismatch: %x", id[:])
	}

	if _, err := parseAccount("abcd"); err == nil || !strings.Contains(err.Error(), "32") {
		t.Errorf("short id error mismatch: %v", err)
	}
	if _, err := parseAccount("zz"); err == nil {
		t.Error("non-hex id should fail")
	}
}

func TestBudgetConfigReachesSandbox(t *testing.T) {
	cfg := defaultSimConfig()
	cfg.Budget = budgetConfig{RefillPerSecond: 0.0001, Burst: 3}

	box, err := buildSandbox(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Three weight-1 host calls drain the budget; the fourth bounces.
	id := protocol.ID(protocol.ModuleHost, protocol.HostFnAPIVersion, protocol.V0)
	for i := 0; i < 3; i++ {
		if out := box.Invoke(id, nil); !out.Ok() {
			t.Fatalf("call %d should pass: %#x", i+1, out.Status)
		}
	}
	out := box.Invoke(id, nil)
	if out.Status != protocol.EnvStatus(protocol.EnvBudgetExhausted) {
		t.Errorf("budget should be exhausted: got %#x", out.Status)
	}
}
