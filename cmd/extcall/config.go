package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"extcall/call"
	"extcall/sandbox"
	"extcall/scale"
)

// simConfig is the TOML description of a sandbox for `extcall sim`.
// Accounts map 64-hex-digit account ids to balances; the simulator
// caps balances at 64 bits, plenty for scripted scenarios.
type simConfig struct {
	Environment    string            `toml:"environment"`
	APIVersion     uint32            `toml:"api_version"`
	Caller         string            `toml:"caller"`
	MinimumBalance uint64            `toml:"minimum_balance"`
	LogLevel       string            `toml:"log_level"`
	Accounts       map[string]uint64 `toml:"accounts"`
	Budget         budgetConfig      `toml:"budget"`
	Registry       registryConfig    `toml:"registry"`
}

type budgetConfig struct {
	RefillPerSecond float64 `toml:"refill_per_second"`
	Burst           int     `toml:"burst"`
}

type registryConfig struct {
	Capacity      int `toml:"capacity"`
	MaxValueBytes int `toml:"max_value_bytes"`
}

// defaultSimConfig is a single funded caller with no budget pressure.
func defaultSimConfig() simConfig {
	caller := hexAccount(0xAA)
	return simConfig{
		Environment:    "sim",
		APIVersion:     1,
		Caller:         caller,
		MinimumBalance: 1,
		LogLevel:       "disabled",
		Accounts:       map[string]uint64{caller: 1_000_000},
	}
}

// EnvLogLevel overrides the configured log level when set. It is
// applied last, so it wins over both the defaults and the file.
const EnvLogLevel = "EXTCALL_LOG_LEVEL"

// loadSimConfig reads a TOML config, overlaying the defaults field by
// field. An empty path means the defaults alone.
func loadSimConfig(path string) (simConfig, error) {
	cfg := defaultSimConfig()
	if path == "" {
		applyEnvOverrides(&cfg)
		return cfg, nil
	}

	var raw simConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return simConfig{}, fmt.Errorf("load sim config: %w", err)
	}

	if meta.IsDefined("environment") {
		cfg.Environment = raw.Environment
	}
	if meta.IsDefined("api_version") {
		cfg.APIVersion = raw.APIVersion
	}
	if meta.IsDefined("caller") {
		cfg.Caller = raw.Caller
	}
	if meta.IsDefined("minimum_balance") {
		cfg.MinimumBalance = raw.MinimumBalance
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	// A config that lists accounts replaces the default ledger; the
	// default caller keeps a balance only if listed again.
	if meta.IsDefined("accounts") {
		cfg.Accounts = raw.Accounts
	}
	if meta.IsDefined("budget") {
		cfg.Budget = raw.Budget
	}
	if meta.IsDefined("registry") {
		cfg.Registry = raw.Registry
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *simConfig) {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
}

// buildSandbox constructs the reference environment a script runs in.
func buildSandbox(cfg simConfig) (*sandbox.Sandbox, error) {
	caller, err := parseAccount(cfg.Caller)
	if err != nil {
		return nil, fmt.Errorf("caller: %w", err)
	}
	accounts := make(map[call.AccountID]scale.U128, len(cfg.Accounts))
	for acct, balance := range cfg.Accounts {
		id, err := parseAccount(acct)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acct, err)
		}
		accounts[id] = scale.U128From(balance)
	}

	s, err := sandbox.New(sandbox.Config{
		APIVersion:     cfg.APIVersion,
		Caller:         caller,
		MinimumBalance: scale.U128From(cfg.MinimumBalance),
		Accounts:       accounts,
		RegistryCap:    cfg.Registry.Capacity,
		MaxValueBytes:  cfg.Registry.MaxValueBytes,
		Budget: sandbox.Budget{
			RefillPerSecond: cfg.Budget.RefillPerSecond,
			Burst:           cfg.Budget.Burst,
		},
	})
	if err != nil {
		return nil, err
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.Disabled {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(lvl).With().Timestamp().Str("app", "extcall-sim").Logger()
		s.SetLogger(logger)
	}
	return s, nil
}

// parseAccount decodes a 64-hex-digit account id.
func parseAccount(s string) (call.AccountID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return call.AccountID{}, fmt.Errorf("account id is not hex: %w", err)
	}
	id, ok := call.AccountIDFromBytes(raw)
	if !ok {
		return call.AccountID{}, fmt.Errorf("account id is %d bytes, want 32", len(raw))
	}
	return id, nil
}

func hexAccount(fill byte) string {
	var id call.AccountID
	for i := range id {
		id[i] = fill
	}
	return hex.EncodeToString(id[:])
}
