// Package sandbox is an in-memory reference environment for the
// extension-call boundary. Tests and local tooling run real calls
// against it; it is a stand-in for the host environment, not a
// production one.
//
// Invoke pipeline, in order:
//
//	parse identifier → find module → charge budget → decode args
//	  → run handler → map result to a status word
//
// A failure at any stage short-circuits the rest. Stages one to three
// fail with environment-class status words; the handler fails with
// operation-class words carrying its module's codes.
//
// The sandbox serializes calls with one mutex, the way the real
// boundary admits one outstanding call per context. It never retains a
// caller's payload and never hands out a slice aliasing its own state.
package sandbox

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"extcall/call"
	"extcall/protocol"
	"extcall/scale"
)

// Budget models the per-context execution budget as a token bucket:
// each call costs its operation's weight, the bucket refills at
// RefillPerSecond and never holds more than Burst.
type Budget struct {
	RefillPerSecond float64
	Burst           int
}

// Config fixes the sandbox's genesis state. The zero value is usable:
// empty ledger, zero caller, unlimited budget.
type Config struct {
	APIVersion     uint32                         // reported by host.api_version
	Caller         call.AccountID                 // the calling context's account
	MinimumBalance scale.U128                     // existential minimum for accounts
	Accounts       map[call.AccountID]scale.U128  // genesis balances
	RegistryCap    int                            // max registry entries, 0 = DefaultRegistryCap
	MaxValueBytes  int                            // per-entry value cap, 0 = DefaultMaxValueBytes
	Budget         Budget                         // zero = unlimited
}

const (
	DefaultRegistryCap   = 128
	DefaultMaxValueBytes = 4096
)

var (
	ErrDuplicateModule = errors.New("sandbox: module index already registered")
	ErrGenesisOverflow = errors.New("sandbox: genesis balances overflow the total issuance")
)

// Sandbox implements dispatch.Runtime over registered modules.
type Sandbox struct {
	mu      sync.Mutex
	modules map[uint8]Module
	limiter *rate.Limiter
	log     zerolog.Logger

	block    uint32
	balances *balancesModule
}

// New builds a sandbox with the standard surface registered: host,
// balances, and registry modules.
func New(cfg Config) (*Sandbox, error) {
	s := &Sandbox{
		modules: make(map[uint8]Module),
		log:     zerolog.Nop(),
		block:   1,
	}

	if cfg.Budget == (Budget{}) {
		s.limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Budget.RefillPerSecond), cfg.Budget.Burst)
	}

	balances, err := newBalancesModule(cfg)
	if err != nil {
		return nil, err
	}
	s.balances = balances

	for _, m := range []Module{
		newHostModule(cfg.APIVersion, &s.block),
		balances,
		newRegistryModule(cfg),
	} {
		if err := s.Register(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a module to the surface. Module indices are unique;
// registering the same index twice is a configuration error, not an
// override.
func (s *Sandbox) Register(m Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.modules[m.Index()]; ok {
		return fmt.Errorf("%w: %d (%s)", ErrDuplicateModule, m.Index(), m.Name())
	}
	s.modules[m.Index()] = m
	return nil
}

// SetLogger enables structured logging of every invoke. The sandbox is
// silent by default; the core call layer never logs at all, so this is
// the one place dispatch activity becomes observable.
func (s *Sandbox) SetLogger(logger zerolog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = logger
}

// Invoke is the boundary primitive. It blocks, runs at most one call
// at a time, and always returns a well-formed outcome; no input can
// panic it.
func (s *Sandbox) Invoke(id uint32, payload []byte) call.RawOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.log.With().Str("exec_id", uuid.NewString()).Logger()
	logger.Debug().
		Uint32("id", id).
		Int("payload_bytes", len(payload)).
		Msg("invoke")

	out := s.invokeLocked(id, payload, logger)

	logger.Debug().
		Uint32("status", out.Status).
		Int("result_bytes", len(out.Payload)).
		Msg("outcome")
	return out
}

func (s *Sandbox) invokeLocked(id uint32, payload []byte, logger zerolog.Logger) call.RawOutcome {
	// Stage 1: the identifier must parse and name a registered module.
	// The environment does not distinguish malformed from unknown; both
	// are calls its surface does not contain.
	cid, err := protocol.ParseID(id)
	if err != nil {
		return call.FailOutcome(protocol.EnvStatus(protocol.EnvUnknownCall), nil)
	}
	module, ok := s.modules[cid.Module]
	if !ok {
		return call.FailOutcome(protocol.EnvStatus(protocol.EnvUnknownCall), nil)
	}

	// Stage 2: charge the call's weight before running anything.
	weight := module.Weight(cid.Function)
	if !s.limiter.AllowN(time.Now(), weight) {
		logger.Warn().
			Str("module", module.Name()).
			Int("weight", weight).
			Msg("budget exhausted")
		return call.FailOutcome(protocol.EnvStatus(protocol.EnvBudgetExhausted), nil)
	}

	// Stage 3: run the handler over a fresh decoder.
	result, err := module.Handle(cid.Function, cid.Version, scale.NewDecoder(payload))
	if err == nil {
		return call.OkOutcome(result)
	}

	// Stage 4: classify the handler's failure.
	var fault *Fault
	switch {
	case errors.As(err, &fault):
		logger.Debug().
			Str("module", module.Name()).
			Uint8("code", fault.Code).
			Msg("operation fault")
		return call.FailOutcome(protocol.OpStatus(module.Index(), fault.Code), nil)
	case errors.Is(err, ErrNoFunction):
		return call.FailOutcome(protocol.EnvStatus(protocol.EnvUnknownCall), nil)
	default:
		// Anything else out of a handler is an argument decode failure.
		logger.Debug().
			Str("module", module.Name()).
			Err(err).
			Msg("bad payload")
		return call.FailOutcome(protocol.EnvStatus(protocol.EnvBadPayload), nil)
	}
}

// AdvanceBlock moves the sandbox to the next block. Only the
// host.block_number result observes it.
func (s *Sandbox) AdvanceBlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.block++
}

// Balance reads an account's balance directly, for tests and tooling.
// Accounts the ledger has never seen read as zero.
func (s *Sandbox) Balance(account call.AccountID) scale.U128 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances.balance(account)
}

// Freeze marks an account so transfers out of it fault with the frozen
// code. For tests and tooling.
func (s *Sandbox) Freeze(account call.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances.freeze(account)
}
