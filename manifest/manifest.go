// Package manifest reads and checks published call surfaces.
//
// An environment describes what it serves as a YAML document: its
// modules, their functions with the shape versions each accepts, and
// the error codes each module can report. The document is tooling
// input. Nothing here runs on the call path; the boundary stays
// byte-only and the client's surface stays fixed at build time.
//
//	environment: staging
//	modules:
//	  - index: 7
//	    name: balances
//	    functions:
//	      - {index: 0, name: transfer, versions: [0, 1]}
//	    errors:
//	      - {code: 3, name: insufficient_balance}
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"extcall/protocol"
	"extcall/status"
)

// Manifest is one environment's published call surface.
type Manifest struct {
	Environment string   `yaml:"environment" json:"environment"`
	Modules     []Module `yaml:"modules" json:"modules"`
}

// Module is one extension module entry.
type Module struct {
	Index     uint8      `yaml:"index" json:"index"`
	Name      string     `yaml:"name" json:"name"`
	Functions []Function `yaml:"functions" json:"functions"`
	Errors    []Error    `yaml:"errors,omitempty" json:"errors,omitempty"`
}

// Function names one callable function and the shape versions the
// environment accepts for it.
type Function struct {
	Index    uint8   `yaml:"index" json:"index"`
	Name     string  `yaml:"name" json:"name"`
	Versions []uint8 `yaml:"versions" json:"versions"`
}

// Error is one module-scoped error code the environment can report.
// Since carries the surface version that introduced the code.
type Error struct {
	Code  uint8  `yaml:"code" json:"code"`
	Name  string `yaml:"name" json:"name"`
	Since uint8  `yaml:"since,omitempty" json:"since,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest document. Unknown fields are rejected: a
// field this version does not understand is more likely a typo than a
// future extension, and a manifest is small enough to keep clean.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the structural rules every manifest must satisfy:
// unique module indexes, unique function indexes per module, at least
// one version per function, unique nonzero error codes per module.
// Code zero is reserved: the zero status word means success.
func (m *Manifest) Validate() error {
	moduleSeen := make(map[uint8]bool, len(m.Modules))
	for _, mod := range m.Modules {
		if mod.Name == "" {
			return fmt.Errorf("module %d: missing name", mod.Index)
		}
		if moduleSeen[mod.Index] {
			return fmt.Errorf("duplicate module index %d", mod.Index)
		}
		moduleSeen[mod.Index] = true

		fnSeen := make(map[uint8]bool, len(mod.Functions))
		for _, fn := range mod.Functions {
			if fn.Name == "" {
				return fmt.Errorf("module %s: function %d: missing name", mod.Name, fn.Index)
			}
			if fnSeen[fn.Index] {
				return fmt.Errorf("module %s: duplicate function index %d", mod.Name, fn.Index)
			}
			fnSeen[fn.Index] = true
			if len(fn.Versions) == 0 {
				return fmt.Errorf("module %s: function %s: no versions", mod.Name, fn.Name)
			}
			verSeen := make(map[uint8]bool, len(fn.Versions))
			for _, v := range fn.Versions {
				if verSeen[v] {
					return fmt.Errorf("module %s: function %s: duplicate version %d", mod.Name, fn.Name, v)
				}
				verSeen[v] = true
			}
		}

		codeSeen := make(map[uint8]bool, len(mod.Errors))
		for _, e := range mod.Errors {
			if e.Code == 0 {
				return fmt.Errorf("module %s: error code 0 is reserved for success", mod.Name)
			}
			if codeSeen[e.Code] {
				return fmt.Errorf("module %s: duplicate error code %d", mod.Name, e.Code)
			}
			codeSeen[e.Code] = true
		}
	}
	return nil
}

// Builtin renders the surface compiled into this client as a manifest,
// error codes included. Diffing an environment's manifest against it
// shows drift in either direction.
func Builtin() *Manifest {
	return &Manifest{
		Environment: "builtin",
		Modules: []Module{
			{
				Index: protocol.ModuleHost,
				Name:  protocol.ModuleName(protocol.ModuleHost),
				Functions: []Function{
					{Index: protocol.HostFnAPIVersion, Name: "api_version", Versions: []uint8{protocol.V0}},
					{Index: protocol.HostFnBlockNumber, Name: "block_number", Versions: []uint8{protocol.V0}},
				},
			},
			{
				Index: protocol.ModuleBalances,
				Name:  protocol.ModuleName(protocol.ModuleBalances),
				Functions: []Function{
					{Index: protocol.BalancesFnTransfer, Name: "transfer", Versions: []uint8{protocol.V0, protocol.V1}},
					{Index: protocol.BalancesFnBalanceOf, Name: "balance_of", Versions: []uint8{protocol.V0}},
				},
				Errors: builtinErrors(protocol.ModuleBalances),
			},
			{
				Index: protocol.ModuleRegistry,
				Name:  protocol.ModuleName(protocol.ModuleRegistry),
				Functions: []Function{
					{Index: protocol.RegistryFnGet, Name: "get", Versions: []uint8{protocol.V0}},
					{Index: protocol.RegistryFnSet, Name: "set", Versions: []uint8{protocol.V0, protocol.V1}},
					{Index: protocol.RegistryFnHas, Name: "has", Versions: []uint8{protocol.V0}},
				},
				Errors: builtinErrors(protocol.ModuleRegistry),
			},
		},
	}
}

// builtinErrors collects one module's rows from the newest status
// table, with Since set to the oldest table that already carried the
// code.
func builtinErrors(module uint8) []Error {
	var out []Error
	for _, entry := range status.Latest().Entries() {
		if entry.Module != module {
			continue
		}
		out = append(out, Error{
			Code:  entry.Code,
			Name:  entry.Variant.String(),
			Since: codeSince(module, entry.Code),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func codeSince(module, code uint8) uint8 {
	for _, t := range status.Tables() {
		if t.Has(module, code) {
			return t.Version()
		}
	}
	return status.Latest().Version()
}
