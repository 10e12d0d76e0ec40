package manifest

import (
	"fmt"
	"sort"
	"strings"

	"extcall/status"
)

// Report lists the drift between a published surface and the one
// compiled into this client. Drift is advice for operators, never a
// runtime failure: calls into a drifted environment still produce
// well-defined results (environment rejections, Unknown variants).
type Report struct {
	// EnvironmentOnly lists published operations this client has no
	// encoder for. Callers cannot reach them through this build.
	EnvironmentOnly []string `json:"environment_only,omitempty"`
	// ClientOnly lists operations this client can issue that the
	// environment does not publish. Issuing one earns an environment
	// rejection.
	ClientOnly []string `json:"client_only,omitempty"`
	// UntranslatedCodes lists published error codes this client's
	// tables do not name. They surface as the Unknown variant.
	UntranslatedCodes []string `json:"untranslated_codes,omitempty"`
	// UnknownVersions lists published version tags this client has no
	// status table for. Translation of those calls degrades to Unknown.
	UnknownVersions []string `json:"unknown_versions,omitempty"`
}

// Clean reports whether the two surfaces agree exactly.
func (r *Report) Clean() bool {
	return len(r.EnvironmentOnly) == 0 &&
		len(r.ClientOnly) == 0 &&
		len(r.UntranslatedCodes) == 0 &&
		len(r.UnknownVersions) == 0
}

// String renders the report one finding per line, empty when clean.
func (r *Report) String() string {
	var b strings.Builder
	section := func(header string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", header)
		for _, l := range lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	section("published but not callable from this build", r.EnvironmentOnly)
	section("callable from this build but not published", r.ClientOnly)
	section("error codes translating to Unknown", r.UntranslatedCodes)
	section("version tags without a status table", r.UnknownVersions)
	return b.String()
}

// opKey identifies an operation by what the wire sees.
type opKey struct {
	module   uint8
	function uint8
	version  uint8
}

// Diff compares a published manifest against the built-in surface.
func Diff(m *Manifest) *Report {
	local := Builtin()
	localOps := opIndex(local)
	remoteOps := opIndex(m)

	r := &Report{}
	for key, name := range remoteOps {
		if _, ok := localOps[key]; !ok {
			r.EnvironmentOnly = append(r.EnvironmentOnly, name)
		}
	}
	for key, name := range localOps {
		if _, ok := remoteOps[key]; !ok {
			r.ClientOnly = append(r.ClientOnly, name)
		}
	}

	// Codes are judged against the newest table: if even that one
	// cannot name a published code, every caller sees Unknown.
	table := status.Latest()
	for _, mod := range m.Modules {
		for _, e := range mod.Errors {
			if !table.Has(mod.Index, e.Code) {
				r.UntranslatedCodes = append(r.UntranslatedCodes,
					fmt.Sprintf("%s code %d (%s)", mod.Name, e.Code, e.Name))
			}
		}
	}

	seen := make(map[uint8]bool)
	for _, mod := range m.Modules {
		for _, fn := range mod.Functions {
			for _, v := range fn.Versions {
				if seen[v] {
					continue
				}
				seen[v] = true
				if _, ok := status.TableFor(v); !ok {
					r.UnknownVersions = append(r.UnknownVersions, fmt.Sprintf("version %d", v))
				}
			}
		}
	}

	sort.Strings(r.EnvironmentOnly)
	sort.Strings(r.ClientOnly)
	sort.Strings(r.UntranslatedCodes)
	sort.Strings(r.UnknownVersions)
	return r
}

func opIndex(m *Manifest) map[opKey]string {
	ops := make(map[opKey]string)
	for _, mod := range m.Modules {
		for _, fn := range mod.Functions {
			for _, v := range fn.Versions {
				key := opKey{module: mod.Index, function: fn.Index, version: v}
				ops[key] = fmt.Sprintf("%s.%s v%d", mod.Name, fn.Name, v)
			}
		}
	}
	return ops
}
