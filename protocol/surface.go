package protocol

// Module indices of the supported surface. The set is closed: new
// modules mean a new build, never runtime discovery.
const (
	ModuleHost     uint8 = 2  // environment metadata queries
	ModuleBalances uint8 = 7  // value transfers and balance queries
	ModuleRegistry uint8 = 11 // bounded key-value registry
)

// Function indices within each module.
const (
	HostFnAPIVersion  uint8 = 0
	HostFnBlockNumber uint8 = 1

	BalancesFnTransfer  uint8 = 0
	BalancesFnBalanceOf uint8 = 1

	RegistryFnGet uint8 = 0
	RegistryFnSet uint8 = 1
	RegistryFnHas uint8 = 2
)

// Version tags. V1 changed the transfer call shape (added the
// keep-alive flag); a changed shape always gets a new tag, the old tag
// keeps its old shape forever.
const (
	V0 uint8 = 0
	V1 uint8 = 1
)

// ModuleName names the known module indices for diagnostics.
func ModuleName(module uint8) string {
	switch module {
	case ModuleHost:
		return "host"
	case ModuleBalances:
		return "balances"
	case ModuleRegistry:
		return "registry"
	default:
		return "unknown"
	}
}
