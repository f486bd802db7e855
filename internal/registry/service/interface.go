package service

// Capability identifiers answered by SupportsInterface. The values follow
// the established selector convention for asset registries so off-the-shelf
// tooling can probe them.
const (
	InterfaceAssetOwnership uint32 = 0x80ac58cd
	InterfaceRoyalty        uint32 = 0x2a55205a
	InterfaceMetadata       uint32 = 0x5b5e139f
)

// SupportsInterface reports whether the registry implements the capability
// identified by id.
func (r *Registry) SupportsInterface(id uint32) bool {
	switch id {
	case InterfaceAssetOwnership, InterfaceRoyalty, InterfaceMetadata:
		return true
	default:
		return false
	}
}
