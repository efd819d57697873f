// Package idmap declares the external-id mapping contract consumed by the
// engine composition root (spec §6): a bidirectional mapping between
// caller-facing string ids and the dense internal [0, size) node-index
// range the graph runtime operates on. No implementation is provided here
// — the mapping is built and owned by an outer layer (e.g. a gazetteer or
// a simple sorted-string-table) and handed to the engine.
package idmap

// UnknownID is returned by ToInternal when external is not present in the
// mapping.
const UnknownID int32 = -1

// Mapping is the bidirectional external-id <-> internal-id contract (spec
// §6). Internal ids form a dense [0, Size) range matching the bound
// graph's node count.
type Mapping interface {
	ToInternal(external string) int32
	ToExternal(internal int32) (string, bool)
	ContainsExternal(external string) bool
	ContainsInternal(internal int32) bool
	Size() int
}
