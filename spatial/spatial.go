// Package spatial declares the spatial-index contract referenced but not
// implemented by the core pipeline (spec §6, §9: "the spatial runtime's
// disabled state is referenced but not used in the core pipeline; it is
// an external collaborator here"). A KD-tree or similar nearest-node
// index is built and owned outside this module; the core engine never
// calls it directly.
package spatial

import "github.com/katalvlaran/taro/graphrt"

// Index is the nearest-node lookup contract an outer layer may use to
// resolve a raw coordinate into a node id before issuing a query. Not
// consumed anywhere in the core search path.
type Index interface {
	Nearest(query graphrt.Coordinate) (node int32, ok bool)
	KNearest(query graphrt.Coordinate, k int) []int32
}
