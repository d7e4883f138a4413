package field

import (
	"maps"
	"slices"
)

// NameMap maps an index to a name. Iterate with Keys for ascending order.
type NameMap map[uint32]string

// IndirectNameMap maps an index to a nested NameMap.
type IndirectNameMap map[uint32]NameMap

// Keys returns the indices in ascending order.
func (m NameMap) Keys() []uint32 {
	return sortedKeys(m)
}

// Keys returns the outer indices in ascending order.
func (m IndirectNameMap) Keys() []uint32 {
	return sortedKeys(m)
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	return slices.Sorted(maps.Keys(m))
}
