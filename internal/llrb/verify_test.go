package llrb

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkInvariants walks the whole tree and reports the first broken
// left-leaning red-black invariant, or a size counter that disagrees with
// the stored values.
func checkInvariants[K, V any](m *Multimap[K, V]) error {
	if isRed(m.root) {
		return fmt.Errorf("root is red")
	}
	blackHeight := -1
	values := 0
	var walk func(h *node[K, V], blacks int, parentRed bool) error
	walk = func(h *node[K, V], blacks int, parentRed bool) error {
		if h == nil {
			if blackHeight < 0 {
				blackHeight = blacks
			} else if blackHeight != blacks {
				return fmt.Errorf("black height mismatch: %d vs %d", blackHeight, blacks)
			}
			return nil
		}
		if h.values.Empty() {
			return fmt.Errorf("node %v has no values", h.key)
		}
		values += h.values.Size()
		if isRed(h.right) {
			return fmt.Errorf("right-leaning red link below %v", h.key)
		}
		if parentRed && isRed(h) {
			return fmt.Errorf("consecutive red links at %v", h.key)
		}
		if h.left != nil && m.compare(h.left.key, h.key) >= 0 {
			return fmt.Errorf("left child %v not below %v", h.left.key, h.key)
		}
		if h.right != nil && m.compare(h.right.key, h.key) <= 0 {
			return fmt.Errorf("right child %v not above %v", h.right.key, h.key)
		}
		if !isRed(h) {
			blacks++
		}
		if err := walk(h.left, blacks, isRed(h)); err != nil {
			return err
		}
		return walk(h.right, blacks, isRed(h))
	}
	if err := walk(m.root, 0, false); err != nil {
		return err
	}

	// in-order keys must be strictly increasing across nodes
	keys := m.Keys()
	for i := 1; i < len(keys); i++ {
		if m.compare(keys[i-1], keys[i]) >= 0 {
			return fmt.Errorf("keys out of order: %v then %v", keys[i-1], keys[i])
		}
	}
	if values != m.size {
		return fmt.Errorf("size %d but %d values stored", m.size, values)
	}
	return nil
}

func requireValid[K, V any](t *testing.T, m *Multimap[K, V]) {
	t.Helper()
	require.NoError(t, checkInvariants(m))
}
