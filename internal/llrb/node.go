// internal/llrb/node.go

package llrb

import (
	sll "github.com/emirpasic/gods/lists/singlylinkedlist"
)

type color bool

const (
	red   color = true
	black color = false
)

// node holds one distinct key and every value stored under it, oldest first.
type node[K, V any] struct {
	key    K
	values *sll.List
	color  color
	left   *node[K, V]
	right  *node[K, V]
}

func newNode[K, V any](key K, value V) *node[K, V] {
	return &node[K, V]{
		key:    key,
		values: sll.New(value),
		color:  red,
	}
}

// front returns the oldest value under the node's key.
func (n *node[K, V]) front() V {
	v, _ := n.values.Get(0)
	return as[V](v)
}

// as converts a list element back to V; a nil interface yields the zero V.
func as[V any](v interface{}) V {
	out, _ := v.(V)
	return out
}

// nil links are black
func isRed[K, V any](n *node[K, V]) bool {
	return n != nil && n.color == red
}

func flipColors[K, V any](h *node[K, V]) {
	h.color = !h.color
	h.left.color = !h.left.color
	h.right.color = !h.right.color
}

func rotateLeft[K, V any](h *node[K, V]) *node[K, V] {
	x := h.right
	h.right = x.left
	x.left = h
	x.color = h.color
	h.color = red
	return x
}

func rotateRight[K, V any](h *node[K, V]) *node[K, V] {
	x := h.left
	h.left = x.right
	x.right = h
	x.color = h.color
	h.color = red
	return x
}

// fixUp restores the left-leaning invariants on the way back up.
func fixUp[K, V any](h *node[K, V]) *node[K, V] {
	if isRed(h.right) && !isRed(h.left) {
		h = rotateLeft(h)
	}
	if isRed(h.left) && isRed(h.left.left) {
		h = rotateRight(h)
	}
	if isRed(h.left) && isRed(h.right) {
		flipColors(h)
	}
	return h
}

// moveRedLeft makes h.left or one of its children red, assuming h is red
// and both h.left and h.left.left are black.
func moveRedLeft[K, V any](h *node[K, V]) *node[K, V] {
	flipColors(h)
	if isRed(h.right.left) {
		h.right = rotateRight(h.right)
		h = rotateLeft(h)
		flipColors(h)
	}
	return h
}

// moveRedRight makes h.right or one of its children red, assuming h is red
// and both h.right and h.right.left are black.
func moveRedRight[K, V any](h *node[K, V]) *node[K, V] {
	flipColors(h)
	if isRed(h.left.left) {
		h = rotateRight(h)
		flipColors(h)
	}
	return h
}

func minNode[K, V any](h *node[K, V]) *node[K, V] {
	for h.left != nil {
		h = h.left
	}
	return h
}

func deleteMin[K, V any](h *node[K, V]) *node[K, V] {
	if h.left == nil {
		return nil
	}
	if !isRed(h.left) && !isRed(h.left.left) {
		h = moveRedLeft(h)
	}
	h.left = deleteMin(h.left)
	return fixUp(h)
}
