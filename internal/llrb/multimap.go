// internal/llrb/multimap.go

// Package llrb implements an ordered multimap on top of a left-leaning
// red-black tree. Every distinct key owns one node; values inserted under an
// existing key are appended to that node's list and come back out oldest
// first. Lookups and updates are O(log n) in the number of distinct keys.
//
// A Multimap is not safe for concurrent use.
package llrb

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by queries on an absent key or an empty Multimap.
var ErrNotFound = errors.New("llrb: key not found")

// Multimap maps keys of type K to FIFO lists of values of type V.
type Multimap[K, V any] struct {
	root    *node[K, V]
	size    int
	compare func(a, b K) int
}

// New creates an empty Multimap ordered by the natural order of K.
func New[K cmp.Ordered, V any]() *Multimap[K, V] {
	return NewWith[K, V](cmp.Compare[K])
}

// NewWith creates an empty Multimap ordered by compare, which must return a
// negative number, zero or a positive number like cmp.Compare.
func NewWith[K, V any](compare func(a, b K) int) *Multimap[K, V] {
	if compare == nil {
		panic("llrb: nil comparator")
	}
	return &Multimap[K, V]{compare: compare}
}

// Size returns the number of values stored across all keys.
func (m *Multimap[K, V]) Size() int { return m.size }

// Empty reports whether the Multimap holds no values.
func (m *Multimap[K, V]) Empty() bool { return m.size == 0 }

// Contains reports whether at least one value is stored under key.
func (m *Multimap[K, V]) Contains(key K) bool {
	return m.lookup(key) != nil
}

// Get returns the oldest value stored under key.
func (m *Multimap[K, V]) Get(key K) (V, error) {
	n := m.lookup(key)
	if n == nil {
		var zero V
		return zero, ErrNotFound
	}
	return n.front(), nil
}

// Values returns every value stored under key, oldest first.
func (m *Multimap[K, V]) Values(key K) []V {
	n := m.lookup(key)
	if n == nil {
		return nil
	}
	out := make([]V, 0, n.values.Size())
	n.values.Each(func(_ int, v interface{}) {
		out = append(out, as[V](v))
	})
	return out
}

// Min returns the smallest key.
func (m *Multimap[K, V]) Min() (K, error) {
	if m.root == nil {
		var zero K
		return zero, ErrNotFound
	}
	return minNode(m.root).key, nil
}

// Max returns the largest key.
func (m *Multimap[K, V]) Max() (K, error) {
	if m.root == nil {
		var zero K
		return zero, ErrNotFound
	}
	n := m.root
	for n.right != nil {
		n = n.right
	}
	return n.key, nil
}

func (m *Multimap[K, V]) lookup(key K) *node[K, V] {
	n := m.root
	for n != nil {
		c := m.compare(key, n.key)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Insert appends value to the list stored under key.
func (m *Multimap[K, V]) Insert(key K, value V) {
	m.root = m.insert(m.root, key, value)
	m.root.color = black
	m.size++
}

func (m *Multimap[K, V]) insert(h *node[K, V], key K, value V) *node[K, V] {
	if h == nil {
		return newNode(key, value)
	}
	c := m.compare(key, h.key)
	switch {
	case c < 0:
		h.left = m.insert(h.left, key, value)
	case c > 0:
		h.right = m.insert(h.right, key, value)
	default:
		h.values.Add(value)
	}
	return fixUp(h)
}

// Remove drops the oldest value stored under key, and the key itself once
// its last value is gone. Removing an absent key does nothing.
func (m *Multimap[K, V]) Remove(key K) {
	if !m.Contains(key) {
		return
	}
	if !isRed(m.root.left) && !isRed(m.root.right) {
		m.root.color = red
	}
	m.root = m.remove(m.root, key)
	if m.root != nil {
		m.root.color = black
	}
	m.size--
}

// remove expects key to be present under h.
func (m *Multimap[K, V]) remove(h *node[K, V], key K) *node[K, V] {
	if m.compare(key, h.key) < 0 {
		if !isRed(h.left) && !isRed(h.left.left) {
			h = moveRedLeft(h)
		}
		h.left = m.remove(h.left, key)
		return fixUp(h)
	}

	if isRed(h.left) {
		h = rotateRight(h)
	}
	if m.compare(key, h.key) == 0 && h.right == nil {
		if h.values.Size() > 1 {
			h.values.Remove(0)
			return h
		}
		return nil
	}
	if !isRed(h.right) && !isRed(h.right.left) {
		h = moveRedRight(h)
	}
	if m.compare(key, h.key) == 0 {
		if h.values.Size() > 1 {
			h.values.Remove(0)
		} else {
			succ := minNode(h.right)
			h.key = succ.key
			h.values = succ.values
			h.right = deleteMin(h.right)
		}
	} else {
		h.right = m.remove(h.right, key)
	}
	return fixUp(h)
}

// Clear removes everything.
func (m *Multimap[K, V]) Clear() {
	m.root = nil
	m.size = 0
}

// Each calls fn for every stored pair in key order, values under one key
// oldest first. Iteration stops as soon as fn returns false.
func (m *Multimap[K, V]) Each(fn func(key K, value V) bool) {
	each(m.root, fn)
}

func each[K, V any](h *node[K, V], fn func(K, V) bool) bool {
	if h == nil {
		return true
	}
	if !each(h.left, fn) {
		return false
	}
	it := h.values.Iterator()
	for it.Next() {
		if !fn(h.key, as[V](it.Value())) {
			return false
		}
	}
	return each(h.right, fn)
}

// Keys returns the distinct keys in ascending order.
func (m *Multimap[K, V]) Keys() []K {
	var keys []K
	var walk func(h *node[K, V])
	walk = func(h *node[K, V]) {
		if h == nil {
			return
		}
		walk(h.left)
		keys = append(keys, h.key)
		walk(h.right)
	}
	walk(m.root)
	return keys
}

// String renders the contents in order as "<k,v> <k,v> ...".
func (m *Multimap[K, V]) String() string {
	var sb strings.Builder
	m.Each(func(k K, v V) bool {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "<%v,%v>", k, v)
		return true
	})
	return sb.String()
}
