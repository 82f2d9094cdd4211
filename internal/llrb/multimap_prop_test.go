package llrb

import (
	"testing"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const propKeySpace = 16

// entry orders the reference model by key, then by insertion sequence, which
// is the order the multimap promises to hand values back in.
type entry struct {
	key int
	seq int
}

func entryComparator(a, b interface{}) int {
	ea, eb := a.(entry), b.(entry)
	switch {
	case ea.key < eb.key:
		return -1
	case ea.key > eb.key:
		return 1
	case ea.seq < eb.seq:
		return -1
	case ea.seq > eb.seq:
		return 1
	default:
		return 0
	}
}

// apply replays ops against both the multimap and a gods red-black tree.
// A non-negative op inserts key op, a negative op removes key -op-1.
func apply(ops []int) (*Multimap[int, int], *redblacktree.Tree, error) {
	m := New[int, int]()
	model := redblacktree.NewWith(entryComparator)
	for seq, op := range ops {
		if op >= 0 {
			m.Insert(op, seq)
			model.Put(entry{op, seq}, seq)
		} else {
			key := -op - 1
			m.Remove(key)
			if n, ok := model.Ceiling(entry{key, -1}); ok && n.Key.(entry).key == key {
				model.Remove(n.Key)
			}
		}
		if err := checkInvariants(m); err != nil {
			return m, model, err
		}
	}
	return m, model, nil
}

func genOps() gopter.Gen {
	return gen.SliceOf(gen.IntRange(-propKeySpace, propKeySpace-1))
}

func Test_MultimapInvariantsHoldAfterEveryOp(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("LLRB invariants hold after every insert and remove", prop.ForAll(
		func(ops []int) bool {
			_, _, err := apply(ops)
			return err == nil
		},
		genOps(),
	))

	properties.TestingRun(t)
}

func Test_MultimapMatchesReferenceModel(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("contents equal an ordered model keyed by (key, seq)", prop.ForAll(
		func(ops []int) bool {
			m, model, err := apply(ops)
			if err != nil || m.Size() != model.Size() {
				return false
			}
			it := model.Iterator()
			ok := true
			m.Each(func(k, v int) bool {
				if !it.Next() {
					ok = false
					return false
				}
				e := it.Key().(entry)
				ok = e.key == k && it.Value().(int) == v
				return ok
			})
			return ok && !it.Next()
		},
		genOps(),
	))

	properties.Property("size equals inserts minus effective removes", prop.ForAll(
		func(ops []int) bool {
			m := New[int, int]()
			live := map[int]int{}
			inserted, removed := 0, 0
			for _, op := range ops {
				if op >= 0 {
					m.Insert(op, op)
					live[op]++
					inserted++
					continue
				}
				key := -op - 1
				if live[key] > 0 {
					live[key]--
					removed++
				}
				m.Remove(key)
			}
			return m.Size() == inserted-removed
		},
		genOps(),
	))

	properties.Property("min and max agree with the model", prop.ForAll(
		func(ops []int) bool {
			m, model, err := apply(ops)
			if err != nil {
				return false
			}
			lo, errLo := m.Min()
			hi, errHi := m.Max()
			if model.Empty() {
				return errLo == ErrNotFound && errHi == ErrNotFound
			}
			return errLo == nil && errHi == nil &&
				lo == model.Left().Key.(entry).key &&
				hi == model.Right().Key.(entry).key
		},
		genOps(),
	))

	properties.TestingRun(t)
}
