package tree

import (
	"math/rand"
	"testing"

	"github.com/benbjohnson/immutable"
)

var intHasher = immutable.NewHasher[any](int(0))

type tr = Tree[any, any]

func mkTest(t *testing.T) (
	func(tree tr, key, val interface{}),
	func(tr, interface{}),
) {
	return func(tree tr, key, expectVal interface{}) {
			if val, found := tree.Lookup(key); found {
				if val != expectVal {
					t.Errorf("Lookup(%v) = %v, expected: %v", key, val, expectVal)
				}
			} else {
				t.Error("Expected hit for", key)
			}
		}, func(tree tr, key interface{}) {
			if _, found := tree.Lookup(key); found {
				t.Fatal("Expected miss for", key)
			}
		}
}

func TestEmpty(t *testing.T) {
	tree := NewTree[any, any](intHasher)
	_, miss := mkTest(t)
	miss(tree, 0)
}

func TestInsertLookup(t *testing.T) {
	hit, miss := mkTest(t)

	tree := NewTree[any, any](intHasher)
	for i := 0; i < 100; i++ {
		tree = tree.Insert(i, i*2)
	}

	for i := 0; i < 100; i++ {
		hit(tree, i, i*2)
	}
	miss(tree, 100)
}

func TestInsertPersistence(t *testing.T) {
	hit, miss := mkTest(t)

	t0 := NewTree[any, any](intHasher)
	t1 := t0.Insert(1, "a")
	t2 := t1.Insert(2, "b")
	t3 := t2.Insert(1, "c")

	miss(t0, 1)
	hit(t1, 1, "a")
	miss(t1, 2)
	hit(t2, 1, "a")
	hit(t2, 2, "b")
	hit(t3, 1, "c")
	hit(t3, 2, "b")
}

func TestRemove(t *testing.T) {
	hit, miss := mkTest(t)

	tree := NewTree[any, any](intHasher)
	for i := 0; i < 50; i++ {
		tree = tree.Insert(i, i)
	}

	removed := tree.Remove(25)
	miss(removed, 25)
	hit(tree, 25, 25)

	for i := 0; i < 50; i++ {
		if i != 25 {
			hit(removed, i, i)
		}
	}
}

// collidingHasher maps every key to the same hash, forcing all bindings
// into a single leaf.
type collidingHasher struct{}

func (collidingHasher) Hash(any) uint32    { return 42 }
func (collidingHasher) Equal(a, b any) bool { return a == b }

func TestHashCollisions(t *testing.T) {
	hit, miss := mkTest(t)

	tree := NewTree[any, any](collidingHasher{})
	for i := 0; i < 10; i++ {
		tree = tree.Insert(i, i+100)
	}

	for i := 0; i < 10; i++ {
		hit(tree, i, i+100)
	}

	removed := tree.Remove(5)
	miss(removed, 5)
	hit(removed, 4, 104)
}

func TestEqual(t *testing.T) {
	eq := func(a, b any) bool { return a == b }

	a := NewTree[any, any](intHasher)
	b := NewTree[any, any](intHasher)

	perm := rand.Perm(100)
	for _, i := range perm {
		a = a.Insert(i, i)
	}
	for i := 0; i < 100; i++ {
		b = b.Insert(i, i)
	}

	if !a.Equal(b, eq) {
		t.Error("Expected trees with identical bindings to be equal")
	}

	b = b.Insert(3, -1)
	if a.Equal(b, eq) {
		t.Error("Expected trees with different bindings to be unequal")
	}

	if a.Equal(a.Remove(0), eq) {
		t.Error("Expected tree and its contraction to be unequal")
	}
}

func TestSize(t *testing.T) {
	tree := NewTree[any, any](intHasher)
	for i := 0; i < 10; i++ {
		tree = tree.Insert(i, i)
		// Overwrites must not grow the map.
		tree = tree.Insert(i, i*2)
	}

	if sz := tree.Size(); sz != 10 {
		t.Errorf("Size() = %d, expected 10", sz)
	}
}
