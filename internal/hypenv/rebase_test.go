package hypenv

import (
	"fmt"
	"sync"
	"testing"

	"github.com/inoxlang/hypenv/internal/memds"
	"github.com/stretchr/testify/assert"
)

func TestUpdateIndexAfterDelete(t *testing.T) {

	t.Run("concrete scenario", func(t *testing.T) {
		store := NewEnvs(memds.EnvOf("A"), memds.EnvOf("B", "C", "D"))
		c := mustIndexOf(t, store, Spatial, 1)

		for _, flag := range []bool{true, false} {
			newStore := store.Delete(flag, c)

			d := UpdateIndexAfterDelete(store, flag, c, mustIndexOf(t, store, Spatial, 2))
			assert.Equal(t, mustIndexOf(t, newStore, Spatial, 1), d)
			_, item := newStore.Lookup(d)
			assert.Equal(t, "D", item)

			b := UpdateIndexAfterDelete(store, flag, c, mustIndexOf(t, store, Spatial, 0))
			assert.Equal(t, mustIndexOf(t, newStore, Spatial, 0), b)
			_, item = newStore.Lookup(b)
			assert.Equal(t, "B", item)

			a := UpdateIndexAfterDelete(store, flag, c, mustIndexOf(t, store, Intuitionistic, 0))
			assert.Equal(t, mustIndexOf(t, store, Intuitionistic, 0), a)
			region, item := newStore.Lookup(a)
			assert.Equal(t, Intuitionistic, region)
			assert.Equal(t, "A", item)
		}
	})

	t.Run("intuitionistic deletion", func(t *testing.T) {
		store := NewEnvs(memds.EnvOf("A", "B", "C"), memds.EnvOf("D"))
		b := mustIndexOf(t, store, Intuitionistic, 1)

		t.Run("no-op deletion leaves indexes unchanged", func(t *testing.T) {
			c := mustIndexOf(t, store, Intuitionistic, 2)
			assert.Equal(t, c, UpdateIndexAfterDelete(store, false, b, c))
		})

		t.Run("real deletion", func(t *testing.T) {
			newStore := store.Delete(true, b)

			c := UpdateIndexAfterDelete(store, true, b, mustIndexOf(t, store, Intuitionistic, 2))
			assert.Equal(t, mustIndexOf(t, newStore, Intuitionistic, 1), c)

			a := UpdateIndexAfterDelete(store, true, b, mustIndexOf(t, store, Intuitionistic, 0))
			assert.Equal(t, mustIndexOf(t, newStore, Intuitionistic, 0), a)
		})

		t.Run("spatial index is unchanged", func(t *testing.T) {
			d := mustIndexOf(t, store, Spatial, 0)
			assert.Equal(t, d, UpdateIndexAfterDelete(store, true, b, d))
		})
	})

	t.Run("same slot", func(t *testing.T) {
		store := NewEnvs(memds.EnvOf("A"), memds.EnvOf("B"))

		for _, region := range []Region{Intuitionistic, Spatial} {
			index := mustIndexOf(t, store, region, 0)

			assert.PanicsWithError(t, fmt.Sprintf("%s (%s)", ErrSameSlot, index), func() {
				UpdateIndexAfterDelete(store, true, index, index)
			})

			rebased, err := RebaseAfterDelete(store, false, index, index)
			assert.ErrorIs(t, err, ErrSameSlot)

			//the index returned with the error cannot be used.
			assert.PanicsWithError(t, fmt.Sprintf("%s: invalid index 0/0", memds.ErrIndexOutOfBounds), func() {
				store.Lookup(rebased)
			})
		}
	})

	t.Run("same value in different regions is not the same slot", func(t *testing.T) {
		store := NewEnvs(memds.EnvOf("A"), memds.EnvOf("B"))
		a := mustIndexOf(t, store, Intuitionistic, 0)
		b := mustIndexOf(t, store, Spatial, 0)

		assert.False(t, a.SameSlot(b))
		assert.Equal(t, a, UpdateIndexAfterDelete(store, true, b, a))
	})

	t.Run("stale index", func(t *testing.T) {
		store := NewEnvs(memds.EnvOf("A"), memds.EnvOf("B", "C"))
		stale := mustIndexOf(t, store, Spatial, 0)
		newStore := store.Append(Spatial, "D")

		assert.Panics(t, func() {
			UpdateIndexAfterDelete(newStore, true, mustIndexOf(t, newStore, Spatial, 1), stale)
		})
	})

	t.Run("rebasing always preserves the denoted item", func(t *testing.T) {
		stores := []Envs[string]{
			NewEnvs(memds.EnvOf("i0"), memds.EnvOf("s0")),
			NewEnvs(memds.EnvOf("i0", "i1", "i2"), memds.EnvOf("s0", "s1", "s2", "s3")),
			NewEnvs(memds.EmptyEnv[string](), memds.EnvOf("s0", "s1", "s2")),
			NewEnvs(memds.EnvOf("i0", "i1", "i2"), memds.EmptyEnv[string]()),
		}

		for _, store := range stores {
			for _, flag := range []bool{true, false} {
				for _, deleted := range store.Indices() {
					newStore := store.Delete(flag, deleted)

					for _, other := range store.Indices() {
						if deleted.SameSlot(other) {
							continue
						}
						rebased := UpdateIndexAfterDelete(store, flag, deleted, other)

						expectedRegion, expectedItem := store.Lookup(other)
						region, item := newStore.Lookup(rebased)

						assert.Equal(t, expectedRegion, region)
						assert.Equal(t, expectedItem, item, "store %s, flag %t, deleted %s, other %s", store, flag, deleted, other)
					}
				}
			}
		}
	})

	t.Run("concurrent rebasing on a shared store", func(t *testing.T) {
		store := NewEnvs(memds.EnvOf("i0", "i1"), memds.EnvOf("s0", "s1", "s2", "s3", "s4"))
		deleted := mustIndexOf(t, store, Spatial, 2)

		expected := map[string]Index{}
		for _, other := range store.Indices() {
			if !other.SameSlot(deleted) {
				expected[other.String()] = UpdateIndexAfterDelete(store, true, deleted, other)
			}
		}

		wg := new(sync.WaitGroup)
		results := make([]map[string]Index, 10)

		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				result := map[string]Index{}
				for _, other := range store.Indices() {
					if !other.SameSlot(deleted) {
						result[other.String()] = UpdateIndexAfterDelete(store, true, deleted, other)
					}
				}
				results[i] = result
			}(i)
		}
		wg.Wait()

		for _, result := range results {
			assert.Equal(t, expected, result)
		}
	})
}

func TestRebaseAfterReplace(t *testing.T) {
	store := NewEnvs(memds.EnvOf("i0", "i1"), memds.EnvOf("s0", "s1", "s2"))

	for _, target := range []Region{Intuitionistic, Spatial} {
		for _, flag := range []bool{true, false} {
			for _, replaced := range store.Indices() {
				newStore := store.Replace(flag, replaced, target, "new")

				for _, other := range store.Indices() {
					if replaced.SameSlot(other) {
						continue
					}
					rebased, err := RebaseAfterReplace(store, flag, replaced, other, target)
					if !assert.NoError(t, err) {
						return
					}
					_, expectedItem := store.Lookup(other)
					_, item := newStore.Lookup(rebased)
					assert.Equal(t, expectedItem, item)
				}
			}
		}
	}

	index := mustIndexOf(t, store, Spatial, 0)
	_, err := RebaseAfterReplace(store, true, index, index, Spatial)
	assert.ErrorIs(t, err, ErrSameSlot)
}

func TestRebaseAfterSplit(t *testing.T) {
	store := NewEnvs(memds.EnvOf("i0"), memds.EnvOf("s0", "s1", "s2", "s3"))
	mask := memds.NewMask([]bool{false, true, true, false})
	left, right := store.Split(mask)

	for _, index := range store.Indices() {
		side, rebased := RebaseAfterSplit(store, mask, index)
		_, expectedItem := store.Lookup(index)

		switch side {
		case Both:
			assert.Equal(t, Intuitionistic, index.Region())
			_, leftItem := left.Lookup(rebased)
			_, rightItem := right.Lookup(rebased)
			assert.Equal(t, expectedItem, leftItem)
			assert.Equal(t, expectedItem, rightItem)
		case Left:
			_, item := left.Lookup(rebased)
			assert.Equal(t, expectedItem, item)
		case Right:
			_, item := right.Lookup(rebased)
			assert.Equal(t, expectedItem, item)
		default:
			assert.Fail(t, "unexpected side", side)
		}
	}

	side, rebased := RebaseAfterSplit(store, mask, mustIndexOf(t, store, Spatial, 3))
	assert.Equal(t, Right, side)
	assert.Equal(t, "s:1", rebased.String())

	assert.Panics(t, func() {
		RebaseAfterSplit(store, memds.NewMask([]bool{true}), mustIndexOf(t, store, Spatial, 0))
	})
}

func TestRebaseAfterAppend(t *testing.T) {
	store := NewEnvs(memds.EnvOf("i0"), memds.EnvOf("s0", "s1"))

	for _, region := range []Region{Intuitionistic, Spatial} {
		newStore := store.Append(region, "new")

		for _, index := range store.Indices() {
			rebased := RebaseAfterAppend(store, region, index)
			_, expectedItem := store.Lookup(index)
			_, item := newStore.Lookup(rebased)
			assert.Equal(t, expectedItem, item)
		}
	}
}
