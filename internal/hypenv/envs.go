// Package hypenv implements environments of hypotheses: immutable stores made of an intuitionistic
// region, whose items are duplicated when the store is split, and a spatial region, whose
// items are partitioned when the store is split.
//
// All operations return new values. An Index obtained from a store should be rebased
// (see UpdateIndexAfterDelete) before being used with the result of an operation.
package hypenv

import (
	"fmt"

	"github.com/inoxlang/hypenv/internal/memds"
)

type Envs[T any] struct {
	intuitionistic memds.Env[T]
	spatial        memds.Env[T]
}

func NewEnvs[T any](intuitionistic, spatial memds.Env[T]) Envs[T] {
	return Envs[T]{
		intuitionistic: intuitionistic,
		spatial:        spatial,
	}
}

func EmptyEnvs[T any]() Envs[T] {
	return Envs[T]{}
}

func (e Envs[T]) Intuitionistic() memds.Env[T] {
	return e.intuitionistic
}

func (e Envs[T]) Spatial() memds.Env[T] {
	return e.spatial
}

func (e Envs[T]) Region(region Region) memds.Env[T] {
	if region == Intuitionistic {
		return e.intuitionistic
	}
	return e.spatial
}

// Len returns the total number of items.
func (e Envs[T]) Len() int {
	return e.intuitionistic.Len() + e.spatial.Len()
}

// IndexOf returns an Index for the item at position i of region, an error wrapping
// memds.ErrIndexOutOfBounds is returned if there is no such item.
func (e Envs[T]) IndexOf(region Region, i int) (Index, error) {
	fin, err := e.Region(region).Index(i)
	if err != nil {
		return Index{}, fmt.Errorf("%s region: %w", region, err)
	}
	return Index{region: region, fin: fin}, nil
}

func (e Envs[T]) IntuitionisticIndex(i int) (Index, error) {
	return e.IndexOf(Intuitionistic, i)
}

func (e Envs[T]) SpatialIndex(i int) (Index, error) {
	return e.IndexOf(Spatial, i)
}

// Indices returns all valid indexes of e, intuitionistic ones first.
func (e Envs[T]) Indices() []Index {
	indices := make([]Index, 0, e.Len())
	for _, region := range []Region{Intuitionistic, Spatial} {
		length := e.Region(region).Len()
		for i := 0; i < length; i++ {
			indices = append(indices, Index{region: region, fin: mustFin(i, length)})
		}
	}
	return indices
}

// Append returns a new store with item appended to region, the other region is unchanged.
func (e Envs[T]) Append(region Region, item T) Envs[T] {
	if region == Intuitionistic {
		e.intuitionistic = e.intuitionistic.Append(item)
	} else {
		e.spatial = e.spatial.Append(item)
	}
	return e
}

// IndexAfterAppend returns the index an item appended to region would have.
func (e Envs[T]) IndexAfterAppend(region Region) Index {
	length := e.Region(region).Len() + 1
	return Index{region: region, fin: mustFin(length-1, length)}
}

// Lookup returns the region of the item pointed to by index and the item itself.
func (e Envs[T]) Lookup(index Index) (Region, T) {
	return index.region, e.Region(index.region).Get(index.fin)
}

// LookupIn is like Lookup but returns an error wrapping ErrIndexRegionMismatch if index does not point into region.
func (e Envs[T]) LookupIn(region Region, index Index) (T, error) {
	fin, err := index.FinIn(region)
	if err != nil {
		var zero T
		return zero, err
	}
	return e.Region(region).Get(fin), nil
}

// Delete removes the item pointed to by index. Spatial items are always removed, intuitionistic
// items are only removed if removeFromIntuitionistic is true: otherwise e is returned unchanged.
func (e Envs[T]) Delete(removeFromIntuitionistic bool, index Index) Envs[T] {
	if index.region == Spatial {
		e.spatial = e.spatial.Delete(index.fin)
		return e
	}

	//a stale index is rejected even if the store is left unchanged.
	index.fin.AssertValidFor(e.intuitionistic.Len())

	if removeFromIntuitionistic {
		e.intuitionistic = e.intuitionistic.Delete(index.fin)
	}
	return e
}

// LookupDelete combines Lookup and Delete.
func (e Envs[T]) LookupDelete(removeFromIntuitionistic bool, index Index) (Region, T, Envs[T]) {
	region, item := e.Lookup(index)
	return region, item, e.Delete(removeFromIntuitionistic, index)
}

// Replace deletes the item pointed to by index (see Delete) and appends item to the target region.
// The new item is never placed in the slot of the old one.
func (e Envs[T]) Replace(removeFromIntuitionistic bool, index Index, target Region, item T) Envs[T] {
	return e.Delete(removeFromIntuitionistic, index).Append(target, item)
}

// ReplaceIndex is like Replace but also returns the index of the new item.
func (e Envs[T]) ReplaceIndex(removeFromIntuitionistic bool, index Index, target Region, item T) (Envs[T], Index) {
	afterDeletion := e.Delete(removeFromIntuitionistic, index)
	newIndex := afterDeletion.IndexAfterAppend(target)
	return afterDeletion.Append(target, item), newIndex
}

// Split returns two stores that both have the intuitionistic region of e, the spatial region is
// partitioned according to mask (see memds.Env.Split). Split panics if the mask has not the length
// of the spatial region, see SplitChecked.
func (e Envs[T]) Split(mask memds.Mask) (Envs[T], Envs[T]) {
	left, right := e.spatial.Split(mask)
	return Envs[T]{intuitionistic: e.intuitionistic, spatial: left},
		Envs[T]{intuitionistic: e.intuitionistic, spatial: right}
}

func (e Envs[T]) CheckMask(mask memds.Mask) error {
	if err := e.spatial.CheckMask(mask); err != nil {
		return fmt.Errorf("spatial region: %w", err)
	}
	return nil
}

func (e Envs[T]) SplitChecked(mask memds.Mask) (Envs[T], Envs[T], error) {
	if err := e.CheckMask(mask); err != nil {
		return Envs[T]{}, Envs[T]{}, err
	}
	left, right := e.Split(mask)
	return left, right, nil
}

// ClearSpatial returns a store with the same intuitionistic region and an empty spatial region.
func (e Envs[T]) ClearSpatial() Envs[T] {
	return Envs[T]{intuitionistic: e.intuitionistic}
}

// SpatialForAll reports whether all spatial items satisfy predicate.
func (e Envs[T]) SpatialForAll(predicate func(item T) bool) bool {
	return e.spatial.ForAll(predicate)
}

// ForAll reports whether all items satisfy predicate.
func (e Envs[T]) ForAll(predicate func(region Region, item T) bool) bool {
	return e.intuitionistic.ForAll(func(item T) bool { return predicate(Intuitionistic, item) }) &&
		e.spatial.ForAll(func(item T) bool { return predicate(Spatial, item) })
}

func (e Envs[T]) String() string {
	return fmt.Sprintf("{intuitionistic: %s, spatial: %s}", e.intuitionistic, e.spatial)
}

func mustFin(value, bound int) memds.Fin {
	fin, err := memds.NewFin(value, bound)
	if err != nil {
		panic(err)
	}
	return fin
}
