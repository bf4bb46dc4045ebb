package hypenv

import (
	"errors"
	"fmt"

	"github.com/inoxlang/hypenv/internal/memds"
)

var (
	ErrSameSlot = errors.New("the deleted index and the index to rebase point to the same slot")
)

// UpdateIndexAfterDelete computes the index that points in store.Delete(removeFromIntuitionistic, deleted)
// to the item other pointed to in store:
//
//   - an index into a region the deletion did not touch is unchanged,
//   - an index located before the deleted slot is unchanged,
//   - an index located after the deleted slot is decremented.
//
// UpdateIndexAfterDelete panics with ErrSameSlot if deleted and other point to the same slot, and with
// memds.ErrStaleIndex if one of the indexes is not valid for store. RebaseAfterDelete returns an error
// for the first case instead.
func UpdateIndexAfterDelete[T any](store Envs[T], removeFromIntuitionistic bool, deleted, other Index) Index {
	index, err := RebaseAfterDelete(store, removeFromIntuitionistic, deleted, other)
	if err != nil {
		panic(err)
	}
	return index
}

func RebaseAfterDelete[T any](store Envs[T], removeFromIntuitionistic bool, deleted, other Index) (Index, error) {
	deleted.fin.AssertValidFor(store.Region(deleted.region).Len())
	other.fin.AssertValidFor(store.Region(other.region).Len())

	if deleted.SameSlot(other) {
		return Index{}, fmt.Errorf("%w (%s)", ErrSameSlot, deleted)
	}

	if deleted.region != other.region {
		return other, nil
	}

	if deleted.region == Intuitionistic && !removeFromIntuitionistic {
		//the deletion was a no-op.
		return other, nil
	}

	switch other.fin.Compare(deleted.fin) {
	case -1:
		fin, err := other.fin.Rebound(other.fin.Bound() - 1)
		if err != nil {
			//unreachable: other.Value() < deleted.Value() < bound.
			panic(err)
		}
		return Index{region: other.region, fin: fin}, nil
	case 1:
		return Index{region: other.region, fin: other.fin.ShiftedDown()}, nil
	default:
		panic(errors.New("unreachable"))
	}
}

// RebaseAfterReplace is the equivalent of RebaseAfterDelete for Envs.Replace: the index is rebased after the
// deletion and then re-bound if the new item is appended to its region.
func RebaseAfterReplace[T any](store Envs[T], removeFromIntuitionistic bool, replaced, other Index, target Region) (Index, error) {
	index, err := RebaseAfterDelete(store, removeFromIntuitionistic, replaced, other)
	if err != nil {
		return Index{}, err
	}

	if index.region != target {
		return index, nil
	}

	fin, err := index.fin.Rebound(index.fin.Bound() + 1)
	if err != nil {
		return Index{}, err
	}
	return Index{region: index.region, fin: fin}, nil
}

// A Side tells in which part(s) of a split store an index remains valid.
type Side int

const (
	Left Side = iota + 1
	Right
	Both
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// RebaseAfterSplit returns the part of store.Split(mask) that contains the item pointed to by index and the
// index of the item in that part. Intuitionistic indexes are unchanged and valid in both parts.
// RebaseAfterSplit panics if the mask cannot be used to split store.
func RebaseAfterSplit[T any](store Envs[T], mask memds.Mask, index Index) (Side, Index) {
	if err := store.CheckMask(mask); err != nil {
		panic(err)
	}
	index.fin.AssertValidFor(store.Region(index.region).Len())

	if index.region == Intuitionistic {
		return Both, index
	}

	value := index.fin.Value()
	setBefore := mask.CountSetBefore(value)

	if mask.Test(value) {
		return Left, Index{region: Spatial, fin: mustFin(setBefore, mask.CountSet())}
	}
	return Right, Index{region: Spatial, fin: mustFin(value-setBefore, mask.Len()-mask.CountSet())}
}

// RebaseAfterAppend returns the index that points in store.Append(region, item) to the item index pointed to in store.
func RebaseAfterAppend[T any](store Envs[T], region Region, index Index) Index {
	index.fin.AssertValidFor(store.Region(index.region).Len())

	if index.region != region {
		return index
	}
	return Index{region: index.region, fin: mustFin(index.fin.Value(), index.fin.Bound()+1)}
}
