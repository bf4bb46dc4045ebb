package hypenv

import (
	"errors"
	"fmt"

	"github.com/inoxlang/hypenv/internal/memds"
)

var (
	ErrIndexRegionMismatch = errors.New("index does not point into the expected region")
)

// A Region is one of the two partitions of an Envs. The underlying boolean is the region flag
// used by Append and Replace: true for the intuitionistic region, false for the spatial one.
type Region bool

const (
	Intuitionistic Region = true
	Spatial        Region = false
)

func (r Region) String() string {
	if r == Intuitionistic {
		return "intuitionistic"
	}
	return "spatial"
}

// ParseRegion accepts the full region names and the short forms "i" and "s".
func ParseRegion(s string) (Region, error) {
	switch s {
	case "intuitionistic", "i":
		return Intuitionistic, nil
	case "spatial", "s":
		return Spatial, nil
	}
	return false, fmt.Errorf("invalid region %q", s)
}

// An Index points to an item of an Envs: it is either an index into the intuitionistic region
// or an index into the spatial region. Indexes are created by Envs.IndexOf & co and are only valid
// for Envs values whose region lengths are equal to the ones of the Envs they were created from.
type Index struct {
	region Region
	fin    memds.Fin
}

func (i Index) Region() Region {
	return i.region
}

// Value returns the position of the item in its region.
func (i Index) Value() int {
	return i.fin.Value()
}

func (i Index) Fin() memds.Fin {
	return i.fin
}

// FinIn returns the position of the item in region, an error wrapping ErrIndexRegionMismatch is
// returned if i points into the other region.
func (i Index) FinIn(region Region) (memds.Fin, error) {
	if i.region != region {
		return memds.Fin{}, fmt.Errorf("%w: %s is not an index into the %s region", ErrIndexRegionMismatch, i, region)
	}
	return i.fin, nil
}

// SameSlot reports whether i and other have the same region and the same position.
func (i Index) SameSlot(other Index) bool {
	return i.region == other.region && i.fin.Value() == other.fin.Value()
}

func (i Index) String() string {
	if i.region == Intuitionistic {
		return fmt.Sprintf("i:%d", i.fin.Value())
	}
	return fmt.Sprintf("s:%d", i.fin.Value())
}
